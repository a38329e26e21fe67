package wikidata

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"github.com/soundprediction/wikibio/pkg/config"
)

// Executor runs a SPARQL query and returns the raw result rows.
// *Client implements it; BreakerExecutor wraps any implementation.
type Executor interface {
	Query(ctx context.Context, query string) ([]Binding, error)
}

// BreakerExecutor wraps an Executor with circuit breaking so a dying
// query service stops receiving traffic instead of tying up requests
// until their timeouts.
type BreakerExecutor struct {
	exec Executor
	cb   *gobreaker.CircuitBreaker
}

// NotifyFunc receives circuit breaker state transitions.
type NotifyFunc func(name, from, to string)

// NewBreakerExecutor creates a circuit-breaking executor. The breaker
// trips once at least 3 requests in the interval fail at or above the
// configured ratio.
func NewBreakerExecutor(exec Executor, cfg config.CircuitBreakerConfig) *BreakerExecutor {
	return NewBreakerExecutorNotify(exec, cfg, nil)
}

// NewBreakerExecutorNotify creates a circuit-breaking executor that
// reports every state transition to notify, e.g. for operator alerts.
func NewBreakerExecutorNotify(exec Executor, cfg config.CircuitBreakerConfig, notify NotifyFunc) *BreakerExecutor {
	st := gobreaker.Settings{
		Name:        "wdqs",
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.Interval) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= cfg.ReadyToTripRatio
		},
	}
	if notify != nil {
		st.OnStateChange = func(name string, from, to gobreaker.State) {
			notify(name, from.String(), to.String())
		}
	}
	return &BreakerExecutor{
		exec: exec,
		cb:   gobreaker.NewCircuitBreaker(st),
	}
}

// Query implements Executor. An open breaker surfaces as UpstreamError
// so callers see the same taxonomy as a direct transport failure.
func (b *BreakerExecutor) Query(ctx context.Context, query string) ([]Binding, error) {
	rows, err := b.cb.Execute(func() (interface{}, error) {
		return b.exec.Query(ctx, query)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, &UpstreamError{Endpoint: "sparql", Message: err.Error()}
		}
		return nil, err
	}
	return rows.([]Binding), nil
}
