package handlers

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/wikibio/pkg/history"
)

// Build information - can be set at build time using ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// HealthHandler handles health check requests
type HealthHandler struct {
	store history.Store
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store history.Store) *HealthHandler {
	return &HealthHandler{
		store: store,
	}
}

// HealthCheck handles GET /health - basic liveness check
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "wikibio",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

// LivenessCheck handles GET /live - Kubernetes liveness probe endpoint
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"service":   "wikibio",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadinessCheck handles GET /ready
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	response := gin.H{
		"status":    "ready",
		"service":   "wikibio",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    gin.H{},
	}

	allHealthy := true
	checks := response["checks"].(gin.H)

	if h.store != nil {
		storeStart := time.Now()

		// Probe the store with an id that cannot exist; a not-found
		// result proves connectivity without side effects.
		_, err := h.store.Get(ctx, "health-check-non-existent-id")
		storeDuration := time.Since(storeStart)

		if err != nil && !errors.Is(err, history.ErrChatNotFound) {
			checks["history_store"] = gin.H{
				"status":   "unhealthy",
				"error":    err.Error(),
				"duration": storeDuration.String(),
			}
			allHealthy = false
		} else {
			checks["history_store"] = gin.H{
				"status":   "healthy",
				"duration": storeDuration.String(),
			}
		}
	} else {
		checks["history_store"] = gin.H{
			"status": "unhealthy",
			"error":  "history store not initialized",
		}
		allHealthy = false
	}

	checks["system"] = gin.H{
		"status":     "healthy",
		"goroutines": runtime.NumGoroutine(),
		"go_version": GoVersion,
	}

	if !allHealthy {
		response["status"] = "not_ready"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	c.JSON(http.StatusOK, response)
}
