package wikidata

import "fmt"

// UpstreamError reports a non-success transport response from either
// Wikidata endpoint. It is not retried at this layer; retry policy
// belongs to the caller.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream error from %s (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream error from %s: %s", e.Endpoint, e.Message)
}

// Is implements errors.Is support for UpstreamError.
// This allows errors.Is(err, &UpstreamError{}) to work with wrapped errors.
func (e *UpstreamError) Is(target error) bool {
	_, ok := target.(*UpstreamError)
	return ok
}

// ParseError reports a response body that does not match the expected
// result shape.
type ParseError struct {
	Endpoint string
	Message  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error from %s: %s", e.Endpoint, e.Message)
}

// Is implements errors.Is support for ParseError.
// This allows errors.Is(err, &ParseError{}) to work with wrapped errors.
func (e *ParseError) Is(target error) bool {
	_, ok := target.(*ParseError)
	return ok
}
