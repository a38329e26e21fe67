package types

// ValidationError reports malformed local input: a bad identifier, an
// out-of-range year. It is raised immediately and is never worth
// retrying.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is implements errors.Is support for ValidationError.
// This allows errors.Is(err, &ValidationError{}) to work with wrapped errors.
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}
