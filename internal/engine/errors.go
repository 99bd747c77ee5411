package engine

import "errors"

// ErrMalformedPayload marks a topology document that parsed but lacks the
// identity fields a node or edge needs. It is retried like any fetch failure.
var ErrMalformedPayload = errors.New("malformed topology payload")

// FetchError is a failed poll: transport failure, non-2xx status or a
// malformed payload. It is always recoverable through backoff.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return "fetch topology: " + e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Malformed reports whether the response arrived but could not be used.
func (e *FetchError) Malformed() bool {
	return errors.Is(e.Err, ErrMalformedPayload)
}
