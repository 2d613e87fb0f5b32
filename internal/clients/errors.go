// Package clients holds the error taxonomy shared by the external-service
// clients (YouTube listings, TMDB). Callers distinguish a failed transport
// (retryable at the job level) from a malformed response and from plain
// misconfiguration using errors.As.
package clients

import "fmt"

// ValidationError means the client was constructed with bad or missing
// configuration. It is fatal at construction time and never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NetworkError wraps a transport-level failure: connection errors, timeouts,
// or a non-2xx status from the remote service.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// StructuralError means the remote call itself succeeded but the body was
// not in the expected shape (unparsable feed XML, missing results list).
type StructuralError struct {
	Op  string
	Err error
}

func (e *StructuralError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *StructuralError) Unwrap() error { return e.Err }
