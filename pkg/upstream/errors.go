package upstream

import (
	"errors"
	"fmt"
)

// UnreachableError reports a transport-level failure before any backend
// response was received.
type UnreachableError struct {
	Err error
}

func (e *UnreachableError) Error() string { return "backend unreachable: " + e.Err.Error() }
func (e *UnreachableError) Unwrap() error { return e.Err }
func (e *UnreachableError) Code() string  { return "upstream_unreachable" }

// StatusError reports a non-success HTTP status from the backend. The body
// is kept for diagnostics and surfaced to the client.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Code() string { return fmt.Sprintf("upstream_%d", e.StatusCode) }

// ContractError reports a success status whose body does not match the
// backend contract.
type ContractError struct {
	Reason string
	Err    error
}

func (e *ContractError) Error() string {
	if e.Err != nil {
		return "backend contract violation: " + e.Reason + ": " + e.Err.Error()
	}
	return "backend contract violation: " + e.Reason
}

func (e *ContractError) Unwrap() error { return e.Err }
func (e *ContractError) Code() string  { return "upstream_contract_violation" }

// Code extracts the gateway error code for an upstream failure.
func Code(err error) string {
	var coder interface{ Code() string }
	if errors.As(err, &coder) {
		return coder.Code()
	}
	return "upstream_error"
}
