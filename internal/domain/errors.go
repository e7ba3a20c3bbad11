package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRate             = errors.New("invalid commission rate")
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrDanglingParentReference = errors.New("dangling parent reference")
	ErrUnknownOrderStatus      = errors.New("unknown order status")
	ErrUpstreamFetchFailure    = errors.New("upstream fetch failure")

	ErrAgentNotFound     = errors.New("agent not found")
	ErrAgentRemoved      = errors.New("agent removed")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrInvalidDuration   = errors.New("invalid duration code")
	ErrInvalidWindow     = errors.New("invalid settlement window")
)

// UpstreamError wraps a failure of an external collaborator (agent or order
// store). It matches ErrUpstreamFetchFailure and unwraps to the cause.
type UpstreamError struct {
	Op  string
	Err error
}

func NewUpstreamError(op string, err error) *UpstreamError {
	return &UpstreamError{Op: op, Err: err}
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrUpstreamFetchFailure, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamFetchFailure
}
