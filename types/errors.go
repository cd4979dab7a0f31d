package types

import (
	"errors"
	"fmt"
)

// Sentinel kinds for errors.Is classification, mirroring the reference
// project's classify-then-wrap approach to error taxonomy (see lode.ErrXxx).
var (
	// ErrUserCallback is the sentinel for UserCallbackError.
	ErrUserCallback = errors.New("user callback error")
	// ErrTimeout is the sentinel for TimeoutError.
	ErrTimeout = errors.New("timeout")
	// ErrStructural is the sentinel for StructuralError.
	ErrStructural = errors.New("structural error")
)

// UserCallbackError wraps an error raised from a user-supplied function
// (Map, Filter, Scan, Sink, ...). It propagates out of the originating
// Push/Emit's token; no element is retried and no state is rolled back.
type UserCallbackError struct {
	NodeKind NodeKind
	NodeID   NodeID
	Err      error
}

func (e *UserCallbackError) Error() string {
	return fmt.Sprintf("%s callback (node %s): %v", e.NodeKind, e.NodeID, e.Err)
}

func (e *UserCallbackError) Unwrap() error { return e.Err }

// Is reports whether target is the UserCallbackError sentinel.
func (e *UserCallbackError) Is(target error) bool { return target == ErrUserCallback }

// NewUserCallbackError wraps err raised by kind/id's user callback. Returns
// nil if err is nil.
func NewUserCallbackError(kind NodeKind, id NodeID, err error) error {
	if err == nil {
		return nil
	}
	return &UserCallbackError{NodeKind: kind, NodeID: id, Err: err}
}

// TimeoutError is returned when a Token.Wait's context deadline elapses
// before the underlying emission resolved. The emission's true outcome is
// indeterminate from the caller's point of view: operator state is not
// rolled back.
type TimeoutError struct {
	Err error // the context error (context.DeadlineExceeded / Canceled)
}

func (e *TimeoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("timeout waiting for emission: %v", e.Err)
	}
	return "timeout waiting for emission"
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// Is reports whether target is the TimeoutError sentinel.
func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// NewTimeoutError wraps the context error that caused the timeout.
func NewTimeoutError(err error) error {
	return &TimeoutError{Err: err}
}

// StructuralError is raised at graph-construction or subscription time:
// duplicate subscription, a zero-parent multi-input operator, or an invalid
// operator parameter. Never raised mid-stream.
type StructuralError struct {
	Op  string
	Msg string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("structural error in %s: %s", e.Op, e.Msg)
}

// Is reports whether target is the StructuralError sentinel.
func (e *StructuralError) Is(target error) bool { return target == ErrStructural }

// NewStructuralError builds a StructuralError for operation op.
func NewStructuralError(op, msg string) error {
	return &StructuralError{Op: op, Msg: msg}
}
