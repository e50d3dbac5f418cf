package dispatch

import "fmt"

// AlreadyBoundError is returned by bindWork when a call handle's work
// closure has already been set. Binding twice is a programming error.
type AlreadyBoundError struct{}

func (e *AlreadyBoundError) Error() string {
	return "dispatch: call handle already has a work functor bound"
}

// CallSchedulingFailedError means the transport refused to arm a pickup
// for a call. No handle remains enqueued when this is returned.
type CallSchedulingFailedError struct {
	Target string
	Cause  error
}

func (e *CallSchedulingFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("dispatch: scheduling call for target %s failed: %v", e.Target, e.Cause)
	}
	return fmt.Sprintf("dispatch: scheduling call for target %s failed", e.Target)
}

func (e *CallSchedulingFailedError) Unwrap() error { return e.Cause }

// CallTimeoutError means the deadline elapsed before the target reached
// a pickup point, or before the pickup drained this handle. The handle
// has been removed from its queue.
type CallTimeoutError struct {
	Target string
}

func (e *CallTimeoutError) Error() string {
	return fmt.Sprintf("dispatch: call to target %s timed out", e.Target)
}

// FutureValuePendingError is returned by Future.GetValue when the
// computation has not yet completed.
type FutureValuePendingError struct{}

func (e *FutureValuePendingError) Error() string {
	return "dispatch: future value is still pending"
}
