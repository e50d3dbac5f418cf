package dispatch

import (
	"fmt"
	"reflect"
	"runtime"
	"sync"
	"time"
)

// Status is the observable state of an asynchronous call.
type Status int

const (
	// StatusPending means the call has not yet completed.
	StatusPending Status = iota
	// StatusComplete means the call ran to completion. From Wait it also
	// means the call produced a value; Abort reports it for any finished
	// call and returns a captured failure through its error instead.
	StatusComplete
	// StatusError means the call ran to completion but raised a failure,
	// expected or unexpected — retrievable via GetValue's error return or
	// Abort's second return value.
	StatusError
	// StatusAborted means the call was removed from its queue before it
	// ran.
	StatusAborted
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusComplete:
		return "complete"
	case StatusError:
		return "error"
	case StatusAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Future is the handle an asynchronous caller gets back from AsyncCall.
// Dropping a Future without calling Abort still aborts it, via a
// finalizer backstop; Close/Abort may be called any number of times.
//
// T may not be a pointer type: the future must own its value outright,
// rather than share storage with whatever thread produced it. Go has no
// distinct reference type to reject symmetrically the way the source's
// T& partial specialization does; only pointers are checked.
type Future[ID comparable, T any] struct {
	scheduler *Scheduler[ID]
	target    ID
	handle    *callHandle[T]

	releaseOnce sync.Once
}

func rejectPointerOrReference[T any]() {
	var zero T
	if reflect.TypeOf(&zero).Elem().Kind() == reflect.Pointer {
		panic("dispatch: Future value type must not be a pointer type")
	}
}

func newFuture[ID comparable, T any](s *Scheduler[ID], target ID, h *callHandle[T]) *Future[ID, T] {
	rejectPointerOrReference[T]()
	f := &Future[ID, T]{scheduler: s, target: target, handle: h}
	runtime.SetFinalizer(f, func(f *Future[ID, T]) { f.release() })
	return f
}

// Wait reports the future's status, blocking for up to timeout.
// StatusError means the call completed but raised a failure — call
// GetValue to retrieve it.
func (f *Future[ID, T]) Wait(timeout time.Duration) Status {
	if !f.handle.waitForCompletion(timeout) {
		return StatusPending
	}
	if f.handle.caughtFailure() {
		return StatusError
	}
	return StatusComplete
}

// Abort attempts to cancel the call. If it has not yet run, it is
// dequeued and Abort returns (StatusAborted, nil). If it already ran,
// Abort blocks for any in-flight execution to finish (the same
// accessLock reacquisition SyncCall performs on timeout), then returns
// (StatusComplete, err) where err is nil on success or a *RethrownFailure
// on a captured failure — wrapped in the same taxonomy SyncCall uses.
// Unlike Wait, Abort does not report StatusError: a captured failure is
// returned through err instead, the way syncCall's own timeout-race
// reacquisition surfaces it.
func (f *Future[ID, T]) Abort() (Status, error) {
	if !f.handle.isCompleted() {
		f.scheduler.dequeue(f.target, f.handle)
	}

	f.handle.accessLock().Lock()
	defer f.handle.accessLock().Unlock()

	if !f.handle.isCompleted() {
		return StatusAborted, nil
	}
	if f.handle.caughtFailure() {
		return StatusComplete, f.handle.rethrowFailure(f.handle.releaseResources)
	}
	return StatusComplete, nil
}

// GetValue returns the computed value. If the call has not completed,
// it returns *FutureValuePendingError instead of blocking — use Wait to
// block for completion first.
func (f *Future[ID, T]) GetValue() (T, error) {
	var zero T
	if !f.handle.isCompleted() {
		return zero, &FutureValuePendingError{}
	}
	if f.handle.caughtFailure() {
		return zero, f.handle.rethrowFailure(f.handle.releaseResources)
	}
	return f.handle.getReturnValue(), nil
}

// Close releases this Future early, aborting the call if it has not
// completed and discarding any failure Abort raises. Equivalent to what
// happens automatically when the Future is garbage collected, performed
// deterministically instead. Safe to call more than once.
func (f *Future[ID, T]) Close() {
	f.release()
}

func (f *Future[ID, T]) release() {
	f.releaseOnce.Do(func() {
		runtime.SetFinalizer(f, nil)
		_, _ = f.Abort()
	})
}

func (f *Future[ID, T]) String() string {
	return fmt.Sprintf("dispatch.Future[target=%v]", f.target)
}
