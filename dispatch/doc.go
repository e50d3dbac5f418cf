// Package dispatch lets code running on one goroutine ask that a nullary
// computation run on a different, named goroutine, wait for the result
// (optionally with a timeout), and get back either the return value or
// the failure the computation raised.
//
// The target goroutine is identified by an opaque, comparable ID chosen
// by the caller — there is no notion of a real OS thread here, only the
// discipline that exactly one goroutine services pickups for a given ID
// at a time. Delivery to that goroutine is the job of a Transport, a
// single-method interface the caller supplies; this package does not
// know or care whether that is a channel, a condition variable, or
// something else.
//
// # Basic usage
//
//	sched := dispatch.NewScheduler[int](myTransport)
//	name, err := dispatch.SyncCall(sched, targetID, func() (string, error) {
//	    return "hello from the target goroutine", nil
//	}, nil, time.Second)
//
// SyncCall and AsyncCall are free functions, not methods on Scheduler:
// Go does not allow a method to introduce type parameters beyond those
// of its receiver, so the per-call return type has to live on a
// function, not a method.
//
// # Expected failures
//
// A call declares which failure categories it expects back typed; any
// other failure becomes a generic *RethrownFailure with Unexpected set
// and no payload:
//
//	set := dispatch.FailureSet{dispatch.MatchAs[*MyError]("my-error")}
//	_, err := dispatch.SyncCall(sched, targetID, work, set, time.Second)
//	var rethrown *dispatch.RethrownFailure
//	if errors.As(err, &rethrown) && rethrown.Category == "my-error" {
//	    // handle it
//	}
//
// # Async calls
//
// AsyncCall returns a Future immediately; the caller polls or blocks in
// Wait, then reads the result with GetValue (which never blocks and
// returns *FutureValuePendingError before completion), or aborts:
//
//	fut, err := dispatch.AsyncCall(sched, targetID, work, set)
//	for fut.Wait(10*time.Millisecond) == dispatch.StatusPending {
//	    // still waiting
//	}
//	value, err := fut.GetValue()
//
// Dropping a Future without calling Abort still aborts it: a finalizer
// backstop guarantees abort runs exactly once, swallowing whatever
// failure it raises, matching the package's destructors-never-propagate
// policy.
package dispatch
