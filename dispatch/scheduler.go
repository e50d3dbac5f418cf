package dispatch

import (
	"fmt"
	"sync"
	"time"
)

// Option configures a Scheduler at construction time.
type Option func(*schedulerConfig)

type schedulerConfig struct {
	queueCapacityHint int
}

// WithQueueCapacityHint pre-sizes each newly created per-target queue,
// avoiding reallocation for workloads with a known typical burst size.
// It has no effect on correctness.
func WithQueueCapacityHint(n int) Option {
	return func(c *schedulerConfig) {
		if n > 0 {
			c.queueCapacityHint = n
		}
	}
}

// Scheduler is the process-wide (or, if the caller prefers, per-
// subsystem) registry of per-target call queues. Nothing requires a
// Scheduler to be a singleton — construct as many as the application
// needs.
type Scheduler[ID comparable] struct {
	transport Transport[ID]
	conf      schedulerConfig

	mu     sync.Mutex
	queues map[ID][]handleRef
}

// NewScheduler constructs a Scheduler that arms pickups through
// transport.
func NewScheduler[ID comparable](transport Transport[ID], opts ...Option) *Scheduler[ID] {
	conf := schedulerConfig{queueCapacityHint: 4}
	for _, opt := range opts {
		opt(&conf)
	}
	return &Scheduler[ID]{
		transport: transport,
		conf:      conf,
		queues:    make(map[ID][]handleRef),
	}
}

// enqueue appends h to target's queue and, on the empty-to-non-empty
// transition, arms a pickup — all under one hold of the queue mutex, the
// same way the source's enqueueThreadCall holds its lock across the
// schedule-and-catch step. Holding the lock this wide is safe only
// because Transport.ScheduleThreadCallback is contractually forbidden
// from invoking its callback synchronously (§6); otherwise the armed
// callback's own attempt to lock mu here would deadlock against itself.
// Without the wide lock, a second enqueue to the same target could
// observe existed=true in the gap before a failed arm's rollback, append
// behind a handle that is about to be removed, and be left queued with
// no pickup ever armed for it.
func (s *Scheduler[ID]) enqueue(target ID, h handleRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, existed := s.queues[target]
	if !existed {
		s.queues[target] = make([]handleRef, 0, s.conf.queueCapacityHint)
	}
	s.queues[target] = append(s.queues[target], h)

	if existed {
		return nil
	}

	debugLog("arming pickup for target %v", target)
	if err := s.transport.ScheduleThreadCallback(target, func() { s.executeScheduledCalls(target) }); err != nil {
		s.removeLocked(target, h)
		return &CallSchedulingFailedError{Target: fmt.Sprint(target), Cause: err}
	}
	return nil
}

// removeLocked removes h from target's queue if present, deleting the
// queue entry entirely if it becomes empty. Must be called with mu held.
// Returns whether h was found — a miss is a legal race (the executor may
// already have taken it) and is never an error.
func (s *Scheduler[ID]) removeLocked(target ID, h handleRef) bool {
	q, ok := s.queues[target]
	if !ok {
		return false
	}
	for i, cand := range q {
		if cand == h {
			q = append(q[:i], q[i+1:]...)
			if len(q) == 0 {
				delete(s.queues, target)
			} else {
				s.queues[target] = q
			}
			return true
		}
	}
	return false
}

// dequeue silently no-ops if h is not present in target's queue.
func (s *Scheduler[ID]) dequeue(target ID, h handleRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(target, h)
}

// getNextFromQueue locates the first handle in target's queue whose
// accessLock can be acquired without blocking, removes it from the
// queue, and returns it with the lock held. A handle whose accessLock is
// already held (its caller is mid-timeout-dequeue) is skipped, not
// blocked on — this is what prevents a deadlock between this drain loop
// and a caller's own dequeue attempt. Returns nil if target has no queue
// or every candidate is currently locked.
func (s *Scheduler[ID]) getNextFromQueue(target ID) handleRef {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queues[target]
	if !ok {
		return nil
	}
	for i, cand := range q {
		if !cand.accessLock().TryLock() {
			continue
		}
		rest := make([]handleRef, 0, len(q)-1)
		rest = append(rest, q[:i]...)
		rest = append(rest, q[i+1:]...)
		if len(rest) == 0 {
			delete(s.queues, target)
		} else {
			s.queues[target] = rest
		}
		return cand
	}
	return nil
}

// executeScheduledCalls is the callback the transport invokes on the
// target. It drains every currently lockable handle for target, running
// each to completion before moving to the next, and returns once
// getNextFromQueue reports nothing left to take.
func (s *Scheduler[ID]) executeScheduledCalls(target ID) {
	for {
		h := s.getNextFromQueue(target)
		if h == nil {
			return
		}
		h.executeCallback()
		h.accessLock().Unlock()
	}
}

// SyncCall runs work on target and blocks for up to timeout for the
// result. On success it returns work's value. On failure it returns a
// *RethrownFailure (typed via set) or, on timeout / scheduling failure, a
// *CallTimeoutError / *CallSchedulingFailedError.
func SyncCall[ID comparable, T any](s *Scheduler[ID], target ID, work func() (T, error), set FailureSet, timeout time.Duration) (T, error) {
	var zero T

	h := newCallHandle[T]()
	if err := h.bindWork(work, set); err != nil {
		return zero, err
	}
	if err := s.enqueue(target, h); err != nil {
		return zero, err
	}

	completed := h.waitForCompletion(timeout)
	if !completed {
		s.dequeue(target, h)
	}

	// Blockingly reacquire accessLock: if the executor had already begun
	// running the handle when the timeout fired, dequeue above found
	// nothing to remove, and this lock acquisition blocks until that
	// in-flight execution finishes — at which point the handle's
	// terminal state (value or captured failure) is visible, never a
	// timeout.
	h.accessLock().Lock()
	defer h.accessLock().Unlock()

	if !h.isCompleted() {
		return zero, &CallTimeoutError{Target: fmt.Sprint(target)}
	}
	if h.caughtFailure() {
		return zero, h.rethrowFailure(h.releaseResources)
	}
	return h.getReturnValue(), nil
}

// SyncCallVoid is SyncCall for a no-return work closure.
func SyncCallVoid[ID comparable](s *Scheduler[ID], target ID, work func() error, set FailureSet, timeout time.Duration) error {
	_, err := SyncCall[ID, struct{}](s, target, func() (struct{}, error) {
		return struct{}{}, work()
	}, set, timeout)
	return err
}

// AsyncCall constructs a Future first (construction can fail for a
// disallowed return type T), then binds work and enqueues it. It never
// blocks.
func AsyncCall[ID comparable, T any](s *Scheduler[ID], target ID, work func() (T, error), set FailureSet) (*Future[ID, T], error) {
	h := newCallHandle[T]()
	fut := newFuture(s, target, h)

	if err := h.bindWork(work, set); err != nil {
		return nil, err
	}
	if err := s.enqueue(target, h); err != nil {
		return nil, err
	}
	return fut, nil
}

// AsyncCallVoid is AsyncCall for a no-return work closure.
func AsyncCallVoid[ID comparable](s *Scheduler[ID], target ID, work func() error, set FailureSet) (*Future[ID, struct{}], error) {
	return AsyncCall[ID, struct{}](s, target, func() (struct{}, error) {
		return struct{}{}, work()
	}, set)
}
