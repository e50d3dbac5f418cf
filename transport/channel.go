// Package transport provides concrete dispatch.Transport implementations.
// None of them is part of the core dispatcher; they are reference
// collaborators, the same role the source's APC and window-message
// pickup policies play for ThreadSynch's CallScheduler.
package transport

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// PickupSchedulingFailedError is returned by Channel.ScheduleThreadCallback
// when a target's mailbox is full.
type PickupSchedulingFailedError struct {
	Target string
}

func (e *PickupSchedulingFailedError) Error() string {
	return fmt.Sprintf("transport: mailbox for target %s is full", e.Target)
}

// Channel is a dispatch.Transport that models a pickup point as a post to
// a per-target buffered channel — the channel-based analogue of the
// source's WMPickupPolicy, which posts a window message that the
// application's message loop later routes back into the scheduler.
//
// The application drives delivery itself, from whichever goroutine is
// standing in for the target thread, by calling Pump or Run.
type Channel[ID comparable] struct {
	mu      sync.Mutex
	boxes   map[ID]chan func()
	bufSize int
}

// NewChannel constructs a Channel transport whose per-target mailboxes
// hold up to bufSize pending pickups before ScheduleThreadCallback starts
// reporting failure.
func NewChannel[ID comparable](bufSize int) *Channel[ID] {
	if bufSize <= 0 {
		bufSize = 1
	}
	return &Channel[ID]{boxes: make(map[ID]chan func()), bufSize: bufSize}
}

func (c *Channel[ID]) mailbox(target ID) chan func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	box, ok := c.boxes[target]
	if !ok {
		box = make(chan func(), c.bufSize)
		c.boxes[target] = box
	}
	return box
}

// ScheduleThreadCallback implements dispatch.Transport.
func (c *Channel[ID]) ScheduleThreadCallback(target ID, callback func()) error {
	select {
	case c.mailbox(target) <- callback:
		return nil
	default:
		return &PickupSchedulingFailedError{Target: fmt.Sprint(target)}
	}
}

// Pump runs the next pickup posted for target, blocking until one
// arrives or ctx is done. It is the simulated target thread's pickup
// point — one iteration of a message-loop equivalent.
func (c *Channel[ID]) Pump(ctx context.Context, target ID) error {
	select {
	case cb := <-c.mailbox(target):
		cb()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run pumps target continuously until ctx is cancelled, standing in for
// a dedicated target-thread message loop.
func (c *Channel[ID]) Run(ctx context.Context, target ID) error {
	for {
		if err := c.Pump(ctx, target); err != nil {
			return err
		}
	}
}

// RunMany runs Run for every target concurrently, supervised by an
// errgroup so the first failing target's error is reported and the
// others are cancelled alongside it.
func (c *Channel[ID]) RunMany(ctx context.Context, targets []ID) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, target := range targets {
		target := target
		g.Go(func() error { return c.Run(gctx, target) })
	}
	return g.Wait()
}
