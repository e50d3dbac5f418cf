package dispatch

import (
	"context"
	"sync"
)

// testTransport is a minimal channel-based Transport used only by this
// package's own tests, standing in for a real APC/message-queue
// transport the way the teacher's test_helpers.go stands in for a real
// scheduling strategy fixture.
type testTransport struct {
	mu    sync.Mutex
	boxes map[int]chan func()
}

func newTestTransport() *testTransport {
	return &testTransport{boxes: make(map[int]chan func())}
}

func (tt *testTransport) mailbox(target int) chan func() {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	box, ok := tt.boxes[target]
	if !ok {
		box = make(chan func(), 16)
		tt.boxes[target] = box
	}
	return box
}

func (tt *testTransport) ScheduleThreadCallback(target int, callback func()) error {
	select {
	case tt.mailbox(target) <- callback:
		return nil
	default:
		return &CallSchedulingFailedError{Target: "full"}
	}
}

// pump runs pickups posted for target until ctx is cancelled, standing in
// for the target thread's message loop.
func (tt *testTransport) pump(ctx context.Context, target int) {
	box := tt.mailbox(target)
	for {
		select {
		case cb := <-box:
			cb()
		case <-ctx.Done():
			return
		}
	}
}

// refusingTransport always fails to arm a pickup.
type refusingTransport struct{}

func (refusingTransport) ScheduleThreadCallback(target int, callback func()) error {
	return &CallSchedulingFailedError{Target: "refused"}
}

// blockedTransport arms a pickup that is never actually delivered,
// modelling a target thread stuck on a non-alertable wait.
type blockedTransport struct{}

func (blockedTransport) ScheduleThreadCallback(target int, callback func()) error {
	return nil
}
