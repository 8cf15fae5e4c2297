package call

import (
	"sync"
	"time"
)

// Timer is the rearmable timeout guard for a call: a single scheduled
// action that force-terminates a call stuck in certain states. Arming
// replaces any previously scheduled firing, so at most one firing is ever
// outstanding.
type Timer interface {
	// Arm schedules fn to fire after d, cancelling any prior schedule.
	Arm(d time.Duration, fn func())

	// Stop cancels any outstanding schedule.
	Stop()
}

// dispatchTimer is the production Timer. Firings are funneled through the
// owner Dispatcher; a generation counter orphans firings that lose the race
// with a rearm or Stop.
type dispatchTimer struct {
	mu         sync.Mutex
	dispatcher Dispatcher
	timer      *time.Timer
	generation uint64
}

func newDispatchTimer(dispatcher Dispatcher) *dispatchTimer {
	return &dispatchTimer{dispatcher: dispatcher}
}

func (t *dispatchTimer) Arm(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.generation++
	generation := t.generation
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(d, func() {
		t.dispatcher.Invoke(func() {
			t.mu.Lock()
			live := t.generation == generation
			t.mu.Unlock()
			if live {
				fn()
			}
		})
	})
}

func (t *dispatchTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.generation++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
