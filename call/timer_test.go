package call

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDispatchTimerFires(t *testing.T) {
	q := NewTaskQueue()
	defer q.Close()
	timer := newDispatchTimer(q)

	fired := make(chan struct{})
	timer.Arm(10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestDispatchTimerRearmCancelsPrevious(t *testing.T) {
	q := NewTaskQueue()
	defer q.Close()
	timer := newDispatchTimer(q)

	first := make(chan struct{})
	second := make(chan struct{})
	timer.Arm(30*time.Millisecond, func() { close(first) })
	timer.Arm(10*time.Millisecond, func() { close(second) })

	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatal("rearmed timer did not fire")
	}

	select {
	case <-first:
		t.Fatal("superseded schedule fired")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDispatchTimerStop(t *testing.T) {
	q := NewTaskQueue()
	defer q.Close()
	timer := newDispatchTimer(q)

	fired := make(chan struct{})
	timer.Arm(10*time.Millisecond, func() { close(fired) })
	timer.Stop()

	select {
	case <-fired:
		t.Fatal("stopped timer fired")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDispatchTimerStopWithoutArm(t *testing.T) {
	timer := newDispatchTimer(syncDispatcher{})
	assert.NotPanics(t, func() { timer.Stop() })
}
