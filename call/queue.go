package call

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Dispatcher marshals work onto the call's owner execution context. All
// Call methods and all signaling client callbacks must already run on that
// context; the Dispatcher exists so that events originating elsewhere (the
// media controller's state callback, timer firings, deferred completions)
// reach the state machine without touching it from a foreign goroutine.
type Dispatcher interface {
	// Invoke schedules fn to run on the owner context. Implementations
	// must preserve submission order and never run two tasks concurrently.
	Invoke(fn func())
}

// TaskQueue is a serial Dispatcher backed by a single goroutine. Tasks run
// strictly in submission order. The queue is unbounded, so Invoke never
// blocks and may safely be called from within a running task.
type TaskQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending []func()
	closed  bool
	done    chan struct{}
}

// NewTaskQueue creates a running task queue.
func NewTaskQueue() *TaskQueue {
	q := &TaskQueue{done: make(chan struct{})}
	q.cond = sync.NewCond(&q.mu)
	go q.run()
	return q
}

func (q *TaskQueue) run() {
	for {
		q.mu.Lock()
		for len(q.pending) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.pending) == 0 && q.closed {
			q.mu.Unlock()
			close(q.done)
			return
		}
		fn := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()

		fn()
	}
}

// Invoke schedules fn on the queue. Tasks submitted after Close are
// silently dropped.
func (q *TaskQueue) Invoke(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		logrus.WithFields(logrus.Fields{
			"function": "Invoke",
		}).Debug("Task dropped, queue is closed")
		return
	}
	q.pending = append(q.pending, fn)
	q.cond.Signal()
}

// Close stops the queue after draining already-submitted tasks. It does not
// wait for the drain, so it is safe to call from within a task; use Wait to
// block until the queue goroutine has exited.
func (q *TaskQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.cond.Signal()
}

// Wait blocks until Close has been called and all pending tasks have run.
func (q *TaskQueue) Wait() {
	<-q.done
}
