package engine

import (
	"context"
	"sync"
)

// Dispatcher runs fn on the execution context that owns presentation state.
type Dispatcher interface {
	Dispatch(fn func())
}

// Inline runs every function on the caller's goroutine.
type Inline struct{}

func (Inline) Dispatch(fn func()) { fn() }

// Loop is a single goroutine draining a queue of functions. Everything
// dispatched to it runs sequentially, in order of arrival.
type Loop struct {
	queue    chan func()
	stopped  chan struct{}
	stopOnce sync.Once
}

func NewLoop(size int) *Loop {
	if size <= 0 {
		size = 64
	}
	return &Loop{
		queue:   make(chan func(), size),
		stopped: make(chan struct{}),
	}
}

// Dispatch enqueues fn. After Run has returned, fn is dropped.
func (l *Loop) Dispatch(fn func()) {
	select {
	case <-l.stopped:
	case l.queue <- fn:
	}
}

// Run executes queued functions until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stopOnce.Do(func() { close(l.stopped) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}
