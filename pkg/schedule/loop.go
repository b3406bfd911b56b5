package schedule

import (
	"context"
	"sync"
)

// Dispatcher runs work on the single flow that owns the client's mutable
// state. Timer callbacks and network completions never touch state directly;
// they hand a closure to the dispatcher instead.
type Dispatcher interface {
	Dispatch(fn func())
}

// Loop is a Dispatcher that runs closures one at a time from Run or RunOne.
type Loop struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once
}

// NewLoop returns a Loop whose queue holds up to size pending closures before
// Dispatch blocks.
func NewLoop(size int) *Loop {
	if size <= 0 {
		size = 64
	}
	return &Loop{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Dispatch queues fn. After the loop stops, fn is dropped.
func (l *Loop) Dispatch(fn func()) {
	select {
	case <-l.done:
	case l.queue <- fn:
	}
}

// Run executes queued closures until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}

// RunOne waits for a single closure and runs it. It reports false when ctx
// ends first.
func (l *Loop) RunOne(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case fn := <-l.queue:
		fn()
		return true
	}
}

// Drain runs every closure queued right now without waiting for more, and
// returns how many ran.
func (l *Loop) Drain() int {
	n := 0
	for {
		select {
		case fn := <-l.queue:
			fn()
			n++
		default:
			return n
		}
	}
}

func (l *Loop) stop() {
	l.once.Do(func() { close(l.done) })
}
