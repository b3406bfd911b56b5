package schedule

import "time"

// Debouncer owns at most one scheduled task. Scheduling again cancels the
// previous task, so only the most recent one is honoured.
//
// A Debouncer is not safe for concurrent use: Schedule, Cancel and Pending
// must be called from the dispatcher's flow. The timer callback only hands
// the task to the dispatcher, and a sequence number drops a firing that was
// cancelled or replaced after it had been queued.
type Debouncer struct {
	clock      Clock
	dispatcher Dispatcher

	timer Timer
	seq   uint64
}

// NewDebouncer returns a Debouncer that runs tasks through dispatcher.
func NewDebouncer(clock Clock, dispatcher Dispatcher) *Debouncer {
	return &Debouncer{clock: clock, dispatcher: dispatcher}
}

// Schedule runs fn after delay unless it is cancelled or rescheduled first.
func (d *Debouncer) Schedule(delay time.Duration, fn func()) {
	d.Cancel()
	seq := d.seq
	d.timer = d.clock.AfterFunc(delay, func() {
		d.dispatcher.Dispatch(func() {
			if d.seq != seq {
				return
			}
			d.timer = nil
			fn()
		})
	})
}

// Cancel drops the scheduled task. It reports whether a task was pending.
func (d *Debouncer) Cancel() bool {
	d.seq++
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	return true
}

// Pending reports whether a task is scheduled and has not run yet.
func (d *Debouncer) Pending() bool {
	return d.timer != nil
}
