package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea/v2"
)

// dispatchMsg carries work onto the Bubble Tea update loop.
type dispatchMsg func()

// Dispatcher runs functions on a Bubble Tea program's update loop, making
// that loop the single flow the diary controller expects.
type Dispatcher struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	held    []func()
	dropped bool
}

// Bind attaches the program. Work dispatched before Bind is delivered then.
func (d *Dispatcher) Bind(p *tea.Program) {
	d.bind(p.Send)
}

func (d *Dispatcher) bind(send func(tea.Msg)) {
	d.mu.Lock()
	d.send = send
	held := d.held
	d.held = nil
	d.mu.Unlock()
	for _, fn := range held {
		send(dispatchMsg(fn))
	}
}

// Drop discards all further work, for use once the program has exited.
func (d *Dispatcher) Drop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dropped = true
	d.held = nil
}

// Dispatch implements schedule.Dispatcher. It must not be called from the
// update loop itself.
func (d *Dispatcher) Dispatch(fn func()) {
	d.mu.Lock()
	if d.dropped {
		d.mu.Unlock()
		return
	}
	send := d.send
	if send == nil {
		d.held = append(d.held, fn)
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()
	send(dispatchMsg(fn))
}
