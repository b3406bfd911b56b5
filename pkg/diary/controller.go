// Package diary is the client core: one editable entry per calendar date,
// debounced autosave, the entry list, and the banned-word warning.
//
// Every exported method of Controller must run on the dispatcher's flow.
// Timers and network completions re-enter through the dispatcher, so state
// is only ever touched from that one flow and needs no locking.
package diary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/diary/pkg/entry"
	"tableflip.dev/diary/pkg/remote"
	"tableflip.dev/diary/pkg/schedule"
)

// Service is the remote entry and banned-word service.
type Service interface {
	BannedWordService
	Today(ctx context.Context) (entry.Entry, error)
	Entries(ctx context.Context) (entry.Index, error)
	Entry(ctx context.Context, date string) (entry.Entry, error)
	Save(ctx context.Context, e entry.Entry) error
}

// Timings are the debounce and display delays of the client.
type Timings struct {
	SaveDelay       time.Duration
	StatusReset     time.Duration
	CheckDelay      time.Duration
	OverlayDuration time.Duration
}

// DefaultTimings returns the stock delays.
func DefaultTimings() Timings {
	return Timings{
		SaveDelay:       time.Second,
		StatusReset:     2 * time.Second,
		CheckDelay:      500 * time.Millisecond,
		OverlayDuration: 5 * time.Second,
	}
}

func (t Timings) withDefaults() Timings {
	d := DefaultTimings()
	if t.SaveDelay <= 0 {
		t.SaveDelay = d.SaveDelay
	}
	if t.StatusReset <= 0 {
		t.StatusReset = d.StatusReset
	}
	if t.CheckDelay <= 0 {
		t.CheckDelay = d.CheckDelay
	}
	if t.OverlayDuration <= 0 {
		t.OverlayDuration = d.OverlayDuration
	}
	return t
}

// Options configures a Controller.
type Options struct {
	Service    Service
	View       View
	Dispatcher schedule.Dispatcher
	Clock      schedule.Clock
	Logger     *zap.Logger
	Timings    Timings
}

// Controller owns the current document (date and content), save scheduling
// and the cached entry index.
type Controller struct {
	svc        Service
	view       View
	dispatcher schedule.Dispatcher
	clock      schedule.Clock
	logger     *zap.Logger
	timings    Timings

	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	date    string
	content string
	status  SaveStatus

	index       entry.Index
	indexLoaded bool
	indexFailed bool

	autosave    *schedule.Debouncer
	statusReset *schedule.Debouncer
	saveSeq     uint64

	selectSeq    uint64
	selectCancel context.CancelFunc

	checker *Checker
}

// New builds a Controller. Nothing is fetched until Start.
func New(opts Options) (*Controller, error) {
	if opts.Service == nil {
		return nil, errors.New("diary: service is required")
	}
	if opts.View == nil {
		return nil, errors.New("diary: view is required")
	}
	if opts.Dispatcher == nil {
		return nil, errors.New("diary: dispatcher is required")
	}
	if opts.Clock == nil {
		opts.Clock = schedule.Real()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	timings := opts.Timings.withDefaults()

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		svc:         opts.Service,
		view:        opts.View,
		dispatcher:  opts.Dispatcher,
		clock:       opts.Clock,
		logger:      opts.Logger,
		timings:     timings,
		ctx:         ctx,
		cancel:      cancel,
		autosave:    schedule.NewDebouncer(opts.Clock, opts.Dispatcher),
		statusReset: schedule.NewDebouncer(opts.Clock, opts.Dispatcher),
	}
	overlay := newOverlay(opts.View, opts.Clock, opts.Dispatcher, timings.OverlayDuration)
	c.checker = newChecker(ctx, opts.Service, overlay, opts.Clock, opts.Dispatcher, opts.Logger.Named("checker"), timings.CheckDelay)
	return c, nil
}

// Start bootstraps the client: today's entry and the entry index.
func (c *Controller) Start() {
	c.LoadToday()
	c.LoadEntries()
}

// Close tears the controller down: in-flight requests are aborted and every
// timer is stopped. A pending autosave is dropped, so call SaveOnUnload first.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.autosave.Cancel()
	c.statusReset.Cancel()
	if c.selectCancel != nil {
		c.selectCancel()
		c.selectCancel = nil
	}
	c.checker.stop()
	c.cancel()
}

// SetTimings swaps the delays used from now on. Timers already running keep
// their original deadline.
func (c *Controller) SetTimings(t Timings) {
	c.timings = t.withDefaults()
	c.checker.delay = c.timings.CheckDelay
	c.checker.overlay.duration = c.timings.OverlayDuration
}

// Date returns the date of the entry in the editor.
func (c *Controller) Date() string { return c.date }

// Content returns the editor text as last reported.
func (c *Controller) Content() string { return c.content }

// Status returns the current save status.
func (c *Controller) Status() SaveStatus { return c.status }

// Index returns the cached entry index.
func (c *Controller) Index() entry.Index { return c.index }

// Checker returns the banned-word checker.
func (c *Controller) Checker() *Checker { return c.checker }

// SavePending reports whether an autosave is scheduled.
func (c *Controller) SavePending() bool { return c.autosave.Pending() }

// LoadToday fetches today's entry and makes it the current document.
func (c *Controller) LoadToday() {
	c.spawn(c.ctx, func(ctx context.Context) func() {
		e, err := c.svc.Today(ctx)
		return func() {
			if err != nil {
				c.logger.Error("load today's entry", errorFields(err)...)
				c.setStatus(StatusError, loadErrorText)
				return
			}
			c.flushPending()
			c.show(e)
		}
	})
}

// LoadEntries refreshes the entry index and re-renders the list.
func (c *Controller) LoadEntries() {
	c.spawn(c.ctx, func(ctx context.Context) func() {
		idx, err := c.svc.Entries(ctx)
		return func() {
			if err != nil {
				c.logger.Error("load entries", errorFields(err)...)
				c.indexFailed = true
				c.view.RenderEntries(ErrorList())
				return
			}
			c.index = idx
			c.indexLoaded = true
			c.indexFailed = false
			c.renderList()
		}
	})
}

// SelectEntry switches the editor to date. A pending autosave is flushed with
// the pre-switch date and content before the new entry is fetched. Only the
// most recent selection is applied. A failed fetch is logged and leaves the
// current document untouched.
func (c *Controller) SelectEntry(date string) {
	if c.selectCancel != nil {
		c.selectCancel()
		c.selectCancel = nil
	}
	c.selectSeq++
	seq := c.selectSeq

	if c.autosave.Cancel() {
		c.save(func() { c.fetchEntry(seq, date) })
		return
	}
	c.fetchEntry(seq, date)
}

func (c *Controller) fetchEntry(seq uint64, date string) {
	if seq != c.selectSeq || c.closed {
		return
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.selectCancel = cancel
	c.spawn(ctx, func(ctx context.Context) func() {
		e, err := c.svc.Entry(ctx, date)
		return func() {
			if seq != c.selectSeq {
				return
			}
			cancel()
			c.selectCancel = nil
			if err != nil {
				if remote.IsCanceled(err) {
					return
				}
				c.logger.Error("load entry", append(errorFields(err), zap.String("date", date))...)
				return
			}
			if e.Date == "" {
				e.Date = date
			}
			// Edits typed while the fetch was in flight belong to the old date.
			c.flushPending()
			c.show(e)
		}
	})
}

// TextChanged records an edit: status goes to saving, the autosave is
// rescheduled and the checker is told.
func (c *Controller) TextChanged(text string) {
	c.content = text
	c.statusReset.Cancel()
	c.setStatus(StatusSaving, "")
	c.autosave.Schedule(c.timings.SaveDelay, c.Save)
	c.checker.TextChanged(text)
}

// Save persists the current date and content now.
func (c *Controller) Save() {
	c.autosave.Cancel()
	c.save(nil)
}

// SaveOnUnload flushes a pending autosave synchronously, for use right before
// the client exits. It does nothing when no save is pending.
func (c *Controller) SaveOnUnload(ctx context.Context) error {
	if !c.autosave.Cancel() {
		return nil
	}
	if c.date == "" {
		return nil
	}
	snapshot := entry.Entry{Date: c.date, Content: c.content}
	if err := c.svc.Save(ctx, snapshot); err != nil {
		c.logger.Error("save on exit", append(errorFields(err), zap.String("date", snapshot.Date))...)
		return fmt.Errorf("diary: save %s on exit: %w", snapshot.Date, err)
	}
	c.logger.Info("saved on exit", zap.String("date", snapshot.Date))
	return nil
}

// save sends a snapshot of the document. then, if set, runs on the flow once
// the save has finished either way.
func (c *Controller) save(then func()) {
	if c.date == "" {
		c.logger.Warn("save skipped: no entry loaded")
		c.setStatus(StatusError, "")
		if then != nil {
			then()
		}
		return
	}
	snapshot := entry.Entry{Date: c.date, Content: c.content}
	c.saveSeq++
	seq := c.saveSeq
	c.statusReset.Cancel()
	c.setStatus(StatusSaving, "")

	// Saves are not tied to the controller lifetime: a save already on the
	// wire is allowed to finish during teardown.
	c.spawn(context.Background(), func(ctx context.Context) func() {
		err := c.svc.Save(ctx, snapshot)
		return func() {
			c.saved(seq, snapshot, err)
			if then != nil {
				then()
			}
		}
	})
}

func (c *Controller) saved(seq uint64, snapshot entry.Entry, err error) {
	latest := seq == c.saveSeq
	if err != nil {
		c.logger.Error("save entry", append(errorFields(err), zap.String("date", snapshot.Date))...)
		if latest {
			c.setStatus(StatusError, "")
		}
		return
	}
	c.logger.Debug("entry saved", zap.String("date", snapshot.Date), zap.Int("length", len(snapshot.Content)))

	if !c.index.Contains(snapshot.Date) && !snapshot.Blank() {
		c.LoadEntries()
	}
	if !latest || c.autosave.Pending() {
		return
	}
	c.setStatus(StatusSaved, "")
	c.statusReset.Schedule(c.timings.StatusReset, func() {
		if c.status == StatusSaved {
			c.setStatus(StatusReady, "")
		}
	})
}

// flushPending saves right away if an autosave is waiting.
func (c *Controller) flushPending() {
	if c.autosave.Cancel() {
		c.save(nil)
	}
}

// show makes e the current document and forces a fresh banned-word check.
func (c *Controller) show(e entry.Entry) {
	c.date = e.Date
	c.content = e.Content
	c.view.SetContent(e.Content)
	c.view.SetHeader(entry.Header(e.Date, c.clock.Now()))
	c.statusReset.Cancel()
	c.setStatus(StatusReady, "")
	c.renderList()
	c.checker.Reset()
	c.checker.Force(e.Content)
}

func (c *Controller) renderList() {
	switch {
	case c.indexFailed:
		c.view.RenderEntries(ErrorList())
	case c.indexLoaded:
		c.view.RenderEntries(BuildList(c.index, c.date, c.clock.Now()))
	}
}

func (c *Controller) setStatus(status SaveStatus, text string) {
	if text == "" {
		text = status.Text()
	}
	c.status = status
	c.view.SetStatus(status, text)
}

// spawn runs work off the flow and dispatches the continuation it returns.
// Continuations arriving after Close are dropped.
func (c *Controller) spawn(ctx context.Context, work func(ctx context.Context) func()) {
	go func() {
		next := work(ctx)
		if next == nil {
			return
		}
		c.dispatcher.Dispatch(func() {
			if c.closed {
				return
			}
			next()
		})
	}()
}

func errorFields(err error) []zap.Field {
	fields := []zap.Field{zap.Error(err)}
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) {
		fields = append(fields,
			zap.Int("status", apiErr.StatusCode),
			zap.String("server_message", apiErr.Message),
			zap.String("request_id", apiErr.RequestID),
		)
	}
	return fields
}
