package diary

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/diary/pkg/entry"
	"tableflip.dev/diary/pkg/remote"
	"tableflip.dev/diary/pkg/schedule"
)

// BannedWordService performs the server-side banned-word check.
type BannedWordService interface {
	CheckBanned(ctx context.Context, content string) (entry.CheckResult, error)
}

// CheckOutcome is the terminal state of one check request.
type CheckOutcome int

const (
	CheckSucceeded CheckOutcome = iota
	// CheckCancelled means a newer check superseded the request. It is not
	// an error and never reaches the user.
	CheckCancelled
	CheckFailed
)

func (o CheckOutcome) String() string {
	switch o {
	case CheckSucceeded:
		return "succeeded"
	case CheckCancelled:
		return "cancelled"
	case CheckFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func classifyCheck(ctx context.Context, err error) CheckOutcome {
	switch {
	case err == nil && ctx.Err() == nil:
		return CheckSucceeded
	case remote.IsCanceled(err), ctx.Err() != nil:
		return CheckCancelled
	default:
		return CheckFailed
	}
}

// Checker debounces banned-word checks against the live text and drives the
// warning overlay. At most one check request is in flight: starting a new one
// aborts the previous, and a superseded response is discarded.
type Checker struct {
	svc        BannedWordService
	overlay    *Overlay
	debounce   *schedule.Debouncer
	dispatcher schedule.Dispatcher
	logger     *zap.Logger
	base       context.Context
	delay      time.Duration

	text        string
	lastChecked string
	checked     bool

	cancel context.CancelFunc
	seq    uint64
}

func newChecker(base context.Context, svc BannedWordService, overlay *Overlay, clock schedule.Clock, dispatcher schedule.Dispatcher, logger *zap.Logger, delay time.Duration) *Checker {
	return &Checker{
		svc:        svc,
		overlay:    overlay,
		debounce:   schedule.NewDebouncer(clock, dispatcher),
		dispatcher: dispatcher,
		logger:     logger,
		base:       base,
		delay:      delay,
	}
}

// TextChanged notes a new text value and schedules a check after the quiet
// period. A value equal to the last checked text needs no new check.
func (c *Checker) TextChanged(text string) {
	c.text = text
	if c.checked && text == c.lastChecked {
		c.debounce.Cancel()
		return
	}
	c.schedule(c.delay)
}

// Force checks text right away, whether or not it was checked before.
func (c *Checker) Force(text string) {
	c.text = text
	c.checked = false
	c.schedule(0)
}

// Reset forgets what was checked and drops any pending or in-flight check.
// The overlay is left as is; the next check result decides it.
func (c *Checker) Reset() {
	c.debounce.Cancel()
	c.abort()
	c.checked = false
	c.lastChecked = ""
}

// Overlay exposes the warning overlay state.
func (c *Checker) Overlay() *Overlay {
	return c.overlay
}

// InFlight reports whether a check request is waiting for its response.
func (c *Checker) InFlight() bool {
	return c.cancel != nil
}

func (c *Checker) schedule(delay time.Duration) {
	c.debounce.Cancel()
	c.abort()
	c.debounce.Schedule(delay, c.fire)
}

// abort cancels the in-flight request. Its text is no longer "checked".
func (c *Checker) abort() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	c.cancel = nil
	c.seq++
	c.checked = false
}

func (c *Checker) fire() {
	text := c.text
	c.lastChecked = text
	c.checked = true

	if text == "" {
		c.overlay.Hide()
		return
	}

	ctx, cancel := context.WithCancel(c.base)
	c.seq++
	seq := c.seq
	c.cancel = cancel

	go func() {
		res, err := c.svc.CheckBanned(ctx, text)
		c.dispatcher.Dispatch(func() {
			c.apply(ctx, seq, res, err)
		})
	}()
}

func (c *Checker) apply(ctx context.Context, seq uint64, res entry.CheckResult, err error) CheckOutcome {
	if seq != c.seq {
		c.logger.Debug("discarding superseded banned-word check")
		return CheckCancelled
	}
	outcome := classifyCheck(ctx, err)
	c.cancel()
	c.cancel = nil

	switch outcome {
	case CheckCancelled:
		c.logger.Debug("banned-word check cancelled")
	case CheckFailed:
		c.logger.Warn("banned-word check failed", errorFields(err)...)
	case CheckSucceeded:
		if res.Matched {
			c.logger.Debug("banned word matched", zap.String("snippet", res.Snippet))
			c.overlay.Show(WarningMessage(res.Snippet))
		} else {
			c.overlay.Hide()
		}
	}
	return outcome
}

func (c *Checker) stop() {
	c.debounce.Cancel()
	c.abort()
	c.overlay.stop()
}
