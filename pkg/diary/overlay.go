package diary

import (
	"fmt"
	"strings"
	"time"

	"tableflip.dev/diary/pkg/schedule"
)

const genericWarning = "This word is not allowed here, delete it!"

// WarningMessage is the overlay text for a matched snippet.
func WarningMessage(snippet string) string {
	s := strings.TrimSpace(snippet)
	if s == "" {
		return genericWarning
	}
	return fmt.Sprintf("%q is not allowed here, delete it!", s)
}

// Overlay is the single banned-word warning. Showing it while visible only
// updates the message and restarts the auto-hide timer.
type Overlay struct {
	view     View
	hide     *schedule.Debouncer
	duration time.Duration

	visible bool
	message string
}

func newOverlay(view View, clock schedule.Clock, dispatcher schedule.Dispatcher, duration time.Duration) *Overlay {
	return &Overlay{
		view:     view,
		hide:     schedule.NewDebouncer(clock, dispatcher),
		duration: duration,
	}
}

// Show displays message and (re)starts the auto-hide timer.
func (o *Overlay) Show(message string) {
	o.visible = true
	o.message = message
	o.view.ShowOverlay(message)
	o.hide.Schedule(o.duration, o.Hide)
}

// Hide removes the overlay and clears its timer.
func (o *Overlay) Hide() {
	o.hide.Cancel()
	if !o.visible {
		return
	}
	o.visible = false
	o.message = ""
	o.view.HideOverlay()
}

// Visible reports whether the overlay is shown.
func (o *Overlay) Visible() bool {
	return o.visible
}

// Message returns the text of the visible overlay.
func (o *Overlay) Message() string {
	return o.message
}

func (o *Overlay) stop() {
	o.hide.Cancel()
}
