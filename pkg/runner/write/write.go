// Package write saves text as the entry of one date.
package write

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"tableflip.dev/diary/pkg/entry"
	"tableflip.dev/diary/pkg/printers"
)

// Saver persists entries.
type Saver interface {
	Save(ctx context.Context, e entry.Entry) error
}

// Write replaces the entry for Date (today when empty) with Content.
type Write struct {
	Date    string
	Content string
	JSON    bool

	Service Saver
	Out     io.Writer
}

func (w *Write) Do(ctx context.Context) error {
	date := w.Date
	if date == "" {
		date = entry.Today(time.Now())
	}
	if !entry.ValidDate(date) {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
	}
	if w.Service == nil {
		return errors.New("no service configured")
	}

	e := entry.Entry{Date: date, Content: w.Content}
	if err := w.Service.Save(ctx, e); err != nil {
		return err
	}

	if w.JSON {
		return printers.JSON(w.Out, map[string]string{"status": "saved", "date": date})
	}
	pp := printers.PrettyPrint{Out: w.Out}
	pp.Saved(e)
	return nil
}
