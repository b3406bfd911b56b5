// Package show prints a single diary entry.
package show

import (
	"context"
	"io"

	"tableflip.dev/diary/pkg/entry"
	"tableflip.dev/diary/pkg/printers"
)

// Reader fetches entries from the remote service.
type Reader interface {
	Today(ctx context.Context) (entry.Entry, error)
	Entry(ctx context.Context, date string) (entry.Entry, error)
}

// Show prints the entry for Date, or today's entry when Date is empty.
type Show struct {
	Date string
	JSON bool

	Service Reader
	Out     io.Writer
}

func (s *Show) Do(ctx context.Context) error {
	var (
		e   entry.Entry
		err error
	)
	if s.Date == "" {
		e, err = s.Service.Today(ctx)
	} else {
		e, err = s.Service.Entry(ctx, s.Date)
	}
	if err != nil {
		return err
	}
	if e.Date == "" {
		e.Date = s.Date
	}

	if s.JSON {
		return printers.JSON(s.Out, e)
	}
	pp := printers.PrettyPrint{Out: s.Out}
	pp.Entry(e)
	return nil
}
