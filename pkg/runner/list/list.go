// Package list prints the index of dates that have entries.
package list

import (
	"context"
	"io"
	"time"

	"tableflip.dev/diary/pkg/entry"
	"tableflip.dev/diary/pkg/printers"
)

// Lister fetches the entry index.
type Lister interface {
	Entries(ctx context.Context) (entry.Index, error)
}

type List struct {
	JSON bool

	Service Lister
	Out     io.Writer
}

func (l *List) Do(ctx context.Context) error {
	idx, err := l.Service.Entries(ctx)
	if err != nil {
		return err
	}
	if l.JSON {
		return printers.JSON(l.Out, map[string]entry.Index{"entries": idx})
	}
	pp := printers.PrettyPrint{Out: l.Out}
	pp.Index(idx, entry.Today(time.Now()))
	return nil
}
