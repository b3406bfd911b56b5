package diary

import (
	"time"

	"tableflip.dev/diary/pkg/entry"
)

const (
	PlaceholderEmpty = "No entries yet. Start writing!"
	PlaceholderError = "Error loading entries"
)

// Row is one selectable date in the entry list.
type Row struct {
	Date   string
	Label  string
	Active bool
}

// List is what the entry list shows: rows in index order, or a placeholder
// when there is nothing to list.
type List struct {
	Rows        []Row
	Placeholder string
	Failed      bool
}

// Empty reports whether the list has no rows to select.
func (l List) Empty() bool {
	return len(l.Rows) == 0
}

// ActiveIndex returns the position of the active row, or -1.
func (l List) ActiveIndex() int {
	for i, r := range l.Rows {
		if r.Active {
			return i
		}
	}
	return -1
}

// BuildList renders the index against the current date. The row matching
// current is marked active and every row gets a label relative to now.
func BuildList(index entry.Index, current string, now time.Time) List {
	if len(index) == 0 {
		return List{Placeholder: PlaceholderEmpty}
	}
	rows := make([]Row, 0, len(index))
	for _, date := range index {
		rows = append(rows, Row{
			Date:   date,
			Label:  entry.Label(date, now),
			Active: date == current,
		})
	}
	return List{Rows: rows}
}

// ErrorList is shown when the index could not be loaded.
func ErrorList() List {
	return List{Placeholder: PlaceholderError, Failed: true}
}
