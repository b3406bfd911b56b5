package options

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/diary/pkg/entry"
)

const layoutShort = "1/2"

// DateOptions selects the entry a verb works on.
type DateOptions struct {
	DateString string
}

func AddDateArg(cmd *cobra.Command, o *DateOptions) {
	cmd.Flags().StringVar(&o.DateString, "date", "",
		`Entry date, example: --date="2026-02-28", --date="2/28" or --date=yesterday. Defaults to today.`)
}

// Resolve returns the ISO date o names relative to now. Short dates keep
// now's year.
func (o *DateOptions) Resolve(now time.Time) (string, error) {
	return ResolveDate(o.DateString, now)
}

// ResolveDate parses an ISO date, a month/day, "today" or "yesterday".
func ResolveDate(s string, now time.Time) (string, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "today":
		return entry.Today(now), nil
	case "yesterday":
		return entry.Today(now.AddDate(0, 0, -1)), nil
	}
	if t, err := entry.ParseDate(s, now); err == nil {
		return entry.Today(t), nil
	}
	t, err := time.ParseInLocation(layoutShort, s, now.Location())
	if err != nil {
		return "", fmt.Errorf("invalid date %q, want YYYY-MM-DD, M/D, today or yesterday", s)
	}
	t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
	return entry.Today(t), nil
}
