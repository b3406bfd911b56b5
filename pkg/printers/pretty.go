// Package printers renders diary data for the command line verbs.
package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/diary/pkg/diary"
	"tableflip.dev/diary/pkg/entry"
)

const defaultWidth = 80

// PrettyPrint writes colored, human oriented output.
type PrettyPrint struct {
	// Out defaults to color.Output.
	Out io.Writer
	// Width wraps entry text; zero means 80 columns.
	Width int
	// Now anchors relative date labels; zero means time.Now.
	Now time.Time
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) now() time.Time {
	if pp.Now.IsZero() {
		return time.Now()
	}
	return pp.Now
}

func (pp *PrettyPrint) width() int {
	if pp.Width <= 0 {
		return defaultWidth
	}
	return pp.Width
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out())
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " entry")
	default:
		_, _ = c.Fprintln(pp.out(), " entries")
	}
}

// Entry prints the entry header and its wrapped text.
func (pp *PrettyPrint) Entry(e entry.Entry) {
	pp.Title(entry.Header(e.Date, pp.now()))
	if e.Blank() {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " nothing written yet\n\n")
		return
	}
	_, _ = fmt.Fprintln(pp.out(), wordwrap.String(strings.TrimRight(e.Content, "\n"), pp.width()))
	pp.NewLine()
}

// Index prints the entry list the way the interactive client labels it.
func (pp *PrettyPrint) Index(index entry.Index, current string) {
	list := diary.BuildList(index, current, pp.now())
	pp.TitleWithCount("Entries", len(list.Rows))
	if list.Empty() {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprintf(pp.out(), " %s\n\n", list.Placeholder)
		return
	}

	active := color.New(color.FgHiYellow, color.Bold)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, r := range list.Rows {
		marker, label := " ", r.Label
		if r.Active {
			marker, label = active.Sprint("•"), active.Sprint(r.Label)
		}
		tbl.AddRow(marker, label, faint.Sprint(r.Date))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Saved confirms a write.
func (pp *PrettyPrint) Saved(e entry.Entry) {
	g := color.New(color.FgGreen)
	_, _ = g.Fprintf(pp.out(), "saved %s (%s)\n", entry.Label(e.Date, pp.now()), e.Date)
}

// Check prints a banned-word check result.
func (pp *PrettyPrint) Check(res entry.CheckResult) {
	if !res.Matched {
		g := color.New(color.FgGreen)
		_, _ = g.Fprintln(pp.out(), "no banned words found")
		return
	}
	r := color.New(color.FgHiRed, color.Bold)
	_, _ = r.Fprintln(pp.out(), diary.WarningMessage(res.Snippet))
}

// Rules prints the banned-word rule summary.
func (pp *PrettyPrint) Rules(info entry.RulesInfo) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("Banned-word rules:", info.RuleCount)
	if info.Message != "" {
		tbl.AddRow("Server says:", info.Message)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Settings prints key/value pairs as an aligned table.
func (pp *PrettyPrint) Settings(rows [][2]string) {
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, r := range rows {
		tbl.AddRow(bold.Sprint(r[0]), r[1])
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// JSON writes v as indented JSON.
func JSON(out io.Writer, v interface{}) error {
	if out == nil {
		out = color.Output
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(b))
	return err
}
