// Package overlay draws a box over an already rendered screen.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/diary/pkg/tui/theme"
)

// Warning renders the banned-word box, wrapped to fit within maxWidth.
func Warning(t theme.WarningTheme, message string, maxWidth int) string {
	inner := maxWidth - t.Frame.GetHorizontalFrameSize()
	if inner > 48 {
		inner = 48
	}
	if inner < 10 {
		inner = 10
	}
	body := wordwrap.String(message, inner)
	return t.Frame.Render(lipgloss.JoinVertical(lipgloss.Center,
		t.Title.Render("Not allowed!"),
		"",
		t.Body.Render(body),
	))
}

// Center draws fg over bg, centred in a width x height screen. Background
// cells left and right of the box stay visible.
func Center(bg, fg string, width, height int) string {
	rows := screen(bg, width, height)
	if fg == "" || width <= 0 || height <= 0 {
		return strings.Join(rows, "\n")
	}

	box := strings.Split(fg, "\n")
	if len(box) > height {
		box = box[:height]
	}
	boxWidth := 0
	for _, l := range box {
		if w := ansi.PrintableRuneWidth(l); w > boxWidth {
			boxWidth = w
		}
	}
	if boxWidth > width {
		boxWidth = width
	}

	left := (width - boxWidth) / 2
	top := (height - len(box)) / 2
	for i, l := range box {
		y := top + i
		line := truncate.String(l, uint(boxWidth))
		line += strings.Repeat(" ", boxWidth-ansi.PrintableRuneWidth(line))
		rows[y] = truncate.String(rows[y], uint(left)) + line + skip(rows[y], left+boxWidth)
	}
	return strings.Join(rows, "\n")
}

// screen pads or trims view to exactly height lines of width cells.
func screen(view string, width, height int) []string {
	lines := strings.Split(view, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, l := range lines {
		l = truncate.String(l, uint(width))
		if pad := width - ansi.PrintableRuneWidth(l); pad > 0 {
			l += strings.Repeat(" ", pad)
		}
		lines[i] = l
	}
	return lines
}

// skip drops the first n printable cells of s. Escape sequences are kept so
// the remainder renders with the styling it had.
func skip(s string, n int) string {
	var (
		out    strings.Builder
		seen   int
		inSeq  bool
		pieces = []rune(s)
	)
	for _, r := range pieces {
		switch {
		case r == ansi.Marker:
			inSeq = true
			out.WriteRune(r)
		case inSeq:
			out.WriteRune(r)
			if ansi.IsTerminator(r) {
				inSeq = false
			}
		case seen >= n:
			out.WriteRune(r)
		default:
			seen += ansi.PrintableRuneWidth(string(r))
		}
	}
	return out.String()
}
