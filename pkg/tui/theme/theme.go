package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Header  lipgloss.Style
	Editor  PaneTheme
	List    ListTheme
	Status  StatusTheme
	Footer  lipgloss.Style
	Warning WarningTheme
}

// PaneTheme frames a focusable pane.
type PaneTheme struct {
	Focused lipgloss.Style
	Blurred lipgloss.Style
}

// ListTheme styles the entry list.
type ListTheme struct {
	Pane        PaneTheme
	Title       lipgloss.Style
	Row         lipgloss.Style
	Active      lipgloss.Style
	Cursor      lipgloss.Style
	Placeholder lipgloss.Style
	Error       lipgloss.Style
}

// StatusTheme colors the save indicator by state.
type StatusTheme struct {
	Ready  lipgloss.Style
	Saving lipgloss.Style
	Saved  lipgloss.Style
	Error  lipgloss.Style
}

// WarningTheme styles the banned-word overlay.
type WarningTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	pane := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	faint := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	return Theme{
		Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Padding(0, 1),
		Editor: PaneTheme{
			Focused: pane.BorderForeground(lipgloss.Color("212")),
			Blurred: pane.BorderForeground(lipgloss.Color("240")),
		},
		List: ListTheme{
			Pane: PaneTheme{
				Focused: pane.BorderForeground(lipgloss.Color("212")),
				Blurred: pane.BorderForeground(lipgloss.Color("240")),
			},
			Title:       lipgloss.NewStyle().Bold(true),
			Row:         lipgloss.NewStyle(),
			Active:      lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
			Cursor:      lipgloss.NewStyle().Reverse(true),
			Placeholder: faint.Italic(true),
			Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Italic(true),
		},
		Status: StatusTheme{
			Ready:  faint,
			Saving: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			Saved:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		},
		Footer: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Warning: WarningTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.ThickBorder()).
				BorderForeground(lipgloss.Color("196")).
				Padding(1, 3),
			Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
			Body:  lipgloss.NewStyle().Bold(true),
		},
	}
}
