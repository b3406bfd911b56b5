// Package tui is the interactive diary: an editor for the current entry, the
// entry list, a save indicator and the banned-word warning.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textarea"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"go.uber.org/zap"

	"tableflip.dev/diary/pkg/diary"
	"tableflip.dev/diary/pkg/tui/overlay"
	"tableflip.dev/diary/pkg/tui/theme"
)

const (
	listWidth     = 26
	helpText      = "tab switch pane • ↑/↓ enter open entry • ctrl+r reload • esc quit"
	loadingHeader = "Loading…"
)

// Controller is the part of diary.Controller the UI drives.
type Controller interface {
	Start()
	Close()
	TextChanged(text string)
	SelectEntry(date string)
	LoadEntries()
	SaveOnUnload(ctx context.Context) error
	SetTimings(t diary.Timings)
}

type focus int

const (
	focusEditor focus = iota
	focusList
)

type startMsg struct{}

// Model is the Bubble Tea model. It also serves as the controller's
// diary.View; every View call happens on the update loop.
type Model struct {
	ctrl          Controller
	logger        *zap.Logger
	theme         theme.Theme
	unloadTimeout time.Duration

	width, height int
	focus         focus

	editor  textarea.Model
	content string

	header     string
	status     diary.SaveStatus
	statusText string

	list   diary.List
	cursor int

	warning string
	notice  string

	// loaded is set by the first SetContent; the editor stays blurred until
	// there is an entry to edit.
	loaded   bool
	quitting bool
}

var _ diary.View = (*Model)(nil)

// New returns a model with no controller attached yet.
func New(logger *zap.Logger, unloadTimeout time.Duration) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	ed := textarea.New()
	ed.Placeholder = "Dear diary…"
	ed.ShowLineNumbers = false
	ed.CharLimit = 0
	ed.MaxHeight = 0

	return &Model{
		logger:        logger,
		theme:         theme.Default(),
		unloadTimeout: unloadTimeout,
		editor:        ed,
		header:        loadingHeader,
		statusText:    diary.StatusReady.Text(),
	}
}

// Attach sets the controller the model forwards input to.
func (m *Model) Attach(ctrl Controller) {
	m.ctrl = ctrl
}

func (m *Model) Init() tea.Cmd {
	return func() tea.Msg { return startMsg{} }
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case startMsg:
		m.ctrl.Start()
	case dispatchMsg:
		msg()
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.applySizes()
	case tea.KeyPressMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	if m.focus == focusEditor && m.loaded && !m.quitting {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		cmds = append(cmds, cmd)
		if v := m.editor.Value(); v != m.content {
			m.content = v
			m.ctrl.TextChanged(v)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m.quit(), true
	case "tab":
		m.toggleFocus()
		return nil, true
	case "ctrl+r":
		m.notice = ""
		m.ctrl.LoadEntries()
		return nil, true
	}
	if m.focus != focusList {
		return nil, false
	}
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.list.Rows)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor >= 0 && m.cursor < len(m.list.Rows) {
			m.ctrl.SelectEntry(m.list.Rows[m.cursor].Date)
			m.focus = focusEditor
			m.focusEditor()
		}
	}
	return nil, true
}

func (m *Model) toggleFocus() {
	if m.focus == focusEditor {
		m.focus = focusList
		m.editor.Blur()
		return
	}
	m.focus = focusEditor
	m.focusEditor()
}

// focusEditor gives the textarea the cursor once an entry has been loaded.
func (m *Model) focusEditor() {
	if m.loaded && m.focus == focusEditor {
		m.editor.Focus()
	}
}

// quit flushes a pending save, bounded by the unload timeout, and tears the
// controller down before leaving the program.
func (m *Model) quit() tea.Cmd {
	if m.quitting {
		return tea.Quit
	}
	m.quitting = true
	ctx, cancel := context.WithTimeout(context.Background(), m.unloadTimeout)
	defer cancel()
	if err := m.ctrl.SaveOnUnload(ctx); err != nil {
		m.logger.Warn("unsaved changes on exit", zap.Error(err))
	}
	m.ctrl.Close()
	return tea.Quit
}

// ApplyTimings hands reloaded delays to the controller, or notes why the new
// configuration was rejected.
func (m *Model) ApplyTimings(t diary.Timings, err error) {
	if err != nil {
		m.logger.Warn("config reload rejected", zap.Error(err))
		m.notice = "config not reloaded: " + err.Error()
		return
	}
	m.ctrl.SetTimings(t)
	m.logger.Info("config reloaded",
		zap.Duration("autosave", t.SaveDelay),
		zap.Duration("check", t.CheckDelay),
		zap.Duration("overlay", t.OverlayDuration))
	m.notice = "config reloaded"
}

// SetContent implements diary.View. The editor normalizes what it is given
// (tabs, CRLF), so the baseline for edit detection is read back from it.
func (m *Model) SetContent(text string) {
	m.editor.SetValue(text)
	m.content = m.editor.Value()
	if !m.loaded {
		m.loaded = true
		m.focusEditor()
	}
}

// SetHeader implements diary.View.
func (m *Model) SetHeader(text string) { m.header = text }

// SetStatus implements diary.View.
func (m *Model) SetStatus(status diary.SaveStatus, text string) {
	m.status = status
	m.statusText = text
}

// RenderEntries implements diary.View. The cursor follows the active row.
func (m *Model) RenderEntries(list diary.List) {
	m.list = list
	if i := list.ActiveIndex(); i >= 0 {
		m.cursor = i
	}
	if m.cursor >= len(list.Rows) {
		m.cursor = len(list.Rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// ShowOverlay implements diary.View.
func (m *Model) ShowOverlay(message string) { m.warning = message }

// HideOverlay implements diary.View.
func (m *Model) HideOverlay() { m.warning = "" }

// applySizes recalculates pane sizes based on current terminal size.
func (m *Model) applySizes() {
	if m.width == 0 || m.height == 0 {
		return
	}
	frame := m.theme.Editor.Focused.GetHorizontalFrameSize()
	w := m.width - listWidth - frame
	if w < 20 {
		w = 20
	}
	// Header, status and help lines plus the pane border.
	h := m.height - 3 - m.theme.Editor.Focused.GetVerticalFrameSize()
	if h < 3 {
		h = 3
	}
	m.editor.SetWidth(w)
	m.editor.SetHeight(h)
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	editorPane := m.theme.Editor.Blurred
	listPane := m.theme.List.Pane.Focused
	if m.focus == focusEditor {
		editorPane = m.theme.Editor.Focused
		listPane = m.theme.List.Pane.Blurred
	}

	left := listPane.Width(listWidth - listPane.GetHorizontalFrameSize()).Render(m.renderList())
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Header.Render(m.header),
		editorPane.Render(m.editor.View()),
		m.renderStatus(),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	screen := lipgloss.JoinVertical(lipgloss.Left, body, m.theme.Footer.Render(helpText))

	if m.warning == "" || m.width == 0 || m.height == 0 {
		return screen
	}
	box := overlay.Warning(m.theme.Warning, m.warning, m.width-4)
	return overlay.Center(screen, box, m.width, m.height)
}

func (m *Model) renderList() string {
	t := m.theme.List
	lines := []string{t.Title.Render("Entries"), ""}
	if m.list.Empty() {
		style := t.Placeholder
		if m.list.Failed {
			style = t.Error
		}
		placeholder := m.list.Placeholder
		if placeholder == "" {
			placeholder = "Loading…"
		}
		lines = append(lines, style.Render(placeholder))
		return strings.Join(lines, "\n")
	}
	for i, r := range m.list.Rows {
		style := t.Row
		label := "  " + r.Label
		if r.Active {
			style = t.Active
			label = "• " + r.Label
		}
		if m.focus == focusList && i == m.cursor {
			style = style.Inherit(t.Cursor)
		}
		lines = append(lines, style.Render(label))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderStatus() string {
	s := m.theme.Status
	style := s.Ready
	switch m.status {
	case diary.StatusSaving:
		style = s.Saving
	case diary.StatusSaved:
		style = s.Saved
	case diary.StatusError:
		style = s.Error
	}
	line := style.Render("● " + m.statusText)
	if m.notice != "" {
		line += "  " + m.theme.Footer.Render(m.notice)
	}
	return " " + line
}
