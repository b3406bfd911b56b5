package diary

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"tableflip.dev/diary/pkg/entry"
	"tableflip.dev/diary/pkg/schedule"
)

func TestNewRequiresCollaborators(t *testing.T) {
	loop := schedule.NewLoop(1)
	svc := newMemoryService()
	view := &recordingView{}

	_, err := New(Options{View: view, Dispatcher: loop})
	assert.Error(t, err)
	_, err = New(Options{Service: svc, Dispatcher: loop})
	assert.Error(t, err)
	_, err = New(Options{Service: svc, View: view})
	assert.Error(t, err)

	c, err := New(Options{Service: svc, View: view, Dispatcher: loop})
	require.NoError(t, err)
	assert.Equal(t, DefaultTimings(), c.timings)
}

func TestStartLoadsTodayAndIndex(t *testing.T) {
	svc := newMemoryService()
	svc.entries[testToday] = "morning pages"
	svc.entries[testYesterday] = "older"
	svc.index = entry.Index{testToday, testYesterday}
	h := newHarness(t, svc)
	h.start()

	assert.Equal(t, testToday, h.ctrl.Date())
	assert.Equal(t, "morning pages", h.ctrl.Content())
	assert.Equal(t, "morning pages", h.view.content)
	assert.Equal(t, "Monday, October 19, 2026", h.view.header)
	assert.Equal(t, StatusReady, h.view.status)
	assert.Equal(t, "ready", h.view.text)

	require.Len(t, h.view.list.Rows, 2)
	assert.Equal(t, Row{Date: testToday, Label: "Today", Active: true}, h.view.list.Rows[0])
	assert.Equal(t, Row{Date: testYesterday, Label: "Yesterday"}, h.view.list.Rows[1])

	// The loaded text is checked straight away.
	checks := svc.checksSnapshot()
	require.Len(t, checks, 1)
	assert.Equal(t, "morning pages", checks[0].content)
}

func TestStartWithEmptyIndexShowsPlaceholder(t *testing.T) {
	h := newHarness(t, newMemoryService())
	h.start()

	assert.True(t, h.view.list.Empty())
	assert.Equal(t, PlaceholderEmpty, h.view.list.Placeholder)
	assert.False(t, h.view.list.Failed)
	// Empty text is never sent for checking.
	assert.Empty(t, h.svc.checksSnapshot())
}

func TestStartTodayFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	svc := newMemoryService()
	svc.todayErr = errTransport
	h := newHarnessWithLogger(t, svc, zap.New(core))
	h.start()

	assert.Equal(t, StatusError, h.view.status)
	assert.Equal(t, "Error loading entry", h.view.text)
	assert.Equal(t, "", h.ctrl.Date())
	assert.Equal(t, 1, logs.FilterMessage("load today's entry").Len())
}

func TestStartIndexFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	svc := newMemoryService()
	svc.indexErr = errTransport
	h := newHarnessWithLogger(t, svc, zap.New(core))
	h.start()

	assert.True(t, h.view.list.Failed)
	assert.Equal(t, PlaceholderError, h.view.list.Placeholder)
	assert.Equal(t, 1, logs.FilterMessage("load entries").Len())
	// The editor still works.
	assert.Equal(t, testToday, h.ctrl.Date())
}

func TestAutosaveDebounce(t *testing.T) {
	h := newHarness(t, newMemoryService())
	h.start()

	h.typeText("h", "he", "hel", "hell", "hello")
	assert.Equal(t, StatusSaving, h.view.status)
	assert.True(t, h.ctrl.SavePending())

	h.advance(999 * time.Millisecond)
	assert.Empty(t, h.svc.savesSnapshot())

	h.advance(time.Millisecond)
	assert.Equal(t, []entry.Entry{{Date: testToday, Content: "hello"}}, h.svc.savesSnapshot())
	assert.Equal(t, StatusSaved, h.view.status)
	assert.Equal(t, "saved", h.view.text)

	h.advance(1999 * time.Millisecond)
	assert.Equal(t, StatusSaved, h.view.status)
	h.advance(time.Millisecond)
	assert.Equal(t, StatusReady, h.view.status)

	assert.Equal(t, []SaveStatus{StatusReady, StatusSaving, StatusSaved, StatusReady}, h.view.statusTrail())
}

func TestAutosaveRestartsOnEachEdit(t *testing.T) {
	h := newHarness(t, newMemoryService())
	h.start()

	h.typeText("a")
	h.advance(800 * time.Millisecond)
	h.typeText("ab")
	h.advance(800 * time.Millisecond)
	assert.Empty(t, h.svc.savesSnapshot())

	h.advance(200 * time.Millisecond)
	assert.Equal(t, []entry.Entry{{Date: testToday, Content: "ab"}}, h.svc.savesSnapshot())
}

func TestFirstSaveRefreshesIndex(t *testing.T) {
	h := newHarness(t, newMemoryService())
	h.start()
	require.Equal(t, 1, h.svc.indexCallCount())

	h.typeText("first words")
	h.advance(time.Second)

	assert.Equal(t, 2, h.svc.indexCallCount())
	require.Len(t, h.view.list.Rows, 1)
	assert.Equal(t, Row{Date: testToday, Label: "Today", Active: true}, h.view.list.Rows[0])

	// Already listed: no further refresh.
	h.typeText("first words, more")
	h.advance(time.Second)
	assert.Equal(t, 2, h.svc.indexCallCount())
}

func TestWhitespaceSaveDoesNotRefreshIndex(t *testing.T) {
	h := newHarness(t, newMemoryService())
	h.start()

	h.typeText("   \n")
	h.advance(time.Second)

	assert.Equal(t, []entry.Entry{{Date: testToday, Content: "   \n"}}, h.svc.savesSnapshot())
	assert.Equal(t, 1, h.svc.indexCallCount())
	assert.Equal(t, PlaceholderEmpty, h.view.list.Placeholder)
}

func TestSaveFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	svc := newMemoryService()
	h := newHarnessWithLogger(t, svc, zap.New(core))
	h.start()

	svc.mu.Lock()
	svc.saveErr = errTransport
	svc.mu.Unlock()

	h.typeText("lost")
	h.advance(time.Second)

	assert.Equal(t, StatusError, h.view.status)
	assert.Equal(t, "Error saving", h.view.text)
	assert.Equal(t, 1, logs.FilterMessage("save entry").Len())

	// The error status stays until the next edit.
	h.advance(5 * time.Second)
	assert.Equal(t, StatusError, h.view.status)
	h.typeText("lost again")
	assert.Equal(t, StatusSaving, h.view.status)
}

func TestSaveWithoutEntryIsRefused(t *testing.T) {
	svc := newMemoryService()
	svc.todayErr = errTransport
	h := newHarness(t, svc)
	h.start()

	h.typeText("nowhere to go")
	h.advance(time.Second)

	assert.Empty(t, svc.savesSnapshot())
	assert.Equal(t, StatusError, h.view.status)
}

func TestSelectEntryFlushesPendingSave(t *testing.T) {
	svc := newMemoryService()
	svc.entries[testYesterday] = "old news"
	svc.index = entry.Index{testYesterday}
	h := newHarness(t, svc)
	h.start()

	h.typeText("draft")
	h.ctrl.SelectEntry(testYesterday)
	h.settle()

	assert.Equal(t, []entry.Entry{{Date: testToday, Content: "draft"}}, svc.savesSnapshot())
	assert.Equal(t, []string{"save " + testToday, "entry " + testYesterday}, svc.callsSnapshot())
	assert.False(t, h.ctrl.SavePending())

	assert.Equal(t, testYesterday, h.ctrl.Date())
	assert.Equal(t, "old news", h.view.content)
	assert.Equal(t, "Yesterday Entry", h.view.header)
	assert.Equal(t, StatusReady, h.view.status)

	active := h.view.list.ActiveIndex()
	require.NotEqual(t, -1, active)
	assert.Equal(t, testYesterday, h.view.list.Rows[active].Date)

	// Nothing is saved twice once the autosave deadline passes.
	h.advance(2 * time.Second)
	assert.Len(t, svc.savesSnapshot(), 1)
}

func TestSelectEntryWithoutPendingSave(t *testing.T) {
	svc := newMemoryService()
	svc.entries[testToday] = "today"
	svc.entries["2025-12-31"] = "new year's eve"
	svc.index = entry.Index{testToday, "2025-12-31"}
	h := newHarness(t, svc)
	h.start()

	h.ctrl.SelectEntry("2025-12-31")
	h.settle()

	assert.Empty(t, svc.savesSnapshot())
	assert.Equal(t, "new year's eve", h.view.content)
	assert.Equal(t, "Dec 31, 2025 Entry", h.view.header)
	assert.Equal(t, "Dec 31, 2025", h.view.list.Rows[1].Label)

	h.ctrl.SelectEntry(testToday)
	h.settle()
	assert.Equal(t, "Monday, October 19, 2026", h.view.header)
}

func TestSelectEntryFailureKeepsDocument(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	svc := newMemoryService()
	svc.entries[testToday] = "keep me"
	h := newHarnessWithLogger(t, svc, zap.New(core))
	h.start()
	statuses := len(h.view.statuses)

	h.ctrl.SelectEntry("2026-01-01")
	h.settle()

	assert.Equal(t, testToday, h.ctrl.Date())
	assert.Equal(t, "keep me", h.view.content)
	assert.Equal(t, "Monday, October 19, 2026", h.view.header)
	assert.Len(t, h.view.statuses, statuses)
	entries := logs.FilterMessage("load entry").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "2026-01-01", entries[0].ContextMap()["date"])
	assert.EqualValues(t, 404, entries[0].ContextMap()["status"])
}

func TestLatestSelectionWins(t *testing.T) {
	svc := newMemoryService()
	svc.entries[testYesterday] = "yesterday"
	svc.entries["2026-10-01"] = "first of the month"
	h := newHarness(t, svc)
	h.start()

	gate := make(chan struct{})
	svc.mu.Lock()
	svc.entryGate = gate
	svc.mu.Unlock()

	h.ctrl.SelectEntry(testYesterday)
	h.ctrl.SelectEntry("2026-10-01")
	close(gate)
	h.settle()

	assert.Equal(t, "2026-10-01", h.ctrl.Date())
	assert.Equal(t, "first of the month", h.view.content)
}

func TestEditsDuringSelectBelongToOldDate(t *testing.T) {
	svc := newMemoryService()
	svc.entries[testYesterday] = "yesterday"
	h := newHarness(t, svc)
	h.start()

	gate := make(chan struct{})
	svc.mu.Lock()
	svc.entryGate = gate
	svc.mu.Unlock()

	h.ctrl.SelectEntry(testYesterday)
	h.typeText("late edit")
	close(gate)
	h.settle()

	assert.Equal(t, []entry.Entry{{Date: testToday, Content: "late edit"}}, svc.savesSnapshot())
	assert.Equal(t, testYesterday, h.ctrl.Date())
	assert.Equal(t, "yesterday", h.view.content)
	assert.False(t, h.ctrl.SavePending())
}

func TestSaveOnUnload(t *testing.T) {
	h := newHarness(t, newMemoryService())
	h.start()

	require.NoError(t, h.ctrl.SaveOnUnload(context.Background()))
	assert.Empty(t, h.svc.savesSnapshot())

	h.typeText("goodnight")
	require.NoError(t, h.ctrl.SaveOnUnload(context.Background()))
	assert.Equal(t, []entry.Entry{{Date: testToday, Content: "goodnight"}}, h.svc.savesSnapshot())
	assert.False(t, h.ctrl.SavePending())
}

func TestSaveOnUnloadFailure(t *testing.T) {
	svc := newMemoryService()
	h := newHarness(t, svc)
	h.start()
	svc.mu.Lock()
	svc.saveErr = errTransport
	svc.mu.Unlock()

	h.typeText("goodnight")
	err := h.ctrl.SaveOnUnload(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errTransport)
}

func TestCloseDropsPendingWork(t *testing.T) {
	svc := newMemoryService()
	svc.banned = []string{"bad"}
	h := newHarness(t, svc)
	h.start()

	h.typeText("bad words")
	h.ctrl.Close()
	h.advance(10 * time.Second)

	assert.Empty(t, svc.savesSnapshot())
	assert.Empty(t, svc.checksSnapshot())
	assert.False(t, h.view.overlayVisible)
	assert.Equal(t, 0, h.clock.Pending())

	// Close is idempotent.
	h.ctrl.Close()
}

func TestSetTimings(t *testing.T) {
	h := newHarness(t, newMemoryService())
	h.start()

	h.ctrl.SetTimings(Timings{SaveDelay: 200 * time.Millisecond, CheckDelay: 100 * time.Millisecond})
	assert.Equal(t, 2*time.Second, h.ctrl.timings.StatusReset)

	h.typeText("quick")
	h.advance(100 * time.Millisecond)
	assert.Len(t, h.svc.checksSnapshot(), 1)
	h.advance(100 * time.Millisecond)
	assert.Len(t, h.svc.savesSnapshot(), 1)
}
