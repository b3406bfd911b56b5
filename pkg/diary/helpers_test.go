package diary

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/diary/pkg/entry"
	"tableflip.dev/diary/pkg/remote"
	"tableflip.dev/diary/pkg/schedule"
)

var testNow = time.Date(2026, time.October, 19, 9, 30, 0, 0, time.Local)

const (
	testToday     = "2026-10-19"
	testYesterday = "2026-10-18"
)

type checkCall struct {
	ctx     context.Context
	content string
}

type memoryService struct {
	mu sync.Mutex

	entries  map[string]string
	index    entry.Index
	indexErr error
	todayErr error
	saveErr  error
	checkErr error
	banned   []string

	// calls records Save and Entry requests in arrival order.
	calls []string

	saves      []entry.Entry
	checks     []checkCall
	fetches    []string
	indexCalls int

	// checkGate, when set, blocks CheckBanned until a value arrives.
	checkGate chan struct{}
	// entryGate, when set, blocks Entry until a value arrives.
	entryGate chan struct{}
}

func newMemoryService() *memoryService {
	return &memoryService{entries: map[string]string{}, index: entry.Index{}}
}

func (m *memoryService) Today(ctx context.Context) (entry.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.todayErr != nil {
		return entry.Entry{}, m.todayErr
	}
	return entry.Entry{Date: testToday, Content: m.entries[testToday]}, nil
}

func (m *memoryService) Entries(ctx context.Context) (entry.Index, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexCalls++
	if m.indexErr != nil {
		return nil, m.indexErr
	}
	out := make(entry.Index, len(m.index))
	copy(out, m.index)
	return out, nil
}

func (m *memoryService) Entry(ctx context.Context, date string) (entry.Entry, error) {
	m.mu.Lock()
	m.fetches = append(m.fetches, date)
	m.calls = append(m.calls, "entry "+date)
	gate := m.entryGate
	m.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return entry.Entry{}, ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.entries[date]
	if !ok {
		return entry.Entry{}, &remote.APIError{StatusCode: 404, Message: "Entry not found"}
	}
	return entry.Entry{Date: date, Content: content}, nil
}

func (m *memoryService) Save(ctx context.Context, e entry.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves = append(m.saves, e)
	m.calls = append(m.calls, "save "+e.Date)
	if m.saveErr != nil {
		return m.saveErr
	}
	m.entries[e.Date] = e.Content
	if !m.index.Contains(e.Date) {
		m.index = append(entry.Index{e.Date}, m.index...)
	}
	return nil
}

// CheckBanned answers from the banned list. With a gate it waits for release
// and then answers even if ctx was cancelled, like a server that already
// started working on the request.
func (m *memoryService) CheckBanned(ctx context.Context, content string) (entry.CheckResult, error) {
	m.mu.Lock()
	m.checks = append(m.checks, checkCall{ctx: ctx, content: content})
	gate := m.checkGate
	banned := append([]string(nil), m.banned...)
	checkErr := m.checkErr
	m.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if checkErr != nil {
		return entry.CheckResult{}, checkErr
	}
	for _, w := range banned {
		if strings.Contains(content, w) {
			return entry.CheckResult{Matched: true, Snippet: w}, nil
		}
	}
	return entry.CheckResult{}, nil
}


func (m *memoryService) savesSnapshot() []entry.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entry.Entry(nil), m.saves...)
}

func (m *memoryService) callsSnapshot() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *memoryService) indexCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexCalls
}

func (m *memoryService) checksSnapshot() []checkCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]checkCall(nil), m.checks...)
}

type statusChange struct {
	status SaveStatus
	text   string
}

type recordingView struct {
	content  string
	header   string
	status   SaveStatus
	text     string
	statuses []statusChange
	list     List
	lists    int

	overlayVisible bool
	overlayMessage string
	overlayShows   int
	overlayHides   int
}

func (v *recordingView) SetContent(text string) { v.content = text }
func (v *recordingView) SetHeader(text string)  { v.header = text }
func (v *recordingView) SetStatus(status SaveStatus, text string) {
	v.status = status
	v.text = text
	v.statuses = append(v.statuses, statusChange{status: status, text: text})
}
func (v *recordingView) RenderEntries(list List) {
	v.list = list
	v.lists++
}
func (v *recordingView) ShowOverlay(message string) {
	v.overlayVisible = true
	v.overlayMessage = message
	v.overlayShows++
}
func (v *recordingView) HideOverlay() {
	v.overlayVisible = false
	v.overlayHides++
}

func (v *recordingView) statusTrail() []SaveStatus {
	out := make([]SaveStatus, 0, len(v.statuses))
	for _, s := range v.statuses {
		if len(out) > 0 && out[len(out)-1] == s.status {
			continue
		}
		out = append(out, s.status)
	}
	return out
}

type harness struct {
	t     *testing.T
	clock *schedule.FakeClock
	loop  *schedule.Loop
	svc   *memoryService
	view  *recordingView
	ctrl  *Controller
}

func newHarness(t *testing.T, svc *memoryService) *harness {
	t.Helper()
	return newHarnessWithLogger(t, svc, zap.NewNop())
}

func newHarnessWithLogger(t *testing.T, svc *memoryService, logger *zap.Logger) *harness {
	t.Helper()
	h := &harness{
		t:     t,
		clock: schedule.NewFakeClock(testNow),
		loop:  schedule.NewLoop(256),
		svc:   svc,
		view:  &recordingView{},
	}
	ctrl, err := New(Options{
		Service:    svc,
		View:       h.view,
		Dispatcher: h.loop,
		Clock:      h.clock,
		Logger:     logger,
	})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	h.ctrl = ctrl
	t.Cleanup(ctrl.Close)
	return h
}

// start boots the controller and runs the forced initial check.
func (h *harness) start() {
	h.t.Helper()
	h.ctrl.Start()
	h.settle()
	h.advance(0)
}

// settle runs dispatched work until the flow has been idle for a moment.
func (h *harness) settle() {
	h.t.Helper()
	for {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		ran := h.loop.RunOne(ctx)
		cancel()
		if !ran {
			return
		}
	}
}

// advance moves the fake clock and settles the resulting work.
func (h *harness) advance(d time.Duration) {
	h.t.Helper()
	h.clock.Advance(d)
	h.settle()
}

func (h *harness) typeText(steps ...string) {
	for _, s := range steps {
		h.ctrl.TextChanged(s)
	}
}

var errTransport = errors.New("connection refused")
