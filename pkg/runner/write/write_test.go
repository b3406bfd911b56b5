package write

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tableflip.dev/diary/pkg/entry"
)

type recorder struct {
	saved []entry.Entry
	err   error
}

func (r *recorder) Save(_ context.Context, e entry.Entry) error {
	r.saved = append(r.saved, e)
	return r.err
}

func TestWriteDefaultsToToday(t *testing.T) {
	rec := &recorder{}
	buf := &bytes.Buffer{}
	w := Write{Content: "hi", Service: rec, Out: buf}
	if err := w.Do(context.Background()); err != nil {
		t.Fatalf("Do() = %v", err)
	}
	if len(rec.saved) != 1 || rec.saved[0].Date != entry.Today(time.Now()) || rec.saved[0].Content != "hi" {
		t.Fatalf("saved = %+v", rec.saved)
	}
	if !strings.Contains(buf.String(), "saved") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestWriteRejectsBadDate(t *testing.T) {
	rec := &recorder{}
	w := Write{Date: "19/10/2026", Content: "hi", Service: rec, Out: &bytes.Buffer{}}
	if err := w.Do(context.Background()); err == nil {
		t.Fatal("expected an error for a malformed date")
	}
	if len(rec.saved) != 0 {
		t.Errorf("saved despite bad date: %+v", rec.saved)
	}
}

func TestWriteJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	w := Write{Date: "2026-10-01", Content: "x", JSON: true, Service: &recorder{}, Out: buf}
	if err := w.Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"date\": \"2026-10-01\",\n  \"status\": \"saved\"\n}\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteServiceError(t *testing.T) {
	boom := errors.New("boom")
	w := Write{Date: "2026-10-01", Service: &recorder{err: boom}, Out: &bytes.Buffer{}}
	if err := w.Do(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Do() = %v, want %v", err, boom)
	}
}
