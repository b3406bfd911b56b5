package list

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/diary/pkg/entry"
)

type lister struct {
	idx entry.Index
	err error
}

func (l lister) Entries(context.Context) (entry.Index, error) {
	return l.idx, l.err
}

func TestListJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	l := List{JSON: true, Service: lister{idx: entry.Index{"2026-10-01", "2026-09-30"}}, Out: buf}

	require.NoError(t, l.Do(context.Background()))
	assert.JSONEq(t, `{"entries":["2026-10-01","2026-09-30"]}`, buf.String())
}

func TestListPretty(t *testing.T) {
	buf := &bytes.Buffer{}
	l := List{Service: lister{idx: entry.Index{"2026-10-01"}}, Out: buf}

	require.NoError(t, l.Do(context.Background()))
	assert.Contains(t, buf.String(), "Entries")
	assert.Contains(t, buf.String(), "2026-10-01")
}

func TestListError(t *testing.T) {
	boom := errors.New("boom")
	l := List{Service: lister{err: boom}, Out: &bytes.Buffer{}}
	assert.ErrorIs(t, l.Do(context.Background()), boom)
}
