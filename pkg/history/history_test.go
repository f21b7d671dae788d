package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rf2dash/pkg/model"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestRecordAndList(t *testing.T) {
	m := newManager(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	first, err := m.Record(model.ExportRecord{Filename: "a.csv", Driver: "Alex", Track: "Spa", Vehicle: "Oreca", Session: 5, Points: 10, CreatedAt: base})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	second, err := m.Record(model.ExportRecord{Filename: "b.csv", Driver: "Alex", Track: "Monza", Vehicle: "Oreca", Session: 10, Points: 3, CreatedAt: base.Add(time.Hour)})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	records, err := m.List(0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "b.csv", records[0].Filename, "newest first")
	assert.Equal(t, 3, records[0].Points)
	assert.True(t, base.Equal(records[1].CreatedAt))

	records, err = m.List(1)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestGet(t *testing.T) {
	m := newManager(t)
	rec, err := m.Record(model.ExportRecord{Filename: "a.csv", Driver: "Alex", Track: "Spa", Vehicle: "Oreca", Points: 1})
	require.NoError(t, err)

	got, err := m.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spa", got.Track)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = m.Get("missing")
	assert.Equal(t, ErrNotFound, errors.Cause(err))
}

func TestQuotesAreStoredVerbatim(t *testing.T) {
	m := newManager(t)
	_, err := m.Record(model.ExportRecord{Filename: "x.csv", Driver: "O'Neil", Track: "Spa", Vehicle: "Oreca"})
	require.NoError(t, err)

	records, err := m.List(10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "O'Neil", records[0].Driver)
}
