package production

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/markovx"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "db", "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_SaveGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	report := sampleReport()
	id, err := s.Save(ctx, report)
	require.NoError(t, err)
	assert.Len(t, id, 36)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, report.Name, got.Name)
	assert.Equal(t, report.Matrix, got.Matrix)
	assert.True(t, report.Timestamp.Equal(got.Timestamp))

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_List(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, kind := range []string{markovx.KindBoard, markovx.KindOccupancy, markovx.KindBoard} {
		_, err := s.Save(ctx, markovx.Report{
			Kind:      kind,
			Name:      kind,
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.True(t, all[0].CreatedAt.Equal(base.Add(2*time.Hour)))

	boards, err := s.List(ctx, markovx.KindBoard)
	require.NoError(t, err)
	require.Len(t, boards, 2)
	for _, r := range boards {
		assert.Equal(t, markovx.KindBoard, r.Kind)
	}

	none, err := s.List(ctx, markovx.KindCorrection)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteStore_RejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Save(context.Background(), markovx.Report{Name: "no kind"})
	assert.Error(t, err)
}
