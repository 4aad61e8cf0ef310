package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arnelund/tfa/internal/interval"
	"github.com/arnelund/tfa/internal/zone"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "analyses.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	z0 := interval.MustNew(0, 0, true, true)
	s0 := zone.State{Discrete: "x0", Zone: z0}
	s1 := zone.State{Discrete: "x1", Zone: z0}

	rec := Record{
		Bounds:      map[string][]float64{"x0": {0, 1}},
		ZoneStates:  []zone.State{s0, s1},
		ZoneEvents:  []string{"a"},
		ZoneEdges:   []zone.Edge{{From: s0, Label: "a", To: s1}},
		ZoneInitial: []zone.State{s0},
	}

	id, err := s.Put(ctx, rec)
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestGet_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Put(ctx, Record{Bounds: map[string][]float64{"x0": {0}}})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, id))

	_, err = s.Get(ctx, id)
	assert.Error(t, err)
}

func TestDelete_NotFound(t *testing.T) {
	s := openTestStore(t)
	err := s.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
