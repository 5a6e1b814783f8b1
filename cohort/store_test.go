package cohort

import (
	"context"
	"strings"
	"testing"

	"github.com/klejdi94/strata/core"
	"github.com/klejdi94/strata/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	return NewStore(NewMemoryKV(), WithLogf(func(string, ...interface{}) {}))
}

func TestStore_CreateDoesNotPersist(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	c, err := s.Create(ctx, "  Heavy Users  ", filter.Criteria{SessionsMin: "100"})
	require.NoError(t, err)
	assert.Equal(t, "Heavy Users", c.Name)
	assert.True(t, strings.HasPrefix(c.ID, "cohort_"))
	assert.False(t, c.CreatedAt.IsZero())

	all, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStore_ColorRoundRobin(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	c0, err := s.Create(ctx, "first", filter.Criteria{})
	require.NoError(t, err)
	assert.Equal(t, palette[0], c0.Color)
	require.NoError(t, s.Save(ctx, c0))

	c1, err := s.Create(ctx, "second", filter.Criteria{})
	require.NoError(t, err)
	assert.Equal(t, palette[1], c1.Color)
}

func TestStore_SaveUpsertPreservesPosition(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	a, _ := s.Create(ctx, "a", filter.Criteria{})
	require.NoError(t, s.Save(ctx, a))
	b, _ := s.Create(ctx, "b", filter.Criteria{})
	require.NoError(t, s.Save(ctx, b))

	a.Name = "a renamed"
	require.NoError(t, s.Save(ctx, a))
	require.NoError(t, s.Save(ctx, a))

	all, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)
	assert.Equal(t, "a renamed", all[0].Name)
	assert.Equal(t, b.ID, all[1].ID)
}

func TestStore_LoadAllRecoversFromGarbage(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	var logged bool
	s := NewStore(kv, WithLogf(func(string, ...interface{}) { logged = true }))

	require.NoError(t, kv.Set(ctx, StorageKey, "{not json"))
	all, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.True(t, logged)

	// Non-array JSON is recovered the same way.
	require.NoError(t, kv.Set(ctx, StorageKey, `{"id":"x"}`))
	all, err = s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStore_DeleteAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	a, _ := s.Create(ctx, "a", filter.Criteria{})
	require.NoError(t, s.Save(ctx, a))
	require.NoError(t, s.Delete(ctx, "cohort_0_missing"))

	all, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, s.Delete(ctx, a.ID))
	all, err = s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStore_Update(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	a, _ := s.Create(ctx, "a", filter.Criteria{})
	require.NoError(t, s.Save(ctx, a))

	name := "renamed"
	crit := filter.Criteria{RequestsMin: "5"}
	require.NoError(t, s.Update(ctx, a.ID, Patch{Name: &name, FilterCriteria: &crit}))

	got, err := s.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, "5", got.FilterCriteria.RequestsMin)
	assert.Equal(t, a.Color, got.Color)

	// Absent id is a no-op, not an error.
	require.NoError(t, s.Update(ctx, "cohort_0_missing", Patch{Name: &name}))
}

func TestStore_GetByIDNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	_, err := s.GetByID(ctx, "cohort_0_missing")
	assert.ErrorIs(t, err, core.ErrCohortNotFound)
}

func TestStore_RoundTripThroughKV(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := NewStore(kv)

	a, _ := s.Create(ctx, "round trip", filter.Criteria{
		SearchText:        "ada",
		IsMcpUser:         core.Bool(true),
		IsPowerUserFilter: []string{"true", "unmarked"},
		SessionsMin:       "10",
	})
	require.NoError(t, s.Save(ctx, a))

	// A fresh store over the same KV sees the identical definition.
	got, err := NewStore(kv).GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, a.FilterCriteria, got.FilterCriteria)
	assert.True(t, a.CreatedAt.Equal(got.CreatedAt))
}
