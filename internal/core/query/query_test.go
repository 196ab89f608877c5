package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecsforge/internal/core/ecs"
	"ecsforge/internal/core/query"
)

type qTag struct{}

func (q *qTag) GetType() ecs.ComponentType { return "Q" }
func (q *qTag) Clone() ecs.Component        { return &qTag{} }
func (q *qTag) Size() int                   { return 0 }

func TestRegistryAssignIsStableAndBounded(t *testing.T) {
	r := query.NewRegistry()
	pos1, ok := r.Assign("A")
	require.True(t, ok)
	pos2, ok := r.Assign("A")
	require.True(t, ok)
	assert.Equal(t, pos1, pos2, "re-assigning a known type must return the same bit position")

	for i := 0; i < 63; i++ {
		_, ok := r.Assign(ecs.ComponentType(rune('b' + i)))
		require.True(t, ok)
	}
	_, ok = r.Assign("overflow")
	assert.False(t, ok, "a 65th distinct type must exceed the 64-bit registry")
}

func TestBitSetHasAll(t *testing.T) {
	r := query.NewRegistry()
	for _, c := range []ecs.ComponentType{"Position", "Velocity", "Health"} {
		r.Assign(c)
	}
	var b query.ComponentBitSet
	b = r.SetMany(b, "Position", "Velocity")
	assert.True(t, r.HasAll(b, "Position", "Velocity"))
	assert.False(t, r.HasAll(b, "Position", "Health"))
}

func TestCacheHitAfterMiss(t *testing.T) {
	c, err := query.NewCache(4)
	require.NoError(t, err)

	w := ecs.NewWorld()
	require.NoError(t, w.RegisterComponent(ecs.ComponentAttr{Name: "Q"}))
	e := w.CreateEntity()
	require.NoError(t, w.AddComponent(e, "Q", &qTag{}))

	b := query.NewBuilder().With("Q")
	r1 := query.Resolve(w, c, b)
	require.Len(t, r1.Entities, 1)

	stats := c.Stats(b.Key())
	assert.Equal(t, int64(0), stats.Hits)

	r2 := query.Resolve(w, c, b)
	assert.Equal(t, r1.Entities, r2.Entities)
	stats = c.Stats(b.Key())
	assert.Equal(t, int64(1), stats.Hits)
}

func TestCacheInvalidateAllForcesRecompute(t *testing.T) {
	c, err := query.NewCache(4)
	require.NoError(t, err)
	c.Put("k", query.Result{Entities: []ecs.EntityID{1}})
	c.InvalidateAll()
	_, ok := c.Get("k")
	assert.False(t, ok)
}
