package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecsforge/internal/core/ecs"
)

type posComp struct{ X, Y, Z float64 }

func (p *posComp) GetType() ecs.ComponentType { return "Pos" }
func (p *posComp) Clone() ecs.Component        { c := *p; return &c }
func (p *posComp) Size() int                   { return 24 }

type velComp struct{ X, Y, Z float64 }

func (v *velComp) GetType() ecs.ComponentType { return "Vel" }
func (v *velComp) Clone() ecs.Component        { c := *v; return &c }
func (v *velComp) Size() int                   { return 24 }

type tagComp struct{}

func (t *tagComp) GetType() ecs.ComponentType { return "Tag" }
func (t *tagComp) Clone() ecs.Component        { return &tagComp{} }
func (t *tagComp) Size() int                   { return 0 }

func newTestWorld(t *testing.T) *ecs.World {
	t.Helper()
	w := ecs.NewWorld()
	require.NoError(t, w.RegisterComponent(ecs.ComponentAttr{Name: "Pos"}))
	require.NoError(t, w.RegisterComponent(ecs.ComponentAttr{Name: "Vel"}))
	require.NoError(t, w.RegisterComponent(ecs.ComponentAttr{Name: "Tag"}))
	return w
}

// Scenario 1 (spec.md §8): position+velocity integration.
func TestPositionVelocityIntegration(t *testing.T) {
	w := newTestWorld(t)
	e := w.CreateEntity()
	require.NoError(t, w.AddComponent(e, "Pos", &posComp{0, 0, 0}))
	require.NoError(t, w.AddComponent(e, "Vel", &velComp{1, 2, 3}))

	w.RegisterSystem(ecs.SystemDesc{
		Name:   "integrate",
		Reads:  []ecs.ComponentType{"Vel"},
		Writes: []ecs.ComponentType{"Pos"},
		Join:   ecs.JoinInner,
		Transform: func(w *ecs.World, frame ecs.Frame, instances []ecs.Instance) error {
			vel := instances[0].Component.(*velComp)
			pos := instances[1].Component.(*posComp)
			pos.X += vel.X * frame.DT
			pos.Y += vel.Y * frame.DT
			pos.Z += vel.Z * frame.DT
			return nil
		},
	})

	require.NoError(t, w.Tick(0.5))

	got, ok := w.Find(e, "Pos")
	require.True(t, ok)
	p := got.(*posComp)
	assert.Equal(t, 0.5, p.X)
	assert.Equal(t, 1.0, p.Y)
	assert.Equal(t, 1.5, p.Z)
}

// Scenario 2 (spec.md §8): deferred removal during iteration.
func TestDeferredRemovalDuringIteration(t *testing.T) {
	w := newTestWorld(t)
	ids := make([]ecs.EntityID, 10)
	for i := range ids {
		ids[i] = w.CreateEntity()
		require.NoError(t, w.AddComponent(ids[i], "Tag", &tagComp{}))
	}

	var observedDuringTick int
	w.RegisterSystem(ecs.SystemDesc{
		Name:     "remove-every-third",
		Reads:    []ecs.ComponentType{"Tag"},
		Join:     ecs.JoinInner,
		Priority: ecs.PriorityHigh,
		Transform: func(w *ecs.World, frame ecs.Frame, instances []ecs.Instance) error {
			e := instances[0].Entity
			if e.Index()%3 == 2 {
				w.RemoveComponent(e, "Tag")
			}
			return nil
		},
	})
	w.RegisterSystem(ecs.SystemDesc{
		Name:     "observe-count",
		Reads:    []ecs.ComponentType{"Tag"},
		Join:     ecs.JoinInner,
		Priority: ecs.PriorityLow,
		Transform: func(w *ecs.World, frame ecs.Frame, instances []ecs.Instance) error {
			observedDuringTick++
			return nil
		},
	})

	w.SetDeferring(true)
	require.NoError(t, w.Tick(0))
	assert.Equal(t, 10, observedDuringTick, "removals during phase 3 must not be visible until phase 5")
	w.SetDeferring(false)
	w.ApplyDeferred()
	assert.Equal(t, 7, w.Components.Count("Tag"))
}

// Scenario 3 (spec.md §8): event fan-out in subscriber-registration order.
func TestEventFanOutOrdering(t *testing.T) {
	w := ecs.NewWorld()
	var log []string
	w.Events.Subscribe("Explode", func(msg ecs.Message) {
		log = append(log, "first")
	})
	w.Events.Subscribe("Explode", func(msg ecs.Message) {
		log = append(log, "second")
	})

	w.Events.Send("Explode", [2]int{3, 4})
	w.Events.Flush()
	require.Equal(t, []string{"first", "second"}, log)

	w.Events.Flush()
	assert.Len(t, log, 2, "re-flushing with no new sends must append nothing")
}

// Generation invariant (spec.md §8): destroy+recreate never reuses a handle.
func TestGenerationInvariantOnRecycle(t *testing.T) {
	m := ecs.NewEntityManager()
	e1 := m.Create()
	m.Destroy(e1)
	e2 := m.Create()
	assert.NotEqual(t, e1, e2)
	assert.False(t, m.IsValid(e1))
	assert.True(t, m.IsValid(e2))
}

// has/find invariant (spec.md §8).
func TestHasFindInvariant(t *testing.T) {
	w := newTestWorld(t)
	e := w.CreateEntity()
	assert.False(t, w.Has(e, "Pos"))
	require.NoError(t, w.AddComponent(e, "Pos", &posComp{}))
	assert.True(t, w.Has(e, "Pos"))
	_, ok := w.Find(e, "Pos")
	assert.True(t, ok)
}

// Boundary (spec.md §8): component count at its configured max returns
// MaxComponentCountReached; existing components remain functional.
func TestComponentMaxCountReached(t *testing.T) {
	w := ecs.NewWorld()
	require.NoError(t, w.RegisterComponent(ecs.ComponentAttr{Name: "Tag", MaxInstances: 2}))

	e1 := w.CreateEntity()
	e2 := w.CreateEntity()
	e3 := w.CreateEntity()
	require.NoError(t, w.AddComponent(e1, "Tag", &tagComp{}))
	require.NoError(t, w.AddComponent(e2, "Tag", &tagComp{}))

	err := w.AddComponent(e3, "Tag", &tagComp{})
	require.Error(t, err)
	ecsErr, ok := err.(*ecs.ECSError)
	require.True(t, ok)
	assert.Equal(t, ecs.CodeMaxComponentCountReached, ecsErr.Code)

	assert.True(t, w.Has(e1, "Tag"), "existing components must remain functional past the limit")
	assert.True(t, w.Has(e2, "Tag"))
}
