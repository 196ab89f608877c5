package scene_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ecsforge/internal/core/ecs"
	"ecsforge/internal/core/scene"
)

type marker struct{}

func (m *marker) GetType() ecs.ComponentType { return "C" }
func (m *marker) Clone() ecs.Component        { return &marker{} }
func (m *marker) Size() int                   { return 0 }

// Scenario 6 (spec.md §8): scene isolation.
func TestSceneIsolation(t *testing.T) {
	st := scene.NewStack()

	x := st.Push("X")
	require.NoError(t, x.World.RegisterComponent(ecs.ComponentAttr{Name: "C"}))
	for i := 0; i < 3; i++ {
		e := x.World.CreateEntity()
		require.NoError(t, x.World.AddComponent(e, "C", &marker{}))
	}

	y := st.Push("Y")
	require.NoError(t, y.World.RegisterComponent(ecs.ComponentAttr{Name: "C"}))
	e := y.World.CreateEntity()
	require.NoError(t, y.World.AddComponent(e, "C", &marker{}))

	require.Equal(t, y, st.Top())
	require.Equal(t, 1, st.Top().World.Components.Count("C"))

	require.NoError(t, st.Pop())
	require.Equal(t, x, st.Top())
	require.Equal(t, 3, st.Top().World.Components.Count("C"))
}

func TestPopEmptyStackIsNoOp(t *testing.T) {
	st := scene.NewStack()
	err := st.Pop()
	require.Error(t, err)
}
