package ecs_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecsforge/internal/core/ecs"
)

// Scenario 5 (spec.md §8): barrier ordering. S_A1 (first registered, same
// barrier as S_A2) must complete before S_A2 and S_B1 start, regardless
// of bucket or priority; S_A2 and S_B1 (different buckets) then proceed
// concurrently.
func TestBarrierLeaderRunsAlone(t *testing.T) {
	w := ecs.NewWorld()
	require.NoError(t, w.RegisterComponent(ecs.ComponentAttr{Name: "Tag"}))
	e := w.CreateEntity()
	require.NoError(t, w.AddComponent(e, "Tag", &tagComp{}))

	var mu sync.Mutex
	var order []string
	leaderDone := make(chan struct{})

	w.RegisterSystem(ecs.SystemDesc{
		Name:     "S_A1",
		Bucket:   "A",
		Barriers: []ecs.BarrierName{"B"},
		Priority: ecs.PriorityLowest, // lowest priority, but must still run first as leader
		Post: func(w *ecs.World, frame ecs.Frame) error {
			time.Sleep(5 * time.Millisecond)
			mu.Lock()
			order = append(order, "S_A1")
			mu.Unlock()
			close(leaderDone)
			return nil
		},
	})
	w.RegisterSystem(ecs.SystemDesc{
		Name:     "S_A2",
		Bucket:   "A",
		Barriers: []ecs.BarrierName{"B"},
		Priority: ecs.PriorityHighest,
		Post: func(w *ecs.World, frame ecs.Frame) error {
			select {
			case <-leaderDone:
			default:
				t.Error("S_A2 ran before leader S_A1 completed")
			}
			mu.Lock()
			order = append(order, "S_A2")
			mu.Unlock()
			return nil
		},
	})
	w.RegisterSystem(ecs.SystemDesc{
		Name:     "S_B1",
		Bucket:   "B",
		Barriers: []ecs.BarrierName{"B"},
		Priority: ecs.PriorityNormal,
		Post: func(w *ecs.World, frame ecs.Frame) error {
			select {
			case <-leaderDone:
			default:
				t.Error("S_B1 ran before leader S_A1 completed")
			}
			mu.Lock()
			order = append(order, "S_B1")
			mu.Unlock()
			return nil
		},
	})

	require.NoError(t, w.Tick(0))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, 3)
	assert.Equal(t, "S_A1", order[0], "barrier leader must run first regardless of priority")
}
