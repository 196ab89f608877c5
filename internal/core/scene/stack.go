// Package scene implements the scene stack from spec.md §4.8: each scene
// owns an independent World and coroutine Scheduler; only the top scene
// ticks, and popping a scene destroys it rather than merely deactivating it.
package scene

import (
	"fmt"
	"sync"

	"ecsforge/internal/core/coroutine"
	"ecsforge/internal/core/ecs"
)

// OnDestroyHook fires once, after a scene's entities and systems have
// been torn down, per spec.md §4.8's `scene_on_destroy`.
type OnDestroyHook func(name string)

// Scene bundles one World with its own coroutine scheduler, so pushing a
// new scene can't leak state into or out of another scene's entities.
type Scene struct {
	Name       string
	World      *ecs.World
	Coroutines *coroutine.Scheduler

	onDestroy OnDestroyHook
}

// NewScene allocates a scene, per spec.md §4.8's `scene_create(name)`.
func NewScene(name string) *Scene {
	return &Scene{
		Name:       name,
		World:      ecs.NewWorld(),
		Coroutines: coroutine.NewScheduler(),
	}
}

// OnDestroy registers the single hook fired after teardown. A second call
// replaces the first, matching spec.md §4.8's "registers a single hook".
func (s *Scene) OnDestroy(fn OnDestroyHook) { s.onDestroy = fn }

// Stack is a LIFO of scenes; only the top entry is active (ticks and
// receives events). Popping destroys the top scene outright.
type Stack struct {
	mu     sync.Mutex
	scenes []*Scene
}

func NewStack() *Stack {
	return &Stack{}
}

// Push allocates a scene and makes it the active (top) scene, per
// spec.md §4.8's `scene_push(h)`. The previously active scene is
// suspended — not ticked, not sent events — but keeps its state.
func (st *Stack) Push(name string) *Scene {
	sc := NewScene(name)
	st.mu.Lock()
	st.scenes = append(st.scenes, sc)
	st.mu.Unlock()
	return sc
}

// PushScene pushes an already-constructed scene, for callers that need to
// configure it (register components/systems) before it becomes active.
func (st *Stack) PushScene(sc *Scene) {
	st.mu.Lock()
	st.scenes = append(st.scenes, sc)
	st.mu.Unlock()
}

// Pop destroys the top scene: its async coroutine workers are shut down,
// every entity holding a component is destroyed (firing component destroy
// hooks), and its on-destroy hook fires; the next scene down is active.
// Per spec.md §4.8, pop destroys rather than deactivates — the popped
// scene's World and entities are not retrievable again.
func (st *Stack) Pop() error {
	st.mu.Lock()
	if len(st.scenes) == 0 {
		st.mu.Unlock()
		return fmt.Errorf("scene: pop on empty stack")
	}
	top := st.scenes[len(st.scenes)-1]
	st.scenes = st.scenes[:len(st.scenes)-1]
	st.mu.Unlock()

	top.Coroutines.Shutdown()
	w := top.World
	for _, t := range w.Components.RegisteredTypes() {
		for _, e := range w.Components.Entities(t) {
			w.DestroyEntity(e)
		}
	}
	if top.onDestroy != nil {
		top.onDestroy(top.Name)
	}
	return nil
}

// Top returns the active scene, or nil if the stack is empty.
func (st *Stack) Top() *Scene {
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.scenes) == 0 {
		return nil
	}
	return st.scenes[len(st.scenes)-1]
}

// Depth reports how many scenes are on the stack.
func (st *Stack) Depth() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.scenes)
}
