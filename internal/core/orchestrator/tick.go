// Package orchestrator sequences one tick through the six ordered phases
// spec.md §4.9 specifies, tying a scene's World and coroutine Scheduler
// together.
package orchestrator

import (
	"ecsforge/internal/core/ecs"
	"ecsforge/internal/core/scene"
	"ecsforge/internal/core/variant"
)

// Hook is an optional user callback run at the pre- or post-loop phase.
type Hook func(w *ecs.World) error

// Orchestrator drives one scene stack: each Tick operates on whichever
// scene is currently on top, per spec.md §4.8's "only the active scene ticks".
type Orchestrator struct {
	Scenes *scene.Stack

	PreLoop  Hook
	PostLoop Hook
}

func New(scenes *scene.Stack) *Orchestrator {
	return &Orchestrator{Scenes: scenes}
}

// Tick runs the six phases from spec.md §4.9 against the active scene.
// Storage is read-stable across phases 1-4; mutations queued during them
// become visible only in phase 5.
func (o *Orchestrator) Tick(dt float64) error {
	sc := o.Scenes.Top()
	if sc == nil {
		return nil
	}
	w := sc.World

	// Phase 1: event flush. Structural mutations triggered by subscribers
	// here are deferred to phase 5, since World.SetDeferring(true) below
	// wraps phases 1-4 together.
	w.SetDeferring(true)
	w.Events.Flush()

	// Phase 2: pre-loop hook.
	if o.PreLoop != nil {
		if err := o.PreLoop(w); err != nil {
			return err
		}
	}

	// Phase 3: system dispatch.
	if err := w.Tick(dt); err != nil {
		return err
	}

	// Phase 4: coroutine step.
	sc.Coroutines.PromoteStaged()
	sc.Coroutines.StepSync(variant.NewNil())

	// Phase 5: deferred mutations, FIFO, create/destroy hooks fire here.
	w.SetDeferring(false)
	w.ApplyDeferred()

	// Phase 6: post-loop hook.
	if o.PostLoop != nil {
		if err := o.PostLoop(w); err != nil {
			return err
		}
	}
	return nil
}
