// Package core wires the engine's subsystems into the Universe context
// object spec.md §9 calls for: "model the singleton as a context object
// passed explicitly; do not reach for language-level process-wide
// statics." Adapted from the teacher's Game (internal/core/game.go),
// generalized from one hardcoded ebiten.Game into the engine's full
// lifecycle surface (spec.md §6: init/start/stop/loop).
package core

import (
	"fmt"
	"sync"

	"ecsforge/internal/core/assets"
	"ecsforge/internal/core/coroutine"
	"ecsforge/internal/core/config"
	"ecsforge/internal/core/ecs"
	"ecsforge/internal/core/logging"
	"ecsforge/internal/core/memory"
	"ecsforge/internal/core/metrics"
	"ecsforge/internal/core/orchestrator"
	"ecsforge/internal/core/query"
	"ecsforge/internal/core/scene"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Callbacks are the host's hooks into the tick loop, passed to Loop, per
// spec.md §6's `loop(callbacks, args)`.
type Callbacks struct {
	PreLoop  orchestrator.Hook
	PostLoop orchestrator.Hook
}

// Universe owns every piece of engine-wide state: the scene stack (each
// scene carries its own coroutine scheduler and worker pool), allocators,
// the query cache, the asset resolver, and the logger and metrics that
// the root scene's panic handler reports through. There is exactly one per
// running instance, created explicitly by the host — never a package
// singleton.
type Universe struct {
	Config config.UniverseConfig
	Log    *logging.Logger
	Metrics *metrics.PerformanceMetrics

	Scenes       *scene.Stack
	Orchestrator *orchestrator.Orchestrator

	QueryCache *query.Cache
	Assets     *assets.Resolver

	Pool     *memory.PoolAllocator
	Linear   *memory.LinearAllocator
	Variable *memory.VariableAllocator

	mu      sync.Mutex
	running bool
	stopped bool
}

// New folds the C-style attribute-builder pattern (spec.md §9) into a
// single constructor call taking a value-typed UniverseConfig.
func New(cfg config.UniverseConfig) (*Universe, error) {
	log, err := logging.New(cfg.World.EnableDebugMode)
	if err != nil {
		return nil, fmt.Errorf("core: build logger: %w", err)
	}

	reg := prometheus.NewRegistry()
	var m *metrics.PerformanceMetrics
	if cfg.World.EnableMetrics {
		m = metrics.New(reg)
	}

	qc, err := query.NewCache(cfg.World.QueryCacheSize)
	if err != nil {
		return nil, fmt.Errorf("core: build query cache: %w", err)
	}

	var resolver *assets.Resolver
	if cfg.ResourceArgs.Dir != "" {
		resolver, err = assets.NewResolver(cfg.ResourceArgs, "**")
		if err != nil {
			log.Warn("asset resolver unavailable", zap.Error(err))
		}
	}

	scenes := scene.NewStack()
	u := &Universe{
		Config:       cfg,
		Log:          log,
		Metrics:      m,
		Scenes:       scenes,
		Orchestrator: orchestrator.New(scenes),
		QueryCache:   qc,
		Assets:       resolver,
		Pool:         memory.NewPoolAllocator(256),
		Linear:       memory.NewLinearAllocator(1 << 20),
		Variable:     memory.NewVariableAllocator(4<<20, 10),
	}
	return u, nil
}

// Start pushes the universe's initial scene and marks it running. A
// caller typically follows with RegisterComponent/RegisterSystem calls
// against Scenes.Top().World before the first Loop call.
func (u *Universe) Start() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.running {
		return fmt.Errorf("core: universe already started")
	}
	sc := u.Scenes.Push("root")
	sc.World.SetPanicHandler(func(system ecs.SystemType, entity ecs.EntityID, recovered any) {
		u.Log.SystemPanic(string(system), uint64(entity), recovered)
		if u.Metrics != nil {
			u.Metrics.RecordSystemError(string(system))
		}
	})
	u.running = true
	return nil
}

// Stop requests an orderly shutdown; the next Loop call returns StatusDone.
func (u *Universe) Stop() {
	u.mu.Lock()
	u.stopped = true
	u.mu.Unlock()
}

// Loop advances the universe by exactly one tick, invoking callbacks'
// hooks, per spec.md §6's `loop(callbacks, args) -> {Running, Done}`; the
// host calls it once per frame until Stop makes it return StatusDone. A
// panic escaping a phase outside system dispatch (which already recovers
// per-entity) is recovered here once and surfaces as a non-Ok status,
// per spec.md §7.
func (u *Universe) Loop(cb Callbacks, dt func() float64) (status ecs.Status, err error) {
	defer func() {
		if r := recover(); r != nil {
			u.Log.Error("universe loop panic", zap.Any("recovered", r))
			status, err = ecs.StatusUnknown, fmt.Errorf("core: recovered panic: %v", r)
		}
	}()

	u.Orchestrator.PreLoop = cb.PreLoop
	u.Orchestrator.PostLoop = cb.PostLoop

	// Loop advances exactly one tick per call, per spec.md §6's
	// `loop(callbacks, args) -> {Running, Done}`: the host (e.g. an
	// ebiten Game.Update) is the outer frame driver and calls Loop once
	// per frame rather than Loop itself blocking in a frame loop.
	u.mu.Lock()
	stopped := u.stopped
	u.mu.Unlock()
	if stopped {
		return ecs.StatusDone, nil
	}
	if tickErr := u.Orchestrator.Tick(dt()); tickErr != nil {
		return ecs.StatusUnknown, tickErr
	}
	return ecs.StatusOk, nil
}

// RegisterBuiltinComponents registers the given component attributes on
// the active scene's World (the demo host passes the example set from the
// components package); a real host typically registers its own domain
// components instead of calling this.
func (u *Universe) RegisterBuiltinComponents(attrs ...ecs.ComponentAttr) error {
	sc := u.Scenes.Top()
	if sc == nil {
		return fmt.Errorf("core: no active scene to register components on")
	}
	for _, a := range attrs {
		if err := sc.World.RegisterComponent(a); err != nil {
			return err
		}
	}
	return nil
}
