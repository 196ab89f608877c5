package ecs

import (
	"fmt"
	"sync"

	"ecsforge/internal/core/ecs/storage"
)

// opKind identifies a deferred structural mutation.
type opKind int

const (
	opAddComponent opKind = iota
	opRemoveComponent
	opDestroyEntity
)

type deferredOp struct {
	kind    opKind
	entity  EntityID
	ctype   ComponentType
	payload Component
}

// PanicHandler receives a recovered panic from inside a system transform,
// along with which system and entity were being processed, so the host
// can log it without the scheduler itself depending on a logging package.
type PanicHandler func(system SystemType, entity EntityID, recovered any)

// World owns one scene's live entity/component/event/system state. Scenes
// (spec.md §4.8) each get their own World so pushing a scene can't corrupt
// another scene's entities.
//
// Structural mutations requested while deferring is true (set by the
// orchestrator around tick phases 1-4) queue onto a FIFO log applied only
// in phase 5; the same calls made outside a tick (setup code, tests) apply
// immediately, since deferring defaults to false.
type World struct {
	mu sync.Mutex

	Entities   *EntityManager
	Components *storage.ComponentStore
	Events     *EventBus
	Scheduler  *Scheduler

	deferring bool
	log       []deferredOp

	onPanic PanicHandler
}

func NewWorld() *World {
	return &World{
		Entities:   NewEntityManager(),
		Components: storage.NewComponentStore(),
		Events:     NewEventBus(),
		Scheduler:  NewScheduler(),
	}
}

// SetPanicHandler installs the hook invoked when a system transform panics
// for one entity. Without one, the panic is recovered and silently
// dropped save for iteration continuing, per spec.md §7's "transient
// races degrade silently" posture extended to transform-level panics.
func (w *World) SetPanicHandler(h PanicHandler) { w.onPanic = h }

// SetDeferring toggles whether structural mutations queue instead of
// applying immediately. The orchestrator calls this around tick phases.
func (w *World) SetDeferring(v bool) {
	w.mu.Lock()
	w.deferring = v
	w.mu.Unlock()
}

// ApplyDeferred drains and applies the mutation log in FIFO order, per
// spec.md §4.9 phase 5. Safe to call when the log is empty.
func (w *World) ApplyDeferred() {
	w.mu.Lock()
	pending := w.log
	w.log = nil
	w.mu.Unlock()

	for _, op := range pending {
		switch op.kind {
		case opAddComponent:
			_ = w.applyAddComponent(op.entity, op.ctype, op.payload)
		case opRemoveComponent:
			_ = w.applyRemoveComponent(op.entity, op.ctype)
		case opDestroyEntity:
			w.applyDestroyEntity(op.entity)
		}
	}
}

func (w *World) isDeferring() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.deferring
}

func (w *World) enqueue(op deferredOp) {
	w.mu.Lock()
	w.log = append(w.log, op)
	w.mu.Unlock()
}

// RegisterComponent declares a component type's storage configuration.
func (w *World) RegisterComponent(attr ComponentAttr) error {
	return w.Components.Register(attr)
}

// RegisterSystem adds a system to the scheduler. Event-triggered systems
// are additionally subscribed to their declared channel so they fire on
// delivery rather than every tick.
func (w *World) RegisterSystem(desc SystemDesc) {
	w.Scheduler.Register(desc)
	if desc.Trigger == TriggerEvent && desc.EventChannel != "" {
		w.Events.Subscribe(desc.EventChannel, func(msg Message) {
			w.runEventSystem(desc, msg)
		})
	}
}

// CreateEntity allocates a new entity immediately; creation never
// participates in the deferred log since it cannot invalidate any
// in-flight iteration the way add/remove/destroy can.
func (w *World) CreateEntity() EntityID {
	return w.Entities.Create()
}

// DestroyEntity removes an entity and every component it owns. During a
// tick this queues; outside a tick it applies immediately.
func (w *World) DestroyEntity(id EntityID) {
	if w.isDeferring() {
		w.enqueue(deferredOp{kind: opDestroyEntity, entity: id})
		return
	}
	w.applyDestroyEntity(id)
}

func (w *World) applyDestroyEntity(id EntityID) {
	removed := w.Components.RemoveEntity(id)
	for _, r := range removed {
		if attr, ok := w.Components.Attr(r.Type); ok && attr.OnDestroy != nil {
			attr.OnDestroy(id, r.Payload)
		}
	}
	w.Entities.Destroy(id)
}

// AddComponent attaches payload of type t to entity. During a tick this
// queues; outside a tick it applies immediately and runs the create hook.
func (w *World) AddComponent(entity EntityID, t ComponentType, payload Component) error {
	if !w.Entities.IsValid(entity) {
		return EntityNotFoundErr(entity)
	}
	if w.isDeferring() {
		w.enqueue(deferredOp{kind: opAddComponent, entity: entity, ctype: t, payload: payload})
		return nil
	}
	return w.applyAddComponent(entity, t, payload)
}

func (w *World) applyAddComponent(entity EntityID, t ComponentType, payload Component) error {
	if err := w.Components.Insert(entity, t, payload); err != nil {
		return err
	}
	if attr, ok := w.Components.Attr(t); ok && attr.OnCreate != nil {
		attr.OnCreate(entity, payload)
	}
	return nil
}

// RemoveComponent detaches a component from entity. During a tick this
// queues; outside a tick it applies immediately and runs the destroy hook.
func (w *World) RemoveComponent(entity EntityID, t ComponentType) error {
	if w.isDeferring() {
		w.enqueue(deferredOp{kind: opRemoveComponent, entity: entity, ctype: t})
		return nil
	}
	return w.applyRemoveComponent(entity, t)
}

func (w *World) applyRemoveComponent(entity EntityID, t ComponentType) error {
	payload, err := w.Components.Remove(entity, t)
	if err != nil {
		return err
	}
	if attr, ok := w.Components.Attr(t); ok && attr.OnDestroy != nil {
		attr.OnDestroy(entity, payload)
	}
	return nil
}

// Find returns entity's instance of component type t, if any.
func (w *World) Find(entity EntityID, t ComponentType) (Component, bool) {
	return w.Components.Find(entity, t)
}

// Has reports component membership.
func (w *World) Has(entity EntityID, t ComponentType) bool {
	return w.Components.Has(entity, t)
}

// Count returns the number of live entities.
func (w *World) Count() int {
	return w.Entities.Count()
}

// IsValid reports whether id is a currently live handle.
func (w *World) IsValid(id EntityID) bool {
	return w.Entities.IsValid(id)
}

// Tick runs one round of loop-triggered systems; it does not flush the
// event bus. The orchestrator sequences this within its own six phases;
// Tick itself only covers phase 3 (system
// dispatch) so it can be called directly by tests and the scene stack's
// "only the top scene ticks" rule without pulling in the whole orchestrator.
func (w *World) Tick(dt float64) error {
	return w.Scheduler.Dispatch(w, dt)
}

// runEventSystem invokes a single event-triggered system's transform
// against every entity matching its declared components, delivering the
// triggering message via Frame.Event.
func (w *World) runEventSystem(desc SystemDesc, msg Message) {
	frame := Frame{UserState: desc.UserState, Event: msg}
	if desc.Predicate != nil && !desc.Predicate(w) {
		if desc.Post != nil {
			_ = desc.Post(w, frame)
		}
		return
	}
	for _, instances := range w.match(desc) {
		w.runTransformSafely(desc, frame, instances)
	}
	if desc.Post != nil {
		_ = desc.Post(w, frame)
	}
}

// runTransformSafely invokes desc.Transform for one matched tuple,
// recovering any panic so one bad entity doesn't abort the whole system's
// pass over the rest, per spec.md §7.
func (w *World) runTransformSafely(desc SystemDesc, frame Frame, instances []Instance) {
	defer func() {
		if r := recover(); r != nil {
			var entity EntityID
			if len(instances) > 0 {
				entity = instances[0].Entity
			}
			if w.onPanic != nil {
				w.onPanic(desc.Name, entity, r)
			}
		}
	}()
	if desc.Transform == nil {
		return
	}
	if err := desc.Transform(w, frame, instances); err != nil && w.onPanic != nil {
		var entity EntityID
		if len(instances) > 0 {
			entity = instances[0].Entity
		}
		w.onPanic(desc.Name, entity, fmt.Errorf("transform error: %w", err))
	}
}

// match resolves a system's declared components against live storage
// according to its join policy, returning one []Instance per matched
// entity (or tuple, for JoinCross).
func (w *World) match(desc SystemDesc) [][]Instance {
	comps := desc.allComponents()
	if len(comps) == 0 {
		return nil
	}
	switch desc.Join {
	case JoinLeft:
		return w.matchLeft(comps)
	case JoinCross:
		return w.matchCross(comps)
	default:
		return w.matchInner(comps)
	}
}

func (w *World) matchInner(comps []ComponentType) [][]Instance {
	anchor := w.Components.ShortestComponent(comps)
	if anchor == InvalidComponentType {
		return nil
	}
	var out [][]Instance
	for _, e := range w.Components.Entities(anchor) {
		instances := make([]Instance, 0, len(comps))
		complete := true
		for _, c := range comps {
			payload, ok := w.Components.Find(e, c)
			if !ok {
				complete = false
				break
			}
			instances = append(instances, Instance{Entity: e, Component: payload})
		}
		if complete {
			out = append(out, instances)
		}
	}
	return out
}

func (w *World) matchLeft(comps []ComponentType) [][]Instance {
	primary := comps[0]
	var out [][]Instance
	for _, e := range w.Components.Entities(primary) {
		instances := make([]Instance, 0, len(comps))
		for _, c := range comps {
			payload, _ := w.Components.Find(e, c) // absent -> nil Component, not skipped
			instances = append(instances, Instance{Entity: e, Component: payload})
		}
		out = append(out, instances)
	}
	return out
}

func (w *World) matchCross(comps []ComponentType) [][]Instance {
	lists := make([][]EntityID, len(comps))
	for i, c := range comps {
		lists[i] = w.Components.Entities(c)
	}
	var out [][]Instance
	var walk func(depth int, acc []Instance)
	walk = func(depth int, acc []Instance) {
		if depth == len(comps) {
			tuple := make([]Instance, len(acc))
			copy(tuple, acc)
			out = append(out, tuple)
			return
		}
		for _, e := range lists[depth] {
			payload, _ := w.Components.Find(e, comps[depth])
			walk(depth+1, append(acc, Instance{Entity: e, Component: payload}))
		}
	}
	walk(0, make([]Instance, 0, len(comps)))
	return out
}
