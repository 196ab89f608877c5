// Package ecs provides the core Entity Component System runtime: entity
// lifecycle, dense component storage, the event bus, and the system
// scheduler. It is the hot path of the engine and is designed to keep
// thousands of entities ticking at interactive frame rates.
package ecs

import "time"

// ==============================================
// Basic Types
// ==============================================

// EntityID is an opaque handle: the high 32 bits carry a generation
// counter and the low 32 bits carry a slot index. Packing the generation
// into the handle lets a stale reference to a destroyed-and-recycled slot
// be detected without a separate liveness table.
type EntityID uint64

// InvalidEntityID is never returned by CreateEntity and never satisfies IsValid.
const InvalidEntityID EntityID = 0

func newEntityID(generation uint32, index uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

// Generation returns the generation counter packed into the handle.
func (e EntityID) Generation() uint32 { return uint32(e >> 32) }

// Index returns the slot index packed into the handle.
func (e EntityID) Index() uint32 { return uint32(e & 0xFFFFFFFF) }

// ComponentType identifies a registered component by name.
type ComponentType string

// InvalidComponentType is returned where no component type applies.
const InvalidComponentType ComponentType = ""

// SystemType identifies a registered system by name.
type SystemType string

// BarrierName names a synchronization barrier shared by one or more systems.
type BarrierName string

// Priority controls system execution order within a bucket; higher runs first.
type Priority int16

const (
	PriorityLowest  Priority = -100
	PriorityLow     Priority = -25
	PriorityNormal  Priority = 0
	PriorityHigh    Priority = 25
	PriorityHighest Priority = 100
)

// ComponentVariant labels how a component's payload is owned. The label is
// recorded with the registration; World does not dispatch on it: removing
// an instance runs only the component's OnDestroy hook, whatever the variant.
type ComponentVariant int

const (
	// VariantRaw is a trivial value payload.
	VariantRaw ComponentVariant = iota
	// VariantPointer wraps a user pointer.
	VariantPointer
	// VariantComposite holds entity-handle fields.
	VariantComposite
	// VariantSchemaBacked is a variant.Var(Struct) described by a schema.
	VariantSchemaBacked
)

func (v ComponentVariant) String() string {
	switch v {
	case VariantRaw:
		return "Raw"
	case VariantPointer:
		return "Pointer"
	case VariantComposite:
		return "Composite"
	case VariantSchemaBacked:
		return "SchemaBacked"
	default:
		return "Unknown"
	}
}

// JoinPolicy controls how a system's declared components are matched against entities.
type JoinPolicy int

const (
	// JoinInner iterates entities present in every declared component.
	JoinInner JoinPolicy = iota
	// JoinLeft iterates the first declared component; others yield Nil when absent.
	JoinLeft
	// JoinCross iterates the cartesian product of every declared component's dense buffer.
	JoinCross
)

// Trigger selects what advances a system: the main loop or an event delivery.
type Trigger int

const (
	TriggerLoop Trigger = iota
	TriggerEvent
)

// Status is the coarse result of a Universe.Loop invocation.
type Status int

const (
	StatusOk Status = iota
	StatusUnknown
	StatusDone
)

func (s Status) String() string {
	switch s {
	case StatusOk:
		return "Ok"
	case StatusDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// StorageStats reports per-component-type storage occupancy, used by the
// debug dump and the metrics exporter.
type StorageStats struct {
	ComponentType  ComponentType
	ComponentCount int
	Capacity       int
	MemoryUsed     int64
}

// QueryStats reports cache behavior for a registered query.
type QueryStats struct {
	Key       string
	Hits      int64
	Misses    int64
	LastBuilt time.Time
}
