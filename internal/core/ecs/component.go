package ecs

// Component is the payload every component type implements. Clone
// returns an independent copy of the payload; Size feeds the
// debug/metrics storage reports.
type Component interface {
	GetType() ComponentType
	Clone() Component
	Size() int
}

// CreateHook runs synchronously after a new instance is inserted into
// dense storage, per spec.md §4.3.
type CreateHook func(entity EntityID, instance Component)

// DestroyHook runs synchronously before an instance is removed from dense
// storage. It fires outside of any system's iteration: the orchestrator
// only calls it between phases (spec.md §4.3, §4.9).
type DestroyHook func(entity EntityID, instance Component)

// ComponentAttr is the value-typed configuration passed to RegisterComponent,
// folding the source's attr_create → attr_set* → _create → attr_destroy
// builder sequence into a single struct (spec.md §9).
type ComponentAttr struct {
	Name    ComponentType
	Variant ComponentVariant

	// PayloadSize is advisory; it is used for storage-stats reporting and
	// is not enforced against the Go type actually stored.
	PayloadSize int

	OnCreate  CreateHook
	OnDestroy DestroyHook

	// Shared is recorded with the registration only. The scheduler takes
	// a reader/writer lock for every component a system declares, whether
	// or not it is marked Shared.
	Shared bool

	// MaxInstances bounds the dense buffer; 0 means unbounded.
	MaxInstances int
}
