// Package query builds cached entity-set queries over a World's component
// storage, adapted from the teacher's ecs/query package: the same
// ComponentBitSet idea, generalized from a hardcoded 11-entry map to
// dynamic, runtime-assigned bit positions so component types registered
// at runtime (spec.md §4.3) all get a slot, up to the 64 a single
// uint64 bitset can hold.
package query

import (
	"sync"

	"ecsforge/internal/core/ecs"
)

// ComponentBitSet represents component presence using bit operations;
// supports up to 64 distinct component types per registry.
type ComponentBitSet uint64

// Registry assigns and remembers bit positions for component types as
// they're registered, since the set of component types isn't known until
// the host calls RegisterComponent at runtime.
type Registry struct {
	mu        sync.RWMutex
	positions map[ecs.ComponentType]int
	next      int
}

func NewRegistry() *Registry {
	return &Registry{positions: make(map[ecs.ComponentType]int)}
}

// Assign returns the bit position for t, assigning the next free one if
// t hasn't been seen before. Returns (0, false) once all 64 slots are
// taken and t is new.
func (r *Registry) Assign(t ecs.ComponentType) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if pos, ok := r.positions[t]; ok {
		return pos, true
	}
	if r.next >= 64 {
		return 0, false
	}
	pos := r.next
	r.positions[t] = pos
	r.next++
	return pos, true
}

func (r *Registry) position(t ecs.ComponentType) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pos, ok := r.positions[t]
	return pos, ok
}

// Set returns a copy of b with t's bit set. Ignored if t isn't registered.
func (r *Registry) Set(b ComponentBitSet, t ecs.ComponentType) ComponentBitSet {
	pos, ok := r.position(t)
	if !ok {
		return b
	}
	return b | (1 << uint(pos))
}

// SetMany sets every type's bit.
func (r *Registry) SetMany(b ComponentBitSet, types ...ecs.ComponentType) ComponentBitSet {
	for _, t := range types {
		b = r.Set(b, t)
	}
	return b
}

// Has reports whether t's bit is set in b.
func (r *Registry) Has(b ComponentBitSet, t ecs.ComponentType) bool {
	pos, ok := r.position(t)
	if !ok {
		return false
	}
	return b&(1<<uint(pos)) != 0
}

// HasAll reports whether every type's bit is set.
func (r *Registry) HasAll(b ComponentBitSet, types ...ecs.ComponentType) bool {
	for _, t := range types {
		if !r.Has(b, t) {
			return false
		}
	}
	return true
}
