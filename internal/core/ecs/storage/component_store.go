package storage

import (
	"sync"

	"ecsforge/internal/core/ecs"
)

// TypedStore is the dense contiguous buffer for one component type, with a
// sparse map translating entity id to dense index, per spec.md §3's
// storage invariant. Dense entity ids and dense payloads are kept in
// parallel slices so iteration walks both without a second lookup.
type TypedStore struct {
	sparse   *SparseSet
	payloads []ecs.Component
}

func newTypedStore() *TypedStore {
	return &TypedStore{
		sparse:   NewSparseSet(),
		payloads: make([]ecs.Component, 0, 64),
	}
}

func (t *TypedStore) insert(entity ecs.EntityID, payload ecs.Component) error {
	if err := t.sparse.Add(entity); err != nil {
		return err
	}
	if len(t.payloads) < t.sparse.Size() {
		t.payloads = append(t.payloads, payload)
	} else {
		t.payloads[t.sparse.Size()-1] = payload
	}
	return nil
}

func (t *TypedStore) remove(entity ecs.EntityID) (ecs.Component, error) {
	idx := t.sparse.IndexOf(entity)
	if idx < 0 {
		return nil, ecs.ComponentNotFoundErr(entity, "")
	}
	removed := t.payloads[idx]
	lastIdx := t.sparse.Size() - 1
	if err := t.sparse.Remove(entity); err != nil {
		return nil, err
	}
	// sparse.Remove already swapped the dense entity id; mirror the swap in payloads.
	t.payloads[idx] = t.payloads[lastIdx]
	t.payloads = t.payloads[:lastIdx]
	return removed, nil
}

func (t *TypedStore) get(entity ecs.EntityID) (ecs.Component, bool) {
	idx := t.sparse.IndexOf(entity)
	if idx < 0 {
		return nil, false
	}
	return t.payloads[idx], true
}

// ComponentStore is the registry-wide collection of TypedStores, one per
// registered component type, guarded by a single RWMutex. A dedicated
// reader/writer lock per component a system declares is layered on
// top by the scheduler, not here: this store only protects its own
// bookkeeping structures against concurrent registration/insertion.
type ComponentStore struct {
	mu     sync.RWMutex
	stores map[ecs.ComponentType]*TypedStore
	attrs  map[ecs.ComponentType]ecs.ComponentAttr
}

func NewComponentStore() *ComponentStore {
	return &ComponentStore{
		stores: make(map[ecs.ComponentType]*TypedStore),
		attrs:  make(map[ecs.ComponentType]ecs.ComponentAttr),
	}
}

// Register records a component type's configuration. It is an error to
// register the same type twice.
func (s *ComponentStore) Register(attr ecs.ComponentAttr) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.stores[attr.Name]; exists {
		return ecs.ComponentExistsErr(ecs.InvalidEntityID, attr.Name)
	}
	s.stores[attr.Name] = newTypedStore()
	s.attrs[attr.Name] = attr
	return nil
}

func (s *ComponentStore) IsRegistered(t ecs.ComponentType) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.stores[t]
	return ok
}

func (s *ComponentStore) Attr(t ecs.ComponentType) (ecs.ComponentAttr, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.attrs[t]
	return a, ok
}

// RegisteredTypes returns every registered component type, order unspecified.
func (s *ComponentStore) RegisteredTypes() []ecs.ComponentType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ecs.ComponentType, 0, len(s.stores))
	for t := range s.stores {
		out = append(out, t)
	}
	return out
}

// Insert places a new instance into dense storage. The caller (World) is
// responsible for invoking create hooks synchronously afterward.
func (s *ComponentStore) Insert(entity ecs.EntityID, t ecs.ComponentType, payload ecs.Component) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	store, ok := s.stores[t]
	if !ok {
		return ecs.NewError(ecs.CodeNotFound, "component type not registered").WithComponent(t)
	}
	if attr := s.attrs[t]; attr.MaxInstances > 0 && store.sparse.Size() >= attr.MaxInstances {
		return ecs.MaxComponentCountReachedErr(attr.MaxInstances)
	}
	return store.insert(entity, payload)
}

// Remove swap-removes an instance and returns it so the caller can invoke
// the destroy hook outside the storage lock.
func (s *ComponentStore) Remove(entity ecs.EntityID, t ecs.ComponentType) (ecs.Component, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	store, ok := s.stores[t]
	if !ok {
		return nil, ecs.ComponentNotFoundErr(entity, t)
	}
	return store.remove(entity)
}

// Find returns the payload for entity/type, or (nil, false).
func (s *ComponentStore) Find(entity ecs.EntityID, t ecs.ComponentType) (ecs.Component, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	store, ok := s.stores[t]
	if !ok {
		return nil, false
	}
	return store.get(entity)
}

// Has reports component membership; always consistent with Find per spec.md §8's invariant.
func (s *ComponentStore) Has(entity ecs.EntityID, t ecs.ComponentType) bool {
	_, ok := s.Find(entity, t)
	return ok
}

// Count returns the number of live instances of a component type.
func (s *ComponentStore) Count(t ecs.ComponentType) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	store, ok := s.stores[t]
	if !ok {
		return 0
	}
	return store.sparse.Size()
}

// Entities returns the dense entity list for a component type (a copy).
func (s *ComponentStore) Entities(t ecs.ComponentType) []ecs.EntityID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	store, ok := s.stores[t]
	if !ok {
		return nil
	}
	return store.sparse.ToSlice()
}

// ShortestComponent returns the component type among candidates with the
// fewest live instances, used by JoinInner to minimize the walk (spec.md §4.6).
func (s *ComponentStore) ShortestComponent(candidates []ecs.ComponentType) ecs.ComponentType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best ecs.ComponentType
	bestSize := -1
	for _, c := range candidates {
		store, ok := s.stores[c]
		if !ok {
			continue
		}
		if bestSize == -1 || store.sparse.Size() < bestSize {
			bestSize = store.sparse.Size()
			best = c
		}
	}
	return best
}

// RemoveEntity drops every component instance owned by entity, returning
// the removed (type, payload) pairs in registration-map iteration order so
// the caller can fire destroy hooks. Used by World.DestroyEntity.
func (s *ComponentStore) RemoveEntity(entity ecs.EntityID) []struct {
	Type    ecs.ComponentType
	Payload ecs.Component
} {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed []struct {
		Type    ecs.ComponentType
		Payload ecs.Component
	}
	for t, store := range s.stores {
		if payload, err := store.remove(entity); err == nil {
			removed = append(removed, struct {
				Type    ecs.ComponentType
				Payload ecs.Component
			}{t, payload})
		}
	}
	return removed
}

// Stats reports storage occupancy for every registered component type.
func (s *ComponentStore) Stats() []ecs.StorageStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ecs.StorageStats, 0, len(s.stores))
	for t, store := range s.stores {
		var mem int64
		if n := store.sparse.Size(); n > 0 {
			mem = int64(store.payloads[0].Size()) * int64(n)
		}
		out = append(out, ecs.StorageStats{
			ComponentType:  t,
			ComponentCount: store.sparse.Size(),
			Capacity:       store.sparse.Capacity(),
			MemoryUsed:     mem,
		})
	}
	return out
}
