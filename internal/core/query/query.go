package query

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"ecsforge/internal/core/ecs"
)

// Builder describes a query: the component types that must all be
// present. It's the parallel, cacheable counterpart to a SystemDesc's
// Reads+Writes+Join=Inner case, usable outside the scheduler (debug
// tools, ad hoc host-side lookups).
type Builder struct {
	types []ecs.ComponentType
}

func NewBuilder() *Builder { return &Builder{} }

// With adds required component types and returns the builder for chaining.
func (b *Builder) With(types ...ecs.ComponentType) *Builder {
	b.types = append(b.types, types...)
	return b
}

// Key returns a stable cache key for this query's component set.
func (b *Builder) Key() string {
	parts := make([]string, len(b.types))
	for i, t := range b.types {
		parts[i] = string(t)
	}
	return strings.Join(parts, "+")
}

// Result is a resolved query: the matching entities at the time it was computed.
type Result struct {
	Entities []ecs.EntityID
}

// Cache memoizes Result by query key using an LRU eviction policy, backed
// by hashicorp/golang-lru/v2, exercising WorldConfig.QueryCacheSize.
// Callers must Invalidate on any structural mutation since a cached
// Result isn't automatically kept live the way component storage is.
type Cache struct {
	lru  *lru.Cache[string, Result]
	hits int64
	miss int64
}

func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = 1
	}
	l, err := lru.New[string, Result](size)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: l}, nil
}

// Get returns a cached Result, or (Result{}, false) on a miss.
func (c *Cache) Get(key string) (Result, bool) {
	r, ok := c.lru.Get(key)
	if ok {
		c.hits++
	} else {
		c.miss++
	}
	return r, ok
}

// Put stores a Result under key, evicting the least-recently-used entry
// if the cache is at capacity.
func (c *Cache) Put(key string, r Result) {
	c.lru.Add(key, r)
}

// Invalidate drops a specific key. Structural mutations that could change
// a query's result set should invalidate every key touching the affected
// component type; callers with that mapping call InvalidateAll for
// simplicity rather than tracking per-type dependency sets.
func (c *Cache) Invalidate(key string) {
	c.lru.Remove(key)
}

// InvalidateAll drops every cached result, the safe (if blunt) response
// to any structural mutation whose blast radius isn't tracked precisely.
func (c *Cache) InvalidateAll() {
	c.lru.Purge()
}

// Stats reports cache hit/miss counters for the debug dump and metrics exporter.
func (c *Cache) Stats(key string) ecs.QueryStats {
	return ecs.QueryStats{Key: key, Hits: c.hits, Misses: c.miss}
}

// Resolve runs a query against w's component storage, walking the
// required type with the fewest instances and keeping entities that have
// every other required type, populating the cache on a miss.
func Resolve(w *ecs.World, cache *Cache, b *Builder) Result {
	key := b.Key()
	if r, ok := cache.Get(key); ok {
		return r
	}
	if len(b.types) == 0 {
		r := Result{}
		cache.Put(key, r)
		return r
	}
	anchor := w.Components.ShortestComponent(b.types)
	var entities []ecs.EntityID
	for _, e := range w.Components.Entities(anchor) {
		all := true
		for _, t := range b.types {
			if !w.Components.Has(e, t) {
				all = false
				break
			}
		}
		if all {
			entities = append(entities, e)
		}
	}
	r := Result{Entities: entities}
	cache.Put(key, r)
	return r
}
