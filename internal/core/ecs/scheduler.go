package ecs

import (
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// registeredSystem bundles a SystemDesc with its registration order, used
// to break priority ties and to pick barrier leaders deterministically.
type registeredSystem struct {
	desc SystemDesc
	seq  int
}

// Scheduler partitions systems into buckets (spec.md's "programs") and
// dispatches each bucket on its own goroutine, honoring barrier ordering
// across buckets, per spec.md §4.6.
//
// Barrier semantics: within a barrier name, the first-registered system
// across the whole scheduler is the leader. Every other system sharing
// that barrier name is a follower and blocks until the leader has
// completed (transform + post-callback), regardless of which bucket it is
// in. Leaders are run before the rest of their own bucket's
// priority-ordered queue so "the leader runs alone" is true even when its
// configured priority would otherwise place it later.
type Scheduler struct {
	mu      sync.Mutex
	systems []registeredSystem
	nextSeq int

	sharedLocks map[ComponentType]*sync.RWMutex
}

func NewScheduler() *Scheduler {
	return &Scheduler{sharedLocks: make(map[ComponentType]*sync.RWMutex)}
}

// Register adds a system. Registration order is what breaks priority ties
// and determines barrier leadership.
func (s *Scheduler) Register(desc SystemDesc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.systems = append(s.systems, registeredSystem{desc: desc, seq: s.nextSeq})
	s.nextSeq++
	for _, c := range desc.Writes {
		if _, ok := s.sharedLocks[c]; !ok {
			s.sharedLocks[c] = &sync.RWMutex{}
		}
	}
	for _, c := range desc.Reads {
		if _, ok := s.sharedLocks[c]; !ok {
			s.sharedLocks[c] = &sync.RWMutex{}
		}
	}
}

// Unregister removes a system by name.
func (s *Scheduler) Unregister(name SystemType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.systems[:0]
	for _, rs := range s.systems {
		if rs.desc.Name != name {
			out = append(out, rs)
		}
	}
	s.systems = out
}

func (s *Scheduler) barrierLeaders() map[BarrierName]SystemType {
	leaders := make(map[BarrierName]SystemType)
	leaderSeq := make(map[BarrierName]int)
	for _, rs := range s.systems {
		for _, b := range rs.desc.Barriers {
			if cur, ok := leaderSeq[b]; !ok || rs.seq < cur {
				leaderSeq[b] = rs.seq
				leaders[b] = rs.desc.Name
			}
		}
	}
	return leaders
}

// Dispatch runs every enabled, loop-triggered system once: buckets run
// concurrently, systems within a bucket run strictly sequentially in
// descending-priority order (registration order breaks ties), and barrier
// followers block on their leader's completion regardless of bucket.
// Event-triggered systems (Trigger == TriggerEvent) are never run here —
// they run only when EventBus delivers to their channel.
func (s *Scheduler) Dispatch(w *World, dt float64) error {
	s.mu.Lock()
	systems := append([]registeredSystem(nil), s.systems...)
	s.mu.Unlock()

	leaders := s.barrierLeaders()

	buckets := make(map[string][]registeredSystem)
	for _, rs := range systems {
		if rs.desc.Trigger != TriggerLoop {
			continue
		}
		b := rs.desc.bucketName()
		buckets[b] = append(buckets[b], rs)
	}

	barrierDone := make(map[BarrierName]chan struct{})
	for b := range leaders {
		barrierDone[b] = make(chan struct{})
	}
	isLeaderOf := func(name SystemType) []BarrierName {
		var out []BarrierName
		for b, leader := range leaders {
			if leader == name {
				out = append(out, b)
			}
		}
		return out
	}

	g := new(errgroup.Group)
	for _, bucketSystems := range buckets {
		bucketSystems := orderBucket(bucketSystems, leaders)
		g.Go(func() error {
			for _, rs := range bucketSystems {
				for _, b := range rs.desc.Barriers {
					if leaders[b] != rs.desc.Name {
						<-barrierDone[b] // follower waits for its leader
					}
				}
				if err := s.runOne(w, rs.desc, Frame{DT: dt, UserState: rs.desc.UserState}); err != nil {
					return err
				}
				for _, b := range isLeaderOf(rs.desc.Name) {
					close(barrierDone[b])
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// orderBucket places this bucket's barrier leaders first (registration
// order among themselves), then the remaining systems by descending
// priority with registration order breaking ties.
func orderBucket(systems []registeredSystem, leaders map[BarrierName]SystemType) []registeredSystem {
	isLeader := func(name SystemType) bool {
		for _, l := range leaders {
			if l == name {
				return true
			}
		}
		return false
	}
	var leadersFirst, rest []registeredSystem
	for _, rs := range systems {
		if isLeader(rs.desc.Name) {
			leadersFirst = append(leadersFirst, rs)
		} else {
			rest = append(rest, rs)
		}
	}
	sort.SliceStable(leadersFirst, func(i, j int) bool { return leadersFirst[i].seq < leadersFirst[j].seq })
	sort.SliceStable(rest, func(i, j int) bool {
		if rest[i].desc.Priority != rest[j].desc.Priority {
			return rest[i].desc.Priority > rest[j].desc.Priority
		}
		return rest[i].seq < rest[j].seq
	})
	return append(leadersFirst, rest...)
}

// runOne matches entities per the system's join policy and invokes
// Transform for each match, then Post once. A panic inside Transform for
// one entity is recovered, logged by the caller-supplied hook, and
// iteration continues with the next entity (spec.md §7).
func (s *Scheduler) runOne(w *World, desc SystemDesc, frame Frame) error {
	if desc.Predicate != nil && !desc.Predicate(w) {
		if desc.Post != nil {
			return desc.Post(w, frame)
		}
		return nil
	}

	unlock := s.lockShared(desc)
	defer unlock()

	matches := w.match(desc)
	for _, instances := range matches {
		w.runTransformSafely(desc, frame, instances)
	}

	if desc.Post != nil {
		return desc.Post(w, frame)
	}
	return nil
}

func (s *Scheduler) lockShared(desc SystemDesc) func() {
	s.mu.Lock()
	var reads, writes []*sync.RWMutex
	for _, c := range desc.Reads {
		if l, ok := s.sharedLocks[c]; ok {
			reads = append(reads, l)
		}
	}
	for _, c := range desc.Writes {
		if l, ok := s.sharedLocks[c]; ok {
			writes = append(writes, l)
		}
	}
	s.mu.Unlock()

	for _, l := range writes {
		l.Lock()
	}
	for _, l := range reads {
		l.RLock()
	}
	return func() {
		for _, l := range reads {
			l.RUnlock()
		}
		for _, l := range writes {
			l.Unlock()
		}
	}
}
