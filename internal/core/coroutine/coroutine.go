// Package coroutine implements the stackful-fiber abstraction from
// spec.md §4.7 on top of native Go goroutines and channels rather than a
// ported stack-switching primitive: a goroutine already owns its own
// stack and blocks/resumes for free, which is the "native fiber support"
// spec.md §9 calls for instead of a ucontext-style port.
package coroutine

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"ecsforge/internal/core/variant"
)

// Status is a coroutine's lifecycle state.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusSuspended
	StatusDone
)

// EntryFunc is a coroutine's body. It receives a Control for yielding and
// its initial argument, and returns its final result when it returns.
type EntryFunc func(ctl *Control, arg variant.Var) variant.Var

// Control is handed to a running coroutine's EntryFunc; Yield is the only
// suspension primitive, per spec.md §4.7.
type Control struct {
	co *Coroutine
}

// Yield captures v as the coroutine's current result and suspends.
//
// For a sync coroutine this blocks until the driver resumes it at the
// next step (Scheduler.StepSync) or until Scheduler.Call resumes it
// directly; for an async coroutine (run to completion on a worker) it is
// non-blocking: the value is recorded but the entry keeps running,
// matching spec.md §4.7's "intermediate yields are ignored semantically
// but must not deadlock".
func (c *Control) Yield(v variant.Var) variant.Var {
	if c.co.isAsync {
		c.co.setResult(v)
		return variant.NewNil()
	}
	c.co.resumeCh2 <- v // announce we've yielded v and are waiting for resume
	return <-c.co.resumeCh
}

// Coroutine is a single fiber: synchronous coroutines are driven one step
// per tick by Scheduler; async coroutines run to completion on a worker
// from the scheduler's pool.
type Coroutine struct {
	id      uint64
	entry   EntryFunc
	isAsync bool
	parent  *Coroutine

	mu     sync.Mutex
	status Status
	result variant.Var

	resumeCh  chan variant.Var // caller -> coroutine, to resume after a yield
	resumeCh2 chan variant.Var // coroutine -> caller, announces a yield value
	done      chan struct{}
}

func (c *Coroutine) setResult(v variant.Var) {
	c.mu.Lock()
	c.result = v
	c.mu.Unlock()
}

// Peek returns the coroutine's current result slot without blocking, per
// spec.md §4.7's `peek(c)`.
func (c *Coroutine) Peek() variant.Var {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Status reports the coroutine's lifecycle state.
func (c *Coroutine) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Coroutine) setStatus(s Status) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}

// Scheduler owns the pending-sync list, the staging buffer for newly
// scheduled sync coroutines, and the async worker pool, per spec.md §4.7.
type Scheduler struct {
	mu      sync.Mutex
	nextID  uint64
	sync    []*Coroutine
	staging []*Coroutine // guarded by mu; promoted to sync at next tick boundary

	workCh chan *Coroutine
	wg     sync.WaitGroup
}

// NewScheduler starts an async worker pool sized to GOMAXPROCS, per
// spec.md §4.7's "size = hardware concurrency".
func NewScheduler() *Scheduler {
	s := &Scheduler{workCh: make(chan *Coroutine, 64)}
	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
	return s
}

func (s *Scheduler) worker() {
	defer s.wg.Done()
	for co := range s.workCh {
		s.runAsync(co)
	}
}

func (s *Scheduler) newCoroutine(entry EntryFunc, isAsync bool, parent *Coroutine) *Coroutine {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.mu.Unlock()
	return &Coroutine{
		id:        id,
		entry:     entry,
		isAsync:   isAsync,
		parent:    parent,
		resumeCh:  make(chan variant.Var),
		resumeCh2: make(chan variant.Var),
		done:      make(chan struct{}),
	}
}

// SpawnSync schedules a new synchronous coroutine. It enters the staging
// buffer and is promoted to the active list at the next PromoteStaged
// call (the orchestrator calls that once per tick, before stepping).
func (s *Scheduler) SpawnSync(entry EntryFunc, parent *Coroutine) *Coroutine {
	co := s.newCoroutine(entry, false, parent)
	s.mu.Lock()
	s.staging = append(s.staging, co)
	s.mu.Unlock()
	return co
}

// SpawnAsync enqueues a coroutine onto the worker pool immediately; it is
// not subject to staging since it isn't driven by the tick loop.
func (s *Scheduler) SpawnAsync(entry EntryFunc) *Coroutine {
	co := s.newCoroutine(entry, true, nil)
	s.workCh <- co
	return co
}

// PromoteStaged moves every staged sync coroutine into the active list.
// Called once per tick, before StepSync, per spec.md §4.7.
func (s *Scheduler) PromoteStaged() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sync = append(s.sync, s.staging...)
	s.staging = s.staging[:0]
}

// StepSync advances every pending sync coroutine by one step: starting it
// if pending, resuming it if suspended after a prior yield. Completed
// coroutines are removed from the active list. This is the "central
// driver coroutine" spec.md §4.7 describes, expressed as a plain method
// called once per tick rather than a dedicated goroutine, since nothing
// here needs its own stack.
func (s *Scheduler) StepSync(arg variant.Var) {
	s.mu.Lock()
	active := append([]*Coroutine(nil), s.sync...)
	s.mu.Unlock()

	var still []*Coroutine
	for _, co := range active {
		if co.Status() == StatusDone {
			continue
		}
		s.stepOne(co, arg)
		if co.Status() != StatusDone {
			still = append(still, co)
		}
	}

	s.mu.Lock()
	s.sync = still
	s.mu.Unlock()
}

func (s *Scheduler) stepOne(co *Coroutine, arg variant.Var) {
	switch co.Status() {
	case StatusPending:
		co.setStatus(StatusRunning)
		go func() {
			res := co.entry(&Control{co: co}, arg)
			co.setResult(res)
			co.setStatus(StatusDone)
			close(co.done)
		}()
		s.awaitYieldOrDone(co)
	case StatusSuspended:
		co.setStatus(StatusRunning)
		co.resumeCh <- arg
		s.awaitYieldOrDone(co)
	}
}

func (s *Scheduler) awaitYieldOrDone(co *Coroutine) {
	select {
	case v := <-co.resumeCh2:
		co.setResult(v)
		co.setStatus(StatusSuspended)
	case <-co.done:
	}
}

// Call resumes target directly, passing v, and blocks until its next
// yield or completion, per spec.md §4.7's `call(target, v)`. Used for
// explicit parent-to-child handoff outside the regular per-tick step.
func (s *Scheduler) Call(target *Coroutine, v variant.Var) variant.Var {
	s.stepOne(target, v)
	return target.Peek()
}

// Await blocks the caller until c completes, per spec.md §4.7's
// `await(c)`. It does not drive c itself — for a sync coroutine, some
// other path (StepSync or Call) must still be progressing it, else this
// blocks forever; that is the caller's responsibility to arrange, same as
// the source semantics.
func (s *Scheduler) Await(ctx context.Context, c *Coroutine) (variant.Var, error) {
	select {
	case <-c.done:
		return c.Peek(), nil
	case <-ctx.Done():
		return variant.NewNil(), fmt.Errorf("coroutine: await canceled: %w", ctx.Err())
	}
}

func (s *Scheduler) runAsync(co *Coroutine) {
	co.setStatus(StatusRunning)
	res := co.entry(&Control{co: co}, variant.NewNil())
	co.setResult(res)
	co.setStatus(StatusDone)
	close(co.done)
}

// PendingSyncCount reports the number of sync coroutines still active.
func (s *Scheduler) PendingSyncCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sync)
}

// Shutdown closes the worker pool and waits for in-flight async
// coroutines to finish. Not safe to call while SpawnAsync may still be
// invoked concurrently.
func (s *Scheduler) Shutdown() {
	close(s.workCh)
	s.wg.Wait()
}
