package seam

import "sync"

// A Scheduler is a [Driver] runner.
//
// When a task is spawned or resumed, its driver is added into an
// internal queue. The Run method then pops and steps each of them until
// the queue is emptied. It is done in a single-threaded manner: at most
// one task step executes at any instant, so tasks interleave only at
// suspension points. If one task's body blocks, no other tasks can run.
// The best practice is not to block.
//
// The internal queue orders drivers by spawn sequence, so earlier tasks
// step before later ones and scheduling is deterministic.
//
// By default a Scheduler runs itself: whenever a driver is enqueued
// while the queue is idle, Run is called inline on the enqueuing
// goroutine. Use Autorun to change that, for example to drain the queue
// on a dedicated goroutine. The Scheduler never calls the autorun
// function twice at the same time.
type Scheduler struct {
	mu      sync.Mutex
	rq      runqueue
	running bool
	autorun func()
	seq     uint64
	cell    contextCell
}

// NewScheduler returns a Scheduler with its own run queue and its own
// context cell, isolated from the package default.
func NewScheduler() *Scheduler {
	s := new(Scheduler)
	s.autorun = s.Run
	return s
}

var defaultScheduler = NewScheduler()

// Default returns the package-wide Scheduler used by [Bridge], [Spin]
// and the ambient [Context] accessors.
func Default() *Scheduler {
	return defaultScheduler
}

// Autorun sets up a function to be called whenever a driver is enqueued
// while the queue is not being drained. One must pass a function that
// calls the Run method.
//
// If f blocks, settling callbacks may block too.
func (s *Scheduler) Autorun(f func()) {
	s.autorun = f
}

// Run pops and steps every enqueued driver until the queue is emptied.
//
// Run must not be called twice at the same time.
func (s *Scheduler) Run() {
	s.mu.Lock()
	s.running = true

	for !s.rq.Empty() {
		d := s.rq.Pop()
		d.enqueued = false
		s.mu.Unlock()
		d.step()
		s.mu.Lock()
	}

	s.running = false
	s.mu.Unlock()
}

// spawn binds t to a fresh driver with the given terminal callback and
// enqueues its first step.
func (s *Scheduler) spawn(t *Task, done func(err error, value any)) *Driver {
	d := &Driver{sched: s, task: t, done: done}
	t.driver = d

	s.mu.Lock()
	s.seq++
	d.seq = s.seq
	s.mu.Unlock()

	s.wake(d)
	return d
}

// wake enqueues d for stepping. Safe for concurrent use; settling
// callbacks may fire from any goroutine.
func (s *Scheduler) wake(d *Driver) {
	var autorun func()

	s.mu.Lock()
	if d.enqueued {
		s.mu.Unlock()
		return
	}
	d.enqueued = true
	s.rq.Push(d)
	if !s.running && s.autorun != nil {
		s.running = true
		autorun = s.autorun
	}
	s.mu.Unlock()

	if autorun != nil {
		autorun()
	}
}
