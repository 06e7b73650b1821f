package seam

import (
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
)

type taskState int32

const (
	stateCreated taskState = iota
	stateRunning
	stateSuspended
	stateCompleted
	stateFailed
)

// A Task is a suspendable unit of sequential computation, similar to
// a goroutine but cooperative: it only gives up control at suspension
// points, where it awaits a callback-completing operation.
//
// A Task's body runs on its own goroutine, but never concurrently with
// any other task of the same [Scheduler]; control is handed back and
// forth between the body and the task's [Driver] at every suspension
// point. A Task is created by [Bridge] or [Spin], mutated only by its
// driver's stepping loop, and becomes immutable once it completes or
// fails.
type Task struct {
	id     uuid.UUID
	sched  *Scheduler
	driver *Driver
	body   func(*Task) (any, error)
	parent *Task

	mu      sync.Mutex
	state   taskState
	value   any
	err     error
	waiters []*pending
	spun    bool
	awaited bool

	// saved is the task's context value while it is not running.
	// It is owned by the scheduler's context cell; see cell.go.
	saved any

	// frames is only appended to while the task is being stepped.
	bodyName string
	frames   []Frame

	resumeCh  chan resumption
	suspendCh chan suspension
	pendingOp *pending
}

type resumption struct {
	value any
	err   error
}

type suspension struct {
	op    *pending
	site  string
	done  bool
	value any
	err   error
}

// newTask creates a task over body. named is the user-supplied function
// body runs, kept separate so traced frames name user code rather than
// the typed-to-untyped wrapper.
func newTask(s *Scheduler, body func(*Task) (any, error), named any) *Task {
	t := &Task{
		id:        uuid.New(),
		sched:     s,
		body:      body,
		parent:    s.cell.ownerTask(),
		saved:     s.cell.get(),
		resumeCh:  make(chan resumption),
		suspendCh: make(chan suspension),
	}
	if tracingEnabled() {
		t.bodyName = funcName(named)
		t.frames = append(t.frames, Frame{TaskID: t.id, Body: t.bodyName, Site: "spawn"})
	}
	return t
}

// ID returns the task's identity.
func (t *Task) ID() uuid.UUID {
	return t.id
}

// Scheduler returns the scheduler that drives t.
func (t *Task) Scheduler() *Scheduler {
	return t.sched
}

// Context returns t's context value: the value t last set or inherited.
// See [Context] for the ambient accessor and its caveat.
func (t *Task) Context() any {
	return t.sched.cell.valueFor(t)
}

// SetContext sets t's context value. The value is preserved across t's
// later suspensions.
func (t *Task) SetContext(v any) {
	t.sched.cell.setFor(t, v)
}

func (t *Task) setState(s taskState) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
}

func (t *Task) currentState() taskState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Task) ensureRunning(what string) {
	if t == nil {
		panic(protocolErrorf("%s outside any task", what))
	}
	if t.currentState() != stateRunning {
		panic(protocolErrorf("%s on task %s, which is not running", what, t.id))
	}
}

// newPending registers one pending operation against t. It must be
// called from t's body while t is running.
func (t *Task) newPending() *pending {
	t.ensureRunning("awaiting an operation")
	return new(pending)
}

// await suspends t until p settles and returns p's outcome. It runs on
// the body goroutine; the matching receive is in Driver.step.
func (t *Task) await(p *pending) (any, error) {
	var site string
	if tracingEnabled() {
		site = callerSite()
	}
	t.suspendCh <- suspension{op: p, site: site}
	r := <-t.resumeCh
	return r.value, r.err
}

// main is the body goroutine. It runs the body to completion, containing
// panics, and reports the terminal suspension to the driver.
func (t *Task) main() {
	var (
		value  any
		err    error
		normal bool
	)
	defer func() {
		if !normal {
			if v := recover(); v != nil {
				err = newPanicError(v, debug.Stack())
			} else {
				// runtime.Goexit cannot be stopped; report it so
				// the driver does not wait forever.
				err = protocolErrorf("task %s exited via runtime.Goexit", t.id)
			}
		}
		t.suspendCh <- suspension{done: true, value: value, err: err}
	}()
	value, err = t.body(t)
	normal = true
}

// settle caches the terminal outcome and resumes every registered
// waiter with it. Called exactly once, by the driver.
func (t *Task) settle(value any, err error) {
	t.mu.Lock()
	if t.state == stateCompleted || t.state == stateFailed {
		t.mu.Unlock()
		return
	}
	if err != nil {
		t.state = stateFailed
	} else {
		t.state = stateCompleted
	}
	t.value = value
	t.err = err
	waiters := t.waiters
	t.waiters = nil
	unobserved := err != nil && t.spun && !t.awaited
	t.mu.Unlock()

	for _, w := range waiters {
		w.settle(err, value)
	}

	if unobserved {
		if h := unhandledHook(); h != nil {
			h(err)
		}
	}
}

// outcome returns the cached result once t is terminal.
func (t *Task) outcome() (value any, err error, settled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	settled = t.state == stateCompleted || t.state == stateFailed
	return t.value, t.err, settled
}

// addWaiter registers w to be settled with t's outcome. If t is already
// terminal, it reports false and the caller reads the cached outcome
// instead.
func (t *Task) addWaiter(w *pending) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.awaited = true
	if t.state == stateCompleted || t.state == stateFailed {
		return false
	}
	t.waiters = append(t.waiters, w)
	return true
}
