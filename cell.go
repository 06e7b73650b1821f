package seam

import "sync"

// contextCell is the scheduler-wide slot holding the active context
// value.
//
// The slot is never genuine global state: the value observed while a
// task is running is always the value that task last set or inherited,
// because the driver writes the task's saved value into the slot
// immediately before every resume and copies the slot back into the
// task immediately after every suspension. The owner field identifies
// the task the slot currently speaks for.
type contextCell struct {
	mu    sync.Mutex
	owner *Task
	value any
}

func (c *contextCell) get() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

func (c *contextCell) set(v any) {
	c.mu.Lock()
	c.value = v
	c.mu.Unlock()
}

func (c *contextCell) ownerTask() *Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.owner
}

// restore makes the slot speak for t, loading t's saved value.
func (c *contextCell) restore(t *Task) {
	c.mu.Lock()
	c.owner = t
	c.value = t.saved
	c.mu.Unlock()
}

// save copies the slot's then-current value back into t and releases
// the slot.
func (c *contextCell) save(t *Task) {
	c.mu.Lock()
	t.saved = c.value
	c.owner = nil
	c.mu.Unlock()
}

// valueFor reads t's context value whether or not t currently owns the
// slot.
func (c *contextCell) valueFor(t *Task) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.owner == t {
		return c.value
	}
	return t.saved
}

func (c *contextCell) setFor(t *Task, v any) {
	c.mu.Lock()
	if c.owner == t {
		c.value = v
	} else {
		t.saved = v
	}
	c.mu.Unlock()
}

// Context returns the active context value of the default scheduler's
// context cell.
//
// Inside a task body this is the value the task last set or inherited,
// regardless of how tasks interleave. Code running outside any driver's
// resume path, such as a raw external callback not produced by [Adapt],
// observes whatever the slot currently holds, with no restoration
// guarantee. That is a documented sharp edge of ambient access; thread
// [Task.Context] through instead where it matters.
func Context() any {
	return defaultScheduler.cell.get()
}

// SetContext sets the active context value of the default scheduler's
// context cell. Called inside a task body, the value becomes that
// task's context from then on and is preserved across its later
// suspensions.
func SetContext(v any) {
	defaultScheduler.cell.set(v)
}
