package seam

// A Driver binds exactly one [Task] to exactly one terminal callback and
// steps the task to completion.
//
// Each step hands control to the task's body and waits for it to either
// suspend on a pending operation or complete. On suspension the driver
// arms the pending operation to re-enqueue the driver once it settles;
// on completion the driver settles the task and fires the terminal
// callback, exactly once, with either a result or a failure.
//
// The driver restores the task's saved context value into the
// scheduler's context cell immediately before every resume, and copies
// the cell back into the task immediately after every suspension.
type Driver struct {
	sched *Scheduler
	task  *Task
	done  func(err error, value any)

	// seq orders drivers in the run queue: earlier-spawned tasks step
	// first. Assigned once, at spawn.
	seq uint64

	// enqueued is guarded by the scheduler's mutex.
	enqueued bool

	stepping bool
	finished bool
}

func (d *Driver) less(other *Driver) bool {
	return d.seq < other.seq
}

// step runs the task from its current continuation until it suspends or
// completes. Steps of one task never overlap; the scheduler's run loop
// serializes them.
func (d *Driver) step() {
	if d.stepping {
		panic(protocolErrorf("task %s stepped reentrantly", d.task.id))
	}
	d.stepping = true
	defer func() { d.stepping = false }()

	t := d.task

	var sus suspension
	switch t.currentState() {
	case stateCreated:
		t.setState(stateRunning)
		d.sched.cell.restore(t)
		go t.main()
		sus = <-t.suspendCh
	case stateSuspended:
		op := t.pendingOp
		t.pendingOp = nil
		value, err := op.outcome()
		t.setState(stateRunning)
		d.sched.cell.restore(t)
		t.resumeCh <- resumption{value: value, err: err}
		sus = <-t.suspendCh
	default:
		// A stale wakeup of a terminal task.
		return
	}

	d.sched.cell.save(t)

	if !sus.done {
		t.setState(stateSuspended)
		t.pendingOp = sus.op
		if tracingEnabled() {
			t.frames = append(t.frames, Frame{TaskID: t.id, Body: t.bodyName, Site: sus.site})
		}
		sus.op.onSettle(func(any, error) { d.sched.wake(d) })
		return
	}

	err := sus.err
	if err != nil && tracingEnabled() {
		err = reconstruct(t, err)
	}
	t.settle(sus.value, err)
	d.finish(err, sus.value)
}

// finish invokes the bound terminal callback. The finished flag makes
// the exactly-once contract unconditional even if a settle path ever
// reaches here twice.
func (d *Driver) finish(err error, value any) {
	if d.finished {
		return
	}
	d.finished = true
	if d.done != nil {
		d.done(err, value)
	}
}
