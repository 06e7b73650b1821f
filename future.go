package seam

import "sync"

// A Future is a deferred-observation handle over a task started eagerly
// by [Spin].
//
// Awaiting it any number of times, from any number of tasks, observes
// the identical cached outcome once the underlying task settles, and
// never restarts the task.
type Future[R any] struct {
	task *Task
}

// Spin starts body eagerly on the default scheduler, fire-and-forget,
// and returns a handle for observing its outcome later.
//
// The spun task and the caller's task both make progress by
// interleaving at suspension points under the same single-threaded
// scheduler; this is cooperative concurrency, not parallelism.
//
// If the spun task fails and nothing ever awaits the handle, the
// failure is dropped unless a hook is installed with
// [OnUnhandledFailure].
func Spin[R any](body func(*Task) (R, error)) *Future[R] {
	return SpinOn(defaultScheduler, body)
}

// SpinOn is [Spin] on an explicit scheduler.
func SpinOn[R any](s *Scheduler, body func(*Task) (R, error)) *Future[R] {
	t := newTask(s, func(t *Task) (any, error) { return body(t) }, body)
	t.spun = true
	s.spawn(t, nil)
	return &Future[R]{task: t}
}

// Await returns the underlying task's outcome.
//
// If the task has already settled, the cached result is returned, or
// the cached failure re-raised, with no suspension. Otherwise t is
// registered as a waiter and suspended until the task settles. All
// waiters observe the same success value or the same failure.
//
// Awaiting a future from its own task panics with a [*ProtocolError]:
// the task would wait on itself forever.
func (f *Future[R]) Await(t *Task) (R, error) {
	ft := f.task
	if ft == t {
		panic(protocolErrorf("task %s awaiting its own future", ft.id))
	}
	t.ensureRunning("awaiting a future")

	p := new(pending)
	if !ft.addWaiter(p) {
		return cachedAs[R](ft)
	}
	return awaitAs[R](t, p)
}

// Settled reports whether the underlying task has completed or failed.
func (f *Future[R]) Settled() bool {
	_, _, settled := f.task.outcome()
	return settled
}

func cachedAs[R any](t *Task) (R, error) {
	v, err, _ := t.outcome()
	if err != nil || v == nil {
		var zero R
		return zero, err
	}
	return v.(R), nil
}

// AwaitAll awaits every future in order and returns their values in the
// same order. The first failure encountered is returned and the
// remaining futures are left running.
func AwaitAll[R any](t *Task, futures ...*Future[R]) ([]R, error) {
	out := make([]R, len(futures))
	for i, f := range futures {
		v, err := f.Await(t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

var unhandled struct {
	mu sync.Mutex
	fn func(error)
}

// OnUnhandledFailure installs a process-wide hook invoked when a spun
// task fails without any waiter ever registered on its future. Passing
// nil restores the default, which drops such failures. A later Await
// still re-raises the cached failure normally.
func OnUnhandledFailure(fn func(error)) {
	unhandled.mu.Lock()
	unhandled.fn = fn
	unhandled.mu.Unlock()
}

func unhandledHook() func(error) {
	unhandled.mu.Lock()
	defer unhandled.mu.Unlock()
	return unhandled.fn
}
