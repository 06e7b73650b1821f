package seam

// Bridge wraps a coroutine body as a callback-completing operation on
// the default scheduler.
//
// Each invocation of the returned operation creates a new [Task] bound
// to the body, inheriting the context cell's current value as its saved
// context, and begins stepping it. The supplied callback fires exactly
// once, with either a result or a failure, never both. An unhandled
// body failure, including a contained panic, surfaces as the callback's
// error argument.
func Bridge[R any](body func(*Task) (R, error)) func(Callback[R]) {
	return BridgeOn(defaultScheduler, body)
}

// BridgeOn is [Bridge] on an explicit scheduler.
func BridgeOn[R any](s *Scheduler, body func(*Task) (R, error)) func(Callback[R]) {
	return func(cb Callback[R]) {
		t := newTask(s, func(t *Task) (any, error) { return body(t) }, body)
		s.spawn(t, terminal(cb))
	}
}

// Bridge1 is [Bridge] for bodies taking one argument.
func Bridge1[A, R any](body func(*Task, A) (R, error)) func(A, Callback[R]) {
	return func(a A, cb Callback[R]) {
		t := newTask(defaultScheduler, func(t *Task) (any, error) { return body(t, a) }, body)
		defaultScheduler.spawn(t, terminal(cb))
	}
}

// Bridge2 is [Bridge] for bodies taking two arguments.
func Bridge2[A, B, R any](body func(*Task, A, B) (R, error)) func(A, B, Callback[R]) {
	return func(a A, b B, cb Callback[R]) {
		t := newTask(defaultScheduler, func(t *Task) (any, error) { return body(t, a, b) }, body)
		defaultScheduler.spawn(t, terminal(cb))
	}
}

func terminal[R any](cb Callback[R]) func(error, any) {
	return func(err error, value any) {
		var r R
		if err == nil && value != nil {
			r = value.(R)
		}
		cb(err, r)
	}
}

// BridgeAll bridges every operation in m, iterating the registration
// list explicitly.
func BridgeAll(m TaskModule) Module {
	out := make(Module, len(m))
	for name, op := range m {
		out[name] = func(args []any, cb func(error, any)) {
			t := newTask(defaultScheduler, func(t *Task) (any, error) { return op(t, args...) }, op)
			defaultScheduler.spawn(t, cb)
		}
	}
	return out
}

// Construct wraps an async constructor: a constructor whose body may
// suspend. The constructed instance is only yielded once the body
// completes; a failure before completion is returned as a
// [*ConstructionError] wrapping the cause, so callers can tell a
// half-constructed value from an ordinary operation failure.
func Construct[A, T any](ctor func(*Task, A) (T, error)) func(*Task, A) (T, error) {
	return func(t *Task, a A) (T, error) {
		v, err := ctor(t, a)
		if err != nil {
			var zero T
			return zero, &ConstructionError{err: err}
		}
		return v, nil
	}
}
