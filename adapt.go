package seam

// A Callback completes an operation with either a failure or a result,
// error first. A Callback must be invoked exactly once; later
// invocations are ignored.
type Callback[R any] func(err error, result R)

// Adapt wraps a callback-completing operation so that it can be awaited
// from inside a task.
//
// Calling the returned operation registers one pending operation,
// invokes op with a completion callback that resumes the enclosing
// task's driver, and suspends the task until that callback fires. A
// non-nil callback error is returned at the call site, so ordinary
// structured error handling in the body observes it.
//
// Each invocation is independent; no state is shared across invocations
// besides the enclosing task's context. Calling the returned operation
// outside a running task panics with a [*ProtocolError].
func Adapt[R any](op func(Callback[R])) func(*Task) (R, error) {
	return func(t *Task) (R, error) {
		p := t.newPending()
		op(func(err error, result R) { p.settle(err, result) })
		return awaitAs[R](t, p)
	}
}

// Adapt1 is [Adapt] for operations taking one argument.
func Adapt1[A, R any](op func(A, Callback[R])) func(*Task, A) (R, error) {
	return func(t *Task, a A) (R, error) {
		p := t.newPending()
		op(a, func(err error, result R) { p.settle(err, result) })
		return awaitAs[R](t, p)
	}
}

// Adapt2 is [Adapt] for operations taking two arguments.
func Adapt2[A, B, R any](op func(A, B, Callback[R])) func(*Task, A, B) (R, error) {
	return func(t *Task, a A, b B) (R, error) {
		p := t.newPending()
		op(a, b, func(err error, result R) { p.settle(err, result) })
		return awaitAs[R](t, p)
	}
}

func awaitAs[R any](t *Task, p *pending) (R, error) {
	v, err := t.await(p)
	if err != nil || v == nil {
		var zero R
		return zero, err
	}
	return v.(R), nil
}

// A RawOp is an untyped callback-completing operation, the unit of
// batch adaptation.
type RawOp func(args []any, cb func(error, any))

// A Module is a named registration list of callback-completing
// operations.
type Module map[string]RawOp

// A TaskOp is an untyped operation awaitable inside a task.
type TaskOp func(t *Task, args ...any) (any, error)

// A TaskModule is a named registration list of awaitable operations.
type TaskModule map[string]TaskOp

// AdaptAll adapts every operation in m. The registration list is
// iterated explicitly; no existing binding is patched.
func AdaptAll(m Module) TaskModule {
	out := make(TaskModule, len(m))
	for name, op := range m {
		out[name] = func(t *Task, args ...any) (any, error) {
			p := t.newPending()
			op(args, p.settle)
			return t.await(p)
		}
	}
	return out
}
