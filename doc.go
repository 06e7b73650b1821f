// Package seam is a cooperative coroutine scheduling layer that lets
// code written as straight-line sequential logic interoperate with
// asynchronous, callback-completing operations.
//
// It provides four capabilities: [Adapt] turns a callback-completing
// operation into one that can be awaited from inside a task; [Bridge]
// turns a coroutine body into an operation that itself completes via
// callback, by driving the body's execution; [Spin] starts a task
// eagerly and returns a [Future] that defers observation of its result;
// and the context cell ([Context], [Task.Context]) carries an ambient
// value across suspension and resumption without leaking between
// interleaved tasks. A suspendable [Stream] wrapper and a diagnostic
// call-chain reconstructor ([SetTracing]) are built on top.
//
// # Single-Threaded Cooperation
//
// A [Scheduler] steps tasks one at a time: at most one task step
// executes at any instant, and tasks interleave only at suspension
// points, where a body awaits an adapted operation, a future, or a
// stream read or write. Within one task, steps execute strictly in the
// order the body issues them. There is no parallelism, and no
// atomicity is implied beyond a single step of a single task.
//
// A task's body is ordinary Go code on its own goroutine, but it only
// runs while its [Driver] has handed it control. If a body blocks on
// something the scheduler cannot see, no other tasks can run. The best
// practice is not to block: suspend through the library instead.
//
// # No Cancellation
//
// There is no cancellation or timeout primitive. A task that never
// reaches a settling operation runs indefinitely, and its goroutine
// with it. Timeouts are layered externally by racing the awaited
// operation against a timer-backed future ([Sleep] under [Spin]) and
// discarding the loser's eventual result.
//
// # The Context Cell
//
// The active context value survives suspension: the driver saves the
// cell into the task at every suspension and restores it at every
// resume, so two interleaved tasks each observe their own value. Code
// running outside any driver's resume path, such as a raw external
// callback not produced by [Adapt], observes whatever the cell
// currently holds, with no restoration guarantee. That sharp edge is
// inherent to ambient state; thread [Task.Context] explicitly where it
// matters.
//
// # Failures
//
// A failed operation's error is returned at the awaiting call site, so
// ordinary error handling in the body observes it. An unhandled body
// failure surfaces exactly once, as the error argument of the bridged
// callback. A panic inside a body is contained and surfaces as a
// [*PanicError] failure. A [Future]'s failure is only observed by code
// that awaits it; if nothing ever does, it is dropped unless an
// [OnUnhandledFailure] hook is installed.
package seam
