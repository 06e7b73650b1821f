package seam

import (
	"fmt"
	"path"
	"reflect"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

var tracing atomic.Bool

// SetTracing toggles suspension-point instrumentation.
//
// When enabled, every driver records a synthetic frame at each
// suspension point, and a task failure is wrapped in a [*TracedError]
// carrying the reconstructed logical call chain. Diagnostics only; the
// toggle never changes control flow. Tasks created while tracing is off
// carry no frames.
func SetTracing(on bool) {
	tracing.Store(on)
}

func tracingEnabled() bool {
	return tracing.Load()
}

// A Frame names one logical suspension point of a task.
type Frame struct {
	TaskID uuid.UUID
	Body   string
	Site   string
}

func (f Frame) String() string {
	return fmt.Sprintf("%s at %s [task %s]", f.Body, f.Site, f.TaskID)
}

// A TracedError is a task failure annotated with the reconstructed
// call chain: the failing task's suspension frames, innermost first,
// followed by the frames of the tasks that spawned it. It reflects the
// nested coroutine invocations, not the raw low-level event chain; the
// low-level stack captured at the failure's origin, if any, rides
// along.
type TracedError struct {
	Frames []Frame
	Stack  []byte
	err    error
}

func (e *TracedError) Error() string {
	var b strings.Builder
	b.WriteString(e.err.Error())
	b.WriteString("\n\nreconstructed call chain:")
	for i, f := range e.Frames {
		fmt.Fprintf(&b, "\n(%d/%d) %s", i+1, len(e.Frames), f)
	}
	if e.Stack != nil {
		b.WriteString("\n\n")
		b.Write(e.Stack)
	}
	return b.String()
}

func (e *TracedError) Unwrap() error {
	return e.err
}

// reconstruct composes the call chain for a failure of t, walking the
// spawning-task parentage outward.
func reconstruct(t *Task, err error) error {
	if _, ok := err.(*TracedError); ok {
		return err
	}
	var frames []Frame
	for task := t; task != nil; task = task.parent {
		for i := len(task.frames) - 1; i >= 0; i-- {
			frames = append(frames, task.frames[i])
		}
	}
	var stack []byte
	if pe, ok := err.(*PanicError); ok {
		stack = pe.Stack
	}
	return &TracedError{Frames: frames, Stack: stack, err: err}
}

// callerSite names the nearest call site outside this package: the
// logical suspension point in user code.
func callerSite() string {
	var pcs [16]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if !strings.HasPrefix(f.Function, "github.com/seam-go/seam.") {
			return shortSite(f.File, f.Line)
		}
		if !more {
			break
		}
	}
	return "unknown"
}

func funcName(f any) string {
	pc := reflect.ValueOf(f).Pointer()
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown"
	}
	return path.Base(fn.Name())
}

func shortSite(file string, line int) string {
	return fmt.Sprintf("%s:%d", path.Base(file), line)
}
