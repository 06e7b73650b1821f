package seam

import (
	"fmt"
	"strings"
)

// A PanicError is a panic contained inside a task body, surfaced as an
// ordinary failure. It carries the panic value and the low-level stack
// captured at the panic's origin.
type PanicError struct {
	Value any
	Stack []byte
}

func newPanicError(v any, stack []byte) *PanicError {
	return &PanicError{Value: v, Stack: stack}
}

func (e *PanicError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "seam: panic: %v", e.Value)
	if e.Stack != nil {
		b.WriteString("\n\n")
		b.Write(e.Stack)
	}
	return b.String()
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
