package seam

import (
	"errors"
	"fmt"
)

// EndOfData is the sentinel returned by stream reads once the underlying
// source is exhausted. Like [io.EOF], it reports an expected condition,
// not a failure.
var EndOfData = errors.New("seam: end of data")

// A ProtocolError reports a misuse of the library, such as invoking an
// adapted operation outside any running task, or stepping a task that is
// already being stepped.
//
// Misuses are programming errors. They are raised as panics carrying
// a *ProtocolError, never returned.
type ProtocolError struct {
	msg string
}

func (e *ProtocolError) Error() string {
	return e.msg
}

func protocolErrorf(format string, args ...any) *ProtocolError {
	return &ProtocolError{msg: "seam: " + fmt.Sprintf(format, args...)}
}

// A ConstructionError reports that an async constructor's body failed
// before the instance was fully constructed.
type ConstructionError struct {
	err error
}

func (e *ConstructionError) Error() string {
	return "seam: construction failed: " + e.err.Error()
}

func (e *ConstructionError) Unwrap() error {
	return e.err
}
