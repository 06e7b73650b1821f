package seam_test

import (
	"sync"
	"testing"
	"time"

	"github.com/seam-go/seam"
)

// runTask bridges body, runs it to completion and returns its outcome.
func runTask[R any](t *testing.T, body func(*seam.Task) (R, error)) (R, error) {
	t.Helper()

	type outcome struct {
		v   R
		err error
	}
	ch := make(chan outcome, 1)

	seam.Bridge(body)(func(err error, v R) {
		ch <- outcome{v: v, err: err}
	})

	select {
	case o := <-ch:
		return o.v, o.err
	case <-time.After(5 * time.Second):
		t.Fatal("task did not complete")
		panic("unreachable")
	}
}

// after is a callback-completing operation that settles from a timer
// goroutine.
func after[R any](d time.Duration, err error, v R) func(seam.Callback[R]) {
	return func(cb seam.Callback[R]) {
		time.AfterFunc(d, func() { cb(err, v) })
	}
}

// recorder collects ordered markers from interleaving tasks.
type recorder struct {
	mu      sync.Mutex
	markers []string
}

func (r *recorder) mark(m string) {
	r.mu.Lock()
	r.markers = append(r.markers, m)
	r.mu.Unlock()
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.markers...)
}

func (r *recorder) contains(m string) bool {
	for _, v := range r.all() {
		if v == m {
			return true
		}
	}
	return false
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached")
		}
		time.Sleep(time.Millisecond)
	}
}
