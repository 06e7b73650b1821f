package seam_test

import (
	"fmt"

	"github.com/seam-go/seam"
)

func Example() {
	// A callback-style operation, as a foreign event-driven API would
	// expose it.
	lookup := func(host string, cb seam.Callback[string]) {
		go cb(nil, "10.0.0.7 ("+host+")")
	}

	// Adapt turns it into a straight-line call inside a task, and
	// Bridge exposes the whole task as a callback operation again.
	resolve := seam.Adapt1(lookup)
	op := seam.Bridge(func(t *seam.Task) (string, error) {
		addr, err := resolve(t, "db.internal")
		if err != nil {
			return "", err
		}
		return "resolved " + addr, nil
	})

	done := make(chan struct{})
	op(func(err error, v string) {
		fmt.Println(v)
		close(done)
	})
	<-done

	// Output:
	// resolved 10.0.0.7 (db.internal)
}

func ExampleSpin() {
	var h seam.Handshake

	f := seam.Spin(func(t *seam.Task) (int, error) {
		v, err := h.Wait(t)
		if err != nil {
			return 0, err
		}
		return v.(int) * 2, nil
	})

	fmt.Println("settled before notify:", f.Settled())
	h.Notify(21)
	fmt.Println("settled after notify:", f.Settled())

	done := make(chan struct{})
	seam.Bridge(func(t *seam.Task) (int, error) {
		return f.Await(t)
	})(func(err error, v int) {
		fmt.Println("value:", v)
		close(done)
	})
	<-done

	// Output:
	// settled before notify: false
	// settled after notify: true
	// value: 42
}

func ExampleFunnel() {
	limit := seam.NewFunnel(1)
	done := make(chan struct{})

	work := seam.Bridge1(func(t *seam.Task, name string) (int, error) {
		if err := limit.Enter(t); err != nil {
			return 0, err
		}
		defer limit.Leave()
		fmt.Println("inside:", name)
		return 0, nil
	})

	remaining := 2
	cb := func(error, int) {
		if remaining--; remaining == 0 {
			close(done)
		}
	}
	work("first", cb)
	work("second", cb)
	<-done

	// Output:
	// inside: first
	// inside: second
}
