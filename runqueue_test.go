package seam

import "testing"

func TestRunqueue(t *testing.T) {
	t.Run("Overall", func(t *testing.T) {
		var rq runqueue

		for _, n := range []uint64{1, 2, 3, 4, 5, 6, 7, 8} {
			rq.Push(&Driver{seq: n})
		}

		for _, n := range []uint64{1, 2, 3, 4} {
			if d := rq.Pop(); d.seq != n {
				t.FailNow()
			}
		}

		for _, n := range []uint64{9, 10, 11} {
			rq.Push(&Driver{seq: n})
		}

		rq.Push(&Driver{seq: 4})

		if d := rq.Pop(); d.seq != 4 {
			t.FailNow()
		}

		rq.Push(&Driver{seq: 7})
		rq.Push(&Driver{seq: 6})

		for _, n := range []uint64{5, 6, 6, 7, 7, 8, 9, 10, 11} {
			if d := rq.Pop(); d.seq != n {
				t.FailNow()
			}
		}

		if !rq.Empty() {
			t.FailNow()
		}
	})
	t.Run("FIFO", func(t *testing.T) {
		var rq runqueue

		u := &Driver{seq: 1}
		v := &Driver{seq: 1}
		w := &Driver{seq: 1}

		rq.Push(u)
		rq.Push(v)
		rq.Push(w)

		if rq.Pop() != u || rq.Pop() != v || rq.Pop() != w {
			t.FailNow()
		}
	})
}
