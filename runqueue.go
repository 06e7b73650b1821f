package seam

import "sort"

// runqueue is the scheduler's run queue of drivers, ordered by spawn
// sequence. Drivers with equal keys keep their arrival order (FIFO).
//
// The queue is two sorted slices sharing one backing array: head, from
// which drivers are popped, and tail, which reuses the space vacated by
// popped elements until the array fills up.
type runqueue struct {
	head, tail []*Driver
}

func (q *runqueue) Empty() bool {
	return len(q.head) == 0
}

func (q *runqueue) Push(d *Driver) {
	headsize, tailsize := len(q.head), len(q.tail)

	n := headsize + tailsize

	i := sort.Search(n, func(i int) bool {
		if i < headsize {
			return d.less(q.head[i])
		}

		i -= headsize

		return d.less(q.tail[i])
	})

	if n == cap(q.tail) {
		s := append(q.tail[:n], nil)[:0]

		if i < headsize {
			s = append(s, q.head[:i]...)
			s = append(s, d)
			s = append(s, q.head[i:]...)
			s = append(s, q.tail...)
		} else {
			i -= headsize
			s = append(s, q.head...)
			s = append(s, q.tail[:i]...)
			s = append(s, d)
			s = append(s, q.tail[i:]...)
		}

		q.head, q.tail = s, s[:0]

		return
	}

	if headsize < cap(q.head) {
		s := q.head
		s = s[:headsize+1]
		copy(s[i+1:], s[i:])
		s[i] = d
		q.head = s
		return
	}

	if i < headsize {
		s := q.head
		u := s[headsize-1]
		copy(s[i+1:], s[i:])
		s[i] = d
		d = u
		i = headsize
	}

	i -= headsize

	s := q.tail
	s = s[:tailsize+1]
	copy(s[i+1:], s[i:])
	s[i] = d
	q.tail = s
}

func (q *runqueue) Pop() *Driver {
	d := q.head[0]
	q.head[0] = nil

	if len(q.head) > 1 {
		q.head = q.head[1:]
	} else {
		q.head, q.tail = q.tail, q.tail[:0]
	}

	return d
}
