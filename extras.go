package seam

import (
	"sync"
	"time"
)

// Sleep suspends t for at least d. It is the timer-backed suspension
// used to layer timeouts externally: race the awaited operation against
// a [Spin] of Sleep and discard the loser's eventual result.
func Sleep(t *Task, d time.Duration) error {
	p := t.newPending()
	time.AfterFunc(d, func() { p.settle(nil, nil) })
	_, err := t.await(p)
	return err
}

// A Funnel bounds how many tasks may be inside a section at once.
// Tasks over the limit suspend in Enter and are admitted in FIFO order
// as others leave.
//
// Note that a Funnel provides no backpressure for spawning: tasks queue
// up in it without bound.
type Funnel struct {
	mu      sync.Mutex
	size    int
	cur     int
	waiters []*pending
}

// NewFunnel creates a Funnel admitting at most n tasks at once.
func NewFunnel(n int) *Funnel {
	if n <= 0 {
		panic(protocolErrorf("funnel size %d, must be positive", n))
	}
	return &Funnel{size: n}
}

// Enter suspends t until a slot is free, then claims it.
func (f *Funnel) Enter(t *Task) error {
	f.mu.Lock()
	if f.cur < f.size {
		f.cur++
		f.mu.Unlock()
		return nil
	}
	p := t.newPending()
	f.waiters = append(f.waiters, p)
	f.mu.Unlock()
	_, err := t.await(p)
	return err
}

// Leave releases a slot. If a task is suspended in Enter, the slot is
// handed to it directly.
func (f *Funnel) Leave() {
	f.mu.Lock()
	if len(f.waiters) > 0 {
		p := f.waiters[0]
		f.waiters = f.waiters[1:]
		f.mu.Unlock()
		p.settle(nil, nil)
		return
	}
	if f.cur == 0 {
		f.mu.Unlock()
		panic(protocolErrorf("funnel left more times than entered"))
	}
	f.cur--
	f.mu.Unlock()
}

// A Handshake is a one-slot wait/notify rendezvous. Wait suspends until
// Notify delivers a value; a Notify with no task waiting is dropped.
type Handshake struct {
	mu     sync.Mutex
	waiter *pending
}

// Wait suspends t until the next [Handshake.Notify] and returns the
// delivered value.
func (h *Handshake) Wait(t *Task) (any, error) {
	p := t.newPending()
	h.mu.Lock()
	if h.waiter != nil {
		h.mu.Unlock()
		panic(protocolErrorf("concurrent waits on one handshake"))
	}
	h.waiter = p
	h.mu.Unlock()
	return t.await(p)
}

// Notify resumes the waiting task, if any, delivering v.
func (h *Handshake) Notify(v any) {
	h.mu.Lock()
	p := h.waiter
	h.waiter = nil
	h.mu.Unlock()
	if p != nil {
		p.settle(nil, v)
	}
}
