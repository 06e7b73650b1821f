package seam

import "sync"

// A pending is the one-shot settlement cell between a callback-completing
// operation and the [Driver] of the task that awaits it.
//
// The first settlement wins. Callbacks that fire more than once are
// a well-known hazard of callback-style code; later settlements are
// silently ignored so that a misbehaving operation cannot resume a task
// twice.
type pending struct {
	mu      sync.Mutex
	settled bool
	value   any
	err     error
	handler func(value any, err error)
}

// settle records the operation's outcome and, if a handler has been
// armed, invokes it. Safe for use from any goroutine.
func (p *pending) settle(err error, value any) {
	p.mu.Lock()
	if p.settled {
		p.mu.Unlock()
		return
	}
	p.settled = true
	p.value = value
	p.err = err
	h := p.handler
	p.handler = nil
	p.mu.Unlock()

	if h != nil {
		h(value, err)
	}
}

// onSettle arms a handler to run once p settles. If p has already
// settled, the handler runs immediately on the calling goroutine.
func (p *pending) onSettle(h func(value any, err error)) {
	p.mu.Lock()
	if p.settled {
		value, err := p.value, p.err
		p.mu.Unlock()
		h(value, err)
		return
	}
	p.handler = h
	p.mu.Unlock()
}

func (p *pending) outcome() (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value, p.err
}
