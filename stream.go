package seam

import (
	"bytes"
	"sync"
)

// A Source is a push-based producer of byte chunks.
//
// Subscribe installs the three event handlers; a Source calls data for
// every produced chunk, end exactly once at exhaustion, and fail at
// most once on error. Pause and Resume are advisory flow control: a
// paused source should stop producing until resumed.
type Source interface {
	Subscribe(data func(p []byte), end func(), fail func(err error))
	Pause()
	Resume()
}

// A Sink is a consumer of byte chunks with backpressure.
//
// Write reports ok=false when the sink is saturated; the handler
// installed with OnDrain is then called once the sink can accept more.
// End finalizes the sink.
type Sink interface {
	Write(p []byte) (ok bool, err error)
	OnDrain(fn func())
	End() error
}

// A Stream is a suspendable read/write handle over a push/pull data
// source or sink.
//
// Reads and writes suspend the calling task the same way adapted
// operations do, so straight-line parsing and producing code can be
// written against asynchronous, event-driven endpoints. A Stream
// supports one suspended reader and one suspended writer at a time.
type Stream struct {
	src  Source
	sink Sink

	mu       sync.Mutex
	chunks   [][]byte
	size     int
	ended    bool
	failed   error
	reader   *readWaiter
	drain    *pending
	sinkDone bool
}

type readWaiter struct {
	n int // -1 means any next chunk
	p *pending
}

// Wrap wraps a push-based source as a readable Stream. If src also
// implements [Sink], the handle is duplex. The source is paused until
// the first read demands data.
func Wrap(src Source) *Stream {
	s := &Stream{src: src}
	if sink, ok := src.(Sink); ok {
		s.sink = sink
		sink.OnDrain(s.onDrain)
	}
	src.Subscribe(s.onData, s.onEnd, s.onFail)
	src.Pause()
	return s
}

// WrapSink wraps a sink as a write-only Stream.
func WrapSink(sink Sink) *Stream {
	s := &Stream{sink: sink}
	sink.OnDrain(s.onDrain)
	return s
}

func (s *Stream) onData(p []byte) {
	s.mu.Lock()
	s.chunks = append(s.chunks, bytes.Clone(p))
	s.size += len(p)
	w := s.reader
	if w != nil && (w.n < 0 || s.size >= w.n) {
		s.reader = nil
		s.mu.Unlock()
		w.p.settle(nil, nil)
		return
	}
	if w == nil {
		s.src.Pause()
	}
	s.mu.Unlock()
}

func (s *Stream) onEnd() {
	s.mu.Lock()
	s.ended = true
	w := s.reader
	s.reader = nil
	s.mu.Unlock()
	if w != nil {
		w.p.settle(nil, nil)
	}
}

func (s *Stream) onFail(err error) {
	s.mu.Lock()
	s.failed = err
	w := s.reader
	s.reader = nil
	s.mu.Unlock()
	if w != nil {
		w.p.settle(err, nil)
	}
}

func (s *Stream) onDrain() {
	s.mu.Lock()
	d := s.drain
	s.drain = nil
	s.mu.Unlock()
	if d != nil {
		d.settle(nil, nil)
	}
}

// Read suspends t until exactly n bytes are buffered or the stream
// ends. On early end it returns the remaining short data; once the
// stream is exhausted it returns [EndOfData].
func (s *Stream) Read(t *Task, n int) ([]byte, error) {
	if n < 0 {
		panic(protocolErrorf("stream read with negative size %d", n))
	}
	t.ensureRunning("reading a stream")
	for {
		s.mu.Lock()
		switch {
		case s.failed != nil:
			err := s.failed
			s.mu.Unlock()
			return nil, err
		case s.ended && s.size == 0:
			s.mu.Unlock()
			return nil, EndOfData
		case s.size >= n:
			p := s.takeLocked(n)
			s.mu.Unlock()
			return p, nil
		case s.ended:
			p := s.takeLocked(s.size)
			s.mu.Unlock()
			return p, nil
		}
		p := s.waitLocked(t, n)
		if _, err := t.await(p); err != nil {
			return nil, err
		}
	}
}

// ReadChunk suspends t until the next chunk as produced by the source
// is available and returns it, or returns [EndOfData] at stream end.
func (s *Stream) ReadChunk(t *Task) ([]byte, error) {
	t.ensureRunning("reading a stream")
	for {
		s.mu.Lock()
		switch {
		case s.failed != nil:
			err := s.failed
			s.mu.Unlock()
			return nil, err
		case len(s.chunks) > 0:
			p := s.chunks[0]
			s.chunks = s.chunks[1:]
			s.size -= len(p)
			s.mu.Unlock()
			return p, nil
		case s.ended:
			s.mu.Unlock()
			return nil, EndOfData
		}
		p := s.waitLocked(t, -1)
		if _, err := t.await(p); err != nil {
			return nil, err
		}
	}
}

// waitLocked parks a read waiter and resumes the source. Releases s.mu.
func (s *Stream) waitLocked(t *Task, n int) *pending {
	if s.src == nil {
		s.mu.Unlock()
		panic(protocolErrorf("read on a write-only stream"))
	}
	if s.reader != nil {
		s.mu.Unlock()
		panic(protocolErrorf("concurrent reads on one stream"))
	}
	p := new(pending)
	s.reader = &readWaiter{n: n, p: p}
	src := s.src
	s.mu.Unlock()
	src.Resume()
	return p
}

// takeLocked assembles n buffered bytes. Callers hold s.mu and have
// checked that n bytes are available.
func (s *Stream) takeLocked(n int) []byte {
	out := make([]byte, 0, n)
	for len(out) < n {
		c := s.chunks[0]
		need := n - len(out)
		if len(c) <= need {
			out = append(out, c...)
			s.chunks = s.chunks[1:]
		} else {
			out = append(out, c[:need]...)
			s.chunks[0] = c[need:]
		}
	}
	s.size -= n
	return out
}

// Unread pushes p back to the front of the internal buffer for a
// subsequent read, supporting lookahead parsing. It never suspends.
func (s *Stream) Unread(p []byte) {
	if len(p) == 0 {
		return
	}
	s.mu.Lock()
	s.chunks = append([][]byte{bytes.Clone(p)}, s.chunks...)
	s.size += len(p)
	s.mu.Unlock()
}

// Write sends p to the sink, suspending t while the sink signals
// backpressure and resuming on drain. An empty p signals end-of-stream
// and finalizes the sink, like [Stream.End].
func (s *Stream) Write(t *Task, p []byte) error {
	t.ensureRunning("writing a stream")
	if s.sink == nil {
		panic(protocolErrorf("write on a read-only stream"))
	}
	if len(p) == 0 {
		return s.End()
	}

	// Park the drain waiter before writing so a drain event firing
	// between the two cannot be lost.
	w := new(pending)
	s.mu.Lock()
	if s.drain != nil {
		s.mu.Unlock()
		panic(protocolErrorf("concurrent writes on one stream"))
	}
	s.drain = w
	s.mu.Unlock()

	ok, err := s.sink.Write(p)
	if err != nil || ok {
		s.mu.Lock()
		if s.drain == w {
			s.drain = nil
		}
		s.mu.Unlock()
		return err
	}

	_, err = t.await(w)
	return err
}

// WriteString is [Stream.Write] with a string payload.
func (s *Stream) WriteString(t *Task, p string) error {
	return s.Write(t, []byte(p))
}

// End finalizes the sink. It never suspends, and is idempotent.
func (s *Stream) End() error {
	if s.sink == nil {
		panic(protocolErrorf("end on a read-only stream"))
	}
	s.mu.Lock()
	if s.sinkDone {
		s.mu.Unlock()
		return nil
	}
	s.sinkDone = true
	s.mu.Unlock()
	return s.sink.End()
}
