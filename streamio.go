package seam

import (
	"bytes"
	"errors"
	"io"
	"sync"
)

// WrapReader wraps an [io.Reader] as a readable [Stream]. A pump
// goroutine reads r and pushes chunks through the stream's buffer,
// honoring pause/resume flow control. The pump stops at io.EOF or on
// the first read error.
func WrapReader(r io.Reader) *Stream {
	return Wrap(&readerSource{r: r})
}

// WrapWriter wraps an [io.Writer] as a write-only [Stream]. The sink is
// never saturated, so writes do not suspend. If w implements
// [io.Closer], ending the stream closes it.
func WrapWriter(w io.Writer) *Stream {
	return WrapSink(&writerSink{w: w})
}

type readerSource struct {
	r io.Reader

	mu     sync.Mutex
	cond   *sync.Cond
	paused bool
}

func (s *readerSource) Subscribe(data func([]byte), end func(), fail func(error)) {
	s.cond = sync.NewCond(&s.mu)
	go s.pump(data, end, fail)
}

func (s *readerSource) pump(data func([]byte), end func(), fail func(error)) {
	buf := make([]byte, 4096)
	for {
		s.mu.Lock()
		for s.paused {
			s.cond.Wait()
		}
		s.mu.Unlock()

		n, err := s.r.Read(buf)
		if n > 0 {
			data(bytes.Clone(buf[:n]))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				end()
			} else {
				fail(err)
			}
			return
		}
	}
}

func (s *readerSource) Pause() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
}

func (s *readerSource) Resume() {
	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()
	s.cond.Signal()
}

type writerSink struct {
	w io.Writer
}

func (s *writerSink) Write(p []byte) (bool, error) {
	_, err := s.w.Write(p)
	return true, err
}

func (s *writerSink) OnDrain(func()) {}

func (s *writerSink) End() error {
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
