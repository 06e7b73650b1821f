package seam_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/seam-go/seam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSleepElapses(t *testing.T) {
	start := time.Now()
	_, err := runTask(t, func(tk *seam.Task) (int, error) {
		return 0, seam.Sleep(tk, 20*time.Millisecond)
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestFunnelBoundsAdmission(t *testing.T) {
	f := seam.NewFunnel(2)

	var (
		mu       sync.Mutex
		inside   int
		peak     int
		admitted []int
	)

	futures := make([]*seam.Future[int], 4)
	for i := range futures {
		futures[i] = seam.Spin(func(tk *seam.Task) (int, error) {
			if err := f.Enter(tk); err != nil {
				return 0, err
			}
			mu.Lock()
			inside++
			if inside > peak {
				peak = inside
			}
			admitted = append(admitted, i)
			mu.Unlock()

			if err := seam.Sleep(tk, 5*time.Millisecond); err != nil {
				return 0, err
			}

			mu.Lock()
			inside--
			mu.Unlock()
			f.Leave()
			return i, nil
		})
	}

	_, err := runTask(t, func(tk *seam.Task) ([]int, error) {
		return seam.AwaitAll(tk, futures...)
	})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, peak, 2)
	assert.Equal(t, []int{0, 1, 2, 3}, admitted) // FIFO admission
}

func TestFunnelRejectsBadSize(t *testing.T) {
	assert.PanicsWithError(t, "seam: funnel size 0, must be positive", func() {
		seam.NewFunnel(0)
	})
}

func TestFunnelRejectsExtraLeave(t *testing.T) {
	f := seam.NewFunnel(1)
	assert.PanicsWithError(t, "seam: funnel left more times than entered", func() {
		f.Leave()
	})
}

func TestHandshakeDeliversValue(t *testing.T) {
	var h seam.Handshake

	fut := seam.Spin(func(tk *seam.Task) (string, error) {
		v, err := h.Wait(tk)
		if err != nil {
			return "", err
		}
		return fmt.Sprint("got ", v), nil
	})

	h.Notify(7)

	v, err := runTask(t, func(tk *seam.Task) (string, error) {
		return fut.Await(tk)
	})
	require.NoError(t, err)
	assert.Equal(t, "got 7", v)
}

func TestHandshakeDropsUnheardNotify(t *testing.T) {
	var h seam.Handshake
	h.Notify("nobody listening")

	fut := seam.Spin(func(tk *seam.Task) (any, error) {
		return h.Wait(tk)
	})
	h.Notify("heard")

	v, err := runTask(t, func(tk *seam.Task) (any, error) {
		return fut.Await(tk)
	})
	require.NoError(t, err)
	assert.Equal(t, "heard", v)
}

func TestHandshakeRejectsConcurrentWaits(t *testing.T) {
	var h seam.Handshake

	first := seam.Spin(func(tk *seam.Task) (any, error) {
		return h.Wait(tk)
	})
	second := seam.Spin(func(tk *seam.Task) (any, error) {
		return h.Wait(tk) // contained as a panic failure
	})

	_, err := runTask(t, func(tk *seam.Task) (any, error) {
		return second.Await(tk)
	})
	var pe *seam.PanicError
	require.ErrorAs(t, err, &pe)
	var proto *seam.ProtocolError
	assert.ErrorAs(t, err, &proto)

	h.Notify(nil)
	_, err = runTask(t, func(tk *seam.Task) (any, error) {
		return first.Await(tk)
	})
	assert.NoError(t, err)
}
