package seam_test

import (
	"fmt"
	"testing"

	"github.com/seam-go/seam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextSurvivesInterleaving(t *testing.T) {
	var h1, h2 seam.Handshake
	var rec recorder

	spinWorker := func(name string, h *seam.Handshake) *seam.Future[int] {
		return seam.Spin(func(tk *seam.Task) (int, error) {
			tk.SetContext(name)
			for range 3 {
				if _, err := h.Wait(tk); err != nil {
					return 0, err
				}
				// Both the threaded and the ambient accessor must
				// observe this task's own value.
				rec.mark(fmt.Sprintf("%s sees %v/%v", name, tk.Context(), seam.Context()))
			}
			return 0, nil
		})
	}

	f1 := spinWorker("c1", &h1)
	f2 := spinWorker("c2", &h2)

	// Interleave the two tasks in an arbitrary order.
	for _, h := range []*seam.Handshake{&h1, &h2, &h2, &h1, &h1, &h2} {
		h.Notify(nil)
	}

	_, err := runTask(t, func(tk *seam.Task) (int, error) {
		if _, err := f1.Await(tk); err != nil {
			return 0, err
		}
		return f2.Await(tk)
	})
	require.NoError(t, err)

	for _, m := range rec.all() {
		switch m {
		case "c1 sees c1/c1", "c2 sees c2/c2":
		default:
			t.Fatalf("context leaked between tasks: %q", m)
		}
	}
	assert.Len(t, rec.all(), 6)
}

func TestContextInheritedAtCreation(t *testing.T) {
	seam.SetContext("parent value")
	defer seam.SetContext(nil)

	v, err := runTask(t, func(tk *seam.Task) (any, error) {
		return tk.Context(), nil
	})

	require.NoError(t, err)
	assert.Equal(t, "parent value", v)
}

func TestContextUpdatePersistsAcrossSuspension(t *testing.T) {
	var h seam.Handshake

	f := seam.Spin(func(tk *seam.Task) (any, error) {
		tk.SetContext("updated")
		if _, err := h.Wait(tk); err != nil {
			return nil, err
		}
		return tk.Context(), nil
	})

	h.Notify(nil)

	v, err := runTask(t, func(tk *seam.Task) (any, error) {
		return f.Await(tk)
	})

	require.NoError(t, err)
	assert.Equal(t, "updated", v)
}

func TestAmbientContextOutsideTasksIsUnguarded(t *testing.T) {
	// A raw callback outside any driver's resume path observes
	// whatever the slot currently holds. This pins the documented
	// sharp edge, not a guarantee worth relying on.
	_, err := runTask(t, func(tk *seam.Task) (int, error) {
		tk.SetContext("leftover")
		return 0, nil
	})
	require.NoError(t, err)

	assert.Equal(t, "leftover", seam.Context())
	seam.SetContext(nil)
}
