package uniform_ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUniformRingDefaults(t *testing.T) {
	for _, n := range []int{0, -4} {
		r := NewUniformRing("cube", n)
		assert.Equal(t, DefaultSlots, r.Len())
	}
	assert.Equal(t, 5, NewUniformRing("cube", 5).Len())
}

func TestNextCyclesModuloSlots(t *testing.T) {
	r := NewUniformRing("cube", 3)
	slots := r.Slots()

	for frame := 0; frame < 10; frame++ {
		i, p := r.Next()
		assert.Equal(t, frame%3, i)
		assert.Same(t, slots[frame%3], p)
		assert.Equal(t, uint64(frame+1), r.FrameIndex())

		ci, cp := r.Current()
		assert.Equal(t, i, ci)
		assert.Same(t, p, cp)
	}
}

func TestConsecutiveFramesNeverShareASlot(t *testing.T) {
	const inFlight = 2
	r := NewUniformRing("lighting", DefaultSlots)

	var history []int
	for range 12 {
		i, _ := r.Next()
		history = append(history, i)
	}
	for f := inFlight; f < len(history); f++ {
		for back := 1; back <= inFlight; back++ {
			assert.NotEqual(t, history[f], history[f-back])
		}
	}
}

func TestWriteTargetsCurrentSlot(t *testing.T) {
	r := NewUniformRing("texturing", 2)
	r.Next()
	_, p := r.Next()

	w := r.Write([]byte{1, 2, 3, 4})
	assert.Same(t, p, w.Provider)
	assert.Equal(t, 0, w.Binding)
	assert.Zero(t, w.Offset)
	assert.Equal(t, []byte{1, 2, 3, 4}, w.Data)
}

func TestSlotLabels(t *testing.T) {
	r := NewUniformRing("cube", 2)
	require.Len(t, r.Slots(), 2)
	assert.Equal(t, "cube Uniforms 0", r.Slots()[0].Label())
	assert.Equal(t, "cube Uniforms 1", r.Slots()[1].Label())
	assert.Zero(t, r.FrameIndex())
}
