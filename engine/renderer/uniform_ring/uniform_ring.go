package uniform_ring

import (
	"strconv"
	"sync"

	"github.com/Carmen-Shannon/oxy-lessons/engine/renderer/bind_group_provider"
)

// DefaultSlots is the number of uniform slots used when none is requested. It is one more
// than wgpu's default maximum frame latency, so the CPU never writes a slot the GPU may
// still be reading.
const DefaultSlots = 3

type uniformRingImpl struct {
	mu *sync.Mutex

	slots      []bind_group_provider.BindGroupProvider
	frameIndex uint64
	started    bool
}

// UniformRing is a fixed ring of per-frame uniform providers. Each frame writes its uniform
// record into the slot selected by frameIndex mod N.
type UniformRing interface {
	// Next advances to the next frame and returns its slot.
	//
	// Returns:
	//   - int: the slot index, frameIndex mod N
	//   - bind_group_provider.BindGroupProvider: the slot's provider
	Next() (int, bind_group_provider.BindGroupProvider)

	// Current returns the slot selected by the last call to Next, or slot 0 before the first call.
	//
	// Returns:
	//   - int: the slot index
	//   - bind_group_provider.BindGroupProvider: the slot's provider
	Current() (int, bind_group_provider.BindGroupProvider)

	// Write builds a write of data into binding 0 of the current slot.
	//
	// Parameters:
	//   - data: the serialized uniform record
	//
	// Returns:
	//   - bind_group_provider.BufferWrite: the write to queue on the renderer
	Write(data []byte) bind_group_provider.BufferWrite

	// FrameIndex returns the number of frames that have called Next.
	//
	// Returns:
	//   - uint64: the frame counter
	FrameIndex() uint64

	// Len returns the number of slots.
	//
	// Returns:
	//   - int: N
	Len() int

	// Slots returns every slot provider so their bind groups can be initialized.
	//
	// Returns:
	//   - []bind_group_provider.BindGroupProvider: the slot providers in ring order
	Slots() []bind_group_provider.BindGroupProvider

	// Release releases the GPU resources of every slot.
	Release()
}

var _ UniformRing = &uniformRingImpl{}

// NewUniformRing creates a ring of uniform slot providers labelled "<label> Uniforms <i>".
// A non-positive slot count selects DefaultSlots.
//
// Parameters:
//   - label: prefix for the slot provider labels
//   - slots: the number of slots
//
// Returns:
//   - UniformRing: the ring
func NewUniformRing(label string, slots int) UniformRing {
	if slots <= 0 {
		slots = DefaultSlots
	}
	r := &uniformRingImpl{
		mu:    &sync.Mutex{},
		slots: make([]bind_group_provider.BindGroupProvider, slots),
	}
	for i := range r.slots {
		r.slots[i] = bind_group_provider.NewBindGroupProvider(label + " Uniforms " + strconv.Itoa(i))
	}
	return r
}

func (r *uniformRingImpl) Next() (int, bind_group_provider.BindGroupProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		r.frameIndex++
	}
	r.started = true
	i := r.slot()
	return i, r.slots[i]
}

func (r *uniformRingImpl) Current() (int, bind_group_provider.BindGroupProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.slot()
	return i, r.slots[i]
}

func (r *uniformRingImpl) Write(data []byte) bind_group_provider.BufferWrite {
	_, p := r.Current()
	return bind_group_provider.BufferWrite{
		Provider: p,
		Binding:  0,
		Offset:   0,
		Data:     data,
	}
}

func (r *uniformRingImpl) FrameIndex() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return 0
	}
	return r.frameIndex + 1
}

func (r *uniformRingImpl) Len() int {
	return len(r.slots)
}

func (r *uniformRingImpl) Slots() []bind_group_provider.BindGroupProvider {
	return r.slots
}

func (r *uniformRingImpl) Release() {
	for _, s := range r.slots {
		s.Release()
	}
}

func (r *uniformRingImpl) slot() int {
	return int(r.frameIndex % uint64(len(r.slots)))
}
