package renderer

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// Fence tracks completion of submitted GPU work against a monotonically increasing
// counter. Signal(v) arranges for the completed value to reach v once all work
// submitted to the queue before the signal has finished executing on the GPU.
// A value of 0 is never signaled; it is reserved to mean "never submitted".
type Fence interface {
	// Signal arranges for CompletedValue to reach value once all queue work submitted
	// before this call has completed on the GPU.
	//
	// Parameters:
	//   - value: the fence value to signal; must be greater than any previously signaled value
	//
	// Returns:
	//   - error: an error if the signal could not be recorded
	Signal(value uint64) error

	// CompletedValue returns the highest fence value the GPU has completed so far.
	// The returned value never decreases.
	//
	// Returns:
	//   - uint64: the most recently completed fence value, 0 if none
	CompletedValue() uint64

	// Wait blocks until CompletedValue reaches at least value. Returns immediately
	// if the value has already completed.
	//
	// Parameters:
	//   - value: the fence value to wait for
	Wait(value uint64)

	// Release frees the fence's GPU resources. The fence must not be used afterwards.
	Release()
}

// queueFence implements Fence on a WebGPU queue. WebGPU has no native timeline
// fence, so each Signal submits a tiny marker copy and issues a MapAsync on the
// destination; the map callback fires only after every previously submitted
// command buffer has completed, which gives the same ordering guarantee as a
// D3D12/Vulkan queue signal. Wait pumps device polling until the callback for
// the target value has run.
type queueFence struct {
	device *wgpu.Device
	queue  *wgpu.Queue

	mu        sync.Mutex
	completed uint64

	// markers is a small ring of CopyDst|MapRead buffers, one in flight per
	// pending signal. pending[i] holds the fence value the marker is currently
	// tracking, 0 when idle.
	markers []*wgpu.Buffer
	pending []uint64
	next    int

	// src is the 4-byte copy source reused by every signal.
	src *wgpu.Buffer
}

var _ Fence = &queueFence{}

// newQueueFence creates a queue-backed fence with ringSize marker buffers.
// ringSize bounds how many signals may be in flight at once; callers that pace
// submissions with Wait (like the frame manager) need pipelining depth + 1.
func newQueueFence(device *wgpu.Device, queue *wgpu.Queue, ringSize int) (*queueFence, error) {
	if ringSize < 1 {
		return nil, fmt.Errorf("fence ring size must be at least 1, got %d", ringSize)
	}

	f := &queueFence{
		device:  device,
		queue:   queue,
		markers: make([]*wgpu.Buffer, ringSize),
		pending: make([]uint64, ringSize),
	}

	src, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Fence Marker Source",
		Size:  4,
		Usage: wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fence source buffer: %w", err)
	}
	f.src = src

	for i := range f.markers {
		marker, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: fmt.Sprintf("Fence Marker %d", i),
			Size:  4,
			Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
		})
		if err != nil {
			f.Release()
			return nil, fmt.Errorf("failed to create fence marker buffer %d: %w", i, err)
		}
		f.markers[i] = marker
	}

	return f, nil
}

func (f *queueFence) Signal(value uint64) error {
	f.mu.Lock()
	marker := f.markers[f.next]
	inFlight := f.pending[f.next]
	slot := f.next
	f.next = (f.next + 1) % len(f.markers)
	f.mu.Unlock()

	// The ring is sized for the caller's pacing, but if a marker is somehow
	// still tracking an older signal, drain it before reuse.
	if inFlight != 0 {
		f.Wait(inFlight)
	}

	encoder, err := f.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("failed to create fence signal encoder: %w", err)
	}
	encoder.CopyBufferToBuffer(f.src, 0, marker, 0, 4)
	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		encoder.Release()
		return fmt.Errorf("failed to finish fence signal encoder: %w", err)
	}
	f.queue.Submit(commandBuffer)
	commandBuffer.Release()
	encoder.Release()

	f.mu.Lock()
	f.pending[slot] = value
	f.mu.Unlock()

	err = marker.MapAsync(wgpu.MapModeRead, 0, 4, func(status wgpu.BufferMapAsyncStatus) {
		if status == wgpu.BufferMapAsyncStatusSuccess {
			marker.Unmap()
		}
		f.mu.Lock()
		if value > f.completed {
			f.completed = value
		}
		f.pending[slot] = 0
		f.mu.Unlock()
	})
	if err != nil {
		return fmt.Errorf("failed to issue fence map for value %d: %w", value, err)
	}
	return nil
}

func (f *queueFence) CompletedValue() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completed
}

func (f *queueFence) Wait(value uint64) {
	for f.CompletedValue() < value {
		// Blocking poll drives queue completion and runs pending map callbacks.
		f.device.Poll(true, nil)
	}
}

func (f *queueFence) Release() {
	for i, marker := range f.markers {
		if marker != nil {
			marker.Release()
			f.markers[i] = nil
		}
	}
	if f.src != nil {
		f.src.Release()
		f.src = nil
	}
}
