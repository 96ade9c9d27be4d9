package renderer

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// EncoderFactory creates a fresh command encoder. WebGPU encoders are one-shot,
// so recycled CommandLists are re-armed with a new encoder on each acquire.
type EncoderFactory func() (*wgpu.CommandEncoder, error)

// CommandList is a recyclable handle to a one-shot command encoder. The struct
// itself is reused across frames by the FrameManager; the encoder it carries is
// fresh for each acquire and is consumed when the list is executed.
type CommandList struct {
	encoder *wgpu.CommandEncoder
}

// Encoder returns the command encoder backing this list. Valid from acquire
// until the list is executed.
//
// Returns:
//   - *wgpu.CommandEncoder: the active encoder, nil after execution
func (cl *CommandList) Encoder() *wgpu.CommandEncoder {
	return cl.encoder
}

// frameSlot holds the per-frame state for one pipelined frame in flight.
type frameSlot struct {
	// fenceValue is the fence value signaled when this slot's frame was last
	// submitted. 0 means the slot has never been submitted, so reuse never
	// needs to wait.
	fenceValue uint64

	available []*CommandList
	inUse     []*CommandList
}

// reset recycles the slot's command lists for the next frame that will occupy
// it. Must only be called once the slot's fenceValue has completed. Executed
// encoders were already released at submit time; an encoder that was acquired
// but never executed is released here.
func (s *frameSlot) reset() {
	for _, cl := range s.inUse {
		if cl.encoder != nil {
			cl.encoder.Release()
			cl.encoder = nil
		}
		s.available = append(s.available, cl)
	}
	s.inUse = s.inUse[:0]
}

// FrameManager paces CPU frame production against GPU consumption. It owns a
// fixed ring of frame slots (the pipelining depth); beginning a frame claims
// the next slot round-robin, blocking until the GPU has finished the frame that
// last occupied it. Ending a frame signals the fence with the next value in a
// strictly increasing sequence starting at 1 and records it as the slot's
// watermark. With depth N the CPU can run at most N-1 frames ahead of the GPU.
//
// Frame state transitions are driven by BeginFrame/EndFrame; calling them out
// of order is a programmer error and panics.
type FrameManager struct {
	fence      Fence
	newEncoder EncoderFactory

	frames  []*frameSlot
	active  int
	started bool

	nextFenceValue uint64
}

// NewFrameManager creates a FrameManager with the given pipelining depth.
//
// Parameters:
//   - fence: the completion fence used to pace slot reuse
//   - newEncoder: factory invoked for each acquired command list
//   - depth: the number of frame slots (frames in flight); must be at least 1
//
// Returns:
//   - *FrameManager: the frame manager
//   - error: an error if depth is invalid
func NewFrameManager(fence Fence, newEncoder EncoderFactory, depth int) (*FrameManager, error) {
	if depth < 1 {
		return nil, fmt.Errorf("pipelining depth must be at least 1, got %d", depth)
	}
	frames := make([]*frameSlot, depth)
	for i := range frames {
		frames[i] = &frameSlot{}
	}
	return &FrameManager{
		fence:      fence,
		newEncoder: newEncoder,
		frames:     frames,
		// Start on the last slot so the first BeginFrame advances to slot 0.
		active:         depth - 1,
		nextFenceValue: 1,
	}, nil
}

// BeginFrame claims the next frame slot, blocking until the GPU has completed
// the frame that previously used it, then recycles the slot's command lists.
// Panics if the previous frame was not ended.
func (fm *FrameManager) BeginFrame() {
	if fm.started {
		panic("renderer: BeginFrame called twice without EndFrame")
	}

	fm.active = (fm.active + 1) % len(fm.frames)
	slot := fm.frames[fm.active]

	// A zero watermark means the slot has never been through a frame, so
	// there is nothing to wait on.
	if slot.fenceValue != 0 {
		fm.fence.Wait(slot.fenceValue)
	}
	slot.reset()

	fm.started = true
}

// AcquireCommandList returns a command list for recording work in the current
// frame, recycling a previously used struct when one is free and attaching a
// fresh encoder. Panics if called outside a BeginFrame/EndFrame window.
//
// Returns:
//   - *CommandList: the command list with a fresh encoder attached
//   - error: an error if the encoder could not be created
func (fm *FrameManager) AcquireCommandList() (*CommandList, error) {
	if !fm.started {
		panic("renderer: AcquireCommandList called outside of a frame")
	}

	slot := fm.frames[fm.active]

	var cl *CommandList
	if n := len(slot.available); n > 0 {
		cl = slot.available[n-1]
		slot.available = slot.available[:n-1]
	} else {
		cl = &CommandList{}
	}

	encoder, err := fm.newEncoder()
	if err != nil {
		slot.available = append(slot.available, cl)
		return nil, fmt.Errorf("failed to create command encoder: %w", err)
	}
	cl.encoder = encoder
	slot.inUse = append(slot.inUse, cl)

	return cl, nil
}

// EndFrame signals the fence with the next value and records it as the active
// slot's watermark, making the slot's resources eligible for reuse once the
// GPU reaches the signal. Panics if no frame is in progress.
//
// Returns:
//   - error: an error if the fence signal could not be recorded
func (fm *FrameManager) EndFrame() error {
	if !fm.started {
		panic("renderer: EndFrame called without BeginFrame")
	}
	fm.started = false

	value := fm.nextFenceValue
	if err := fm.fence.Signal(value); err != nil {
		return fmt.Errorf("failed to signal frame fence: %w", err)
	}
	fm.frames[fm.active].fenceValue = value
	fm.nextFenceValue++

	return nil
}

// WaitIdle blocks until every slot's submitted work has completed on the GPU.
// Used during shutdown so device resources can be released safely.
func (fm *FrameManager) WaitIdle() {
	for _, slot := range fm.frames {
		if slot.fenceValue != 0 {
			fm.fence.Wait(slot.fenceValue)
		}
	}
}
