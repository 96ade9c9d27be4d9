package renderer

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFence records signal and wait traffic. Wait simulates the GPU catching
// up: when asked to wait for a value beyond the completed watermark it notes
// the block, then completes the value so the caller can proceed.
type fakeFence struct {
	completed uint64
	signaled  []uint64
	waits     []uint64
	blockedAt []uint64

	// instant makes Signal complete immediately, modeling a GPU that is
	// never behind the CPU.
	instant bool
}

func (f *fakeFence) Signal(value uint64) error {
	f.signaled = append(f.signaled, value)
	if f.instant {
		f.completed = value
	}
	return nil
}

func (f *fakeFence) CompletedValue() uint64 {
	return f.completed
}

func (f *fakeFence) Wait(value uint64) {
	f.waits = append(f.waits, value)
	if f.completed < value {
		f.blockedAt = append(f.blockedAt, value)
		f.completed = value
	}
}

func (f *fakeFence) Release() {}

func nilEncoderFactory() (*wgpu.CommandEncoder, error) {
	return nil, nil
}

func newTestFrameManager(t *testing.T, fence Fence, depth int) *FrameManager {
	t.Helper()
	fm, err := NewFrameManager(fence, nilEncoderFactory, depth)
	require.NoError(t, err)
	return fm
}

func TestNewFrameManagerRejectsInvalidDepth(t *testing.T) {
	_, err := NewFrameManager(&fakeFence{}, nilEncoderFactory, 0)
	assert.Error(t, err)

	_, err = NewFrameManager(&fakeFence{}, nilEncoderFactory, -1)
	assert.Error(t, err)
}

func TestFenceValuesStrictlyIncreaseFromOne(t *testing.T) {
	fence := &fakeFence{instant: true}
	fm := newTestFrameManager(t, fence, 2)

	for i := 0; i < 5; i++ {
		fm.BeginFrame()
		require.NoError(t, fm.EndFrame())
	}

	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, fence.signaled)
}

func TestWatermarkSequenceDepthTwo(t *testing.T) {
	fence := &fakeFence{instant: true}
	fm := newTestFrameManager(t, fence, 2)

	// Frame 1 lands in slot 0.
	fm.BeginFrame()
	assert.Equal(t, 0, fm.active)
	require.NoError(t, fm.EndFrame())
	assert.Equal(t, uint64(1), fm.frames[0].fenceValue)

	// Frame 2 lands in slot 1.
	fm.BeginFrame()
	assert.Equal(t, 1, fm.active)
	require.NoError(t, fm.EndFrame())
	assert.Equal(t, uint64(2), fm.frames[1].fenceValue)

	// Frame 3 wraps back to slot 0 and overwrites its watermark.
	fm.BeginFrame()
	assert.Equal(t, 0, fm.active)
	require.NoError(t, fm.EndFrame())
	assert.Equal(t, uint64(3), fm.frames[0].fenceValue)
	assert.Equal(t, uint64(2), fm.frames[1].fenceValue)

	// The GPU kept pace the whole time, so nothing ever blocked.
	assert.Empty(t, fence.blockedAt)
}

func TestNeverSubmittedSlotNeedsNoWait(t *testing.T) {
	fence := &fakeFence{}
	fm := newTestFrameManager(t, fence, 3)

	// First pass over all three slots: every watermark is zero, no waits.
	for i := 0; i < 3; i++ {
		fm.BeginFrame()
		require.NoError(t, fm.EndFrame())
	}
	assert.Empty(t, fence.waits)
}

func TestBeginFrameBlocksUntilSlotCompletes(t *testing.T) {
	fence := &fakeFence{}
	fm := newTestFrameManager(t, fence, 2)

	fm.BeginFrame()
	require.NoError(t, fm.EndFrame())
	fm.BeginFrame()
	require.NoError(t, fm.EndFrame())

	// The GPU has completed nothing, so claiming slot 0 again must wait for
	// its watermark (fence value 1).
	fm.BeginFrame()
	assert.Equal(t, []uint64{1}, fence.waits)
	assert.Equal(t, []uint64{1}, fence.blockedAt)
}

func TestPipeliningBoundFramesAhead(t *testing.T) {
	// With depth N the CPU only blocks once it tries to get N frames ahead:
	// the first N begins never wait, the N+1th waits on frame 1.
	for _, depth := range []int{1, 2, 3} {
		fence := &fakeFence{}
		fm := newTestFrameManager(t, fence, depth)

		for i := 0; i < depth; i++ {
			fm.BeginFrame()
			require.NoError(t, fm.EndFrame())
		}
		assert.Empty(t, fence.waits, "depth %d", depth)

		fm.BeginFrame()
		assert.Equal(t, []uint64{1}, fence.waits, "depth %d", depth)
	}
}

func TestDoubleBeginFramePanics(t *testing.T) {
	fm := newTestFrameManager(t, &fakeFence{instant: true}, 2)
	fm.BeginFrame()
	assert.Panics(t, func() { fm.BeginFrame() })
}

func TestEndFrameWithoutBeginPanics(t *testing.T) {
	fm := newTestFrameManager(t, &fakeFence{instant: true}, 2)
	assert.Panics(t, func() { fm.EndFrame() })

	fm.BeginFrame()
	require.NoError(t, fm.EndFrame())
	assert.Panics(t, func() { fm.EndFrame() })
}

func TestAcquireCommandListOutsideFramePanics(t *testing.T) {
	fm := newTestFrameManager(t, &fakeFence{instant: true}, 2)
	assert.Panics(t, func() { fm.AcquireCommandList() })

	fm.BeginFrame()
	_, err := fm.AcquireCommandList()
	require.NoError(t, err)
	require.NoError(t, fm.EndFrame())

	assert.Panics(t, func() { fm.AcquireCommandList() })
}

func TestCommandListStructsAreRecycledPerSlot(t *testing.T) {
	fence := &fakeFence{instant: true}
	fm := newTestFrameManager(t, fence, 2)

	fm.BeginFrame()
	first, err := fm.AcquireCommandList()
	require.NoError(t, err)
	require.NoError(t, fm.EndFrame())

	// Slot 1's frame allocates its own list.
	fm.BeginFrame()
	other, err := fm.AcquireCommandList()
	require.NoError(t, err)
	assert.NotSame(t, first, other)
	require.NoError(t, fm.EndFrame())

	// Wrapping back to slot 0 recycles the struct acquired there.
	fm.BeginFrame()
	recycled, err := fm.AcquireCommandList()
	require.NoError(t, err)
	assert.Same(t, first, recycled)
}

func TestWaitIdleWaitsOnEverySubmittedSlot(t *testing.T) {
	fence := &fakeFence{}
	fm := newTestFrameManager(t, fence, 3)

	fm.BeginFrame()
	require.NoError(t, fm.EndFrame())
	fm.BeginFrame()
	require.NoError(t, fm.EndFrame())

	fm.WaitIdle()

	// Slot 2 was never submitted; only the two real watermarks are waited on.
	assert.Equal(t, []uint64{1, 2}, fence.waits)
}
