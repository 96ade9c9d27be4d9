package renderer

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// MappedRegion is a scoped, bounds-checked CPU view of a mapped staging buffer.
// It implements io.WriterAt over the mapped bytes; writes outside the mapped
// range fail instead of corrupting adjacent memory. Close unmaps the buffer,
// after which the region must not be used.
type MappedRegion struct {
	buffer *wgpu.Buffer
	data   []byte
	closed bool
}

// MapForWrite maps size bytes of a MapWrite staging buffer and returns a
// MappedRegion over the mapped range. Blocks until the map is resolved, which
// requires all GPU reads of the buffer to have completed; callers pace that
// with the frame fence so the wait here is immediate in the steady state.
//
// Parameters:
//   - device: the device, polled while waiting for the map to resolve
//   - buffer: the MapWrite buffer to map
//   - size: the number of bytes to map from offset 0
//
// Returns:
//   - *MappedRegion: the mapped region
//   - error: an error if the map failed
func MapForWrite(device *wgpu.Device, buffer *wgpu.Buffer, size uint64) (*MappedRegion, error) {
	var status wgpu.BufferMapAsyncStatus
	done := false
	err := buffer.MapAsync(wgpu.MapModeWrite, 0, size, func(s wgpu.BufferMapAsyncStatus) {
		status = s
		done = true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to map staging buffer: %w", err)
	}
	for !done {
		device.Poll(true, nil)
	}
	if status != wgpu.BufferMapAsyncStatusSuccess {
		return nil, fmt.Errorf("staging buffer map failed with status %v", status)
	}

	data := buffer.GetMappedRange(0, uint(size))
	if data == nil {
		buffer.Unmap()
		return nil, fmt.Errorf("staging buffer mapped range is unavailable")
	}

	return &MappedRegion{buffer: buffer, data: data}, nil
}

// Len returns the size of the mapped range in bytes.
func (m *MappedRegion) Len() int {
	return len(m.data)
}

// WriteAt copies p into the mapped range at off, implementing io.WriterAt.
//
// Parameters:
//   - p: the bytes to write
//   - off: the destination offset within the mapped range
//
// Returns:
//   - int: the number of bytes written
//   - error: an error if the region is closed or the write falls outside the range
func (m *MappedRegion) WriteAt(p []byte, off int64) (int, error) {
	if m.closed {
		return 0, fmt.Errorf("write to closed mapped region")
	}
	if off < 0 || off > int64(len(m.data)) {
		return 0, fmt.Errorf("write offset %d outside mapped range of %d bytes", off, len(m.data))
	}
	if off+int64(len(p)) > int64(len(m.data)) {
		return 0, fmt.Errorf("write of %d bytes at offset %d exceeds mapped range of %d bytes", len(p), off, len(m.data))
	}
	copy(m.data[off:], p)
	return len(p), nil
}

// Close unmaps the buffer, handing the written contents back to the GPU.
// The region must not be used after Close. Safe to call more than once.
func (m *MappedRegion) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	m.data = nil
	if m.buffer != nil {
		m.buffer.Unmap()
	}
	return nil
}
