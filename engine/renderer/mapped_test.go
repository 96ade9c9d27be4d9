package renderer

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ io.WriterAt = &MappedRegion{}

func TestMappedRegionWriteAt(t *testing.T) {
	m := &MappedRegion{data: make([]byte, 16)}

	n, err := m.WriteAt([]byte{1, 2, 3, 4}, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{0, 0, 0, 0, 1, 2, 3, 4}, m.data[:8])

	// Writing up to the very end of the range is allowed.
	_, err = m.WriteAt([]byte{9, 9}, 14)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 9}, m.data[14:])
}

func TestMappedRegionRejectsOutOfRangeWrites(t *testing.T) {
	m := &MappedRegion{data: make([]byte, 16)}

	_, err := m.WriteAt([]byte{1}, -1)
	assert.Error(t, err)

	_, err = m.WriteAt([]byte{1}, 16)
	assert.Error(t, err)

	_, err = m.WriteAt([]byte{1, 2, 3}, 14)
	assert.Error(t, err)

	// A failed write leaves the region untouched.
	assert.Equal(t, make([]byte, 16), m.data)
}

func TestMappedRegionClose(t *testing.T) {
	m := &MappedRegion{data: make([]byte, 8)}
	assert.Equal(t, 8, m.Len())

	require.NoError(t, m.Close())

	_, err := m.WriteAt([]byte{1}, 0)
	assert.Error(t, err)

	// Close is idempotent.
	require.NoError(t, m.Close())
}
