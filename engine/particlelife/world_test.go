package particlelife

import (
	"math/rand"
	"testing"
	"time"
	"unsafe"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, workers int) worker.DynamicWorkerPool {
	t.Helper()
	return worker.NewDynamicWorkerPool(workers, 256, 1*time.Second)
}

func TestGPUTypeSizes(t *testing.T) {
	// These must match the strides WGSL derives for the shader structs.
	assert.Equal(t, uintptr(24), unsafe.Sizeof(ShaderGlobalConstants{}))
	assert.Equal(t, uintptr(24), unsafe.Sizeof(Particle{}))
	assert.Equal(t, uintptr(12), unsafe.Sizeof(Rule{}))
}

func TestStagingLayoutOffsets(t *testing.T) {
	l := computeStagingLayout(64)

	assert.Equal(t, uint64(0), l.constantsOffset)
	assert.Equal(t, uint64(24), l.constantsSize)

	// The rule table and particle regions start on binding alignment
	// boundaries so they can be bound and copied at their offsets.
	assert.Equal(t, uint64(256), l.rulesOffset)
	assert.Equal(t, uint64(8*8*12), l.rulesSize)
	assert.Equal(t, uint64(1024), l.particlesOffset)

	assert.Equal(t, uint64(64*24), l.particlesSize)
	assert.Equal(t, l.particlesOffset+l.particlesSize, l.totalSize)
	assert.Equal(t, l.particlesOffset, l.constantBufferSize)

	// WebGPU buffer copies require 4-byte aligned sizes.
	assert.Zero(t, l.constantsSize%4)
	assert.Zero(t, l.rulesSize%4)
	assert.Zero(t, l.particlesSize%4)
}

func TestValidateParticleCount(t *testing.T) {
	assert.NoError(t, validateParticleCount(32))
	assert.NoError(t, validateParticleCount(64))
	assert.NoError(t, validateParticleCount(16384))

	assert.Error(t, validateParticleCount(0))
	assert.Error(t, validateParticleCount(65))
	assert.Error(t, validateParticleCount(31))
}

func TestWorkgroupCountCoversEveryParticleOnce(t *testing.T) {
	w := &world{}
	w.constants.NumParticles = 64
	assert.Equal(t, uint32(2), w.WorkgroupCount())

	w.constants.NumParticles = 16384
	assert.Equal(t, uint32(512), w.WorkgroupCount())
}

func TestPingPongAlternatesWithPeriodTwo(t *testing.T) {
	var p pingPong

	assert.Equal(t, 0, p.source())
	assert.Equal(t, 1, p.dest())

	p = p.flip()
	assert.Equal(t, 1, p.source())
	assert.Equal(t, 0, p.dest())

	// Two flips return to the original parity.
	assert.Equal(t, pingPong(0), p.flip())

	for i := 0; i < 8; i++ {
		assert.NotEqual(t, p.source(), p.dest())
		p = p.flip()
	}
}

func TestResetRequestIsIdempotent(t *testing.T) {
	w := &world{}
	assert.False(t, w.resetParticles)

	w.ResetParticles()
	w.ResetParticles()
	w.ResetParticles()
	assert.True(t, w.resetParticles)
}

func TestRandomParticlesStartInsideWorld(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	worldSize := [2]float32{1024, 768}

	for i := 0; i < 1000; i++ {
		p := newRandomParticle(rng, worldSize)
		assert.GreaterOrEqual(t, p.Position.X, float32(0))
		assert.Less(t, p.Position.X, worldSize[0])
		assert.GreaterOrEqual(t, p.Position.Y, float32(0))
		assert.Less(t, p.Position.Y, worldSize[1])
		assert.Equal(t, float32(0), p.Velocity.X)
		assert.Equal(t, float32(0), p.Velocity.Y)
		assert.Less(t, p.Kind, uint32(KindCount))
	}
}

func TestParallelGenerationFillsEverySlot(t *testing.T) {
	w := &world{
		rng:        rand.New(rand.NewSource(7)),
		genWorkers: 4,
	}
	w.constants.NumParticles = 4096
	w.constants.WorldSize = [2]float32{1024, 768}
	w.genPool = newTestPool(t, w.genWorkers)

	particles := w.generateParticles()
	require.Len(t, particles, 4096)

	// Zero-value particles would sit at the origin with kind 0; with 4096
	// samples over an 8-kind uniform draw, every kind must appear.
	kinds := make(map[uint32]int)
	for _, p := range particles {
		kinds[p.Kind]++
	}
	assert.Len(t, kinds, KindCount)
}
