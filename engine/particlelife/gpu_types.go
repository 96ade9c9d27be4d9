package particlelife

import (
	"unsafe"

	"github.com/damyanp/dplife/common"
)

const (
	// KindCount is the number of particle kinds. Each kind gets a hue on the
	// color wheel and a row/column in the interaction rule table.
	KindCount = 8

	// WorkgroupSize is the compute shader workgroup size. The particle count
	// must be a positive multiple of this so the dispatch covers every
	// particle exactly once.
	WorkgroupSize = 32

	// bindingAlignment is WebGPU's minimum offset alignment for buffer
	// bindings. Regions of the constants and staging buffers that are bound
	// at an offset start on this boundary.
	bindingAlignment = 256
)

// ShaderGlobalConstants is the uniform block read by the simulation compute
// shader. Field order and sizes match the WGSL Constants struct exactly.
type ShaderGlobalConstants struct {
	ParticleKindMax uint32
	NumParticles    uint32
	WorldSize       [2]float32
	Friction        float32
	ForceMultiplier float32
}

// Particle matches the WGSL Particle storage layout: two vec2f and a u32,
// padded to the 24-byte array stride WGSL derives for the struct.
type Particle struct {
	Position common.Vec2
	Velocity common.Vec2
	Kind     uint32
	_        uint32
}

// stagingLayout describes where each region lives inside a staging buffer and
// the matching GPU-side constants buffer. Constants sit at offset 0; the rule
// table and the particle region each start on a binding alignment boundary so
// they can be copied to (and bound at) offsets directly.
type stagingLayout struct {
	constantsOffset uint64
	constantsSize   uint64

	rulesOffset uint64
	rulesSize   uint64

	particlesOffset uint64
	particlesSize   uint64

	// totalSize is the full staging buffer size.
	totalSize uint64

	// constantBufferSize is the size of the GPU constants buffer, which holds
	// the constants region followed by the rule table region.
	constantBufferSize uint64
}

func computeStagingLayout(numParticles uint32) stagingLayout {
	l := stagingLayout{
		constantsOffset: 0,
		constantsSize:   uint64(unsafe.Sizeof(ShaderGlobalConstants{})),
		rulesOffset:     bindingAlignment,
		rulesSize:       uint64(unsafe.Sizeof(Rule{})) * KindCount * KindCount,
	}
	l.particlesOffset = alignTo(l.rulesOffset+l.rulesSize, bindingAlignment)
	l.particlesSize = uint64(numParticles) * uint64(unsafe.Sizeof(Particle{}))
	l.totalSize = l.particlesOffset + l.particlesSize
	l.constantBufferSize = l.particlesOffset
	return l
}

func alignTo(v, alignment uint64) uint64 {
	return (v + alignment - 1) / alignment * alignment
}
