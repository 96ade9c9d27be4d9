package particlelife

import (
	_ "embed"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/damyanp/dplife/common"
	"github.com/damyanp/dplife/engine/points"
	"github.com/damyanp/dplife/engine/renderer"
	"github.com/damyanp/dplife/engine/renderer/pipeline"
)

//go:embed particle_life.wgsl
var particleLifeWGSL string

// PipelineKey is the cache key for the simulation compute pipeline.
const PipelineKey = "particle_life"

// pingPong tracks which of two mirrored resource sets is the current source.
// Flipping after every tick makes this tick's destination the next tick's
// source, so generations alternate with period 2.
type pingPong int

func (p pingPong) source() int { return int(p) }
func (p pingPong) dest() int   { return 1 - int(p) }
func (p pingPong) flip() pingPong {
	return pingPong(1 - int(p))
}

// world is the implementation of the World interface.
type world struct {
	constants  ShaderGlobalConstants
	rules      Rules
	ruleParams RuleGenerationParameters

	// resetParticles requests that the next Update upload a fresh random
	// particle set before stepping. Set at construction so the first frame
	// populates the simulation.
	resetParticles bool

	layout stagingLayout

	device *wgpu.Device

	vertexBuffer    *wgpu.Buffer
	particleBuffers [2]*wgpu.Buffer
	constantBuffer  *wgpu.Buffer
	stagingBuffers  [2]*wgpu.Buffer

	// bindGroups[p] reads particleBuffers[p] and writes particleBuffers[1-p].
	bindGroups [2]*wgpu.BindGroup

	computePipeline *wgpu.ComputePipeline

	// parity selects the current source particle buffer, the matching bind
	// group, and which staging buffer this tick writes. Flipped at the end of
	// every Update, so a staging buffer is reused only every other tick, by
	// which time the frame fence guarantees its previous copy has drained.
	parity pingPong

	rng        *rand.Rand
	genWorkers int
	genPool    worker.DynamicWorkerPool
}

// World is a GPU-resident particle life simulation. Each Update records a
// staging upload and one compute dispatch onto the caller's command list; the
// compute pass advances the previous particle generation into the next one
// (ping-pong) and writes render-ready vertices as a side effect.
type World interface {
	// Settings returns the mutable shader constants. Changes take effect on
	// the next Update, which re-uploads the constants every tick.
	//
	// Returns:
	//   - *ShaderGlobalConstants: the live simulation settings
	Settings() *ShaderGlobalConstants

	// Rules returns the current interaction rule table.
	//
	// Returns:
	//   - *Rules: the live rule table
	Rules() *Rules

	// ResetParticles requests that the next Update replace all particles with
	// a fresh random set. Calling it repeatedly before an Update is the same
	// as calling it once.
	ResetParticles()

	// RegenerateRules replaces the interaction rule table with a newly
	// randomized one. The new table is uploaded on the next Update.
	RegenerateRules()

	// Update records this tick's work onto the command list: the staging
	// upload of constants, rules, and (when a reset is pending) fresh
	// particles, followed by the simulation compute pass. Flips the ping-pong
	// parity so the next Update consumes this tick's output.
	//
	// Parameters:
	//   - cl: the frame command list to record onto
	//
	// Returns:
	//   - error: an error if the staging buffer could not be mapped or written
	Update(cl *renderer.CommandList) error

	// VertexBuffer returns the GPU vertex buffer the compute pass writes and
	// the number of vertices in it.
	//
	// Returns:
	//   - *wgpu.Buffer: the vertex buffer
	//   - uint32: the vertex count
	VertexBuffer() (*wgpu.Buffer, uint32)

	// WorkgroupCount returns the number of compute workgroups dispatched per
	// Update.
	//
	// Returns:
	//   - uint32: particle count divided by the workgroup size
	WorkgroupCount() uint32

	// Release frees the world's GPU buffers and bind groups. Callers must
	// ensure all submitted work has completed first.
	Release()
}

var _ World = &world{}

// NewWorld creates a particle life simulation sized to the renderer's surface,
// registers its compute pipeline, and allocates the ping-pong buffer set.
// A particle reset is pending at creation so the first Update populates the
// world.
//
// Parameters:
//   - r: the renderer providing the device and pipeline registry
//   - options: variadic list of WorldBuilderOption functions to configure the world
//
// Returns:
//   - World: the simulation
//   - error: an error if the configuration is invalid or GPU resources could not be created
func NewWorld(r renderer.Renderer, options ...WorldBuilderOption) (World, error) {
	width, height := r.SurfaceSize()

	w := &world{
		constants: ShaderGlobalConstants{
			ParticleKindMax: KindCount,
			NumParticles:    16384,
			WorldSize:       [2]float32{float32(width), float32(height)},
			Friction:        0.9,
			ForceMultiplier: 0.05,
		},
		ruleParams:     DefaultRuleGenerationParameters(),
		resetParticles: true,
		device:         r.Device(),
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
		genWorkers:     max(runtime.NumCPU()-1, 1),
	}

	for _, opt := range options {
		opt(w)
	}

	if err := validateParticleCount(w.constants.NumParticles); err != nil {
		return nil, err
	}

	w.rules = NewRandomRules(w.rng, w.ruleParams)
	w.layout = computeStagingLayout(w.constants.NumParticles)
	w.genPool = worker.NewDynamicWorkerPool(w.genWorkers, 256, 1*time.Second)

	p := pipeline.NewPipeline(PipelineKey, pipeline.PipelineTypeCompute,
		pipeline.WithSource(particleLifeWGSL),
		pipeline.WithBindGroupLayoutDescriptors(computeBindGroupLayout()),
	)
	if err := r.RegisterPipelines(p); err != nil {
		return nil, fmt.Errorf("failed to register particle life pipeline: %w", err)
	}
	w.computePipeline = p.Pipeline().(*wgpu.ComputePipeline)

	if err := w.createBuffers(); err != nil {
		w.Release()
		return nil, err
	}
	if err := w.createBindGroups(p.BindGroupLayout(0)); err != nil {
		w.Release()
		return nil, err
	}

	return w, nil
}

// validateParticleCount enforces that the dispatch covers every particle
// exactly once: the count must be a positive multiple of the workgroup size.
func validateParticleCount(n uint32) error {
	if n == 0 || n%WorkgroupSize != 0 {
		return fmt.Errorf("particle count must be a positive multiple of %d, got %d", WorkgroupSize, n)
	}
	return nil
}

func (w *world) createBuffers() error {
	vertexBufferSize := uint64(w.constants.NumParticles) * points.VertexSize

	var err error
	w.vertexBuffer, err = w.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Particle Vertex Buffer",
		Size:  vertexBufferSize,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageStorage,
	})
	if err != nil {
		return fmt.Errorf("failed to create vertex buffer: %w", err)
	}

	for i := range w.particleBuffers {
		w.particleBuffers[i], err = w.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: fmt.Sprintf("Particles %d", i),
			Size:  w.layout.particlesSize,
			Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("failed to create particle buffer %d: %w", i, err)
		}
	}

	w.constantBuffer, err = w.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Particle Constants",
		Size:  w.layout.constantBufferSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create constants buffer: %w", err)
	}

	for i := range w.stagingBuffers {
		w.stagingBuffers[i], err = w.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: fmt.Sprintf("Particle Staging %d", i),
			Size:  w.layout.totalSize,
			Usage: wgpu.BufferUsageMapWrite | wgpu.BufferUsageCopySrc,
		})
		if err != nil {
			return fmt.Errorf("failed to create staging buffer %d: %w", i, err)
		}
	}

	return nil
}

// createBindGroups builds both ping-pong bind groups up front so Update never
// allocates; parity just selects between them.
func (w *world) createBindGroups(layout *wgpu.BindGroupLayout) error {
	for p := range w.bindGroups {
		bindGroup, err := w.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  fmt.Sprintf("Particle Life Bind Group %d", p),
			Layout: layout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: w.constantBuffer, Offset: w.layout.constantsOffset, Size: w.layout.constantsSize},
				{Binding: 1, Buffer: w.constantBuffer, Offset: w.layout.rulesOffset, Size: w.layout.rulesSize},
				{Binding: 2, Buffer: w.particleBuffers[p], Offset: 0, Size: w.layout.particlesSize},
				{Binding: 3, Buffer: w.particleBuffers[1-p], Offset: 0, Size: w.layout.particlesSize},
				{Binding: 4, Buffer: w.vertexBuffer, Offset: 0, Size: uint64(w.constants.NumParticles) * points.VertexSize},
			},
		})
		if err != nil {
			return fmt.Errorf("failed to create bind group %d: %w", p, err)
		}
		w.bindGroups[p] = bindGroup
	}
	return nil
}

// computeBindGroupLayout declares the compute pipeline's resource interface.
// The constants buffer is bound twice: the uniform block at offset 0 and the
// rule table as read-only storage at its aligned offset.
func computeBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Particle Life Compute",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageCompute,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageCompute,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageCompute,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage},
			},
			{
				Binding:    3,
				Visibility: wgpu.ShaderStageCompute,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeStorage},
			},
			{
				Binding:    4,
				Visibility: wgpu.ShaderStageCompute,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeStorage},
			},
		},
	}
}

func (w *world) Settings() *ShaderGlobalConstants {
	return &w.constants
}

func (w *world) Rules() *Rules {
	return &w.rules
}

func (w *world) ResetParticles() {
	w.resetParticles = true
}

func (w *world) RegenerateRules() {
	w.rules = NewRandomRules(w.rng, w.ruleParams)
}

func (w *world) Update(cl *renderer.CommandList) error {
	staging := w.stagingBuffers[w.parity.source()]

	m, err := renderer.MapForWrite(w.device, staging, w.layout.totalSize)
	if err != nil {
		return err
	}

	// Constants and rules are re-uploaded every tick so settings and rule
	// changes take effect without any extra bookkeeping.
	if _, err := m.WriteAt(common.StructToBytes(&w.constants), int64(w.layout.constantsOffset)); err != nil {
		m.Close()
		return err
	}
	if _, err := m.WriteAt(common.SliceToBytes(w.rules[:]), int64(w.layout.rulesOffset)); err != nil {
		m.Close()
		return err
	}

	encoder := cl.Encoder()
	encoder.CopyBufferToBuffer(staging, w.layout.constantsOffset, w.constantBuffer, w.layout.constantsOffset, w.layout.constantsSize)
	encoder.CopyBufferToBuffer(staging, w.layout.rulesOffset, w.constantBuffer, w.layout.rulesOffset, w.layout.rulesSize)

	if w.resetParticles {
		particles := w.generateParticles()
		if _, err := m.WriteAt(common.SliceToBytes(particles), int64(w.layout.particlesOffset)); err != nil {
			m.Close()
			return err
		}
		// The fresh set replaces the current source generation so this tick's
		// dispatch already simulates it.
		encoder.CopyBufferToBuffer(staging, w.layout.particlesOffset, w.particleBuffers[w.parity.source()], 0, w.layout.particlesSize)
		w.resetParticles = false
	}

	if err := m.Close(); err != nil {
		return err
	}

	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(w.computePipeline)
	pass.SetBindGroup(0, w.bindGroups[w.parity.source()], nil)
	pass.DispatchWorkgroups(w.WorkgroupCount(), 1, 1)
	pass.End()

	w.parity = w.parity.flip()
	return nil
}

// generateParticles fills a fresh particle set in parallel on the worker
// pool. Each chunk gets its own seeded source so workers never contend on the
// world's rng; a WaitGroup provides the barrier since the pool itself has no
// per-batch wait.
func (w *world) generateParticles() []Particle {
	n := int(w.constants.NumParticles)
	particles := make([]Particle, n)

	chunk := (n + w.genWorkers - 1) / w.genWorkers
	var wg sync.WaitGroup
	taskID := 0
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		seed := w.rng.Int63()
		s, e := start, end

		wg.Add(1)
		w.genPool.SubmitTask(worker.Task{
			ID: taskID,
			Do: func() (any, error) {
				defer wg.Done()
				rng := rand.New(rand.NewSource(seed))
				for i := s; i < e; i++ {
					particles[i] = newRandomParticle(rng, w.constants.WorldSize)
				}
				return nil, nil
			},
		})
		taskID++
	}
	wg.Wait()

	return particles
}

func newRandomParticle(rng *rand.Rand, worldSize [2]float32) Particle {
	return Particle{
		Position: common.Vec2{
			X: rng.Float32() * worldSize[0],
			Y: rng.Float32() * worldSize[1],
		},
		Kind: uint32(rng.Intn(KindCount)),
	}
}

func (w *world) VertexBuffer() (*wgpu.Buffer, uint32) {
	return w.vertexBuffer, w.constants.NumParticles
}

func (w *world) WorkgroupCount() uint32 {
	return w.constants.NumParticles / WorkgroupSize
}

func (w *world) Release() {
	for i, bg := range w.bindGroups {
		if bg != nil {
			bg.Release()
			w.bindGroups[i] = nil
		}
	}
	for i, b := range w.stagingBuffers {
		if b != nil {
			b.Release()
			w.stagingBuffers[i] = nil
		}
	}
	if w.constantBuffer != nil {
		w.constantBuffer.Release()
		w.constantBuffer = nil
	}
	for i, b := range w.particleBuffers {
		if b != nil {
			b.Release()
			w.particleBuffers[i] = nil
		}
	}
	if w.vertexBuffer != nil {
		w.vertexBuffer.Release()
		w.vertexBuffer = nil
	}
}
