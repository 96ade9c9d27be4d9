package renderer

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/damyanp/dplife/engine/renderer/pipeline"
	"github.com/damyanp/dplife/engine/window"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	fence  Fence
	frames *FrameManager

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pipeliningDepth      int
}

// Renderer defines the interface for the rendering system.
//
// The Renderer owns the GPU device context, the display surface, and the frame
// pipelining machinery that paces CPU frame production against GPU consumption.
// Each frame runs BeginFrame → AcquireCommandList/record → ExecuteCommandLists →
// Present → EndFrame. With pipelining depth N, BeginFrame blocks once the CPU
// gets N-1 frames ahead of the GPU.
type Renderer interface {
	// Device returns the GPU device for resource creation.
	//
	// Returns:
	//   - *wgpu.Device: the device
	Device() *wgpu.Device

	// Queue returns the GPU queue commands are submitted to.
	//
	// Returns:
	//   - *wgpu.Queue: the queue
	Queue() *wgpu.Queue

	// SurfaceFormat returns the texture format of the display surface, needed when
	// creating render pipelines that target it.
	//
	// Returns:
	//   - wgpu.TextureFormat: the surface format
	SurfaceFormat() wgpu.TextureFormat

	// SurfaceSize returns the dimensions the surface was configured with.
	//
	// Returns:
	//   - uint32: the surface width in pixels
	//   - uint32: the surface height in pixels
	SurfaceSize() (uint32, uint32)

	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines registers one or more pipelines by creating the corresponding GPU
	// pipeline objects (render or compute) via the backend, then caching them by PipelineKey.
	// Pipelines whose keys are already registered are skipped to avoid duplicate GPU resource creation.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// BeginFrame claims the next frame slot, blocking until the GPU has finished the
	// frame that last used it, then acquires the surface texture for this frame.
	// Panics if the previous frame was not ended.
	//
	// Returns:
	//   - error: an error if the surface texture could not be acquired
	BeginFrame() error

	// AcquireCommandList returns a command list for recording this frame's work.
	// Panics if called outside a BeginFrame/EndFrame window.
	//
	// Returns:
	//   - *CommandList: the command list with a fresh encoder attached
	//   - error: an error if the encoder could not be created
	AcquireCommandList() (*CommandList, error)

	// BeginRenderPass begins a render pass on the given command list targeting the
	// current frame's surface view, clearing it to the background color.
	//
	// Parameters:
	//   - cl: the command list to record the pass on
	//
	// Returns:
	//   - *wgpu.RenderPassEncoder: the render pass encoder; callers must End it
	//   - error: an error if no frame surface is held
	BeginRenderPass(cl *CommandList) (*wgpu.RenderPassEncoder, error)

	// ExecuteCommandLists finishes the given command lists and submits their command
	// buffers to the GPU queue in order. The lists' encoders are consumed; the list
	// structs themselves are recycled by the frame manager.
	//
	// Parameters:
	//   - commandLists: the command lists to finish and submit
	//
	// Returns:
	//   - error: an error if an encoder could not be finished
	ExecuteCommandLists(commandLists ...*CommandList) error

	// Present presents the frame's surface texture to the display.
	// Must be called once per frame after ExecuteCommandLists.
	Present()

	// EndFrame signals the completion fence for this frame and records the frame
	// slot's watermark. Panics if no frame is in progress.
	//
	// Returns:
	//   - error: an error if the fence signal could not be recorded
	EndFrame() error

	// WaitIdle blocks until every in-flight frame has completed on the GPU.
	// After it returns, resources referenced only by submitted work are safe
	// to release.
	WaitIdle()

	// Shutdown waits for all in-flight frames to complete on the GPU, then releases
	// pipelines, the fence, and the device context. The Renderer must not be used
	// afterwards.
	Shutdown()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance with the specified backend type and window.
// The window provides the platform-specific surface descriptor and initial surface size.
// Panics if the GPU adapter, device, or fence cannot be created; there is no useful way
// to continue without them.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - window: the window to present to
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:              &sync.Mutex{},
		pipelineCache:   make(map[string]pipeline.Pipeline),
		backendType:     backendType,
		pipeliningDepth: 2,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(window.Width(), window.Height())

	// One extra marker slot so the fence can absorb a signal issued while the
	// oldest in-flight frame is still draining.
	fence, err := r.backend.CreateFence(r.pipeliningDepth + 1)
	if err != nil {
		panic(err)
	}
	r.fence = fence

	frames, err := NewFrameManager(fence, r.backend.CreateCommandEncoder, r.pipeliningDepth)
	if err != nil {
		panic(err)
	}
	r.frames = frames

	return r
}

func (r *renderer) Device() *wgpu.Device {
	return r.backend.Device()
}

func (r *renderer) Queue() *wgpu.Queue {
	return r.backend.Queue()
}

func (r *renderer) SurfaceFormat() wgpu.TextureFormat {
	return r.backend.SurfaceFormat()
}

func (r *renderer) SurfaceSize() (uint32, uint32) {
	return r.backend.SurfaceSize()
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		switch p.Type() {
		case pipeline.PipelineTypeCompute:
			if err := r.backend.RegisterComputePipeline(p); err != nil {
				return err
			}
		case pipeline.PipelineTypeRender:
			if err := r.backend.RegisterRenderPipeline(p); err != nil {
				return err
			}
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) BeginFrame() error {
	r.frames.BeginFrame()
	return r.backend.AcquireFrame()
}

func (r *renderer) AcquireCommandList() (*CommandList, error) {
	return r.frames.AcquireCommandList()
}

func (r *renderer) BeginRenderPass(cl *CommandList) (*wgpu.RenderPassEncoder, error) {
	view := r.backend.FrameView()
	if view == nil {
		return nil, fmt.Errorf("no frame surface acquired — call BeginFrame first")
	}

	pass := cl.Encoder().BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    view,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: 0.0, G: 0.0, B: 0.0, A: 1.0,
				},
			},
		},
	})
	return pass, nil
}

func (r *renderer) ExecuteCommandLists(commandLists ...*CommandList) error {
	commandBuffers := make([]*wgpu.CommandBuffer, 0, len(commandLists))
	for _, cl := range commandLists {
		if cl.encoder == nil {
			return fmt.Errorf("command list has no encoder — already executed?")
		}
		commandBuffer, err := cl.encoder.Finish(nil)
		if err != nil {
			return fmt.Errorf("failed to finish command encoder: %w", err)
		}
		commandBuffers = append(commandBuffers, commandBuffer)
	}

	r.backend.Submit(commandBuffers...)

	for i, cl := range commandLists {
		commandBuffers[i].Release()
		cl.encoder.Release()
		cl.encoder = nil
	}
	return nil
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) EndFrame() error {
	return r.frames.EndFrame()
}

func (r *renderer) WaitIdle() {
	r.frames.WaitIdle()
}

func (r *renderer) Shutdown() {
	r.frames.WaitIdle()

	r.mu.Lock()
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	r.mu.Unlock()

	r.fence.Release()
	r.backend.Release()
}
