package points

import (
	_ "embed"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/damyanp/dplife/common"
	"github.com/damyanp/dplife/engine/renderer"
	"github.com/damyanp/dplife/engine/renderer/pipeline"
)

//go:embed points.wgsl
var pointsWGSL string

// PipelineKey is the cache key for the points render pipeline.
const PipelineKey = "points"

// VertexSize is the byte stride of one point vertex: position vec2f followed
// by a packed RGBA color, padded to the WGSL storage stride the compute
// shader writes with.
const VertexSize = 16

// Vertex matches the vertex layout the simulation compute shader writes:
// world-space position and a packed 0xAABBGGRR color.
type Vertex struct {
	Position common.Vec2
	Color    uint32
	_        uint32
}

// pointsRenderer is the implementation of the PointsRenderer interface.
type pointsRenderer struct {
	renderPipeline *wgpu.RenderPipeline

	cameraBuffer    *wgpu.Buffer
	cameraBindGroup *wgpu.BindGroup

	queue *wgpu.Queue
}

// PointsRenderer draws a vertex buffer of colored points with a camera
// transform. The vertex buffer is produced by the particle simulation's
// compute pass; this renderer only consumes it.
type PointsRenderer interface {
	// SetCamera uploads the camera's world-to-clip matrix used by the next
	// Render.
	//
	// Parameters:
	//   - transform: 4×4 column-major matrix (16 elements)
	SetCamera(transform []float32)

	// Render records a draw of count point vertices from the buffer onto the
	// given render pass.
	//
	// Parameters:
	//   - pass: the render pass to record onto
	//   - vertexBuffer: the buffer of Vertex data to draw
	//   - count: the number of vertices
	Render(pass *wgpu.RenderPassEncoder, vertexBuffer *wgpu.Buffer, count uint32)

	// Release frees the renderer's GPU resources.
	Release()
}

var _ PointsRenderer = &pointsRenderer{}

// NewPointsRenderer registers the points render pipeline and allocates the
// camera uniform resources.
//
// Parameters:
//   - r: the renderer providing the device and pipeline registry
//
// Returns:
//   - PointsRenderer: the points renderer
//   - error: an error if the pipeline or GPU resources could not be created
func NewPointsRenderer(r renderer.Renderer) (PointsRenderer, error) {
	p := pipeline.NewPipeline(PipelineKey, pipeline.PipelineTypeRender,
		pipeline.WithSource(pointsWGSL),
		pipeline.WithTopology(wgpu.PrimitiveTopologyPointList),
		pipeline.WithBindGroupLayoutDescriptors(wgpu.BindGroupLayoutDescriptor{
			Label: "Points Camera",
			Entries: []wgpu.BindGroupLayoutEntry{
				{
					Binding:    0,
					Visibility: wgpu.ShaderStageVertex,
					Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
				},
			},
		}),
		pipeline.WithVertexBufferLayouts(wgpu.VertexBufferLayout{
			ArrayStride: VertexSize,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
				{Format: wgpu.VertexFormatUint32, Offset: 8, ShaderLocation: 1},
			},
		}),
	)
	if err := r.RegisterPipelines(p); err != nil {
		return nil, fmt.Errorf("failed to register points pipeline: %w", err)
	}

	pr := &pointsRenderer{
		renderPipeline: p.Pipeline().(*wgpu.RenderPipeline),
		queue:          r.Queue(),
	}

	cameraBuffer, err := r.Device().CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Points Camera Buffer",
		Size:  16 * 4,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create camera buffer: %w", err)
	}
	pr.cameraBuffer = cameraBuffer

	bindGroup, err := r.Device().CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Points Camera Bind Group",
		Layout: p.BindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: cameraBuffer, Offset: 0, Size: 16 * 4},
		},
	})
	if err != nil {
		cameraBuffer.Release()
		return nil, fmt.Errorf("failed to create camera bind group: %w", err)
	}
	pr.cameraBindGroup = bindGroup

	return pr, nil
}

func (pr *pointsRenderer) SetCamera(transform []float32) {
	pr.queue.WriteBuffer(pr.cameraBuffer, 0, common.SliceToBytes(transform[:16]))
}

func (pr *pointsRenderer) Render(pass *wgpu.RenderPassEncoder, vertexBuffer *wgpu.Buffer, count uint32) {
	pass.SetPipeline(pr.renderPipeline)
	pass.SetBindGroup(0, pr.cameraBindGroup, nil)
	pass.SetVertexBuffer(0, vertexBuffer, 0, wgpu.WholeSize)
	pass.Draw(count, 1, 0, 0)
}

func (pr *pointsRenderer) Release() {
	if pr.cameraBindGroup != nil {
		pr.cameraBindGroup.Release()
		pr.cameraBindGroup = nil
	}
	if pr.cameraBuffer != nil {
		pr.cameraBuffer.Release()
		pr.cameraBuffer = nil
	}
}
