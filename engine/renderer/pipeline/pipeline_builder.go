package pipeline

import "github.com/cogentcore/webgpu/wgpu"

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithSource sets the WGSL module source for this pipeline.
//
// Parameters:
//   - source: the WGSL source code containing all of the pipeline's entry points
//
// Returns:
//   - PipelineBuilderOption: a function that sets the source for this pipeline
func WithSource(source string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.source = source
	}
}

// WithVertexEntryPoint sets the vertex shader entry point name. Defaults to "vs_main".
//
// Parameters:
//   - name: the vertex entry point function name in the WGSL source
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex entry point for this pipeline
func WithVertexEntryPoint(name string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexEntryPoint = name
	}
}

// WithFragmentEntryPoint sets the fragment shader entry point name. Defaults to "fs_main".
//
// Parameters:
//   - name: the fragment entry point function name in the WGSL source
//
// Returns:
//   - PipelineBuilderOption: a function that sets the fragment entry point for this pipeline
func WithFragmentEntryPoint(name string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.fragmentEntryPoint = name
	}
}

// WithComputeEntryPoint sets the compute shader entry point name. Defaults to "cs_main".
//
// Parameters:
//   - name: the compute entry point function name in the WGSL source
//
// Returns:
//   - PipelineBuilderOption: a function that sets the compute entry point for this pipeline
func WithComputeEntryPoint(name string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.computeEntryPoint = name
	}
}

// WithBindGroupLayoutDescriptors sets the explicit bind group layout descriptors for this
// pipeline, in group order.
//
// Parameters:
//   - descriptors: the layout descriptors, one per bind group starting at group 0
//
// Returns:
//   - PipelineBuilderOption: a function that sets the layout descriptors for this pipeline
func WithBindGroupLayoutDescriptors(descriptors ...wgpu.BindGroupLayoutDescriptor) PipelineBuilderOption {
	return func(p *pipeline) {
		p.bindGroupLayoutDescriptors = descriptors
	}
}

// WithVertexBufferLayouts sets the vertex buffer layouts for this pipeline.
//
// Parameters:
//   - layouts: the vertex buffer layouts in slot order
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex buffer layouts for this pipeline
func WithVertexBufferLayouts(layouts ...wgpu.VertexBufferLayout) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexBufferLayouts = layouts
	}
}

// WithTopology sets the primitive topology for this pipeline.
//
// Parameters:
//   - topology: the primitive topology to use for this pipeline (e.g., wgpu.PrimitiveTopologyPointList, wgpu.PrimitiveTopologyLineList, wgpu.PrimitiveTopologyTriangleList)
//
// Returns:
//   - PipelineBuilderOption: a function that sets the primitive topology for this pipeline
func WithTopology(topology wgpu.PrimitiveTopology) PipelineBuilderOption {
	return func(p *pipeline) {
		p.topology = topology
	}
}

// WithBlendEnabled sets whether blending is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether blending should be enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend enabled state for this pipeline
func WithBlendEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendEnabled = enabled
	}
}

// WithBlendState sets the blend state for this pipeline.
//
// Parameters:
//   - blendState: the blend state to use when blending is enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend state for this pipeline
func WithBlendState(blendState *wgpu.BlendState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendState = blendState
	}
}
