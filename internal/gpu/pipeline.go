// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/blit"
)

// Batch compositing shader. Custom materials replace it but must keep the
// vs_main/fs_main entry points, the vertex layout, and the bind group
// interface (BatchUniforms, batch_texture, batch_sampler).
//
//go:embed shaders/batch.wgsl
var batchShaderSource string

// GetBatchShaderSource returns the embedded batch shader source.
func GetBatchShaderSource() string { return batchShaderSource }

// vertexStride is the interleaved vertex size: position x,y,z,1 then uv
// then rgba, little-endian float32.
const vertexStride = 40

// batchUniformSize is the byte size of the BatchUniforms block:
// viewport, clip, and tint vec4s.
const batchUniformSize = 48

// materialPipeline is one compiled render pipeline and its shader module.
type materialPipeline struct {
	module   hal.ShaderModule
	pipeline hal.RenderPipeline
}

// batchVertexLayout returns the vertex buffer layout shared by every
// batch pipeline:
//
//	location 0: position (vec4<f32>)
//	location 1: uv       (vec2<f32>)
//	location 2: color    (vec4<f32>)
func batchVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: vertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 16, ShaderLocation: 1},
				{Format: gputypes.VertexFormatFloat32x4, Offset: 24, ShaderLocation: 2},
			},
		},
	}
}

// createPipelinesLocked builds the shared bind group layout, pipeline
// layout, the two samplers, and the default batch pipeline.
//
// Bind group layout:
//
//	Binding 0: BatchUniforms (uniform buffer, vertex+fragment)
//	Binding 1: batch texture (texture_2d, fragment)
//	Binding 2: sampler (fragment)
func (d *Driver) createPipelinesLocked() error {
	bindLayout, err := d.dev.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "batch_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	d.bindLayout = bindLayout

	pipeLayout, err := d.dev.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "batch_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{d.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	d.pipeLayout = pipeLayout

	// Nearest is the default filter; linear serves shader-asset filter
	// overrides and SetTextureFilter.
	nearest, err := d.createSamplerLocked("batch_sampler_nearest", gputypes.FilterModeNearest)
	if err != nil {
		return err
	}
	d.samplerNearest = nearest
	linear, err := d.createSamplerLocked("batch_sampler_linear", gputypes.FilterModeLinear)
	if err != nil {
		return err
	}
	d.samplerLinear = linear

	if batchShaderSource == "" {
		return fmt.Errorf("batch shader source is empty")
	}
	module, err := d.dev.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "batch_shader",
		Source: hal.ShaderSource{WGSL: batchShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile batch shader: %w", err)
	}
	pipeline, err := d.buildPipelineLocked("batch_pipeline", module)
	if err != nil {
		d.dev.device.DestroyShaderModule(module)
		return err
	}
	d.defaultPipe = &materialPipeline{module: module, pipeline: pipeline}
	return nil
}

func (d *Driver) createSamplerLocked(label string, filter gputypes.FilterMode) (hal.Sampler, error) {
	s, err := d.dev.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        label,
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    filter,
		MinFilter:    filter,
		MipmapFilter: filter,
	})
	if err != nil {
		return nil, fmt.Errorf("create sampler %s: %w", label, err)
	}
	return s, nil
}

// buildPipelineLocked creates a render pipeline over the shared layout
// with premultiplied alpha blending, no culling, single-sampled.
func (d *Driver) buildPipelineLocked(label string, module hal.ShaderModule) (hal.RenderPipeline, error) {
	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := d.dev.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label,
		Layout: d.pipeLayout,
		Vertex: hal.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    batchVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatRGBA8Unorm,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create pipeline %s: %w", label, err)
	}
	return pipeline, nil
}

// pipelineForLocked returns the pipeline for m, compiling and caching it
// on first use. A nil material or one without source selects the default
// batch pipeline.
func (d *Driver) pipelineForLocked(m *blit.Material) (*materialPipeline, error) {
	if m == nil {
		return d.defaultPipe, nil
	}
	if mp, ok := d.materials[m]; ok {
		return mp, nil
	}
	if m.Source() == "" {
		d.materials[m] = d.defaultPipe
		return d.defaultPipe, nil
	}
	mp, err := d.compileMaterialLocked(m)
	if err != nil {
		return nil, err
	}
	d.materials[m] = mp
	return mp, nil
}

// compileMaterialLocked compiles a custom material's WGSL through naga to
// SPIR-V and builds its pipeline against the shared layout.
func (d *Driver) compileMaterialLocked(m *blit.Material) (*materialPipeline, error) {
	spirvBytes, err := naga.Compile(m.Source())
	if err != nil {
		return nil, fmt.Errorf("compile material %s: %w", m.Name(), err)
	}
	// SPIR-V is little-endian 32-bit words.
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	module, err := d.dev.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "material_" + m.Name(),
		Source: hal.ShaderSource{SPIRV: spirvCode},
	})
	if err != nil {
		return nil, fmt.Errorf("create material module %s: %w", m.Name(), err)
	}
	pipeline, err := d.buildPipelineLocked("material_"+m.Name(), module)
	if err != nil {
		d.dev.device.DestroyShaderModule(module)
		return nil, err
	}
	slogger().Debug("gpu-batch: compiled material", "name", m.Name(), "passes", m.Passes())
	return &materialPipeline{module: module, pipeline: pipeline}, nil
}

func (d *Driver) destroyMaterialPipelineLocked(mp *materialPipeline) {
	if mp.pipeline != nil {
		d.dev.device.DestroyRenderPipeline(mp.pipeline)
		mp.pipeline = nil
	}
	if mp.module != nil {
		d.dev.device.DestroyShaderModule(mp.module)
		mp.module = nil
	}
}

// destroyPipelinesLocked tears down materials, the default pipeline, the
// samplers, and the shared layouts, in reverse creation order.
func (d *Driver) destroyPipelinesLocked() {
	for m, mp := range d.materials {
		delete(d.materials, m)
		if mp == d.defaultPipe {
			continue
		}
		d.destroyMaterialPipelineLocked(mp)
	}
	if d.defaultPipe != nil {
		d.destroyMaterialPipelineLocked(d.defaultPipe)
		d.defaultPipe = nil
	}
	if d.samplerLinear != nil {
		d.dev.device.DestroySampler(d.samplerLinear)
		d.samplerLinear = nil
	}
	if d.samplerNearest != nil {
		d.dev.device.DestroySampler(d.samplerNearest)
		d.samplerNearest = nil
	}
	if d.pipeLayout != nil {
		d.dev.device.DestroyPipelineLayout(d.pipeLayout)
		d.pipeLayout = nil
	}
	if d.bindLayout != nil {
		d.dev.device.DestroyBindGroupLayout(d.bindLayout)
		d.bindLayout = nil
	}
}

// makeBatchUniform creates the 48-byte BatchUniforms block.
// Layout: viewport (w, h, pass, 0), clip (x0, y0, x1+1, y1+1), tint RGBA
// with the global alpha folded into the tint alpha.
func makeBatchUniform(w, h, pass int, clip blit.ClipRegion, tint blit.Color, alpha float32) []byte {
	buf := make([]byte, batchUniformSize)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(float32(w)))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(float32(h)))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(float32(pass)))
	// Bytes 12..15 remain zero.

	// Clip rides inclusive; the shader tests exclusive max edges.
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(float32(clip.X0)))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(float32(clip.Y0)))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(float32(clip.X1)+1))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(float32(clip.Y1)+1))

	binary.LittleEndian.PutUint32(buf[32:36], math.Float32bits(float32(tint.R)/255))
	binary.LittleEndian.PutUint32(buf[36:40], math.Float32bits(float32(tint.G)/255))
	binary.LittleEndian.PutUint32(buf[40:44], math.Float32bits(float32(tint.B)/255))
	binary.LittleEndian.PutUint32(buf[44:48], math.Float32bits(float32(tint.A)/255*alpha))
	return buf
}
