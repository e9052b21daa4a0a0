// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package blit

// Material is a shader program the batch can be drawn with. Materials are
// immutable once created so drivers can cache compiled pipelines keyed by
// the material pointer.
//
// A material's WGSL source must declare the batch vertex layout (position
// vec4, uv vec2, color vec4 at locations 0..2) and the shared uniform
// block (viewport, clip, tint). See internal/gpu for the default source
// to start from. Multi-pass materials are drawn once per pass over the
// same geometry, in pass order.
type Material struct {
	name   string
	source string
	passes int
}

// NewMaterial creates a material from WGSL source. passes values below 1
// are treated as 1.
func NewMaterial(name, wgslSource string, passes int) *Material {
	if passes < 1 {
		passes = 1
	}
	return &Material{name: name, source: wgslSource, passes: passes}
}

// Name returns the diagnostic name of the material.
func (m *Material) Name() string {
	if m == nil {
		return "default"
	}
	return m.name
}

// Source returns the WGSL source, empty for the default material.
func (m *Material) Source() string {
	if m == nil {
		return ""
	}
	return m.source
}

// Passes returns the number of draw passes, at least 1.
func (m *Material) Passes() int {
	if m == nil || m.passes < 1 {
		return 1
	}
	return m.passes
}

// TargetFilter overrides the sampling filter of one texture for the
// duration of a shader's draw. Shader assets use this to sample selected
// offscreen targets linearly while everything else stays nearest.
type TargetFilter struct {
	Texture Texture
	Linear  bool
}

// ShaderAsset is the shader collaborator consumed by SetShader: a wrapped
// material plus the per-texture filter overrides to hold while it draws.
// Asset loading and hot-reload live outside blit; the renderer only reads
// these two accessors.
type ShaderAsset interface {
	Material() *Material
	TargetFilters() []TargetFilter
}
