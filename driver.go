// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package blit

import (
	"errors"
	"sync"
)

// ErrNoDriver indicates no GPU driver is registered and none was injected.
// Blank-import github.com/gogpu/blit/gpu to register the wgpu driver, or
// pass one explicitly with WithDriver.
var ErrNoDriver = errors.New("blit: no driver registered")

// Texture is an immutable handle to a GPU texture. Concrete types live in
// the driver; the renderer only ever needs the dimensions.
type Texture interface {
	Width() int
	Height() int
}

// Target is a render target the renderer can bind and draw into. Its
// backing texture is exposed read-only so the effects and presentation
// collaborators can sample previous frames, never mutate them.
type Target interface {
	Width() int
	Height() int
	Texture() Texture
}

// TargetBinder is the narrow binding surface of a Driver. It exists as its
// own interface so tests can reason about target switching without a GPU.
type TargetBinder interface {
	// SetRenderTarget makes t the destination of subsequent draws.
	// A nil target binds the driver's default backbuffer target.
	SetRenderTarget(t Target) error

	// RenderTarget returns the currently bound target, never nil.
	RenderTarget() Target
}

// DrawCall describes one GPU draw of the currently uploaded batch.
// The flush engine issues one DrawCall per pass of the active material,
// all sharing the same uploaded geometry.
type DrawCall struct {
	// Texture to sample, or nil for the builtin opaque white texture
	// (untextured primitives carry their color in the vertex stream).
	Texture Texture

	// Material to draw with, or nil for the default batch material.
	Material *Material

	// Pass is the material pass index, 0 ≤ Pass < Material passes.
	Pass int

	// IndexCount is how many indices of the uploaded batch to draw.
	IndexCount int

	// Clip bounds fragments to an inclusive pixel rectangle of the
	// bound target. Rides to the GPU as a shader uniform.
	Clip ClipRegion

	// Tint and Alpha mirror the renderer's modulation state at flush
	// time. Vertex colors already carry them baked in; the driver
	// exposes them to material shaders through the uniform block.
	Tint  Color
	Alpha float32
}

// Driver is the GPU backend surface the renderer draws through. The wgpu
// implementation lives in internal/gpu and is registered by importing
// github.com/gogpu/blit/gpu; tests inject recording fakes.
//
// The geometry contract is stateful by design: Upload stages one batch,
// and every following Draw renders that batch until the next Upload.
// Vertices are interleaved little-endian float32, position x,y,z,1 then
// uv then rgba, 40 bytes per vertex; indices are little-endian uint16.
type Driver interface {
	TargetBinder

	// Init sizes the driver: the default backbuffer target dimensions
	// and the batch capacity the tiered geometry buffers must cover.
	// Called exactly once, before any other method.
	Init(width, height, maxQuads int) error

	// BeginFrame marks a frame boundary. Targets are cleared lazily on
	// their first draw after BeginFrame.
	BeginFrame()

	// EndFrame completes the frame. This is the only point where the
	// renderer may block on the GPU.
	EndFrame() error

	// CreateTarget allocates a w-by-h offscreen render target.
	CreateTarget(w, h int) (Target, error)

	// DestroyTarget releases a target created by CreateTarget.
	DestroyTarget(t Target)

	// CreateTexture allocates a w-by-h RGBA sample texture.
	CreateTexture(w, h int) (Texture, error)

	// DestroyTexture releases a texture created by CreateTexture.
	DestroyTexture(t Texture)

	// UpdateTexture replaces the full contents of t with pixels,
	// tightly packed RGBA, 4 bytes per pixel, len = 4*w*h.
	UpdateTexture(t Texture, pixels []byte) error

	// SetTextureFilter switches t between nearest (false) and linear
	// (true) sampling. Used by shader-asset filter overrides.
	SetTextureFilter(t Texture, linear bool)

	// Upload stages the batch geometry for subsequent Draw calls.
	Upload(verts, indices []byte, vertexCount, indexCount int) error

	// Draw renders the staged batch once.
	Draw(call *DrawCall) error

	// Close releases all driver resources, including outstanding
	// targets and textures.
	Close() error
}

// TargetReader is an optional Driver interface for reading a target's
// pixels back to the CPU as tightly packed RGBA. Drivers without readback
// simply don't implement it.
type TargetReader interface {
	ReadTarget(t Target) ([]byte, error)
}

// DriverOpener creates Driver instances. GPU backend packages register one
// at init time; New consults the registry when no driver is injected.
type DriverOpener interface {
	// Open creates a driver. The provider argument carries an optional
	// host GPU device (see WithDevice); nil means the driver opens its
	// own adapter.
	Open(provider any) (Driver, error)
}

var (
	openerMu sync.RWMutex
	opener   DriverOpener
)

// RegisterDriver registers a driver opener for renderer construction.
//
// Only one opener can be registered; subsequent calls replace the previous
// one. Typical usage via blank import in driver packages:
//
//	func init() {
//	    blit.RegisterDriver(opener{})
//	}
func RegisterDriver(o DriverOpener) {
	openerMu.Lock()
	opener = o
	openerMu.Unlock()
	if o != nil {
		propagateLogger(o, Logger())
	}
}

// registeredOpener returns the current driver opener, or nil.
func registeredOpener() DriverOpener {
	openerMu.RLock()
	o := opener
	openerMu.RUnlock()
	return o
}
