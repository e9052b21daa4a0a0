// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/blit"
)

// gpuTimeout bounds every fence wait.
const gpuTimeout = 5 * time.Second

// minTierQuads is the quad capacity of the smallest buffer tier.
const minTierQuads = 64

// bufferTier is one vertex+index buffer pair sized for a quad capacity.
type bufferTier struct {
	quads   int
	verts   hal.Buffer
	indices hal.Buffer
}

// Driver renders primitive batches through wgpu/hal render passes. It
// implements blit.Driver and blit.TargetReader.
//
// Geometry is stateful: Upload stages one batch into the smallest buffer
// tier that fits, and every following Draw renders that staged batch.
// Each Draw is one render pass, submitted and fence-waited on its own; a
// typical flush is a single pass, so the extra submits only appear with
// multi-pass materials.
type Driver struct {
	mu  sync.Mutex
	dev *deviceContext

	width  int
	height int

	// Tiered geometry buffers, quad capacities doubling up to the Init
	// batch capacity.
	tiers         []bufferTier
	staged        *bufferTier
	stagedIndices int

	defaultTarget *renderTarget
	bound         *renderTarget
	targets       map[*renderTarget]struct{}
	textures      map[*texture]struct{}
	texSeq        uint64

	// whiteTex backs draws with no texture so one pipeline serves both
	// textured and untextured batches.
	whiteTex *texture

	samplerNearest hal.Sampler
	samplerLinear  hal.Sampler

	bindLayout  hal.BindGroupLayout
	pipeLayout  hal.PipelineLayout
	defaultPipe *materialPipeline
	materials   map[*blit.Material]*materialPipeline

	// frame is the lazy-clear epoch. BeginFrame advances it; each target
	// clears on its first draw of the epoch and loads afterwards.
	frame uint64

	initialized bool
}

var (
	_ blit.Driver       = (*Driver)(nil)
	_ blit.TargetReader = (*Driver)(nil)
)

func newDriver(dc *deviceContext) *Driver {
	return &Driver{
		dev:       dc,
		targets:   make(map[*renderTarget]struct{}),
		textures:  make(map[*texture]struct{}),
		materials: make(map[*blit.Material]*materialPipeline),
	}
}

// Open creates a driver on the provider's shared GPU device, or on a
// standalone Vulkan device when provider is nil.
func Open(provider any) (*Driver, error) {
	dc, err := acquireDevice(provider)
	if err != nil {
		return nil, err
	}
	return newDriver(dc), nil
}

// New wraps an existing HAL device and queue without taking ownership.
// Tests use it to drive the batch renderer over the noop backend.
func New(device hal.Device, queue hal.Queue) *Driver {
	return newDriver(&deviceContext{device: device, queue: queue, external: true})
}

// Init sizes the default backbuffer target and builds the pipeline,
// samplers, buffer tiers, and the builtin white texture. Called exactly
// once, before any other method.
func (d *Driver) Init(width, height, maxQuads int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.initialized {
		return fmt.Errorf("gpu-batch: driver already initialized")
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("gpu-batch: invalid size %dx%d", width, height)
	}
	if maxQuads < 1 {
		return fmt.Errorf("gpu-batch: invalid batch capacity %d", maxQuads)
	}
	d.width, d.height = width, height
	d.frame = 1

	if err := d.createPipelinesLocked(); err != nil {
		d.closeLocked()
		return err
	}
	if err := d.createTiersLocked(maxQuads); err != nil {
		d.closeLocked()
		return err
	}

	white, err := d.newTextureLocked("batch_white", 1, 1)
	if err != nil {
		d.closeLocked()
		return err
	}
	d.dev.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: white.tex, MipLevel: 0},
		[]byte{255, 255, 255, 255},
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: 4, RowsPerImage: 1},
		&hal.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1},
	)
	d.whiteTex = white

	target, err := d.newTargetLocked(width, height)
	if err != nil {
		d.closeLocked()
		return err
	}
	d.defaultTarget = target
	d.bound = target

	d.initialized = true
	slogger().Debug("gpu-batch: driver initialized",
		"width", width, "height", height, "max_quads", maxQuads, "tiers", len(d.tiers))
	return nil
}

// createTiersLocked builds the geometry buffer ladder: quad capacities
// doubling from minTierQuads, with a final exact-capacity tier when
// doubling overshoots maxQuads.
func (d *Driver) createTiersLocked(maxQuads int) error {
	for c := minTierQuads; c < maxQuads; c *= 2 {
		if err := d.addTierLocked(c); err != nil {
			return err
		}
	}
	return d.addTierLocked(maxQuads)
}

func (d *Driver) addTierLocked(quads int) error {
	vb, err := d.dev.device.CreateBuffer(&hal.BufferDescriptor{
		Label: fmt.Sprintf("batch_verts_%d", quads),
		Size:  uint64(quads) * 4 * vertexStride,
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create vertex buffer (%d quads): %w", quads, err)
	}
	ib, err := d.dev.device.CreateBuffer(&hal.BufferDescriptor{
		Label: fmt.Sprintf("batch_indices_%d", quads),
		Size:  uint64(quads) * 6 * 2,
		Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		d.dev.device.DestroyBuffer(vb)
		return fmt.Errorf("create index buffer (%d quads): %w", quads, err)
	}
	d.tiers = append(d.tiers, bufferTier{quads: quads, verts: vb, indices: ib})
	return nil
}

// tierForLocked picks the smallest tier that covers both counts.
func (d *Driver) tierForLocked(vertexCount, indexCount int) *bufferTier {
	for i := range d.tiers {
		t := &d.tiers[i]
		if vertexCount <= t.quads*4 && indexCount <= t.quads*6 {
			return t
		}
	}
	return nil
}

// BeginFrame starts a new lazy-clear epoch. Targets clear on their first
// draw of the frame, so untouched front buffers keep their pixels.
func (d *Driver) BeginFrame() {
	d.mu.Lock()
	d.frame++
	d.mu.Unlock()
}

// EndFrame completes the frame. Draws are submitted and fence-waited
// individually, so there is nothing left to flush here.
func (d *Driver) EndFrame() error {
	return nil
}

// Upload stages batch geometry into the smallest tier that fits both the
// vertex and the index stream.
func (d *Driver) Upload(verts, indices []byte, vertexCount, indexCount int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized {
		return fmt.Errorf("gpu-batch: driver not initialized")
	}
	if vertexCount <= 0 || indexCount <= 0 {
		return fmt.Errorf("gpu-batch: empty upload")
	}
	if len(verts) < vertexCount*vertexStride || len(indices) < indexCount*2 {
		return fmt.Errorf("gpu-batch: short upload: %d/%d bytes for %d vertices, %d indices",
			len(verts), len(indices), vertexCount, indexCount)
	}
	tier := d.tierForLocked(vertexCount, indexCount)
	if tier == nil {
		return fmt.Errorf("gpu-batch: batch of %d vertices, %d indices exceeds buffer capacity",
			vertexCount, indexCount)
	}
	d.dev.queue.WriteBuffer(tier.verts, 0, verts[:vertexCount*vertexStride])
	d.dev.queue.WriteBuffer(tier.indices, 0, indices[:indexCount*2])
	d.staged = tier
	d.stagedIndices = indexCount
	return nil
}

// Draw renders the staged batch once into the bound target: one render
// pass with a per-draw uniform buffer and bind group, submitted and
// waited behind a fence.
func (d *Driver) Draw(call *blit.DrawCall) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized {
		return fmt.Errorf("gpu-batch: driver not initialized")
	}
	if call == nil || call.IndexCount <= 0 {
		return nil
	}
	if d.staged == nil {
		return fmt.Errorf("gpu-batch: draw without upload")
	}
	if call.IndexCount > d.stagedIndices {
		return fmt.Errorf("gpu-batch: draw of %d indices exceeds staged %d",
			call.IndexCount, d.stagedIndices)
	}

	mp, err := d.pipelineForLocked(call.Material)
	if err != nil {
		return err
	}

	tex := d.whiteTex
	if call.Texture != nil {
		tx, ok := call.Texture.(*texture)
		if !ok || tx == nil {
			return fmt.Errorf("gpu-batch: foreign texture %T", call.Texture)
		}
		tex = tx
	}
	if tex.view == nil {
		return fmt.Errorf("gpu-batch: texture already destroyed")
	}
	samp := d.samplerNearest
	if tex.linear {
		samp = d.samplerLinear
	}

	target := d.bound

	uniformData := makeBatchUniform(target.width, target.height, call.Pass, call.Clip, call.Tint, call.Alpha)
	uniformBuf, err := d.createAndUploadBufferLocked("batch_uniform", uniformData,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	defer d.dev.device.DestroyBuffer(uniformBuf)

	bindGroup, err := d.dev.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "batch_bind",
		Layout: d.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: batchUniformSize,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{
				TextureView: gputypes.TextureViewHandle(tex.view.NativeHandle()),
			}},
			{Binding: 2, Resource: gputypes.SamplerBinding{
				Sampler: gputypes.SamplerHandle(samp.NativeHandle()),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	defer d.dev.device.DestroyBindGroup(bindGroup)

	loadOp := gputypes.LoadOpLoad
	if target.clearFrame != d.frame {
		loadOp = gputypes.LoadOpClear
		target.clearFrame = d.frame
	}

	encoder, err := d.dev.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "batch_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("batch_draw"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "batch_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       target.tex.view,
			LoadOp:     loadOp,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
		}},
	})
	rp.SetPipeline(mp.pipeline)
	rp.SetBindGroup(0, bindGroup, nil)
	rp.SetVertexBuffer(0, d.staged.verts, 0)
	rp.SetIndexBuffer(d.staged.indices, gputypes.IndexFormatUint16, 0)
	rp.DrawIndexed(uint32(call.IndexCount), 1, 0, 0, 0)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer d.dev.device.FreeCommandBuffer(cmdBuf)

	return d.submitAndWaitLocked(cmdBuf)
}

// createAndUploadBufferLocked creates a GPU buffer and uploads data.
func (d *Driver) createAndUploadBufferLocked(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := d.dev.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	d.dev.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// submitAndWaitLocked submits one command buffer and blocks until its
// fence signals.
func (d *Driver) submitAndWaitLocked(cmdBuf hal.CommandBuffer) error {
	fence, err := d.dev.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer d.dev.device.DestroyFence(fence)

	if err := d.dev.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	ok, err := d.dev.device.Wait(fence, 1, gpuTimeout)
	if err != nil || !ok {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", ok, err)
	}
	return nil
}

// Close releases all driver resources, including outstanding targets and
// textures, then the device when the driver owns it. Safe to call twice.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeLocked()
	return nil
}

func (d *Driver) closeLocked() {
	if d.dev == nil || d.dev.device == nil {
		return
	}
	for t := range d.targets {
		delete(d.targets, t)
		d.destroyTextureLocked(t.tex)
	}
	for t := range d.textures {
		delete(d.textures, t)
		d.destroyTextureLocked(t)
	}
	d.whiteTex = nil
	d.defaultTarget = nil
	d.bound = nil
	d.staged = nil
	d.stagedIndices = 0
	for i := range d.tiers {
		if d.tiers[i].verts != nil {
			d.dev.device.DestroyBuffer(d.tiers[i].verts)
		}
		if d.tiers[i].indices != nil {
			d.dev.device.DestroyBuffer(d.tiers[i].indices)
		}
	}
	d.tiers = nil
	d.destroyPipelinesLocked()
	d.dev.release()
	d.initialized = false
}
