// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/blit"
)

// renderTarget is an offscreen RGBA8 target the batch renders into. Its
// backing texture doubles as a sample source so chained front buffers can
// be drawn during later frames.
type renderTarget struct {
	tex    *texture
	width  int
	height int

	// clearFrame is the frame epoch of the last lazy clear. Targets are
	// cleared on their first draw each frame, not at frame start.
	clearFrame uint64
}

var _ blit.Target = (*renderTarget)(nil)

func (t *renderTarget) Width() int            { return t.width }
func (t *renderTarget) Height() int           { return t.height }
func (t *renderTarget) Texture() blit.Texture { return t.tex }

// newTargetLocked allocates a render target and tracks it for Close.
func (d *Driver) newTargetLocked(w, h int) (*renderTarget, error) {
	d.texSeq++
	label := fmt.Sprintf("batch_target_%d", d.texSeq)
	tex, view, err := d.createTexture2D(label, w, h,
		gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopySrc)
	if err != nil {
		return nil, err
	}
	t := &renderTarget{
		tex:    &texture{tex: tex, view: view, width: w, height: h},
		width:  w,
		height: h,
	}
	d.targets[t] = struct{}{}
	return t, nil
}

// CreateTarget allocates a w-by-h offscreen render target.
func (d *Driver) CreateTarget(w, h int) (blit.Target, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("gpu-batch: invalid target size %dx%d", w, h)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.newTargetLocked(w, h)
}

// DestroyTarget releases a target created by CreateTarget. Destroying the
// bound target rebinds the default backbuffer.
func (d *Driver) DestroyTarget(t blit.Target) {
	rt, ok := t.(*renderTarget)
	if !ok || rt == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, live := d.targets[rt]; !live {
		return
	}
	delete(d.targets, rt)
	if d.bound == rt {
		d.bound = d.defaultTarget
	}
	d.destroyTextureLocked(rt.tex)
}

// SetRenderTarget makes t the destination of subsequent draws. A nil
// target binds the driver's default backbuffer target.
func (d *Driver) SetRenderTarget(t blit.Target) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t == nil {
		d.bound = d.defaultTarget
		return nil
	}
	rt, ok := t.(*renderTarget)
	if !ok {
		return fmt.Errorf("gpu-batch: foreign target %T", t)
	}
	if _, live := d.targets[rt]; !live {
		return fmt.Errorf("gpu-batch: target already destroyed")
	}
	d.bound = rt
	return nil
}

// RenderTarget returns the currently bound target, never nil.
func (d *Driver) RenderTarget() blit.Target {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bound
}

// ReadTarget copies a target's pixels back to the CPU as tightly packed
// RGBA, row 0 first.
func (d *Driver) ReadTarget(t blit.Target) ([]byte, error) {
	rt, ok := t.(*renderTarget)
	if !ok || rt == nil {
		return nil, fmt.Errorf("gpu-batch: foreign target %T", t)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, live := d.targets[rt]; !live {
		return nil, fmt.Errorf("gpu-batch: target already destroyed")
	}
	return d.readTargetLocked(rt)
}

func (d *Driver) readTargetLocked(rt *renderTarget) ([]byte, error) {
	w, h := uint32(rt.width), uint32(rt.height)

	// WebGPU (and DX12) requires BytesPerRow aligned to 256 bytes.
	bytesPerRow := w * 4
	const copyPitchAlignment = 256
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	stagingBuf, err := d.dev.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "batch_readback_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer d.dev.device.DestroyBuffer(stagingBuf)

	encoder, err := d.dev.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "batch_readback_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("batch_readback"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	// CopyTextureToBuffer requires the source in copy-src layout; draws
	// leave it as a render attachment. Transition both ways so the next
	// draw sees the layout it expects. No-op on noop and software backends.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: rt.tex.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(rt.tex.tex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: rt.tex.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: rt.tex.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer d.dev.device.FreeCommandBuffer(cmdBuf)

	if err := d.submitAndWaitLocked(cmdBuf); err != nil {
		return nil, err
	}

	readback := make([]byte, stagingSize)
	if err := d.dev.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}

	// Strip per-row padding when the aligned pitch exceeds the tight one.
	if alignedBytesPerRow == bytesPerRow {
		return readback[:uint64(bytesPerRow)*uint64(h)], nil
	}
	tight := make([]byte, uint64(bytesPerRow)*uint64(h))
	for row := uint32(0); row < h; row++ {
		srcOff := int(row) * int(alignedBytesPerRow)
		dstOff := int(row) * int(bytesPerRow)
		copy(tight[dstOff:dstOff+int(bytesPerRow)], readback[srcOff:srcOff+int(bytesPerRow)])
	}
	return tight, nil
}
