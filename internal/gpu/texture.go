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

// texture is a sampleable RGBA8 texture with its bound view. The linear
// flag selects which sampler the next draw uses; SetTextureFilter flips
// it for shader-asset filter overrides.
type texture struct {
	tex    hal.Texture
	view   hal.TextureView
	width  int
	height int
	linear bool
}

var _ blit.Texture = (*texture)(nil)

func (t *texture) Width() int  { return t.width }
func (t *texture) Height() int { return t.height }

// createTexture2D allocates a single-mip 2D RGBA8 texture and its view.
func (d *Driver) createTexture2D(label string, w, h int, usage gputypes.TextureUsage) (hal.Texture, hal.TextureView, error) {
	tex, err := d.dev.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         usage,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create texture %s: %w", label, err)
	}
	view, err := d.dev.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		d.dev.device.DestroyTexture(tex)
		return nil, nil, fmt.Errorf("create texture view %s: %w", label, err)
	}
	return tex, view, nil
}

// newTextureLocked allocates a sample texture and tracks it for Close.
func (d *Driver) newTextureLocked(prefix string, w, h int) (*texture, error) {
	d.texSeq++
	label := fmt.Sprintf("%s_%d", prefix, d.texSeq)
	tex, view, err := d.createTexture2D(label, w, h,
		gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopyDst)
	if err != nil {
		return nil, err
	}
	t := &texture{tex: tex, view: view, width: w, height: h}
	d.textures[t] = struct{}{}
	return t, nil
}

// destroyTextureLocked releases the HAL resources behind t.
func (d *Driver) destroyTextureLocked(t *texture) {
	if t.view != nil {
		d.dev.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		d.dev.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

// CreateTexture allocates a w-by-h RGBA sample texture.
func (d *Driver) CreateTexture(w, h int) (blit.Texture, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("gpu-batch: invalid texture size %dx%d", w, h)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.newTextureLocked("batch_texture", w, h)
}

// DestroyTexture releases a texture created by CreateTexture. Foreign or
// already-destroyed textures are ignored.
func (d *Driver) DestroyTexture(t blit.Texture) {
	tx, ok := t.(*texture)
	if !ok || tx == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, live := d.textures[tx]; !live {
		return
	}
	delete(d.textures, tx)
	d.destroyTextureLocked(tx)
}

// UpdateTexture replaces the full contents of t with tightly packed RGBA
// pixels, 4 bytes per pixel.
func (d *Driver) UpdateTexture(t blit.Texture, pixels []byte) error {
	tx, ok := t.(*texture)
	if !ok || tx == nil {
		return fmt.Errorf("gpu-batch: foreign texture %T", t)
	}
	if want := 4 * tx.width * tx.height; len(pixels) != want {
		return fmt.Errorf("gpu-batch: texture data is %d bytes, want %d", len(pixels), want)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if tx.tex == nil {
		return fmt.Errorf("gpu-batch: texture already destroyed")
	}
	d.dev.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tx.tex, MipLevel: 0},
		pixels,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(tx.width * 4),
			RowsPerImage: uint32(tx.height),
		},
		&hal.Extent3D{Width: uint32(tx.width), Height: uint32(tx.height), DepthOrArrayLayers: 1},
	)
	return nil
}

// SetTextureFilter switches t between nearest (false) and linear (true)
// sampling for subsequent draws.
func (d *Driver) SetTextureFilter(t blit.Texture, linear bool) {
	tx, ok := t.(*texture)
	if !ok || tx == nil {
		return
	}
	d.mu.Lock()
	tx.linear = linear
	d.mu.Unlock()
}
