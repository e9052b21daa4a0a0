// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package blit

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
)

// Sheet is the sprite-sheet collaborator: a texture plus a mapping from
// sprite IDs to source rectangles on it. [Renderer.SetSpriteSheet] binds
// one for the quad and sprite calls; asset pipelines provide their own
// implementations, or [Renderer.NewImageSheet] builds one from an image.
type Sheet interface {
	Texture() Texture
	SpriteRect(id int) (Rect, bool)
}

// ImageSheet is a Sheet uploaded from an image.Image, sliced into a
// uniform grid of cells numbered row-major from zero.
type ImageSheet struct {
	tex   Texture
	cells []Rect
}

// NewImageSheet uploads img to a texture and slices it into cellW✕cellH
// sprites. Pixels are premultiplied during upload. Release the sheet
// with [Renderer.DestroySheet] when no longer needed.
func (r *Renderer) NewImageSheet(img image.Image, cellW, cellH int) (*ImageSheet, error) {
	if cellW <= 0 || cellH <= 0 {
		return nil, fmt.Errorf("blit: invalid sheet cell size %dx%d", cellW, cellH)
	}
	pix, w, h := rgbaPixels(img)
	tex, err := r.driver.CreateTexture(w, h)
	if err != nil {
		return nil, fmt.Errorf("blit: creating sheet texture: %w", err)
	}
	if err := r.driver.UpdateTexture(tex, pix); err != nil {
		r.driver.DestroyTexture(tex)
		return nil, fmt.Errorf("blit: uploading sheet texture: %w", err)
	}

	cols := w / cellW
	rows := h / cellH
	cells := make([]Rect, 0, cols*rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			cells = append(cells, Rect{
				X: float32(col * cellW),
				Y: float32(row * cellH),
				W: float32(cellW),
				H: float32(cellH),
			})
		}
	}
	return &ImageSheet{tex: tex, cells: cells}, nil
}

// DestroySheet releases the sheet's texture, unbinding the sheet first if
// it is the active one.
func (r *Renderer) DestroySheet(s *ImageSheet) {
	if s == nil || s.tex == nil {
		return
	}
	if r.ctx.sheet == Sheet(s) {
		r.ClearSpriteSheet()
	}
	r.driver.DestroyTexture(s.tex)
	s.tex = nil
}

// Texture returns the sheet's texture.
func (s *ImageSheet) Texture() Texture { return s.tex }

// SpriteRect returns the source rectangle of sprite id.
func (s *ImageSheet) SpriteRect(id int) (Rect, bool) {
	if id < 0 || id >= len(s.cells) {
		return Rect{}, false
	}
	return s.cells[id], true
}

// Len returns the number of sprites on the sheet.
func (s *ImageSheet) Len() int { return len(s.cells) }

// ScaleNearest returns img scaled by an integer factor with nearest
// sampling. Pixel-art assets authored at 1x are scaled at load time so
// the renderer itself never magnifies.
func ScaleNearest(img image.Image, scale int) *image.RGBA {
	b := img.Bounds()
	if scale < 1 {
		scale = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// rgbaPixels returns img's pixels as a tightly packed premultiplied RGBA
// byte slice plus its dimensions, copying only when the backing store is
// not already in that form.
func rgbaPixels(img image.Image) ([]byte, int, int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if m, ok := img.(*image.RGBA); ok && m.Rect.Min == (image.Point{}) && m.Stride == 4*w && len(m.Pix) >= 4*w*h {
		return m.Pix[:4*w*h], w, h
	}
	tmp := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(tmp, tmp.Bounds(), img, b.Min, xdraw.Src)
	return tmp.Pix, w, h
}
