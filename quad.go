// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package blit

// QuadFlags select the mirror and quarter-turn variants of a textured
// quad. Flags combine: FlipH|Rotate90 first remaps the corners a quarter
// turn, then mirrors horizontally.
type QuadFlags uint8

const (
	// FlipH mirrors the source horizontally (swaps the two U edges).
	FlipH QuadFlags = 1 << iota

	// FlipV mirrors the source vertically (swaps the two V edges).
	FlipV

	// Rotate90 turns the source a quarter turn clockwise by remapping
	// which texel lands in which corner. Destination extents do not
	// swap, so non-square sources shear; sprite tiles are square.
	Rotate90
)

// DrawQuad draws the sheet region src at (x, y) at 1:1 scale.
// Requires a bound sprite sheet; without one the call is a no-op.
func (r *Renderer) DrawQuad(x, y float32, src Rect) {
	r.drawQuad(x, y, src, 0, Point{}, 0, false)
}

// DrawQuadFlags draws the sheet region src at (x, y) with mirror and
// quarter-turn flags.
func (r *Renderer) DrawQuadFlags(x, y float32, src Rect, flags QuadFlags) {
	r.drawQuad(x, y, src, 0, Point{}, flags, false)
}

// DrawQuadRotated draws the sheet region src at (x, y) rotated by angle
// radians about pivot. The pivot is in the quad's own coordinates:
// Pt(src.W/2, src.H/2) spins the sprite in place.
func (r *Renderer) DrawQuadRotated(x, y float32, src Rect, angle float32, pivot Point) {
	r.drawQuad(x, y, src, angle, pivot, 0, true)
}

// DrawQuadRotatedFlags combines arbitrary rotation with mirror and
// quarter-turn flags.
func (r *Renderer) DrawQuadRotatedFlags(x, y float32, src Rect, angle float32, pivot Point, flags QuadFlags) {
	r.drawQuad(x, y, src, angle, pivot, flags, true)
}

// DrawSprite draws the sprite with the given atlas identifier at (x, y).
// Unknown identifiers are silent no-ops.
func (r *Renderer) DrawSprite(x, y float32, id int) {
	src, ok := r.sheetSprite(id)
	if !ok {
		return
	}
	r.drawQuad(x, y, src, 0, Point{}, 0, false)
}

// sheetTexture returns the bound sheet's texture, or nil.
func (r *Renderer) sheetTexture() Texture {
	if r.ctx.sheet == nil {
		return nil
	}
	return r.ctx.sheet.Texture()
}

// sheetSprite resolves an atlas identifier against the bound sheet.
func (r *Renderer) sheetSprite(id int) (Rect, bool) {
	if r.ctx.sheet == nil {
		return Rect{}, false
	}
	return r.ctx.sheet.SpriteRect(id)
}

// drawQuad is the shared textured-quad path: corner generation, optional
// quarter-turn corner remap, edge-swap flips, pivot rotation, camera
// offset, clip rejection, then 4 vertices and 6 indices in fixed winding.
func (r *Renderer) drawQuad(x, y float32, src Rect, angle float32, pivot Point, flags QuadFlags, rotated bool) {
	if src.Empty() {
		return
	}
	tex := r.sheetTexture()
	if tex == nil {
		return
	}

	w, h := src.W, src.H
	pos := Pt(x, y).Add(r.ctx.camera)
	var tf Affine
	if rotated && angle != 0 {
		tf = RotateAbout(angle, pivot, pos)
	} else {
		tf = Translation(pos)
	}

	// Rotated quads test their rotated corners against the clip, not the
	// unrotated box.
	minX, minY, maxX, maxY := tf.rotatedBounds(w, h)
	if r.ctx.clip.rejects(minX, minY, maxX, maxY) {
		return
	}

	r.setTexture(tex)
	if !r.ensure(4) {
		return
	}

	tw := float32(tex.Width())
	th := float32(tex.Height())
	u0, v0 := src.X/tw, src.Y/th
	u1, v1 := (src.X+src.W)/tw, (src.Y+src.H)/th
	if flags&FlipH != 0 {
		u0, u1 = u1, u0
	}
	if flags&FlipV != 0 {
		v0, v1 = v1, v0
	}

	// Corner order: top-left, top-right, bottom-right, bottom-left.
	us := [4]float32{u0, u1, u1, u0}
	vs := [4]float32{v0, v0, v1, v1}
	shift := 0
	if flags&Rotate90 != 0 {
		// Quarter turn clockwise: each corner takes the texel of the
		// corner counter-clockwise from it.
		shift = 3
	}

	cx := [4]float32{0, w, w, 0}
	cy := [4]float32{0, 0, h, h}
	c := r.vertexColor(White)
	base := uint16(r.batch.CurrentVertex())
	for i := 0; i < 4; i++ {
		px, py := tf.Apply(cx[i], cy[i])
		j := (i + shift) & 3
		r.batch.vertex(px, py, 0, us[j], vs[j], c)
	}
	r.batch.tri(base, base+1, base+2)
	r.batch.tri(base+2, base+3, base)
}

// texturedRect emits an axis-aligned quad with explicit corner UVs
// against the currently bound texture. The nine-slice tiler and the
// pixel-buffer blit both build on it.
func (r *Renderer) texturedRect(dst Rect, u0, v0, u1, v1 float32, c Color) {
	pos := Pt(dst.X, dst.Y).Add(r.ctx.camera)
	if r.ctx.clip.rejects(pos.X, pos.Y, pos.X+dst.W, pos.Y+dst.H) {
		return
	}
	if !r.ensure(4) {
		return
	}
	vc := r.vertexColor(c)
	base := uint16(r.batch.CurrentVertex())
	r.batch.vertex(pos.X, pos.Y, 0, u0, v0, vc)
	r.batch.vertex(pos.X+dst.W, pos.Y, 0, u1, v0, vc)
	r.batch.vertex(pos.X+dst.W, pos.Y+dst.H, 0, u1, v1, vc)
	r.batch.vertex(pos.X, pos.Y+dst.H, 0, u0, v1, vc)
	r.batch.tri(base, base+1, base+2)
	r.batch.tri(base+2, base+3, base)
}

// DrawPixel draws one pixel. The implementation is a single triangle
// whose corners extend past the pixel's unit square: the pixel center is
// then covered under any rasterizer sub-pixel convention while all
// neighboring centers stay outside.
func (r *Renderer) DrawPixel(x, y float32, c Color) {
	r.pixelAt(x+r.ctx.camera.X, y+r.ctx.camera.Y, c)
}
