// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package blit

// FillRect fills an axis-aligned rectangle. Fills exactly 1 pixel thick
// on one axis take the ortho-line fast path: 3 vertices and a single
// triangle instead of a full quad.
func (r *Renderer) FillRect(rect Rect, c Color) {
	if rect.Empty() {
		return
	}
	x := rect.X + r.ctx.camera.X
	y := rect.Y + r.ctx.camera.Y
	r.fillRectAbs(x, y, x+rect.W, y+rect.H, c)
}

// fillRectAbs fills the rectangle with absolute target-space corners,
// camera already applied. The ellipse consumers feed their runs through
// here, so the 1-px ortho degeneration covers them too.
func (r *Renderer) fillRectAbs(x0, y0, x1, y1 float32, c Color) {
	if x1-x0 == 1 && y1-y0 != 1 {
		r.orthoSegmentV(x0, y0, y1, c)
		return
	}
	if y1-y0 == 1 {
		r.orthoSegmentH(x0, x1, y0, c)
		return
	}
	if x1 <= x0 || y1 <= y0 {
		return
	}
	if r.ctx.clip.rejects(x0, y0, x1, y1) {
		return
	}
	r.setTexture(nil)
	if !r.ensure(4) {
		return
	}
	vc := r.vertexColor(c)
	base := uint16(r.batch.CurrentVertex())
	r.batch.vertex(x0, y0, 0, 0, 0, vc)
	r.batch.vertex(x1, y0, 0, 0, 0, vc)
	r.batch.vertex(x1, y1, 0, 0, 0, vc)
	r.batch.vertex(x0, y1, 0, 0, 0, vc)
	r.batch.tri(base, base+1, base+2)
	r.batch.tri(base+2, base+3, base)
}

// FillRectRotated fills the rectangle rotated by angle radians about
// pivot. The pivot is in the rectangle's own coordinates, like
// [Renderer.DrawQuadRotated]: Pt(rect.W/2, rect.H/2) spins it in place.
func (r *Renderer) FillRectRotated(rect Rect, c Color, angle float32, pivot Point) {
	if rect.Empty() {
		return
	}
	if angle == 0 {
		r.FillRect(rect, c)
		return
	}
	pos := Pt(rect.X, rect.Y).Add(r.ctx.camera)
	tf := RotateAbout(angle, pivot, pos)
	minX, minY, maxX, maxY := tf.rotatedBounds(rect.W, rect.H)
	if r.ctx.clip.rejects(minX, minY, maxX, maxY) {
		return
	}
	r.setTexture(nil)
	if !r.ensure(4) {
		return
	}
	vc := r.vertexColor(c)
	base := uint16(r.batch.CurrentVertex())
	cx := [4]float32{0, rect.W, rect.W, 0}
	cy := [4]float32{0, 0, rect.H, rect.H}
	for i := 0; i < 4; i++ {
		px, py := tf.Apply(cx[i], cy[i])
		r.batch.vertex(px, py, 0, 0, 0, vc)
	}
	r.batch.tri(base, base+1, base+2)
	r.batch.tri(base+2, base+3, base)
}

// DrawRect outlines the rectangle with a 1-pixel border inside its
// bounds. An extent of 2 px or less on either axis leaves no interior,
// so the call fills instead.
func (r *Renderer) DrawRect(rect Rect, c Color) {
	if rect.Empty() {
		return
	}
	if rect.W <= 2 || rect.H <= 2 {
		r.FillRect(rect, c)
		return
	}
	x := rect.X + r.ctx.camera.X
	y := rect.Y + r.ctx.camera.Y
	if r.ctx.clip.rejects(x, y, x+rect.W, y+rect.H) {
		return
	}
	// Four 1-px edges. The vertical edges are inset one row at each end
	// so every corner pixel belongs to exactly one edge.
	r.orthoSegmentH(x, x+rect.W, y, c)
	r.orthoSegmentH(x, x+rect.W, y+rect.H-1, c)
	r.orthoSegmentV(x, y+1, y+rect.H-1, c)
	r.orthoSegmentV(x+rect.W-1, y+1, y+rect.H-1, c)
}
