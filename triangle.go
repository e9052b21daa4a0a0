// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package blit

import "github.com/chewxy/math32"

// DrawTriangle outlines the triangle through the three points with
// 1-pixel lines. Every segment suppresses its trailing cap and the next
// segment's start cap covers the shared vertex, so each corner pixel is
// drawn exactly once.
func (r *Renderer) DrawTriangle(x0, y0, x1, y1, x2, y2 float32, c Color) {
	r.drawLineCaps(x0, y0, x1, y1, c, true, false)
	r.drawLineCaps(x1, y1, x2, y2, c, true, false)
	r.drawLineCaps(x2, y2, x0, y0, c, true, false)
}

// FillTriangle fills the triangle through the three points. The batch
// holds 3 vertices plus one padding slot so quad bookkeeping stays in
// units of 4, and the triangle is indexed twice with opposite windings:
// the points render in whichever order the caller gave them, with no
// cross-product sign check on the CPU. The second triangle is redundant
// overdraw, invisible for opaque fills.
func (r *Renderer) FillTriangle(x0, y0, x1, y1, x2, y2 float32, c Color) {
	x0 += r.ctx.camera.X
	y0 += r.ctx.camera.Y
	x1 += r.ctx.camera.X
	y1 += r.ctx.camera.Y
	x2 += r.ctx.camera.X
	y2 += r.ctx.camera.Y

	minX := math32.Min(x0, math32.Min(x1, x2))
	maxX := math32.Max(x0, math32.Max(x1, x2))
	minY := math32.Min(y0, math32.Min(y1, y2))
	maxY := math32.Max(y0, math32.Max(y1, y2))
	if r.ctx.clip.rejects(minX, minY, maxX, maxY) {
		return
	}
	r.setTexture(nil)
	if !r.ensure(4) {
		return
	}
	vc := r.vertexColor(c)
	base := uint16(r.batch.CurrentVertex())
	r.batch.vertex(x0, y0, 0, 0, 0, vc)
	r.batch.vertex(x1, y1, 0, 0, 0, vc)
	r.batch.vertex(x2, y2, 0, 0, 0, vc)
	r.batch.padVertex()
	r.batch.tri(base, base+1, base+2)
	r.batch.tri(base+2, base+1, base)
}
