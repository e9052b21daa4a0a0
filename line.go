// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package blit

import "github.com/chewxy/math32"

// Line rendering has two paths. Exactly horizontal or vertical segments
// (and 1-px rect fills) take the ortho fast path: a single triangle with
// sub-pixel insets tuned so precisely the intended pixel row or column
// rasterizes, 3 vertices instead of 4. Everything else builds a
// 1-pixel-wide quad classified into one of four quadrants by dominant
// axis and sign.
//
// Cap semantics: a drawn cap extends the segment so its endpoint pixel
// rasterizes; a suppressed cap shifts that endpoint by half a unit
// instead, placing the endpoint pixel's center exactly on the quad edge
// so it stays out. Adjoining segments of an outline suppress their
// trailing caps and each shared pixel is drawn exactly once.

// DrawLine draws a 1-pixel line from (x0, y0) to (x1, y1) with both end
// pixels included.
func (r *Renderer) DrawLine(x0, y0, x1, y1 float32, c Color) {
	r.drawLineCaps(x0, y0, x1, y1, c, true, true)
}

// DrawLineCaps draws a 1-pixel line with explicit control over whether
// the start and end pixels are drawn. Outline joints suppress trailing
// caps so shared corners don't double-blend.
func (r *Renderer) DrawLineCaps(x0, y0, x1, y1 float32, c Color, startCap, endCap bool) {
	r.drawLineCaps(x0, y0, x1, y1, c, startCap, endCap)
}

// DrawLineRotated draws the line rotated by angle radians about pivot.
// The rotation applies to both endpoints before the camera offset.
func (r *Renderer) DrawLineRotated(x0, y0, x1, y1 float32, c Color, angle float32, pivot Point) {
	r.drawLineRotatedCaps(x0, y0, x1, y1, c, angle, pivot, true, true)
}

func (r *Renderer) drawLineRotatedCaps(x0, y0, x1, y1 float32, c Color, angle float32, pivot Point, startCap, endCap bool) {
	if angle == 0 {
		r.drawLineCaps(x0, y0, x1, y1, c, startCap, endCap)
		return
	}
	tf := RotateAbout(angle, pivot, Point{})
	rx0, ry0 := tf.Apply(x0, y0)
	rx1, ry1 := tf.Apply(x1, y1)
	r.drawLineCaps(rx0, ry0, rx1, ry1, c, startCap, endCap)
}

// drawLineCaps is the shared line entry: camera offset, degenerate and
// ortho dispatch, then the quadrant quad builder.
func (r *Renderer) drawLineCaps(x0, y0, x1, y1 float32, c Color, startCap, endCap bool) {
	x0 += r.ctx.camera.X
	y0 += r.ctx.camera.Y
	x1 += r.ctx.camera.X
	y1 += r.ctx.camera.Y

	dx := x1 - x0
	dy := y1 - y0

	// Coincident endpoints degrade to a single pixel. The cap flags are
	// honored independently: suppressing both draws nothing.
	if dx == 0 && dy == 0 {
		if startCap || endCap {
			r.pixelAt(x0, y0, c)
		}
		return
	}

	if dy == 0 {
		xl, xr := x0, x1
		lCap, rCap := startCap, endCap
		if xl > xr {
			xl, xr = xr, xl
			lCap, rCap = rCap, lCap
		}
		if !lCap {
			xl += 0.5
		}
		if rCap {
			xr += 1
		} else {
			xr += 0.5
		}
		r.orthoSegmentH(xl, xr, y0, c)
		return
	}
	if dx == 0 {
		yt, yb := y0, y1
		tCap, bCap := startCap, endCap
		if yt > yb {
			yt, yb = yb, yt
			tCap, bCap = bCap, tCap
		}
		if !tCap {
			yt += 0.5
		}
		if bCap {
			yb += 1
		} else {
			yb += 0.5
		}
		r.orthoSegmentV(x0, yt, yb, c)
		return
	}

	r.lineQuad(x0, y0, x1, y1, c, startCap, endCap)
}

// lineQuad builds the 1-pixel-wide quad for an arbitrary-angle segment.
// The direction is classified into one of four quadrants by comparing
// |dx| against |dy| and the dominant sign; the quadrant fixes the unit
// perpendicular (down for x-dominant, right for y-dominant, so a segment
// covers the same pixels drawn in either direction) and which logical
// endpoint owns the leading edge.
func (r *Renderer) lineQuad(x0, y0, x1, y1 float32, c Color, startCap, endCap bool) {
	minX := math32.Min(x0, x1)
	maxX := math32.Max(x0, x1)
	minY := math32.Min(y0, y1)
	maxY := math32.Max(y0, y1)
	if r.ctx.clip.rejects(minX, minY, maxX+1, maxY+1) {
		return
	}
	r.setTexture(nil)
	if !r.ensure(4) {
		return
	}

	dx := x1 - x0
	dy := y1 - y0
	vc := r.vertexColor(c)
	base := uint16(r.batch.CurrentVertex())

	if math32.Abs(dx) >= math32.Abs(dy) {
		// X-dominant: perpendicular (0, 1).
		var lx, ly, rx, ry float32
		var lCap, rCap bool
		if dx >= 0 {
			lx, ly, lCap = x0, y0, startCap
			rx, ry, rCap = x1, y1, endCap
		} else {
			lx, ly, lCap = x1, y1, endCap
			rx, ry, rCap = x0, y0, startCap
		}
		if !lCap {
			lx += 0.5
		}
		if rCap {
			rx += 1
		} else {
			rx += 0.5
		}
		r.batch.vertex(lx, ly, 0, 0, 0, vc)
		r.batch.vertex(rx, ry, 0, 0, 0, vc)
		r.batch.vertex(rx, ry+1, 0, 0, 0, vc)
		r.batch.vertex(lx, ly+1, 0, 0, 0, vc)
	} else {
		// Y-dominant: perpendicular (1, 0).
		var tx, ty, bx, by float32
		var tCap, bCap bool
		if dy >= 0 {
			tx, ty, tCap = x0, y0, startCap
			bx, by, bCap = x1, y1, endCap
		} else {
			tx, ty, tCap = x1, y1, endCap
			bx, by, bCap = x0, y0, startCap
		}
		if !tCap {
			ty += 0.5
		}
		if bCap {
			by += 1
		} else {
			by += 0.5
		}
		r.batch.vertex(tx, ty, 0, 0, 0, vc)
		r.batch.vertex(tx+1, ty, 0, 0, 0, vc)
		r.batch.vertex(bx+1, by, 0, 0, 0, vc)
		r.batch.vertex(bx, by, 0, 0, 0, vc)
	}

	r.batch.tri(base, base+1, base+2)
	r.batch.tri(base+2, base+3, base)
}

// orthoSegmentH rasterizes exactly the pixel row containing the band
// y..y+1 across columns whose centers fall in [xl, xr), as one triangle:
// the near edge is inset 0.1 px inward and the far hypotenuse is placed
// so it crosses the row's center line 0.05 px short of xr. The overdraw
// sliver above the hypotenuse covers no pixel centers.
func (r *Renderer) orthoSegmentH(xl, xr, y float32, c Color) {
	if xr <= xl {
		return
	}
	if r.ctx.clip.rejects(xl, y, xr, y+1) {
		return
	}
	r.setTexture(nil)
	if !r.ensure(3) {
		return
	}
	vc := r.vertexColor(c)
	base := uint16(r.batch.CurrentVertex())
	r.batch.vertex(xl+0.1, y-0.1, 0, 0, 0, vc)
	r.batch.vertex(2*xr-xl-0.2, y-0.1, 0, 0, 0, vc)
	r.batch.vertex(xl+0.1, y+1.1, 0, 0, 0, vc)
	r.batch.tri(base, base+1, base+2)
}

// orthoSegmentV is the column form of orthoSegmentH: the pixel column of
// the band x..x+1, rows with centers in [yt, yb).
func (r *Renderer) orthoSegmentV(x, yt, yb float32, c Color) {
	if yb <= yt {
		return
	}
	if r.ctx.clip.rejects(x, yt, x+1, yb) {
		return
	}
	r.setTexture(nil)
	if !r.ensure(3) {
		return
	}
	vc := r.vertexColor(c)
	base := uint16(r.batch.CurrentVertex())
	r.batch.vertex(x-0.1, yt+0.1, 0, 0, 0, vc)
	r.batch.vertex(x-0.1, 2*yb-yt-0.2, 0, 0, 0, vc)
	r.batch.vertex(x+1.1, yt+0.1, 0, 0, 0, vc)
	r.batch.tri(base, base+1, base+2)
}

// pixelAt is DrawPixel after the camera offset has been applied.
func (r *Renderer) pixelAt(px, py float32, c Color) {
	if r.ctx.clip.rejects(px, py, px+1, py+1) {
		return
	}
	r.setTexture(nil)
	if !r.ensure(3) {
		return
	}
	vc := r.vertexColor(c)
	base := uint16(r.batch.CurrentVertex())
	r.batch.vertex(px-0.2, py-0.2, 0, 0, 0, vc)
	r.batch.vertex(px+1.6, py-0.2, 0, 0, 0, vc)
	r.batch.vertex(px-0.2, py+1.6, 0, 0, 0, vc)
	r.batch.tri(base, base+1, base+2)
}
