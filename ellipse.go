// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package blit

// Ellipses rasterize on the CPU with an integer midpoint algorithm and
// draw as batched 1-px segments and rectangle runs, mirrored from one
// generated quadrant. The generator normalizes the ellipse so its major
// axis is vertical; a rotated flag swaps the axes back at draw time.
//
// The point list for one call lives in a scratch slice on the Renderer
// and is walked by three independent consumers (outline, fill, inverse
// fill). Each emitted run passes through ensure, so an ellipse larger
// than the remaining batch capacity flushes between runs and continues,
// chunk by chunk.

// maxEllipseRadius bounds per-pixel ellipse rasterization. Beyond it the
// consumers fall back to filling the bounding rectangle instead of
// failing.
const maxEllipseRadius = 16384

// ellipseWideRadius is where the generator switches to 64-bit decision
// arithmetic: the decision variable carries terms near 4·r⁴, which
// leaves int32 range between radius 128 and 181.
const ellipseWideRadius = 128

// ellipsePoint is one first-quadrant boundary pixel: u along the minor
// axis, v along the major axis, both offsets from the center.
type ellipsePoint struct {
	u, v int32
}

// ellipseInt selects the width of the midpoint decision arithmetic.
type ellipseInt interface {
	int32 | int64
}

// midpointEllipse appends the first-quadrant boundary pixels of the
// ellipse with semi-axes a (minor) and b (major) to pts, walking from
// (0, b) to (a, 0). The returned split is the length of the
// horizontal-dominant prefix, in which u advances every point; the
// remaining suffix is vertical-dominant, exactly one point per v.
//
// Decision variables are kept scaled by 4 so the half-pixel midpoints
// stay integer-exact.
func midpointEllipse[T ellipseInt](a, b T, pts []ellipsePoint) ([]ellipsePoint, int) {
	u, v := T(0), b
	du := T(0)          // 2b²u
	dv := 2 * a * a * v // 2a²v

	d := 4*b*b - 4*a*a*b + a*a
	for du < dv {
		pts = append(pts, ellipsePoint{u: int32(u), v: int32(v)})
		u++
		du += 2 * b * b
		if d < 0 {
			d += 4*du + 4*b*b
		} else {
			v--
			dv -= 2 * a * a
			d += 4*(du-dv) + 4*b*b
		}
	}
	split := len(pts)

	d = b*b*(2*u+1)*(2*u+1) + 4*a*a*(v-1)*(v-1) - 4*a*a*b*b
	for v >= 0 {
		pts = append(pts, ellipsePoint{u: int32(u), v: int32(v)})
		v--
		dv -= 2 * a * a
		if d > 0 {
			d += 4*a*a - 4*dv
		} else {
			u++
			du += 2 * b * b
			d += 4*(du-dv) + 4*a*a
		}
	}
	return pts, split
}

// ellipseGeom is the normalized per-call geometry shared by the three
// ellipse consumers.
type ellipseGeom struct {
	cx, cy  float32 // center, camera applied
	a, b    int32   // minor/major semi-axes after normalization
	rotated bool    // major axis runs horizontally
	split   int     // prefix length in the renderer's point list
}

// ellipseBegin validates the radii, applies the camera, rejects against
// the clip, and generates the boundary point list into r.ellipse. When it
// returns ok=false nothing further must be drawn; the oversize rectangle
// fallback has then already been handled here.
func (r *Renderer) ellipseBegin(cx, cy, rx, ry float32, c Color) (ellipseGeom, bool) {
	var g ellipseGeom
	if rx <= 0 || ry <= 0 {
		return g, false
	}
	ru := int32(rx + 0.5)
	rv := int32(ry + 0.5)
	if ru > maxEllipseRadius || rv > maxEllipseRadius {
		r.FillRect(Rec(cx-rx, cy-ry, 2*rx+1, 2*ry+1), c)
		return g, false
	}
	g.cx = cx + r.ctx.camera.X
	g.cy = cy + r.ctx.camera.Y
	if r.ctx.clip.rejects(g.cx-float32(ru), g.cy-float32(rv), g.cx+float32(ru)+1, g.cy+float32(rv)+1) {
		return g, false
	}
	g.a, g.b = ru, rv
	if g.a > g.b {
		g.a, g.b = g.b, g.a
		g.rotated = true
	}
	r.ellipse = r.ellipse[:0]
	if g.b >= ellipseWideRadius {
		r.ellipse, g.split = midpointEllipse(int64(g.a), int64(g.b), r.ellipse)
	} else {
		r.ellipse, g.split = midpointEllipse(g.a, g.b, r.ellipse)
	}
	return g, true
}

// ellipseSpanU draws boundary pixels u0..u1 along the minor axis at
// major-axis offset v, in target space.
func (r *Renderer) ellipseSpanU(g ellipseGeom, u0, u1, v int32, c Color) {
	if g.rotated {
		r.orthoSegmentV(g.cx+float32(v), g.cy+float32(u0), g.cy+float32(u1)+1, c)
	} else {
		r.orthoSegmentH(g.cx+float32(u0), g.cx+float32(u1)+1, g.cy+float32(v), c)
	}
}

// ellipseSpanV draws boundary pixels v0..v1 along the major axis at
// minor-axis offset u.
func (r *Renderer) ellipseSpanV(g ellipseGeom, v0, v1, u int32, c Color) {
	if g.rotated {
		r.orthoSegmentH(g.cx+float32(v0), g.cx+float32(v1)+1, g.cy+float32(u), c)
	} else {
		r.orthoSegmentV(g.cx+float32(u), g.cy+float32(v0), g.cy+float32(v1)+1, c)
	}
}

// ellipseRect fills the inclusive generator-space pixel rectangle
// [u0..u1]×[v0..v1].
func (r *Renderer) ellipseRect(g ellipseGeom, u0, u1, v0, v1 int32, c Color) {
	if g.rotated {
		r.fillRectAbs(g.cx+float32(v0), g.cy+float32(u0), g.cx+float32(v1)+1, g.cy+float32(u1)+1, c)
	} else {
		r.fillRectAbs(g.cx+float32(u0), g.cy+float32(v0), g.cx+float32(u1)+1, g.cy+float32(v1)+1, c)
	}
}

// DrawEllipse outlines the ellipse centered at (cx, cy) with pixel radii
// rx and ry. Non-positive radii draw nothing.
func (r *Renderer) DrawEllipse(cx, cy, rx, ry float32, c Color) {
	g, ok := r.ellipseBegin(cx, cy, rx, ry, c)
	if !ok {
		return
	}
	pts := r.ellipse

	// Prefix: one segment per same-v run, mirrored into the quadrants.
	// A run touching an axis collapses its mirror pair into one segment
	// so no boundary pixel rasterizes twice.
	for i := 0; i < g.split; {
		j := i
		for j+1 < g.split && pts[j+1].v == pts[i].v {
			j++
		}
		u0, u1, v := pts[i].u, pts[j].u, pts[i].v
		if u0 == 0 {
			r.ellipseSpanU(g, -u1, u1, v, c)
			if v != 0 {
				r.ellipseSpanU(g, -u1, u1, -v, c)
			}
		} else {
			r.ellipseSpanU(g, u0, u1, v, c)
			r.ellipseSpanU(g, -u1, -u0, v, c)
			if v != 0 {
				r.ellipseSpanU(g, u0, u1, -v, c)
				r.ellipseSpanU(g, -u1, -u0, -v, c)
			}
		}
		i = j + 1
	}

	// Suffix: one segment per same-u run. v decreases through the list,
	// so a run's first point carries its high v.
	for i := g.split; i < len(pts); {
		j := i
		for j+1 < len(pts) && pts[j+1].u == pts[i].u {
			j++
		}
		u, vHi, vLo := pts[i].u, pts[i].v, pts[j].v
		if vLo == 0 {
			r.ellipseSpanV(g, -vHi, vHi, u, c)
			if u != 0 {
				r.ellipseSpanV(g, -vHi, vHi, -u, c)
			}
		} else {
			r.ellipseSpanV(g, vLo, vHi, u, c)
			r.ellipseSpanV(g, -vHi, -vLo, u, c)
			if u != 0 {
				r.ellipseSpanV(g, vLo, vHi, -u, c)
				r.ellipseSpanV(g, -vHi, -vLo, -u, c)
			}
		}
		i = j + 1
	}
}

// FillEllipse fills the ellipse centered at (cx, cy) with pixel radii rx
// and ry. Rows merge into the widest rectangle runs the boundary allows;
// 1-px runs ride the ortho-line path.
func (r *Renderer) FillEllipse(cx, cy, rx, ry float32, c Color) {
	g, ok := r.ellipseBegin(cx, cy, rx, ry, c)
	if !ok {
		return
	}
	pts := r.ellipse

	// When the prefix and suffix meet on the same v, the suffix's span
	// is the wider one and owns that row.
	skipV := int32(-1)
	if g.split < len(pts) {
		skipV = pts[g.split].v
	}

	for i := 0; i < g.split; {
		j := i
		for j+1 < g.split && pts[j+1].v == pts[i].v {
			j++
		}
		u1, v := pts[j].u, pts[i].v
		if v != skipV {
			r.ellipseRect(g, -u1, u1, v, v, c)
			if v != 0 {
				r.ellipseRect(g, -u1, u1, -v, -v, c)
			}
		}
		i = j + 1
	}

	for i := g.split; i < len(pts); {
		j := i
		for j+1 < len(pts) && pts[j+1].u == pts[i].u {
			j++
		}
		u, vHi, vLo := pts[i].u, pts[i].v, pts[j].v
		if vLo == 0 {
			r.ellipseRect(g, -u, u, -vHi, vHi, c)
		} else {
			r.ellipseRect(g, -u, u, vLo, vHi, c)
			r.ellipseRect(g, -u, u, -vHi, -vLo, c)
		}
		i = j + 1
	}
}

// FillEllipseInverse fills the ellipse's bounding rectangle minus the
// ellipse itself: the rectangle strips left and right of every row span.
// Used to darken everything but an elliptical spotlight.
func (r *Renderer) FillEllipseInverse(cx, cy, rx, ry float32, c Color) {
	g, ok := r.ellipseBegin(cx, cy, rx, ry, c)
	if !ok {
		return
	}
	pts := r.ellipse
	skipV := int32(-1)
	if g.split < len(pts) {
		skipV = pts[g.split].v
	}

	for i := 0; i < g.split; {
		j := i
		for j+1 < g.split && pts[j+1].v == pts[i].v {
			j++
		}
		u1, v := pts[j].u, pts[i].v
		if v != skipV && u1 < g.a {
			r.ellipseRect(g, -g.a, -u1-1, v, v, c)
			r.ellipseRect(g, u1+1, g.a, v, v, c)
			if v != 0 {
				r.ellipseRect(g, -g.a, -u1-1, -v, -v, c)
				r.ellipseRect(g, u1+1, g.a, -v, -v, c)
			}
		}
		i = j + 1
	}

	for i := g.split; i < len(pts); {
		j := i
		for j+1 < len(pts) && pts[j+1].u == pts[i].u {
			j++
		}
		u, vHi, vLo := pts[i].u, pts[i].v, pts[j].v
		if u < g.a {
			if vLo == 0 {
				r.ellipseRect(g, -g.a, -u-1, -vHi, vHi, c)
				r.ellipseRect(g, u+1, g.a, -vHi, vHi, c)
			} else {
				r.ellipseRect(g, -g.a, -u-1, vLo, vHi, c)
				r.ellipseRect(g, u+1, g.a, vLo, vHi, c)
				r.ellipseRect(g, -g.a, -u-1, -vHi, -vLo, c)
				r.ellipseRect(g, u+1, g.a, -vHi, -vLo, c)
			}
		}
		i = j + 1
	}
}
