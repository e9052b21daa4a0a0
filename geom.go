// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package blit

import "github.com/chewxy/math32"

// Point represents a 2D position or displacement in pixel space.
// blit works in float32 end to end, matching the GPU vertex stream.
type Point struct {
	X, Y float32
}

// Pt is a convenience function to create a Point.
func Pt(x, y float32) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the point scaled by a scalar.
func (p Point) Mul(s float32) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	X, Y, W, H float32
}

// Rec is a convenience function to create a Rect.
func Rec(x, y, w, h float32) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Empty reports whether the rectangle has non-positive width or height.
// Empty rectangles are silent no-ops everywhere in blit.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Max returns the bottom-right corner (X+W, Y+H).
func (r Rect) Max() Point {
	return Point{X: r.X + r.W, Y: r.Y + r.H}
}

// Translate returns the rectangle shifted by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{X: r.X + d.X, Y: r.Y + d.Y, W: r.W, H: r.H}
}

// ClipRegion is an inclusive pixel rectangle in the active render target's
// space. Primitives wholly outside it are rejected before any buffer write.
// The zero value is an empty region; use FullClip or SetClip to obtain a
// usable one.
type ClipRegion struct {
	X0, Y0, X1, Y1 int32
}

// FullClip returns the clip region covering an entire w-by-h target.
func FullClip(w, h int) ClipRegion {
	return ClipRegion{X0: 0, Y0: 0, X1: int32(w) - 1, Y1: int32(h) - 1}
}

// Empty reports whether the region encloses no pixels.
func (c ClipRegion) Empty() bool {
	return c.X1 < c.X0 || c.Y1 < c.Y0
}

// contains reports whether the pixel (x, y) lies inside the region.
func (c ClipRegion) contains(x, y float32) bool {
	return x >= float32(c.X0) && x <= float32(c.X1)+1 &&
		y >= float32(c.Y0) && y <= float32(c.Y1)+1
}

// rejects reports whether an axis-aligned bounding box given by its
// extremes lies entirely outside the region. Every primitive runs this
// early-rejection test before touching the batch.
func (c ClipRegion) rejects(minX, minY, maxX, maxY float32) bool {
	return maxX < float32(c.X0) || minX > float32(c.X1)+1 ||
		maxY < float32(c.Y0) || minY > float32(c.Y1)+1
}

// rejectsRect is the Rect form of rejects.
func (c ClipRegion) rejectsRect(r Rect) bool {
	return c.rejects(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// ============================================================
// Affine transform
// ============================================================

// Affine is a minimal 2D rotate-plus-translate transform. blit never needs
// scale, shear, or a transform stack: shape rotation composes as rotate
// about the origin, translate back through the pivot, translate to the
// draw position, and that is the whole repertoire.
type Affine struct {
	Cos, Sin float32 // rotation
	Tx, Ty   float32 // translation
}

// RotateAbout returns the transform that rotates by angle radians around
// the pivot point and then translates by offset.
func RotateAbout(angle float32, pivot, offset Point) Affine {
	sin, cos := math32.Sincos(angle)
	// p' = R*(p - pivot) + pivot + offset, folded into one translation.
	return Affine{
		Cos: cos,
		Sin: sin,
		Tx:  pivot.X - cos*pivot.X + sin*pivot.Y + offset.X,
		Ty:  pivot.Y - sin*pivot.X - cos*pivot.Y + offset.Y,
	}
}

// Translation returns the pure-translation transform.
func Translation(offset Point) Affine {
	return Affine{Cos: 1, Tx: offset.X, Ty: offset.Y}
}

// Apply transforms the point (x, y).
func (a Affine) Apply(x, y float32) (float32, float32) {
	return a.Cos*x - a.Sin*y + a.Tx, a.Sin*x + a.Cos*y + a.Ty
}

// ApplyPt transforms a Point.
func (a Affine) ApplyPt(p Point) Point {
	x, y := a.Apply(p.X, p.Y)
	return Point{X: x, Y: y}
}

// rotatedBounds returns the axis-aligned bounds of the four corners of the
// w-by-h rectangle at origin transformed by a. Used for clip rejection of
// rotated shapes, which must test the rotated corners, not the unrotated
// box.
func (a Affine) rotatedBounds(w, h float32) (minX, minY, maxX, maxY float32) {
	x0, y0 := a.Apply(0, 0)
	x1, y1 := a.Apply(w, 0)
	x2, y2 := a.Apply(w, h)
	x3, y3 := a.Apply(0, h)
	minX = math32.Min(math32.Min(x0, x1), math32.Min(x2, x3))
	maxX = math32.Max(math32.Max(x0, x1), math32.Max(x2, x3))
	minY = math32.Min(math32.Min(y0, y1), math32.Min(y2, y3))
	maxY = math32.Max(math32.Max(y0, y1), math32.Max(y2, y3))
	return minX, minY, maxX, maxY
}
