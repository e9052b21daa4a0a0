// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package blit

import (
	"math"
	"testing"
)

func TestMidpointEllipseInvariants(t *testing.T) {
	cases := [][2]int32{{1, 1}, {2, 2}, {5, 5}, {4, 9}, {1, 12}, {40, 90}, {127, 127}, {3, 127}}
	for _, c := range cases {
		a, b := c[0], c[1]
		pts, split := midpointEllipse(a, b, nil)
		if len(pts) == 0 {
			t.Fatalf("(%d,%d): no points", a, b)
		}
		if first := pts[0]; first.u != 0 || first.v != b {
			t.Errorf("(%d,%d): first point = %+v, want (0,%d)", a, b, first, b)
		}
		if last := pts[len(pts)-1]; last.u != a || last.v != 0 {
			t.Errorf("(%d,%d): last point = %+v, want (%d,0)", a, b, last, a)
		}
		// Prefix: u advances every point, so u equals the index.
		for i := 0; i < split; i++ {
			if pts[i].u != int32(i) {
				t.Fatalf("(%d,%d): prefix point %d has u=%d", a, b, i, pts[i].u)
			}
		}
		// Suffix: v retreats exactly one per point.
		for i := split; i < len(pts); i++ {
			if want := pts[split].v - int32(i-split); pts[i].v != want {
				t.Fatalf("(%d,%d): suffix point %d has v=%d, want %d", a, b, i, pts[i].v, want)
			}
		}
		// Monotonic overall.
		for i := 1; i < len(pts); i++ {
			if pts[i].u < pts[i-1].u || pts[i].v > pts[i-1].v {
				t.Fatalf("(%d,%d): points not monotonic at %d: %+v -> %+v", a, b, i, pts[i-1], pts[i])
			}
		}
	}
}

func TestMidpointEllipseCircleDiagonalSymmetry(t *testing.T) {
	// A circle's quadrant arc read backwards with axes swapped is the
	// same arc. This also pins the prefix/suffix split to the diagonal.
	for _, r := range []int32{1, 2, 3, 5, 10, 33, 64, 127, 150} {
		var pts []ellipsePoint
		var split int
		if r >= ellipseWideRadius {
			pts, split = midpointEllipse(int64(r), int64(r), nil)
		} else {
			pts, split = midpointEllipse(r, r, nil)
		}
		n := len(pts)
		for i := 0; i < n; i++ {
			m := pts[n-1-i]
			if pts[i].u != m.v || pts[i].v != m.u {
				t.Fatalf("r=%d: point %d = %+v, mirror %+v", r, i, pts[i], m)
			}
		}
		if split == 0 || split == n {
			t.Errorf("r=%d: split = %d of %d, want interior", r, split, n)
		}
	}
}

func TestMidpointEllipseWideArithmeticAgrees(t *testing.T) {
	// Below the 64-bit threshold both widths are exact; they must agree
	// so the switch at 128 is invisible.
	cases := [][2]int32{{1, 1}, {5, 5}, {4, 9}, {40, 90}, {3, 127}, {127, 127}}
	for _, c := range cases {
		p32, s32 := midpointEllipse(c[0], c[1], nil)
		p64, s64 := midpointEllipse(int64(c[0]), int64(c[1]), nil)
		if s32 != s64 || len(p32) != len(p64) {
			t.Fatalf("(%d,%d): 32-bit %d/%d points, 64-bit %d/%d", c[0], c[1], s32, len(p32), s64, len(p64))
		}
		for i := range p32 {
			if p32[i] != p64[i] {
				t.Fatalf("(%d,%d): point %d differs: %+v vs %+v", c[0], c[1], i, p32[i], p64[i])
			}
		}
	}
}

// batchCoverage reconstructs per-pixel coverage counts from the live
// batch. It understands exactly the geometry the untextured consumers
// emit: ortho triangles and axis-aligned quads.
func batchCoverage(t *testing.T, r *Renderer) map[[2]int]int {
	t.Helper()
	cov := map[[2]int]int{}
	verts := batchXY(r)
	idx := r.batch.idx[:r.batch.CurrentIndex()]
	rd := func(v float32) int { return int(math.Round(float64(v))) }
	for k := 0; k < len(idx); k += 3 {
		base := idx[k]
		if k+5 < len(idx) && idx[k+1] == base+1 && idx[k+2] == base+2 &&
			idx[k+3] == base+2 && idx[k+4] == base+3 && idx[k+5] == base {
			// Axis-aligned quad.
			x0, y0 := rd(verts[base][0]), rd(verts[base][1])
			x1, y1 := rd(verts[base+2][0]), rd(verts[base+2][1])
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					cov[[2]int{x, y}]++
				}
			}
			k += 3
			continue
		}
		a, b := verts[idx[k]], verts[idx[k+1]]
		if near(a[1], b[1]) {
			// Horizontal ortho triangle.
			xl := rd(a[0] - 0.1)
			xr := rd((b[0] + a[0] + 0.1) / 2)
			y := rd(a[1] + 0.1)
			for x := xl; x < xr; x++ {
				cov[[2]int{x, y}]++
			}
		} else {
			// Vertical ortho triangle.
			x := rd(a[0] + 0.1)
			yt := rd(a[1] - 0.1)
			yb := rd((b[1] + a[1] + 0.1) / 2)
			for y := yt; y < yb; y++ {
				cov[[2]int{x, y}]++
			}
		}
	}
	return cov
}

func TestFillEllipsePlusInverseTileTheBox(t *testing.T) {
	cases := []struct {
		name   string
		rx, ry float32
	}{
		{"circle", 12, 12},
		{"wide", 20, 9},
		{"tall", 7, 15},
		{"thin", 1, 10},
		{"flat", 16, 1},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			const cx, cy = 60, 60
			fr, _ := newTestRenderer(t)
			fr.FillEllipse(cx, cy, tt.rx, tt.ry, White)
			fill := batchCoverage(t, fr)

			ir, _ := newTestRenderer(t)
			ir.FillEllipseInverse(cx, cy, tt.rx, tt.ry, White)
			inv := batchCoverage(t, ir)

			for p, n := range fill {
				if n != 1 {
					t.Fatalf("fill covers %v %d times", p, n)
				}
			}
			for p, n := range inv {
				if n != 1 {
					t.Fatalf("inverse covers %v %d times", p, n)
				}
				if fill[p] != 0 {
					t.Fatalf("pixel %v in both fill and inverse", p)
				}
			}
			// Together they tile the bounding box exactly.
			a, b := int(tt.rx), int(tt.ry)
			for y := -b; y <= b; y++ {
				for x := -a; x <= a; x++ {
					p := [2]int{cx + x, cy + y}
					if fill[p]+inv[p] != 1 {
						t.Fatalf("pixel %v covered %d times across fill+inverse", p, fill[p]+inv[p])
					}
				}
			}
			if total := len(fill) + len(inv); total != (2*a+1)*(2*b+1) {
				t.Errorf("fill+inverse covered %d pixels, bounding box has %d", total, (2*a+1)*(2*b+1))
			}
		})
	}
}

func TestDrawEllipseOutlinePixels(t *testing.T) {
	cases := []struct {
		name   string
		rx, ry float32
	}{
		{"circle", 12, 12},
		{"wide", 20, 9},
		{"tall", 7, 15},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			const cx, cy = 60, 60
			or, _ := newTestRenderer(t)
			or.DrawEllipse(cx, cy, tt.rx, tt.ry, White)
			out := batchCoverage(t, or)

			fr, _ := newTestRenderer(t)
			fr.FillEllipse(cx, cy, tt.rx, tt.ry, White)
			fill := batchCoverage(t, fr)

			for p, n := range out {
				if n != 1 {
					t.Fatalf("outline covers %v %d times", p, n)
				}
				if fill[p] == 0 {
					t.Fatalf("outline pixel %v outside the fill", p)
				}
			}
			// The four axis extremes are on the outline.
			a, b := int(tt.rx), int(tt.ry)
			for _, p := range [][2]int{{cx + a, cy}, {cx - a, cy}, {cx, cy + b}, {cx, cy - b}} {
				if out[p] != 1 {
					t.Errorf("axis extreme %v not on outline", p)
				}
			}
		})
	}
}

func TestFillEllipseTinyCircleGeometry(t *testing.T) {
	// radius 2 at (30,30): two 1-px rows at v=±2 on the ortho path and
	// one merged center rectangle spanning rows 28..32.
	r, _ := newTestRenderer(t)
	r.FillEllipse(30, 30, 2, 2, White)
	if got := r.batch.CurrentVertex(); got != 10 {
		t.Fatalf("vertex count = %d, want 10 (3+3+4)", got)
	}
	wantXY(t, batchXY(r), [][2]float32{
		{29.1, 31.9}, {34.8, 31.9}, {29.1, 33.1},
		{29.1, 27.9}, {34.8, 27.9}, {29.1, 29.1},
		{28, 29}, {33, 29}, {33, 32}, {28, 32},
	})
}

func TestFillEllipseInverseTinyCircleCorners(t *testing.T) {
	// radius 2: the complement of the disc in its 5x5 box is exactly
	// the four corner pixels.
	r, _ := newTestRenderer(t)
	r.FillEllipseInverse(30, 30, 2, 2, White)
	cov := batchCoverage(t, r)
	want := [][2]int{{28, 32}, {32, 32}, {28, 28}, {32, 28}}
	if len(cov) != len(want) {
		t.Fatalf("inverse covered %d pixels %v, want 4 corners", len(cov), cov)
	}
	for _, p := range want {
		if cov[p] != 1 {
			t.Errorf("corner %v not covered", p)
		}
	}
}

func TestEllipseSwappedAxesSameGeometryCount(t *testing.T) {
	// Swapping the radii only toggles the internal rotated flag; the
	// point list and the vertex count are identical.
	r1, _ := newTestRenderer(t)
	r1.DrawEllipse(100, 80, 10, 20, White)
	n1 := r1.batch.CurrentVertex()
	if n1 == 0 {
		t.Fatal("no outline vertices")
	}
	r2, _ := newTestRenderer(t)
	r2.DrawEllipse(100, 80, 20, 10, White)
	if n2 := r2.batch.CurrentVertex(); n2 != n1 {
		t.Errorf("swapped-axis outline emits %d vertices, original %d", n2, n1)
	}
}

func TestEllipseInvalidRadiusNoOp(t *testing.T) {
	r, _ := newTestRenderer(t)
	r.DrawEllipse(50, 50, 0, 10, White)
	r.DrawEllipse(50, 50, 10, -1, White)
	r.FillEllipse(50, 50, -5, 5, White)
	r.FillEllipseInverse(50, 50, 0, 0, White)
	if got := r.batch.CurrentVertex(); got != 0 {
		t.Fatalf("vertex count = %d, want 0 for invalid radii", got)
	}
}

func TestEllipseOversizeFallsBackToRect(t *testing.T) {
	r, _ := newTestRenderer(t)
	r.FillEllipse(50, 50, 20000, 10, White)
	if got := r.batch.CurrentVertex(); got != 4 {
		t.Fatalf("vertex count = %d, want 4 (bounding-rect fallback)", got)
	}
	wantXY(t, batchXY(r), [][2]float32{
		{50 - 20000, 40}, {50 + 20001, 40}, {50 + 20001, 61}, {50 - 20000, 61},
	})
}

func TestEllipseClipReject(t *testing.T) {
	r, _ := newTestRenderer(t)
	r.FillEllipse(2000, 2000, 30, 30, White)
	r.DrawEllipse(-2000, 50, 30, 30, White)
	if got := r.batch.CurrentVertex(); got != 0 {
		t.Fatalf("vertex count = %d, want 0 for clipped ellipses", got)
	}
}

func TestEllipseChunkedFlush(t *testing.T) {
	// A large ellipse against a small batch must flush between chunks
	// and keep drawing; nothing is dropped.
	r, drv := newTestRenderer(t, WithMaxQuads(64))
	r.FillEllipse(100, 80, 70, 60, White)
	if len(drv.uploads) < 2 {
		t.Fatalf("uploads = %d, want at least 2 (chunked flushes)", len(drv.uploads))
	}
	if got := r.stats.Reasons[FlushBatchFull]; got == 0 {
		t.Error("no batch-full flushes recorded")
	}
}
