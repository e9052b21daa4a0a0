// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package blit

import (
	"fmt"
	"strings"
)

// The overlays render with the renderer's own primitives: pixels for
// glyphs, a fill for the backdrop, an outline for the clip. They draw in
// screen space under a full clip, bracketing the caller's state with
// StoreState/RestoreState so a narrowed clip or moved camera never hides
// them.

var (
	overlayText     = White
	overlayBackdrop = RGBA(0, 0, 0, 200)
	overlayClip     = RGB(255, 0, 255)
)

// Glyph cell metrics: 3x5 bitmaps in a 4x6 cell.
const (
	tinyCharAdvance = 4
	tinyLineAdvance = 6
)

// tinyFont holds the builtin glyph bitmaps, digits then letters: five
// rows of three bits, top row in the high bits, left column in each
// row's high bit.
var tinyFont = [...]uint16{
	0b111_101_101_101_111, // 0
	0b010_110_010_010_111, // 1
	0b111_001_111_100_111, // 2
	0b111_001_011_001_111, // 3
	0b101_101_111_001_001, // 4
	0b111_100_111_001_111, // 5
	0b111_100_111_101_111, // 6
	0b111_001_010_010_010, // 7
	0b111_101_111_101_111, // 8
	0b111_101_111_001_111, // 9
	0b010_101_111_101_101, // A
	0b110_101_110_101_110, // B
	0b011_100_100_100_011, // C
	0b110_101_101_101_110, // D
	0b111_100_110_100_111, // E
	0b111_100_110_100_100, // F
	0b011_100_101_101_011, // G
	0b101_101_111_101_101, // H
	0b111_010_010_010_111, // I
	0b001_001_001_101_010, // J
	0b101_110_100_110_101, // K
	0b100_100_100_100_111, // L
	0b101_111_101_101_101, // M
	0b110_101_101_101_101, // N
	0b010_101_101_101_010, // O
	0b110_101_110_100_100, // P
	0b010_101_101_110_011, // Q
	0b110_101_110_110_101, // R
	0b011_100_010_001_110, // S
	0b111_010_010_010_010, // T
	0b101_101_101_101_111, // U
	0b101_101_101_101_010, // V
	0b101_101_101_111_101, // W
	0b101_101_010_101_101, // X
	0b101_101_010_010_010, // Y
	0b111_001_010_100_111, // Z
}

// tinyGlyph resolves one character's bitmap. Characters without a glyph
// (including space) report false and render as a gap.
func tinyGlyph(ch byte) (uint16, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		return tinyFont[ch-'0'], true
	case ch >= 'A' && ch <= 'Z':
		return tinyFont[10+ch-'A'], true
	case ch >= 'a' && ch <= 'z':
		return tinyFont[10+ch-'a'], true
	}
	return 0, false
}

// drawTinyText renders one line of builtin-glyph text at (x, y) in
// screen space.
func (r *Renderer) drawTinyText(x, y float32, s string, c Color) {
	for i := 0; i < len(s); i++ {
		g, ok := tinyGlyph(s[i])
		if !ok {
			x += tinyCharAdvance
			continue
		}
		for row := 0; row < 5; row++ {
			bits := g >> (uint(4-row) * 3)
			for col := 0; col < 3; col++ {
				if bits&(1<<uint(2-col)) != 0 {
					r.pixelAt(x+float32(col), y+float32(row), c)
				}
			}
		}
		x += tinyCharAdvance
	}
}

// flushOverlayLines formats one frame's flush tallies, a summary line
// followed by one line per reason that fired.
func flushOverlayLines(s FrameStats) []string {
	lines := []string{fmt.Sprintf("DRAWS %d QUADS %d", s.DrawCalls, s.Quads)}
	for reason, n := range s.Reasons {
		if n == 0 {
			continue
		}
		name := strings.ToUpper(FlushReason(reason).String())
		lines = append(lines, fmt.Sprintf("%s %d", name, n))
	}
	return lines
}

// DrawFlushOverlay renders the previous frame's flush tallies as a text
// block at origin. FrameEnd draws it automatically when diagnostics are
// on; calling it directly works in any frame phase.
func (r *Renderer) DrawFlushOverlay(origin Point) {
	lines := flushOverlayLines(r.lastStats)

	r.StoreState()
	r.SetCamera(Point{})
	r.SetTint(White)
	r.SetAlpha(1)
	r.ResetClip()

	w := 0
	for _, ln := range lines {
		if len(ln) > w {
			w = len(ln)
		}
	}
	r.FillRect(Rec(origin.X-1, origin.Y-1,
		float32(w*tinyCharAdvance)+1, float32(len(lines)*tinyLineAdvance)+1), overlayBackdrop)
	for i, ln := range lines {
		r.drawTinyText(origin.X, origin.Y+float32(i*tinyLineAdvance), ln, overlayText)
	}

	r.RestoreState()
}

// DrawClipOverlay outlines the active clip rectangle so narrowed clips
// are visible while debugging. A full-surface clip draws nothing.
func (r *Renderer) DrawClipOverlay() {
	clip := r.ctx.clip
	t := r.driver.RenderTarget()
	if clip == FullClip(t.Width(), t.Height()) {
		return
	}

	r.StoreState()
	r.SetCamera(Point{})
	r.SetTint(White)
	r.SetAlpha(1)
	r.ResetClip()
	r.DrawRect(Rec(float32(clip.X0), float32(clip.Y0),
		float32(clip.X1-clip.X0+1), float32(clip.Y1-clip.Y0+1)), overlayClip)
	r.RestoreState()
}
