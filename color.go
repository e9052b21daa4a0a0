// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package blit

import "image/color"

// Color is an 8-bit-per-channel RGBA color with straight (non-premultiplied)
// alpha. Vertex colors are stored already modulated by the renderer's
// current tint; the premultiply against alpha happens in the shader.
type Color struct {
	R, G, B, A uint8
}

// Predefined colors.
var (
	White       = Color{255, 255, 255, 255}
	Black       = Color{0, 0, 0, 255}
	Transparent = Color{0, 0, 0, 0}
)

// RGB creates an opaque color from 8-bit components.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// RGBA creates a color from 8-bit components.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// FromColor converts a standard color.Color to a blit Color.
func FromColor(c color.Color) Color {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return Color{}
	}
	// color.Color is alpha-premultiplied 16-bit; undo both.
	return Color{
		R: uint8((r * 0xffff / a) >> 8),
		G: uint8((g * 0xffff / a) >> 8),
		B: uint8((b * 0xffff / a) >> 8),
		A: uint8(a >> 8),
	}
}

// Color converts to the standard color.Color interface.
func (c Color) Color() color.Color {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Modulate returns the per-channel product of two colors, the operation a
// tint performs on a primitive's own color.
func (c Color) Modulate(o Color) Color {
	return Color{
		R: mulChan(c.R, o.R),
		G: mulChan(c.G, o.G),
		B: mulChan(c.B, o.B),
		A: mulChan(c.A, o.A),
	}
}

// WithAlpha returns the color with its alpha channel scaled by f,
// clamped to [0, 1].
func (c Color) WithAlpha(f float32) Color {
	if f <= 0 {
		c.A = 0
		return c
	}
	if f >= 1 {
		return c
	}
	c.A = uint8(float32(c.A)*f + 0.5)
	return c
}

// mulChan multiplies two 8-bit channels with correct rounding:
// (a*b + 127) / 255 computed as the classic shift approximation.
func mulChan(a, b uint8) uint8 {
	t := uint32(a)*uint32(b) + 128
	return uint8((t + (t >> 8)) >> 8)
}
