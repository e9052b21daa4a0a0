// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package blit

import "log/slog"

// Option configures a Renderer during creation.
//
// Example:
//
//	// Default: 640x360 backbuffer, 8192-quad batch, registered GPU driver.
//	r, err := blit.New()
//
//	// Headless with an injected driver (tests, tooling):
//	r, err := blit.New(blit.WithDriver(fake), blit.WithSize(320, 180))
type Option func(*config)

// config holds the resolved configuration for Renderer creation.
type config struct {
	width, height int
	maxQuads      int
	fixedUV       bool
	diagnostics   bool
	driver        Driver
	provider      any
	effects       Effects
}

// defaultConfig returns the default renderer configuration.
func defaultConfig() config {
	return config{
		width:    640,
		height:   360,
		maxQuads: DefaultMaxQuads,
	}
}

// WithSize sets the default render target size in pixels.
// The default is 640x360.
func WithSize(w, h int) Option {
	return func(c *config) {
		c.width = w
		c.height = h
	}
}

// WithMaxQuads sets the batch capacity in quads. One quad is 4 vertices
// and 6 indices; every other primitive is measured in the same units.
// Larger batches flush less often but upload more per flush. The value is
// clamped so the vertex count stays addressable by 16-bit indices.
// The default is DefaultMaxQuads.
func WithMaxQuads(n int) Option {
	return func(c *config) {
		c.maxQuads = n
	}
}

// WithFixedPointUV stores texture coordinates as 16-bit fixed point
// (0..65535 over the normalized range) instead of float32, halving UV
// memory in the batch. Call-site semantics are identical in both modes;
// the GPU vertex stream is always float32.
func WithFixedPointUV() Option {
	return func(c *config) {
		c.fixedUV = true
	}
}

// WithDiagnostics enables the flush-counter and clip-region overlays
// from the first frame. The overlays can also be toggled at runtime with
// [Renderer.SetDiagnostics].
func WithDiagnostics() Option {
	return func(c *config) {
		c.diagnostics = true
	}
}

// WithLogger sets the package logger before construction, equivalent to
// calling [SetLogger] first. Useful to capture driver initialization logs.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		SetLogger(l)
	}
}

// WithDriver injects a Driver directly, bypassing the registered opener.
// Use this for headless operation and tests.
func WithDriver(d Driver) Option {
	return func(c *config) {
		c.driver = d
	}
}

// WithDevice passes a host GPU device to the driver opener, typically a
// gpucontext.DeviceProvider from the windowing layer, so the renderer
// shares the host's device and queue instead of opening its own adapter.
func WithDevice(provider any) Option {
	return func(c *config) {
		c.provider = provider
	}
}

// WithEffects sets the render-time effects collaborator consumed by
// [Renderer.ApplyRenderTimeEffects] and the front-buffer chain snapshots.
func WithEffects(e Effects) Option {
	return func(c *config) {
		c.effects = e
	}
}
