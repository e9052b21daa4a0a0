// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package blit

import (
	"fmt"
	"image"
)

// Renderer is the batched immediate-mode 2D renderer. Create one with
// [New], draw between [Renderer.StartRender] and [Renderer.FrameEnd]
// every frame, and [Renderer.Close] it when done.
//
// A Renderer is not safe for concurrent use: all calls must come from the
// goroutine driving the frame loop.
type Renderer struct {
	driver  Driver
	batch   *BatchBuffer
	ctx     renderContext
	chain   *FrontBufferChain
	effects Effects

	stats      FrameStats
	lastStats  FrameStats
	lastSheet  Sheet
	stateStack []DrawState
	scratch    scratchTexture
	ellipse    []ellipsePoint

	enabled     bool
	diagnostics bool
	closed      bool
}

// New creates a Renderer. Without WithDriver, the driver registered by a
// GPU backend package (blank-import github.com/gogpu/blit/gpu) is opened;
// ErrNoDriver is returned when none is registered.
func New(opts ...Option) (*Renderer, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.width <= 0 || cfg.height <= 0 {
		return nil, fmt.Errorf("blit: invalid size %dx%d", cfg.width, cfg.height)
	}
	// Driver and batch must agree on capacity or a full batch could
	// outgrow the largest driver tier.
	if cfg.maxQuads < 64 {
		cfg.maxQuads = 64
	}
	if cfg.maxQuads > maxAddressableQuads {
		cfg.maxQuads = maxAddressableQuads
	}

	drv := cfg.driver
	if drv == nil {
		o := registeredOpener()
		if o == nil {
			return nil, ErrNoDriver
		}
		var err error
		drv, err = o.Open(cfg.provider)
		if err != nil {
			return nil, fmt.Errorf("blit: opening driver: %w", err)
		}
	}
	if err := drv.Init(cfg.width, cfg.height, cfg.maxQuads); err != nil {
		return nil, fmt.Errorf("blit: initializing driver: %w", err)
	}

	r := &Renderer{
		driver:      drv,
		batch:       newBatchBuffer(cfg.maxQuads, cfg.fixedUV),
		effects:     cfg.effects,
		enabled:     true,
		diagnostics: cfg.diagnostics,
	}
	r.chain = newFrontBufferChain(drv, cfg.width, cfg.height)
	r.ctx.tint = White
	r.ctx.alpha = 1
	r.ctx.clip = FullClip(cfg.width, cfg.height)
	return r, nil
}

// Close flushes nothing, destroys the front-buffer chain and the scratch
// texture, and shuts the driver down. The Renderer must not be used
// afterwards.
func (r *Renderer) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.scratch.release(r.driver)
	r.chain.destroy()
	if err := r.driver.Close(); err != nil {
		return fmt.Errorf("blit: closing driver: %w", err)
	}
	return nil
}

// ============================================================
// Frame lifecycle
// ============================================================

// StartRender begins a frame: frame stats reset, the front-buffer chain
// rewinds to buffer 0, buffer 0 becomes the render target, and the clip
// opens to the full surface. Camera, tint, alpha, and bindings persist
// across frames.
func (r *Renderer) StartRender() {
	r.stats = FrameStats{}
	r.driver.BeginFrame()
	r.chain.Reset()

	t := r.chain.ActiveTarget()
	if err := r.driver.SetRenderTarget(t); err != nil {
		Logger().Warn("blit: frame target bind failed", "error", err)
	}
	bound := r.driver.RenderTarget()
	r.ctx.clip = FullClip(bound.Width(), bound.Height())
}

// FrameEnd flushes the remaining batch, captures the front-buffer effect
// snapshot, draws the diagnostic overlays when enabled, and completes the
// GPU frame. This is the only call that may block on the GPU.
func (r *Renderer) FrameEnd() {
	r.Flush(FlushFrameEnd)
	r.chain.FrameEnd(r.effects)
	r.lastStats = r.stats

	if r.diagnostics {
		r.DrawFlushOverlay(Pt(2, 2))
		r.DrawClipOverlay()
		r.Flush(FlushForced)
	}

	if err := r.driver.EndFrame(); err != nil {
		Logger().Warn("blit: frame end failed", "error", err)
	}
}

// ApplyRenderTimeEffects hands the frame rendered so far to the effects
// collaborator: the batch flushes, the chain captures the outgoing
// buffer's effect snapshot and advances, the new buffer becomes the
// render target, and the collaborator draws the previous buffer through
// its effect. Renderer state is bracketed with StoreState/RestoreState:
// camera, tint, alpha, clip, and material survive untouched. An onscreen
// frame resumes on the new buffer, so later draws paint over the effect
// output; a custom offscreen binding is restored as-is.
//
// Without an effects collaborator this is a no-op.
func (r *Renderer) ApplyRenderTimeEffects() {
	if r.effects == nil {
		return
	}
	r.Flush(FlushEffectApply)

	prev := r.chain.ActiveTarget()
	next := r.chain.NextBuffer(r.effects)
	if next == nil || prev == nil {
		return
	}

	// Rebinding before the state snapshot makes the new buffer the
	// surface the bracket restores to.
	if r.driver.RenderTarget() == prev {
		if err := r.driver.SetRenderTarget(next); err != nil {
			Logger().Warn("blit: effect buffer bind failed", "error", err)
			return
		}
	}

	r.StoreState()
	r.SetOffscreenTarget(next)
	r.SetCamera(Point{})
	r.SetTint(White)
	r.SetAlpha(1)
	r.SetClip(FullClip(next.Width(), next.Height()))
	r.effects.ApplyRenderTimeEffects(prev)
	r.Flush(FlushEffectApply)
	r.RestoreState()
}

// ============================================================
// Toggles and introspection
// ============================================================

// SetEnabled turns rendering on or off. While disabled, primitives still
// accumulate and flushes discard them without touching the GPU. Used when
// the output surface is gone (minimized window) but the game loop runs on.
func (r *Renderer) SetEnabled(enabled bool) { r.enabled = enabled }

// Enabled reports whether rendering is enabled.
func (r *Renderer) Enabled() bool { return r.enabled }

// SetDiagnostics toggles the flush-counter and clip-region overlays drawn
// at FrameEnd.
func (r *Renderer) SetDiagnostics(on bool) { r.diagnostics = on }

// Diagnostics reports whether the overlays are enabled.
func (r *Renderer) Diagnostics() bool { return r.diagnostics }

// Stats returns the statistics of the last completed frame.
func (r *Renderer) Stats() FrameStats { return r.lastStats }

// FrontBuffers returns the front-buffer chain for the presentation pass.
func (r *Renderer) FrontBuffers() *FrontBufferChain { return r.chain }

// ReadPixels reads a target's pixels back as an RGBA image; a nil target
// reads the currently bound one. Only drivers implementing TargetReader
// support readback.
func (r *Renderer) ReadPixels(t Target) (*image.RGBA, error) {
	if t == nil {
		t = r.driver.RenderTarget()
	}
	reader, ok := r.driver.(TargetReader)
	if !ok {
		return nil, fmt.Errorf("blit: driver %T does not support readback", r.driver)
	}
	data, err := reader.ReadTarget(t)
	if err != nil {
		return nil, fmt.Errorf("blit: reading target: %w", err)
	}
	img := image.NewRGBA(image.Rect(0, 0, t.Width(), t.Height()))
	copy(img.Pix, data)
	return img, nil
}
