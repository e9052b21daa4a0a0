// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package blit

// EffectState is the snapshot of effect parameters captured when a front
// buffer is vacated. The presentation pass reads it to know how each
// buffer's content was meant to be composited. The renderer never
// interprets the fields; it only copies them at the capture points.
type EffectState struct {
	// Material the effects collaborator had active, nil for none.
	Material *Material

	// Params is a generic parameter vector for the effects pipeline
	// (fade levels, displacement strength, whatever the effect reads).
	Params [4]float32
}

// Effects is the render-time effects collaborator. blit owns when effects
// run and which buffers they read and write; the collaborator owns what
// the effects actually do.
type Effects interface {
	// ApplyRenderTimeEffects draws src through the active effect into
	// the renderer's current target. Called with clean renderer state
	// (identity camera, white tint, full alpha, full clip).
	ApplyRenderTimeEffects(src Target)

	// CopyState writes the collaborator's current effect parameters
	// into dst. Called when a front buffer is vacated and at FrameEnd.
	CopyState(dst *EffectState)
}

// frontBuffer pairs a chain render target with the effect snapshot
// captured when the buffer was handed off.
type frontBuffer struct {
	target Target
	state  EffectState
}

// FrontBufferChain sequences post-render effects without feedback
// artifacts: each effect samples the previous buffer while drawing into
// the next, so no pass ever reads the target it writes. Buffers are
// created lazily, sized to the display, and kept until a resize.
type FrontBufferChain struct {
	driver  Driver
	width   int
	height  int
	buffers []frontBuffer
	current int
	inUse   int
}

// newFrontBufferChain creates an empty chain whose buffers will be w by h.
func newFrontBufferChain(d Driver, w, h int) *FrontBufferChain {
	return &FrontBufferChain{driver: d, width: w, height: h}
}

// Len returns how many buffers exist (high-water mark across frames).
func (c *FrontBufferChain) Len() int { return len(c.buffers) }

// InUse returns how many buffers this frame has drawn into so far. The
// presentation pass composites exactly the first InUse buffers.
func (c *FrontBufferChain) InUse() int { return c.inUse }

// Size returns the buffer dimensions.
func (c *FrontBufferChain) Size() (w, h int) { return c.width, c.height }

// Buffer returns the target at index i, or nil when it does not exist.
// Targets are exposed for sampling only; drawing into them is the
// renderer's job.
func (c *FrontBufferChain) Buffer(i int) Target {
	if i < 0 || i >= len(c.buffers) {
		return nil
	}
	return c.buffers[i].target
}

// Snapshot returns the effect state captured for buffer i.
func (c *FrontBufferChain) Snapshot(i int) EffectState {
	if i < 0 || i >= len(c.buffers) {
		return EffectState{}
	}
	return c.buffers[i].state
}

// ActiveIndex returns the index of the buffer currently receiving draws.
func (c *FrontBufferChain) ActiveIndex() int { return c.current }

// ActiveTarget returns the current buffer's render target, creating the
// buffer if it does not exist yet. Returns nil when allocation fails;
// the failure is logged and rendering continues on the previous target.
func (c *FrontBufferChain) ActiveTarget() Target {
	for len(c.buffers) <= c.current {
		t, err := c.driver.CreateTarget(c.width, c.height)
		if err != nil {
			Logger().Warn("blit: front buffer allocation failed",
				"index", len(c.buffers), "error", err)
			return nil
		}
		c.buffers = append(c.buffers, frontBuffer{target: t})
	}
	if c.current+1 > c.inUse {
		c.inUse = c.current + 1
	}
	return c.buffers[c.current].target
}

// NextBuffer captures the outgoing buffer's effect snapshot from e,
// advances the chain, and returns the new active target (created lazily).
func (c *FrontBufferChain) NextBuffer(e Effects) Target {
	if c.current < len(c.buffers) && e != nil {
		e.CopyState(&c.buffers[c.current].state)
	}
	c.current++
	return c.ActiveTarget()
}

// Reset rewinds the chain to buffer 0 for a new frame. Buffers and their
// snapshots survive; only the pointer and the in-use count rewind.
func (c *FrontBufferChain) Reset() {
	c.current = 0
	c.inUse = 0
}

// FrameEnd captures the current buffer's effect snapshot without
// advancing, so the presentation pass sees parameters for every buffer
// including the last.
func (c *FrontBufferChain) FrameEnd(e Effects) {
	if c.current < len(c.buffers) && e != nil {
		e.CopyState(&c.buffers[c.current].state)
	}
}

// Resize recreates every existing buffer at the new size. If one of them
// is bound as the active render target, the binding is preserved across
// the recreation.
func (c *FrontBufferChain) Resize(w, h int) {
	if w == c.width && h == c.height {
		return
	}
	c.width = w
	c.height = h

	bound := c.driver.RenderTarget()
	boundIdx := -1
	for i := range c.buffers {
		if c.buffers[i].target == bound {
			boundIdx = i
		}
	}

	for i := range c.buffers {
		old := c.buffers[i].target
		t, err := c.driver.CreateTarget(w, h)
		if err != nil {
			Logger().Warn("blit: front buffer resize failed",
				"index", i, "error", err)
			continue
		}
		c.driver.DestroyTarget(old)
		c.buffers[i].target = t
	}

	if boundIdx >= 0 {
		if err := c.driver.SetRenderTarget(c.buffers[boundIdx].target); err != nil {
			Logger().Warn("blit: rebinding resized front buffer failed",
				"index", boundIdx, "error", err)
		}
	}
}

// destroy releases all chain targets.
func (c *FrontBufferChain) destroy() {
	for i := range c.buffers {
		c.driver.DestroyTarget(c.buffers[i].target)
	}
	c.buffers = nil
	c.current = 0
	c.inUse = 0
}
