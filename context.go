// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package blit

// renderContext is the per-frame mutable draw state owned by one Renderer.
// The cached previous-binding fields make texture, sheet, and material
// switches change-detectors: rebinding the same value is free, a real
// change flushes pending geometry first so no draw call ever mixes
// geometry meant for two bindings.
type renderContext struct {
	camera Point
	clip   ClipRegion
	tint   Color
	alpha  float32

	texture  Texture     // sample texture for pending geometry
	material *Material   // nil = default material
	shader   ShaderAsset // nil = no custom shader
	sheet    Sheet       // nil = no sprite sheet
}

// DrawState is a snapshot of the renderer state captured by StoreState and
// reinstated by RestoreState. Snapshots bracket internal operations like
// effect application and prepared-mesh draws; they are never persisted
// beyond one call.
type DrawState struct {
	Alpha    float32
	Camera   Point
	Clip     ClipRegion
	Tint     Color
	Target   Target
	Material *Material
}

// ============================================================
// Camera / tint / alpha: write-time state, no flush required
// ============================================================

// SetCamera sets the camera offset added to every world-space primitive.
// Camera changes apply at vertex-write time, so they never force a flush.
func (r *Renderer) SetCamera(offset Point) { r.ctx.camera = offset }

// Camera returns the current camera offset.
func (r *Renderer) Camera() Point { return r.ctx.camera }

// SetTint sets the multiplicative tint applied to every primitive color.
// Tint is baked into vertex colors as they are written, so mid-batch
// changes are exact without flushing.
func (r *Renderer) SetTint(c Color) { r.ctx.tint = c }

// Tint returns the current tint color.
func (r *Renderer) Tint() Color { return r.ctx.tint }

// SetAlpha sets the global opacity in [0, 1], baked into vertex alpha at
// write time exactly like the tint.
func (r *Renderer) SetAlpha(a float32) {
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	r.ctx.alpha = a
}

// Alpha returns the global opacity.
func (r *Renderer) Alpha() float32 { return r.ctx.alpha }

// vertexColor folds the current tint and alpha into a primitive color.
// Every primitive routes its color through here before storage.
func (r *Renderer) vertexColor(c Color) Color {
	if r.ctx.tint != White {
		c = c.Modulate(r.ctx.tint)
	}
	if r.ctx.alpha < 1 {
		c = c.WithAlpha(r.ctx.alpha)
	}
	return c
}

// ============================================================
// Clip
// ============================================================

// SetClip sets the inclusive clip rectangle in the active target's pixel
// space. A region with negative extent (X1 < X0 or Y1 < Y0) leaves the
// clip unchanged. Changing the clip flushes pending geometry so it still
// draws under the clip it was submitted with.
func (r *Renderer) SetClip(c ClipRegion) {
	if c.Empty() {
		return
	}
	if c == r.ctx.clip {
		return
	}
	r.Flush(FlushClipChange)
	r.ctx.clip = c
}

// Clip returns the current clip rectangle.
func (r *Renderer) Clip() ClipRegion { return r.ctx.clip }

// ResetClip restores the clip to the full extent of the active target.
func (r *Renderer) ResetClip() {
	t := r.driver.RenderTarget()
	r.SetClip(FullClip(t.Width(), t.Height()))
}

// ============================================================
// Texture / sheet / material / shader: change-detector bindings
// ============================================================

// setTexture binds the sample texture for subsequent primitives, flushing
// first when it actually changes.
func (r *Renderer) setTexture(t Texture) {
	if t == r.ctx.texture {
		return
	}
	r.Flush(FlushSetTexture)
	r.ctx.texture = t
}

// SetSpriteSheet binds the sprite sheet whose texture subsequent quads
// sample and whose atlas resolves sprite identifiers. Rebinding the
// current sheet is free; a change flushes pending geometry first.
func (r *Renderer) SetSpriteSheet(s Sheet) {
	if s == r.ctx.sheet {
		return
	}
	r.Flush(FlushSheetChange)
	r.ctx.sheet = s
	if s != nil {
		r.ctx.texture = s.Texture()
	} else {
		r.ctx.texture = nil
	}
}

// ClearSpriteSheet unbinds the sprite sheet.
func (r *Renderer) ClearSpriteSheet() { r.SetSpriteSheet(nil) }

// SpriteSheet returns the bound sprite sheet, or nil.
func (r *Renderer) SpriteSheet() Sheet { return r.ctx.sheet }

// SetMaterial binds the material subsequent geometry draws with. nil
// restores the default batch material.
func (r *Renderer) SetMaterial(m *Material) {
	if m == r.ctx.material {
		return
	}
	r.Flush(FlushSetMaterial)
	r.ctx.material = m
}

// Material returns the bound material, nil meaning the default.
func (r *Renderer) Material() *Material { return r.ctx.material }

// SetShader applies a shader asset: pending geometry is flushed, then the
// asset's material becomes active together with its per-texture filter
// overrides, which the flush engine holds for the duration of each draw.
func (r *Renderer) SetShader(a ShaderAsset) {
	r.Flush(FlushShaderApply)
	r.ctx.shader = a
	if a != nil {
		r.ctx.material = a.Material()
	} else {
		r.ctx.material = nil
	}
}

// ResetShader removes the active shader asset and returns to the default
// material.
func (r *Renderer) ResetShader() {
	if r.ctx.shader == nil && r.ctx.material == nil {
		return
	}
	r.Flush(FlushShaderReset)
	r.ctx.shader = nil
	r.ctx.material = nil
}

// ============================================================
// Render target
// ============================================================

// SetOffscreenTarget redirects drawing into t. Pending geometry is
// flushed to the previous target and the clip resets to t's full extent.
func (r *Renderer) SetOffscreenTarget(t Target) {
	if t == nil || t == r.driver.RenderTarget() {
		return
	}
	r.Flush(FlushOffscreenChange)
	if err := r.driver.SetRenderTarget(t); err != nil {
		Logger().Warn("blit: offscreen target bind failed", "error", err)
		return
	}
	r.ctx.clip = FullClip(t.Width(), t.Height())
}

// SetOnscreen redirects drawing back to the frame's surface, the current
// front buffer, flushing pending geometry and resetting the clip to the
// full surface.
func (r *Renderer) SetOnscreen() {
	r.Flush(FlushOffscreenChange)
	if err := r.driver.SetRenderTarget(r.chain.ActiveTarget()); err != nil {
		Logger().Warn("blit: onscreen bind failed", "error", err)
		return
	}
	t := r.driver.RenderTarget()
	r.ctx.clip = FullClip(t.Width(), t.Height())
}

// Target returns the currently bound render target.
func (r *Renderer) Target() Target { return r.driver.RenderTarget() }

// ============================================================
// State save / restore
// ============================================================

// StoreState pushes a snapshot of {alpha, camera, clip, tint, target,
// material} onto the state stack.
func (r *Renderer) StoreState() {
	r.stateStack = append(r.stateStack, DrawState{
		Alpha:    r.ctx.alpha,
		Camera:   r.ctx.camera,
		Clip:     r.ctx.clip,
		Tint:     r.ctx.tint,
		Target:   r.driver.RenderTarget(),
		Material: r.ctx.material,
	})
}

// RestoreState pops the most recent snapshot and reinstates it. Bindings
// that changed since the matching StoreState flush as they switch back,
// exactly as if set directly. Calling with an empty stack is a no-op.
func (r *Renderer) RestoreState() {
	n := len(r.stateStack)
	if n == 0 {
		return
	}
	s := r.stateStack[n-1]
	r.stateStack = r.stateStack[:n-1]

	r.ctx.alpha = s.Alpha
	r.ctx.camera = s.Camera
	r.ctx.tint = s.Tint
	if s.Target != r.driver.RenderTarget() {
		r.Flush(FlushOffscreenChange)
		if err := r.driver.SetRenderTarget(s.Target); err != nil {
			Logger().Warn("blit: state restore target bind failed", "error", err)
		}
	}
	r.SetClip(s.Clip)
	r.SetMaterial(s.Material)
}
