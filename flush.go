// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package blit

// FlushReason records why a batch was flushed. Reasons are pure
// diagnostics: they tally per-frame counters and label the overlay but
// never influence control flow.
type FlushReason uint8

const (
	// FlushBatchFull: the batch could not hold the next primitive.
	// This is the normal, expected trigger, not an error condition.
	FlushBatchFull FlushReason = iota

	// FlushSheetChange: the active sprite sheet changed.
	FlushSheetChange

	// FlushTilemapChunk: a tilemap collaborator finished a chunk and
	// forced its geometry out before switching chunk state.
	FlushTilemapChunk

	// FlushFrameEnd: end of frame.
	FlushFrameEnd

	// FlushClipChange: the clip rectangle changed.
	FlushClipChange

	// FlushOffscreenChange: the render target changed.
	FlushOffscreenChange

	// FlushEffectApply: a render-time effect is about to run.
	FlushEffectApply

	// FlushShaderApply: a shader asset was applied.
	FlushShaderApply

	// FlushShaderReset: the shader asset was removed.
	FlushShaderReset

	// FlushSetMaterial: the material binding changed.
	FlushSetMaterial

	// FlushSetTexture: the texture binding changed.
	FlushSetTexture

	// FlushPixelBufferCopy: a pixel-buffer blit needed its scratch
	// texture rewritten.
	FlushPixelBufferCopy

	// FlushForced: an explicit caller-requested flush.
	FlushForced

	// NumFlushReasons is the number of reasons, for tally arrays.
	NumFlushReasons = int(FlushForced) + 1
)

var flushReasonNames = [NumFlushReasons]string{
	"batch full",
	"sheet change",
	"tilemap chunk",
	"frame end",
	"clip change",
	"offscreen change",
	"effect apply",
	"shader apply",
	"shader reset",
	"set material",
	"set texture",
	"pixel buffer copy",
	"forced",
}

// String returns the human-readable reason name.
func (fr FlushReason) String() string {
	if int(fr) < NumFlushReasons {
		return flushReasonNames[fr]
	}
	return "unknown"
}

// FrameStats aggregates one frame's flush activity. A snapshot of the
// completed frame is available from [Renderer.Stats].
type FrameStats struct {
	DrawCalls int
	Quads     int
	Vertices  int
	Indices   int
	Reasons   [NumFlushReasons]int
}

// Flushes returns the total number of flushes that issued draw calls.
func (s *FrameStats) Flushes() int {
	n := 0
	for _, c := range s.Reasons {
		n += c
	}
	return n
}

// ============================================================
// Flush engine
// ============================================================

// Flush uploads the accumulated batch and issues one draw call per pass
// of the active material, then resets the batch. Geometry submitted
// before a flush is never visible after geometry submitted afterwards:
// flush preserves strict submission order, which 2D painter's-algorithm
// occlusion depends on.
//
// Flushing an empty batch never issues a draw call; it only resynchronizes
// the last-known-sheet marker. When rendering is disabled the batch is
// discarded without touching the GPU.
func (r *Renderer) Flush(reason FlushReason) {
	if !r.enabled {
		r.batch.reset()
		return
	}
	if r.batch.empty() {
		r.lastSheet = r.ctx.sheet
		return
	}

	vcount := r.batch.CurrentVertex()
	icount := r.batch.CurrentIndex()
	verts, indices := r.batch.encode()
	if err := r.driver.Upload(verts, indices, vcount, icount); err != nil {
		Logger().Error("blit: batch upload failed, geometry dropped",
			"error", err, "vertices", vcount, "indices", icount, "reason", reason.String())
		r.batch.reset()
		return
	}

	// Per-offscreen-texture filter overrides hold for the draws of this
	// flush only; everything reverts to nearest immediately after.
	var filters []TargetFilter
	if r.ctx.shader != nil {
		filters = r.ctx.shader.TargetFilters()
	}
	for _, f := range filters {
		r.driver.SetTextureFilter(f.Texture, f.Linear)
	}

	call := DrawCall{
		Texture:    r.ctx.texture,
		Material:   r.ctx.material,
		IndexCount: icount,
		Clip:       r.ctx.clip,
		Tint:       r.ctx.tint,
		Alpha:      r.ctx.alpha,
	}
	passes := r.ctx.material.Passes()
	for p := 0; p < passes; p++ {
		call.Pass = p
		if err := r.driver.Draw(&call); err != nil {
			Logger().Warn("blit: draw failed", "error", err,
				"pass", p, "reason", reason.String())
			break
		}
		r.stats.DrawCalls++
		r.stats.Reasons[reason]++
	}

	for _, f := range filters {
		r.driver.SetTextureFilter(f.Texture, false)
	}

	r.stats.Vertices += vcount
	r.stats.Indices += icount
	r.stats.Quads += vcount / 4
	r.lastSheet = r.ctx.sheet
	r.batch.reset()
}

// ensure makes room for n more vertices, flushing a full batch first.
// It reports false only when n exceeds the whole batch capacity, in which
// case the caller drops the primitive.
func (r *Renderer) ensure(n int) bool {
	if r.batch.Reserve(n) {
		return true
	}
	r.Flush(FlushBatchFull)
	if r.batch.Reserve(n) {
		return true
	}
	Logger().Warn("blit: primitive exceeds batch capacity, dropped",
		"vertices", n, "capacity", r.batch.MaxVertices())
	return false
}

// ensureIndexed is ensure for meshes, whose shared vertices can push the
// index count past the 6:4 ratio the primitive paths keep.
func (r *Renderer) ensureIndexed(verts, indices int) bool {
	if r.batch.ReserveIndexed(verts, indices) {
		return true
	}
	r.Flush(FlushBatchFull)
	if r.batch.ReserveIndexed(verts, indices) {
		return true
	}
	Logger().Warn("blit: mesh exceeds batch capacity, dropped",
		"vertices", verts, "indices", indices,
		"vertexCapacity", r.batch.MaxVertices(), "indexCapacity", r.batch.MaxIndices())
	return false
}
