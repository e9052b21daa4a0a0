// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package blit

import "testing"

func TestStoreRestoreStateRoundTrip(t *testing.T) {
	r, drv := newTestRenderer(t)
	tgt, err := drv.CreateTarget(64, 48)
	if err != nil {
		t.Fatal(err)
	}
	mat := NewMaterial("outline", "// wgsl", 1)

	r.SetOffscreenTarget(tgt)
	r.SetCamera(Pt(3, 4))
	r.SetTint(RGB(10, 20, 30))
	r.SetAlpha(0.5)
	r.SetClip(ClipRegion{X0: 5, Y0: 6, X1: 40, Y1: 30})
	r.SetMaterial(mat)

	r.StoreState()
	r.SetCamera(Pt(-9, 9))
	r.SetTint(White)
	r.SetAlpha(1)
	r.SetOnscreen()
	r.SetClip(ClipRegion{X0: 0, Y0: 0, X1: 10, Y1: 10})
	r.SetMaterial(nil)
	r.RestoreState()

	if r.Camera() != Pt(3, 4) {
		t.Errorf("camera = %v", r.Camera())
	}
	if r.Tint() != RGB(10, 20, 30) {
		t.Errorf("tint = %v", r.Tint())
	}
	if r.Alpha() != 0.5 {
		t.Errorf("alpha = %v", r.Alpha())
	}
	if r.Clip() != (ClipRegion{X0: 5, Y0: 6, X1: 40, Y1: 30}) {
		t.Errorf("clip = %v", r.Clip())
	}
	if r.Target() != tgt {
		t.Error("target not restored")
	}
	if r.Material() != mat {
		t.Error("material not restored")
	}
}

func TestStoreRestoreStateNests(t *testing.T) {
	r, _ := newTestRenderer(t)

	r.SetAlpha(0.25)
	r.StoreState()
	r.SetAlpha(0.5)
	r.StoreState()
	r.SetAlpha(0.75)

	r.RestoreState()
	if r.Alpha() != 0.5 {
		t.Errorf("inner restore alpha = %v, want 0.5", r.Alpha())
	}
	r.RestoreState()
	if r.Alpha() != 0.25 {
		t.Errorf("outer restore alpha = %v, want 0.25", r.Alpha())
	}
}

func TestRestoreStateEmptyStackNoOp(t *testing.T) {
	r, _ := newTestRenderer(t)
	r.SetCamera(Pt(7, 7))
	r.RestoreState()
	if r.Camera() != Pt(7, 7) {
		t.Errorf("camera = %v after empty-stack restore", r.Camera())
	}
}

// Restoring a snapshot with a different bound target flushes the pending
// geometry to the target it was submitted under, then rebinds.
func TestRestoreStateFlushesOnTargetRebind(t *testing.T) {
	r, drv := newTestRenderer(t)
	tgt, err := drv.CreateTarget(64, 48)
	if err != nil {
		t.Fatal(err)
	}
	home := r.Target()

	r.StoreState()
	r.SetOffscreenTarget(tgt)
	r.FillRect(Rec(5, 5, 4, 4), White)
	r.RestoreState()

	if len(drv.uploads) != 1 {
		t.Fatalf("uploads = %d, want 1", len(drv.uploads))
	}
	if r.stats.Reasons[FlushOffscreenChange] != 1 {
		t.Errorf("offscreen-change flushes = %d", r.stats.Reasons[FlushOffscreenChange])
	}
	if r.Target() != home {
		t.Error("target not rebound by restore")
	}
}

func TestSetClipChangeDetection(t *testing.T) {
	r, drv := newTestRenderer(t)
	orig := r.Clip()

	r.FillRect(Rec(10, 10, 4, 4), White)
	r.SetClip(orig) // unchanged, no flush
	if len(drv.uploads) != 0 || r.batch.CurrentVertex() != 4 {
		t.Fatal("rebinding the current clip flushed")
	}

	r.SetClip(ClipRegion{X0: 4, Y0: 2, X1: 1, Y1: 9}) // negative extent
	if r.Clip() != orig {
		t.Errorf("negative-extent clip took effect: %v", r.Clip())
	}
	if len(drv.uploads) != 0 {
		t.Error("negative-extent clip flushed")
	}

	next := ClipRegion{X0: 0, Y0: 0, X1: 99, Y1: 99}
	r.SetClip(next)
	if len(drv.uploads) != 1 {
		t.Fatalf("clip change uploads = %d, want 1", len(drv.uploads))
	}
	if drv.draws[0].clip != orig {
		t.Errorf("pending geometry drew with clip %v, want %v", drv.draws[0].clip, orig)
	}

	r.FillRect(Rec(10, 10, 4, 4), White)
	r.Flush(FlushForced)
	if drv.draws[1].clip != next {
		t.Errorf("post-change geometry drew with clip %v, want %v", drv.draws[1].clip, next)
	}
	if r.stats.Reasons[FlushClipChange] != 1 {
		t.Errorf("clip-change flushes = %d", r.stats.Reasons[FlushClipChange])
	}
}

func TestSetAlphaClamps(t *testing.T) {
	r, _ := newTestRenderer(t)
	r.SetAlpha(-0.5)
	if r.Alpha() != 0 {
		t.Errorf("alpha = %v, want 0", r.Alpha())
	}
	r.SetAlpha(1.5)
	if r.Alpha() != 1 {
		t.Errorf("alpha = %v, want 1", r.Alpha())
	}
	r.SetAlpha(0.25)
	if r.Alpha() != 0.25 {
		t.Errorf("alpha = %v, want 0.25", r.Alpha())
	}
}

func TestVertexColorFoldsTintAndAlpha(t *testing.T) {
	r, drv := newTestRenderer(t)
	r.SetTint(RGB(128, 128, 128))
	r.SetAlpha(0.5)
	r.FillRect(Rec(10, 10, 4, 4), White)
	r.Flush(FlushForced)

	v := drv.lastVertices(t)[0]
	want := float32(128.0 / 255.0)
	if !near(v.R, want) || !near(v.G, want) || !near(v.B, want) {
		t.Errorf("tinted color = (%v %v %v)", v.R, v.G, v.B)
	}
	if !near(v.A, want) {
		t.Errorf("alpha = %v, want %v", v.A, want)
	}

	// Channel-wise modulation against a pure-red tint.
	r.SetTint(RGB(255, 0, 0))
	r.SetAlpha(1)
	got := r.vertexColor(RGB(100, 200, 50))
	if got != (Color{R: 100, G: 0, B: 0, A: 255}) {
		t.Errorf("vertexColor = %v", got)
	}
}

// Camera changes take effect at vertex-write time without flushing, so
// one batch can hold geometry from several camera positions.
func TestCameraAppliesAtWriteTime(t *testing.T) {
	r, drv := newTestRenderer(t)
	r.SetCamera(Pt(5, 0))
	r.FillRect(Rec(0, 0, 2, 2), White)
	r.SetCamera(Pt(50, 0))
	r.FillRect(Rec(0, 0, 2, 2), White)
	r.Flush(FlushForced)

	if len(drv.uploads) != 1 {
		t.Fatalf("uploads = %d, want 1", len(drv.uploads))
	}
	verts := drv.lastVertices(t)
	if !near(verts[0].X, 5) || !near(verts[4].X, 50) {
		t.Errorf("camera offsets not baked: %v and %v", verts[0].X, verts[4].X)
	}
}

func TestClearSpriteSheetUnbinds(t *testing.T) {
	r, drv := newTestRenderer(t)
	sheet := newFakeSheet(32, 32)
	r.SetSpriteSheet(sheet)
	if r.ctx.texture != sheet.tex {
		t.Fatal("sheet texture not bound")
	}

	r.DrawQuad(10, 10, Rec(0, 0, 8, 8))
	r.ClearSpriteSheet()
	if len(drv.uploads) != 1 {
		t.Fatalf("unbind uploads = %d, want 1", len(drv.uploads))
	}
	if r.SpriteSheet() != nil || r.ctx.texture != nil {
		t.Error("sheet still bound after clear")
	}
}

func TestSetShaderLifecycle(t *testing.T) {
	r, drv := newTestRenderer(t)
	mat := NewMaterial("crt", "// wgsl", 1)
	asset := &fakeShader{mat: mat}

	r.FillRect(Rec(10, 10, 4, 4), White)
	r.SetShader(asset)
	if len(drv.uploads) != 1 || drv.draws[0].material != nil {
		t.Fatal("pending geometry must flush under the default material")
	}
	if r.Material() != mat {
		t.Error("shader material not bound")
	}

	r.FillRect(Rec(10, 10, 4, 4), White)
	r.ResetShader()
	if len(drv.uploads) != 2 || drv.draws[1].material != mat {
		t.Fatal("shader geometry must flush under the shader material")
	}
	if r.Material() != nil {
		t.Error("material still bound after reset")
	}

	// Resetting an already-clear shader is free.
	r.FillRect(Rec(10, 10, 4, 4), White)
	r.ResetShader()
	if r.batch.CurrentVertex() != 4 {
		t.Error("redundant reset flushed")
	}
	if r.stats.Reasons[FlushShaderApply] != 1 || r.stats.Reasons[FlushShaderReset] != 1 {
		t.Errorf("reasons = %v", r.stats.Reasons)
	}
}

func TestSetOffscreenTargetGuards(t *testing.T) {
	r, drv := newTestRenderer(t)
	bound := r.Target()

	r.FillRect(Rec(10, 10, 4, 4), White)
	r.SetOffscreenTarget(nil)
	r.SetOffscreenTarget(bound)
	if r.Target() != bound || len(drv.uploads) != 0 {
		t.Fatal("nil or same-target bind must be a no-op")
	}

	tgt, err := drv.CreateTarget(64, 48)
	if err != nil {
		t.Fatal(err)
	}
	r.SetOffscreenTarget(tgt)
	if len(drv.uploads) != 1 {
		t.Fatal("target change did not flush")
	}
	if r.Target() != tgt {
		t.Error("target not bound")
	}
	if r.Clip() != FullClip(64, 48) {
		t.Errorf("clip = %v, want full 64x48", r.Clip())
	}
	if r.stats.Reasons[FlushOffscreenChange] != 1 {
		t.Errorf("offscreen flushes = %d", r.stats.Reasons[FlushOffscreenChange])
	}
}

func TestSetOnscreenReturnsToActiveBuffer(t *testing.T) {
	r, drv := newTestRenderer(t)
	tgt, err := drv.CreateTarget(64, 48)
	if err != nil {
		t.Fatal(err)
	}
	r.SetOffscreenTarget(tgt)
	r.FillRect(Rec(5, 5, 4, 4), White)
	r.SetOnscreen()

	if len(drv.uploads) != 1 {
		t.Fatal("onscreen switch did not flush")
	}
	if r.Target() != r.FrontBuffers().Buffer(0) {
		t.Error("not bound to the active front buffer")
	}
	if r.Clip() != FullClip(testWidth, testHeight) {
		t.Errorf("clip = %v, want full surface", r.Clip())
	}
}

func TestResetClipTracksBoundTarget(t *testing.T) {
	r, drv := newTestRenderer(t)
	tgt, err := drv.CreateTarget(64, 48)
	if err != nil {
		t.Fatal(err)
	}
	r.SetOffscreenTarget(tgt)
	r.SetClip(ClipRegion{X0: 2, Y0: 2, X1: 9, Y1: 9})
	r.ResetClip()
	if r.Clip() != FullClip(64, 48) {
		t.Errorf("clip = %v, want full 64x48", r.Clip())
	}
}
