// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package blit provides a batched immediate-mode 2D primitive renderer.
//
// # Overview
//
// blit is the pixel-space sibling of github.com/gogpu/gg: where gg draws
// vector paths, blit draws game primitives (textured quads, pixels, lines,
// triangles, rectangles, ellipses, nine-slice composites, raw pixel
// buffers) and batches them into as few GPU draw calls as possible.
// Geometry accumulates in a shared vertex/index buffer and is flushed only
// on well-defined triggers: the batch filling up, a sprite-sheet or
// material change, a clip or render-target change, or the end of the frame.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/blit"
//	    _ "github.com/gogpu/blit/gpu" // registers the wgpu driver
//	)
//
//	r, err := blit.New(blit.WithSize(640, 360))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	// Per frame:
//	r.StartRender()
//	r.FillRect(blit.Rect{X: 10, Y: 10, W: 100, H: 60}, blit.RGB(255, 0, 0))
//	r.DrawLine(0, 0, 320, 180, blit.White)
//	r.FrameEnd()
//
// # Batching Model
//
// Every primitive call reserves space in the batch, writes vertices, and
// returns. Nothing reaches the GPU until a flush. Capacity exhaustion is
// the normal flush trigger, never an error: submitting more quads than the
// batch holds simply costs one extra draw call. State changes that would
// mix incompatible geometry in one draw call (a new sprite sheet, a new
// material, a new render target) flush implicitly before rebinding.
//
// Submission order is strictly preserved across flushes, so later draws
// always paint over earlier ones.
//
// # Coordinate System
//
// Pixel coordinates, origin top-left, X right, Y down. Angles are radians.
// The camera offset set with SetCamera translates all world-space
// primitives at write time.
//
// # Threading
//
// A Renderer is single-threaded by design. All drawing for one Renderer
// must happen on one goroutine between StartRender and FrameEnd. SetLogger
// is the only function safe to call concurrently.
//
// # Drivers
//
// The GPU driver lives in internal/gpu and registers itself through the
// blank import of github.com/gogpu/blit/gpu. Headless and test code can
// inject any Driver implementation with WithDriver.
package blit
