// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package blit

// PixelBuffer is a CPU-side pixel array drawn through a shared scratch
// texture: 4 bytes per pixel RGBA, rows top-down, tightly packed. Row 0
// renders at the top of the destination.
//
// Set Unchanged when the pixels are identical to the previous draw of
// the same buffer; the texture upload is then skipped but the draw still
// happens. The flag is honored only while this buffer owns the most
// recent scratch upload, so alternating between buffers never samples
// stale pixels.
type PixelBuffer struct {
	Pix       []byte
	W, H      int
	Unchanged bool
}

// NewPixelBuffer allocates a zeroed (transparent) w-by-h buffer.
func NewPixelBuffer(w, h int) *PixelBuffer {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &PixelBuffer{Pix: make([]byte, 4*w*h), W: w, H: h}
}

// Set writes one pixel and clears the Unchanged flag. Out-of-range
// coordinates are ignored.
func (pb *PixelBuffer) Set(x, y int, c Color) {
	if x < 0 || y < 0 || x >= pb.W || y >= pb.H {
		return
	}
	pb.Unchanged = false
	p := pb.Pix[4*(y*pb.W+x):]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// DrawPixelBuffer blits pb at (x, y) at 1:1 scale. The pixels travel
// through the scratch texture; geometry batched earlier in the frame may
// still sample the scratch, so a rewrite flushes that geometry out
// first. Undersized Pix or non-positive dimensions are silent no-ops;
// a failed scratch allocation or upload logs a warning and drops the
// draw for this frame.
func (r *Renderer) DrawPixelBuffer(x, y float32, pb *PixelBuffer) {
	if pb == nil || pb.W <= 0 || pb.H <= 0 || len(pb.Pix) < 4*pb.W*pb.H {
		return
	}
	pos := Pt(x, y).Add(r.ctx.camera)
	w, h := float32(pb.W), float32(pb.H)
	if r.ctx.clip.rejects(pos.X, pos.Y, pos.X+w, pos.Y+h) {
		return
	}
	if !r.scratch.holds(pb) {
		r.Flush(FlushPixelBufferCopy)
		if err := r.scratch.upload(r.driver, pb); err != nil {
			Logger().Warn("blit: pixel-buffer upload failed, draw dropped",
				"error", err, "width", pb.W, "height", pb.H)
			return
		}
	}
	r.setTexture(r.scratch.tex)
	r.texturedRect(Rec(x, y, w, h), 0, 0,
		w/float32(r.scratch.w), h/float32(r.scratch.h), White)
}

// scratchTexture is the shared texture behind pixel-buffer blits. It
// grows to cover the largest buffer seen and never shrinks; release
// frees it at shutdown.
type scratchTexture struct {
	tex          Texture
	w, h         int
	last         *PixelBuffer
	lastW, lastH int
	staging      []byte
}

// holds reports whether the texture already contains pb's pixels.
func (s *scratchTexture) holds(pb *PixelBuffer) bool {
	return pb.Unchanged && s.tex != nil && s.last == pb &&
		s.lastW == pb.W && s.lastH == pb.H
}

// upload grows the texture if needed and rewrites it with pb's rows in
// source order, restriding through a staging buffer when the texture is
// wider than pb. Texels beyond pb keep stale content; the blit quad's
// UVs never reach them.
func (s *scratchTexture) upload(d Driver, pb *PixelBuffer) error {
	if s.tex == nil || pb.W > s.w || pb.H > s.h {
		nw, nh := max(pb.W, s.w), max(pb.H, s.h)
		tex, err := d.CreateTexture(nw, nh)
		if err != nil {
			return err
		}
		if s.tex != nil {
			d.DestroyTexture(s.tex)
		}
		s.tex = tex
		s.w, s.h = nw, nh
	}
	pixels := pb.Pix[:4*pb.W*pb.H]
	if pb.W != s.w || pb.H != s.h {
		need := 4 * s.w * s.h
		if cap(s.staging) < need {
			s.staging = make([]byte, need)
		}
		dst := s.staging[:need]
		for row := 0; row < pb.H; row++ {
			copy(dst[4*row*s.w:], pixels[4*row*pb.W:4*(row+1)*pb.W])
		}
		pixels = dst
	}
	if err := d.UpdateTexture(s.tex, pixels); err != nil {
		s.last = nil
		return err
	}
	s.last = pb
	s.lastW, s.lastH = pb.W, pb.H
	return nil
}

// release frees the texture and forgets the cached source.
func (s *scratchTexture) release(d Driver) {
	if s.tex != nil {
		d.DestroyTexture(s.tex)
		s.tex = nil
	}
	s.w, s.h = 0, 0
	s.last = nil
	s.staging = nil
}
