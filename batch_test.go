// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package blit

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestNewBatchBufferCapacity(t *testing.T) {
	tests := []struct {
		name      string
		maxQuads  int
		wantVerts int
		wantIdx   int
	}{
		{"default", DefaultMaxQuads, 32768, 49152},
		{"below minimum clamps to 64", 1, 256, 384},
		{"above maximum clamps", 1 << 20, maxAddressableQuads * 4, maxAddressableQuads * 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBatchBuffer(tt.maxQuads, false)
			if b.MaxVertices() != tt.wantVerts {
				t.Errorf("MaxVertices = %d, want %d", b.MaxVertices(), tt.wantVerts)
			}
			if b.MaxIndices() != tt.wantIdx {
				t.Errorf("MaxIndices = %d, want %d", b.MaxIndices(), tt.wantIdx)
			}
		})
	}
}

func TestReserve(t *testing.T) {
	b := newBatchBuffer(64, false) // 256 vertices
	if !b.Reserve(256) {
		t.Error("Reserve(MaxVertices) on empty buffer must succeed")
	}
	if b.Reserve(257) {
		t.Error("Reserve beyond capacity must fail")
	}
	for i := 0; i < 252; i++ {
		b.vertex(0, 0, 0, 0, 0, White)
	}
	if !b.Reserve(4) {
		t.Error("Reserve(4) with exactly 4 slots left must succeed")
	}
	if b.Reserve(5) {
		t.Error("Reserve(5) with 4 slots left must fail")
	}
}

func TestReserveIndexed(t *testing.T) {
	b := newBatchBuffer(64, false) // 256 vertices, 384 indices
	if !b.ReserveIndexed(256, 384) {
		t.Error("ReserveIndexed at exact capacity on empty buffer must succeed")
	}
	if b.ReserveIndexed(4, 385) {
		t.Error("ReserveIndexed beyond index capacity must fail")
	}
	if b.ReserveIndexed(257, 6) {
		t.Error("ReserveIndexed beyond vertex capacity must fail")
	}

	// A shared-vertex mesh burns indices faster than vertices.
	for i := 0; i < 4; i++ {
		b.vertex(0, 0, 0, 0, 0, White)
	}
	for i := 0; i < 126; i++ {
		b.tri(0, 1, 2)
	}
	if !b.ReserveIndexed(4, 6) {
		t.Error("ReserveIndexed(4, 6) with 6 index slots left must succeed")
	}
	if b.ReserveIndexed(4, 9) {
		t.Error("ReserveIndexed(4, 9) with 6 index slots left must fail")
	}
}

func TestCursorInvariants(t *testing.T) {
	b := newBatchBuffer(64, false)
	base := uint16(b.CurrentVertex())
	for i := 0; i < 4; i++ {
		b.vertex(float32(i), 0, 0, 0, 0, White)
	}
	b.tri(base, base+1, base+2)
	b.tri(base+2, base+3, base)

	if b.CurrentVertex() != 4 {
		t.Errorf("CurrentVertex = %d, want 4", b.CurrentVertex())
	}
	if b.CurrentIndex() != 6 {
		t.Errorf("CurrentIndex = %d, want 6", b.CurrentIndex())
	}
	if b.CurrentIndex()%3 != 0 {
		t.Error("CurrentIndex must stay a multiple of 3")
	}

	b.reset()
	if b.CurrentVertex() != 0 || b.CurrentIndex() != 0 {
		t.Error("reset must rewind both cursors")
	}
	if !b.empty() {
		t.Error("reset buffer must report empty")
	}
}

func TestPadVertexAdvancesCursor(t *testing.T) {
	b := newBatchBuffer(64, false)
	b.vertex(1, 2, 0, 0, 0, White)
	b.vertex(3, 4, 0, 0, 0, White)
	b.vertex(5, 6, 0, 0, 0, White)
	b.padVertex()
	if b.CurrentVertex() != 4 {
		t.Errorf("CurrentVertex = %d, want 4 after 3 writes + pad", b.CurrentVertex())
	}
}

func TestEncodeLayout(t *testing.T) {
	b := newBatchBuffer(64, false)
	b.vertex(10, 20, 1, 0.5, 0.25, Color{255, 128, 0, 255})
	b.tri(0, 0, 0)

	verts, indices := b.encode()
	if len(verts) != vertexStride {
		t.Fatalf("vertex bytes = %d, want %d", len(verts), vertexStride)
	}
	if len(indices) != 6 {
		t.Fatalf("index bytes = %d, want 6", len(indices))
	}

	f32 := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(verts[off:]))
	}
	if f32(0) != 10 || f32(4) != 20 || f32(8) != 1 || f32(12) != 1 {
		t.Errorf("position = (%v, %v, %v, %v), want (10, 20, 1, 1)",
			f32(0), f32(4), f32(8), f32(12))
	}
	if f32(16) != 0.5 || f32(20) != 0.25 {
		t.Errorf("uv = (%v, %v), want (0.5, 0.25)", f32(16), f32(20))
	}
	if f32(24) != 1 || math.Abs(float64(f32(28)-128.0/255.0)) > 1e-6 || f32(32) != 0 || f32(36) != 1 {
		t.Errorf("color = (%v, %v, %v, %v)", f32(24), f32(28), f32(32), f32(36))
	}
}

func TestEncodeIndices(t *testing.T) {
	b := newBatchBuffer(64, false)
	for i := 0; i < 4; i++ {
		b.vertex(0, 0, 0, 0, 0, White)
	}
	b.tri(0, 1, 2)
	b.tri(2, 3, 0)

	_, indices := b.encode()
	want := []uint16{0, 1, 2, 2, 3, 0}
	for i, w := range want {
		if got := binary.LittleEndian.Uint16(indices[2*i:]); got != w {
			t.Errorf("index[%d] = %d, want %d", i, got, w)
		}
	}
}

func TestFixedUVQuantization(t *testing.T) {
	tests := []struct {
		u    float32
		want uint16
	}{
		{0, 0},
		{1, 65535},
		{-0.5, 0},
		{1.5, 65535},
		{0.5, 32768},
	}
	for _, tt := range tests {
		if got := quantizeUV(tt.u); got != tt.want {
			t.Errorf("quantizeUV(%v) = %d, want %d", tt.u, got, tt.want)
		}
	}
}

func TestFixedUVModeMatchesFloatMode(t *testing.T) {
	// Both storage modes must produce the same encoded stream for UVs
	// representable exactly in 16 bits.
	exact := []float32{0, 0.25, 0.5, 0.75, 1}
	bf := newBatchBuffer(64, false)
	bq := newBatchBuffer(64, true)
	for _, u := range exact {
		bf.vertex(1, 2, 0, u, u, White)
		bq.vertex(1, 2, 0, u, u, White)
	}
	vf, _ := bf.encode()
	vq, _ := bq.encode()
	if len(vf) != len(vq) {
		t.Fatalf("encoded sizes differ: %d vs %d", len(vf), len(vq))
	}
	for i := range exact {
		off := i*vertexStride + 16
		uf := math.Float32frombits(binary.LittleEndian.Uint32(vf[off:]))
		uq := math.Float32frombits(binary.LittleEndian.Uint32(vq[off:]))
		if math.Abs(float64(uf-uq)) > 1.0/65535 {
			t.Errorf("uv[%d]: float mode %v, fixed mode %v", i, uf, uq)
		}
	}
}

func TestEncodeScratchReuse(t *testing.T) {
	b := newBatchBuffer(64, false)
	b.vertex(0, 0, 0, 0, 0, White)
	b.tri(0, 0, 0)
	v1, _ := b.encode()
	b.reset()
	b.vertex(0, 0, 0, 0, 0, White)
	b.tri(0, 0, 0)
	v2, _ := b.encode()
	if &v1[0] != &v2[0] {
		t.Error("encode should reuse its scratch buffer across flushes")
	}
}
