// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package blit

import (
	"encoding/binary"
	"math"
)

// DefaultMaxQuads is the default batch capacity. 8192 quads is 32768
// vertices and 49152 indices, comfortably inside 16-bit index range.
const DefaultMaxQuads = 8192

// maxAddressableQuads keeps every vertex index representable as uint16.
const maxAddressableQuads = 16383

// vertexStride is the interleaved GPU layout: position vec4 (x,y,z,1),
// uv vec2, color vec4, all float32.
const vertexStride = 4*4 + 2*4 + 4*4

// BatchBuffer accumulates primitive geometry between flushes. Storage is
// struct-of-arrays (positions, colors, UVs, indices in separate slices),
// interleaved into the GPU vertex layout only at encode time, so write
// paths touch exactly the arrays a primitive needs.
//
// Texture coordinates are stored as float32 by default or quantized
// uint16 fixed point when the renderer was built WithFixedPointUV. Both
// modes behave identically at every call site; encode dequantizes.
//
// Capacity exhaustion is not an error: Reserve answers whether geometry
// fits and the caller flushes first when it does not. That round trip is
// the renderer's primary flush trigger.
type BatchBuffer struct {
	maxVerts int
	maxIdx   int

	pos []float32 // 3 per vertex: x, y, z
	col []uint8   // 4 per vertex: r, g, b, a
	uv  []float32 // 2 per vertex, nil in fixed-point mode
	uvq []uint16  // 2 per vertex, fixed-point mode only

	curV int
	curI int
	idx  []uint16

	encodeBuf []byte
}

// newBatchBuffer allocates storage for maxQuads quads. The count is
// clamped to [64, maxAddressableQuads].
func newBatchBuffer(maxQuads int, fixedUV bool) *BatchBuffer {
	if maxQuads < 64 {
		maxQuads = 64
	}
	if maxQuads > maxAddressableQuads {
		maxQuads = maxAddressableQuads
	}
	b := &BatchBuffer{
		maxVerts: maxQuads * 4,
		maxIdx:   maxQuads * 6,
	}
	b.pos = make([]float32, 3*b.maxVerts)
	b.col = make([]uint8, 4*b.maxVerts)
	if fixedUV {
		b.uvq = make([]uint16, 2*b.maxVerts)
	} else {
		b.uv = make([]float32, 2*b.maxVerts)
	}
	b.idx = make([]uint16, b.maxIdx)
	return b
}

// MaxVertices returns the vertex capacity.
func (b *BatchBuffer) MaxVertices() int { return b.maxVerts }

// MaxIndices returns the index capacity.
func (b *BatchBuffer) MaxIndices() int { return b.maxIdx }

// CurrentVertex returns the vertex write cursor.
func (b *BatchBuffer) CurrentVertex() int { return b.curV }

// CurrentIndex returns the index write cursor, always a multiple of 3.
func (b *BatchBuffer) CurrentIndex() int { return b.curI }

// Reserve reports whether n more vertices fit. Callers flush and retry
// when it fails. Only vertices need checking: no primitive path emits
// more than 6 indices per 4 vertices, the exact capacity ratio, so the
// index array cannot overflow while the vertex check passes. Meshes,
// whose index count per vertex is unconstrained, go through
// ReserveIndexed instead.
func (b *BatchBuffer) Reserve(n int) bool {
	return b.maxVerts-b.curV >= n
}

// ReserveIndexed reports whether n more vertices and k more indices both
// fit.
func (b *BatchBuffer) ReserveIndexed(n, k int) bool {
	return b.maxVerts-b.curV >= n && b.maxIdx-b.curI >= k
}

// empty reports whether the batch holds no geometry.
func (b *BatchBuffer) empty() bool { return b.curV == 0 }

// reset rewinds the cursors. Storage is retained for the next batch.
func (b *BatchBuffer) reset() {
	b.curV = 0
	b.curI = 0
}

// vertex appends one vertex and advances the vertex cursor. The caller
// must have Reserved capacity first.
func (b *BatchBuffer) vertex(x, y, z, u, v float32, c Color) {
	i := b.curV
	p := b.pos[3*i:]
	p[0], p[1], p[2] = x, y, z
	cl := b.col[4*i:]
	cl[0], cl[1], cl[2], cl[3] = c.R, c.G, c.B, c.A
	if b.uvq != nil {
		q := b.uvq[2*i:]
		q[0] = quantizeUV(u)
		q[1] = quantizeUV(v)
	} else {
		t := b.uv[2*i:]
		t[0], t[1] = u, v
	}
	b.curV = i + 1
}

// padVertex advances the vertex cursor past one unused slot, zeroing it.
// The filled-triangle path writes 3 vertices but accounts for 4 so quad
// bookkeeping stays uniform.
func (b *BatchBuffer) padVertex() {
	i := b.curV
	p := b.pos[3*i:]
	p[0], p[1], p[2] = 0, 0, 0
	cl := b.col[4*i:]
	cl[0], cl[1], cl[2], cl[3] = 0, 0, 0, 0
	if b.uvq != nil {
		q := b.uvq[2*i:]
		q[0], q[1] = 0, 0
	} else {
		t := b.uv[2*i:]
		t[0], t[1] = 0, 0
	}
	b.curV = i + 1
}

// tri appends one index triple.
func (b *BatchBuffer) tri(i0, i1, i2 uint16) {
	j := b.curI
	b.idx[j] = i0
	b.idx[j+1] = i1
	b.idx[j+2] = i2
	b.curI = j + 3
}

// quantizeUV maps a normalized coordinate to 16-bit fixed point.
func quantizeUV(u float32) uint16 {
	if u <= 0 {
		return 0
	}
	if u >= 1 {
		return 65535
	}
	return uint16(u*65535 + 0.5)
}

// dequantizeUV is the inverse of quantizeUV.
func dequantizeUV(q uint16) float32 {
	return float32(q) * (1.0 / 65535.0)
}

// encode serializes the live prefix for upload: vertices interleaved into
// the GPU layout (position float32x4 with w=1, uv float32x2, color
// float32x4) followed by little-endian uint16 indices. Both returned
// slices alias one internal scratch buffer reused across flushes and stay
// valid until the next encode.
func (b *BatchBuffer) encode() (verts, indices []byte) {
	vn := b.curV * vertexStride
	need := vn + b.curI*2
	if cap(b.encodeBuf) < need {
		b.encodeBuf = make([]byte, need)
	}
	buf := b.encodeBuf[:vn]
	for i := 0; i < b.curV; i++ {
		off := i * vertexStride
		p := b.pos[3*i:]
		putFloat32(buf[off:], p[0])
		putFloat32(buf[off+4:], p[1])
		putFloat32(buf[off+8:], p[2])
		putFloat32(buf[off+12:], 1)
		var u, v float32
		if b.uvq != nil {
			u = dequantizeUV(b.uvq[2*i])
			v = dequantizeUV(b.uvq[2*i+1])
		} else {
			u = b.uv[2*i]
			v = b.uv[2*i+1]
		}
		putFloat32(buf[off+16:], u)
		putFloat32(buf[off+20:], v)
		c := b.col[4*i:]
		putFloat32(buf[off+24:], float32(c[0])*(1.0/255.0))
		putFloat32(buf[off+28:], float32(c[1])*(1.0/255.0))
		putFloat32(buf[off+32:], float32(c[2])*(1.0/255.0))
		putFloat32(buf[off+36:], float32(c[3])*(1.0/255.0))
	}
	ibuf := b.encodeBuf[vn:need]
	for i := 0; i < b.curI; i++ {
		binary.LittleEndian.PutUint16(ibuf[2*i:], b.idx[i])
	}
	return buf, ibuf
}

// putFloat32 writes one little-endian float32.
func putFloat32(dst []byte, v float32) {
	binary.LittleEndian.PutUint32(dst, math.Float32bits(v))
}
