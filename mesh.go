// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package blit

import "fmt"

// MeshVertex is one vertex of a prepared mesh, in mesh-local
// coordinates. Z is a coarse draw-order hint, 0 or 1. Textured meshes
// sample the bound sprite sheet at (U, V); untextured meshes leave both
// zero.
type MeshVertex struct {
	X, Y, Z float32
	U, V    float32
	Color   Color
}

// Mesh is prepared geometry: a pre-tessellated vertex and index list
// validated and bounded once, then drawn any number of times with a
// single batch append. Tilemap chunks and baked text are the intended
// producers; per-frame primitives do not need one.
type Mesh struct {
	verts    []MeshVertex
	idx      []uint16
	textured bool
	material *Material

	minX, minY float32
	maxX, maxY float32
}

// NewMesh prepares an untextured (vertex-colored) mesh. The vertex and
// index slices are copied; indices must come in triples and stay within
// the vertex count.
func NewMesh(verts []MeshVertex, indices []uint16) (*Mesh, error) {
	return newMesh(verts, indices, false)
}

// NewTexturedMesh prepares a mesh that samples the sprite sheet bound at
// draw time.
func NewTexturedMesh(verts []MeshVertex, indices []uint16) (*Mesh, error) {
	return newMesh(verts, indices, true)
}

func newMesh(verts []MeshVertex, indices []uint16, textured bool) (*Mesh, error) {
	if len(verts) == 0 {
		return nil, fmt.Errorf("blit: mesh has no vertices")
	}
	if len(verts) > maxAddressableQuads*4 {
		return nil, fmt.Errorf("blit: mesh has %d vertices, limit %d", len(verts), maxAddressableQuads*4)
	}
	if len(indices) == 0 || len(indices)%3 != 0 {
		return nil, fmt.Errorf("blit: mesh index count %d is not a multiple of 3", len(indices))
	}
	for i, ix := range indices {
		if int(ix) >= len(verts) {
			return nil, fmt.Errorf("blit: mesh index %d references vertex %d of %d", i, ix, len(verts))
		}
	}
	m := &Mesh{
		verts:    append([]MeshVertex(nil), verts...),
		idx:      append([]uint16(nil), indices...),
		textured: textured,
		minX:     verts[0].X, minY: verts[0].Y,
		maxX: verts[0].X, maxY: verts[0].Y,
	}
	for _, v := range verts[1:] {
		if v.X < m.minX {
			m.minX = v.X
		}
		if v.X > m.maxX {
			m.maxX = v.X
		}
		if v.Y < m.minY {
			m.minY = v.Y
		}
		if v.Y > m.maxY {
			m.maxY = v.Y
		}
	}
	return m, nil
}

// SetMaterial attaches a material the mesh draws with. The renderer
// brackets its state around the draw, so the caller's material binding
// survives. nil detaches.
func (m *Mesh) SetMaterial(mat *Material) { m.material = mat }

// VertexCount returns the number of prepared vertices.
func (m *Mesh) VertexCount() int { return len(m.verts) }

// IndexCount returns the number of prepared indices.
func (m *Mesh) IndexCount() int { return len(m.idx) }

// Bounds returns the mesh-local bounding rectangle.
func (m *Mesh) Bounds() Rect {
	return Rec(m.minX, m.minY, m.maxX-m.minX, m.maxY-m.minY)
}

// DrawMesh draws m with its origin at (x, y). The whole mesh lands in
// one batch: a full batch flushes first, and a mesh larger than the
// entire batch is dropped with a warning, exactly like any oversized
// primitive. A textured mesh without a bound sheet is a silent no-op.
func (r *Renderer) DrawMesh(x, y float32, m *Mesh) {
	if m == nil || len(m.idx) == 0 {
		return
	}
	pos := Pt(x, y).Add(r.ctx.camera)
	if r.ctx.clip.rejects(pos.X+m.minX, pos.Y+m.minY, pos.X+m.maxX, pos.Y+m.maxY) {
		return
	}
	var tex Texture
	if m.textured {
		if tex = r.sheetTexture(); tex == nil {
			return
		}
	}

	if m.material != nil {
		r.StoreState()
		r.SetMaterial(m.material)
		defer r.RestoreState()
	}

	r.setTexture(tex)
	if !r.ensureIndexed(len(m.verts), len(m.idx)) {
		return
	}
	base := uint16(r.batch.CurrentVertex())
	for _, v := range m.verts {
		r.batch.vertex(pos.X+v.X, pos.Y+v.Y, v.Z, v.U, v.V, r.vertexColor(v.Color))
	}
	for i := 0; i < len(m.idx); i += 3 {
		r.batch.tri(base+m.idx[i], base+m.idx[i+1], base+m.idx[i+2])
	}
}
