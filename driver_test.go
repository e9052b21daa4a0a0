// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package blit

import (
	"encoding/binary"
	"math"
	"testing"
)

// The fake driver records every call the renderer makes so tests can
// assert on uploaded geometry, draw calls, and resource traffic without
// a GPU.

type fakeTexture struct {
	w, h    int
	uploads int
	data    []byte
	linear  bool
}

func (t *fakeTexture) Width() int  { return t.w }
func (t *fakeTexture) Height() int { return t.h }

type fakeTarget struct {
	w, h int
	tex  *fakeTexture
	pix  []byte
}

func (t *fakeTarget) Width() int       { return t.w }
func (t *fakeTarget) Height() int      { return t.h }
func (t *fakeTarget) Texture() Texture { return t.tex }

type uploadRecord struct {
	verts   []byte
	indices []byte
	vcount  int
	icount  int
}

type drawRecord struct {
	upload     int
	texture    Texture
	material   *Material
	pass       int
	indexCount int
	clip       ClipRegion
	tint       Color
	alpha      float32
}

type filterCall struct {
	texture Texture
	linear  bool
}

type fakeDriver struct {
	width, height, maxQuads int
	inited                  bool
	frames                  int
	framesEnded             int
	closed                  bool

	target   Target
	targets  []*fakeTarget
	textures []*fakeTexture

	uploads []uploadRecord
	draws   []drawRecord
	filters []filterCall

	failUpload        error
	failDraw          error
	failCreateTexture error
	failUpdateTexture error
	failCreateTarget  error
}

func newFakeDriver() *fakeDriver { return &fakeDriver{} }

func (d *fakeDriver) Init(width, height, maxQuads int) error {
	d.width, d.height, d.maxQuads = width, height, maxQuads
	d.inited = true
	return nil
}

func (d *fakeDriver) BeginFrame() { d.frames++ }

func (d *fakeDriver) EndFrame() error {
	d.framesEnded++
	return nil
}

func (d *fakeDriver) SetRenderTarget(t Target) error {
	d.target = t
	return nil
}

func (d *fakeDriver) RenderTarget() Target { return d.target }

func (d *fakeDriver) CreateTarget(w, h int) (Target, error) {
	if d.failCreateTarget != nil {
		return nil, d.failCreateTarget
	}
	t := &fakeTarget{w: w, h: h, tex: &fakeTexture{w: w, h: h}}
	d.targets = append(d.targets, t)
	return t, nil
}

func (d *fakeDriver) DestroyTarget(t Target) {
	for i, ft := range d.targets {
		if ft == t {
			d.targets = append(d.targets[:i], d.targets[i+1:]...)
			return
		}
	}
}

func (d *fakeDriver) CreateTexture(w, h int) (Texture, error) {
	if d.failCreateTexture != nil {
		return nil, d.failCreateTexture
	}
	t := &fakeTexture{w: w, h: h}
	d.textures = append(d.textures, t)
	return t, nil
}

func (d *fakeDriver) DestroyTexture(t Texture) {
	for i, ft := range d.textures {
		if ft == t {
			d.textures = append(d.textures[:i], d.textures[i+1:]...)
			return
		}
	}
}

func (d *fakeDriver) UpdateTexture(t Texture, data []byte) error {
	if d.failUpdateTexture != nil {
		return d.failUpdateTexture
	}
	ft := t.(*fakeTexture)
	ft.uploads++
	ft.data = append(ft.data[:0], data...)
	return nil
}

func (d *fakeDriver) SetTextureFilter(t Texture, linear bool) {
	if ft, ok := t.(*fakeTexture); ok {
		ft.linear = linear
	}
	d.filters = append(d.filters, filterCall{texture: t, linear: linear})
}

func (d *fakeDriver) Upload(verts, indices []byte, vertexCount, indexCount int) error {
	if d.failUpload != nil {
		return d.failUpload
	}
	d.uploads = append(d.uploads, uploadRecord{
		verts:   append([]byte(nil), verts...),
		indices: append([]byte(nil), indices...),
		vcount:  vertexCount,
		icount:  indexCount,
	})
	return nil
}

func (d *fakeDriver) Draw(call *DrawCall) error {
	if d.failDraw != nil {
		return d.failDraw
	}
	d.draws = append(d.draws, drawRecord{
		upload:     len(d.uploads) - 1,
		texture:    call.Texture,
		material:   call.Material,
		pass:       call.Pass,
		indexCount: call.IndexCount,
		clip:       call.Clip,
		tint:       call.Tint,
		alpha:      call.Alpha,
	})
	return nil
}

func (d *fakeDriver) ReadTarget(t Target) ([]byte, error) {
	ft := t.(*fakeTarget)
	if ft.pix != nil {
		return append([]byte(nil), ft.pix...), nil
	}
	return make([]byte, ft.w*ft.h*4), nil
}

func (d *fakeDriver) Close() error {
	d.closed = true
	return nil
}

// ============================================================
// Decoding helpers
// ============================================================

// testVertex is one decoded vertex from an upload record.
type testVertex struct {
	X, Y, Z, W float32
	U, V       float32
	R, G, B, A float32
}

func getFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func decodeVertices(t *testing.T, verts []byte) []testVertex {
	t.Helper()
	if len(verts)%vertexStride != 0 {
		t.Fatalf("vertex bytes = %d, not a multiple of %d", len(verts), vertexStride)
	}
	out := make([]testVertex, len(verts)/vertexStride)
	for i := range out {
		b := verts[i*vertexStride:]
		out[i] = testVertex{
			X: getFloat32(b), Y: getFloat32(b[4:]), Z: getFloat32(b[8:]), W: getFloat32(b[12:]),
			U: getFloat32(b[16:]), V: getFloat32(b[20:]),
			R: getFloat32(b[24:]), G: getFloat32(b[28:]), B: getFloat32(b[32:]), A: getFloat32(b[36:]),
		}
	}
	return out
}

func decodeIndices(t *testing.T, indices []byte) []uint16 {
	t.Helper()
	if len(indices)%2 != 0 {
		t.Fatalf("index bytes = %d, odd length", len(indices))
	}
	out := make([]uint16, len(indices)/2)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(indices[2*i:])
	}
	return out
}

// lastUpload returns the most recent upload record.
func (d *fakeDriver) lastUpload(t *testing.T) uploadRecord {
	t.Helper()
	if len(d.uploads) == 0 {
		t.Fatal("no uploads recorded")
	}
	return d.uploads[len(d.uploads)-1]
}

// lastVertices decodes the most recent upload's vertices.
func (d *fakeDriver) lastVertices(t *testing.T) []testVertex {
	t.Helper()
	return decodeVertices(t, d.lastUpload(t).verts)
}

// ============================================================
// Renderer construction
// ============================================================

const (
	testWidth  = 320
	testHeight = 180
)

// newTestRenderer builds a renderer over a fresh fake driver with a
// frame already started, so tests can draw immediately.
func newTestRenderer(t *testing.T, opts ...Option) (*Renderer, *fakeDriver) {
	t.Helper()
	drv := newFakeDriver()
	all := append([]Option{WithSize(testWidth, testHeight), WithDriver(drv)}, opts...)
	r, err := New(all...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	r.StartRender()
	return r, drv
}

// fakeSheet is a sprite sheet backed by a fake texture.
type fakeSheet struct {
	tex     *fakeTexture
	sprites map[int]Rect
}

func (s *fakeSheet) Texture() Texture { return s.tex }

func (s *fakeSheet) SpriteRect(id int) (Rect, bool) {
	r, ok := s.sprites[id]
	return r, ok
}

func newFakeSheet(w, h int) *fakeSheet {
	return &fakeSheet{tex: &fakeTexture{w: w, h: h}, sprites: map[int]Rect{}}
}
