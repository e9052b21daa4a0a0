// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package blit

import "github.com/chewxy/math32"

// NineSlice names the nine source regions of a scalable composite on the
// bound sprite sheet: four corners drawn once at their source size, four
// edges tiled along their axis, and a center tiled both ways.
type NineSlice struct {
	TopLeft, Top, TopRight          Rect
	Left, Center, Right             Rect
	BottomLeft, Bottom, BottomRight Rect
}

// NineSliceIDs is the sprite-identifier form of [NineSlice]; each field
// resolves through the bound sheet's atlas lookup.
type NineSliceIDs struct {
	TopLeft, Top, TopRight          int
	Left, Center, Right             int
	BottomLeft, Bottom, BottomRight int
}

// GridIDs fills a NineSliceIDs from the top-left sprite of a 3x3 block
// on a sheet with the given number of columns per row.
func GridIDs(topLeft, columns int) NineSliceIDs {
	return NineSliceIDs{
		TopLeft: topLeft, Top: topLeft + 1, TopRight: topLeft + 2,
		Left: topLeft + columns, Center: topLeft + columns + 1, Right: topLeft + columns + 2,
		BottomLeft: topLeft + 2*columns, Bottom: topLeft + 2*columns + 1, BottomRight: topLeft + 2*columns + 2,
	}
}

// DrawNineSlice stretches the nine-region composite n over dst. Corners
// keep their source size; edges and the center repeat their source tile
// across the remaining span, the last tile of each run clipped to what is
// left (in both destination extent and sampled source). A destination
// smaller than the top-left plus bottom-right corners is a silent no-op,
// as is a missing sheet.
func (r *Renderer) DrawNineSlice(dst Rect, n NineSlice) {
	if dst.Empty() {
		return
	}
	if dst.W < n.TopLeft.W+n.BottomRight.W || dst.H < n.TopLeft.H+n.BottomRight.H {
		return
	}
	tex := r.sheetTexture()
	if tex == nil {
		return
	}
	pos := Pt(dst.X, dst.Y).Add(r.ctx.camera)
	if r.ctx.clip.rejects(pos.X, pos.Y, pos.X+dst.W, pos.Y+dst.H) {
		return
	}
	r.setTexture(tex)

	x0, y0 := dst.X, dst.Y
	x1, y1 := dst.X+dst.W, dst.Y+dst.H

	r.nineCorner(tex, x0, y0, n.TopLeft)
	r.nineCorner(tex, x1-n.TopRight.W, y0, n.TopRight)
	r.nineCorner(tex, x0, y1-n.BottomLeft.H, n.BottomLeft)
	r.nineCorner(tex, x1-n.BottomRight.W, y1-n.BottomRight.H, n.BottomRight)

	r.nineRow(tex, x0+n.TopLeft.W, x1-n.TopRight.W, y0, n.Top)
	r.nineRow(tex, x0+n.BottomLeft.W, x1-n.BottomRight.W, y1-n.Bottom.H, n.Bottom)
	r.nineCol(tex, y0+n.TopLeft.H, y1-n.BottomLeft.H, x0, n.Left)
	r.nineCol(tex, y0+n.TopRight.H, y1-n.BottomRight.H, x1-n.Right.W, n.Right)

	if n.Center.Empty() {
		return
	}
	// Interior frame, bounded by the same two corners the no-op check
	// compares against.
	ix0, iy0 := x0+n.TopLeft.W, y0+n.TopLeft.H
	ix1, iy1 := x1-n.BottomRight.W, y1-n.BottomRight.H
	for ty := iy0; ty < iy1; ty += n.Center.H {
		h := math32.Min(n.Center.H, iy1-ty)
		for tx := ix0; tx < ix1; tx += n.Center.W {
			w := math32.Min(n.Center.W, ix1-tx)
			r.nineTile(tex, Rec(tx, ty, w, h), Rec(n.Center.X, n.Center.Y, w, h))
		}
	}
}

// DrawNineSliceSprites is [DrawNineSlice] with each source region named
// by a sprite identifier on the bound sheet. Any unknown identifier makes
// the whole composite a silent no-op.
func (r *Renderer) DrawNineSliceSprites(dst Rect, ids NineSliceIDs) {
	ok := true
	resolve := func(id int) Rect {
		src, found := r.sheetSprite(id)
		if !found {
			ok = false
		}
		return src
	}
	n := NineSlice{
		TopLeft: resolve(ids.TopLeft), Top: resolve(ids.Top), TopRight: resolve(ids.TopRight),
		Left: resolve(ids.Left), Center: resolve(ids.Center), Right: resolve(ids.Right),
		BottomLeft: resolve(ids.BottomLeft), Bottom: resolve(ids.Bottom), BottomRight: resolve(ids.BottomRight),
	}
	if !ok {
		return
	}
	r.DrawNineSlice(dst, n)
}

// nineCorner draws one corner region at its source size.
func (r *Renderer) nineCorner(tex Texture, x, y float32, src Rect) {
	if src.Empty() {
		return
	}
	r.nineTile(tex, Rec(x, y, src.W, src.H), src)
}

// nineRow tiles src horizontally from x0 to x1 along the row at y.
func (r *Renderer) nineRow(tex Texture, x0, x1, y float32, src Rect) {
	if src.Empty() {
		return
	}
	for tx := x0; tx < x1; tx += src.W {
		w := math32.Min(src.W, x1-tx)
		r.nineTile(tex, Rec(tx, y, w, src.H), Rec(src.X, src.Y, w, src.H))
	}
}

// nineCol tiles src vertically from y0 to y1 along the column at x.
func (r *Renderer) nineCol(tex Texture, y0, y1, x float32, src Rect) {
	if src.Empty() {
		return
	}
	for ty := y0; ty < y1; ty += src.H {
		h := math32.Min(src.H, y1-ty)
		r.nineTile(tex, Rec(x, ty, src.W, h), Rec(src.X, src.Y, src.W, h))
	}
}

// nineTile emits one composite tile. src is in sheet texels, already
// clipped to the destination tile's size.
func (r *Renderer) nineTile(tex Texture, dst, src Rect) {
	tw := float32(tex.Width())
	th := float32(tex.Height())
	r.texturedRect(dst, src.X/tw, src.Y/th, (src.X+src.W)/tw, (src.Y+src.H)/th, White)
}
