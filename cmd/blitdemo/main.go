//go:build !nogpu

// Command blitdemo demonstrates the blit 2D batch renderer.
package main

import (
	"flag"
	"image"
	"image/png"
	"log"
	"os"

	"github.com/chewxy/math32"

	"github.com/gogpu/blit"
	_ "github.com/gogpu/blit/gpu" // enable the GPU driver
)

func main() {
	var (
		width  = flag.Int("width", 800, "image width")
		height = flag.Int("height", 600, "image height")
		output = flag.String("output", "demo.png", "output file")
	)
	flag.Parse()

	r, err := blit.New(blit.WithSize(*width, *height))
	if err != nil {
		log.Fatalf("Failed to open renderer: %v", err)
	}
	defer func() {
		_ = r.Close()
	}()

	r.StartRender()

	// Draw various demonstrations
	drawBackground(r, *width, *height)
	drawShapes(r)
	drawRotations(r)
	if err := drawSprites(r); err != nil {
		log.Fatalf("Failed to build sprite sheet: %v", err)
	}
	drawPixelArt(r)

	r.FrameEnd()

	// Save result
	img, err := r.ReadPixels(nil)
	if err != nil {
		log.Fatalf("Failed to read pixels: %v", err)
	}
	if err := savePNG(*output, img); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	stats := r.Stats()
	log.Printf("Demo saved to %s (%dx%d): %d quads in %d draw calls over %d flushes\n",
		*output, *width, *height, stats.Quads, stats.DrawCalls, stats.Flushes())
}

// drawBackground fills the frame with a vertical gradient built from
// horizontal bands.
func drawBackground(r *blit.Renderer, w, h int) {
	steps := 100
	for i := 0; i < steps; i++ {
		t := float32(i) / float32(steps)
		c := blit.RGB(uint8(25+t*100), uint8(50+t*75), uint8(100+t*50))
		y := float32(h) * t
		r.FillRect(blit.Rec(0, y, float32(w), float32(h)/float32(steps)+1), c)
	}
}

func drawShapes(r *blit.Renderer) {
	// Overlapping translucent circles
	r.FillEllipse(150, 150, 60, 60, blit.RGBA(255, 80, 80, 200))
	r.FillEllipse(200, 150, 60, 60, blit.RGBA(80, 255, 80, 200))
	r.FillEllipse(175, 200, 60, 60, blit.RGBA(80, 80, 255, 200))

	// Filled and stroked rectangles
	r.FillRect(blit.Rec(350, 100, 120, 80), blit.RGB(255, 205, 0))
	r.DrawRect(blit.Rec(350, 100, 120, 80), blit.White)

	// Triangle
	r.FillTriangle(520, 180, 560, 100, 600, 180, blit.RGB(0, 200, 180))

	// Line fan
	for i := 0; i <= 6; i++ {
		t := float32(i) / 6
		r.DrawLine(60, 320, 60+200*t, 380-120*t, blit.RGBA(255, 255, 255, 160))
	}

	// Ellipse outline
	r.DrawEllipse(400, 300, 90, 45, blit.RGB(255, 160, 60))
}

func drawRotations(r *blit.Renderer) {
	// Rotated squares
	palette := []blit.Color{
		blit.RGB(230, 60, 60),
		blit.RGB(230, 150, 50),
		blit.RGB(220, 220, 60),
		blit.RGB(90, 210, 80),
		blit.RGB(60, 200, 200),
		blit.RGB(70, 110, 230),
		blit.RGB(150, 70, 220),
		blit.RGB(220, 80, 180),
	}
	center := blit.Pt(650, 150)
	for i, c := range palette {
		angle := float32(i) * math32.Pi / 8
		rect := blit.Rec(center.X-45, center.Y-45, 90, 90)
		r.FillRectRotated(rect, c.WithAlpha(0.6), angle, center)
	}
}

// drawSprites builds a procedural 3x3 sprite sheet and draws individual
// sprites, a rotated quad, and a nine-slice panel from it.
func drawSprites(r *blit.Renderer) error {
	const cell = 16
	img := image.NewRGBA(image.Rect(0, 0, 3*cell, 3*cell))
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			fill := blit.RGB(uint8(80+row*60), uint8(80+col*60), 200).Color()
			edge := blit.White.Color()
			for y := 0; y < cell; y++ {
				for x := 0; x < cell; x++ {
					c := fill
					if x == 0 || y == 0 || x == cell-1 || y == cell-1 {
						c = edge
					}
					img.Set(col*cell+x, row*cell+y, c)
				}
			}
		}
	}

	sheet, err := r.NewImageSheet(img, cell, cell)
	if err != nil {
		return err
	}
	r.SetSpriteSheet(sheet)

	// Individual sprites
	for i := 0; i < sheet.Len(); i++ {
		r.DrawSprite(60+float32(i%3)*20, 430+float32(i/3)*20, i)
	}

	// The whole sheet as one rotated quad
	r.DrawQuadRotated(200, 440, blit.Rec(0, 0, 3*cell, 3*cell),
		math32.Pi/6, blit.Pt(224, 464))

	// Nine-slice panel stretched well past the source size
	r.DrawNineSliceSprites(blit.Rec(320, 410, 200, 140), blit.GridIDs(0, 3))
	return nil
}

// drawPixelArt renders a CPU-built plasma block through a pixel buffer.
func drawPixelArt(r *blit.Renderer) {
	const size = 96
	pb := blit.NewPixelBuffer(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			fx := float32(x) / size
			fy := float32(y) / size
			v := math32.Sin(fx*7) + math32.Sin(fy*9) + math32.Sin((fx+fy)*11)
			lum := 128 + 40*v
			pb.Set(x, y, blit.RGB(uint8(lum*0.6), uint8(lum), uint8(255-lum*0.5)))
		}
	}
	r.DrawPixelBuffer(620, 420, pb)
}

func savePNG(path string, img *image.RGBA) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	return png.Encode(f, img)
}
