// Package framebuffer is the CPU pixel target every renderer writes into.
// All writes are bounds-checked; out of range coordinates are dropped.
package framebuffer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// Framebuffer is an RGBA8 image owned by the caller of a render pass.
type Framebuffer struct {
	img *image.RGBA
}

// New allocates a w x h framebuffer. Negative sizes are treated as zero.
func New(w, h int) *Framebuffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Framebuffer{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func (fb *Framebuffer) Width() int {
	return fb.img.Rect.Dx()
}

func (fb *Framebuffer) Height() int {
	return fb.img.Rect.Dy()
}

func (fb *Framebuffer) Bounds() image.Rectangle {
	return fb.img.Rect
}

// Pix exposes the raw RGBA bytes, row-major, 4 bytes per pixel.
func (fb *Framebuffer) Pix() []byte {
	return fb.img.Pix
}

// Image exposes the backing image for encoders and presenters.
func (fb *Framebuffer) Image() *image.RGBA {
	return fb.img
}

// Resize reallocates when the size changed. Contents are not preserved.
func (fb *Framebuffer) Resize(w, h int) {
	if w == fb.Width() && h == fb.Height() {
		return
	}
	*fb = *New(w, h)
}

func (fb *Framebuffer) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < fb.img.Rect.Max.X && y < fb.img.Rect.Max.Y
}

// SetRGBA writes one opaque or raw pixel.
func (fb *Framebuffer) SetRGBA(x, y int, c color.RGBA) {
	if !fb.inside(x, y) {
		return
	}
	i := fb.img.PixOffset(x, y)
	p := fb.img.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// At returns the pixel at (x, y), zero outside the buffer.
func (fb *Framebuffer) At(x, y int) color.RGBA {
	if !fb.inside(x, y) {
		return color.RGBA{}
	}
	return fb.img.RGBAAt(x, y)
}

// BlendRGBA composites c over the existing pixel using c.A as coverage.
// The result is opaque when the destination was.
func (fb *Framebuffer) BlendRGBA(x, y int, c color.RGBA) {
	if !fb.inside(x, y) || c.A == 0 {
		return
	}
	if c.A == 255 {
		fb.SetRGBA(x, y, c)
		return
	}
	i := fb.img.PixOffset(x, y)
	p := fb.img.Pix[i : i+4 : i+4]
	a := uint32(c.A)
	inv := 255 - a
	p[0] = uint8((uint32(c.R)*a + uint32(p[0])*inv + 127) / 255)
	p[1] = uint8((uint32(c.G)*a + uint32(p[1])*inv + 127) / 255)
	p[2] = uint8((uint32(c.B)*a + uint32(p[2])*inv + 127) / 255)
	p[3] = uint8(a + (uint32(p[3])*inv+127)/255)
}

// Clear fills the whole buffer.
func (fb *Framebuffer) Clear(c color.RGBA) {
	fb.FillRect(fb.img.Rect, c)
}

// FillRow fills columns [x0, x1) of row y.
func (fb *Framebuffer) FillRow(y, x0, x1 int, c color.RGBA) {
	fb.FillRect(image.Rect(x0, y, x1, y+1), c)
}

// FillRect fills r clipped to the buffer.
func (fb *Framebuffer) FillRect(r image.Rectangle, c color.RGBA) {
	r = r.Intersect(fb.img.Rect)
	if r.Empty() {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := fb.img.Pix[fb.img.PixOffset(r.Min.X, y):fb.img.PixOffset(r.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			row[i], row[i+1], row[i+2], row[i+3] = c.R, c.G, c.B, c.A
		}
	}
}

// BlendRect blends c over every pixel of r.
func (fb *Framebuffer) BlendRect(r image.Rectangle, c color.RGBA) {
	r = r.Intersect(fb.img.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			fb.BlendRGBA(x, y, c)
		}
	}
}

// StrokeRect draws a border of the given thickness inside r.
func (fb *Framebuffer) StrokeRect(r image.Rectangle, thickness int, c color.RGBA) {
	if thickness <= 0 || r.Empty() {
		return
	}
	fb.BlendRect(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness), c)
	fb.BlendRect(image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y), c)
	fb.BlendRect(image.Rect(r.Min.X, r.Min.Y+thickness, r.Min.X+thickness, r.Max.Y-thickness), c)
	fb.BlendRect(image.Rect(r.Max.X-thickness, r.Min.Y+thickness, r.Max.X, r.Max.Y-thickness), c)
}

// FillDisc draws a filled circle centred on (cx, cy).
func (fb *Framebuffer) FillDisc(cx, cy, radius float64, c color.RGBA) {
	if radius <= 0 {
		return
	}
	r2 := radius * radius
	minX, maxX := int(cx-radius), int(cx+radius)+1
	minY, maxY := int(cy-radius), int(cy+radius)+1
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= r2 {
				fb.BlendRGBA(x, y, c)
			}
		}
	}
}

// Line draws a Bresenham line between two points, blending c at each step.
func (fb *Framebuffer) Line(x0, y0, x1, y1 int, c color.RGBA) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy > 0 {
		dy = -dy
	}
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		fb.BlendRGBA(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// BlitFrame scales the src sub-rectangle of an RGBA8 pixel slice into dst
// with nearest-neighbour sampling. Texels with zero alpha are skipped.
func (fb *Framebuffer) BlitFrame(pix []byte, stride int, src, dst image.Rectangle) {
	if src.Empty() || dst.Empty() {
		return
	}
	clipped := dst.Intersect(fb.img.Rect)
	sw, sh := src.Dx(), src.Dy()
	dw, dh := dst.Dx(), dst.Dy()
	for y := clipped.Min.Y; y < clipped.Max.Y; y++ {
		ty := src.Min.Y + (y-dst.Min.Y)*sh/dh
		for x := clipped.Min.X; x < clipped.Max.X; x++ {
			tx := src.Min.X + (x-dst.Min.X)*sw/dw
			i := ty*stride + tx*4
			if i < 0 || i+3 >= len(pix) || pix[i+3] == 0 {
				continue
			}
			fb.BlendRGBA(x, y, color.RGBA{R: pix[i], G: pix[i+1], B: pix[i+2], A: pix[i+3]})
		}
	}
}

// SavePNG encodes the buffer to path.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, fb.img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
