package graphics

import (
	"image/color"
	"math"

	"mazecaster/internal/world"
)

// Placeholder generates a size x size texture for a material with no image.
// Walls get a brick pattern, doors vertical planks and billboards a sheet of
// pulsing discs on a transparent background.
func Placeholder(m *world.Material, size int) *Pixels {
	base := m.Color.Color()
	if m.Color == ([3]int{}) {
		base = color.RGBA{128, 128, 128, 255}
	}
	switch m.Category {
	case world.CategoryActor, world.CategoryItem:
		cols, rows := m.SheetCols, m.SheetRows
		if cols <= 0 || rows <= 0 {
			cols, rows = 1, 1
		}
		return discSheet(base, size, cols, rows)
	case world.CategoryDoor, world.CategoryExit:
		return planks(base, size)
	default:
		return bricks(base, size)
	}
}

func newPixels(w, h int) *Pixels {
	return &Pixels{W: w, H: h, Pix: make([]byte, w*h*4)}
}

func (p *Pixels) set(x, y int, c color.RGBA) {
	i := (y*p.W + x) * 4
	p.Pix[i], p.Pix[i+1], p.Pix[i+2], p.Pix[i+3] = c.R, c.G, c.B, c.A
}

func scale(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{
		R: uint8(math.Min(255, float64(c.R)*f)),
		G: uint8(math.Min(255, float64(c.G)*f)),
		B: uint8(math.Min(255, float64(c.B)*f)),
		A: c.A,
	}
}

func bricks(base color.RGBA, size int) *Pixels {
	p := newPixels(size, size)
	mortar := scale(base, 0.55)
	brickH := max(2, size/4)
	brickW := max(4, size/2)
	for y := 0; y < size; y++ {
		row := y / brickH
		offset := 0
		if row%2 == 1 {
			offset = brickW / 2
		}
		for x := 0; x < size; x++ {
			c := base
			if y%brickH == 0 || (x+offset)%brickW == 0 {
				c = mortar
			} else if (x+y)%7 == 0 {
				c = scale(base, 0.9)
			}
			p.set(x, y, c)
		}
	}
	return p
}

func planks(base color.RGBA, size int) *Pixels {
	p := newPixels(size, size)
	plankW := max(2, size/6)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := base
			if x%plankW == 0 {
				c = scale(base, 0.6)
			}
			if y == size/2 || y == size/2+1 {
				c = scale(base, 0.4)
			}
			p.set(x, y, c)
		}
	}
	return p
}

// discSheet draws one disc per frame whose radius grows then shrinks across
// the sheet so animation is visible.
func discSheet(base color.RGBA, frameSize, cols, rows int) *Pixels {
	p := newPixels(frameSize*cols, frameSize*rows)
	frames := cols * rows
	half := float64(frameSize) / 2
	for f := 0; f < frames; f++ {
		phase := math.Sin(math.Pi * float64(f) / float64(frames))
		radius := half * (0.55 + 0.3*phase)
		ox, oy := (f%cols)*frameSize, (f/cols)*frameSize
		for y := 0; y < frameSize; y++ {
			for x := 0; x < frameSize; x++ {
				dx := float64(x) + 0.5 - half
				dy := float64(y) + 0.5 - half
				d := math.Hypot(dx, dy)
				if d > radius {
					continue
				}
				p.set(ox+x, oy+y, scale(base, 1.15-0.5*d/radius))
			}
		}
	}
	return p
}
