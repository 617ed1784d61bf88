package framebuffer

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

var (
	red   = color.RGBA{255, 0, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
)

func TestSetRGBABoundsChecked(t *testing.T) {
	fb := New(4, 3)
	fb.SetRGBA(-1, 0, red)
	fb.SetRGBA(0, -1, red)
	fb.SetRGBA(4, 0, red)
	fb.SetRGBA(0, 3, red)
	for i, b := range fb.Pix() {
		if b != 0 {
			t.Fatalf("Out of range write landed at byte %d", i)
		}
	}

	fb.SetRGBA(3, 2, red)
	if got := fb.At(3, 2); got != red {
		t.Errorf("Expected red at (3,2), got %v", got)
	}
	if got := fb.At(9, 9); got != (color.RGBA{}) {
		t.Errorf("Expected zero outside the buffer, got %v", got)
	}
}

func TestFillRectClips(t *testing.T) {
	fb := New(5, 5)
	fb.FillRect(image.Rect(-3, -3, 2, 2), red)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			want := color.RGBA{}
			if x < 2 && y < 2 {
				want = red
			}
			if got := fb.At(x, y); got != want {
				t.Errorf("(%d,%d): expected %v, got %v", x, y, want, got)
			}
		}
	}

	fb.FillRow(4, 1, 3, blue)
	if fb.At(1, 4) != blue || fb.At(2, 4) != blue || fb.At(3, 4) == blue {
		t.Errorf("FillRow should cover [1,3) only")
	}
}

func TestBlendRGBA(t *testing.T) {
	tests := []struct {
		name string
		src  color.RGBA
		want color.RGBA
	}{
		{"transparent", color.RGBA{255, 255, 255, 0}, black},
		{"opaque", red, red},
		{"half", color.RGBA{255, 255, 255, 128}, color.RGBA{128, 128, 128, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := New(1, 1)
			fb.Clear(black)
			fb.BlendRGBA(0, 0, tt.src)
			if got := fb.At(0, 0); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLineEndpoints(t *testing.T) {
	fb := New(10, 10)
	fb.Line(1, 8, 7, 2, red)
	if fb.At(1, 8) != red || fb.At(7, 2) != red {
		t.Errorf("Expected both endpoints drawn")
	}
	// Diagonal passes through the midpoint.
	if fb.At(4, 5) != red {
		t.Errorf("Expected (4,5) on the diagonal")
	}

	// Lines leaving the buffer must not panic.
	fb.Line(-20, -20, 30, 30, blue)
}

func TestBlitFrameSkipsTransparent(t *testing.T) {
	// 2x1 source: red, transparent.
	pix := []byte{255, 0, 0, 255, 0, 255, 0, 0}
	fb := New(4, 2)
	fb.Clear(black)
	fb.BlitFrame(pix, 8, image.Rect(0, 0, 2, 1), image.Rect(0, 0, 4, 2))

	for y := 0; y < 2; y++ {
		if fb.At(0, y) != red || fb.At(1, y) != red {
			t.Errorf("Row %d: expected left half red", y)
		}
		if fb.At(2, y) != black || fb.At(3, y) != black {
			t.Errorf("Row %d: expected right half untouched", y)
		}
	}
}

func TestFillDiscAndStroke(t *testing.T) {
	fb := New(20, 20)
	fb.FillDisc(10, 10, 3, red)
	if fb.At(10, 10) != red {
		t.Errorf("Expected disc centre filled")
	}
	if fb.At(10, 15) == red {
		t.Errorf("Expected pixels past the radius untouched")
	}

	fb.StrokeRect(image.Rect(0, 0, 20, 20), 2, blue)
	if fb.At(0, 0) != blue || fb.At(19, 19) != blue || fb.At(1, 10) != blue {
		t.Errorf("Expected border pixels")
	}
	if fb.At(2, 2) == blue {
		t.Errorf("Expected border to be 2px thick")
	}
}

func TestSavePNG(t *testing.T) {
	fb := New(3, 2)
	fb.Clear(blue)
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := fb.SavePNG(path); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open png: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Failed to decode png: %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Errorf("Unexpected png size %v", img.Bounds())
	}
}

func TestResize(t *testing.T) {
	fb := New(2, 2)
	fb.Resize(5, 4)
	if fb.Width() != 5 || fb.Height() != 4 || len(fb.Pix()) != 5*4*4 {
		t.Errorf("Unexpected size after resize: %dx%d", fb.Width(), fb.Height())
	}
}
