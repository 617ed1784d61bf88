package graphics

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"log"
	"os"

	"mazecaster/internal/world"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Pixels is an RGBA8 texture, row-major, 4 bytes per texel.
type Pixels struct {
	W, H int
	Pix  []byte
}

// RGBAAt returns the texel at (x, y) with coordinates clamped to the texture.
func (p *Pixels) RGBAAt(x, y int) color.RGBA {
	if x < 0 {
		x = 0
	} else if x >= p.W {
		x = p.W - 1
	}
	if y < 0 {
		y = 0
	} else if y >= p.H {
		y = p.H - 1
	}
	i := (y*p.W + x) * 4
	return color.RGBA{R: p.Pix[i], G: p.Pix[i+1], B: p.Pix[i+2], A: p.Pix[i+3]}
}

// Stride is the byte length of one row.
func (p *Pixels) Stride() int {
	return p.W * 4
}

// Sheet splits a texture into an evenly sized Cols x Rows animation grid.
type Sheet struct {
	Cols, Rows int
}

func (s Sheet) Frames() int {
	if s.Cols <= 0 || s.Rows <= 0 {
		return 1
	}
	return s.Cols * s.Rows
}

// FrameView is one animation frame: a sub-rectangle of a texture.
type FrameView struct {
	Tex  *Pixels
	Rect image.Rectangle
}

// At samples the frame at (x, y) relative to the frame origin, clamped.
func (f FrameView) At(x, y int) color.RGBA {
	if x >= f.Rect.Dx() {
		x = f.Rect.Dx() - 1
	}
	if y >= f.Rect.Dy() {
		y = f.Rect.Dy() - 1
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return f.Tex.RGBAAt(f.Rect.Min.X+x, f.Rect.Min.Y+y)
}

var blankTexture = &Pixels{W: 1, H: 1, Pix: []byte{255, 255, 255, 255}}

// TextureManager maps grid symbols to textures. It is built once per theme
// and only read while rendering.
type TextureManager struct {
	textures map[rune]*Pixels
	sheets   map[rune]Sheet
	fallback rune
}

// NewTextureManager creates an empty registry. fallback is the symbol whose
// texture stands in for unknown symbols.
func NewTextureManager(fallback rune) *TextureManager {
	return &TextureManager{
		textures: make(map[rune]*Pixels),
		sheets:   make(map[rune]Sheet),
		fallback: fallback,
	}
}

// Add registers a texture. A sheet with Frames() > 1 makes it animated.
func (tm *TextureManager) Add(sym rune, tex *Pixels, sheet Sheet) {
	tm.textures[sym] = tex
	if sheet.Frames() > 1 && tex.W >= sheet.Cols && tex.H >= sheet.Rows {
		tm.sheets[sym] = sheet
	} else {
		delete(tm.sheets, sym)
	}
}

// AddFile loads path and registers it under sym, replacing any texture
// already there. On error the registry is left unchanged.
func (tm *TextureManager) AddFile(sym rune, path string, sheet Sheet) error {
	tex, err := LoadPixels(path)
	if err != nil {
		return err
	}
	tm.Add(sym, FitSheet(tex, sheet), sheet)
	return nil
}

func (tm *TextureManager) Has(sym rune) bool {
	_, ok := tm.textures[sym]
	return ok
}

func (tm *TextureManager) Fallback() rune {
	return tm.fallback
}

// View returns the texture for sym, the fallback texture, or a 1x1 white
// texel, in that order.
func (tm *TextureManager) View(sym rune) *Pixels {
	if tex, ok := tm.textures[sym]; ok {
		return tex
	}
	if tex, ok := tm.textures[tm.fallback]; ok {
		return tex
	}
	return blankTexture
}

// FrameCount is 1 for static textures.
func (tm *TextureManager) FrameCount(sym rune) int {
	if sheet, ok := tm.sheets[sym]; ok {
		return sheet.Frames()
	}
	return 1
}

// FrameView returns frame index frame (wrapped) of sym's sheet, reading
// frames left to right then top to bottom.
func (tm *TextureManager) FrameView(sym rune, frame int) FrameView {
	tex := tm.View(sym)
	sheet, ok := tm.sheets[sym]
	if !ok {
		return FrameView{Tex: tex, Rect: image.Rect(0, 0, tex.W, tex.H)}
	}
	n := sheet.Frames()
	frame %= n
	if frame < 0 {
		frame += n
	}
	fw, fh := tex.W/sheet.Cols, tex.H/sheet.Rows
	col, row := frame%sheet.Cols, frame/sheet.Cols
	return FrameView{Tex: tex, Rect: image.Rect(col*fw, row*fh, (col+1)*fw, (row+1)*fh)}
}

// FromImage converts any decoded image to RGBA8 pixels.
func FromImage(img image.Image) *Pixels {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &Pixels{W: b.Dx(), H: b.Dy(), Pix: dst.Pix}
}

// LoadPixels decodes a PNG, BMP or WebP file.
func LoadPixels(path string) (*Pixels, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture %s: %w", path, err)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("texture %s has no pixels", path)
	}
	return FromImage(img), nil
}

// FitSheet rescales tex so both dimensions divide evenly by the sheet grid.
func FitSheet(tex *Pixels, sheet Sheet) *Pixels {
	if sheet.Frames() <= 1 || (tex.W%sheet.Cols == 0 && tex.H%sheet.Rows == 0) {
		return tex
	}
	fw := max(1, tex.W/sheet.Cols)
	fh := max(1, tex.H/sheet.Rows)
	src := &image.RGBA{Pix: tex.Pix, Stride: tex.Stride(), Rect: image.Rect(0, 0, tex.W, tex.H)}
	dst := image.NewRGBA(image.Rect(0, 0, fw*sheet.Cols, fh*sheet.Rows))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return &Pixels{W: dst.Rect.Dx(), H: dst.Rect.Dy(), Pix: dst.Pix}
}

// BuildTextures loads a texture for every drawable material. Paths in
// overrides (keyed by symbol letter) win over the material's own path.
// Missing or unreadable files get a generated placeholder.
func BuildTextures(table *world.MaterialTable, overrides map[string]string, size int, fallback rune) *TextureManager {
	if size <= 0 {
		size = 64
	}
	tm := NewTextureManager(fallback)
	loaded, generated := 0, 0

	for _, m := range table.Materials() {
		if m.Category == world.CategoryEmpty || m.Category == world.CategoryStart {
			continue
		}
		sheet := Sheet{Cols: m.SheetCols, Rows: m.SheetRows}

		path := m.Texture
		if p, ok := overrides[string(m.Symbol)]; ok && p != "" {
			path = p
		}

		var tex *Pixels
		if path != "" {
			var err error
			tex, err = LoadPixels(path)
			if err != nil {
				log.Printf("Warning: %v, using placeholder for %q", err, string(m.Symbol))
				tex = nil
			}
		}
		if tex == nil {
			tex = Placeholder(m, size)
			generated++
		} else {
			tex = FitSheet(tex, sheet)
			loaded++
		}
		tm.Add(m.Symbol, tex, sheet)
	}

	if !tm.Has(fallback) {
		tm.Add(fallback, Placeholder(&world.Material{Symbol: fallback, Category: world.CategoryWall, Color: [3]int{128, 128, 128}}, size), Sheet{})
		generated++
	}

	fmt.Printf("[Textures] %d loaded, %d generated\n", loaded, generated)
	return tm
}
