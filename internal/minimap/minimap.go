package minimap

import (
	"errors"
	"image"
	"image/color"
	"math"

	"mazecaster/internal/config"
	"mazecaster/internal/framebuffer"
	"mazecaster/internal/mathutil"
	"mazecaster/internal/raycast"
	"mazecaster/internal/render"
	"mazecaster/internal/world"

	"github.com/harbdog/raycaster-go/geom"
)

const (
	frameThickness = 2
	minRays        = 8
	maxRays        = 64
	// overviewDotSpacing is the pixel gap between dots of an overview ray.
	overviewDotSpacing = 4
)

// Window is the part of the grid the minimap shows: a top-left corner in
// fractional cell coordinates and a size in whole cells.
type Window struct {
	X, Y float64
	W, H int
}

// Contains reports whether a cell-space point lies inside the window.
func (w Window) Contains(cx, cy float64) bool {
	return cx >= w.X && cx < w.X+float64(w.W) && cy >= w.Y && cy < w.Y+float64(w.H)
}

// clip shortens the segment from -> to so it ends on the window border
// without changing its direction.
func (w Window) clip(from, to geom.Vector2) geom.Vector2 {
	dx, dy := to.X-from.X, to.Y-from.Y
	t := 1.0
	if dx > 0 {
		t = math.Min(t, (w.X+float64(w.W)-from.X)/dx)
	} else if dx < 0 {
		t = math.Min(t, (w.X-from.X)/dx)
	}
	if dy > 0 {
		t = math.Min(t, (w.Y+float64(w.H)-from.Y)/dy)
	} else if dy < 0 {
		t = math.Min(t, (w.Y-from.Y)/dy)
	}
	t = math.Max(t, 0)
	return geom.Vector2{X: from.X + dx*t, Y: from.Y + dy*t}
}

// ComputeWindow centres a cellsW x cellsH window on viewer (in cell units)
// and clamps it so it never extends past the grid. An empty grid yields a
// zero window.
func ComputeWindow(gridW, gridH int, viewer geom.Vector2, cellsW, cellsH int) Window {
	if gridW <= 0 || gridH <= 0 {
		return Window{}
	}
	w := mathutil.ClampInt(cellsW, 1, gridW)
	h := mathutil.ClampInt(cellsH, 1, gridH)
	x := mathutil.ClampFloat(viewer.X-float64(w)/2, 0, float64(gridW-w))
	y := mathutil.ClampFloat(viewer.Y-float64(h)/2, 0, float64(gridH-h))
	return Window{X: x, Y: y, W: w, H: h}
}

// Projector paints a viewer-following top-down map. It keeps no state
// between frames.
type Projector struct {
	ShowFrame bool
}

func NewProjector(showFrame bool) *Projector {
	return &Projector{ShowFrame: showFrame}
}

// drawable reports whether scene has a grid and a usable cell size. The map
// never samples textures.
func drawable(scene *render.Scene) bool {
	if scene == nil {
		return false
	}
	err := scene.Validate()
	return err == nil || errors.Is(err, render.ErrNoTextures)
}

// transform maps window cell space onto a destination rectangle.
type transform struct {
	win    Window
	dst    image.Rectangle
	sx, sy float64
}

func newTransform(win Window, dst image.Rectangle) transform {
	return transform{
		win: win,
		dst: dst,
		sx:  float64(dst.Dx()) / float64(win.W),
		sy:  float64(dst.Dy()) / float64(win.H),
	}
}

// toPixel converts a cell-space point to a pixel, clamped to the window.
func (t transform) toPixel(cx, cy float64) (int, int) {
	cx = mathutil.ClampFloat(cx, t.win.X, t.win.X+float64(t.win.W))
	cy = mathutil.ClampFloat(cy, t.win.Y, t.win.Y+float64(t.win.H))
	px := t.dst.Min.X + int(math.Floor((cx-t.win.X)*t.sx))
	py := t.dst.Min.Y + int(math.Floor((cy-t.win.Y)*t.sy))
	return mathutil.IntMin(px, t.dst.Max.X-1), mathutil.IntMin(py, t.dst.Max.Y-1)
}

// cellScale is the size of one cell in pixels along the shorter axis.
func (t transform) cellScale() float64 {
	return math.Min(t.sx, t.sy)
}

// Render draws the minimap of scene into dst and returns the window it
// showed. A degenerate scene or an empty rectangle draws nothing.
func (p *Projector) Render(fb *framebuffer.Framebuffer, scene *render.Scene, dst image.Rectangle, cellsW, cellsH int) Window {
	if dst.Empty() || !drawable(scene) {
		return Window{}
	}
	maze := scene.Maze
	cs := scene.CellSize
	colors := scene.Theme.Minimap
	viewer := geom.Vector2{X: scene.Pose.Pos.X / cs, Y: scene.Pose.Pos.Y / cs}

	win := ComputeWindow(maze.Width(), maze.Height(), viewer, cellsW, cellsH)
	if win.W == 0 {
		return win
	}
	t := newTransform(win, dst)

	if p.ShowFrame && colors.Frame[3] > 0 {
		fb.StrokeRect(dst.Inset(-frameThickness), frameThickness, colors.Frame.Color())
	}
	p.fillCells(fb, maze, t, colors)

	// field of view
	rays := mathutil.ClampInt(dst.Dx()/4, minRays, maxRays)
	rayColor := colors.FOVRay.Color()
	vx, vy := t.toPixel(viewer.X, viewer.Y)
	for i := 0; i < rays; i++ {
		angle := scene.Pose.RayAngle(i, rays)
		hit := raycast.CastRay(maze, scene.Pose.Pos, angle, cs).Point(scene.Pose.Pos, angle)
		end := win.clip(viewer, geom.Vector2{X: hit.X / cs, Y: hit.Y / cs})
		ex, ey := t.toPixel(end.X, end.Y)
		fb.Line(vx, vy, ex, ey, rayColor)
	}

	// viewer and heading
	scale := t.cellScale()
	fb.FillDisc(float64(vx)+0.5, float64(vy)+0.5, math.Max(2, scale*0.3), colors.Player.Color())
	hx, hy := t.toPixel(viewer.X+0.8*math.Cos(scene.Pose.Angle), viewer.Y+0.8*math.Sin(scene.Pose.Angle))
	fb.Line(vx, vy, hx, hy, colors.DirLine.Color())

	// actors and items
	for _, s := range scene.Sprites {
		cx, cy := s.Pos.X/cs, s.Pos.Y/cs
		if !win.Contains(cx, cy) {
			continue
		}
		px, py := t.toPixel(cx, cy)
		fb.FillDisc(float64(px)+0.5, float64(py)+0.5, math.Max(1.5, scale*0.25), markerColor(maze.Materials, colors, s.Symbol))
	}
	return win
}

// fillCells paints every destination pixel with the colour of the nearest
// cell under it, one run of equal cells at a time.
func (p *Projector) fillCells(fb *framebuffer.Framebuffer, maze *world.Maze, t transform, colors config.MinimapColors) {
	cols := make([]int, t.dst.Dx())
	for i := range cols {
		cols[i] = int(math.Floor(t.win.X + (float64(i)+0.5)/t.sx))
	}
	for py := t.dst.Min.Y; py < t.dst.Max.Y; py++ {
		cy := int(math.Floor(t.win.Y + (float64(py-t.dst.Min.Y)+0.5)/t.sy))
		for start := 0; start < len(cols); {
			end := start + 1
			for end < len(cols) && cols[end] == cols[start] {
				end++
			}
			c := colors.Empty.Color()
			if sym, ok := maze.At(cols[start], cy); ok {
				c = cellColor(maze.Materials, colors, sym)
			}
			x0, x1 := t.dst.Min.X+start, t.dst.Min.X+end
			if c.A == 255 {
				fb.FillRow(py, x0, x1, c)
			} else {
				fb.BlendRect(image.Rect(x0, py, x1, py+1), c)
			}
			start = end
		}
	}
}

// cellColor resolves a grid symbol to its minimap colour. Obstacles without
// a usable colour key share the first wall colour; billboard cells are floor.
func cellColor(mt *world.MaterialTable, colors config.MinimapColors, sym rune) color.RGBA {
	if m, ok := mt.Lookup(sym); ok && !m.Category.Billboard() {
		if c, ok := colors.ColorFor(m.Minimap); ok {
			return c
		}
	}
	if mt.IsObstacle(sym) {
		return colors.Wall1.Color()
	}
	return colors.Empty.Color()
}

func markerColor(mt *world.MaterialTable, colors config.MinimapColors, sym rune) color.RGBA {
	if m, ok := mt.Lookup(sym); ok {
		if c, ok := colors.ColorFor(m.Minimap); ok {
			return c
		}
		if m.Category == world.CategoryItem {
			return colors.KeyY.Color()
		}
	}
	return colors.Enemy.Color()
}

// RenderOverview draws the whole grid at block pixels per cell from the top
// left of fb, with the view sampled by one dotted ray per screen column.
func RenderOverview(fb *framebuffer.Framebuffer, scene *render.Scene, block, columns int) {
	if block <= 0 || !drawable(scene) {
		return
	}
	maze := scene.Maze
	colors := scene.Theme.Minimap
	for y := 0; y < maze.Height(); y++ {
		for x := 0; x < maze.Width(); x++ {
			c := colors.Empty.Color()
			if sym, ok := maze.At(x, y); ok {
				c = cellColor(maze.Materials, colors, sym)
			}
			fb.FillRect(image.Rect(x*block, y*block, (x+1)*block, (y+1)*block), c)
		}
	}

	cs := scene.CellSize
	toPixel := float64(block) / cs
	rayColor := colors.FOVRay.Color()
	for i := 0; i < columns; i++ {
		angle := scene.Pose.RayAngle(i, columns)
		raycast.Trace(maze, scene.Pose.Pos, angle, cs, overviewDotSpacing/toPixel, func(p geom.Vector2) bool {
			fb.BlendRGBA(int(p.X*toPixel), int(p.Y*toPixel), rayColor)
			return true
		})
	}

	for _, s := range scene.Sprites {
		fb.FillDisc(s.Pos.X*toPixel, s.Pos.Y*toPixel, math.Max(1.5, float64(block)/4), markerColor(maze.Materials, colors, s.Symbol))
	}
	vx, vy := scene.Pose.Pos.X*toPixel, scene.Pose.Pos.Y*toPixel
	fb.FillDisc(vx, vy, math.Max(2, float64(block)/3), colors.Player.Color())
	fb.Line(int(vx), int(vy), int(vx+float64(block)*math.Cos(scene.Pose.Angle)), int(vy+float64(block)*math.Sin(scene.Pose.Angle)), colors.DirLine.Color())
}
