package render

import (
	"image"
	"math"

	"mazecaster/internal/framebuffer"
	"mazecaster/internal/raycast"
)

// ColumnDispatcher runs fn for every column in [0, n) and returns once all
// calls have finished.
type ColumnDispatcher interface {
	Dispatch(n int, fn func(col int))
}

type serialDispatcher struct{}

func (serialDispatcher) Dispatch(n int, fn func(col int)) {
	for i := 0; i < n; i++ {
		fn(i)
	}
}

// ColumnStrip is the projected wall slice of one viewport column.
type ColumnStrip struct {
	Distance     float64 // along the ray
	PerpDistance float64 // fish-eye corrected, what the visibility buffer stores
	LineHeight   float64
	Top, Bottom  int // inclusive viewport rows after clipping; Bottom < Top when empty
	Symbol       rune
	Side         raycast.Side
	TexX         int
	TexStep      float64
	TexPos       float64 // texture row at Top
	Shade        float64
}

// CastColumn casts the ray at rayAngle and projects its wall slice onto a
// viewport of the given height. dtp is the projection-plane distance.
func CastColumn(scene *Scene, rayAngle, dtp float64, height int) ColumnStrip {
	hit := raycast.CastRay(scene.Maze, scene.Pose.Pos, rayAngle, scene.CellSize)

	perp := hit.Distance * math.Cos(rayAngle-scene.Pose.Angle)
	perp = math.Max(perp, raycast.MinDistance)

	lineHeight := math.Max(1, scene.CellSize*dtp/perp)
	half := float64(height) / 2
	start := half - lineHeight/2

	top := int(math.Floor(start))
	bottom := int(math.Floor(half + lineHeight/2))
	if top < 0 {
		top = 0
	}
	if bottom > height-1 {
		bottom = height - 1
	}

	symbol := hit.Impact
	if !hit.Hit() {
		symbol = scene.fallback()
	}
	tex := scene.Textures.View(symbol)

	texX := int(math.Floor(hit.HitFrac * float64(tex.W)))
	if texX < 0 {
		texX = 0
	} else if texX >= tex.W {
		texX = tex.W - 1
	}

	step := float64(tex.H) / lineHeight
	return ColumnStrip{
		Distance:     hit.Distance,
		PerpDistance: perp,
		LineHeight:   lineHeight,
		Top:          top,
		Bottom:       bottom,
		Symbol:       symbol,
		Side:         hit.Side,
		TexX:         texX,
		TexStep:      step,
		TexPos:       (float64(top) - start) * step,
		Shade:        Shade(scene.wallLighting(), perp),
	}
}

// TexY returns the texture row sampled at viewport row y, clamped to th.
func (s ColumnStrip) TexY(y, th int) int {
	ty := int(s.TexPos + float64(y-s.Top)*s.TexStep)
	if ty < 0 {
		return 0
	}
	if ty >= th {
		return th - 1
	}
	return ty
}

// WorldRenderer draws the background and the wall columns.
type WorldRenderer struct {
	dispatcher ColumnDispatcher
}

// NewWorldRenderer uses d to spread columns over workers; nil renders serially.
func NewWorldRenderer(d ColumnDispatcher) *WorldRenderer {
	if d == nil {
		d = serialDispatcher{}
	}
	return &WorldRenderer{dispatcher: d}
}

// RenderWorld paints sky, floor and walls into viewport and returns the
// visibility buffer, one entry per viewport column.
func (wr *WorldRenderer) RenderWorld(fb *framebuffer.Framebuffer, scene *Scene, viewport image.Rectangle) VisibilityBuffer {
	return wr.RenderWorldInto(fb, scene, viewport, nil)
}

// RenderWorldInto is RenderWorld reusing vis when it has enough capacity.
func (wr *WorldRenderer) RenderWorldInto(fb *framebuffer.Framebuffer, scene *Scene, viewport image.Rectangle, vis VisibilityBuffer) VisibilityBuffer {
	if viewport.Empty() {
		return vis[:0]
	}
	w, h := viewport.Dx(), viewport.Dy()
	if cap(vis) < w {
		vis = make(VisibilityBuffer, w)
	}
	vis = vis[:w]

	if scene != nil {
		half := h / 2
		fb.FillRect(image.Rect(viewport.Min.X, viewport.Min.Y, viewport.Max.X, viewport.Min.Y+half), scene.Theme.Sky.Color())
		fb.FillRect(image.Rect(viewport.Min.X, viewport.Min.Y+half, viewport.Max.X, viewport.Max.Y), scene.Theme.Floor.Color())
	}

	if !scene.renderable() {
		for i := range vis {
			vis[i] = raycast.MissDistance
		}
		return vis
	}

	dtp := DistanceToPlane(w, scene.Pose.FOV)
	wr.dispatcher.Dispatch(w, func(col int) {
		strip := CastColumn(scene, scene.Pose.RayAngle(col, w), dtp, h)
		vis[col] = strip.PerpDistance
		paintStrip(fb, scene, strip, viewport.Min.X+col, viewport.Min.Y)
	})
	return vis
}

func paintStrip(fb *framebuffer.Framebuffer, scene *Scene, strip ColumnStrip, x, y0 int) {
	tex := scene.Textures.View(strip.Symbol)
	texPos := strip.TexPos
	for y := strip.Top; y <= strip.Bottom; y++ {
		ty := int(texPos)
		if ty >= tex.H {
			ty = tex.H - 1
		}
		texPos += strip.TexStep

		c := shadeColor(tex.RGBAAt(strip.TexX, ty), strip.Shade)
		c.A = 255
		fb.SetRGBA(x, y0+y, c)
	}
}
