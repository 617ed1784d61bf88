package render

import (
	"image"
	"image/color"
	"math"
	"sort"

	"mazecaster/internal/framebuffer"
	"mazecaster/internal/raycast"
)

// SpriteRenderer composites billboards far to near with per-column depth
// tests against the visibility buffer.
type SpriteRenderer struct {
	order []spriteDepth
}

type spriteDepth struct {
	index int
	dist2 float64
}

func NewSpriteRenderer() *SpriteRenderer {
	return &SpriteRenderer{}
}

// RenderSprites draws scene.Sprites into viewport and returns the number of
// pixels written. A column is drawn only where vis holds a wall farther than
// the sprite; columns past the end of vis have no occluder.
func (sr *SpriteRenderer) RenderSprites(fb *framebuffer.Framebuffer, scene *Scene, vis VisibilityBuffer, viewport image.Rectangle, elapsed float64) int {
	if scene == nil || viewport.Empty() || len(scene.Sprites) == 0 || !scene.renderable() {
		return 0
	}

	// Painter's order: farthest first, ties keep input order.
	sr.order = sr.order[:0]
	for i, s := range scene.Sprites {
		dx, dy := s.Pos.X-scene.Pose.Pos.X, s.Pos.Y-scene.Pose.Pos.Y
		sr.order = append(sr.order, spriteDepth{index: i, dist2: dx*dx + dy*dy})
	}
	sort.SliceStable(sr.order, func(a, b int) bool {
		return sr.order[a].dist2 > sr.order[b].dist2
	})

	dtp := DistanceToPlane(viewport.Dx(), scene.Pose.FOV)
	drawn := 0
	for _, o := range sr.order {
		drawn += sr.drawSprite(fb, scene, scene.Sprites[o.index], vis, viewport, dtp, elapsed)
	}
	return drawn
}

func (sr *SpriteRenderer) drawSprite(fb *framebuffer.Framebuffer, scene *Scene, s Sprite, vis VisibilityBuffer, viewport image.Rectangle, dtp, elapsed float64) int {
	pose := scene.Pose
	dx, dy := s.Pos.X-pose.Pos.X, s.Pos.Y-pose.Pos.Y

	sin, cos := math.Sincos(pose.Angle)
	perp := dx*cos + dy*sin
	if perp <= 0 {
		return 0
	}
	perp = math.Max(perp, raycast.MinDistance)
	lateral := -dx*sin + dy*cos

	scale := s.Scale
	if scale <= 0 {
		scale = 1
	}
	// The angular cut is widened by the sprite's half-width so a near
	// billboard centred outside the view still draws its visible part.
	halfWidth := scene.CellSize * scale / 2
	offset := normalizeAngle(math.Atan2(dy, dx) - pose.Angle)
	if math.Abs(offset) > pose.FOV/2+scene.fovMargin()+math.Atan(halfWidth/perp) {
		return 0
	}

	w, h := viewport.Dx(), viewport.Dy()
	size := scene.CellSize * scale * dtp / perp
	if size < 1 {
		return 0
	}
	screenX := float64(w)/2 + lateral*dtp/perp
	left := screenX - size/2
	if left+size <= 0 || left >= float64(w) {
		return 0
	}
	top := float64(h)/2 - size/2

	frame := s.frameAt(elapsed, scene.Textures)
	view := scene.Textures.FrameView(s.Symbol, frame)
	fw, fh := view.Rect.Dx(), view.Rect.Dy()
	if fw <= 0 || fh <= 0 {
		return 0
	}

	shade := Shade(scene.spriteLighting(), perp)
	key := scene.TransparentKey
	if key == (color.RGBA{}) {
		key = DefaultTransparentKey
	}

	x0 := max(int(math.Floor(left)), 0)
	x1 := min(int(math.Floor(left+size)), w)
	y0 := max(int(math.Floor(top)), 0)
	y1 := min(int(math.Floor(top+size)), h)

	drawn := 0
	for x := x0; x < x1; x++ {
		if x < len(vis) && !(vis[x] > perp) {
			continue
		}
		tx := int((float64(x) - left) * float64(fw) / size)
		if tx < 0 || tx >= fw {
			continue
		}
		for y := y0; y < y1; y++ {
			ty := int((float64(y) - top) * float64(fh) / size)
			if ty < 0 || ty >= fh {
				continue
			}
			c := view.At(tx, ty)
			if c.A == 0 || (c.R == key.R && c.G == key.G && c.B == key.B) {
				continue
			}
			px, py := viewport.Min.X+x, viewport.Min.Y+y
			shaded := shadeColor(c, shade)
			if c.A == 255 {
				fb.SetRGBA(px, py, shaded)
			} else {
				fb.BlendRGBA(px, py, shaded)
			}
			drawn++
		}
	}
	return drawn
}

// frameAt picks the animation frame for a time in seconds.
func (s Sprite) frameAt(elapsed float64, textures TextureSource) int {
	frames := s.Frames
	if frames <= 0 {
		frames = textures.FrameCount(s.Symbol)
	}
	if frames <= 1 {
		return 0
	}
	tick := 0
	if s.FPS > 0 && elapsed > 0 {
		tick = int(math.Floor(elapsed * s.FPS))
	}
	frame := (tick + s.Phase) % frames
	if frame < 0 {
		frame += frames
	}
	return frame
}

func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
