package frame

import (
	"image"
	"math/rand/v2"

	"mazecaster/internal/config"
	"mazecaster/internal/framebuffer"
	"mazecaster/internal/graphics"
	"mazecaster/internal/render"
)

// firstFaceDelay is how long the face idles before its first animation.
const firstFaceDelay = 1.5

// faceClock picks the face frame for a point in time. The face rests on
// frame 0, then plays its sheet once after a random cooldown.
type faceClock struct {
	fps        float64
	cooldownLo float64
	cooldownHi float64
	rng        *rand.Rand
	playing    bool
	start      float64
	next       float64
}

func newFaceClock(cfg *config.Config, seed uint64) *faceClock {
	lo, hi := cfg.GetFaceCooldown()
	f := &faceClock{
		fps:        cfg.GetFaceFPS(),
		cooldownLo: lo,
		cooldownHi: hi,
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	f.reset(0)
	return f
}

func (f *faceClock) reset(elapsed float64) {
	f.playing = false
	f.start = elapsed
	f.next = elapsed + firstFaceDelay
}

func (f *faceClock) cooldown() float64 {
	return f.cooldownLo + f.rng.Float64()*(f.cooldownHi-f.cooldownLo)
}

// frame returns the sheet index to show at elapsed seconds.
func (f *faceClock) frame(elapsed float64, frames int) int {
	if frames <= 1 || f.fps <= 0 {
		return 0
	}
	if elapsed < f.start {
		f.reset(elapsed)
	}
	if !f.playing && elapsed >= f.next {
		f.playing = true
		f.start = f.next
	}
	if f.playing {
		t := elapsed - f.start
		if t < float64(frames)/f.fps {
			return int(t*f.fps) % frames
		}
		f.playing = false
		f.next = elapsed + f.cooldown()
	}
	return 0
}

// drawHUD fills the HUD strip, stretches the background texture over it and
// centres the current face frame.
func (c *Composer) drawHUD(fb *framebuffer.Framebuffer, scene *render.Scene, elapsed float64) {
	hud := c.layout.HUD
	fb.FillRect(hud, c.hudColor)
	if hud.Empty() || scene == nil || scene.Textures == nil {
		return
	}
	textures := scene.Textures

	if textures.Has(c.hudSymbol) {
		blit(fb, textures.FrameView(c.hudSymbol, 0), hud)
	}

	if !textures.Has(c.faceSymbol) {
		return
	}
	fw := min(c.faceSize, hud.Dx())
	fh := min(c.faceSize, hud.Dy())
	x0 := hud.Min.X + (hud.Dx()-fw)/2
	y0 := hud.Min.Y + (hud.Dy()-fh)/2
	idx := c.face.frame(elapsed, textures.FrameCount(c.faceSymbol))
	blit(fb, textures.FrameView(c.faceSymbol, idx), image.Rect(x0, y0, x0+fw, y0+fh))
}

func blit(fb *framebuffer.Framebuffer, view graphics.FrameView, dst image.Rectangle) {
	fb.BlitFrame(view.Tex.Pix, view.Tex.Stride(), view.Rect, dst)
}
