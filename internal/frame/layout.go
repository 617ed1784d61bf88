package frame

import (
	"image"

	"mazecaster/internal/config"
	"mazecaster/internal/mathutil"
)

// Layout splits the screen into the 3D view and the HUD strip below it.
// Minimap sits inside the HUD.
type Layout struct {
	View    image.Rectangle
	HUD     image.Rectangle
	Minimap image.Rectangle
}

// ComputeLayout places the HUD along the bottom edge and the minimap at its
// left, padded. A minimap size of zero is derived from the HUD height with a
// 5:4 aspect.
func ComputeLayout(width, height int, hud config.HUDConfig, mm config.MinimapConfig) Layout {
	width = mathutil.IntMax(width, 0)
	height = mathutil.IntMax(height, 0)
	hudH := mathutil.ClampInt(hud.Height, 0, height)
	top := height - hudH

	l := Layout{
		View: image.Rect(0, 0, width, top),
		HUD:  image.Rect(0, top, width, height),
	}
	if hudH == 0 {
		return l
	}

	pad := mathutil.IntMax(hud.Padding, 0)
	maxH := hudH - 2*pad
	maxW := width - 2*pad
	if maxH <= 0 || maxW <= 0 {
		return l
	}
	h := mm.Height
	if h <= 0 {
		h = maxH
	}
	h = mathutil.IntMin(h, maxH)
	w := mm.Width
	if w <= 0 {
		w = h * 5 / 4
	}
	w = mathutil.IntMin(w, maxW)
	l.Minimap = image.Rect(pad, top+pad, pad+w, top+pad+h)
	return l
}
