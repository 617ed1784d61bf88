package render

import (
	"image"

	"mazecaster/internal/framebuffer"
	"mazecaster/internal/threading/monitoring"
)

// Engine renders a complete first-person frame: background, walls, sprites.
type Engine struct {
	World   *WorldRenderer
	Sprites *SpriteRenderer
	monitor *monitoring.PerformanceMonitor
	vis     VisibilityBuffer
}

// NewEngine builds an engine. dispatcher and monitor may be nil.
func NewEngine(dispatcher ColumnDispatcher, monitor *monitoring.PerformanceMonitor) *Engine {
	return &Engine{
		World:   NewWorldRenderer(dispatcher),
		Sprites: NewSpriteRenderer(),
		monitor: monitor,
	}
}

// RenderFrame draws scene into viewport. Columns finish before any sprite is
// drawn. The returned buffer is reused by the next call.
func (e *Engine) RenderFrame(fb *framebuffer.Framebuffer, scene *Scene, viewport image.Rectangle, elapsed float64) VisibilityBuffer {
	raycast := e.monitor.Start(monitoring.StageRaycast)
	e.vis = e.World.RenderWorldInto(fb, scene, viewport, e.vis)
	raycast.End()

	sprites := e.monitor.Start(monitoring.StageSprites)
	pixels := e.Sprites.RenderSprites(fb, scene, e.vis, viewport, elapsed)
	sprites.End()

	spriteCount := 0
	if scene != nil {
		spriteCount = len(scene.Sprites)
	}
	e.monitor.RecordScene(len(e.vis), spriteCount, pixels)
	return e.vis
}
