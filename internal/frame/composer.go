package frame

import (
	"image/color"

	"mazecaster/internal/config"
	"mazecaster/internal/framebuffer"
	"mazecaster/internal/mathutil"
	"mazecaster/internal/minimap"
	"mazecaster/internal/render"
	"mazecaster/internal/threading/monitoring"
)

const defaultMinCells = 3

// Composer draws whole screens: the first-person view, the HUD strip and
// the minimap, or the full-grid overview when that mode is on.
type Composer struct {
	engine    *render.Engine
	projector *minimap.Projector
	monitor   *monitoring.PerformanceMonitor

	hud      config.HUDConfig
	mm       config.MinimapConfig
	layout   Layout
	hudColor color.RGBA

	hudSymbol  rune
	faceSymbol rune
	faceSize   int
	face       *faceClock

	cellsW, cellsH int
	minCells       int

	// Overview replaces the frame with the top-down debug view.
	Overview bool
}

// NewComposer lays out a cfg-sized screen. dispatcher and monitor may be nil.
func NewComposer(cfg *config.Config, dispatcher render.ColumnDispatcher, monitor *monitoring.PerformanceMonitor) *Composer {
	cellsW, cellsH := cfg.GetMinimapCells()
	minCells := cfg.Minimap.MinCells
	if minCells <= 0 {
		minCells = defaultMinCells
	}
	hudSymbol, faceSymbol := cfg.GetHUDSymbols()
	c := &Composer{
		engine:    render.NewEngine(dispatcher, monitor),
		projector: minimap.NewProjector(cfg.Minimap.ShowFrame),
		monitor:   monitor,
		hud:       cfg.HUD,
		mm:        cfg.Minimap,
		hudColor:  cfg.HUD.Background.Color(),
		cellsW:    cellsW,
		cellsH:    cellsH,
		minCells:  minCells,

		hudSymbol:  hudSymbol,
		faceSymbol: faceSymbol,
		faceSize:   cfg.GetFaceSize(),
		face:       newFaceClock(cfg, 1),
	}
	c.Resize(cfg.GetScreenWidth(), cfg.GetScreenHeight())
	return c
}

func (c *Composer) Layout() Layout {
	return c.layout
}

// Resize recomputes the layout for a new screen size.
func (c *Composer) Resize(width, height int) {
	c.layout = ComputeLayout(width, height, c.hud, c.mm)
}

// MinimapCells is the requested minimap window in cells.
func (c *Composer) MinimapCells() (int, int) {
	return c.cellsW, c.cellsH
}

// Zoom grows or shrinks the minimap window by delta cells per side, kept
// between the configured minimum and the grid size.
func (c *Composer) Zoom(delta, gridW, gridH int) {
	c.cellsW = mathutil.ClampInt(c.cellsW+2*delta, c.minCells, mathutil.IntMax(gridW, c.minCells))
	c.cellsH = mathutil.ClampInt(c.cellsH+2*delta, c.minCells, mathutil.IntMax(gridH, c.minCells))
}

// Compose draws one complete frame of scene into fb. It returns the
// visibility buffer of the 3D view, or nil in overview mode.
func (c *Composer) Compose(fb *framebuffer.Framebuffer, scene *render.Scene, elapsed float64) render.VisibilityBuffer {
	timer := c.monitor.StartFrame()
	defer timer.EndFrame()

	if c.Overview {
		c.composeOverview(fb, scene)
		return nil
	}

	vis := c.engine.RenderFrame(fb, scene, c.layout.View, elapsed)
	c.drawHUD(fb, scene, elapsed)

	stage := c.monitor.Start(monitoring.StageMinimap)
	c.projector.Render(fb, scene, c.layout.Minimap, c.cellsW, c.cellsH)
	stage.End()
	return vis
}

func (c *Composer) composeOverview(fb *framebuffer.Framebuffer, scene *render.Scene) {
	fb.Clear(c.hudColor)
	if scene == nil || scene.Maze == nil || scene.Maze.Grid == nil {
		return
	}
	gw, gh := mathutil.IntMax(scene.Maze.Width(), 1), mathutil.IntMax(scene.Maze.Height(), 1)
	block := mathutil.IntMax(mathutil.IntMin(fb.Width()/gw, fb.Height()/gh), 1)

	stage := c.monitor.Start(monitoring.StageMinimap)
	minimap.RenderOverview(fb, scene, block, fb.Width())
	stage.End()
}
