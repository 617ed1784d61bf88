package game

import (
	"fmt"
	"image/color"
	"time"

	"mazecaster/internal/config"
	"mazecaster/internal/frame"
	"mazecaster/internal/framebuffer"
	"mazecaster/internal/threading"
	"mazecaster/internal/threading/monitoring"

	"github.com/hajimehoshi/ebiten/v2"
	ebitext "github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

var statusColor = color.RGBA{220, 220, 220, 255}

// MazeGame runs the maze in an ebiten window. Every frame is rendered in
// software into fb and uploaded with WritePixels.
type MazeGame struct {
	config    *config.Config
	level     *frame.Level
	camera    *Camera
	composer  *frame.Composer
	threading *threading.Components
	input     *InputHandler

	fb      *framebuffer.Framebuffer
	elapsed float64 // seconds of animation time

	showStatus    bool
	exitRequested bool

	// Performance debug logging
	perfDebugEnabled   bool
	perfLowFpsSince    time.Time
	perfLastPerfLog    time.Time
	lastUpdateDuration time.Duration
	lastDrawDuration   time.Duration
}

// NewMazeGame loads the configured maze and themes it for opts.Level.
func NewMazeGame(cfg *config.Config, opts config.Options) (*MazeGame, error) {
	level, err := frame.LoadLevel(cfg, opts.Level)
	if err != nil {
		return nil, err
	}

	tc := threading.NewComponents(cfg.Graphics.ParallelColumns)
	g := &MazeGame{
		config:           cfg,
		level:            level,
		camera:           NewCamera(level),
		composer:         frame.NewComposer(cfg, tc.Dispatcher(), tc.PerformanceMonitor),
		threading:        tc,
		fb:               framebuffer.New(cfg.GetScreenWidth(), cfg.GetScreenHeight()),
		showStatus:       true,
		perfDebugEnabled: opts.PerfLog,
	}
	tc.PerformanceMonitor.EnableAverages(g.perfDebugEnabled)
	g.input = NewInputHandler(g)
	return g, nil
}

func (g *MazeGame) Update() error {
	start := time.Now()
	g.input.HandleInput()
	if g.exitRequested {
		return ebiten.Termination
	}
	if tps := ebiten.TPS(); tps > 0 {
		g.elapsed += 1 / float64(tps)
	}
	g.lastUpdateDuration = time.Since(start)
	g.maybeLogPerfDrop()
	return nil
}

func (g *MazeGame) Draw(screen *ebiten.Image) {
	start := time.Now()
	g.composer.Compose(g.fb, g.level.Scene, g.elapsed)

	present := g.threading.PerformanceMonitor.Start(monitoring.StagePresent)
	screen.WritePixels(g.fb.Pix())
	present.End()

	if g.showStatus && !g.composer.Overview {
		g.drawStatus(screen)
	}
	g.lastDrawDuration = time.Since(start)
}

func (g *MazeGame) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.fb.Width(), g.fb.Height()
}

// Close stops the column workers.
func (g *MazeGame) Close() {
	g.threading.Shutdown()
}

// NextTheme cycles through the configured level themes.
func (g *MazeGame) NextTheme() {
	count := g.config.GetLevelCount()
	if count == 0 {
		return
	}
	next := (g.level.Index + 1) % count
	if err := g.level.SetTheme(g.config, next); err != nil {
		fmt.Printf("[Game] theme %d: %v\n", next, err)
	}
}

func (g *MazeGame) drawStatus(screen *ebiten.Image) {
	layout := g.composer.Layout()
	face := basicfont.Face7x13
	x := layout.Minimap.Max.X + 16
	y := layout.HUD.Min.Y + 12 + face.Ascent

	cellsW, cellsH := g.composer.MinimapCells()
	pos := g.camera.GetPosition()
	m := g.threading.PerformanceMonitor.GetCurrentMetrics()
	lines := []string{
		fmt.Sprintf("FPS %.1f  TPS %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()),
		fmt.Sprintf("Ray %.1fms  Sprites %d in %.1fms  Map %.1fms", ms(m.RaycastTime), m.SpritesDrawn, ms(m.SpriteTime), ms(m.MinimapTime)),
		fmt.Sprintf("Level %d %s  map %dx%d", g.level.Index, g.level.Name, cellsW, cellsH),
		fmt.Sprintf("Pos %.0f,%.0f", pos.X, pos.Y),
		"WASD move  Q/E strafe  M overview  +/- zoom  N theme",
	}
	for i, line := range lines {
		ebitext.Draw(screen, line, face, x, y+i*(face.Height+4), statusColor)
	}
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
