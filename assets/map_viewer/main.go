package main

import (
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"mazecaster/internal/config"
	"mazecaster/internal/frame"
	"mazecaster/internal/framebuffer"
	"mazecaster/internal/minimap"
	"mazecaster/internal/world"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	windowWidth  = 1200
	windowHeight = 800
	sidebarWidth = 300
	panelPadding = 12
)

var (
	sidebarColor = color.RGBA{24, 24, 28, 255}
	borderColor  = color.RGBA{90, 90, 100, 255}
)

// viewer shows the whole maze under each configured theme, the way the
// overview toggle draws it in game.
type viewer struct {
	cfg         *config.Config
	level       *frame.Level
	fb          *framebuffer.Framebuffer
	panel       *ebiten.Image
	legendLines []string
	lastErr     string
}

func main() {
	ensureRuntimeCWD()

	opts := config.LoadOptions(config.NewOptionsReader())
	cfg := config.MustLoadConfig(opts.ConfigFile)
	opts.Apply(cfg)

	level, err := frame.LoadLevel(cfg, opts.Level)
	if err != nil {
		log.Fatalf("Failed to load maze: %v", err)
	}

	v := &viewer{
		cfg:         cfg,
		level:       level,
		fb:          framebuffer.New(windowWidth-sidebarWidth, windowHeight-40),
		panel:       ebiten.NewImage(windowWidth-sidebarWidth, windowHeight-40),
		legendLines: buildLegendLines(level.Maze.Materials),
	}

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("Mazecaster Map Viewer")

	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	count := v.cfg.GetLevelCount()
	if count == 0 {
		return nil
	}
	next := v.level.Index
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) || inpututil.IsKeyJustPressed(ebiten.KeyD) {
		next = (next + 1) % count
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) || inpututil.IsKeyJustPressed(ebiten.KeyA) {
		next--
		if next < 0 {
			next = count - 1
		}
	}
	if next != v.level.Index {
		if err := v.level.SetTheme(v.cfg, next); err != nil {
			v.lastErr = err.Error()
		} else {
			v.lastErr = ""
		}
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	maze := v.level.Maze
	panelW, panelH := v.fb.Width(), v.fb.Height()
	block := 1
	if maze.Width() > 0 && maze.Height() > 0 {
		block = max(1, min(panelW/maze.Width(), panelH/maze.Height()))
	}

	v.fb.Clear(v.cfg.HUD.Background.Color())
	minimap.RenderOverview(v.fb, v.level.Scene, block, v.cfg.GetScreenWidth())

	// The overview is drawn from the top left; shift it below the header.
	v.panel.WritePixels(v.fb.Pix())
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(0, 40)
	screen.DrawImage(v.panel, op)

	drawMapHeader(screen, v.level, v.lastErr)
	drawSidebar(screen, windowWidth-sidebarWidth, 0, sidebarWidth, windowHeight, v.level, v.legendLines)
}

func (v *viewer) Layout(_, _ int) (int, int) {
	return windowWidth, windowHeight
}

func drawMapHeader(screen *ebiten.Image, level *frame.Level, lastErr string) {
	title := fmt.Sprintf("Theme %d: %s  (%dx%d)", level.Index, level.Name, level.Maze.Width(), level.Maze.Height())
	ebitenutil.DebugPrintAt(screen, title, panelPadding, 8)
	hint := "Left/Right (or A/D) to switch themes, Esc to quit"
	if lastErr != "" {
		hint = "theme failed: " + lastErr
	}
	ebitenutil.DebugPrintAt(screen, hint, panelPadding, 24)
}

func drawSidebar(screen *ebiten.Image, x, y, w, h int, level *frame.Level, legendLines []string) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), sidebarColor, false)
	vector.StrokeLine(screen, float32(x), float32(y), float32(x), float32(y+h), 2, borderColor, false)

	row := y + panelPadding
	pos := level.Scene.Pose.Pos
	cx, cy := world.CellOf(pos, level.Scene.CellSize)
	info := []string{
		fmt.Sprintf("Sprites: %d", len(level.Scene.Sprites)),
		fmt.Sprintf("Start: cell %d,%d", cx, cy),
		"",
		"Legend:",
	}
	for _, line := range append(info, legendLines...) {
		if row > y+h-16 {
			break
		}
		ebitenutil.DebugPrintAt(screen, line, x+panelPadding, row)
		row += 16
	}
}

func buildLegendLines(mt *world.MaterialTable) []string {
	materials := mt.Materials()
	lines := make([]string, 0, len(materials))
	for _, m := range materials {
		name := m.Name
		if name == "" {
			name = m.Key
		}
		lines = append(lines, fmt.Sprintf("%c  %-14s %s", m.Symbol, name, m.Category))
	}
	return lines
}

func ensureRuntimeCWD() {
	if _, err := os.Stat("config.yaml"); err == nil {
		return
	}
	exe, err := os.Executable()
	if err != nil {
		return
	}
	execDir := filepath.Dir(exe)
	_ = os.Chdir(execDir)
}
