package frame

import (
	"fmt"
	"log"

	"mazecaster/internal/config"
	"mazecaster/internal/graphics"
	"mazecaster/internal/raycast"
	"mazecaster/internal/render"
	"mazecaster/internal/world"

	"github.com/harbdog/raycaster-go/geom"
)

// Level is a loaded maze with its theme applied and everything a frame reads.
type Level struct {
	Index    int
	Name     string
	Maze     *world.Maze
	Textures *graphics.TextureManager
	Scene    *render.Scene
}

// LoadMaze reads the maze and material files named in cfg. Without a
// materials file the built-in symbol set is used.
func LoadMaze(cfg *config.Config) (*world.Maze, error) {
	table := world.DefaultMaterialTable()
	if cfg.World.MaterialsFile != "" {
		table = world.NewMaterialTable()
		if err := table.LoadMaterialConfig(cfg.World.MaterialsFile); err != nil {
			return nil, fmt.Errorf("failed to load materials: %w", err)
		}
	}

	grid, err := world.LoadGrid(cfg.World.MazeFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load maze: %w", err)
	}
	return world.NewMaze(grid, table), nil
}

// LoadLevel loads the configured maze and themes it for level index.
func LoadLevel(cfg *config.Config, index int) (*Level, error) {
	maze, err := LoadMaze(cfg)
	if err != nil {
		return nil, err
	}
	return NewLevel(cfg, maze, index)
}

// NewLevel builds the scene for maze: textures for the level theme, one
// sprite per actor or item cell, and the viewer on the start symbol.
func NewLevel(cfg *config.Config, maze *world.Maze, index int) (*Level, error) {
	cs := cfg.GetCellSize()
	l := &Level{Maze: maze}
	if err := l.applyTheme(cfg, index); err != nil {
		return nil, err
	}

	start, err := world.StartPose(maze.Grid, cfg.GetStartSymbol(), cs)
	if err != nil {
		log.Printf("Warning: %v, starting in the first open cell", err)
		start = firstOpenCell(maze, cs)
	}
	l.Scene.Pose = raycast.Pose{Pos: start, Angle: cfg.GetStartAngle(), FOV: cfg.GetCameraFOV()}

	fmt.Printf("[Level] %d %q: %dx%d cells, %d sprites\n", index, l.Name, maze.Width(), maze.Height(), len(l.Scene.Sprites))
	return l, nil
}

// SetTheme switches to the theme of level index and rebuilds the texture
// registry. The viewer keeps its pose.
func (l *Level) SetTheme(cfg *config.Config, index int) error {
	pose := l.Scene.Pose
	if err := l.applyTheme(cfg, index); err != nil {
		return err
	}
	l.Scene.Pose = pose
	return nil
}

func (l *Level) applyTheme(cfg *config.Config, index int) error {
	cs := cfg.GetCellSize()
	theme := cfg.ThemeFor(index)
	textures := graphics.BuildTextures(l.Maze.Materials, theme.Textures, cfg.Graphics.TextureSize, cfg.GetFallbackSymbol())
	loadHUDTextures(textures, cfg, theme)

	scene, err := render.NewScene(l.Maze, cs, textures, theme)
	if err != nil {
		return fmt.Errorf("level %d: %w", index, err)
	}
	scene.Fallback = cfg.GetFallbackSymbol()
	scene.SpriteFOVMargin = cfg.GetSpriteFOVMargin()
	if key := cfg.Graphics.TransparentKey; key != (config.RGB{}) {
		scene.TransparentKey = key.Color()
	}
	scene.Sprites = render.SpritesFromSpawns(world.CollectSprites(l.Maze, cs), textures, cfg.Graphics.SpriteFPS, cfg.GetSpriteScale())

	l.Index = index
	l.Name = theme.Name
	l.Textures = textures
	l.Scene = scene
	return nil
}

// loadHUDTextures registers the theme's HUD background and face sheet. A
// missing entry leaves the flat HUD colour in place.
func loadHUDTextures(tm *graphics.TextureManager, cfg *config.Config, theme config.ThemeConfig) {
	bg, face := cfg.GetHUDSymbols()
	sheets := map[rune]graphics.Sheet{
		bg:   {},
		face: {Cols: cfg.HUD.FaceFrames, Rows: 1},
	}
	for sym, sheet := range sheets {
		path := theme.Textures[string(sym)]
		if path == "" {
			continue
		}
		if err := tm.AddFile(sym, path, sheet); err != nil {
			log.Printf("Warning: HUD texture %q: %v", string(sym), err)
		}
	}
}

// firstOpenCell returns the centre of the first passable cell in row-major
// order, or the grid origin when there is none.
func firstOpenCell(maze *world.Maze, cs float64) geom.Vector2 {
	for y := 0; y < maze.Height(); y++ {
		for x := 0; x < maze.Width(); x++ {
			if center := world.CellCenter(x, y, cs); maze.Passable(center, cs) {
				return center
			}
		}
	}
	return geom.Vector2{}
}
