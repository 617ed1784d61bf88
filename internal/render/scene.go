// Package render draws the first-person view: textured wall columns from the
// grid intersector, then depth-tested billboard sprites on top.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"mazecaster/internal/config"
	"mazecaster/internal/graphics"
	"mazecaster/internal/raycast"
	"mazecaster/internal/world"

	"github.com/harbdog/raycaster-go/geom"
)

// ErrInvalidCellSize is returned for a cell size that is not a positive number.
var ErrInvalidCellSize = errors.New("cell size must be positive")

// ErrNoTextures is returned when a scene has no texture source.
var ErrNoTextures = errors.New("scene has no texture source")

// DefaultTransparentKey is the colour treated as see-through in sprite sheets.
var DefaultTransparentKey = color.RGBA{152, 0, 136, 255}

var (
	defaultWallLighting   = config.LightingConfig{Attenuation: 0.003, Min: 0.7, Max: 1.0}
	defaultSpriteLighting = config.LightingConfig{Attenuation: 0.001, Min: 0.6, Max: 1.0}
)

const defaultSpriteFOVMargin = 0.2

// TextureSource is the read-only texture registry used while rendering.
type TextureSource interface {
	Has(sym rune) bool
	View(sym rune) *graphics.Pixels
	FrameView(sym rune, frame int) graphics.FrameView
	FrameCount(sym rune) int
}

// VisibilityBuffer holds the corrected wall distance of every viewport column.
type VisibilityBuffer []float64

// Sprite is a camera-facing billboard.
type Sprite struct {
	Pos    geom.Vector2
	Symbol rune
	Scale  float64 // fraction of a cell, 1 when zero
	Frames int     // 0 means ask the texture source
	FPS    float64
	Phase  int
}

// Scene is everything one frame reads. Nothing in it is modified by a render.
type Scene struct {
	Maze     *world.Maze
	Pose     raycast.Pose
	CellSize float64
	Sprites  []Sprite
	Textures TextureSource
	Theme    config.ThemeConfig

	Fallback        rune // wall texture for rays that leave the grid
	TransparentKey  color.RGBA
	SpriteFOVMargin float64
}

// NewScene checks the construction-time preconditions of a scene.
func NewScene(maze *world.Maze, cellSize float64, textures TextureSource, theme config.ThemeConfig) (*Scene, error) {
	s := &Scene{
		Maze:            maze,
		CellSize:        cellSize,
		Textures:        textures,
		Theme:           theme,
		Fallback:        '#',
		TransparentKey:  DefaultTransparentKey,
		SpriteFOVMargin: defaultSpriteFOVMargin,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate reports the first precondition the scene violates.
func (s *Scene) Validate() error {
	if s.CellSize <= 0 || math.IsNaN(s.CellSize) || math.IsInf(s.CellSize, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidCellSize, s.CellSize)
	}
	if s.Maze == nil || s.Maze.Grid == nil {
		return fmt.Errorf("scene maze: %w", world.ErrEmptyGrid)
	}
	if s.Textures == nil {
		return ErrNoTextures
	}
	return nil
}

func (s *Scene) renderable() bool {
	return s != nil && s.Validate() == nil
}

func (s *Scene) wallLighting() config.LightingConfig {
	if s.Theme.WallLighting == (config.LightingConfig{}) {
		return defaultWallLighting
	}
	return s.Theme.WallLighting
}

func (s *Scene) spriteLighting() config.LightingConfig {
	if s.Theme.SpriteLighting == (config.LightingConfig{}) {
		return defaultSpriteLighting
	}
	return s.Theme.SpriteLighting
}

func (s *Scene) fovMargin() float64 {
	if s.SpriteFOVMargin <= 0 {
		return defaultSpriteFOVMargin
	}
	return s.SpriteFOVMargin
}

func (s *Scene) fallback() rune {
	if s.Fallback == 0 {
		return '#'
	}
	return s.Fallback
}

// Shade maps a distance to a brightness factor with the given curve.
func Shade(l config.LightingConfig, distance float64) float64 {
	return geom.Clamp(1/(1+distance*l.Attenuation), l.Min, l.Max)
}

// DistanceToPlane is the projection-plane distance for a viewport width.
func DistanceToPlane(width int, fov float64) float64 {
	return (float64(width) / 2) / math.Tan(fov/2)
}

func shadeColor(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{
		R: uint8(math.Min(255, float64(c.R)*f)),
		G: uint8(math.Min(255, float64(c.G)*f)),
		B: uint8(math.Min(255, float64(c.B)*f)),
		A: c.A,
	}
}

// SpritesFromSpawns turns grid spawns into animated sprites. Phases are
// staggered by spawn order so neighbouring sprites do not animate in lockstep.
func SpritesFromSpawns(spawns []world.Spawn, textures TextureSource, fps, scale float64) []Sprite {
	sprites := make([]Sprite, 0, len(spawns))
	for i, sp := range spawns {
		frames := 1
		if textures != nil {
			frames = textures.FrameCount(sp.Symbol)
		}
		sprites = append(sprites, Sprite{
			Pos:    sp.Pos,
			Symbol: sp.Symbol,
			Scale:  scale,
			Frames: frames,
			FPS:    fps,
			Phase:  i % frames,
		})
	}
	return sprites
}
