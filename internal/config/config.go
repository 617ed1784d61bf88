package config

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all renderer configuration values
type Config struct {
	Display  DisplayConfig  `yaml:"display"`
	World    WorldConfig    `yaml:"world"`
	Camera   CameraConfig   `yaml:"camera"`
	Graphics GraphicsConfig `yaml:"graphics"`
	HUD      HUDConfig      `yaml:"hud"`
	Minimap  MinimapConfig  `yaml:"minimap"`
	Levels   []ThemeConfig  `yaml:"levels"`
}

type DisplayConfig struct {
	ScreenWidth  int    `yaml:"screen_width"`
	ScreenHeight int    `yaml:"screen_height"`
	WindowTitle  string `yaml:"window_title"`
	Resizable    bool   `yaml:"resizable"`
}

type WorldConfig struct {
	CellSize       int    `yaml:"cell_size"`
	FallbackSymbol string `yaml:"fallback_symbol"` // texture used when a ray hits nothing
	MazeFile       string `yaml:"maze_file"`
	MaterialsFile  string `yaml:"materials_file"`
	StartSymbol    string `yaml:"start_symbol"`
}

type CameraConfig struct {
	FieldOfView   float64 `yaml:"field_of_view"` // degrees
	MoveSpeed     float64 `yaml:"move_speed"`
	RotationSpeed float64 `yaml:"rotation_speed"`
	StartAngle    float64 `yaml:"start_angle"` // degrees
}

type GraphicsConfig struct {
	ParallelColumns bool        `yaml:"parallel_columns"`
	TransparentKey  RGB         `yaml:"transparent_key"`
	SpriteFOVMargin float64     `yaml:"sprite_fov_margin"` // radians
	SpriteFPS       float64     `yaml:"sprite_fps"`
	SpriteScale     float64     `yaml:"sprite_scale"`
	TextureSize     int         `yaml:"texture_size"` // placeholder textures
	Theme           ThemeConfig `yaml:"theme"`
}

// HUDConfig describes the strip below the 3D view that hosts the minimap.
// BackgroundSymbol and FaceSymbol name theme textures; the theme's textures
// map gives their image paths. Without one the strip is a flat Background.
type HUDConfig struct {
	Height           int        `yaml:"height"`
	Padding          int        `yaml:"padding"`
	Background       RGB        `yaml:"background"`
	BackgroundSymbol string     `yaml:"background_symbol"`
	FaceSymbol       string     `yaml:"face_symbol"`
	FaceFrames       int        `yaml:"face_frames"` // frames in a horizontal strip
	FaceFPS          float64    `yaml:"face_fps"`
	FaceSize         int        `yaml:"face_size"`
	FaceCooldown     [2]float64 `yaml:"face_cooldown"` // seconds between plays, min and max
}

type MinimapConfig struct {
	CellsW    int  `yaml:"cells_w"`
	CellsH    int  `yaml:"cells_h"`
	MinCells  int  `yaml:"min_cells"`
	Width     int  `yaml:"width"`
	Height    int  `yaml:"height"`
	ShowFrame bool `yaml:"show_frame"`
}

// ThemeConfig is one visual theme. Graphics.Theme holds the defaults and each
// entry of Levels overrides whatever fields it sets.
type ThemeConfig struct {
	Name           string            `yaml:"name"`
	Sky            RGB               `yaml:"sky"`
	Floor          RGB               `yaml:"floor"`
	WallLighting   LightingConfig    `yaml:"wall_lighting"`
	SpriteLighting LightingConfig    `yaml:"sprite_lighting"`
	Minimap        MinimapColors     `yaml:"minimap"`
	Textures       map[string]string `yaml:"textures"` // symbol -> image path
}

// LightingConfig is a distance attenuation curve 1/(1+d*Attenuation)
// clamped into [Min, Max].
type LightingConfig struct {
	Attenuation float64 `yaml:"attenuation"`
	Min         float64 `yaml:"min"`
	Max         float64 `yaml:"max"`
}

type MinimapColors struct {
	Wall1   RGBA `yaml:"wall1"`
	Wall2   RGBA `yaml:"wall2"`
	Wall3   RGBA `yaml:"wall3"`
	Wall4   RGBA `yaml:"wall4"`
	Empty   RGBA `yaml:"empty"`
	Goal    RGBA `yaml:"goal"`
	Player  RGBA `yaml:"player"`
	Enemy   RGBA `yaml:"enemy"`
	DirLine RGBA `yaml:"dir_line"`
	FOVRay  RGBA `yaml:"fov_ray"`
	Frame   RGBA `yaml:"frame"`
	KeyY    RGBA `yaml:"key_y"`
	KeyB    RGBA `yaml:"key_b"`
	KeyR    RGBA `yaml:"key_r"`
}

// RGB is a yaml friendly [r, g, b] triple.
type RGB [3]int

// RGBA is a yaml friendly [r, g, b, a] quad. A three element list is accepted
// and treated as opaque.
type RGBA [4]int

func (c RGB) Color() color.RGBA {
	return color.RGBA{R: channel(c[0]), G: channel(c[1]), B: channel(c[2]), A: 255}
}

func (c RGBA) Color() color.RGBA {
	return color.RGBA{R: channel(c[0]), G: channel(c[1]), B: channel(c[2]), A: channel(c[3])}
}

// UnmarshalYAML lets colours be written with or without alpha.
func (c *RGBA) UnmarshalYAML(node *yaml.Node) error {
	var values []int
	if err := node.Decode(&values); err != nil {
		return err
	}
	switch len(values) {
	case 3:
		*c = RGBA{values[0], values[1], values[2], 255}
	case 4:
		*c = RGBA{values[0], values[1], values[2], values[3]}
	default:
		return fmt.Errorf("colour needs 3 or 4 components, got %d", len(values))
	}
	return nil
}

func channel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// ColorFor resolves a material's minimap colour key.
func (m MinimapColors) ColorFor(key string) (color.RGBA, bool) {
	switch key {
	case "wall1":
		return m.Wall1.Color(), true
	case "wall2":
		return m.Wall2.Color(), true
	case "wall3":
		return m.Wall3.Color(), true
	case "wall4":
		return m.Wall4.Color(), true
	case "empty":
		return m.Empty.Color(), true
	case "goal":
		return m.Goal.Color(), true
	case "enemy":
		return m.Enemy.Color(), true
	case "player":
		return m.Player.Color(), true
	case "key_y":
		return m.KeyY.Color(), true
	case "key_b":
		return m.KeyB.Color(), true
	case "key_r":
		return m.KeyR.Color(), true
	}
	return color.RGBA{}, false
}

// LoadConfig loads the configuration from config.yaml
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// MustLoadConfig loads the configuration and panics on error
func MustLoadConfig(filename string) *Config {
	config, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return config
}

// Validate checks the values the renderer divides by or clamps against.
func (c *Config) Validate() error {
	if c.Display.ScreenWidth <= 0 || c.Display.ScreenHeight <= 0 {
		return fmt.Errorf("%w: screen size %dx%d", ErrInvalidConfig, c.Display.ScreenWidth, c.Display.ScreenHeight)
	}
	if c.World.CellSize <= 0 {
		return fmt.Errorf("%w: cell_size must be positive, got %d", ErrInvalidConfig, c.World.CellSize)
	}
	if c.Camera.FieldOfView <= 0 || c.Camera.FieldOfView >= 180 {
		return fmt.Errorf("%w: field_of_view must be in (0, 180) degrees, got %v", ErrInvalidConfig, c.Camera.FieldOfView)
	}
	if c.HUD.Height < 0 || c.HUD.Height >= c.Display.ScreenHeight {
		return fmt.Errorf("%w: hud height %d does not fit screen height %d", ErrInvalidConfig, c.HUD.Height, c.Display.ScreenHeight)
	}
	themes := append([]ThemeConfig{c.Graphics.Theme}, c.Levels...)
	for _, theme := range themes {
		for name, l := range map[string]LightingConfig{"wall_lighting": theme.WallLighting, "sprite_lighting": theme.SpriteLighting} {
			if l == (LightingConfig{}) {
				continue
			}
			if l.Min > l.Max || l.Attenuation < 0 {
				return fmt.Errorf("%w: theme %q %s min %.3f max %.3f attenuation %.4f",
					ErrInvalidConfig, theme.Name, name, l.Min, l.Max, l.Attenuation)
			}
		}
	}
	return nil
}

// ThemeFor returns the default theme overlaid with the non-empty fields of
// level i. Out of range levels get the defaults.
func (c *Config) ThemeFor(level int) ThemeConfig {
	var theme ThemeConfig
	if err := copier.CopyWithOption(&theme, &c.Graphics.Theme, copier.Option{DeepCopy: true}); err != nil {
		return c.Graphics.Theme
	}
	if level < 0 || level >= len(c.Levels) {
		return theme
	}
	override := c.Levels[level]
	if err := copier.CopyWithOption(&theme, &override, copier.Option{IgnoreEmpty: true}); err != nil {
		return theme
	}
	return theme
}

// Helper functions for easy access to commonly used values
func (c *Config) GetScreenWidth() int {
	return c.Display.ScreenWidth
}

func (c *Config) GetScreenHeight() int {
	return c.Display.ScreenHeight
}

// GetViewHeight is the height of the 3D view above the HUD strip.
func (c *Config) GetViewHeight() int {
	return c.Display.ScreenHeight - c.HUD.Height
}

func (c *Config) GetCellSize() float64 {
	return float64(c.World.CellSize)
}

func (c *Config) GetMoveSpeed() float64 {
	return c.Camera.MoveSpeed
}

func (c *Config) GetRotSpeed() float64 {
	return c.Camera.RotationSpeed
}

// GetCameraFOV returns the field of view in radians.
func (c *Config) GetCameraFOV() float64 {
	return c.Camera.FieldOfView * math.Pi / 180
}

func (c *Config) GetStartAngle() float64 {
	return c.Camera.StartAngle * math.Pi / 180
}

// GetFallbackSymbol is the texture symbol used for rays that leave the grid.
func (c *Config) GetFallbackSymbol() rune {
	for _, r := range c.World.FallbackSymbol {
		return r
	}
	return '#'
}

func (c *Config) GetStartSymbol() rune {
	for _, r := range c.World.StartSymbol {
		return r
	}
	return 'p'
}

func (c *Config) GetSpriteFOVMargin() float64 {
	if c.Graphics.SpriteFOVMargin <= 0 {
		return 0.2
	}
	return c.Graphics.SpriteFOVMargin
}

func (c *Config) GetSpriteScale() float64 {
	if c.Graphics.SpriteScale <= 0 {
		return 1.0
	}
	return c.Graphics.SpriteScale
}

// GetMinimapCells returns the configured window size in cells, 11x9 when unset.
func (c *Config) GetMinimapCells() (int, int) {
	w, h := c.Minimap.CellsW, c.Minimap.CellsH
	if w <= 0 {
		w = 11
	}
	if h <= 0 {
		h = 9
	}
	return w, h
}

func (c *Config) GetHUDSymbols() (background, face rune) {
	return firstRune(c.HUD.BackgroundSymbol, 'h'), firstRune(c.HUD.FaceSymbol, 'f')
}

func (c *Config) GetFaceFPS() float64 {
	if c.HUD.FaceFPS <= 0 {
		return 4
	}
	return c.HUD.FaceFPS
}

func (c *Config) GetFaceSize() int {
	if c.HUD.FaceSize <= 0 {
		return 128
	}
	return c.HUD.FaceSize
}

// GetFaceCooldown is the idle range between face animations, 3 to 7 seconds
// when unset.
func (c *Config) GetFaceCooldown() (float64, float64) {
	lo, hi := c.HUD.FaceCooldown[0], c.HUD.FaceCooldown[1]
	if lo <= 0 && hi <= 0 {
		return 3, 7
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

func firstRune(s string, def rune) rune {
	for _, r := range s {
		return r
	}
	return def
}

func (c *Config) GetLevelCount() int {
	return len(c.Levels)
}
