package config

import (
	"errors"
	"math"
	"os"
	"testing"
)

const testConfigYAML = `display:
  screen_width: 320
  screen_height: 240
world:
  cell_size: 64
  fallback_symbol: "#"
camera:
  field_of_view: 60
graphics:
  transparent_key: [152, 0, 136]
  theme:
    name: "default"
    sky: [10, 20, 30]
    floor: [40, 50, 60]
    wall_lighting: {attenuation: 0.003, min: 0.7, max: 1.0}
    sprite_lighting: {attenuation: 0.001, min: 0.6, max: 1.0}
    minimap:
      wall1: [1, 2, 3]
      fov_ray: [110, 160, 255, 160]
hud:
  height: 40
levels:
  - name: "night"
    sky: [0, 40, 112]
    wall_lighting: {attenuation: 0.007, min: 0.01, max: 1.0}
`

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "test_config_*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	tmpFile.Close()
	return tmpFile.Name()
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeTempConfig(t, testConfigYAML))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GetCellSize() != 64 {
		t.Errorf("Expected cell size 64, got %v", cfg.GetCellSize())
	}
	if math.Abs(cfg.GetCameraFOV()-math.Pi/3) > 1e-12 {
		t.Errorf("Expected fov pi/3, got %v", cfg.GetCameraFOV())
	}
	if cfg.GetViewHeight() != 200 {
		t.Errorf("Expected view height 200, got %d", cfg.GetViewHeight())
	}
	if cfg.GetFallbackSymbol() != '#' {
		t.Errorf("Expected fallback '#', got %q", cfg.GetFallbackSymbol())
	}
	if got := cfg.Graphics.Theme.Minimap.Wall1; got != (RGBA{1, 2, 3, 255}) {
		t.Errorf("Expected three component colour to be opaque, got %v", got)
	}
	if got := cfg.Graphics.Theme.Minimap.FOVRay.Color(); got.A != 160 {
		t.Errorf("Expected fov ray alpha 160, got %d", got.A)
	}
	w, h := cfg.GetMinimapCells()
	if w != 11 || h != 9 {
		t.Errorf("Expected default minimap window 11x9, got %dx%d", w, h)
	}
	if bg, face := cfg.GetHUDSymbols(); bg != 'h' || face != 'f' {
		t.Errorf("Expected default HUD symbols 'h' and 'f', got %q %q", bg, face)
	}
	if lo, hi := cfg.GetFaceCooldown(); lo != 3 || hi != 7 {
		t.Errorf("Expected default face cooldown 3..7, got %v..%v", lo, hi)
	}
	if cfg.GetFaceFPS() != 4 || cfg.GetFaceSize() != 128 {
		t.Errorf("Expected face defaults 4 fps at 128px, got %v fps at %dpx", cfg.GetFaceFPS(), cfg.GetFaceSize())
	}
}

func TestThemeFor(t *testing.T) {
	cfg, err := LoadConfig(writeTempConfig(t, testConfigYAML))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	night := cfg.ThemeFor(0)
	if night.Name != "night" {
		t.Errorf("Expected theme name night, got %q", night.Name)
	}
	if night.Sky != (RGB{0, 40, 112}) {
		t.Errorf("Expected night sky, got %v", night.Sky)
	}
	if night.Floor != (RGB{40, 50, 60}) {
		t.Errorf("Expected default floor to survive the overlay, got %v", night.Floor)
	}
	if night.WallLighting.Min != 0.01 {
		t.Errorf("Expected wall lighting min 0.01, got %v", night.WallLighting.Min)
	}
	if night.SpriteLighting.Min != 0.6 {
		t.Errorf("Expected sprite lighting to stay independent, got %v", night.SpriteLighting.Min)
	}
	if night.Minimap.Wall1 != (RGBA{1, 2, 3, 255}) {
		t.Errorf("Expected default minimap colours, got %v", night.Minimap.Wall1)
	}

	fallback := cfg.ThemeFor(7)
	if fallback.Name != "default" || fallback.Sky != (RGB{10, 20, 30}) {
		t.Errorf("Expected defaults for an unknown level, got %+v", fallback)
	}

	// The defaults must not be touched by an overlay.
	if cfg.Graphics.Theme.Sky != (RGB{10, 20, 30}) {
		t.Errorf("Default theme was mutated: %v", cfg.Graphics.Theme.Sky)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Display: DisplayConfig{ScreenWidth: 320, ScreenHeight: 240},
			World:   WorldConfig{CellSize: 64},
			Camera:  CameraConfig{FieldOfView: 60},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"valid", func(c *Config) {}, true},
		{"zero cell size", func(c *Config) { c.World.CellSize = 0 }, false},
		{"negative cell size", func(c *Config) { c.World.CellSize = -4 }, false},
		{"zero fov", func(c *Config) { c.Camera.FieldOfView = 0 }, false},
		{"straight fov", func(c *Config) { c.Camera.FieldOfView = 180 }, false},
		{"no screen", func(c *Config) { c.Display.ScreenWidth = 0 }, false},
		{"hud taller than screen", func(c *Config) { c.HUD.Height = 240 }, false},
		{"inverted lighting", func(c *Config) {
			c.Graphics.Theme.WallLighting = LightingConfig{Attenuation: 0.003, Min: 1.0, Max: 0.7}
		}, false},
		{"inverted level lighting", func(c *Config) {
			c.Levels = []ThemeConfig{{Name: "bad", SpriteLighting: LightingConfig{Min: 0.9, Max: 0.1}}}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("Expected valid config, got %v", err)
			}
			if !tt.valid {
				if err == nil {
					t.Fatalf("Expected validation error")
				}
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("Expected ErrInvalidConfig, got %v", err)
				}
			}
		})
	}
}

func TestMustLoadConfigPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Expected MustLoadConfig to panic on a missing file")
		}
	}()
	MustLoadConfig("does-not-exist.yaml")
}

func TestLoadOptions(t *testing.T) {
	t.Setenv("MAZECASTER_MAZE", "levels/two.txt")
	t.Setenv("MAZECASTER_LEVEL", "2")
	t.Setenv("MAZECASTER_PARALLEL", "true")

	opts := LoadOptions(NewOptionsReader())
	if opts.ConfigFile != "config.yaml" {
		t.Errorf("Expected default config path, got %q", opts.ConfigFile)
	}
	if opts.MazeFile != "levels/two.txt" {
		t.Errorf("Expected maze from env, got %q", opts.MazeFile)
	}
	if opts.Level != 2 {
		t.Errorf("Expected level 2, got %d", opts.Level)
	}

	cfg := &Config{World: WorldConfig{MazeFile: "assets/maze.txt", MaterialsFile: "assets/materials.yaml"}}
	opts.Apply(cfg)
	if cfg.World.MazeFile != "levels/two.txt" {
		t.Errorf("Expected maze override, got %q", cfg.World.MazeFile)
	}
	if cfg.World.MaterialsFile != "assets/materials.yaml" {
		t.Errorf("Expected materials path to be kept, got %q", cfg.World.MaterialsFile)
	}
	if !cfg.Graphics.ParallelColumns {
		t.Errorf("Expected parallel columns enabled from env")
	}
}
