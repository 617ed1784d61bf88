package main

import (
	"log"

	"mazecaster/internal/config"
	"mazecaster/internal/game"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	// Launch options come from MAZECASTER_* environment variables
	opts := config.LoadOptions(config.NewOptionsReader())

	// Load configuration
	cfg := config.MustLoadConfig(opts.ConfigFile)
	opts.Apply(cfg)

	// Set window properties from config
	ebiten.SetWindowSize(cfg.GetScreenWidth(), cfg.GetScreenHeight())
	ebiten.SetWindowTitle(cfg.Display.WindowTitle)
	if cfg.Display.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	g, err := game.NewMazeGame(cfg, opts)
	if err != nil {
		log.Fatal(err)
	}
	defer g.Close()

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
