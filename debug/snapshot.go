package main

import (
	"fmt"
	"log"

	"mazecaster/internal/config"
	"mazecaster/internal/frame"
	"mazecaster/internal/framebuffer"
	"mazecaster/internal/threading"
)

// Renders one frame without a window and writes it to MAZECASTER_SNAPSHOT.
func main() {
	opts := config.LoadOptions(config.NewOptionsReader())
	cfg, err := config.LoadConfig(opts.ConfigFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	opts.Apply(cfg)

	level, err := frame.LoadLevel(cfg, opts.Level)
	if err != nil {
		log.Fatalf("Failed to load level: %v", err)
	}

	tc := threading.NewComponents(cfg.Graphics.ParallelColumns)
	defer tc.Shutdown()

	composer := frame.NewComposer(cfg, tc.Dispatcher(), tc.PerformanceMonitor)
	fb := framebuffer.New(cfg.GetScreenWidth(), cfg.GetScreenHeight())
	composer.Compose(fb, level.Scene, 0)

	if err := fb.SavePNG(opts.Snapshot); err != nil {
		log.Fatalf("Failed to save snapshot: %v", err)
	}

	stats := tc.GetDetailedPerformanceStats()
	fmt.Printf("Snapshot %s: level %d %q, %dx%d px\n", opts.Snapshot, level.Index, level.Name, fb.Width(), fb.Height())
	fmt.Printf("columns=%v sprites=%v pixels=%v frame=%.2fms\n",
		stats["columns_cast"], stats["sprites_drawn"], stats["pixels_written"], stats["avg_frame_time_ms"])
}
