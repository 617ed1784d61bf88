package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	perfLowFpsThreshold = 50.0
	perfLowFpsDuration  = 3 * time.Second
	perfLogInterval     = 3 * time.Second
)

func (g *MazeGame) maybeLogPerfDrop() {
	if !g.perfDebugEnabled {
		return
	}

	fps := ebiten.ActualFPS()
	if fps >= perfLowFpsThreshold {
		g.perfLowFpsSince = time.Time{}
		g.perfLastPerfLog = time.Time{}
		return
	}

	now := time.Now()
	if g.perfLowFpsSince.IsZero() {
		g.perfLowFpsSince = now
		return
	}

	if now.Sub(g.perfLowFpsSince) < perfLowFpsDuration {
		return
	}

	if !g.perfLastPerfLog.IsZero() && now.Sub(g.perfLastPerfLog) < perfLogInterval {
		return
	}

	g.perfLastPerfLog = now
	g.logPerfSnapshot(fps)
}

func (g *MazeGame) logPerfSnapshot(fps float64) {
	stats := g.threading.GetDetailedPerformanceStats()
	cellsW, cellsH := g.composer.MinimapCells()

	causes := make([]string, 0, 4)
	if sprites := getPerfInt(stats, "sprites_drawn"); sprites > 50 {
		causes = append(causes, fmt.Sprintf("many sprites (%d)", sprites))
	}
	if g.composer.Overview {
		causes = append(causes, "overview")
	}
	if g.threading.ParallelRenderer == nil && getPerfInt(stats, "cpu_cores") > 1 {
		causes = append(causes, "serial columns")
	}
	for _, alert := range g.threading.CheckPerformanceAlerts() {
		causes = append(causes, alert.Type)
	}
	causeText := "none obvious"
	if len(causes) > 0 {
		causeText = strings.Join(causes, ", ")
	}

	fmt.Printf(
		"[PERF] FPS<%.0f for >=%s | fps=%.1f tps=%.1f causes=%s\n",
		perfLowFpsThreshold,
		perfLowFpsDuration,
		fps,
		ebiten.ActualTPS(),
		causeText,
	)
	fmt.Printf(
		"[PERF] maze=%dx%d columns=%d sprites=%d pixels=%d minimap=%dx%d level=%d\n",
		g.level.Maze.Width(),
		g.level.Maze.Height(),
		getPerfInt(stats, "columns_cast"),
		getPerfInt(stats, "sprites_drawn"),
		getPerfInt(stats, "pixels_written"),
		cellsW,
		cellsH,
		g.level.Index,
	)
	fmt.Printf(
		"[PERF] update=%.2fms draw=%.2fms budget=%.2fms idle=%.2fms frame=%.2fms raycast=%.2fms sprites=%.2fms minimap=%.2fms present=%.2fms\n",
		float64(g.lastUpdateDuration.Microseconds())/1000.0,
		float64(g.lastDrawDuration.Microseconds())/1000.0,
		frameBudgetMs(fps),
		idleBudgetMs(fps, g.lastUpdateDuration, g.lastDrawDuration),
		getPerfFloat(stats, "avg_frame_time_ms"),
		getPerfFloat(stats, "avg_raycast_time_ms"),
		getPerfFloat(stats, "avg_sprites_time_ms"),
		getPerfFloat(stats, "avg_minimap_time_ms"),
		getPerfFloat(stats, "avg_present_time_ms"),
	)
	fmt.Printf(
		"[PERF] workers=%d queued=%d goroutines=%d mem_alloc=%dMB gc_cycles=%d\n",
		getPerfInt(stats, "active_workers"),
		getPerfInt(stats, "queued_jobs"),
		getPerfInt(stats, "goroutines"),
		getPerfUint(stats, "memory_alloc_mb"),
		getPerfUint(stats, "gc_cycles"),
	)
}

func frameBudgetMs(fps float64) float64 {
	if fps <= 0 {
		return 0
	}
	return 1000.0 / fps
}

func idleBudgetMs(fps float64, updateDur, drawDur time.Duration) float64 {
	budget := frameBudgetMs(fps)
	busy := float64(updateDur.Microseconds()+drawDur.Microseconds()) / 1000.0
	idle := budget - busy
	if idle < 0 {
		return 0
	}
	return idle
}

func getPerfFloat(stats map[string]interface{}, key string) float64 {
	if val, ok := stats[key]; ok {
		switch v := val.(type) {
		case float64:
			return v
		case float32:
			return float64(v)
		case int:
			return float64(v)
		case int32:
			return float64(v)
		case int64:
			return float64(v)
		case uint64:
			return float64(v)
		}
	}
	return 0
}

func getPerfInt(stats map[string]interface{}, key string) int {
	if val, ok := stats[key]; ok {
		switch v := val.(type) {
		case int:
			return v
		case int32:
			return int(v)
		case int64:
			return int(v)
		case uint32:
			return int(v)
		case uint64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return 0
}

func getPerfUint(stats map[string]interface{}, key string) uint64 {
	if val, ok := stats[key]; ok {
		switch v := val.(type) {
		case uint64:
			return v
		case uint32:
			return uint64(v)
		case int64:
			return uint64(v)
		case int:
			return uint64(v)
		case float64:
			return uint64(v)
		}
	}
	return 0
}
