package threading

import (
	"mazecaster/internal/render"
	"mazecaster/internal/threading/monitoring"
	"mazecaster/internal/threading/rendering"
)

// Components holds the frame monitor and, when enabled, the column pool.
type Components struct {
	ParallelRenderer   *rendering.ParallelRenderer
	PerformanceMonitor *monitoring.PerformanceMonitor
}

// NewComponents creates the monitor and starts a CPU-sized column pool when
// parallel is set.
func NewComponents(parallel bool) *Components {
	tc := &Components{PerformanceMonitor: monitoring.NewPerformanceMonitor()}
	if parallel {
		tc.ParallelRenderer = rendering.NewParallelRenderer(tc.PerformanceMonitor)
	}
	return tc
}

// Dispatcher returns the column dispatcher for render.NewEngine, nil for
// serial rendering.
func (tc *Components) Dispatcher() render.ColumnDispatcher {
	if tc.ParallelRenderer == nil {
		return nil
	}
	return tc.ParallelRenderer
}

// Shutdown gracefully shuts down all threading components
func (tc *Components) Shutdown() {
	if tc.ParallelRenderer != nil {
		tc.ParallelRenderer.Stop()
	}
	if tc.PerformanceMonitor != nil {
		tc.PerformanceMonitor.Reset()
	}
}

// GetDetailedPerformanceStats returns detailed performance statistics
func (tc *Components) GetDetailedPerformanceStats() map[string]interface{} {
	if tc.PerformanceMonitor != nil {
		return tc.PerformanceMonitor.GetDetailedStats()
	}
	return nil
}

// CheckPerformanceAlerts returns any performance warnings
func (tc *Components) CheckPerformanceAlerts() []monitoring.PerformanceAlert {
	if tc.PerformanceMonitor != nil {
		return tc.PerformanceMonitor.CheckPerformanceAlerts()
	}
	return nil
}
