package monitoring

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Stage names a timed part of a frame.
type Stage int

const (
	StageRaycast Stage = iota
	StageSprites
	StageMinimap
	StagePresent
	stageCount
)

func (s Stage) String() string {
	switch s {
	case StageRaycast:
		return "raycast"
	case StageSprites:
		return "sprites"
	case StageMinimap:
		return "minimap"
	case StagePresent:
		return "present"
	}
	return "unknown"
}

// PerformanceMonitor tracks frame and per-stage render timings
type PerformanceMonitor struct {
	// Frame metrics
	frameCount atomic.Uint64
	frameTime  atomic.Uint64 // nanoseconds

	// Last duration of each stage, nanoseconds
	stageTime [stageCount]atomic.Uint64

	// Threading metrics
	activeWorkers atomic.Int32
	queuedJobs    atomic.Int32
	completedJobs atomic.Uint64

	// Scene metrics
	columnsCast   atomic.Uint64
	spritesDrawn  atomic.Uint64
	pixelsWritten atomic.Uint64

	// Statistics
	mutex      sync.RWMutex
	avgFrame   float64
	avgStage   [stageCount]float64
	startTime  time.Time
	smoothing  float64
	enableAvgs bool
}

// NewPerformanceMonitor creates a new performance monitor
func NewPerformanceMonitor() *PerformanceMonitor {
	return &PerformanceMonitor{
		startTime:  time.Now(),
		smoothing:  0.1,
		enableAvgs: true,
	}
}

// FrameTimer helps measure frame timing
type FrameTimer struct {
	monitor   *PerformanceMonitor
	startTime time.Time
}

// StartFrame begins frame timing. A nil monitor returns a no-op timer.
func (pm *PerformanceMonitor) StartFrame() *FrameTimer {
	return &FrameTimer{monitor: pm, startTime: time.Now()}
}

// EndFrame completes frame timing
func (ft *FrameTimer) EndFrame() {
	if ft.monitor == nil {
		return
	}
	elapsed := uint64(time.Since(ft.startTime).Nanoseconds())
	pm := ft.monitor
	pm.frameTime.Store(elapsed)
	count := pm.frameCount.Add(1)

	pm.mutex.Lock()
	if pm.enableAvgs {
		pm.avgFrame = pm.blend(pm.avgFrame, float64(elapsed), count)
	}
	pm.mutex.Unlock()
}

// StageTimer measures one stage of a frame.
type StageTimer struct {
	monitor   *PerformanceMonitor
	stage     Stage
	startTime time.Time
}

// Start begins timing stage.
func (pm *PerformanceMonitor) Start(stage Stage) *StageTimer {
	return &StageTimer{monitor: pm, stage: stage, startTime: time.Now()}
}

// End records the stage duration.
func (st *StageTimer) End() time.Duration {
	elapsed := time.Since(st.startTime)
	if st.monitor == nil || st.stage < 0 || st.stage >= stageCount {
		return elapsed
	}
	pm := st.monitor
	pm.stageTime[st.stage].Store(uint64(elapsed.Nanoseconds()))

	pm.mutex.Lock()
	if pm.enableAvgs {
		pm.avgStage[st.stage] = pm.blend(pm.avgStage[st.stage], float64(elapsed.Nanoseconds()), pm.frameCount.Load()+1)
	}
	pm.mutex.Unlock()
	return elapsed
}

// blend is an exponential moving average seeded by the first sample.
func (pm *PerformanceMonitor) blend(avg, sample float64, count uint64) float64 {
	if count <= 1 || avg == 0 {
		return sample
	}
	return avg + (sample-avg)*pm.smoothing
}

// RecordScene stores what the last frame drew.
func (pm *PerformanceMonitor) RecordScene(columns, sprites, pixels int) {
	if pm == nil {
		return
	}
	pm.columnsCast.Store(uint64(columns))
	pm.spritesDrawn.Store(uint64(sprites))
	pm.pixelsWritten.Store(uint64(pixels))
}

// UpdateWorkerMetrics updates threading metrics
func (pm *PerformanceMonitor) UpdateWorkerMetrics(active, queued int32, completed uint64) {
	if pm == nil {
		return
	}
	pm.activeWorkers.Store(active)
	pm.queuedJobs.Store(queued)
	pm.completedJobs.Store(completed)
}

// AddQueuedJob atomically adds to queued job count
func (pm *PerformanceMonitor) AddQueuedJob() {
	if pm == nil {
		return
	}
	pm.queuedJobs.Add(1)
}

// CompleteJob atomically marks a job as complete
func (pm *PerformanceMonitor) CompleteJob() {
	if pm == nil {
		return
	}
	pm.queuedJobs.Add(-1)
	pm.completedJobs.Add(1)
}

// RenderMetrics is a snapshot for the status line.
type RenderMetrics struct {
	FramesPerSecond float64
	FrameTime       time.Duration
	RaycastTime     time.Duration
	SpriteTime      time.Duration
	MinimapTime     time.Duration
	SpritesDrawn    uint64
}

// GetCurrentMetrics returns current performance metrics
func (pm *PerformanceMonitor) GetCurrentMetrics() RenderMetrics {
	frameTime := pm.frameTime.Load()
	fps := 0.0
	if frameTime > 0 {
		fps = float64(time.Second) / float64(frameTime)
	}
	return RenderMetrics{
		FramesPerSecond: fps,
		FrameTime:       time.Duration(frameTime),
		RaycastTime:     time.Duration(pm.stageTime[StageRaycast].Load()),
		SpriteTime:      time.Duration(pm.stageTime[StageSprites].Load()),
		MinimapTime:     time.Duration(pm.stageTime[StageMinimap].Load()),
		SpritesDrawn:    pm.spritesDrawn.Load(),
	}
}

// GetDetailedStats returns detailed performance statistics
func (pm *PerformanceMonitor) GetDetailedStats() map[string]interface{} {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	fps := 0.0
	if ft := pm.frameTime.Load(); ft > 0 {
		fps = float64(time.Second) / float64(ft)
	}

	stats := map[string]interface{}{
		"uptime_seconds":    time.Since(pm.startTime).Seconds(),
		"frame_count":       pm.frameCount.Load(),
		"avg_frame_time_ms": pm.avgFrame / 1e6,
		"current_fps":       fps,
		"active_workers":    pm.activeWorkers.Load(),
		"queued_jobs":       pm.queuedJobs.Load(),
		"completed_jobs":    pm.completedJobs.Load(),
		"columns_cast":      pm.columnsCast.Load(),
		"sprites_drawn":     pm.spritesDrawn.Load(),
		"pixels_written":    pm.pixelsWritten.Load(),
		"memory_alloc_mb":   memStats.Alloc / 1024 / 1024,
		"gc_cycles":         memStats.NumGC,
		"cpu_cores":         runtime.NumCPU(),
		"goroutines":        runtime.NumGoroutine(),
	}
	for s := Stage(0); s < stageCount; s++ {
		stats["avg_"+s.String()+"_time_ms"] = pm.avgStage[s] / 1e6
	}
	return stats
}

// PerformanceAlert represents a performance warning
type PerformanceAlert struct {
	Type      string
	Message   string
	Value     float64
	Threshold float64
	Timestamp time.Time
}

// CheckPerformanceAlerts checks for performance issues and returns alerts
func (pm *PerformanceMonitor) CheckPerformanceAlerts() []PerformanceAlert {
	alerts := make([]PerformanceAlert, 0)
	currentTime := time.Now()

	if frameTime := pm.frameTime.Load(); frameTime > 0 {
		fps := float64(time.Second) / float64(frameTime)
		if fps < 30 {
			alerts = append(alerts, PerformanceAlert{
				Type:      "low_fps",
				Message:   "Frame rate is below 30 FPS",
				Value:     fps,
				Threshold: 30,
				Timestamp: currentTime,
			})
		}
	}

	// A raycast pass eating more than half a 60 FPS budget.
	if rt := time.Duration(pm.stageTime[StageRaycast].Load()); rt > 8*time.Millisecond {
		alerts = append(alerts, PerformanceAlert{
			Type:      "slow_raycast",
			Message:   "Raycast pass is above 8ms",
			Value:     float64(rt) / 1e6,
			Threshold: 8,
			Timestamp: currentTime,
		})
	}

	if queuedJobs := pm.queuedJobs.Load(); queuedJobs > 100 {
		alerts = append(alerts, PerformanceAlert{
			Type:      "queue_backlog",
			Message:   "Worker queue has more than 100 pending jobs",
			Value:     float64(queuedJobs),
			Threshold: 100,
			Timestamp: currentTime,
		})
	}

	return alerts
}

// EnableAverages enables/disables moving averages
func (pm *PerformanceMonitor) EnableAverages(enabled bool) {
	if pm == nil {
		return
	}
	pm.mutex.Lock()
	defer pm.mutex.Unlock()
	pm.enableAvgs = enabled
}

// Reset resets all performance counters
func (pm *PerformanceMonitor) Reset() {
	pm.frameCount.Store(0)
	pm.frameTime.Store(0)
	for i := range pm.stageTime {
		pm.stageTime[i].Store(0)
	}
	pm.activeWorkers.Store(0)
	pm.queuedJobs.Store(0)
	pm.completedJobs.Store(0)
	pm.columnsCast.Store(0)
	pm.spritesDrawn.Store(0)
	pm.pixelsWritten.Store(0)

	pm.mutex.Lock()
	pm.avgFrame = 0
	pm.avgStage = [stageCount]float64{}
	pm.startTime = time.Now()
	pm.mutex.Unlock()
}
