package rendering

import (
	"sync/atomic"
	"testing"
	"time"

	"mazecaster/internal/threading/core"
	"mazecaster/internal/threading/monitoring"
)

func TestDispatchVisitsEveryColumnOnce(t *testing.T) {
	pool := core.NewWorkerPool(4)
	pool.Start()
	pr := NewParallelRendererWithPool(pool, monitoring.NewPerformanceMonitor())
	defer pr.Stop()

	for _, n := range []int{0, 1, 8, 9, 320, 333} {
		hits := make([]int32, n)
		pr.Dispatch(n, func(col int) {
			atomic.AddInt32(&hits[col], 1)
		})
		for col, h := range hits {
			if h != 1 {
				t.Fatalf("n=%d: column %d visited %d times", n, col, h)
			}
		}
	}
}

func TestBatchSizeBounds(t *testing.T) {
	pool := core.NewWorkerPool(4)
	pr := NewParallelRendererWithPool(pool, nil)

	tests := []struct {
		n    int
		want int
	}{
		{9, 4},
		{64, 16},
		{900, 32},
	}
	for _, tt := range tests {
		if got := pr.BatchSize(tt.n); got != tt.want {
			t.Errorf("BatchSize(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestDispatchCompletesQueuedJobs(t *testing.T) {
	pool := core.NewWorkerPool(2)
	pool.Start()
	pm := monitoring.NewPerformanceMonitor()
	pr := NewParallelRendererWithPool(pool, pm)
	defer pr.Stop()

	pr.Dispatch(100, func(int) {})
	stats := pm.GetDetailedStats()
	if stats["queued_jobs"].(int32) != 0 {
		t.Errorf("Expected every queued job to complete, %v left", stats["queued_jobs"])
	}
	if stats["completed_jobs"].(uint64) != pool.CompletedJobs() {
		t.Errorf("Expected the pool's %d completed jobs, got %v", pool.CompletedJobs(), stats["completed_jobs"])
	}
	if stats["active_workers"].(int32) != 2 {
		t.Errorf("Expected 2 active workers, got %v", stats["active_workers"])
	}
}

func TestDispatchAfterStop(t *testing.T) {
	pool := core.NewWorkerPool(2)
	pool.Start()
	pr := NewParallelRendererWithPool(pool, nil)
	pr.Stop()

	done := make(chan struct{})
	var count atomic.Int64
	go func() {
		pr.Dispatch(100, func(int) { count.Add(1) })
		close(done)
	}()

	select {
	case <-done:
		if count.Load() != 100 {
			t.Errorf("Expected 100 columns, got %d", count.Load())
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Expected Dispatch after Stop to finish")
	}
}
