package rendering

import (
	"context"

	"mazecaster/internal/threading/core"
	"mazecaster/internal/threading/monitoring"
)

// inlineColumns is the workload below which columns run on the caller.
const inlineColumns = 8

// ParallelRenderer spreads independent screen columns over a worker pool.
// Each column must write only its own pixels and buffer slot.
type ParallelRenderer struct {
	workerPool *core.WorkerPool
	monitor    *monitoring.PerformanceMonitor
}

// NewParallelRenderer creates a renderer backed by a started CPU-sized pool.
func NewParallelRenderer(monitor *monitoring.PerformanceMonitor) *ParallelRenderer {
	return NewParallelRendererWithPool(core.CreateDefaultWorkerPool(), monitor)
}

// NewParallelRendererWithPool uses an already started pool.
func NewParallelRendererWithPool(pool *core.WorkerPool, monitor *monitoring.PerformanceMonitor) *ParallelRenderer {
	return &ParallelRenderer{workerPool: pool, monitor: monitor}
}

// BatchSize is the number of columns per job for n columns.
func (pr *ParallelRenderer) BatchSize(n int) int {
	batchSize := n / pr.workerPool.GetNumWorkers()
	if batchSize < 4 {
		batchSize = 4
	}
	if batchSize > 32 {
		batchSize = 32
	}
	return batchSize
}

// Dispatch runs fn for every column in [0, n) and returns when all are done.
func (pr *ParallelRenderer) Dispatch(n int, fn func(col int)) {
	if n <= inlineColumns {
		for col := 0; col < n; col++ {
			fn(col)
		}
		return
	}

	batchSize := pr.BatchSize(n)
	jobs := (n + batchSize - 1) / batchSize
	for i := 0; i < jobs; i++ {
		pr.monitor.AddQueuedJob()
	}
	pr.workerPool.ParallelChunks(context.Background(), 0, n, batchSize, func(col int) {
		fn(col)
		if (col+1)%batchSize == 0 || col == n-1 {
			pr.monitor.CompleteJob()
		}
	})
	pr.monitor.UpdateWorkerMetrics(int32(pr.workerPool.GetNumWorkers()), 0, pr.workerPool.CompletedJobs())
}

// Stop shuts down the parallel renderer
func (pr *ParallelRenderer) Stop() {
	pr.workerPool.Stop()
}
