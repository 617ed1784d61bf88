package core

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool manages a pool of worker goroutines for parallel processing
type WorkerPool struct {
	numWorkers int
	jobQueue   chan func()
	wg         sync.WaitGroup
	quit       chan struct{}
	mu         sync.RWMutex // held for reading while a job is handed over
	stopped    bool
	completed  atomic.Uint64
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	return &WorkerPool{
		numWorkers: numWorkers,
		jobQueue:   make(chan func(), numWorkers*2),
		quit:       make(chan struct{}),
	}
}

// CreateDefaultWorkerPool creates and starts a pool sized to the CPU count
func CreateDefaultWorkerPool() *WorkerPool {
	pool := NewWorkerPool(0)
	pool.Start()
	return pool
}

// Start initializes and starts all worker goroutines
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.numWorkers; i++ {
		go wp.worker()
	}
}

// worker is the goroutine that processes jobs from the queue
func (wp *WorkerPool) worker() {
	for {
		select {
		case job := <-wp.jobQueue:
			wp.run(job)
		case <-wp.quit:
			// Jobs queued before Stop still run.
			for {
				select {
				case job := <-wp.jobQueue:
					wp.run(job)
				default:
					return
				}
			}
		}
	}
}

func (wp *WorkerPool) run(job func()) {
	job()
	wp.completed.Add(1)
	wp.wg.Done()
}

// Submit adds a job to the worker queue. After Stop the job runs on the
// caller's goroutine instead.
func (wp *WorkerPool) Submit(job func()) {
	wp.wg.Add(1)
	wp.mu.RLock()
	if wp.stopped {
		wp.mu.RUnlock()
		wp.run(job)
		return
	}
	wp.jobQueue <- job
	wp.mu.RUnlock()
}

// Wait waits for all currently queued jobs to complete
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Stop shuts down the worker pool. Safe to call more than once.
func (wp *WorkerPool) Stop() {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	if !wp.stopped {
		wp.stopped = true
		close(wp.quit)
	}
}

// ParallelChunks executes fn for every index in [start, end) in jobs of
// chunkSize indices, checking ctx between iterations, and waits for all of
// them.
func (wp *WorkerPool) ParallelChunks(ctx context.Context, start, end, chunkSize int, fn func(int)) {
	if start >= end {
		return
	}
	if chunkSize <= 0 {
		chunkSize = 1
	}

	for i := start; i < end; i += chunkSize {
		chunkStart := i
		chunkEnd := min(i+chunkSize, end)
		wp.Submit(func() {
			for j := chunkStart; j < chunkEnd; j++ {
				select {
				case <-ctx.Done():
					return
				default:
					fn(j)
				}
			}
		})
	}
	wp.Wait()
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// CompletedJobs is the number of jobs run since the pool started.
func (wp *WorkerPool) CompletedJobs() uint64 {
	return wp.completed.Load()
}
