package core

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPoolEveryIndexOnce(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Start()
	defer pool.Stop()

	if pool.GetNumWorkers() != 4 {
		t.Fatalf("Expected 4 workers, got %d", pool.GetNumWorkers())
	}

	hits := make([]int32, 1000)
	pool.ParallelChunks(context.Background(), 0, len(hits), 16, func(i int) {
		atomic.AddInt32(&hits[i], 1)
	})
	for i, h := range hits {
		if h != 1 {
			t.Fatalf("Index %d visited %d times", i, h)
		}
	}
	if got := pool.CompletedJobs(); got != uint64(len(hits)/16+1) {
		t.Errorf("Expected %d completed jobs, got %d", len(hits)/16+1, got)
	}
}

func TestWorkerPoolParallelChunks(t *testing.T) {
	pool := NewWorkerPool(3)
	pool.Start()
	defer pool.Stop()

	tests := []struct {
		name      string
		start     int
		end       int
		chunkSize int
		want      int64
	}{
		{"even", 0, 64, 8, 64},
		{"ragged", 0, 70, 32, 70},
		{"offset", 10, 20, 3, 10},
		{"empty", 5, 5, 4, 0},
		{"zero chunk", 0, 9, 0, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var count atomic.Int64
			pool.ParallelChunks(context.Background(), tt.start, tt.end, tt.chunkSize, func(i int) {
				if i < tt.start || i >= tt.end {
					t.Errorf("Index %d outside [%d,%d)", i, tt.start, tt.end)
				}
				count.Add(1)
			})
			if count.Load() != tt.want {
				t.Errorf("Expected %d calls, got %d", tt.want, count.Load())
			}
		})
	}
}

func TestWorkerPoolCancelledContext(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start()
	defer pool.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var count atomic.Int64
	pool.ParallelChunks(ctx, 0, 100, 10, func(int) { count.Add(1) })
	if count.Load() != 0 {
		t.Errorf("Expected no work after cancellation, got %d", count.Load())
	}
}

func TestWorkerPoolStopTwice(t *testing.T) {
	pool := CreateDefaultWorkerPool()
	pool.Stop()
	pool.Stop()
}

func TestWorkerPoolSubmitAfterStop(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start()
	pool.Stop()

	done := make(chan int64)
	go func() {
		var count atomic.Int64
		pool.ParallelChunks(context.Background(), 0, 50, 4, func(int) { count.Add(1) })
		done <- count.Load()
	}()

	select {
	case n := <-done:
		if n != 50 {
			t.Errorf("Expected 50 calls after Stop, got %d", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Expected jobs submitted after Stop to run instead of blocking")
	}
}
