package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnqueueAsync_ShutdownWaitsForJob(t *testing.T) {
	w := NewWorker(0)

	var done atomic.Bool
	w.EnqueueAsync(func(ctx context.Context) error {
		time.Sleep(50 * time.Millisecond)
		done.Store(true)
		return nil
	})

	// Shutdown must block until the job enqueued above has finished, even
	// when its goroutine has not been scheduled yet.
	w.Shutdown()
	assert.True(t, done.Load())
}

func TestEnqueueAsync_PanicIsContained(t *testing.T) {
	w := NewWorker(0)

	w.EnqueueAsync(func(ctx context.Context) error {
		panic("boom")
	})
	w.Shutdown()

	stats := w.GetStats()
	assert.Equal(t, int64(1), stats.FailedJobs)
	assert.Equal(t, 0, stats.ActiveJobs)
}

func TestEnqueue_ProcessedByPool(t *testing.T) {
	w := NewWorker(1)

	ran := make(chan struct{})
	w.Enqueue(func(ctx context.Context) error {
		close(ran)
		return nil
	})

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("queued job was not processed")
	}
	w.Shutdown()
}
