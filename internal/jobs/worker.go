package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sbci/institute-api/pkg/logger"
)

// Job represents a background task
type Job func(ctx context.Context) error

// Worker runs background jobs: queued work (exports, PDF rendering),
// fire-and-forget tasks (audit writes) and periodic jobs (dues snapshots).
type Worker struct {
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	queue    chan Job
	asyncSem chan struct{}
	stats    WorkerStats
	statsMu  sync.RWMutex
}

// WorkerStats holds statistics about the worker
type WorkerStats struct {
	ActiveJobs   int   `json:"active_jobs"`
	FinishedJobs int64 `json:"finished_jobs"`
	FailedJobs   int64 `json:"failed_jobs"`
	QueueLength  int   `json:"queue_length"`
}

// NewWorker creates a worker with n queue processors
func NewWorker(n int) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	asyncLimit := n * 2
	if asyncLimit < 8 {
		asyncLimit = 8
	}

	w := &Worker{
		ctx:      ctx,
		cancel:   cancel,
		queue:    make(chan Job, 100),
		asyncSem: make(chan struct{}, asyncLimit),
	}

	for i := 0; i < n; i++ {
		w.wg.Add(1)
		go w.process(i)
	}

	return w
}

// Enqueue adds a job to the queue. When the queue is full the job runs
// inline so it is never dropped.
func (w *Worker) Enqueue(job Job) {
	select {
	case w.queue <- job:
	default:
		logger.Warn("[worker] queue full, running job inline")
		if err := job(w.ctx); err != nil {
			logger.Error(fmt.Sprintf("[worker] job error: %v", err))
		}
	}
}

// EnqueueAsync runs a job in its own goroutine, bounded by a semaphore.
// The wait group is joined before the goroutine starts so Shutdown cannot
// miss a job enqueued just before it.
func (w *Worker) EnqueueAsync(job Job) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		w.asyncSem <- struct{}{}
		defer func() { <-w.asyncSem }()

		w.trackStart()
		defer w.trackEnd()

		defer func() {
			if r := recover(); r != nil {
				logger.Error(fmt.Sprintf("[worker] async job panic: %v", r))
				w.trackFailure()
			}
		}()

		if err := job(w.ctx); err != nil {
			logger.Error(fmt.Sprintf("[worker] async job error: %v", err))
			w.trackFailure()
		}
	}()
}

func (w *Worker) process(id int) {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case job, ok := <-w.queue:
			if !ok {
				return
			}
			w.trackStart()
			start := time.Now()
			if err := job(w.ctx); err != nil {
				logger.Error(fmt.Sprintf("[worker %d] job error: %v", id, err))
				w.trackFailure()
			} else {
				logger.Info(fmt.Sprintf("[worker %d] job completed in %v", id, time.Since(start)))
			}
			w.trackEnd()
		}
	}
}

// ScheduleEvery runs a job at fixed intervals, first run after one interval
func (w *Worker) ScheduleEvery(interval time.Duration, job Job) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.runScheduled(job)
			}
		}
	}()
}

func (w *Worker) runScheduled(job Job) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Sprintf("[scheduler] job panic: %v", r))
			w.trackFailure()
			w.trackEnd()
		}
	}()
	w.trackStart()
	start := time.Now()
	if err := job(w.ctx); err != nil {
		logger.Error(fmt.Sprintf("[scheduler] job error: %v", err))
		w.trackFailure()
	} else {
		logger.Info(fmt.Sprintf("[scheduler] job completed in %v", time.Since(start)))
	}
	w.trackEnd()
}

// Shutdown stops accepting work and waits for running jobs
func (w *Worker) Shutdown() {
	w.cancel()
	close(w.queue)
	w.wg.Wait()
}

// Context returns the worker's context for checking cancellation
func (w *Worker) Context() context.Context {
	return w.ctx
}

// GetStats returns the current worker statistics. FinishedJobs counts every
// job that ran; FailedJobs is the subset that returned an error or panicked.
func (w *Worker) GetStats() WorkerStats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()
	stats := w.stats
	stats.QueueLength = len(w.queue)
	return stats
}

func (w *Worker) trackStart() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs++
}

func (w *Worker) trackEnd() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs--
	w.stats.FinishedJobs++
}

func (w *Worker) trackFailure() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.FailedJobs++
}
