package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lysyi3m/folio/app/feed"
	"github.com/lysyi3m/folio/app/metrics"
	"github.com/lysyi3m/folio/app/pages"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

const (
	DefaultWorkerCount   = 4
	DefaultTaskTimeout   = 5 * time.Minute
	DefaultRetryDelay    = time.Second
	DefaultMaxRetryDelay = 30 * time.Second

	queueSize = 300
)

type Options struct {
	WorkerCount   int
	TaskTimeout   time.Duration
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
}

// Scheduler runs a worker pool that pre-renders every page and the feed into
// the page cache at startup. Handlers enqueue more work on cache misses.
type Scheduler struct {
	pages   PageRenderer
	feed    FeedRenderer
	cache   *pages.Cache
	metrics *metrics.Metrics
	opts    Options

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	taskQueue chan TaskInterface
	pending   atomic.Int64
}

func NewScheduler(pageRenderer PageRenderer, feedRenderer FeedRenderer, cache *pages.Cache,
	m *metrics.Metrics, opts Options) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	if opts.WorkerCount <= 0 {
		opts.WorkerCount = DefaultWorkerCount
	}
	if opts.TaskTimeout <= 0 {
		opts.TaskTimeout = DefaultTaskTimeout
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.MaxRetryDelay <= 0 {
		opts.MaxRetryDelay = DefaultMaxRetryDelay
	}

	return &Scheduler{
		pages:     pageRenderer,
		feed:      feedRenderer,
		cache:     cache,
		metrics:   m,
		opts:      opts,
		ctx:       ctx,
		cancel:    cancel,
		taskQueue: make(chan TaskInterface, queueSize),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.opts.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.enqueueStartupTasks()
}

// Stop cancels the workers and pending retries and waits for them. The queue
// stays open so a late EnqueueTask cannot send on a closed channel; whatever
// is left in it is dropped.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()

	for {
		select {
		case <-s.taskQueue:
			s.pending.Add(-1)
		default:
			s.metrics.QueueDepth.Set(0)
			return
		}
	}
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}

	s.pending.Add(1)
	select {
	case s.taskQueue <- task:
		s.metrics.QueueDepth.Set(float64(len(s.taskQueue)))
		return nil
	default:
		s.pending.Add(-1)
		return fmt.Errorf("task queue is full")
	}
}

// Pending reports tasks enqueued or running, retries included.
func (s *Scheduler) Pending() int {
	return int(s.pending.Load())
}

// RenderPage queues a background render of path.
func (s *Scheduler) RenderPage(path string) error {
	return s.EnqueueTask(NewRenderPageTask(path, s.pages, s.cache, s.metrics))
}

func (s *Scheduler) enqueueStartupTasks() {
	paths := s.pages.Paths()
	slog.Debug("Warming page cache", "pages", len(paths))

	for _, path := range paths {
		if err := s.RenderPage(path); err != nil {
			slog.Warn("Failed to enqueue RenderPageTask", "path", path, "error", err)
		}
	}

	if s.feed == nil {
		return
	}
	if err := s.EnqueueTask(NewBuildFeedTask(feed.FeedPath, s.feed, s.cache, s.metrics)); err != nil {
		slog.Warn("Failed to enqueue BuildFeedTask", "error", err)
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.metrics.QueueDepth.Set(float64(len(s.taskQueue)))
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, s.opts.TaskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		s.metrics.TasksTotal.WithLabelValues(string(task.GetType()), "ok").Inc()
		slog.Debug("Task completed", "worker_id", workerID, "type", string(task.GetType()), "kind", task.GetKind(), "target", task.GetTarget(), "duration", task.GetDuration().String())
		s.pending.Add(-1)
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "kind", task.GetKind(), "id", task.GetID(), "target", task.GetTarget(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.ShouldRetry(err) {
		s.metrics.TasksTotal.WithLabelValues(string(task.GetType()), "failed").Inc()
		if !errors.Is(err, ErrPermanent) {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", task.GetLastError())
		}
		s.pending.Add(-1)
		return
	}

	task.IncrementRetryCount()
	s.metrics.TaskRetries.Inc()
	retryDelay := task.RetryDelay(s.opts.RetryDelay, s.opts.MaxRetryDelay)

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "target", task.GetTarget(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(retryDelay)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
			s.pending.Add(-1)
			return
		case <-timer.C:
		}

		select {
		case s.taskQueue <- task:
		default:
			slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", "task queue is full")
			s.pending.Add(-1)
		}
	}()
}
