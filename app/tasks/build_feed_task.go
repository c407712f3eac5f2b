package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/folio/app/metrics"
	"github.com/lysyi3m/folio/app/pages"
)

// BuildFeedTask generates the RSS feed into the page cache.
type BuildFeedTask struct {
	Task
	renderer FeedRenderer
	cache    *pages.Cache
	metrics  *metrics.Metrics
}

func NewBuildFeedTask(path string, renderer FeedRenderer, cache *pages.Cache, m *metrics.Metrics) *BuildFeedTask {
	return &BuildFeedTask{
		Task:     NewTask(TaskTypeBuildFeed, path),
		renderer: renderer,
		cache:    cache,
		metrics:  m,
	}
}

func (t *BuildFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	started := time.Now()
	page, err := t.renderer.Page()
	t.metrics.ObserveRender("feed", started, err)
	if err != nil {
		return fmt.Errorf("failed to build feed: %w", err)
	}

	t.cache.Set(page)
	t.metrics.CachedPages.Set(float64(t.cache.Len()))

	slog.Debug("Feed cached", "path", page.Path, "bytes", len(page.Body))

	return nil
}
