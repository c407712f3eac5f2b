package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/folio/app/compose"
	"github.com/lysyi3m/folio/app/document"
	"github.com/lysyi3m/folio/app/metrics"
	"github.com/lysyi3m/folio/app/pages"
)

// RenderPageTask renders one page into the page cache.
type RenderPageTask struct {
	Task
	renderer PageRenderer
	cache    *pages.Cache
	metrics  *metrics.Metrics
}

func NewRenderPageTask(path string, renderer PageRenderer, cache *pages.Cache, m *metrics.Metrics) *RenderPageTask {
	return &RenderPageTask{
		Task:     NewTask(TaskTypeRenderPage, path),
		renderer: renderer,
		cache:    cache,
		metrics:  m,
	}
}

func (t *RenderPageTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	started := time.Now()
	page, err := t.renderer.Build(t.Target)
	t.metrics.ObserveRender(t.Kind, started, err)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) || errors.Is(err, compose.ErrMalformedNode) {
			return fmt.Errorf("%w: %w", ErrPermanent, err)
		}
		return fmt.Errorf("failed to render %s: %w", t.Target, err)
	}

	t.cache.Set(page)
	t.metrics.CachedPages.Set(float64(t.cache.Len()))

	slog.Debug("Page cached", "path", t.Target, "kind", t.Kind, "bytes", len(page.Body), "duration", time.Since(started))

	return nil
}
