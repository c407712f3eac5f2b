package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/folio/app/catalog"
	"github.com/lysyi3m/folio/app/content"
	"github.com/lysyi3m/folio/app/document"
	"github.com/lysyi3m/folio/app/feed"
	"github.com/lysyi3m/folio/app/metrics"
	"github.com/lysyi3m/folio/app/pages"
	"github.com/lysyi3m/folio/app/tasks"
)

type Handler struct {
	site      content.Site
	store     *catalog.Store
	builder   PageBuilder
	feed      FeedBuilder
	cache     *pages.Cache
	scheduler PageScheduler
	metrics   *metrics.Metrics
	version   string
	startedAt time.Time
}

func NewHandler(site content.Site, store *catalog.Store, builder PageBuilder, feedBuilder FeedBuilder,
	cache *pages.Cache, scheduler PageScheduler, m *metrics.Metrics, version string) *Handler {
	return &Handler{
		site:      site,
		store:     store,
		builder:   builder,
		feed:      feedBuilder,
		cache:     cache,
		scheduler: scheduler,
		metrics:   m,
		version:   version,
		startedAt: time.Now(),
	}
}

// GetPage serves home, about and case study pages from the cache, rendering
// on a miss.
func (h *Handler) GetPage(c *gin.Context) {
	path := c.Request.URL.Path

	page, ok := h.cache.Get(path)
	h.metrics.ObserveCache(ok)
	if ok {
		h.writePage(c, page, "HIT")
		return
	}

	started := time.Now()
	page, err := h.builder.Build(path)
	h.metrics.ObserveRender(tasks.PageKind(path), started, err)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			h.NotFound(c)
			return
		}
		slog.Error("Page render error", "path", path, "request_id", c.GetString("request_id"), "error", err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.cache.Set(page)
	h.metrics.CachedPages.Set(float64(h.cache.Len()))
	h.writePage(c, page, "MISS")
}

func (h *Handler) GetFeed(c *gin.Context) {
	page, ok := h.cache.Get(feed.FeedPath)
	h.metrics.ObserveCache(ok)
	cacheStatus := "HIT"

	if !ok {
		cacheStatus = "MISS"
		started := time.Now()
		var err error
		page, err = h.feed.Page()
		h.metrics.ObserveRender("feed", started, err)
		if err != nil {
			slog.Error("RSS generation error", "request_id", c.GetString("request_id"), "error", err)
			c.Status(http.StatusInternalServerError)
			return
		}
		h.cache.Set(page)
	}

	c.Header("X-Feed-Items", strconv.Itoa(h.store.Len()))
	h.writePage(c, page, cacheStatus)
}

// NotFound renders the not-found page for any unmatched path.
func (h *Handler) NotFound(c *gin.Context) {
	page, err := h.builder.NotFound(c.Request.URL.Path)
	if err != nil {
		slog.Error("Not-found page render error", "path", c.Request.URL.Path, "error", err)
		c.String(http.StatusNotFound, "Not Found")
		return
	}
	h.writePage(c, page, "")
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"status":       "ok",
		"timestamp":    time.Now().In(time.Local).Format(time.RFC3339),
		"version":      h.version,
		"uptime":       time.Since(h.startedAt).Round(time.Second).String(),
		"projects":     h.store.Len(),
		"topics":       len(h.site.Topics),
		"cached_pages": h.cache.Len(),
	}

	if h.scheduler != nil {
		health["pending_tasks"] = h.scheduler.Pending()
	}

	c.JSON(http.StatusOK, health)
}

// APIListProjects lists records, optionally narrowed by tag and featured
// membership.
func (h *Handler) APIListProjects(c *gin.Context) {
	tag := c.Query("tag")
	featuredParam, filterFeatured := c.GetQuery("featured")

	var featured bool
	if filterFeatured {
		parsed, err := strconv.ParseBool(featuredParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "featured must be true or false"})
			return
		}
		featured = parsed
	}

	var records []catalog.Record
	if tag != "" && filterFeatured {
		records = h.store.Select(tag, featured)
	} else {
		for _, record := range h.store.All() {
			if tag != "" && !record.HasTag(tag) {
				continue
			}
			if filterFeatured && record.IsFeatured() != featured {
				continue
			}
			records = append(records, record)
		}
	}

	c.JSON(http.StatusOK, newProjectList(records))
}

func (h *Handler) APIGetProject(c *gin.Context) {
	slug := c.Param("slug")

	record, ok := h.store.Lookup(slug)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Project not found"})
		return
	}

	c.JSON(http.StatusOK, newProjectResponse(record))
}

func (h *Handler) APIListTopics(c *gin.Context) {
	topics := make([]TopicResponse, 0, len(h.site.Topics))
	for _, topic := range h.site.Topics {
		grouping := h.store.Group(topic.Tag)

		resp := TopicResponse{
			Tag:     topic.Tag,
			Heading: topic.Heading,
			Related: newProjectList(grouping.Related).Projects,
		}
		if grouping.Featured != nil {
			featured := newProjectResponse(*grouping.Featured)
			resp.Featured = &featured
		}
		topics = append(topics, resp)
	}

	c.JSON(http.StatusOK, TopicListResponse{Topics: topics, Total: len(topics)})
}

// APIRenderPage queues a background re-render of a page into the cache.
func (h *Handler) APIRenderPage(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing path parameter"})
		return
	}
	if h.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Background rendering is disabled"})
		return
	}

	if err := h.scheduler.RenderPage(path); err != nil {
		slog.Error("Error enqueueing render task", "path", path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue render task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"path":    path,
		"pending": h.scheduler.Pending(),
	})
}

func (h *Handler) writePage(c *gin.Context, page *pages.Page, cacheStatus string) {
	if cacheStatus != "" {
		c.Header("X-Cache", cacheStatus)
	}
	contentType := page.ContentType
	if contentType == "" {
		contentType = pages.ContentType
	}
	c.Data(page.Status, contentType, page.Body)
}
