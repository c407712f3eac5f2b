package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lysyi3m/folio/app/feed"
	"github.com/lysyi3m/folio/app/metrics"
	"github.com/lysyi3m/folio/app/pages"
)

const RequestIDHeader = "X-Request-ID"

type ServerOptions struct {
	AssetsDir string
}

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler, m *metrics.Metrics, opts ServerOptions) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
		SkipPaths: []string{"/health", "/metrics"},
	}))

	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(metricsMiddleware(m))

	setupRoutes(r, handler, m, opts)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, m *metrics.Metrics, opts ServerOptions) {
	r.GET(pages.HomePath, handler.GetPage)
	r.GET(pages.AboutPath, handler.GetPage)
	r.GET(pages.ProjectsPath+":slug", handler.GetPage)
	r.GET(feed.FeedPath, handler.GetFeed)

	r.GET("/health", handler.GetHealth)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	api := r.Group("/api")
	api.Use(corsMiddleware())
	{
		api.GET("/projects", handler.APIListProjects)
		api.GET("/projects/:slug", handler.APIGetProject)
		api.GET("/topics", handler.APIListTopics)
		api.POST("/pages/render", handler.APIRenderPage)
		api.OPTIONS("/*path", func(c *gin.Context) {})
	}

	r.StaticFS("/static", http.FS(pages.StaticFS()))
	if opts.AssetsDir != "" {
		r.Static("/media", opts.AssetsDir)
		slog.Debug("Serving media", "dir", opts.AssetsDir)
	}

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	r.NoRoute(handler.NotFound)
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(started).Seconds())
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
