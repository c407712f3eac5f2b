package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/folio/app/api"
	"github.com/lysyi3m/folio/app/catalog"
	"github.com/lysyi3m/folio/app/cfg"
	"github.com/lysyi3m/folio/app/content"
	"github.com/lysyi3m/folio/app/document"
	"github.com/lysyi3m/folio/app/feed"
	"github.com/lysyi3m/folio/app/metrics"
	"github.com/lysyi3m/folio/app/pages"
	"github.com/lysyi3m/folio/app/reveal"
	"github.com/lysyi3m/folio/app/tasks"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Folio server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	appCfg, err := cfg.Load()
	if err != nil {
		return err
	}
	if appCfg == nil {
		// Help was shown
		return nil
	}

	setupLogger(appCfg.Debug)
	slog.Info("Starting Folio server", "version", appCfg.Version)

	c, err := content.NewLoader(content.Open(appCfg.ContentDir)).Load()
	if err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}
	if appCfg.SiteName != "" {
		c.Site.Name = appCfg.SiteName
	}
	slog.Info("Content loaded", "records", len(c.Records), "bodies", c.BodyCount(), "topics", len(c.Site.Topics))

	store, err := catalog.NewStore(c.Records)
	if err != nil {
		return fmt.Errorf("failed to build catalog: %w", err)
	}

	m := metrics.New()
	m.Records.Set(float64(store.Len()))

	warnings := store.Validate()
	m.FeaturedConflict.Set(float64(len(warnings)))
	for _, w := range warnings {
		slog.Warn("Featured conflict", "tag", w.Tag, "slugs", w.Slugs, "detail", w.String())
	}
	if appCfg.StrictContent && len(warnings) > 0 {
		return fmt.Errorf("%d tags have more than one featured record", len(warnings))
	}

	assembler := document.NewAssembler(store, c)
	if err := assembler.ValidateAll(); err != nil {
		if appCfg.StrictContent {
			return fmt.Errorf("malformed documents: %w", err)
		}
		slog.Warn("Some case studies are malformed and will not render", "error", err)
	}

	pageBuilder, err := pages.NewBuilder(c.Site, store, assembler, pages.Options{
		Reveal:  appCfg.RevealConfig(),
		Clock:   reveal.SystemClock{},
		Version: appCfg.Version,
		BaseURL: appCfg.PublicURL(),
	})
	if err != nil {
		return fmt.Errorf("failed to prepare page templates: %w", err)
	}

	feedBuilder := feed.NewBuilder(c.Site, store, pageBuilder, feed.Options{
		BaseURL: appCfg.PublicURL(),
		Version: appCfg.Version,
	})

	cache := pages.NewCache()

	slog.Info("Starting background renderer", "workers", appCfg.WorkerCount)
	scheduler := tasks.NewScheduler(pageBuilder, feedBuilder, cache, m, tasks.Options{
		WorkerCount: appCfg.WorkerCount,
	})
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(c.Site, store, pageBuilder, feedBuilder, cache, scheduler, m, appCfg.Version)
	server := api.NewServer(handler, m, api.ServerOptions{AssetsDir: appCfg.AssetsDir})

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port, "url", appCfg.PublicURL())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case runErr = <-serverErrChan:
		slog.Error("Server error", "error", runErr)
	}

	slog.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("Folio server shutdown complete", "pending_tasks", scheduler.Pending())
	return runErr
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}
