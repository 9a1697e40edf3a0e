// ABOUTME: Main entry point for the reader API server
// ABOUTME: Wires together all components and starts the HTTP server

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"manabi-reader/api"
	"manabi-reader/api/handlers"
	"manabi-reader/api/middleware"
	"manabi-reader/core/content"
	"manabi-reader/core/document"
	"manabi-reader/core/extractor"
	"manabi-reader/core/ingest"
	"manabi-reader/core/interfaces"
	"manabi-reader/core/pipeline"
	"manabi-reader/core/reconcile"
	"manabi-reader/core/sanitizer"
	"manabi-reader/core/siterules"
	"manabi-reader/core/workers"
	stdhttp "manabi-reader/infrastructure/http/standard"
	"manabi-reader/pkg/config"
	"manabi-reader/pkg/featureflags"
)

const warmInterval = 10 * time.Minute

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := newLogger(cfg.Log)
	flags := featureflags.NewEnvManager("")
	logger.Info("Starting reader API", map[string]interface{}{
		"port":       cfg.Server.Port,
		"store_type": cfg.Store.Type,
		"cache_type": cfg.Cache.Type,
		"flags":      flags.GetAllFlags(),
	})

	ctx := context.Background()

	var cache interfaces.Cache
	closeCache := func() error { return nil }
	if flags.IsEnabled(ctx, featureflags.ExtractionCacheEnabled) {
		cache, closeCache = newCache(cfg.Cache, logger)
	}
	defer closeCache()

	store, closeStore, err := newStore(cfg.Store, logger)
	if err != nil {
		log.Fatalf("Failed to open content store: %v", err)
	}
	defer closeStore()

	var rules document.SiteRules
	if flags.IsEnabled(ctx, featureflags.SiteRulesEnabled) {
		rules = siterules.NewDefaultRegistry(logger)
	}

	ext := extractor.New(logger)
	readerPipeline := pipeline.New(pipeline.Options{
		Extractor: ext,
		Sanitizer: sanitizer.New(),
		Cache:     cache,
		CacheTTL:  cfg.Reader.CacheTTL,
		Logger:    logger,
	})

	if flags.IsEnabled(ctx, featureflags.CacheWarmerEnabled) {
		stopWarmer := startWarmer(cfg, store, readerPipeline, rules, logger)
		defer stopWarmer()
	}

	apiConfig := api.APIConfig{Logger: logger}
	if flags.IsEnabled(ctx, featureflags.RateLimitEnabled) && cfg.Server.RateLimitPerSecond > 0 {
		limiter := middleware.NewRateLimiter(cfg.Server.RateLimitPerSecond, cfg.Server.RateLimitBurst)
		defer limiter.Close()
		apiConfig.RateLimiter = limiter
	}
	humaAPI, router := api.NewAPIWithMiddleware(apiConfig)

	readerHandler := handlers.NewReaderHandler(readerPipeline, ext, handlers.ReaderHandlerConfig{
		MinContentLength: cfg.Reader.MinContentLength,
		FontSizePx:       cfg.Reader.FontSizePx,
		SiteRules:        rules,
		Logger:           logger,
	})
	readerHandler.RegisterRoutes(humaAPI)

	feedHandler := handlers.NewFeedHandler(ingest.NewIngester(store, logger, cfg.Reader.MinContentLength))
	feedHandler.RegisterRoutes(humaAPI)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Server stopped", nil)
}

// startWarmer runs the cache warmer on a fixed interval and returns its stop function.
func startWarmer(cfg *config.Config, store workers.WarmStore, p *pipeline.Pipeline, rules document.SiteRules, logger interfaces.Logger) func() {
	warmer, err := workers.NewCacheWarmer(workers.Dependencies{
		Store:      store,
		Fetcher:    content.NewFetcher(stdhttp.NewClient(cfg.Reader.FetchTimeout), logger),
		Pipeline:   p,
		Reconciler: reconcile.NewReconciler(store, logger),
		SiteRules:  rules,
		Logger:     logger,
	}, workers.WorkerConfig{
		MaxWorkers: cfg.Reader.WarmerWorkers,
		JobTimeout: cfg.Reader.FetchTimeout,
	})
	if err != nil {
		logger.Error("Failed to create cache warmer", map[string]interface{}{
			"error": err.Error(),
		})
		return func() {}
	}
	if err := warmer.Start(); err != nil {
		logger.Error("Failed to start cache warmer", map[string]interface{}{
			"error": err.Error(),
		})
		return func() {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(warmInterval)
		defer ticker.Stop()
		for {
			queued, err := warmer.WarmPending(ctx, nil)
			if err != nil && ctx.Err() == nil {
				logger.Warn("Cache warming pass stopped early", map[string]interface{}{
					"queued": queued,
					"error":  err.Error(),
				})
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() {
		cancel()
		<-done
		_ = warmer.Stop()
	}
}
