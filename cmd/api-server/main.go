package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"mangapress/database"
	"mangapress/internal/cache"
	"mangapress/internal/config"
	"mangapress/internal/media"
	"mangapress/internal/microservices/http-api/handler"
	"mangapress/internal/microservices/http-api/repository"
	"mangapress/internal/microservices/http-api/service"
	"mangapress/internal/storage/s3"
	"mangapress/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("api_server_failed", "error", err.Error())
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.OTelEndpoint, cfg.ServiceName, cfg.GoEnv)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing_shutdown_failed", "error", err.Error())
		}
	}()

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warn("database_close_failed", "error", err.Error())
		}
	}()

	store, err := s3.New(s3.Config{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		UseSSL:    cfg.S3UseSSL,
		Bucket:    cfg.StorageBucket,
	})
	if err != nil {
		return err
	}
	bctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = store.EnsureBucket(bctx)
	cancel()
	if err != nil {
		return fmt.Errorf("ensure bucket %s: %w", cfg.StorageBucket, err)
	}

	health := map[string]handler.Checker{
		"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
	}

	var listCache cache.ListCache = cache.Noop{}
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(cfg.RedisURL, cfg.RedisPassword, cfg.CacheExpiry())
		if err != nil {
			// lists are served straight from Postgres until Redis is back
			logger.Warn("redis_unavailable", "error", err.Error())
		} else {
			defer rc.Close()
			listCache = rc
			health["redis"] = rc.Ping
		}
	}

	var (
		metrics        *telemetry.Metrics
		metricsHandler http.Handler
	)
	if cfg.PrometheusEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics = telemetry.NewMetrics(reg)
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	mediaManager := media.NewManager(store, repository.NewPendingDeletionRepo(db), media.Options{
		Bucket:        cfg.StorageBucket,
		PublicBaseURL: cfg.StoragePublicURL,
		Logger:        logger.With("component", "media"),
		Metrics:       metrics,
		References:    repository.NewMediaReferenceRepo(db),
	})
	// stopped and drained before the database closes, whatever the exit path
	janitorCtx, stopJanitor := context.WithCancel(ctx)
	janitor := media.NewJanitor(mediaManager, cfg.MediaRetryInterval, cfg.MediaWorkers)
	janitorDone := make(chan struct{})
	go func() {
		defer close(janitorDone)
		janitor.Run(janitorCtx)
	}()
	defer func() {
		stopJanitor()
		<-janitorDone
	}()

	categoryRepo := repository.NewCategoryRepo(db)
	router := handler.NewRouter(handler.RouterDeps{
		Auth:       service.NewAuthService(cfg),
		Posts:      service.NewPostService(repository.NewPostRepo(db), categoryRepo, mediaManager, listCache, logger),
		Categories: service.NewCategoryService(categoryRepo, listCache, logger),
		Mangas:     service.NewMangaService(repository.NewMangaRepo(db), mediaManager, listCache, logger),
		Chapters:   service.NewChapterService(repository.NewChapterRepo(db), mediaManager, listCache, logger),
		Uploader:   mediaManager,
		Sweeper:    mediaManager,
		Health:     health,

		Metrics:        metrics,
		MetricsHandler: metricsHandler,
		Logger:         logger,
		CORSOrigins:    cfg.CORSOrigins,
		UploadLimiter:  rate.NewLimiter(rate.Limit(cfg.UploadRatePerSec), cfg.UploadBurst),
		UploadMaxBytes: cfg.UploadMaxBytes,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           otelhttp.NewHandler(router, cfg.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting_http_server",
			"addr", srv.Addr,
			"env", cfg.GoEnv,
			"bucket", cfg.StorageBucket,
			"cors_origins", strings.Join(cfg.CORSOrigins, ","),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("received_shutdown_signal")
	case err := <-errChan:
		return fmt.Errorf("http server: %w", err)
	}

	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Error("http_shutdown_failed", "error", err.Error())
	}
	logger.Info("server_stopped_gracefully")
	return nil
}
