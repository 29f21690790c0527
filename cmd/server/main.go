package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Shivani-Chovatiya/Analytics-Dashboard/internal/business/dashboard"
	"github.com/Shivani-Chovatiya/Analytics-Dashboard/internal/business/ingest"
	"github.com/Shivani-Chovatiya/Analytics-Dashboard/internal/platform/cache"
	"github.com/Shivani-Chovatiya/Analytics-Dashboard/internal/platform/config"
	apirouter "github.com/Shivani-Chovatiya/Analytics-Dashboard/internal/platform/http"
	"github.com/Shivani-Chovatiya/Analytics-Dashboard/internal/platform/logging"
	"github.com/Shivani-Chovatiya/Analytics-Dashboard/internal/repository"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load(".env.local", ".env")

	cfg, err := config.Load("")
	if err != nil {
		bootLogger := logging.New(logging.Config{}, "evdash-api")
		bootLogger.Fatal().Err(err).Msg("config load")
	}
	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}, "evdash-api")

	gin.SetMode(cfg.Server.GinMode)

	views, err := cache.New(ctx, cache.Options{
		Backend:    cfg.Cache.Backend,
		MaxEntries: cfg.Cache.MaxEntries,
		Redis: cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		},
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("view cache init")
	}
	defer views.Close()
	logger.Info().Str("backend", cfg.Cache.Backend).Msg("view cache ready")

	loader := ingest.NewLoader(
		ingest.NewHTTPFetcher(nil, cfg.Dataset.FetchTimeout),
		ingest.LoaderConfig{DefaultPath: cfg.Dataset.DefaultPath, MaxBytes: cfg.Dataset.MaxUploadBytes},
	)
	runRepo := repository.NewRunRepository(repository.DefaultRunHistory)
	svc := dashboard.NewService(loader, runRepo, views, logging.Component(logger, "dashboard"), dashboard.ServiceConfig{
		FetchTimeout: cfg.Dataset.FetchTimeout,
		ViewTTL:      cfg.Cache.TTL,
	})

	if cfg.Dataset.LoadOnStart {
		svc.StartDefaultLoad()
	}

	router := apirouter.NewRouter(svc, apirouter.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxUploadBytes: cfg.Dataset.MaxUploadBytes,
		Logger:         logging.Component(logger, "http"),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()
	logger.Info().Str("port", cfg.Server.Port).Msg("server listening")

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown")
	}
	if err := svc.Drain(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("background dataset load still running")
	}
	logger.Info().Msg("server exited")
}
