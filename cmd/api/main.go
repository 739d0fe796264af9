package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/issue-insights-api/internal/handler"
	"github.com/noah-isme/issue-insights-api/internal/repository"
	"github.com/noah-isme/issue-insights-api/internal/service"
	"github.com/noah-isme/issue-insights-api/pkg/cache"
	"github.com/noah-isme/issue-insights-api/pkg/config"
	"github.com/noah-isme/issue-insights-api/pkg/database"
	"github.com/noah-isme/issue-insights-api/pkg/logger"
)

// @title Issue Insights API
// @version 1.0.0
// @description Analytics and AI insights over the issue tracker's projects, tickets and team.
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("database unavailable", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	checks := map[string]handler.ReadinessCheck{"database": db.PingContext}
	cacheRepo := newCacheRepository(ctx, cfg, logr, checks)

	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Insights.CacheTTL, logr, cfg.Cache.Enabled)
	validate := validator.New()

	insightsRepo := repository.NewInsightsRepository(db)
	insightsSvc := service.NewInsightsService(service.InsightsServiceParams{
		Repo:     insightsRepo,
		Cache:    cacheSvc,
		Metrics:  metrics,
		Logger:   logr,
		CacheTTL: cfg.Insights.CacheTTL,
	})
	chatSvc := service.NewChatService(insightsSvc, validate, logr)
	reportSvc := service.NewReportService(insightsSvc, nil, nil, logr)
	analyticsSvc := service.NewAnalyticsService(repository.NewAnalyticsRepository(db), insightsRepo, cacheSvc, metrics, logr, cfg.Analytics.CacheTTL)
	authSvc := service.NewAuthService(validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})

	if cacheSvc.Enabled() {
		warmer := service.NewInsightsWarmer(insightsSvc, cfg.Insights.WarmInterval, logr)
		go warmer.Run(ctx)
	}

	router := handler.NewRouter(handler.RouterDeps{
		Config:        cfg,
		Logger:        logr,
		Observer:      metrics,
		Tokens:        authSvc,
		Insights:      handler.NewInsightsHandler(insightsSvc, chatSvc, reportSvc),
		Analytics:     handler.NewAnalyticsHandler(analyticsSvc),
		Observability: handler.NewMetricsHandler(metrics, checks),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "cache_driver", cfg.Cache.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newCacheRepository picks the cache backend. An unreachable redis degrades to the
// in-process store.
func newCacheRepository(ctx context.Context, cfg *config.Config, logr *zap.Logger, checks map[string]handler.ReadinessCheck) service.CacheRepository {
	if cfg.Cache.Driver != config.CacheDriverRedis {
		return repository.NewMemoryCacheRepository(time.Now)
	}

	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, falling back to memory cache", zap.Error(err))
		return repository.NewMemoryCacheRepository(time.Now)
	}
	checks["cache"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	return repository.NewCacheRepository(client, logr)
}
