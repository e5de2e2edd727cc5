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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-substitution-console/api/swagger"
	"github.com/noah-isme/sma-substitution-console/internal/app"
	"github.com/noah-isme/sma-substitution-console/internal/handler"
	"github.com/noah-isme/sma-substitution-console/internal/middleware"
	"github.com/noah-isme/sma-substitution-console/pkg/config"
	"github.com/noah-isme/sma-substitution-console/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-substitution-console/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-substitution-console/pkg/middleware/requestid"
)

// @title SMA Substitution Console API
// @version 0.1.0
// @description JSON gateway over the substitution portal workflows
// @BasePath /
// @schemes http

const exportSweepInterval = time.Hour

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

	workflows, err := app.New(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to wire workflows", zap.Error(err))
	}
	defer workflows.Close()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(workflows.Metrics))

	metricsHandler := handler.NewMetricsHandler(workflows.Metrics, workflows.Portal)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Absence:       handler.NewAbsenceHandler(workflows.Absence, workflows.Validator),
		Transfers:     handler.NewTransferHandler(workflows.Transfers),
		Substitutions: handler.NewSubstitutionHandler(workflows.Substitutions),
		Theme:         handler.NewThemeHandler(workflows.Theme),
		Exports:       handler.NewExportHandler(workflows.Exports, workflows.Validator, cfg.APIPrefix),
		Metrics:       metricsHandler,
	})

	go sweepExports(ctx, workflows, cfg.Exports.SignedURLTTL, logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "portal", cfg.Portal.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

// sweepExports removes exports whose download links can no longer be valid.
func sweepExports(ctx context.Context, workflows *app.App, ttl time.Duration, logr *zap.Logger) {
	ticker := time.NewTicker(exportSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := workflows.Exports.Cleanup(ttl)
			if err != nil {
				logr.Warn("export cleanup failed", zap.Error(err))
				continue
			}
			if len(removed) > 0 {
				logr.Info("expired exports removed", zap.Int("count", len(removed)))
			}
		}
	}
}
