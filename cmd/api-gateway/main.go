package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-gradebook/api/swagger"
	"github.com/noah-isme/sma-gradebook/internal/app"
	"github.com/noah-isme/sma-gradebook/internal/handler"
	"github.com/noah-isme/sma-gradebook/internal/middleware"
	"github.com/noah-isme/sma-gradebook/pkg/config"
	"github.com/noah-isme/sma-gradebook/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-gradebook/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-gradebook/pkg/middleware/requestid"
)

// @title SMA Gradebook API
// @version 1.0.0
// @description Student roster, weighted grading, social feed and class statistics
// @BasePath /api/v1
// @schemes http

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gradebook, cleanup, err := app.Bootstrap(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to assemble gradebook", zap.Error(err))
	}
	defer cleanup()

	if _, err := gradebook.Persistence.Load(ctx); err != nil {
		logr.Warn("starting with an empty gradebook", zap.Error(err))
	}
	stopBackground := gradebook.StartBackground(ctx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(gradebook.Metrics))

	metricsHandler := handler.NewMetricsHandler(gradebook.Metrics)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	auditLog := logr.Named("audit")
	guard := func(action string) []gin.HandlerFunc {
		chain := []gin.HandlerFunc{}
		if gradebook.Auth.Enabled() {
			chain = append(chain, middleware.JWT(gradebook.Auth))
		}
		chain = append(chain, middleware.Audit(auditLog, action))
		if gradebook.Autosave != nil && action != "data.save" && action != "data.load" {
			chain = append(chain, middleware.Autosave(gradebook.Autosave, action))
		}
		return chain
	}
	if !gradebook.Auth.Enabled() {
		logr.Warn("JWT_SECRET or API_KEY_HASH unset, mutating routes are open")
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Students:   handler.NewStudentHandler(gradebook.Students, gradebook.Reports),
		Grades:     handler.NewGradeHandler(gradebook.Grades),
		Social:     handler.NewSocialHandler(gradebook.Social),
		Statistics: handler.NewStatisticsHandler(gradebook.Statistics, gradebook.Reports),
		Data:       handler.NewDataHandler(gradebook.Persistence, logr.Named("data")),
		Exports:    handler.NewExportHandler(gradebook.Exports),
		Auth:       handler.NewAuthHandler(gradebook.Auth),
		Metrics:    metricsHandler,
	}, guard)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "storage", cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
	stopBackground()
	if _, err := gradebook.Persistence.Save(shutdownCtx); err != nil {
		logr.Warn("final save failed", zap.Error(err))
	}
}
