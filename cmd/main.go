package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/oksasatya/user-directory/config"
	"github.com/oksasatya/user-directory/internal/container"
	pginfra "github.com/oksasatya/user-directory/internal/infrastructure/postgres"
	"github.com/oksasatya/user-directory/internal/router"
	"github.com/oksasatya/user-directory/pkg/helpers"
	"github.com/oksasatya/user-directory/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	if cfg.DBDriver == "postgres" && cfg.AutoMigrate {
		if err := pginfra.MigrateUp(cfg.PostgresDSN(), logger); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}

	ctx := context.Background()
	cleanup, err := container.Init(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to initialize services: %v", err)
	}
	defer cleanup()

	svc := router.BuildServices(router.BuildRepositories())
	if container.ESIndexCreated() {
		// A new index starts empty; fill it before the listing reads from it.
		if _, err := svc.Profiles.Reindex(ctx); err != nil {
			logger.WithError(err).Warn("profile index backfill failed, listing from the database; run `user-directory reindex`")
			svc.Profiles.Index = nil
		}
	}
	r, err := router.NewEngine(svc)
	if err != nil {
		log.Fatalf("failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}
