package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/ACC-Aniket-Sakpal/s3-with-cloudfront/internal/config"
	"github.com/ACC-Aniket-Sakpal/s3-with-cloudfront/internal/database"
	"github.com/ACC-Aniket-Sakpal/s3-with-cloudfront/internal/handlers"
	"github.com/ACC-Aniket-Sakpal/s3-with-cloudfront/internal/jobs"
	"github.com/ACC-Aniket-Sakpal/s3-with-cloudfront/internal/log"
	"github.com/ACC-Aniket-Sakpal/s3-with-cloudfront/internal/repository"
	"github.com/ACC-Aniket-Sakpal/s3-with-cloudfront/internal/server"
	"github.com/ACC-Aniket-Sakpal/s3-with-cloudfront/internal/service"
	"github.com/ACC-Aniket-Sakpal/s3-with-cloudfront/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}

	imageRepo := repository.NewImageRepository(dbPool)
	uploadService := service.NewUploadService(imageRepo, objectStore, &http.Client{}, cfg.Storage.CFDomain, logger)
	handlerSet := handlers.NewHandlerSet(logger, dbPool, uploadService, cfg)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(imageRepo, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("forced shutdown failed")
		}
	}

	scheduler.Stop()
	db.Close()

	logger.Info().Msg("server exited cleanly")
}
