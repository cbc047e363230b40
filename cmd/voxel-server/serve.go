package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/voxelkit/voxel/images/application"
	"github.com/voxelkit/voxel/images/codec"
	"github.com/voxelkit/voxel/images/domain"
	"github.com/voxelkit/voxel/images/persistence"
	"github.com/voxelkit/voxel/internal/config"
	"github.com/voxelkit/voxel/internal/middleware"
	"github.com/voxelkit/voxel/internal/rest"
	"github.com/voxelkit/voxel/shared/db/sqlite"
)

const shutdownTimeout = 5 * time.Second

func runServe(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Initialize dependencies
	database := sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: cfg.Storage.DatabasePath})
	if err := database.Connect(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	staging, err := persistence.NewFileStagingStore(cfg.Storage.StagingDir)
	if err != nil {
		return fmt.Errorf("failed to initialize staging store: %w", err)
	}

	var imageCodec codec.Codec = codec.Imaging{}
	if !cfg.Images.ProcessingEnabled {
		imageCodec = codec.Passthrough{}
		log.Warn().Msg("Image processing disabled; uploads are stored unmodified with no size bound")
	}

	durable := persistence.NewImageRepository(database.DB())
	compressor := application.NewCompressor(imageCodec)
	ingestion := application.NewIngestionService(staging, compressor, domain.RandomIDGenerator{}, application.IngestionConfig{
		MiddleMaxBytes: cfg.Images.MiddleMaxBytes,
		MiddleMaxWidth: cfg.Images.MiddleMaxWidth,
		ThumbnailSize:  cfg.Images.ThumbnailSize,
	})
	promotion := application.NewPromotionService(staging, durable)

	reclaimer := application.NewReclaimer(staging, application.SystemClock{})
	reclaimer.Start()
	defer func() {
		if err := reclaimer.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to gracefully stop reclaimer")
		}
	}()

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))
	rest.NewApi(router, rest.NewUploadHandler(ingestion, promotion, staging, durable))

	srv := &http.Server{
		Addr:    cfg.Server.Bind,
		Handler: router,
	}

	go func() {
		log.Info().Str("bind", cfg.Server.Bind).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	log.Info().Msg("Server stopped")
	return nil
}
