package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"student-admin-backend/internal/config"
	"student-admin-backend/internal/database"
	"student-admin-backend/internal/handler"
	"student-admin-backend/internal/logger"
	"student-admin-backend/internal/repository"
	"student-admin-backend/internal/service"
	"student-admin-backend/internal/storage"
	"student-admin-backend/internal/validation"
)

func main() {
	cfg := config.MustLoad()

	logger.Configure(logger.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
	})
	logger.Info().Str("env", cfg.Env).Str("address", cfg.Addr).Msg("Starting student admin backend")

	// Initialize database
	db, err := database.InitDB(cfg.Database, cfg.Env)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialise database")
	}

	ctx := context.Background()
	images, err := storage.New(ctx, cfg.Images, cfg.MinIO)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.Images.Backend).Msg("Failed to initialise image store")
	}

	if err := os.MkdirAll(cfg.Import.UploadDir, os.ModePerm); err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Import.UploadDir).Msg("Failed to create uploads directory")
	}

	// Repositories and services
	studentRepo := repository.NewStudentRepository(db)
	fileRepo := repository.NewFileRepository(db)

	requestValidator, err := validation.New(studentRepo)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialise validator")
	}

	studentService := service.NewStudentService(studentRepo, images, cfg.Images.AllowedExtensions)
	fileService := service.NewFileService(fileRepo, cfg.Files.MaxUploadSize)
	importService := service.NewImportService(studentRepo, requestValidator, cfg.Import.BatchSize)

	// Handlers
	importHandler := handler.NewImportHandler(importService, cfg.Import.UploadDir, cfg.Import.MaxUploadSize)
	router := handler.NewRouter(cfg.CORS.AllowedOrigins,
		handler.NewStudentHandler(studentService, requestValidator, cfg.Images.MaxUploadSize),
		handler.NewFileHandler(fileService),
		importHandler,
		handler.NewProgressHandler(importService),
	)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info().Str("address", cfg.Addr).Msg("Server running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-done
	logger.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Failed to shut down server")
	}

	// let running imports finish their last batch
	importHandler.Wait()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info().Msg("Server shut down successfully")
}
