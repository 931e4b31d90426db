package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmarquez/inkwell-be/internal/api"
	"github.com/dmarquez/inkwell-be/internal/config"
	"github.com/dmarquez/inkwell-be/internal/database"
	"github.com/dmarquez/inkwell-be/internal/logger"
	"github.com/dmarquez/inkwell-be/internal/services"
	"github.com/dmarquez/inkwell-be/internal/storage"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.LogLevel)

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up image storage
	images, err := storage.NewImageStore(cfg.UploadsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize image storage")
	}

	// Set up services
	userService := services.NewUserService(db)
	postService, err := services.NewPostService(db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize post service")
	}
	commentService := services.NewCommentService(db)

	// Set up router
	router := api.NewRouter(userService, postService, commentService, images)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
