package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"tunestore/internal/app/playlists"
	"tunestore/internal/app/purchases"
	"tunestore/internal/app/songs"
	"tunestore/internal/httpapi"
	"tunestore/internal/logging"
	"tunestore/internal/middleware"
	"tunestore/internal/store"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	logging.SetGlobal(logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	}))

	ctx := context.Background()

	db, err := openDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	dataStore := store.New(db)

	if err := seedCatalog(ctx, db, dataStore); err != nil {
		log.Fatal().Err(err).Msg("seed catalog")
	}

	api := httpapi.New(
		songs.New(dataStore),
		playlists.New(dataStore),
		purchases.New(dataStore),
	)

	handler := middleware.RequestLogging()(
		middleware.Recovery()(
			middleware.CORS(cfg.AllowedOrigins)(api.Routes()),
		),
	)

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}

	log.Info().Msg("server exited")
}
