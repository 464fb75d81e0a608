package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/natthaphonr/account-service/internal/config"
	"github.com/natthaphonr/account-service/internal/database"
	"github.com/natthaphonr/account-service/internal/mailer"
	"github.com/natthaphonr/account-service/internal/repository"
	"github.com/natthaphonr/account-service/internal/server"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.New(&logger)

	db, err := database.Connect(ctx, &logger, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mongodb")
	}

	userRepo := repository.NewUserMongoRepository(ctx, &logger, db)
	m := mailer.NewMailer(&logger)

	srv := server.New(cfg, &logger, userRepo, m)
	if err := srv.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("http server failed")
	}

	logger.Info().Msg("server stopped")
}
