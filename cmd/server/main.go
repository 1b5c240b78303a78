package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/houseofcharity/charity-be/internal/config"
	"github.com/houseofcharity/charity-be/internal/logging"
	"github.com/houseofcharity/charity-be/internal/server"
	"github.com/houseofcharity/charity-be/internal/storage/postgres"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.LogLevel, os.Stdout)
	log := logging.Component(logger, "main")

	ctx := context.Background()
	store, err := postgres.NewStore(ctx, postgres.Options{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DBMaxConns,
	}, logging.Component(logger, "store"))
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	defer store.Close()

	if !cfg.VerifyPassword {
		log.Warn("AUTH_VERIFY_PASSWORD=false: login accepts any password for a registered email")
	}

	srv := server.New(cfg, store, logger)

	go func() {
		log.Infof("charity backend listening on %s", cfg.HTTPAddress())
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info("shutting down")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Errorf("graceful shutdown error: %v", err)
	}
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found; relying on existing environment")
	}
}
