package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/authflow/internal/authstub"
	"github.com/dmitrijs2005/authflow/internal/logging"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 5 * time.Second

func main() {

	_ = godotenv.Load()

	cfg, err := authstub.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger, err := logging.Build(logging.Config{Level: cfg.LogLevel, Dev: true})
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := append(cfg.Options(),
		authstub.WithLogger(logger),
		authstub.WithMailer(authstub.LogMailer{Log: logger}),
	)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           authstub.NewServer(opts...),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(shutdownCtx, "shutdown", "error", err)
		}
	}()

	logger.Info(ctx, "authstub listening", "addr", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error(ctx, "server stopped", "error", err)
	}

}
