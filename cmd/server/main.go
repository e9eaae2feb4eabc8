package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gamix-app/auth-service/internal/logging"
	"github.com/gamix-app/auth-service/internal/server"
	"github.com/gamix-app/auth-service/internal/server/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	log := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.LoadConfig()
	app := server.NewApp(cfg, log)

	if err := app.Run(ctx); err != nil {
		log.Error(ctx, "server exited with error", "error", err)
		os.Exit(1)
	}
}
