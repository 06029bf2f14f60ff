package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/atrium-app/atrium/internal/cli"
	"github.com/atrium-app/atrium/internal/client"
)

func main() {
	cfg, err := client.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	app, err := cli.NewApp(cfg, logger, os.Stdout, os.Stderr)
	if err != nil {
		logger.Error("init cli", slog.Any("error", err))
		os.Exit(1)
	}

	os.Exit(app.Run(context.Background(), os.Args[1:]))
}
