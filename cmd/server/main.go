package main

import (
	"log/slog"
	"os"

	"igp-sales-backend/internal/config"
	"igp-sales-backend/internal/database"
	"igp-sales-backend/internal/logging"
	"igp-sales-backend/internal/server"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.New(cfg))

	db, err := database.Init(cfg)
	if err != nil {
		slog.Error("database init failed", "err", err)
		os.Exit(1)
	}

	app := server.New(cfg, db)

	slog.Info("server listening", "port", cfg.HTTPPort, "database", cfg.DatabasePath)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
