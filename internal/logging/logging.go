package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"igp-sales-backend/internal/config"
)

// New builds the application logger: JSON for log collectors, tinted text
// for a terminal.
func New(cfg *config.Config) *slog.Logger {
	var handler slog.Handler
	if cfg.LogJSON {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})
	} else {
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      cfg.LogLevel,
			TimeFormat: time.RFC3339,
		})
	}
	return slog.New(handler)
}
