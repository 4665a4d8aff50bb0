package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"

	"station-scraper/config"
)

// New creates the application logger: colored text for terminals, JSON otherwise
func New(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	level, err := config.ParseLogLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	if cfg.Format == "json" {
		h := slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})
		return slog.New(h).With("app", "station-scraper"), nil
	}

	h := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})
	return slog.New(h), nil
}
