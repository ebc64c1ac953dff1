// Package logger provides structured logging utilities for cfnopts.
// It configures log/slog with a JSON handler in production and a tint handler otherwise.
package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/runvoy/cfnopts/internal/constants"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
)

// Initialize sets up the global slog logger based on the environment
func Initialize(env constants.Environment, level slog.Level) *slog.Logger {
	logger := slog.New(NewHandler(os.Stderr, env, level))
	slog.SetDefault(logger)
	slog.Debug("logger initialized", "env", env, "level", level)

	return logger
}

// NewHandler returns the handler Initialize installs, writing to w.
func NewHandler(w io.Writer, env constants.Environment, level slog.Level) slog.Handler {
	if env == constants.Production {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}

	return tint.NewHandler(w, &tint.Options{
		Level:       level,
		TimeFormat:  time.TimeOnly,
		NoColor:     color.NoColor,
		ReplaceAttr: replaceAttrForDev,
	})
}
