// Package log configures docref's structured logger. Core packages never
// log directly; only the command orchestration layer and the CLI do.
package log

import (
	"io"
	"log/slog"
)

// Setup returns a slog.Logger writing text-formatted records to w. verbose
// lowers the level to Debug; quiet raises it to Warn; otherwise Info.
func Setup(w io.Writer, verbose, quiet bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelWarn
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
