package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// SetupJSON sets slog's default logger to use JSON output at the given level.
// Every line carries the service name.
func SetupJSON(service string, level slog.Level) *slog.Logger {
	logger := New(os.Stdout, service, level)
	slog.SetDefault(logger)

	return logger
}

// New builds the JSON logger without installing it.
func New(w io.Writer, service string, level slog.Level) *slog.Logger {
	logger := slog.New(
		slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}),
	)

	if service = strings.TrimSpace(service); service != "" {
		logger = logger.With(slog.String("service", service))
	}

	return logger
}
