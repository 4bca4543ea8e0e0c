package logger

import (
	"io"
	"log/slog"
	"os"
)

// New creates the application logger from cfg. Sentry forwarding is enabled
// when cfg.Sentry.DSN is set.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	return newLogger(os.Stdout, cfg, extractors...)
}

func newLogger(w io.Writer, cfg Config, extractors ...ContextExtractor) *slog.Logger {
	var handler slog.Handler = stdoutHandler(w, cfg)
	if sentryHandler := newSentryHandler(cfg.Sentry, handler); sentryHandler != nil {
		handler = newMultiHandler(handler, sentryHandler)
	}
	return slog.New(withContextAttrs(handler, extractors...))
}

func stdoutHandler(w io.Writer, cfg Config) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if cfg.Format == "text" {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}
