// Package logger builds the service's structured logger on top of log/slog.
//
// Every record is written as JSON (or text, for local runs) to stdout. When
// a Sentry DSN is configured, warnings and errors are also forwarded to
// Sentry through [github.com/getsentry/sentry-go/slog]; errors become
// Sentry issues.
//
// Request-scoped values are attached with [ContextExtractor] functions that
// run on every log call:
//
//	log := logger.New(cfg,
//		middlewares.RequestIDExtractor(),
//		logger.ContextValue(uploadIDKey{}, "upload_id"),
//	)
//	log.InfoContext(ctx, "upload started")
//	// {"level":"INFO","msg":"upload started","request_id":"...","upload_id":"..."}
//
// If Sentry initialization fails the logger keeps writing to stdout.
// Register [Flush] as a shutdown hook so buffered Sentry events are sent
// before the process exits.
package logger
