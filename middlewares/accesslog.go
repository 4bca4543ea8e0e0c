package middlewares

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/dmitrymomot/clipdrop/internal"
)

// AccessLogConfig configures the access log middleware.
type AccessLogConfig struct {
	Skip []string // Paths not logged, such as health checks
}

// AccessLogOption configures AccessLogConfig.
type AccessLogOption func(*AccessLogConfig)

// WithAccessLogSkip excludes exact request paths from the access log.
func WithAccessLogSkip(paths ...string) AccessLogOption {
	return func(cfg *AccessLogConfig) {
		cfg.Skip = append(cfg.Skip, paths...)
	}
}

// AccessLog returns middleware that logs one line per request after the
// response is written: method, path, status, size and duration. 5xx
// responses log at error level, 4xx at warn, the rest at info. Place it
// after RequestID so the line carries the request ID.
func AccessLog(opts ...AccessLogOption) internal.Middleware {
	cfg := &AccessLogConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			path := c.Request().URL.Path
			if slices.Contains(cfg.Skip, path) {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			rw := c.ResponseWriter()
			status := rw.Status()
			if err != nil && !rw.Written() {
				// The error handler has not run yet; report what it will most
				// likely send.
				status = http.StatusInternalServerError
				if httpErr := internal.AsHTTPError(err); httpErr != nil {
					status = httpErr.Code
				}
			}

			level := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			c.Logger().Log(c.Context(), level, "request",
				slog.String("method", c.Request().Method),
				slog.String("path", path),
				slog.Int("status", status),
				slog.Int64("size", rw.Size()),
				slog.Duration("duration", time.Since(start)),
			)
			return err
		}
	}
}
