package internal

import (
	"log/slog"
)

// Option configures the application.
type Option func(*App)

// WithMiddleware appends middleware applied to every route, outermost
// first.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHandlers registers route declarations.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithErrorHandler replaces the default error rendering. The server uses
// middlewares.ErrorHandler, which adds request IDs and maps panics and
// timeouts.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.methodNotAllowedHandler = h
	}
}

// WithHealthChecks mounts /health/live and /health/ready. Readiness runs
// the registered checks in parallel:
//
//	internal.WithHealthChecks(
//	    internal.WithReadinessCheck("browser", browser.Healthcheck(cfg)),
//	    internal.WithReadinessCheck("db", db.Healthcheck(pool)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithLogger sets the logger behind Context.Logger and the readiness
// check. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithWorker registers a background worker, such as the job manager,
// whose lifecycle follows the server's.
func WithWorker(w Worker) Option {
	return func(a *App) {
		if w != nil {
			a.workers = append(a.workers, w)
		}
	}
}
