package middlewares

import (
	"context"
	"errors"
	"runtime/debug"
	"slices"
	"time"

	"github.com/dmitrymomot/clipdrop/internal"
)

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 30 * time.Second

// TimeoutConfig configures the timeout middleware.
type TimeoutConfig struct {
	Skip    []string // Paths served without a deadline
	Timeout time.Duration
}

// TimeoutOption configures TimeoutConfig.
type TimeoutOption func(*TimeoutConfig)

// WithTimeoutSkip exempts exact request paths from the timeout. Synchronous
// uploads hold the request for as long as the browser needs, so the server
// skips "/upload".
func WithTimeoutSkip(paths ...string) TimeoutOption {
	return func(cfg *TimeoutConfig) {
		cfg.Skip = append(cfg.Skip, paths...)
	}
}

// Timeout returns middleware that enforces a request timeout.
// The deadline is installed on the request context, so handlers observe it
// through c.Done(). If the handler does not return in time, a TimeoutError
// is returned to the error handler.
//
// Note: The handler goroutine continues running after timeout. Use
// context.Done() in long-running operations to terminate early.
func Timeout(timeout time.Duration, opts ...TimeoutOption) internal.Middleware {
	cfg := &TimeoutConfig{
		Timeout: timeout,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if slices.Contains(cfg.Skip, c.Request().URL.Path) {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(c.Context(), cfg.Timeout)
			defer cancel()
			c.SetContext(ctx)

			done := make(chan error, 1)
			go func() {
				// Recover cannot see panics on this goroutine.
				defer func() {
					if r := recover(); r != nil {
						stack := debug.Stack()
						c.LogError("panic recovered", "panic", r, "stack", string(stack))
						done <- &PanicError{Value: r, Stack: stack}
					}
				}()
				done <- next(c)
			}()

			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				if errors.Is(ctx.Err(), context.DeadlineExceeded) {
					c.LogWarn("request timeout", "timeout", cfg.Timeout.String())
					return &TimeoutError{Duration: cfg.Timeout}
				}
				return ctx.Err()
			}
		}
	}
}
