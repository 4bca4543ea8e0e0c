package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrymomot/clipdrop/internal"
)

// PanicError represents a recovered panic.
type PanicError struct {
	Value any    // The panic value
	Stack []byte // Stack trace (nil if disabled)
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// TimeoutError represents a request timeout.
type TimeoutError struct {
	Duration time.Duration // The timeout that was exceeded
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout after %s", e.Duration)
}

// AsPanicError extracts the PanicError from an error if present.
func AsPanicError(err error) (*PanicError, bool) {
	var pe *PanicError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// AsTimeoutError extracts the TimeoutError from an error if present.
func AsTimeoutError(err error) (*TimeoutError, bool) {
	var te *TimeoutError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// ErrorHandler renders handler errors as JSON error bodies and tags them
// with the request ID. Panics become 500 "internal", timeouts 504
// "timeout", HTTPError keeps its own code, anything else is a 500 whose
// cause is logged but not returned.
func ErrorHandler() internal.ErrorHandler {
	return func(c internal.Context, err error) error {
		httpErr := toHTTPError(c, err)
		if id := GetRequestID(c); id != "" {
			httpErr.RequestID = id
		}
		return c.JSON(httpErr.Code, httpErr.Body())
	}
}

func toHTTPError(c internal.Context, err error) *internal.HTTPError {
	if _, ok := AsPanicError(err); ok {
		// Recover already logged the value and stack.
		return internal.ErrInternal("Internal server error", internal.WithKind("internal"), internal.WithError(err))
	}
	if te, ok := AsTimeoutError(err); ok {
		return internal.ErrGatewayTimeout(
			fmt.Sprintf("Request timed out after %s", te.Duration),
			internal.WithKind("timeout"),
			internal.WithError(err),
		)
	}
	if httpErr := internal.AsHTTPError(err); httpErr != nil {
		cp := *httpErr
		if cp.Code >= http.StatusInternalServerError && cp.Err != nil {
			c.LogError("request failed", "error", cp.Err, "kind", cp.Kind)
		}
		return &cp
	}
	c.LogError("request failed", "error", err)
	return internal.ErrInternal("Internal server error", internal.WithKind("internal"), internal.WithError(err))
}
