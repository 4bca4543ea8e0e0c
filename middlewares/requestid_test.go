package middlewares_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/clipdrop/internal"
	"github.com/dmitrymomot/clipdrop/middlewares"
)

func runRequestID(t *testing.T, req *http.Request, opts ...middlewares.RequestIDOption) (*httptest.ResponseRecorder, string, context.Context) {
	t.Helper()

	rec := httptest.NewRecorder()
	c := newTestContext(rec, req)

	var seen string
	var ctx context.Context
	handler := middlewares.RequestID(opts...)(func(c internal.Context) error {
		seen = middlewares.GetRequestID(c)
		ctx = c.Context()
		return nil
	})
	require.NoError(t, handler(c))
	return rec, seen, ctx
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates a uuid", func(t *testing.T) {
		t.Parallel()
		rec, seen, _ := runRequestID(t, httptest.NewRequest(http.MethodGet, "/", nil))

		_, err := uuid.Parse(seen)
		require.NoError(t, err)
		require.Equal(t, seen, rec.Header().Get("X-Request-ID"))
	})

	t.Run("keeps upstream id in header order", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Correlation-ID", "corr-2")
		_, seen, _ := runRequestID(t, req)
		require.Equal(t, "corr-2", seen)

		req.Header.Set("X-Request-ID", "req-1")
		_, seen, _ = runRequestID(t, req)
		require.Equal(t, "req-1", seen)
	})

	t.Run("rejects unusable ids", func(t *testing.T) {
		t.Parallel()
		for _, bad := range []string{strings.Repeat("a", middlewares.MaxRequestIDLength+1), "has space", "tab\tid"} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Request-ID", bad)
			_, seen, _ := runRequestID(t, req, middlewares.WithRequestIDGenerator(func() string { return "generated" }))
			require.Equal(t, "generated", seen, bad)
		}
	})

	t.Run("custom headers and response header", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Trace-ID", "trace-1")
		req.Header.Set("X-Request-ID", "ignored")
		rec, seen, _ := runRequestID(t, req,
			middlewares.WithRequestIDHeaders("X-Trace-ID"),
			middlewares.WithRequestIDResponseHeader("X-Trace-ID"),
		)
		require.Equal(t, "trace-1", seen)
		require.Equal(t, "trace-1", rec.Header().Get("X-Trace-ID"))
		require.Empty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("no id outside the middleware", func(t *testing.T) {
		t.Parallel()
		c := newTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.Empty(t, middlewares.GetRequestID(c))
	})
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	_, _, ctx := runRequestID(t, req)

	extract := middlewares.RequestIDExtractor()
	attr, ok := extract(ctx)
	require.True(t, ok)
	require.Equal(t, "request_id", attr.Key)
	require.Equal(t, "req-42", attr.Value.String())

	_, ok = extract(context.Background())
	require.False(t, ok)
}
