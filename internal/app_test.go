package internal_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/clipdrop/internal"
)

type routesFunc func(r internal.Router)

func (f routesFunc) Routes(r internal.Router) { f(r) }

func serve(app *internal.App, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestApp_DefaultErrorHandler(t *testing.T) {
	t.Parallel()

	app := internal.New(internal.WithHandlers(routesFunc(func(r internal.Router) {
		r.GET("/http", func(c internal.Context) error {
			return fmt.Errorf("wrapped: %w", internal.ErrConflict("busy", internal.WithKind("busy")))
		})
		r.GET("/plain", func(c internal.Context) error {
			return errors.New("secret cause")
		})
	})))

	w := serve(app, http.MethodGet, "/http")
	require.Equal(t, http.StatusConflict, w.Code)
	require.JSONEq(t, `{"status":"error","message":"busy","kind":"busy"}`, w.Body.String())

	w = serve(app, http.MethodGet, "/plain")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "secret cause")
}

func TestApp_CustomHandlers(t *testing.T) {
	t.Parallel()

	var handled error
	app := internal.New(
		internal.WithErrorHandler(func(c internal.Context, err error) error {
			handled = err
			return c.String(http.StatusTeapot, "custom")
		}),
		internal.WithNotFoundHandler(func(c internal.Context) error {
			return internal.ErrNotFound("nothing here")
		}),
		internal.WithMethodNotAllowedHandler(func(c internal.Context) error {
			return c.JSON(http.StatusMethodNotAllowed, map[string]string{"status": "error"})
		}),
		internal.WithHandlers(routesFunc(func(r internal.Router) {
			r.POST("/upload", func(c internal.Context) error {
				return errors.New("boom")
			})
		})),
	)

	w := serve(app, http.MethodPost, "/upload")
	require.Equal(t, http.StatusTeapot, w.Code)
	require.EqualError(t, handled, "boom")

	w = serve(app, http.MethodGet, "/missing")
	require.Equal(t, http.StatusTeapot, w.Code)

	w = serve(app, http.MethodGet, "/upload")
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestApp_ErrorAfterWriteIsIgnored(t *testing.T) {
	t.Parallel()

	app := internal.New(internal.WithHandlers(routesFunc(func(r internal.Router) {
		r.GET("/", func(c internal.Context) error {
			_ = c.String(http.StatusOK, "done")
			return errors.New("late")
		})
	})))

	w := serve(app, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "done", w.Body.String())
}

func TestApp_MiddlewareOrder(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var order []string
	mark := func(name string) internal.Middleware {
		return func(next internal.HandlerFunc) internal.HandlerFunc {
			return func(c internal.Context) error {
				mu.Lock()
				order = append(order, name)
				mu.Unlock()
				c.Set(ctxKey{}, name)
				return next(c)
			}
		}
	}

	var seen any
	app := internal.New(
		internal.WithMiddleware(mark("global-1"), mark("global-2")),
		internal.WithHandlers(routesFunc(func(r internal.Router) {
			r.Group("", func(r internal.Router) {
				r.Use(mark("group"))
				r.GET("/", func(c internal.Context) error {
					seen = c.Get(ctxKey{})
					return c.NoContent(http.StatusNoContent)
				}, mark("route-1"), mark("route-2"))
			})
			r.Group("/api", func(r internal.Router) {
				r.Handle(http.MethodDelete, "/x", func(c internal.Context) error { return c.NoContent(http.StatusNoContent) })
				r.Handle(http.MethodPut, "/x", func(c internal.Context) error { return c.NoContent(http.StatusOK) })
			})
		})),
	)

	w := serve(app, http.MethodGet, "/")
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, []string{"global-1", "global-2", "group", "route-1", "route-2"}, order)
	require.Equal(t, "route-2", seen)

	require.Equal(t, http.StatusNoContent, serve(app, http.MethodDelete, "/api/x").Code)
	require.Equal(t, http.StatusOK, serve(app, http.MethodPut, "/api/x").Code)
}

func TestApp_MiddlewareError(t *testing.T) {
	t.Parallel()

	deny := func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			return internal.ErrServiceUnavailable("draining")
		}
	}
	reached := false
	app := internal.New(
		internal.WithMiddleware(deny),
		internal.WithHandlers(routesFunc(func(r internal.Router) {
			r.GET("/", func(c internal.Context) error {
				reached = true
				return nil
			})
		})),
	)

	w := serve(app, http.MethodGet, "/")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.False(t, reached)
}

func TestApp_HealthChecks(t *testing.T) {
	t.Parallel()

	failing := errors.New("db down")
	app := internal.New(internal.WithHealthChecks(
		internal.WithLivenessPath("/live"),
		internal.WithReadinessCheck("db", func(context.Context) error { return failing }),
		internal.WithReadinessCheck("nil", nil),
	))

	require.Equal(t, http.StatusOK, serve(app, http.MethodGet, "/live").Code)
	require.Equal(t, http.StatusServiceUnavailable, serve(app, http.MethodGet, "/health/ready").Code)

	ok := internal.New(internal.WithHealthChecks(internal.WithReadinessPath("/ready")))
	require.Equal(t, http.StatusOK, serve(ok, http.MethodGet, "/ready").Code)
	require.Equal(t, http.StatusOK, serve(ok, http.MethodGet, "/health/live").Code)
}

type recordingWorker struct {
	mu     sync.Mutex
	events *[]string
	name   string
	err    error
}

func (w *recordingWorker) record(ev string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	*w.events = append(*w.events, w.name+":"+ev)
}

func (w *recordingWorker) Start(context.Context) error {
	w.record("start")
	return w.err
}

func (w *recordingWorker) Stop(context.Context) error {
	w.record("stop")
	return nil
}

func TestApp_RunLifecycle(t *testing.T) {
	t.Parallel()

	var events []string
	worker := &recordingWorker{events: &events, name: "jobs"}
	app := internal.New(internal.WithWorker(worker), internal.WithWorker(nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.Run("127.0.0.1:0",
			internal.WithContext(ctx),
			internal.ShutdownTimeout(time.Second),
			internal.StartupHook(func(context.Context) error {
				worker.record("hook")
				return nil
			}),
			internal.ShutdownHook(func(context.Context) error {
				worker.record("closed")
				return nil
			}),
		)
	}()

	require.Eventually(t, func() bool {
		worker.mu.Lock()
		defer worker.mu.Unlock()
		return len(events) == 2
	}, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	require.Equal(t, []string{"jobs:start", "jobs:hook", "jobs:stop", "jobs:closed"}, events)
}

func TestApp_RunStartupFailure(t *testing.T) {
	t.Parallel()

	var events []string
	boom := errors.New("migrations failed")
	worker := &recordingWorker{events: &events, name: "jobs", err: boom}
	app := internal.New(internal.WithWorker(worker))

	err := app.Run("127.0.0.1:0", internal.WithContext(context.Background()))
	require.ErrorIs(t, err, boom)
	require.Equal(t, []string{"jobs:start"}, events)
}
