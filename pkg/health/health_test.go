package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("no checks is healthy", func(t *testing.T) {
		t.Parallel()

		resp := Run(context.Background(), nil)
		require.Equal(t, StatusHealthy, resp.Status)
		require.NoError(t, resp.Err())
	})

	t.Run("one failing check marks the response unhealthy", func(t *testing.T) {
		t.Parallel()

		resp := Run(context.Background(), Checks{
			"redis": func(context.Context) error { return nil },
			"db":    func(context.Context) error { return errors.New("connection refused") },
		})
		require.Equal(t, StatusUnhealthy, resp.Status)
		require.ErrorIs(t, resp.Err(), ErrCheckFailed)
		require.Equal(t, StatusHealthy, resp.Checks["redis"].Status)
		require.Equal(t, StatusUnhealthy, resp.Checks["db"].Status)
		require.Equal(t, "connection refused", resp.Checks["db"].Error)
	})

	t.Run("slow check times out", func(t *testing.T) {
		t.Parallel()

		resp := Run(context.Background(), Checks{
			"browser": func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
		}, WithTimeout(20*time.Millisecond))
		require.Equal(t, StatusUnhealthy, resp.Status)
		require.Contains(t, resp.Checks["browser"].Error, ErrCheckTimeout.Error())
	})
}

func TestReadinessHandler(t *testing.T) {
	t.Parallel()

	t.Run("failing check", func(t *testing.T) {
		t.Parallel()

		checks := Checks{"db": func(context.Context) error { return errors.New("down") }}
		rec := httptest.NewRecorder()
		ReadinessHandler(checks)(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		var resp Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, StatusUnhealthy, resp.Status)
		require.Equal(t, "down", resp.Checks["db"].Error)
	})

	t.Run("all passing", func(t *testing.T) {
		t.Parallel()

		checks := Checks{"redis": func(context.Context) error { return nil }}
		rec := httptest.NewRecorder()
		ReadinessHandler(checks)(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, StatusHealthy, resp.Status)
		require.Equal(t, StatusHealthy, resp.Checks["redis"].Status)
	})
}

func TestLivenessHandler(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}
