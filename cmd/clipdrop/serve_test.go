package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/clipdrop/handlers"
	"github.com/dmitrymomot/clipdrop/pkg/logger"
)

func TestBuild_Standalone(t *testing.T) {
	t.Parallel()

	cfg, err := parseConfig(env.Options{Environment: map[string]string{
		"REGION":   "DE",
		"TEMP_DIR": t.TempDir(),
	}})
	require.NoError(t, err)

	app, plan, err := build(context.Background(), cfg, logger.NewNope())
	require.NoError(t, err)
	require.Empty(t, plan.cleanup)
	require.Len(t, plan.startup, 1, "temp sweep runs at start without a database")
	require.NotEmpty(t, plan.options(cfg, logger.NewNope()))

	call := func(method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		app.ServeHTTP(w, req)

		var m map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &m)
		return w, m
	}

	t.Run("banner", func(t *testing.T) {
		t.Parallel()
		w, _ := call(http.MethodGet, "/", "")
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, handlers.BannerText, w.Body.String())
	})

	t.Run("liveness", func(t *testing.T) {
		t.Parallel()
		w, _ := call(http.MethodGet, "/health/live", "")
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("async without database", func(t *testing.T) {
		t.Parallel()
		w, body := call(http.MethodPost, "/upload", `{"video_url":"https://cdn.example.com/v.mp4","async":true}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "queue_disabled", body["kind"])
		require.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("missing cookies fail before download", func(t *testing.T) {
		t.Parallel()
		w, body := call(http.MethodPost, "/upload", `{"video_url":"https://cdn.example.com/v.mp4"}`)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.Equal(t, "error", body["status"])
		require.Equal(t, "missing_credential", body["kind"])
	})

	t.Run("history disabled", func(t *testing.T) {
		t.Parallel()
		w, _ := call(http.MethodGet, "/uploads/"+uuid.NewString(), "")
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestVerifyCookies(t *testing.T) {
	t.Parallel()

	err := verifyCookies(testVault(), logger.NewNope())(context.Background())
	require.Error(t, err, "an empty bundle must stop the start")
}
