package browser

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/clipdrop/pkg/cookievault"
)

func TestToCookieParams(t *testing.T) {
	t.Parallel()

	cookies := []cookievault.Cookie{
		{Name: "sessionid", Value: "abc", Domain: ".tiktok.com", Path: "/", SameSite: "Lax", Expires: 1767225600.5, HTTPOnly: true, Secure: true},
		{Name: "tt_csrf", Value: "x", Domain: "www.tiktok.com", SameSite: "no_restriction"},
		{Name: "orphan", Value: "y"},
		{Name: "strict", Value: "z", Domain: "tiktok.com", SameSite: "STRICT", Expires: -1},
		{Name: "odd", Value: "w", Domain: "tiktok.com", SameSite: "unspecified"},
	}

	params, skipped := ToCookieParams(cookies)
	require.Equal(t, []string{"orphan"}, skipped)
	require.Len(t, params, 4)

	first := params[0]
	require.Equal(t, "sessionid", first.Name)
	require.Equal(t, ".tiktok.com", first.Domain)
	require.Equal(t, network.CookieSameSiteLax, first.SameSite)
	require.True(t, first.HTTPOnly)
	require.True(t, first.Secure)
	require.NotNil(t, first.Expires)
	exp := first.Expires.Time()
	require.Equal(t, int64(1767225600), exp.Unix())
	require.Equal(t, 500*time.Millisecond, time.Duration(exp.Nanosecond()))

	second := params[1]
	require.Equal(t, "/", second.Path)
	require.Equal(t, network.CookieSameSiteNone, second.SameSite)
	require.True(t, second.Secure, "SameSite=None forces Secure")
	require.Nil(t, second.Expires)

	require.Equal(t, network.CookieSameSiteStrict, params[2].SameSite)
	require.Nil(t, params[2].Expires)

	require.Empty(t, params[3].SameSite)
}

func TestToCookieParams_Empty(t *testing.T) {
	t.Parallel()

	params, skipped := ToCookieParams(nil)
	require.Empty(t, params)
	require.Empty(t, skipped)
}

func TestAllocatorOptions(t *testing.T) {
	t.Parallel()

	base := len(allocatorOptions(Config{}))
	full := len(allocatorOptions(Config{NoSandbox: true, UserAgent: "ua", ExecPath: "/usr/bin/chromium"}))
	require.Equal(t, base+4, full)
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bin := filepath.Join(dir, "chrome")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755))

	require.NoError(t, Healthcheck(Config{ExecPath: bin})(context.Background()))
	require.ErrorIs(t, Healthcheck(Config{ExecPath: dir})(context.Background()), ErrBrowserNotFound)
	require.ErrorIs(t, Healthcheck(Config{ExecPath: filepath.Join(dir, "missing")})(context.Background()), ErrBrowserNotFound)
}

func TestSession_Sleep(t *testing.T) {
	t.Parallel()

	s := &Session{ctx: context.Background()}
	require.NoError(t, s.Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.Sleep(ctx, time.Hour), context.Canceled)

	closed, closeSession := context.WithCancel(context.Background())
	closeSession()
	s = &Session{ctx: closed}
	require.ErrorIs(t, s.Sleep(context.Background(), time.Hour), ErrSessionClosed)
}
