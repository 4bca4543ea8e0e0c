package main

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/clipdrop/pkg/cookievault"
)

func TestParseConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := parseConfig(env.Options{Environment: map[string]string{}})
	require.NoError(t, err)

	require.Equal(t, ":3000", cfg.address())
	require.Equal(t, "UK", cfg.Region)
	require.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	require.False(t, cfg.VerifyCookies)

	require.Equal(t, cookievault.KDFPBKDF2, cfg.Cookies.KDF)
	require.Equal(t, cookievault.DigestSHA256, cfg.Cookies.Digest)
	require.Equal(t, 100000, cfg.Cookies.Iterations)
	require.Empty(t, cfg.Cookies.Bundle)

	require.Equal(t, 1, cfg.Uploads.MaxConcurrent)
	require.Equal(t, 2200, cfg.Uploads.CaptionMaxLength)
	require.Equal(t, "https://www.tiktok.com/upload", cfg.Publisher.PageURL)
	require.True(t, cfg.Browser.Headless)
	require.False(t, cfg.DB.Enabled())
	require.Empty(t, cfg.Redis.URL)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestParseConfig_Environment(t *testing.T) {
	t.Parallel()

	cfg, err := parseConfig(env.Options{Environment: map[string]string{
		"PORT":                   "8080",
		"REGION":                 "US",
		"COOKIES_FILE":           "U2FsdGVkX18=",
		"COOKIE_PASSWORD":        "secret",
		"COOKIE_KDF_ITERATIONS":  "1",
		"COOKIE_KDF_DIGEST":      "md5",
		"COOKIE_VERIFY_ON_START": "true",
		"MAX_CONCURRENT_UPLOADS": "3",
		"DATABASE_URL":           "postgres://localhost/clipdrop",
	}})
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.address())
	require.Equal(t, "US", cfg.Region)
	require.Equal(t, "U2FsdGVkX18=", cfg.Cookies.Bundle)
	require.Equal(t, "secret", cfg.Cookies.Password)
	require.Equal(t, 1, cfg.Cookies.Iterations)
	require.Equal(t, cookievault.DigestMD5, cfg.Cookies.Digest)
	require.True(t, cfg.VerifyCookies)
	require.Equal(t, 3, cfg.Uploads.MaxConcurrent)
	require.True(t, cfg.DB.Enabled())
}

func TestParseConfig_InvalidKDF(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown kdf", env: map[string]string{"COOKIE_KDF": "scrypt"}},
		{name: "unknown digest", env: map[string]string{"COOKIE_KDF_DIGEST": "sha3"}},
		{name: "negative iterations", env: map[string]string{"COOKIE_KDF_ITERATIONS": "-5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := parseConfig(env.Options{Environment: tt.env})
			require.ErrorIs(t, err, cookievault.ErrInvalidConfig)
		})
	}
}

func TestParseConfig_KDFNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		env        map[string]string
		wantKDF    cookievault.KDF
		wantDigest cookievault.Digest
	}{
		{name: "upper case legacy", env: map[string]string{"COOKIE_KDF": "LEGACY"}, wantKDF: cookievault.KDFLegacy, wantDigest: cookievault.DigestSHA256},
		{name: "openssl alias", env: map[string]string{"COOKIE_KDF": "openssl"}, wantKDF: cookievault.KDFLegacy, wantDigest: cookievault.DigestSHA256},
		{name: "dashed digest", env: map[string]string{"COOKIE_KDF_DIGEST": "SHA-256"}, wantKDF: cookievault.KDFPBKDF2, wantDigest: cookievault.DigestSHA256},
		{name: "upper case sha512", env: map[string]string{"COOKIE_KDF": "PBKDF2", "COOKIE_KDF_DIGEST": "SHA512"}, wantKDF: cookievault.KDFPBKDF2, wantDigest: cookievault.DigestSHA512},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := parseConfig(env.Options{Environment: tt.env})
			require.NoError(t, err)
			require.Equal(t, tt.wantKDF, cfg.Cookies.KDF)
			require.Equal(t, tt.wantDigest, cfg.Cookies.Digest)
		})
	}
}

func TestParseConfig_LockOutlivesUpload(t *testing.T) {
	t.Parallel()

	cfg, err := parseConfig(env.Options{Environment: map[string]string{}})
	require.NoError(t, err)
	require.Equal(t, 10*time.Minute, cfg.uploadTimeout())
	require.Equal(t, 15*time.Minute, cfg.Uploads.LockTTL)

	cfg, err = parseConfig(env.Options{Environment: map[string]string{
		"UPLOAD_LOCK_TTL":        "10m",
		"BROWSER_TIMEOUT":        "8m",
		"VIDEO_DOWNLOAD_TIMEOUT": "4m",
	}})
	require.NoError(t, err)
	require.Equal(t, 13*time.Minute, cfg.Uploads.LockTTL)
}
