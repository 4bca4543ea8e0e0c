package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/clipdrop/pkg/cookievault"
)

const export = `[
	{"name":"sessionid","value":"top-secret-session","domain":".tiktok.com","path":"/","expires":1900000000},
	{"name":"tt_csrf","value":"csrf-value","domain":"www.tiktok.com","path":"/"}
]`

func testVault() cookievault.Config {
	return cookievault.Config{Password: "correct horse", Iterations: 1000}
}

func TestSealAndInspect(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "cookies.json", []byte(export), 0o600))

	require.NoError(t, sealFile(fs, "cookies.json", "cookies.enc", testVault(), &bytes.Buffer{}))

	bundle, err := afero.ReadFile(fs, "cookies.enc")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(bundle), "U2FsdGVkX1"), "bundle starts with the Salted__ magic")
	require.NotContains(t, string(bundle), "sessionid")

	var out bytes.Buffer
	require.NoError(t, inspectFile(fs, "cookies.enc", testVault(), &out))

	listing := out.String()
	require.Contains(t, listing, "sessionid\t.tiktok.com\tpersistent")
	require.Contains(t, listing, "tt_csrf\twww.tiktok.com\tsession")
	require.Contains(t, listing, "2 cookies")
	require.NotContains(t, listing, "top-secret-session")
	require.NotContains(t, listing, "csrf-value")
}

func TestSealFile_Stdout(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "cookies.json", []byte(export), 0o600))

	var out bytes.Buffer
	require.NoError(t, sealFile(fs, "cookies.json", "", testVault(), &out))

	cfg := testVault()
	cfg.Bundle = out.String()
	cookies, err := cookievault.Decrypt(cfg)
	require.NoError(t, err)
	require.Len(t, cookies, 2)
	require.Equal(t, "top-secret-session", cookies[0].Value)
}

func TestSealFile_RejectsNonCookieInput(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "notes.txt", []byte("not json"), 0o600))

	err := sealFile(fs, "notes.txt", "out.enc", testVault(), &bytes.Buffer{})
	require.Error(t, err)

	exists, err := afero.Exists(fs, "out.enc")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestInspectFile_Errors(t *testing.T) {
	t.Parallel()

	t.Run("no bundle", func(t *testing.T) {
		t.Parallel()
		err := inspectFile(afero.NewMemMapFs(), "", testVault(), &bytes.Buffer{})
		require.ErrorIs(t, err, errNoBundle)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		err := inspectFile(afero.NewMemMapFs(), "nope.enc", testVault(), &bytes.Buffer{})
		require.Error(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "cookies.json", []byte(export), 0o600))
		require.NoError(t, sealFile(fs, "cookies.json", "cookies.enc", testVault(), &bytes.Buffer{}))

		wrong := testVault()
		wrong.Password = "battery staple"
		var out bytes.Buffer
		err := inspectFile(fs, "cookies.enc", wrong, &out)
		require.Error(t, err)
		require.Empty(t, out.String())
	})
}
