package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"github.com/dmitrymomot/clipdrop/pkg/cookievault"
)

var sealFlags = []cli.Flag{
	cli.StringFlag{Name: "in, i", Usage: "cookie JSON export to encrypt", Required: true},
	cli.StringFlag{Name: "out, o", Usage: "bundle file to write; stdout when empty"},
}

var inspectFlags = []cli.Flag{
	cli.StringFlag{Name: "in, i", Usage: "bundle file; COOKIES_FILE when empty"},
}

var errNoBundle = errors.New("no bundle: pass --in or set COOKIES_FILE")

func seal(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	password, err := passphrase(cfg.Cookies.Password, true)
	if err != nil {
		return err
	}
	cfg.Cookies.Password = password

	return sealFile(afero.NewOsFs(), c.String("in"), c.String("out"), cfg.Cookies, os.Stdout)
}

// sealFile encrypts the cookie export at in and writes the bundle to out,
// or to stdout when out is empty. The export must parse as cookies.
func sealFile(fs afero.Fs, in, out string, cfg cookievault.Config, stdout io.Writer) error {
	plaintext, err := afero.ReadFile(fs, in)
	if err != nil {
		return fmt.Errorf("read %s: %w", in, err)
	}
	defer clear(plaintext)

	cookies, err := cookievault.ParseCookies(plaintext)
	if err != nil {
		return err
	}
	clearValues(cookies)

	bundle, err := cookievault.Seal(plaintext, cfg)
	if err != nil {
		return err
	}

	if out == "" {
		_, err = fmt.Fprintln(stdout, bundle)
		return err
	}
	if err := afero.WriteFile(fs, out, []byte(bundle+"\n"), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(os.Stderr, "sealed %d cookies into %s\n", len(cookies), out)
	return nil
}

func inspect(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	password, err := passphrase(cfg.Cookies.Password, false)
	if err != nil {
		return err
	}
	cfg.Cookies.Password = password

	return inspectFile(afero.NewOsFs(), c.String("in"), cfg.Cookies, os.Stdout)
}

// inspectFile decrypts the bundle at in, or cfg.Bundle when in is empty,
// and lists cookie names and domains.
func inspectFile(fs afero.Fs, in string, cfg cookievault.Config, w io.Writer) error {
	if in != "" {
		data, err := afero.ReadFile(fs, in)
		if err != nil {
			return fmt.Errorf("read %s: %w", in, err)
		}
		cfg.Bundle = string(data)
	}
	if cfg.Bundle == "" {
		return errNoBundle
	}

	cookies, err := cookievault.Decrypt(cfg)
	if err != nil {
		return err
	}
	defer clearValues(cookies)

	return listCookies(w, cookies)
}

// listCookies writes one line per cookie. Values are never printed.
func listCookies(w io.Writer, cookies []cookievault.Cookie) error {
	for _, c := range cookies {
		expiry := "session"
		if !c.IsSession() {
			expiry = "persistent"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, c.Domain, expiry); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d cookies\n", len(cookies))
	return err
}

func clearValues(cookies []cookievault.Cookie) {
	for i := range cookies {
		cookies[i].Value = ""
	}
}
