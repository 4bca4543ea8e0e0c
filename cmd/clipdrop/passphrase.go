package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

var errPassphraseMismatch = errors.New("passphrases do not match")

// passphrase returns the password from the environment or, when it is
// empty, prompts on the terminal. With confirm set the user types it twice.
func passphrase(fromEnv string, confirm bool) (string, error) {
	if strings.TrimSpace(fromEnv) != "" {
		return fromEnv, nil
	}

	first, err := readPassword("Cookie password: ")
	if err != nil {
		return "", err
	}
	defer clear(first)

	if confirm {
		second, err := readPassword("Repeat password: ")
		if err != nil {
			return "", err
		}
		defer clear(second)
		if !bytes.Equal(first, second) {
			return "", errPassphraseMismatch
		}
	}
	return string(first), nil
}

// readPassword reads without echo from stdin, or from /dev/tty when stdin
// is piped.
func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		return term.ReadPassword(fd)
	}

	tty, err := os.Open("/dev/tty")
	if err != nil {
		return nil, fmt.Errorf("stdin is not a terminal; set COOKIE_PASSWORD: %w", err)
	}
	defer tty.Close()
	return term.ReadPassword(int(tty.Fd()))
}
