package cookievault

import (
	"crypto/rand"
	"errors"
	"io"
	"log/slog"
	"strings"
)

// Option configures Decrypt.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for diagnostics. Only the bundle length
// and its first characters are ever logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

const logPrefixLen = 8

// Decrypt runs the full pipeline on cfg: sanitize, parse the bundle, derive
// the key, decrypt and parse the cookie JSON. It performs no I/O and keeps no
// state between calls. Any failure is an *Error and no cookies are returned.
func Decrypt(cfg Config, opts ...Option) ([]Cookie, error) {
	o := &options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(o)
	}

	plaintext, err := open(cfg, o.logger)
	if err != nil {
		o.logger.Warn("cookie bundle decryption failed", "kind", string(KindOf(err)), "error", err)
		return nil, err
	}
	defer clear(plaintext)

	cookies, err := parsePayload(plaintext)
	if err != nil {
		o.logger.Warn("cookie bundle decryption failed", "kind", string(KindOf(err)), "error", err)
		return nil, err
	}
	o.logger.Debug("cookie bundle decrypted", "cookies", len(cookies))
	return cookies, nil
}

// open returns the decrypted plaintext of cfg.Bundle.
func open(cfg Config, logger *slog.Logger) ([]byte, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	encoded := Sanitize(cfg.Bundle)
	logger.Debug("decrypting cookie bundle",
		"length", len(encoded),
		"prefix", prefix(encoded, logPrefixLen),
		"kdf", string(cfg.KDF),
	)
	if encoded == "" {
		return nil, newError(KindMissingCredential, "cookie bundle is empty", nil)
	}
	if strings.TrimSpace(cfg.Password) == "" {
		return nil, newError(KindMissingCredential, "password is empty", nil)
	}

	b, raw, err := parseBundle(encoded)
	defer clear(raw)
	if err != nil {
		return nil, err
	}

	material, err := DeriveKeyMaterial(cfg.Password, b.salt, cfg)
	if err != nil {
		return nil, err
	}
	defer clear(material)

	key, iv := splitKeyMaterial(material)
	return decryptCBC(b.ciphertext, key, iv)
}

// Seal encrypts plaintext with cfg.Password under cfg's KDF settings and a
// random salt, and returns the Base64 bundle. The output is readable by
// `openssl enc -d -aes-256-cbc -base64 -A` with matching KDF flags.
func Seal(plaintext []byte, cfg Config) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}
	return seal(plaintext, salt, cfg)
}

func seal(plaintext, salt []byte, cfg Config) (string, error) {
	if strings.TrimSpace(cfg.Password) == "" {
		return "", newError(KindMissingCredential, "password is empty", nil)
	}
	if len(salt) != saltLen {
		return "", errors.New("cookievault: salt must be 8 bytes")
	}
	material, err := DeriveKeyMaterial(cfg.Password, salt, cfg)
	if err != nil {
		return "", err
	}
	defer clear(material)

	key, iv := splitKeyMaterial(material)
	ciphertext, err := encryptCBC(plaintext, key, iv)
	if err != nil {
		return "", err
	}
	return encodeBundle(salt, ciphertext), nil
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
