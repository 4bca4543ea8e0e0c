package cookievault

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"strings"
)

// KDF selects the key derivation function.
type KDF string

const (
	KDFPBKDF2 KDF = "pbkdf2"
	KDFLegacy KDF = "legacy"
)

// Digest selects the hash used by PBKDF2.
type Digest string

const (
	DigestMD5    Digest = "md5"
	DigestSHA1   Digest = "sha1"
	DigestSHA256 Digest = "sha256"
	DigestSHA512 Digest = "sha512"
)

const (
	DefaultKDF        = KDFPBKDF2
	DefaultIterations = 100000
	DefaultDigest     = DigestSHA256
)

// Config is the complete input of Decrypt.
// Zero KDF, Iterations and Digest fall back to the defaults
// (pbkdf2, 100000, sha256).
type Config struct {
	Bundle     string `env:"COOKIES_FILE"`
	Password   string `env:"COOKIE_PASSWORD"`
	KDF        KDF    `env:"COOKIE_KDF" envDefault:"pbkdf2"`
	Digest     Digest `env:"COOKIE_KDF_DIGEST" envDefault:"sha256"`
	Iterations int    `env:"COOKIE_KDF_ITERATIONS" envDefault:"100000"`
}

// normalize returns c with zero settings filled in and the KDF and digest
// names in canonical form. Everything downstream compares canonical values
// only.
func (c Config) normalize() (Config, error) {
	kdf, err := ParseKDF(string(c.KDF))
	if err != nil {
		return c, err
	}
	c.KDF = kdf
	if kdf == KDFLegacy {
		return c, nil
	}

	if c.Digest, err = ParseDigest(string(c.Digest)); err != nil {
		return c, err
	}
	if c.Iterations == 0 {
		c.Iterations = DefaultIterations
	}
	if c.Iterations < 1 {
		return c, errors.Join(ErrInvalidConfig, fmt.Errorf("iterations must be >= 1, got %d", c.Iterations))
	}
	return c, nil
}

// Validate checks the KDF settings. Bundle and password are checked by
// Decrypt, since their absence is a credential problem rather than a
// configuration one.
func (c Config) Validate() error {
	_, err := c.normalize()
	return err
}

// ParseKDF parses a KDF name, case-insensitively. "openssl" and
// "evp_bytestokey" are accepted as aliases of legacy.
func ParseKDF(s string) (KDF, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(KDFPBKDF2):
		return KDFPBKDF2, nil
	case string(KDFLegacy), "openssl", "evp_bytestokey":
		return KDFLegacy, nil
	}
	return "", errors.Join(ErrInvalidConfig, fmt.Errorf("unknown kdf %q", s))
}

// ParseDigest parses a digest name such as "sha256" or "SHA-256".
func ParseDigest(s string) (Digest, error) {
	d := Digest(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", ""))
	if d == "" {
		return DefaultDigest, nil
	}
	if _, err := d.hash(); err != nil {
		return "", err
	}
	return d, nil
}

// UnmarshalText stores the canonical name of a known KDF. Unknown names
// are kept as given and reported by Validate.
func (k *KDF) UnmarshalText(b []byte) error {
	*k = KDF(b)
	if v, err := ParseKDF(string(b)); err == nil {
		*k = v
	}
	return nil
}

// UnmarshalText stores the canonical name of a known digest. Unknown names
// are kept as given and reported by Validate.
func (d *Digest) UnmarshalText(b []byte) error {
	*d = Digest(b)
	if v, err := ParseDigest(string(b)); err == nil {
		*d = v
	}
	return nil
}

func (d Digest) hash() (func() hash.Hash, error) {
	switch d {
	case DigestMD5:
		return md5.New, nil
	case DigestSHA1:
		return sha1.New, nil
	case DigestSHA256:
		return sha256.New, nil
	case DigestSHA512:
		return sha512.New, nil
	}
	return nil, errors.Join(ErrInvalidConfig, fmt.Errorf("unknown digest %q", string(d)))
}
