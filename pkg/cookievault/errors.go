package cookievault

import (
	"errors"
	"strings"
)

// Kind classifies a decryption failure.
type Kind string

const (
	KindMissingCredential Kind = "missing_credential"
	KindMalformedBundle   Kind = "malformed_bundle"
	KindDecryptionFailed  Kind = "decryption_failed"
	KindPayloadCorrupt    Kind = "payload_corrupt"
)

var (
	ErrMissingCredential = errors.New("cookievault: missing credential")
	ErrMalformedBundle   = errors.New("cookievault: malformed bundle")
	ErrDecryptionFailed  = errors.New("cookievault: decryption failed")
	ErrPayloadCorrupt    = errors.New("cookievault: payload corrupt")
	ErrInvalidConfig     = errors.New("cookievault: invalid kdf config")
)

// Error is the failure returned by Decrypt.
// Msg is safe to log and to return to clients.
type Error struct {
	Err  error
	Kind Kind
	Msg  string
}

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.sentinel().Error())
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.sentinel()}
	}
	return []error{e.sentinel(), e.Err}
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindMissingCredential:
		return ErrMissingCredential
	case KindMalformedBundle:
		return ErrMalformedBundle
	case KindDecryptionFailed:
		return ErrDecryptionFailed
	default:
		return ErrPayloadCorrupt
	}
}

// KindOf returns the failure kind carried by err, or "" when err was not
// produced by this package's decryption pipeline.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
