package cookievault

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

// Cookie is one entry of the decrypted payload.
// Expires is in Unix seconds; zero or negative marks a session cookie.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	SameSite string  `json:"sameSite,omitempty"`
	Expires  float64 `json:"expires,omitempty"`
	HTTPOnly bool    `json:"httpOnly,omitempty"`
	Secure   bool    `json:"secure,omitempty"`
}

// UnmarshalJSON also accepts the "expirationDate" field written by browser
// extension exports.
func (c *Cookie) UnmarshalJSON(data []byte) error {
	type plain Cookie
	aux := struct {
		*plain
		ExpirationDate *float64 `json:"expirationDate"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if c.Expires == 0 && aux.ExpirationDate != nil {
		c.Expires = *aux.ExpirationDate
	}
	return nil
}

// IsSession reports whether the cookie has no expiry.
func (c Cookie) IsSession() bool {
	return c.Expires <= 0
}

// ParseCookies decodes a plaintext cookie export in any format a bundle
// payload may use. Sealing tools call it before encrypting.
func ParseCookies(plaintext []byte) ([]Cookie, error) {
	return parsePayload(plaintext)
}

// parsePayload decodes plaintext as a JSON array of cookies, or as a storage
// state object with a "cookies" array. Order is preserved.
func parsePayload(plaintext []byte) ([]Cookie, error) {
	if !utf8.Valid(plaintext) {
		return nil, newError(KindPayloadCorrupt, "plaintext is not valid UTF-8", nil)
	}

	trimmed := bytes.TrimSpace(plaintext)
	var cookies []Cookie
	switch {
	case len(trimmed) > 0 && trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &cookies); err != nil {
			return nil, jsonError(err)
		}
	case len(trimmed) > 0 && trimmed[0] == '{':
		var state struct {
			Cookies *[]Cookie `json:"cookies"`
		}
		if err := json.Unmarshal(trimmed, &state); err != nil {
			return nil, jsonError(err)
		}
		if state.Cookies == nil {
			return nil, newError(KindPayloadCorrupt, `object payload has no "cookies" array`, nil)
		}
		cookies = *state.Cookies
	default:
		return nil, newError(KindPayloadCorrupt, "plaintext is not a JSON array or object", nil)
	}

	for i, c := range cookies {
		if c.Name == "" {
			return nil, newError(KindPayloadCorrupt, fmt.Sprintf("cookie #%d has no name", i), nil)
		}
	}
	if cookies == nil {
		cookies = []Cookie{}
	}
	return cookies, nil
}

// jsonError reports the position of a JSON error without echoing any of the
// plaintext it was parsing.
func jsonError(err error) *Error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return newError(KindPayloadCorrupt, fmt.Sprintf("invalid JSON at offset %d", syntaxErr.Offset), nil)
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return newError(KindPayloadCorrupt,
			fmt.Sprintf("unexpected %s for field %q at offset %d", typeErr.Value, typeErr.Field, typeErr.Offset), nil)
	}
	return newError(KindPayloadCorrupt, "invalid JSON", nil)
}
