package cookievault

import (
	"bytes"
	"encoding/base64"
)

const (
	saltedMagic = "Salted__"
	saltLen     = 8
	headerLen   = len(saltedMagic) + saltLen
)

type bundle struct {
	salt       []byte
	ciphertext []byte
}

// parseBundle decodes a sanitized Base64 string and splits it into salt and
// ciphertext. The returned slices alias the decoded buffer.
func parseBundle(encoded string) (bundle, []byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		// Tolerate bundles written without padding.
		var rawErr error
		raw, rawErr = base64.RawStdEncoding.DecodeString(encoded)
		if rawErr != nil {
			return bundle{}, nil, newError(KindMalformedBundle, "invalid base64", err)
		}
	}
	if len(raw) < headerLen {
		return bundle{}, raw, newError(KindMalformedBundle, "bundle shorter than 16 bytes", nil)
	}
	if !bytes.Equal(raw[:len(saltedMagic)], []byte(saltedMagic)) {
		return bundle{}, raw, newError(KindMalformedBundle, "missing Salted__ header", nil)
	}
	return bundle{
		salt:       raw[len(saltedMagic):headerLen],
		ciphertext: raw[headerLen:],
	}, raw, nil
}

func encodeBundle(salt, ciphertext []byte) string {
	raw := make([]byte, 0, headerLen+len(ciphertext))
	raw = append(raw, saltedMagic...)
	raw = append(raw, salt...)
	raw = append(raw, ciphertext...)
	return base64.StdEncoding.EncodeToString(raw)
}
