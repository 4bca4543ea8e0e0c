package cookievault

import (
	"crypto/aes"
	"crypto/md5"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keyLen      = 32
	ivLen       = aes.BlockSize
	materialLen = keyLen + ivLen
)

// DeriveKeyMaterial returns the 48 bytes of key material for password and
// salt under cfg: the AES-256 key followed by the CBC IV.
// The caller owns the returned slice and should clear it after use.
func DeriveKeyMaterial(password string, salt []byte, cfg Config) ([]byte, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	if cfg.KDF == KDFLegacy {
		return bytesToKey([]byte(password), salt, materialLen), nil
	}
	h, err := cfg.Digest.hash()
	if err != nil {
		return nil, err
	}
	return pbkdf2.Key([]byte(password), salt, cfg.Iterations, materialLen, h), nil
}

// bytesToKey is OpenSSL's EVP_BytesToKey with MD5 and one round:
// D_i = MD5(D_{i-1} || password || salt), concatenated until n bytes.
func bytesToKey(password, salt []byte, n int) []byte {
	out := make([]byte, 0, n+md5.Size)
	var prev [md5.Size]byte
	for i := 0; len(out) < n; i++ {
		buf := make([]byte, 0, md5.Size+len(password)+len(salt))
		if i > 0 {
			buf = append(buf, prev[:]...)
		}
		buf = append(buf, password...)
		buf = append(buf, salt...)
		prev = md5.Sum(buf)
		clear(buf)
		out = append(out, prev[:]...)
	}
	return out[:n]
}

func splitKeyMaterial(m []byte) (key, iv []byte) {
	return m[:keyLen], m[keyLen:materialLen]
}
