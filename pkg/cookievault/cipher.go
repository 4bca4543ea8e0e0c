package cookievault

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// decryptCBC decrypts ciphertext with AES-256-CBC and strips PKCS#7
// padding. The input is not modified.
func decryptCBC(ciphertext, key, iv []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, newError(KindDecryptionFailed,
			fmt.Sprintf("ciphertext length %d is not a multiple of %d", len(ciphertext), aes.BlockSize), nil)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, newError(KindDecryptionFailed, "init cipher", err)
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)

	plain, err := unpad(out)
	if err != nil {
		clear(out)
		return nil, err
	}
	return plain, nil
}

func unpad(b []byte) ([]byte, error) {
	n := int(b[len(b)-1])
	if n < 1 || n > aes.BlockSize || n > len(b) {
		return nil, newError(KindDecryptionFailed, "invalid padding length", nil)
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, newError(KindDecryptionFailed, "invalid padding bytes", nil)
		}
	}
	return b[:len(b)-n], nil
}

func encryptCBC(plaintext, key, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	n := aes.BlockSize - len(plaintext)%aes.BlockSize
	out := make([]byte, len(plaintext)+n)
	copy(out, plaintext)
	for i := len(plaintext); i < len(out); i++ {
		out[i] = byte(n)
	}
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, out)
	return out, nil
}
