// Package cookievault decrypts browser cookie bundles produced by
// `openssl enc -aes-256-cbc -salt -base64`.
//
// A bundle is the Base64 encoding of
//
//	"Salted__" || salt[8] || AES-256-CBC(ciphertext, PKCS#7 padded)
//
// The 32-byte key and the 16-byte IV are derived from the passphrase and the
// salt by one of two key derivation functions:
//
//   - [KDFPBKDF2] (default): PBKDF2-HMAC with a configurable digest and
//     iteration count. Matches `openssl enc -pbkdf2 -iter N -md <digest>`.
//   - [KDFLegacy]: the MD5 chain of OpenSSL's EVP_BytesToKey with a single
//     round. Matches `openssl enc` without `-pbkdf2`. Weak against offline
//     brute force and only available when selected explicitly.
//
// The mode is never guessed. A bundle sealed with one mode and opened with
// the other fails with [ErrDecryptionFailed] or [ErrPayloadCorrupt].
//
// # Usage
//
//	cookies, err := cookievault.Decrypt(cookievault.Config{
//		Bundle:   string(raw),
//		Password: os.Getenv("COOKIE_PASSWORD"),
//	})
//	if err != nil {
//		switch cookievault.KindOf(err) {
//		case cookievault.KindMissingCredential:
//			// configuration problem
//		case cookievault.KindDecryptionFailed, cookievault.KindPayloadCorrupt:
//			// wrong password or KDF settings
//		}
//	}
//
// [Seal] produces bundles in the same format, for tooling and tests.
//
// # Errors
//
// Every failure of [Decrypt] is an [*Error] carrying one [Kind]. The error
// matches the sentinel for its kind with [errors.Is]:
//
//   - [ErrMissingCredential] - empty bundle or password
//   - [ErrMalformedBundle] - bad Base64, short input or missing Salted__ header
//   - [ErrDecryptionFailed] - ciphertext not block aligned or bad padding
//   - [ErrPayloadCorrupt] - plaintext is not UTF-8 JSON cookies
//
// Invalid KDF settings are reported as [ErrInvalidConfig] before any
// decryption is attempted. Error messages never contain the passphrase, the
// derived key or the plaintext.
package cookievault
