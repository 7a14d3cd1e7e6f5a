package driven

// SecretCipher encrypts API keys at rest and decrypts them for use.
type SecretCipher interface {
	// EncryptString encrypts a plaintext secret to an opaque blob.
	EncryptString(s string) ([]byte, error)

	// DecryptString decrypts a blob produced by EncryptString. A blob that
	// is malformed, tampered with, or encrypted under a different key
	// yields the empty string, never an error: callers treat "" as a
	// missing credential.
	DecryptString(blob []byte) string
}
