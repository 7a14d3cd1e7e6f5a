package postgres

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/andina-labs/cierre-core/internal/core/ports/driven"
)

const (
	// secretVersion is the version byte for the encrypted blob format.
	// This allows future format changes while maintaining backward compatibility.
	secretVersion = 0x01

	// nonceSize is the AES-GCM nonce size (12 bytes is standard)
	nonceSize = 12

	// keySize is the required key size for AES-256
	keySize = 32
)

// ErrInvalidKeySize is returned when the encryption key is not 32 bytes.
var ErrInvalidKeySize = errors.New("encryption key must be 32 bytes")

// Verify interface compliance
var _ driven.SecretCipher = (*SecretCipher)(nil)

// SecretCipher encrypts API keys with AES-256-GCM before they reach the
// connections table. The blob format is: version(1) || nonce(12) || ciphertext.
//
// Decryption is deliberately infallible at the type level: any blob that is
// too short, has an unknown version, or fails authentication decrypts to the
// empty string, which callers treat as a missing credential.
type SecretCipher struct {
	gcm cipher.AEAD
}

// NewSecretCipher creates a cipher with the given 32-byte key.
func NewSecretCipher(key []byte) (*SecretCipher, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create AES cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	return &SecretCipher{gcm: gcm}, nil
}

// EncryptString encrypts a plaintext secret to a blob.
func (c *SecretCipher) EncryptString(s string) ([]byte, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext := c.gcm.Seal(nil, nonce, []byte(s), nil)

	blob := make([]byte, 1+nonceSize+len(ciphertext))
	blob[0] = secretVersion
	copy(blob[1:1+nonceSize], nonce)
	copy(blob[1+nonceSize:], ciphertext)

	return blob, nil
}

// DecryptString decrypts a blob produced by EncryptString. Malformed or
// tampered blobs, and blobs encrypted under a different key, yield "".
func (c *SecretCipher) DecryptString(blob []byte) string {
	minSize := 1 + nonceSize + c.gcm.Overhead()
	if len(blob) < minSize {
		return ""
	}
	if blob[0] != secretVersion {
		return ""
	}

	nonce := blob[1 : 1+nonceSize]
	ciphertext := blob[1+nonceSize:]

	plaintext, err := c.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return ""
	}
	return string(plaintext)
}
