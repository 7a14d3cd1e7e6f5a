package mocks

import "strings"

// MockSecretCipher is a mock implementation of SecretCipher for testing.
// It "encrypts" by prefixing the plaintext, so tests can both read blobs
// and hand-craft invalid ones.
type MockSecretCipher struct {
	EncryptStringFn func(s string) ([]byte, error)
	DecryptStringFn func(blob []byte) string
}

const mockCipherPrefix = "enc:"

func NewMockSecretCipher() *MockSecretCipher {
	return &MockSecretCipher{}
}

func (m *MockSecretCipher) EncryptString(s string) ([]byte, error) {
	if m.EncryptStringFn != nil {
		return m.EncryptStringFn(s)
	}
	return []byte(mockCipherPrefix + s), nil
}

func (m *MockSecretCipher) DecryptString(blob []byte) string {
	if m.DecryptStringFn != nil {
		return m.DecryptStringFn(blob)
	}
	s := string(blob)
	if !strings.HasPrefix(s, mockCipherPrefix) {
		return ""
	}
	return strings.TrimPrefix(s, mockCipherPrefix)
}
