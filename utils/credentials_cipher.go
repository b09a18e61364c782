package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"io"

	"github.com/pkg/errors"
)

const cipherKeySize = 32

// CredentialsCipher seals session credentials with AES-GCM before they are
// written to Redis. The output is base64(nonce || ciphertext).
type CredentialsCipher struct {
	gcm cipher.AEAD
}

// NewCredentialsCipher builds a cipher from a configured key. Short keys are
// zero-padded and long keys truncated to 32 bytes.
func NewCredentialsCipher(key string) (*CredentialsCipher, error) {
	if key == "" {
		return nil, errors.New("encryption key is empty")
	}

	// Ensure key is exactly 32 bytes
	if len(key) < cipherKeySize {
		key = key + "00000000000000000000000000000000"
	}
	key = key[:cipherKeySize]

	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, errors.Wrap(err, "create cipher block")
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "create gcm")
	}
	return &CredentialsCipher{gcm: gcm}, nil
}

// Seal encrypts plaintext.
func (c *CredentialsCipher) Seal(plaintext []byte) (string, error) {
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.Wrap(err, "read nonce")
	}

	ciphertext := c.gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Open decrypts what Seal produced.
func (c *CredentialsCipher) Open(encoded string) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.Wrap(err, "decode base64")
	}

	nonceSize := c.gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}
	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]

	plaintext, err := c.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.Wrap(err, "decrypt credentials")
	}
	return plaintext, nil
}
