// Package secret implements the secret-exchange handshake: reversible
// symmetric encryption of session tokens, and validation of request secrets
// against live sessions or the process-wide global secret.
package secret

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrMalformedSecret indicates ciphertext that cannot be decrypted.
var ErrMalformedSecret = errors.New("malformed secret")

// Cipher encrypts and decrypts opaque secrets with a key derived from the
// per-installation encryption key.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher derives a cipher from the installation key.
func NewCipher(key string) (*Cipher, error) {
	if key == "" {
		return nil, errors.New("encryption key is required")
	}
	sum := sha256.Sum256([]byte(key))
	aead, err := chacha20poly1305.NewX(sum[:])
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext into a URL-safe opaque string.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a secret produced by Encrypt. Any malformed or tampered
// input yields ErrMalformedSecret.
func (c *Cipher) Decrypt(secret string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(secret)
	if err != nil {
		return "", ErrMalformedSecret
	}
	if len(raw) < c.aead.NonceSize() {
		return "", ErrMalformedSecret
	}
	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrMalformedSecret
	}
	return string(plain), nil
}
