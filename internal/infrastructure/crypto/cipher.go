// Package crypto implements the vault cipher used for session records.
// Layout on the wire: nonce (12 bytes) || ciphertext || auth tag (16 bytes),
// base64-encoded at rest.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/masho-mammad/shadowclean-bot/internal/domain"
)

const (
	// NonceSize is the standard AES-GCM nonce size
	NonceSize = 12

	// KeySize is the required symmetric key length (AES-256)
	KeySize = 32
)

// argon2id parameters for passphrase-derived keys
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// Cipher encrypts and decrypts session payloads under a process-wide key.
// The key must remain stable across restarts: a regenerated key orphans
// every stored ciphertext.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher creates a Cipher from a raw 32-byte key.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// DeriveKey derives a 32-byte key from a passphrase and salt with argon2id.
func DeriveKey(passphrase, salt string) []byte {
	return argon2.IDKey([]byte(passphrase), []byte(salt), argonTime, argonMemory, argonThreads, KeySize)
}

// Encrypt encrypts plaintext and returns base64(nonce || ciphertext || tag).
func (c *Cipher) Encrypt(plaintext []byte) (string, error) {
	if len(plaintext) == 0 {
		return "", fmt.Errorf("plaintext cannot be empty")
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nil, nonce, plaintext, nil)

	out := make([]byte, 0, len(nonce)+len(sealed))
	out = append(out, nonce...)
	out = append(out, sealed...)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. Key mismatch or corruption yields
// domain.ErrDecryptionFailed, never garbage plaintext.
func (c *Cipher) Decrypt(encoded string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64", domain.ErrDecryptionFailed)
	}
	if len(raw) < NonceSize {
		return nil, fmt.Errorf("%w: ciphertext too short", domain.ErrDecryptionFailed)
	}

	nonce := raw[:NonceSize]
	ciphertext := raw[NonceSize:]

	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: authentication failed", domain.ErrDecryptionFailed)
	}

	return plaintext, nil
}
