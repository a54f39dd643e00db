// Package vault encrypts third-party access credentials at rest with
// AES-256-GCM. Envelopes are stored as three colon-separated hex fields:
// iv:authTag:ciphertext.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const keyLen = 32

var (
	// ErrMalformedEnvelope means the stored value is not a valid
	// iv:tag:ciphertext triple. Distinct from an authentication failure.
	ErrMalformedEnvelope = errors.New("malformed credential envelope")

	// ErrDecryptionFailed means the envelope parsed but authentication
	// failed: the ciphertext was tampered with, corrupted, or encrypted
	// under a different key. Callers must not treat this as "no
	// credential stored".
	ErrDecryptionFailed = errors.New("credential decryption failed")
)

type Vault struct {
	aead cipher.AEAD
}

// New builds a vault from a base64-encoded 256-bit key. Construction
// fails when the key is missing or the wrong length; callers are expected
// to refuse to start on error rather than defer the check to first use.
func New(base64Key string) (*Vault, error) {
	if base64Key == "" {
		return nil, errors.New("encryption key is not set")
	}

	key, err := base64.StdEncoding.DecodeString(base64Key)
	if err != nil {
		return nil, fmt.Errorf("encryption key is not valid base64: %w", err)
	}
	if len(key) != keyLen {
		return nil, fmt.Errorf("encryption key must decode to %d bytes, got %d", keyLen, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Vault{aead: aead}, nil
}

// Encrypt seals plaintext under a fresh random nonce. A new nonce is
// drawn on every call; reuse under the same key would break both
// confidentiality and integrity.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	iv := make([]byte, v.aead.NonceSize())
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("failed to draw nonce: %w", err)
	}

	sealed := v.aead.Seal(nil, iv, []byte(plaintext), nil)
	tagAt := len(sealed) - v.aead.Overhead()
	ciphertext, tag := sealed[:tagAt], sealed[tagAt:]

	return fmt.Sprintf("%s:%s:%s",
		hex.EncodeToString(iv),
		hex.EncodeToString(tag),
		hex.EncodeToString(ciphertext),
	), nil
}

// Decrypt opens an envelope produced by Encrypt. It fails closed: a bad
// field count returns ErrMalformedEnvelope, any authentication mismatch
// returns ErrDecryptionFailed.
func (v *Vault) Decrypt(envelope string) (string, error) {
	parts := strings.Split(envelope, ":")
	if len(parts) != 3 {
		return "", ErrMalformedEnvelope
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != v.aead.NonceSize() {
		return "", ErrMalformedEnvelope
	}
	tag, err := hex.DecodeString(parts[1])
	if err != nil || len(tag) != v.aead.Overhead() {
		return "", ErrMalformedEnvelope
	}
	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return "", ErrMalformedEnvelope
	}

	plaintext, err := v.aead.Open(nil, iv, append(ciphertext, tag...), nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	return string(plaintext), nil
}
