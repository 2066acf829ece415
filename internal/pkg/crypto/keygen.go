// Package crypto generates key material for bloglist deployments.
package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// SecretSize is the byte length of a generated token signing secret.
const SecretSize = 32

// ErrInvalidHexKey indicates the hex key is malformed or too short.
var ErrInvalidHexKey = errors.New("invalid hex key")

// GenerateSigningSecret generates a random 32-byte secret for HS256 tokens.
// Returns the secret as a 64-character hex string.
func GenerateSigningSecret() (string, error) {
	return GenerateHexKey(SecretSize)
}

// GenerateHexKey returns size random bytes hex encoded.
func GenerateHexKey(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("key size must be positive, got %d", size)
	}
	key := make([]byte, size)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return hex.EncodeToString(key), nil
}

// ParseHexKey parses a hex-encoded key string into bytes.
// Keys shorter than minSize bytes are rejected.
func ParseHexKey(hexKey string, minSize int) ([]byte, error) {
	hexKey = strings.TrimSpace(hexKey)

	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHexKey, err)
	}
	if len(key) < minSize {
		return nil, fmt.Errorf("%w: need at least %d bytes, got %d", ErrInvalidHexKey, minSize, len(key))
	}

	return key, nil
}
