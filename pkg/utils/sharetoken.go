package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const shareTokenBytes = 24

// GenerateShareToken returns an opaque URL-safe bearer token. 24 random
// bytes gives 192 bits of entropy, far beyond guessability.
func GenerateShareToken() (string, error) {
	raw := make([]byte, shareTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed reading random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
