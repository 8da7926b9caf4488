package auth

import (
	"crypto/rand"
	"encoding/base64"
)

// secretBytes sizes the generated HMAC signing key (256 bits).
const secretBytes = 32

// GenerateSecret returns a fresh random JWT signing secret, URL-safe
// encoded so it round-trips cleanly through config.toml.
func GenerateSecret() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
