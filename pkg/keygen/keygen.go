package keygen

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
)

// BearerToken generates an opaque bearer token string.
// 16 random bytes, base64 encoded; treated as a secret by callers.
func BearerToken() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// SessionID generates an opaque session key carried in the cookie.
// 32 random bytes, hex encoded.
func SessionID() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// CSRFToken generates a one-time form token.
func CSRFToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}
