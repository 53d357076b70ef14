package core

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

// Stored form is "salt$digest", both hex. The digest is an opaque one-way
// function of salt+password; only HashPassword and VerifyPassword ever look
// inside.

// HashPassword derives a salted hash for storage.
func HashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return hex.EncodeToString(salt) + "$" + digest(hex.EncodeToString(salt), password), nil
}

// VerifyPassword checks password against a stored hash in constant time.
func VerifyPassword(stored, password string) bool {
	salt, want, ok := strings.Cut(stored, "$")
	if !ok {
		return false
	}
	got := digest(salt, password)
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

func digest(saltHex, password string) string {
	sum := sha256.Sum256([]byte(saltHex + password))
	return hex.EncodeToString(sum[:])
}
