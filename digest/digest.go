// Package digest provides hashing and identifier helpers.
package digest

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Alphanumeric is the alphabet used by RandomString.
const Alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// SHA256 returns the hex encoded SHA-256 of s.
func SHA256(s string) string {
	return SHA256Bytes([]byte(s))
}

// SHA256Bytes returns the hex encoded SHA-256 of b.
func SHA256Bytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// UUID returns a random version 4 UUID.
func UUID() string {
	return uuid.NewString()
}

// RandomString returns n random alphanumeric characters.
func RandomString(n int) (string, error) {
	return gonanoid.Generate(Alphanumeric, n)
}

// ID returns a URL-safe 21 character identifier.
func ID() (string, error) {
	return gonanoid.New()
}
