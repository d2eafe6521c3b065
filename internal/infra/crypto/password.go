// internal/infra/crypto/password.go
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	iterations = 100_000
	keyLength  = 32 // 256-bit derived key
	saltLength = 32
)

// PBKDF2Hasher derives password hashes with PBKDF2-HMAC-SHA256 and a random
// per-password salt. Stored form: hex(salt) + ":" + hex(hash).
type PBKDF2Hasher struct{}

func NewPBKDF2Hasher() *PBKDF2Hasher { return &PBKDF2Hasher{} }

// Hash derives and serializes the hash for a plaintext password.
func (PBKDF2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("crypto: salt generation failed: %w", err)
	}
	hash := pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha256.New)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(hash), nil
}

// Verify reports whether password matches the stored salt:hash string.
// Malformed stored values verify as false, never as an error.
func (PBKDF2Hasher) Verify(password, stored string) bool {
	parts := strings.Split(stored, ":")
	if len(parts) != 2 {
		return false
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}
	got := pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}
