// Package device issues and verifies ingest tokens for fermentation
// hardware. A token is shown once at registration; only its bcrypt hash
// is stored.
package device

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// IssueToken generates a fresh ingest token and its bcrypt hash. The
// plaintext goes to the caller for display; the hash goes to the store.
func IssueToken() (token, hash string, err error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate token: %w", err)
	}
	token = hex.EncodeToString(buf)

	hashed, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("hash token: %w", err)
	}
	return token, string(hashed), nil
}

// VerifyToken reports whether a presented token matches the stored hash.
func VerifyToken(hash, token string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) == nil
}
