package security

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	saltLength   = 16
	saltAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// hashCost is the bcrypt work factor applied to every stored password.
	hashCost = bcrypt.DefaultCost
)

// HashPassword derives a bcrypt hash over the password concatenated with the
// user's salt. The per-user salt defeats cross-user rainbow lookups on top of
// bcrypt's own embedded salt, so two calls with identical inputs produce
// different encodings that both verify.
func HashPassword(password, salt string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password+salt), hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword checks the password and salt against a stored bcrypt hash.
// Malformed stored hashes verify as false rather than erroring so that callers
// cannot distinguish a corrupt record from a wrong password.
func VerifyPassword(password, salt, encoded string) bool {
	if password == "" || encoded == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password+salt)) == nil
}

// GenerateSalt produces a fixed-length random alphanumeric salt.
func GenerateSalt() (string, error) {
	buf := make([]byte, saltLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	for i, b := range buf {
		buf[i] = saltAlphabet[int(b)%len(saltAlphabet)]
	}

	return string(buf), nil
}
