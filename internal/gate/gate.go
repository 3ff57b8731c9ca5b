// Package gate compares a typed password against a configured SHA-256 digest.
// It keeps casual visitors out of the admin page; it is not an authentication system.
package gate

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
)

var ErrInvalidDigest = errors.New("gate: expected digest must be 64 hex characters")

type Config struct {
	// ExpectedDigest is the lower-case hex SHA-256 of the normalized password.
	ExpectedDigest string
	// Normalize trims and lower-cases input before hashing.
	Normalize bool
}

type Gate struct {
	expected  []byte
	normalize bool
}

func New(cfg Config) (*Gate, error) {
	expected, err := hex.DecodeString(strings.ToLower(strings.TrimSpace(cfg.ExpectedDigest)))
	if err != nil || len(expected) != sha256.Size {
		return nil, ErrInvalidDigest
	}

	return &Gate{expected: expected, normalize: cfg.Normalize}, nil
}

// Verify reports whether password hashes to the expected digest.
func (g *Gate) Verify(password string) bool {
	if g == nil {
		return false
	}

	sum := sha256.Sum256([]byte(g.prepare(password)))
	return subtle.ConstantTimeCompare(sum[:], g.expected) == 1
}

func (g *Gate) prepare(password string) string {
	if g.normalize {
		return NormalizePassword(password)
	}
	return password
}

func NormalizePassword(password string) string {
	return strings.ToLower(strings.TrimSpace(password))
}

// Digest returns the hex digest a deployment should configure for password.
func Digest(password string, normalize bool) string {
	if normalize {
		password = NormalizePassword(password)
	}
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
