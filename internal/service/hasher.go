package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Password hashing schemes selectable through PASSWORD_HASH
const (
	HashSHA256 = "sha256"
	HashPBKDF2 = "pbkdf2"
)

const (
	pbkdf2Iterations = 210000
	pbkdf2KeyLen     = 32
)

// PasswordHasher derives the stored form of a password. Implementations are
// deterministic: the same input always yields the same hash, so
// verification is a plain comparison.
type PasswordHasher interface {
	Hash(password string) string
}

// SHA256Hasher produces the hex SHA-256 digest used by existing
// credential files.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// PBKDF2Hasher stretches the password with PBKDF2-SHA256 using a fixed
// server-side pepper as the salt.
type PBKDF2Hasher struct {
	Pepper []byte
}

func (h PBKDF2Hasher) Hash(password string) string {
	key := pbkdf2.Key([]byte(password), h.Pepper, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
	return hex.EncodeToString(key)
}

// NewPasswordHasher returns the hasher for the given scheme name
func NewPasswordHasher(kind, pepper string) (PasswordHasher, error) {
	switch kind {
	case "", HashSHA256:
		return SHA256Hasher{}, nil
	case HashPBKDF2:
		if pepper == "" {
			return nil, fmt.Errorf("pbkdf2 password hashing requires a pepper")
		}
		return PBKDF2Hasher{Pepper: []byte(pepper)}, nil
	default:
		return nil, fmt.Errorf("unknown password hash scheme %q", kind)
	}
}
