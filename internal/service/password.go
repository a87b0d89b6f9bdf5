// Package service implements the application's business logic.
package service

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher is the one-way credential capability: it hashes plaintext
// passwords for storage and verifies presented passwords against a hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a PasswordHasher backed by bcrypt at the default cost.
func NewBcryptHasher() PasswordHasher {
	return &bcryptHasher{cost: bcrypt.DefaultCost}
}

func (h *bcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *bcryptHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
