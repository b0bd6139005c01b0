// Package auth provides the bcrypt password hashing used to gate the
// /debug/stats endpoint (spec.md §6 expansion), adapted from the teacher's
// broader user-authentication password manager.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidPassword = errors.New("invalid password")

// PasswordManager hashes and compares operator-configured secrets.
type PasswordManager struct {
	cost int
}

// NewPasswordManager returns a PasswordManager at a fixed bcrypt cost.
func NewPasswordManager() *PasswordManager {
	return &PasswordManager{cost: 12}
}

// HashPassword bcrypt-hashes password, for operators generating a
// DEBUG_STATS_PASS value offline.
func (pm *PasswordManager) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), pm.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword checks password against a bcrypt hash previously produced
// by HashPassword.
func (pm *PasswordManager) ComparePassword(hashedPassword, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPassword
		}
		return err
	}
	return nil
}
