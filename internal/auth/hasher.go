// Package auth provides one-way password hashing for account credentials.
package auth

import "golang.org/x/crypto/bcrypt"

// PasswordHasher is the hashing boundary used by the persistence façade.
// Abstract so the algorithm can be swapped without touching callers.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(password, hash string) bool
}

// BcryptHasher hashes with bcrypt at the configured cost.
type BcryptHasher struct{ Cost int }

func (b BcryptHasher) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = 10
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Compare reports whether password matches hash. bcrypt's comparison is
// constant-time over the derived key.
func (b BcryptHasher) Compare(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
