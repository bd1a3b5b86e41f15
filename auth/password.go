package auth

import (
	"github.com/haku19602/beetlefactory-back/apperr"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// HashPassword validates the plaintext length and hashes it. Hashing happens
// here and nowhere else: it must never be a side effect of a generic save, so
// a credential can never be double-hashed or silently skipped.
func HashPassword(plain string) (string, error) {
	if len(plain) < 4 || len(plain) > 20 {
		return "", apperr.Validation("password", "密碼最少 4 字，最多 20 字")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", apperr.Unknown(err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches the stored hash.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
