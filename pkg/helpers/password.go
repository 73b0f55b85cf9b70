package helpers

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the cost factor the legacy system hashed with, so
// existing hashes keep verifying.
const bcryptCost = 10

// HashPassword hashes the plain text password using bcrypt
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
