package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// hashCost is fixed: adaptive work factor, roughly 250ms per hash on
// current commodity hardware.
const hashCost = 12

// HashPassword hashes a plaintext password using bcrypt. Each call salts
// independently, so equal inputs produce distinct hashes.
func HashPassword(password string) (string, error) {
	if len(password) == 0 {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password with a stored hash in
// constant time.
func VerifyPassword(hash, password string) error {
	if hash == "" {
		return errors.New("password hash is empty")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
