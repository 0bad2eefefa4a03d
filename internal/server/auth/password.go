// Package auth holds the credential primitives of the service: salted
// password hashes and opaque API tokens.
package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost is a variable so tests can lower it.
var bcryptCost = bcrypt.DefaultCost

// HashPassword returns a salted bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash. A malformed hash is
// reported as a mismatch.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
