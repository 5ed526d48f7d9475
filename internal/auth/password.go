package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword bcrypt-hashes a credential before it is stored on a
// recipient, issuer or admin row. Bulk issuance also uses it for the
// default password given to auto-created recipients.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword checks a login attempt against the stored bcrypt hash.
func ComparePassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
