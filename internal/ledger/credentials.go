package ledger

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Credential comparison is isolated here so the scheme can change without
// touching the auth or transfer logic. Login passwords are bcrypt-hashed;
// transfer passwords are stored as-is and compared in constant time.

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func matchTransferPassword(stored, candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}
