package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt hash with an embedded per-call random salt,
// so hashing the same input twice yields different strings.
func HashPassword(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword verifies plaintext against a bcrypt hash in constant time.
// A malformed hash yields false, never a panic.
func CheckPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
