// Package auth implements the token service (HS256 JWTs) and the password
// hasher guarding every storage operation.
package auth

import (
	"time"

	"github.com/dsmirnov/drivebox/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the token lifetime used when no explicit TTL is
// configured.
const DefaultTokenTTL = 24 * time.Hour

// IssueToken signs an HS256 JWT carrying subject and an absolute expiry of
// now+ttl. Tampering with either field invalidates the signature.
func IssueToken(subject string, secretKey []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	return token.SignedString(secretKey)
}

// SubjectFromToken verifies the signature and expiry and returns the subject.
// Every failure reason (expired, tampered, malformed, wrong algorithm, empty
// subject) collapses to common.ErrInvalidToken so callers cannot probe which
// check rejected a forged token.
func SubjectFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", common.ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
