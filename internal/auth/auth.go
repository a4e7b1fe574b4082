// internal/auth/auth.go
package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is proof of a verified caller. Only this package mints one, so a
// service that receives an Identity can trust its user id unconditionally.
type Identity struct {
	userID int64
}

// UserID returns the verified user id.
func (i Identity) UserID() int64 {
	return i.userID
}

// IsZero reports whether the identity is the unverified zero value.
func (i Identity) IsZero() bool {
	return i.userID == 0
}

// IssueToken signs a token whose subject is the user id.
func IssueToken(secret []byte, userID int64, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks the signature and expiry and returns the caller's
// identity.
func VerifyToken(secret []byte, tokenString string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, fmt.Errorf("invalid token: %w", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return Identity{}, fmt.Errorf("invalid token claims: %w", err)
	}
	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil || userID <= 0 {
		return Identity{}, fmt.Errorf("invalid token subject %q", subject)
	}

	return Identity{userID: userID}, nil
}
