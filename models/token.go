package models

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a parsed bearer token. The "sub" claim carries the vault user
// id the request acts for.
type Token struct {
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	// SignedString is the compact JWS form (header.payload.signature).
	SignedString string `json:"-"`

	// UserID is the cached subject claim.
	UserID string `json:"-"`
}

// GetUserID returns the subject claim, failing when it is missing or empty.
func (t *Token) GetUserID() (string, error) {
	userID, err := t.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error extracting UserID from token: %w", err)
	}
	if userID == "" {
		return "", fmt.Errorf("error extracting UserID from token: empty subject")
	}
	return userID, nil
}

// String returns the compact JWS serialization of the token.
func (t *Token) String() string {
	return t.SignedString
}
