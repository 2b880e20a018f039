// Package utils provides helpers for password hashing and bearer tokens.
package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed lifetime of a mechanic token. Tokens are stateless;
// there is no server-side revocation, a "logout" is a client-side discard.
const TokenTTL = 7 * 24 * time.Hour

// ErrInvalidToken covers every verification failure: bad signature,
// malformed structure and expiry. The cases are deliberately not
// distinguished so callers leak nothing to an attacker.
var ErrInvalidToken = errors.New("invalid or expired token")

// NewToken signs an HS256 JWT identifying a mechanic. The subject claim is
// the string form of the mechanic id, issued-at is now and expiry is
// issued-at plus TokenTTL.
func NewToken(secret string, mechanicID uint64) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(mechanicID, 10),
		"iat": now.Unix(),
		"exp": now.Add(TokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseToken validates signature and expiry and returns the mechanic id
// recovered from the subject claim. Expiry is strict; no clock skew is
// compensated.
func ParseToken(secret, raw string) (uint64, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return id, nil
}
