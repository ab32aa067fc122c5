package tokenclaims

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the decoded fields of a bearer token that matter for local
// session decisions. Expiry is the only required claim.
type Claims struct {
	Subject   string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token expiry is at or before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

// payloadClaims is the wire shape of the token's middle segment.
type payloadClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// Decode extracts claims from a bearer token without verifying its
// signature. The client only needs the expiry for local UX decisions; the
// backend remains the authority on every request, so a signature check here
// would add nothing. Decoding fails closed: a malformed structure, a
// non-JSON payload or a missing expiry claim yields an error, never a
// fabricated expiry.
func Decode(token string) (Claims, error) {
	var payload payloadClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &payload); err != nil {
		return Claims{}, errors.Join(ErrMalformedToken, err)
	}

	if payload.ExpiresAt == nil {
		return Claims{}, ErrMissingExpiry
	}

	claims := Claims{
		Subject:   payload.Subject,
		Role:      payload.Role,
		ExpiresAt: payload.ExpiresAt.Time,
	}
	if payload.IssuedAt != nil {
		claims.IssuedAt = payload.IssuedAt.Time
	}

	return claims, nil
}
