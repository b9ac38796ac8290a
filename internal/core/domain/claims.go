package domain

import (
	"context"
	"time"
)

// Claims is the subset of a User carried inside an access token.
type Claims struct {
	PrincipalID string
	Username    string
	Role        string
	TokenID     string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// IssuedToken pairs a signed token with the claims it encodes.
type IssuedToken struct {
	Token  string
	Claims Claims
}

// NewClaims selects the user fields exposed in a token. Email and password
// hash are never included; time fields are set by the token issuer.
func NewClaims(u *User) Claims {
	return Claims{
		PrincipalID: u.ID,
		Username:    u.Username,
		Role:        u.Role,
	}
}

type claimsCtxKey struct{}

// ContextWithClaims returns a copy of ctx carrying the verified claims.
func ContextWithClaims(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, claimsCtxKey{}, c)
}

// ClaimsFromContext returns the claims stored by ContextWithClaims.
func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	c, ok := ctx.Value(claimsCtxKey{}).(Claims)
	return c, ok
}
