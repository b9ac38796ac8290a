package ports

import "github.com/melodia/admin-api/internal/core/domain"

// TokenIssuer signs claims into bearer tokens and verifies them.
//
// Verify fails with domain.ErrInvalidSignature, domain.ErrTokenExpired or
// domain.ErrMalformedToken.
type TokenIssuer interface {
	Issue(claims domain.Claims) (domain.IssuedToken, error)
	Verify(token string) (domain.Claims, error)
}

// TokenVerifier is the read side of TokenIssuer used by the HTTP middleware.
type TokenVerifier interface {
	Verify(token string) (domain.Claims, error)
}
