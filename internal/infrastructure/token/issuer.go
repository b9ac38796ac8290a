// Package token issues and verifies the HS256 bearer tokens handed to
// authenticated administrators. Tokens are stateless: a token stays valid
// until it expires, there is no revocation list.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/melodia/admin-api/internal/core/domain"
)

var (
	ErrEmptySecret      = errors.New("token: signing secret is empty")
	ErrInvalidTTL       = errors.New("token: ttl must be positive")
	ErrIncompleteClaims = errors.New("token: claims require principal id, username and role")
)

// jwtClaims is the wire form of domain.Claims. The principal id travels as
// the registered "sub" claim and the token id as "jti".
type jwtClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies tokens with a single process-wide key. It holds
// no mutable state and is safe for concurrent use.
type Issuer struct {
	secret   []byte
	ttl      time.Duration
	issuer   string
	notAfter time.Time
	now      func() time.Time
	parser   *jwt.Parser
}

// Option configures an Issuer.
type Option func(*Issuer)

// WithIssuerName sets the "iss" claim and requires it on verification.
func WithIssuerName(name string) Option {
	return func(i *Issuer) { i.issuer = name }
}

// WithKeyNotAfter bounds the signing key's validity: no token expires after t
// and no token is issued at or after t.
func WithKeyNotAfter(t time.Time) Option {
	return func(i *Issuer) { i.notAfter = t.UTC() }
}

// WithClock replaces time.Now for issuance and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

// NewIssuer returns an Issuer signing with secret; tokens expire ttl after issuance.
func NewIssuer(secret string, ttl time.Duration, opts ...Option) (*Issuer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}

	i := &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(i.issuer))
	}
	i.parser = jwt.NewParser(parserOpts...)

	return i, nil
}

// TTL returns the configured token lifetime.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs claims. IssuedAt, ExpiresAt and TokenID are overwritten; times
// have whole-second resolution, matching the JWT NumericDate encoding.
func (i *Issuer) Issue(c domain.Claims) (domain.IssuedToken, error) {
	if c.PrincipalID == "" || c.Username == "" || c.Role == "" {
		return domain.IssuedToken{}, ErrIncompleteClaims
	}

	now := i.now().UTC().Truncate(time.Second)
	exp := now.Add(i.ttl)
	if !i.notAfter.IsZero() {
		if limit := i.notAfter.Truncate(time.Second); exp.After(limit) {
			exp = limit
		}
		if !exp.After(now) {
			return domain.IssuedToken{}, domain.ErrSigningKeyExpired
		}
	}

	c.IssuedAt = now
	c.ExpiresAt = exp
	c.TokenID = uuid.NewString()

	claims := jwtClaims{
		Username: c.Username,
		Role:     c.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.PrincipalID,
			ID:        c.TokenID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(c.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(c.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return domain.IssuedToken{}, fmt.Errorf("sign token: %w", err)
	}

	return domain.IssuedToken{Token: signed, Claims: c}, nil
}

// Verify checks the signature, then expiry, and returns the embedded claims.
func (i *Issuer) Verify(tokenString string) (domain.Claims, error) {
	var claims jwtClaims
	parsed, err := i.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil {
		return domain.Claims{}, classify(err)
	}
	if !parsed.Valid {
		return domain.Claims{}, domain.ErrMalformedToken
	}

	if claims.Subject == "" || claims.Username == "" || claims.Role == "" ||
		claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return domain.Claims{}, domain.ErrMalformedToken
	}

	return domain.Claims{
		PrincipalID: claims.Subject,
		Username:    claims.Username,
		Role:        claims.Role,
		TokenID:     claims.ID,
		IssuedAt:    claims.IssuedAt.UTC(),
		ExpiresAt:   claims.ExpiresAt.UTC(),
	}, nil
}

// classify maps jwt parse errors onto the domain token failures.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", domain.ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	default:
		return fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}
}
