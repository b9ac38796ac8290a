package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/melodia/admin-api/internal/core/domain"
	"github.com/melodia/admin-api/internal/core/ports"
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 10

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// AuthService implements registration, credential verification and login.
type AuthService struct {
	repo     ports.AuthRepository
	tokens   ports.TokenIssuer
	throttle ports.LoginThrottle
	audit    ports.AuditSink
	cost     int
	log      zerolog.Logger
	now      func() time.Time

	// dummyHash is compared against on unknown usernames so that a lookup
	// miss costs the same as a password mismatch.
	dummyHash []byte
}

// AuthOption configures optional collaborators of AuthService.
type AuthOption func(*AuthService)

// WithBcryptCost sets the bcrypt work factor. Out-of-range values fall back
// to DefaultBcryptCost.
func WithBcryptCost(cost int) AuthOption {
	return func(s *AuthService) { s.cost = cost }
}

// WithLoginThrottle enables failed-login throttling.
func WithLoginThrottle(t ports.LoginThrottle) AuthOption {
	return func(s *AuthService) { s.throttle = t }
}

// WithAuditSink sends audit events to sink.
func WithAuditSink(sink ports.AuditSink) AuthOption {
	return func(s *AuthService) { s.audit = sink }
}

// WithLogger sets the service logger.
func WithLogger(log zerolog.Logger) AuthOption {
	return func(s *AuthService) { s.log = log }
}

func NewAuthService(repo ports.AuthRepository, tokens ports.TokenIssuer, opts ...AuthOption) *AuthService {
	s := &AuthService{
		repo:   repo,
		tokens: tokens,
		cost:   DefaultBcryptCost,
		log:    zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cost < bcrypt.MinCost || s.cost > bcrypt.MaxCost {
		s.cost = DefaultBcryptCost
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.cost)
	if err == nil {
		s.dummyHash = dummy
	}
	return s
}

// Register creates a new principal. The role is left to the repository default.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, domain.ErrMissingField
	}
	if len(password) > maxPasswordBytes {
		return nil, domain.ErrPasswordTooLong
	}

	existing, err := s.repo.FindByUsernameOrEmail(ctx, username, email)
	switch {
	case err == nil && existing != nil:
		return nil, domain.ErrDuplicateIdentity
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("%w: check existing user: %w", domain.ErrUnavailable, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, domain.ErrPasswordTooLong
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateIdentity) {
			return nil, domain.ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("%w: create user: %w", domain.ErrUnavailable, err)
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	s.emit(domain.EventRegistered, created.Username, created.ID, "")
	return created, nil
}

// Verify checks a credential pair against the stored bcrypt hash. Unknown
// usernames and wrong passwords both yield domain.ErrInvalidCredentials.
func (s *AuthService) Verify(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			if s.dummyHash != nil {
				_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			}
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: find user: %w", domain.ErrUnavailable, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// Login verifies the credential, then issues a token carrying the user's
// current role. The attempt is counted before the credential is checked, so
// concurrent guesses cannot overrun the throttle.
func (s *AuthService) Login(ctx context.Context, req ports.LoginRequest) (*ports.LoginResult, error) {
	if !s.admit(ctx, req.Username) {
		s.emit(domain.EventLoginThrottled, req.Username, "", req.RemoteIP)
		return nil, domain.ErrTooManyAttempts
	}

	user, err := s.Verify(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.emit(domain.EventLoginFailed, req.Username, "", req.RemoteIP)
		}
		return nil, err
	}

	issued, err := s.tokens.Issue(domain.NewClaims(user))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, user.Username); err != nil {
			s.log.Warn().Err(err).Str("username", user.Username).Msg("failed to reset login failures")
		}
	}
	s.emit(domain.EventLoginSucceeded, user.Username, user.ID, req.RemoteIP)

	return &ports.LoginResult{User: user, Token: issued}, nil
}

// admit fails open: a throttle outage must not lock every user out.
func (s *AuthService) admit(ctx context.Context, username string) bool {
	if s.throttle == nil || username == "" {
		return true
	}
	allowed, err := s.throttle.Attempt(ctx, username)
	if err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("login throttle check failed, allowing attempt")
		return true
	}
	return allowed
}

func (s *AuthService) emit(kind domain.AuthEventKind, username, principalID, remoteIP string) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(ports.AuditEventInput{
		Kind:        string(kind),
		Username:    username,
		PrincipalID: principalID,
		RemoteIP:    remoteIP,
		Timestamp:   s.now().UTC(),
	})
}
