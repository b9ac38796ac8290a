package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
	"golang.org/x/crypto/bcrypt"
)

const minSecretLength = 32

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Audit AuditConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	// JWTSecret has no default: a missing key must stop the process.
	JWTSecret          string        `env:"JWT_SECRET, required"`
	JWTIssuer          string        `env:"JWT_ISSUER,            default=media-admin"`
	JWTSecretNotAfter  time.Time     `env:"JWT_SECRET_NOT_AFTER"`
	TokenTTL           time.Duration `env:"TOKEN_TTL,             default=2h"`
	BcryptCost         int           `env:"BCRYPT_COST,           default=10"`
	LoginMaxFailures   int           `env:"LOGIN_MAX_FAILURES,    default=5"`
	LoginFailureWindow time.Duration `env:"LOGIN_FAILURE_WINDOW,  default=15m"`
	LoginRatePerSecond float64       `env:"LOGIN_RATE_PER_SECOND, default=5"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

type MongoConfig struct {
	URI         string `env:"MONGO_URI,           default=mongodb://localhost:27017"`
	Database    string `env:"MONGO_DB,            default=media_admin"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL_SIZE, default=50"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ThrottleEnabled reports whether failed-login throttling is active.
func (c *Config) ThrottleEnabled() bool {
	return c.Auth.LoginMaxFailures > 0
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate reports problems without echoing secret values.
func (c *Config) validate() error {
	var errs []error
	if len(c.Auth.JWTSecret) < minSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLength))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.Auth.LoginMaxFailures < 0 {
		errs = append(errs, errors.New("LOGIN_MAX_FAILURES must not be negative"))
	}
	if !c.Auth.JWTSecretNotAfter.IsZero() && !c.Auth.JWTSecretNotAfter.After(time.Now()) {
		errs = append(errs, errors.New("JWT_SECRET_NOT_AFTER is in the past"))
	}
	return errors.Join(errs...)
}
