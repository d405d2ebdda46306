// Package auth authenticates the operator allowed to call mutating
// endpoints. The operator is configured, not stored.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/bank/pkg/config"
	"github.com/amirasaad/bank/pkg/domain"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	StrategyBasic = "basic"
	StrategyJWT   = "jwt"
)

// ErrInvalidCredentials is returned for a wrong username or password.
var ErrInvalidCredentials = domain.NewError(domain.ErrUnauthorized, "invalid username or password")

// Strategy issues the credential a client presents after logging in.
type Strategy interface {
	Name() string
	// GenerateToken returns the bearer token for subject, or "" when the
	// strategy has no tokens.
	GenerateToken(subject string) (string, error)
}

type Service struct {
	username string
	hash     []byte
	strategy Strategy
	logger   *slog.Logger
}

// New builds the service for cfg.Strategy. A plain password is hashed once
// here so every check goes through bcrypt.
func New(cfg *config.Auth, logger *slog.Logger) (*Service, error) {
	hash := []byte(cfg.PasswordHash)
	if len(hash) == 0 {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash operator password: %w", err)
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("AUTH_PASSWORD_HASH is not a bcrypt hash: %w", err)
	}

	var strategy Strategy
	switch cfg.Strategy {
	case StrategyBasic, "":
		strategy = BasicStrategy{}
	case StrategyJWT:
		if cfg.Jwt == nil || cfg.Jwt.Secret == "" {
			return nil, errors.New("jwt strategy requires a secret")
		}
		strategy = NewJWTStrategy(cfg.Jwt)
	default:
		return nil, fmt.Errorf("unknown auth strategy %q", cfg.Strategy)
	}

	return &Service{
		username: cfg.Username,
		hash:     hash,
		strategy: strategy,
		logger:   logger.With("service", "auth"),
	}, nil
}

// Strategy returns the active strategy name.
func (s *Service) Strategy() string {
	return s.strategy.Name()
}

// SigningKey returns the HS256 key, or nil unless the jwt strategy is active.
func (s *Service) SigningKey() []byte {
	if j, ok := s.strategy.(*JWTStrategy); ok {
		return j.secret
	}
	return nil
}

// CheckCredentials reports whether username and password identify the
// operator. The bcrypt comparison runs even for an unknown username.
func (s *Service) CheckCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(s.hash, []byte(password)) == nil
	return userOK && passOK
}

// Login checks the credentials and returns a token from the active strategy.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if !s.CheckCredentials(username, password) {
		s.logger.Warn("login failed", "username", username)
		return "", ErrInvalidCredentials
	}
	token, err := s.strategy.GenerateToken(username)
	if err != nil {
		s.logger.Error("token generation failed", "error", err)
		return "", err
	}
	s.logger.Info("login successful", "username", username, "strategy", s.strategy.Name())
	return token, nil
}

// BasicStrategy has no tokens; every request carries the credentials.
type BasicStrategy struct{}

func (BasicStrategy) Name() string { return StrategyBasic }

func (BasicStrategy) GenerateToken(string) (string, error) { return "", nil }

// JWTStrategy issues HS256 tokens carrying sub and exp.
type JWTStrategy struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewJWTStrategy(cfg *config.Jwt) *JWTStrategy {
	expiry := cfg.Expiry
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &JWTStrategy{secret: []byte(cfg.Secret), expiry: expiry, now: time.Now}
}

func (s *JWTStrategy) Name() string { return StrategyJWT }

func (s *JWTStrategy) GenerateToken(subject string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
	})
	return token.SignedString(s.secret)
}

// ParseToken validates a token and returns its subject.
func (s *JWTStrategy) ParseToken(raw string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
