package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amirasaad/bank/pkg/config"
	"github.com/amirasaad/bank/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_Strategies(t *testing.T) {
	svc, err := New(&config.Auth{Strategy: "basic", Username: "api", Password: "secret"}, discard())
	require.NoError(t, err)
	assert.Equal(t, StrategyBasic, svc.Strategy())

	svc, err = New(&config.Auth{Strategy: "jwt", Username: "api", Password: "secret", Jwt: &config.Jwt{Secret: "k"}}, discard())
	require.NoError(t, err)
	assert.Equal(t, StrategyJWT, svc.Strategy())

	_, err = New(&config.Auth{Strategy: "jwt", Username: "api"}, discard())
	assert.Error(t, err)

	_, err = New(&config.Auth{Strategy: "oauth"}, discard())
	assert.ErrorContains(t, err, "unknown auth strategy")

	_, err = New(&config.Auth{Strategy: "basic", PasswordHash: "plain"}, discard())
	assert.ErrorContains(t, err, "bcrypt")
}

func TestCheckCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	svc, err := New(&config.Auth{Username: "ops", Password: "ignored", PasswordHash: string(hash)}, discard())
	require.NoError(t, err)

	assert.True(t, svc.CheckCredentials("ops", "hunter2"))
	assert.False(t, svc.CheckCredentials("ops", "ignored"), "hash wins over the plain password")
	assert.False(t, svc.CheckCredentials("other", "hunter2"))
	assert.False(t, svc.CheckCredentials("ops", ""))
}

func TestLogin_JWT(t *testing.T) {
	svc, err := New(&config.Auth{
		Strategy: "jwt",
		Username: "api",
		Password: "secret",
		Jwt:      &config.Jwt{Secret: "signing-key", Expiry: time.Hour},
	}, discard())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "api", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	token, err := svc.Login(context.Background(), "api", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	strategy := svc.strategy.(*JWTStrategy)
	sub, err := strategy.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "api", sub)

	other := NewJWTStrategy(&config.Jwt{Secret: "other-key"})
	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestJWTStrategy_Expiry(t *testing.T) {
	s := NewJWTStrategy(&config.Jwt{Secret: "k", Expiry: time.Minute})
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issued }

	token, err := s.GenerateToken("api")
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(30 * time.Second) }
	_, err = s.ParseToken(token)
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = s.ParseToken(token)
	assert.Error(t, err)
}

func TestLogin_Basic(t *testing.T) {
	svc, err := New(&config.Auth{Strategy: "basic", Username: "api", Password: "secret"}, discard())
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "api", "secret")
	require.NoError(t, err)
	assert.Empty(t, token)
}
