package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/invoice-service/internal/auth"
	"github.com/spec-kit/invoice-service/internal/config"
	"github.com/spec-kit/invoice-service/internal/domain"
	"github.com/spec-kit/invoice-service/internal/ratelimit"
	"github.com/spec-kit/invoice-service/internal/repository"
)

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (f *fakeUserRepo) Create(_ context.Context, _ *domain.User) error { return nil }

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	hash, err := auth.HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)

	users := &fakeUserRepo{users: map[string]*domain.User{
		"alice": {ID: 1, Username: "alice", PasswordHash: hash, Role: domain.RoleEmployee},
	}}
	cfg := config.Config{Auth: config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60}}
	svc := NewAuthService(cfg, users, ratelimit.NewMemoryLimiter(time.Minute, 5), zap.NewNop())
	return svc, users
}

func TestLoginIssuesToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	token, exp, err := svc.Login(context.Background(), "alice", "s3cret", "10.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, exp.After(time.Now()))

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestLoginFailureIsIndistinguishable(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, _, wrongPassword := svc.Login(context.Background(), "alice", "nope", "10.0.0.1")
	_, _, unknownUser := svc.Login(context.Background(), "mallory", "nope", "10.0.0.1")

	assert.Equal(t, "UNAUTHORIZED", domainCode(t, wrongPassword))
	assert.Equal(t, "UNAUTHORIZED", domainCode(t, unknownUser))
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLoginThrottledAfterMaxAttempts(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _, err := svc.Login(ctx, "alice", "nope", "10.0.0.1")
		assert.Equal(t, "UNAUTHORIZED", domainCode(t, err))
	}

	_, _, err := svc.Login(ctx, "alice", "s3cret", "10.0.0.1")
	assert.Equal(t, "RATE_LIMITED", domainCode(t, err))

	// Another address is unaffected.
	_, _, err = svc.Login(ctx, "alice", "s3cret", "10.0.0.2")
	assert.NoError(t, err)
}
