package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/invoice-service/internal/domain"
	"github.com/spec-kit/invoice-service/internal/repository"
	apperrors "github.com/spec-kit/invoice-service/pkg/util"
)

type fakeUserRepo struct {
	users map[int64]*domain.User
}

func (f *fakeUserRepo) Create(_ context.Context, _ *domain.User) error { return nil }

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func newTestApp(mw *AuthMiddleware, handler fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	app.Get("/protected", mw.Handle, handler)
	return app
}

func TestMiddlewareLoadsPrincipal(t *testing.T) {
	users := &fakeUserRepo{users: map[int64]*domain.User{
		1: {ID: 1, Username: "alice", Role: domain.RoleEmployee},
	}}
	tm := NewTokenManager("test-secret", 60)
	token, _, err := tm.GenerateToken(users.users[1])
	require.NoError(t, err)

	app := newTestApp(NewAuthMiddleware(tm, users), func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		require.True(t, ok)
		return c.SendString(string(principal.Role))
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddlewareRefreshesRoleFromStore(t *testing.T) {
	users := &fakeUserRepo{users: map[int64]*domain.User{
		1: {ID: 1, Username: "alice", Role: domain.RoleManager},
	}}
	tm := NewTokenManager("test-secret", 60)
	token, _, err := tm.GenerateToken(users.users[1])
	require.NoError(t, err)

	// Demote after issuance; the stale token claim must not win.
	users.users[1].Role = domain.RoleEmployee

	var seen domain.Role
	app := newTestApp(NewAuthMiddleware(tm, users), func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		seen = principal.Role
		return c.SendStatus(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.RoleEmployee, seen)
}

func TestMiddlewareRejectsMissingAndBadTokens(t *testing.T) {
	users := &fakeUserRepo{users: map[int64]*domain.User{}}
	tm := NewTokenManager("test-secret", 60)
	app := newTestApp(NewAuthMiddleware(tm, users), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	for _, header := range []string{"", "Bearer garbage", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "header %q", header)
	}
}

func TestMiddlewareRejectsDeletedUser(t *testing.T) {
	users := &fakeUserRepo{users: map[int64]*domain.User{}}
	tm := NewTokenManager("test-secret", 60)
	token, _, err := tm.GenerateToken(&domain.User{ID: 99, Role: domain.RoleEmployee})
	require.NoError(t, err)

	app := newTestApp(NewAuthMiddleware(tm, users), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
