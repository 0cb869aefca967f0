package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/invoice-service/internal/domain"
	apperrors "github.com/spec-kit/invoice-service/pkg/util"
)

func newGuardedApp(principal *domain.User, guard fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	app.Use(func(c *fiber.Ctx) error {
		if principal != nil {
			c.Locals(principalKey, principal)
		}
		return c.Next()
	})
	app.Get("/guarded", guard, func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return app
}

func guardStatus(t *testing.T, app *fiber.App) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRequireRolePassesMatchingRole(t *testing.T) {
	manager := &domain.User{ID: 1, Role: domain.RoleManager}
	app := newGuardedApp(manager, RequireRole(domain.RoleManager))
	assert.Equal(t, http.StatusOK, guardStatus(t, app))
}

func TestRequireRoleForbidsWrongRole(t *testing.T) {
	employee := &domain.User{ID: 2, Role: domain.RoleEmployee}
	app := newGuardedApp(employee, RequireRole(domain.RoleManager))
	assert.Equal(t, http.StatusForbidden, guardStatus(t, app))
}

func TestRequireRoleRejectsAnonymous(t *testing.T) {
	app := newGuardedApp(nil, RequireRole(domain.RoleManager))
	assert.Equal(t, http.StatusUnauthorized, guardStatus(t, app))
}

func TestRequireAnyRole(t *testing.T) {
	employee := &domain.User{ID: 2, Role: domain.RoleEmployee}
	assert.Equal(t, http.StatusOK, guardStatus(t, newGuardedApp(employee, RequireAnyRole())))
	assert.Equal(t, http.StatusUnauthorized, guardStatus(t, newGuardedApp(nil, RequireAnyRole())))
}
