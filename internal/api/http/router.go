package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/invoice-service/internal/api/http/handlers"
	"github.com/spec-kit/invoice-service/internal/auth"
	"github.com/spec-kit/invoice-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Invoices       *handlers.InvoicesHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/login", cfg.Auth.Login)

	invoices := app.Group("/invoices", cfg.AuthMiddleware.Handle)
	invoices.Post("/upload", auth.RequireRole(domain.RoleEmployee), cfg.Invoices.Upload)
	invoices.Get("", auth.RequireAnyRole(), cfg.Invoices.List)
	invoices.Get("/:id/history", auth.RequireAnyRole(), cfg.Invoices.History)
	invoices.Post("/:id/approve", auth.RequireRole(domain.RoleManager), cfg.Invoices.Approve)
	invoices.Post("/:id/reject", auth.RequireRole(domain.RoleManager), cfg.Invoices.Reject)

	reports := app.Group("/reports", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleManager))
	reports.Get("/monthly", cfg.Reports.Monthly)
}
