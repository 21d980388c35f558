package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-issue-service/internal/api/http/handlers"
	"github.com/spec-kit/civic-issue-service/internal/auth"
	"github.com/spec-kit/civic-issue-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Issues         *handlers.IssuesHandler
	AuthMiddleware *auth.AuthMiddleware
	UploadsDir     string
}

// RegisterRoutes wires HTTP routes. Each protected route declares its
// allowed-role set explicitly.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Static("/uploads", cfg.UploadsDir)

	api := app.Group("/api")

	users := api.Group("/users")
	users.Post("/login", cfg.Users.Login)
	users.Get("/profile", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Users.Profile)

	issues := api.Group("/issues", cfg.AuthMiddleware.Handle)
	issues.Post("/", auth.RequireRoles(domain.RoleCitizen), cfg.Issues.Create)
	issues.Get("/", auth.RequireRoles(domain.RoleOfficer, domain.RoleAdmin), cfg.Issues.List)
	issues.Get("/my-issues", auth.RequireRoles(domain.RoleCitizen), cfg.Issues.MyIssues)
	issues.Patch("/:id/status", auth.RequireRoles(domain.RoleOfficer, domain.RoleAdmin), cfg.Issues.UpdateStatus)
	issues.Delete("/:id", auth.RequireRoles(domain.RoleAdmin), cfg.Issues.Delete)
}
