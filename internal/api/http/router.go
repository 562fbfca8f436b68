package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/triage-service/internal/api/http/handlers"
	"github.com/spec-kit/triage-service/internal/auth"
	"github.com/spec-kit/triage-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Triage         *handlers.TriageHandler
	Stats          *handlers.StatsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/agents/login", cfg.Auth.Login)

	triage := app.Group("/triage", cfg.AuthMiddleware.Handle)
	triage.Post("/tickets", cfg.Triage.Submit)
	triage.Post("/batch", cfg.Triage.Batch)
	triage.Get("/resolutions", cfg.Triage.ListResolutions)
	triage.Get("/resolutions/:ticketID", cfg.Triage.GetResolution)
	triage.Post("/resolutions/:ticketID/review",
		auth.RequireRole(domain.AgentRoleAgent, domain.AgentRoleAdmin), cfg.Triage.Review)

	app.Get("/stats", cfg.AuthMiddleware.Handle, cfg.Stats.Get)
}
