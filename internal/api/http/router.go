package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/RandyMyers/mbzserver12-sub001/internal/api/http/handlers"
	"github.com/RandyMyers/mbzserver12-sub001/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health       *handlers.HealthHandler
	Tickets      *handlers.TicketsHandler
	Integrations *handlers.IntegrationsHandler
	Stats        *handlers.StatsHandler
	Scope        *auth.ScopeMiddleware
}

// RegisterRoutes wires HTTP routes. Everything under /api/v1 requires the
// organization scope extracted by the scope middleware.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1", cfg.Scope.Handle)

	tickets := api.Group("/tickets")
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)
	tickets.Post("/:id/messages", cfg.Tickets.AppendMessage)
	tickets.Post("/:id/status", cfg.Tickets.ChangeStatus)

	integrations := api.Group("/integrations")
	integrations.Post("", cfg.Integrations.AddIntegration)
	integrations.Get("", cfg.Integrations.ListIntegrations)
	integrations.Put("/at/:index", cfg.Integrations.UpdateIntegrationAt)
	integrations.Delete("/at/:index", cfg.Integrations.RemoveIntegrationAt)
	integrations.Put("/:id", cfg.Integrations.UpdateIntegration)
	integrations.Delete("/:id", cfg.Integrations.RemoveIntegration)

	api.Get("/stats", cfg.Stats.GetStats)
}
