package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/aftersales-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Cases     *handlers.CasesHandler
	Admin     *handlers.AdminCasesHandler
	Dashboard *handlers.DashboardHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	cases := app.Group("/cases")
	cases.Post("/", cfg.Cases.CreateCase)
	cases.Get("/lookup", cfg.Cases.LookupCase)
	cases.Post("/:id/nps", cfg.Cases.SubmitNPS)

	admin := app.Group("/admin")
	admin.Get("/cases", cfg.Admin.ListCases)
	admin.Get("/cases/:id", cfg.Admin.GetCase)
	admin.Patch("/cases/:id/status", cfg.Admin.UpdateStatus)
	admin.Put("/cases/:id/schedule", cfg.Admin.UpdateSchedule)
	admin.Post("/cases/:id/notes", cfg.Admin.AddNote)

	admin.Get("/dashboard/stats", cfg.Dashboard.Stats)
	admin.Get("/notifications", cfg.Dashboard.Notifications)
	admin.Get("/agenda", cfg.Dashboard.Agenda)
}
