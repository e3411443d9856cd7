package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/herafna/marketplace/internal/api/http/handlers"
	"github.com/herafna/marketplace/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Profile        *handlers.ProfileHandler
	Experiences    *handlers.ExperiencesHandler
	Bookings       *handlers.BookingsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/forgot", cfg.Auth.ForgotPassword)
	authGroup.Post("/reset", cfg.Auth.ResetPassword)

	profile := app.Group("/profile", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	profile.Get("/", cfg.Profile.Get)
	profile.Patch("/", cfg.Profile.Update)

	experiences := app.Group("/experiences")
	experiences.Get("/", cfg.Experiences.List)
	experiences.Get("/mine", cfg.AuthMiddleware.Handle, auth.RequireArtisan(), cfg.Experiences.Mine)
	experiences.Post("/", cfg.AuthMiddleware.Handle, auth.RequireApprovedArtisan(), cfg.Experiences.Create)

	bookings := app.Group("/bookings", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	bookings.Get("/", cfg.Bookings.List)
	bookings.Post("/", cfg.Bookings.Create)
	bookings.Patch("/:id/status", cfg.Bookings.UpdateStatus)
}
