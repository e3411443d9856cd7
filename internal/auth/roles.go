package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/herafna/marketplace/internal/domain"
)

// RequireAuthenticated ensures a principal is present.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		return c.Next()
	}
}

// RequireArtisan ensures the caller holds the artisan role.
func RequireArtisan() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Profile == nil || principal.Profile.Role != domain.RoleArtisan {
			return fiber.NewError(http.StatusForbidden, "artisan role required")
		}
		return c.Next()
	}
}

// RequireApprovedArtisan ensures the caller is an artisan whose profile has
// been approved. Pending and rejected artisans cannot publish experiences.
func RequireApprovedArtisan() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Profile == nil || !principal.Profile.IsApprovedArtisan() {
			return fiber.NewError(http.StatusForbidden, "approved artisan required")
		}
		return c.Next()
	}
}
