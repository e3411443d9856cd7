package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/herafna/marketplace/internal/api/dto"
	"github.com/herafna/marketplace/internal/auth"
	"github.com/herafna/marketplace/internal/service"
	apperrors "github.com/herafna/marketplace/pkg/util"
)

// ProfileHandler exposes the caller's own profile.
type ProfileHandler struct {
	identity *service.IdentityService
}

// NewProfileHandler constructs handler.
func NewProfileHandler(identity *service.IdentityService) *ProfileHandler {
	return &ProfileHandler{identity: identity}
}

// Get handles GET /profile.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Profile == nil {
		return apperrors.NewUnauthorized("sign in required")
	}
	return c.JSON(fiber.Map{"data": dto.NewProfileResponse(principal.Profile)})
}

// Update handles PATCH /profile. The identity key is not updatable.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Profile == nil {
		return apperrors.NewUnauthorized("sign in required")
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	fields := req.Fields()
	if len(fields) == 0 {
		return apperrors.NewValidationError("no fields to update", nil)
	}

	profile, err := h.identity.UpdateProfile(c.Context(), principal.Profile.UID, fields)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProfileResponse(profile)})
}
