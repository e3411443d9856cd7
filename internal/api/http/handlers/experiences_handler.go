package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/herafna/marketplace/internal/api/dto"
	"github.com/herafna/marketplace/internal/auth"
	"github.com/herafna/marketplace/internal/service"
	apperrors "github.com/herafna/marketplace/pkg/util"
)

// ExperiencesHandler exposes the experience catalog.
type ExperiencesHandler struct {
	catalog *service.CatalogService
}

// NewExperiencesHandler constructs handler.
func NewExperiencesHandler(catalog *service.CatalogService) *ExperiencesHandler {
	return &ExperiencesHandler{catalog: catalog}
}

// List handles GET /experiences. Filtering is a stateless predicate over
// the live view; an empty query returns everything newest-first.
func (h *ExperiencesHandler) List(c *fiber.Ctx) error {
	filter := service.ExperienceFilter{
		Search:   c.Query("q"),
		Category: c.Query("category"),
		City:     c.Query("city"),
		MinPrice: parseFloat(c.Query("min_price"), 0),
		MaxPrice: parseFloat(c.Query("max_price"), 0),
	}

	experiences := service.FilterExperiences(h.catalog.Experiences(), filter)
	items := make([]dto.ExperienceResponse, 0, len(experiences))
	for i := range experiences {
		items = append(items, dto.NewExperienceResponse(&experiences[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Create handles POST /experiences.
func (h *ExperiencesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Profile == nil {
		return apperrors.NewUnauthorized("sign in required")
	}

	var req dto.CreateExperienceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	exp, err := h.catalog.CreateExperience(c.Context(), principal.Profile, service.ExperienceCreateInput{
		Category:       req.Category,
		Title:          req.Title,
		MaxPersons:     req.MaxPersons,
		AllowedGender:  req.AllowedGender,
		City:           req.City,
		Description:    req.Description,
		PricePerPerson: req.PricePerPerson,
		DurationHours:  req.DurationHours,
		ImageDataURI:   req.Image,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewExperienceResponse(exp)})
}

// Mine handles GET /experiences/mine for artisans.
func (h *ExperiencesHandler) Mine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Profile == nil {
		return apperrors.NewUnauthorized("sign in required")
	}
	experiences := h.catalog.ExperiencesForOwner(principal.Profile.UID)
	items := make([]dto.ExperienceResponse, 0, len(experiences))
	for i := range experiences {
		items = append(items, dto.NewExperienceResponse(&experiences[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseFloat(val string, def float64) float64 {
	if val == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return def
	}
	return parsed
}
