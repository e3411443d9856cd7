package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/herafna/marketplace/internal/api/dto"
	"github.com/herafna/marketplace/internal/auth"
	"github.com/herafna/marketplace/internal/domain"
	"github.com/herafna/marketplace/internal/service"
	apperrors "github.com/herafna/marketplace/pkg/util"
)

// BookingsHandler exposes the booking ledger.
type BookingsHandler struct {
	bookings *service.BookingService
	catalog  *service.CatalogService
}

// NewBookingsHandler constructs handler.
func NewBookingsHandler(bookings *service.BookingService, catalog *service.CatalogService) *BookingsHandler {
	return &BookingsHandler{bookings: bookings, catalog: catalog}
}

// List handles GET /bookings. The viewer's role decides which side of the
// ledger they see; view=active|past narrows by status.
func (h *BookingsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Profile == nil {
		return apperrors.NewUnauthorized("sign in required")
	}

	view := domain.BookingView(c.Query("view"))
	switch view {
	case "", domain.BookingViewActive, domain.BookingViewPast:
	default:
		return apperrors.NewValidationError("view must be active or past", map[string]any{"view": string(view)})
	}

	bookings := h.bookings.ForViewer(principal.Profile.Role, principal.Profile.UID, view)
	items := make([]dto.BookingResponse, 0, len(bookings))
	for i := range bookings {
		items = append(items, dto.NewBookingResponse(&bookings[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Create handles POST /bookings.
func (h *BookingsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Profile == nil {
		return apperrors.NewUnauthorized("sign in required")
	}

	var req dto.CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ExperienceID == "" {
		return apperrors.NewValidationError("experience_id required", nil)
	}

	experience, err := h.catalog.GetExperience(c.Context(), req.ExperienceID)
	if err != nil {
		return err
	}

	booking, err := h.bookings.Create(c.Context(), principal.Profile, experience, service.BookingCreateInput{
		NumberOfPeople: req.NumberOfPeople,
		BookingDate:    req.BookingDate,
		UserName:       req.UserName,
		UserEmail:      req.UserEmail,
		UserPhone:      req.UserPhone,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewBookingResponse(booking)})
}

// UpdateStatus handles PATCH /bookings/:id/status.
func (h *BookingsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Profile == nil {
		return apperrors.NewUnauthorized("sign in required")
	}

	var req dto.UpdateBookingStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}

	booking, err := h.bookings.SetStatus(c.Context(), principal.Profile, c.Params("id"), domain.BookingStatus(req.Status))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"data": dto.NewBookingResponse(booking)})
}
