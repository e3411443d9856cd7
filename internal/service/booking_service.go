package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/herafna/marketplace/internal/docstore"
	"github.com/herafna/marketplace/internal/domain"
	"github.com/herafna/marketplace/internal/events"
	"github.com/herafna/marketplace/internal/repository"
	apperrors "github.com/herafna/marketplace/pkg/util"
)

// BookingService owns the live booking view and the booking lifecycle:
// creation with price computation, guarded status transitions, and the
// role-scoped filtering of the ledger.
type BookingService struct {
	bookings   repository.BookingRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger

	mu   sync.RWMutex
	view []domain.Booking
	sub  *docstore.Subscription
}

// BookingDependencies bundles requirements for the booking service.
type BookingDependencies struct {
	BookingRepo repository.BookingRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// BookingCreateInput carries the booking form fields.
type BookingCreateInput struct {
	NumberOfPeople int
	BookingDate    string
	UserName       string
	UserEmail      string
	UserPhone      string
}

// NewBookingService constructs the service.
func NewBookingService(deps BookingDependencies) *BookingService {
	return &BookingService{
		bookings:   deps.BookingRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Start subscribes the live booking view.
func (s *BookingService) Start() error {
	sub, err := s.bookings.Watch(func(snapshot []domain.Booking) {
		s.mu.Lock()
		s.view = snapshot
		s.mu.Unlock()
	})
	if err != nil {
		return err
	}
	s.sub = sub
	return nil
}

// Stop releases the live view subscription.
func (s *BookingService) Stop() {
	if s.sub != nil {
		s.sub.Cancel()
	}
}

// Bookings returns the current live view, newest first.
func (s *BookingService) Bookings() []domain.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Booking, len(s.view))
	copy(out, s.view)
	return out
}

// Create validates the form, computes the total price once from the
// experience price and headcount, and appends a pending booking. The write
// is the only state change; the live view catches up on its own.
func (s *BookingService) Create(ctx context.Context, requester *domain.UserProfile, experience *domain.Experience, input BookingCreateInput) (*domain.Booking, error) {
	if requester == nil || requester.UID == "" {
		return nil, apperrors.NewUnauthorized("sign in to book")
	}
	if experience == nil {
		return nil, apperrors.NewValidationError("experience required", nil)
	}

	details := map[string]any{}
	if strings.TrimSpace(input.UserName) == "" {
		details["userName"] = "required"
	}
	email := strings.TrimSpace(input.UserEmail)
	if email == "" {
		details["userEmail"] = "required"
	} else if !domain.ValidEmail(email) {
		details["userEmail"] = "invalid email address"
	}
	if input.NumberOfPeople < 1 {
		details["numberOfPeople"] = "must be at least 1"
	}
	if strings.TrimSpace(input.BookingDate) == "" {
		details["bookingDate"] = "required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("booking form invalid", details)
	}

	booking := domain.Booking{
		ExperienceID:    experience.ID,
		ExperienceTitle: experience.Title,
		UserID:          requester.UID,
		ArtisanID:       experience.ArtisanUID,
		BookingDate:     input.BookingDate,
		TotalPrice:      experience.PricePerPerson * float64(input.NumberOfPeople),
		NumberOfPeople:  input.NumberOfPeople,
		Status:          domain.BookingStatusPending,
		UserName:        strings.TrimSpace(input.UserName),
		UserEmail:       email,
		UserPhone:       strings.TrimSpace(input.UserPhone),
	}

	id, createdAt, err := s.bookings.Add(ctx, booking)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	booking.ID = id
	booking.CreatedAt = createdAt

	s.publishEvent(ctx, events.Event{
		Type:      events.EventBookingCreated,
		SubjectID: id,
		ActorUID:  requester.UID,
		Payload: events.BookingCreatedPayload{
			ExperienceID:    booking.ExperienceID,
			ExperienceTitle: booking.ExperienceTitle,
			ArtisanID:       booking.ArtisanID,
			NumberOfPeople:  booking.NumberOfPeople,
			TotalPrice:      booking.TotalPrice,
		},
	})
	return &booking, nil
}

// SetStatus applies a guarded status transition: pending may become
// confirmed or cancelled, confirmed may still be cancelled, and cancelled
// is terminal. The owning artisan may confirm or cancel; the requester may
// cancel their own booking; admins may do either.
func (s *BookingService) SetStatus(ctx context.Context, actor *domain.UserProfile, bookingID string, newStatus domain.BookingStatus) (*domain.Booking, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("sign in required")
	}
	if !domain.IsValidStatus(newStatus) {
		return nil, apperrors.NewValidationError("unknown booking status", map[string]any{"status": string(newStatus)})
	}

	booking, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperrors.NewNotFound("booking", map[string]any{"id": bookingID})
		}
		return nil, apperrors.NewPersistenceError(err)
	}

	if !s.canChangeStatus(actor, booking, newStatus) {
		return nil, apperrors.NewForbidden("not allowed to change this booking")
	}
	if !domain.IsValidTransition(booking.Status, newStatus) {
		return nil, apperrors.NewInvalidTransition(string(booking.Status), string(newStatus))
	}

	oldStatus := booking.Status
	if err := s.bookings.SetStatus(ctx, bookingID, newStatus); err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	booking.Status = newStatus

	s.publishEvent(ctx, events.Event{
		Type:      events.EventBookingStatusChanged,
		SubjectID: bookingID,
		ActorUID:  actor.UID,
		Payload: events.BookingStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return booking, nil
}

// ForViewer slices the live ledger down to what one viewer may see, then
// applies the active/past view split when requested.
func (s *BookingService) ForViewer(role domain.Role, viewerUID string, view domain.BookingView) []domain.Booking {
	scoped := FilterForViewer(role, viewerUID, s.Bookings())
	if view == "" {
		return scoped
	}
	return FilterByView(scoped, view)
}

// FilterForViewer returns the subset of bookings a viewer owns: requesters
// see bookings they made, artisans see bookings against their experiences.
// Identity values are compared after string coercion.
func FilterForViewer(role domain.Role, viewerUID string, bookings []domain.Booking) []domain.Booking {
	result := make([]domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		owner := b.UserID
		if role == domain.RoleArtisan {
			owner = b.ArtisanID
		}
		if domain.SameIdentity(owner, viewerUID) {
			result = append(result, b)
		}
	}
	return result
}

// FilterByView splits bookings into the active set (pending or confirmed)
// and the past set (cancelled).
func FilterByView(bookings []domain.Booking, view domain.BookingView) []domain.Booking {
	result := make([]domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		switch view {
		case domain.BookingViewActive:
			if b.Status == domain.BookingStatusPending || b.Status == domain.BookingStatusConfirmed {
				result = append(result, b)
			}
		case domain.BookingViewPast:
			if b.Status == domain.BookingStatusCancelled {
				result = append(result, b)
			}
		}
	}
	return result
}

func (s *BookingService) canChangeStatus(actor *domain.UserProfile, booking *domain.Booking, newStatus domain.BookingStatus) bool {
	if actor.Role == domain.RoleAdmin {
		return true
	}
	if actor.Role == domain.RoleArtisan && domain.SameIdentity(booking.ArtisanID, actor.UID) {
		return true
	}
	// requesters may only cancel their own booking
	return newStatus == domain.BookingStatusCancelled && domain.SameIdentity(booking.UserID, actor.UID)
}

func (s *BookingService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
