package events

import (
	"time"

	"github.com/herafna/marketplace/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventBookingCreated         EventType = "booking_created"
	EventBookingStatusChanged   EventType = "booking_status_changed"
	EventExperiencePublished    EventType = "experience_published"
	EventProfileProvisioned     EventType = "profile_provisioned"
	EventPasswordResetRequested EventType = "password_reset_requested"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	ActorUID  string      `json:"actor_uid"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// BookingCreatedPayload payload.
type BookingCreatedPayload struct {
	ExperienceID    string  `json:"experience_id,omitempty"`
	ExperienceTitle string  `json:"experience_title"`
	ArtisanID       string  `json:"artisan_id"`
	NumberOfPeople  int     `json:"number_of_people"`
	TotalPrice      float64 `json:"total_price"`
}

// BookingStatusChangedPayload payload.
type BookingStatusChangedPayload struct {
	OldStatus domain.BookingStatus `json:"old_status"`
	NewStatus domain.BookingStatus `json:"new_status"`
}

// ExperiencePublishedPayload payload.
type ExperiencePublishedPayload struct {
	Title          string  `json:"title"`
	Category       string  `json:"category"`
	City           string  `json:"city"`
	PricePerPerson float64 `json:"price_per_person"`
}

// ProfileProvisionedPayload payload.
type ProfileProvisionedPayload struct {
	AccountType domain.AccountType `json:"account_type"`
	Role        domain.Role        `json:"role"`
}

// PasswordResetRequestedPayload payload. The token rides on the event so a
// delivery channel can put it in the reset link.
type PasswordResetRequestedPayload struct {
	Email string `json:"email"`
	Token string `json:"token"`
}
