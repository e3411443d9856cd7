package dto

import (
	"time"

	"github.com/herafna/marketplace/internal/domain"
)

// CreateBookingRequest payload for reserving an experience.
type CreateBookingRequest struct {
	ExperienceID   string `json:"experience_id"`
	NumberOfPeople int    `json:"number_of_people"`
	BookingDate    string `json:"booking_date"`
	UserName       string `json:"user_name"`
	UserEmail      string `json:"user_email"`
	UserPhone      string `json:"user_phone"`
}

// UpdateBookingStatusRequest payload for status transitions.
type UpdateBookingStatusRequest struct {
	Status string `json:"status"`
}

// BookingResponse is the outward shape of a booking.
type BookingResponse struct {
	ID              string    `json:"id"`
	ExperienceID    string    `json:"experience_id,omitempty"`
	ExperienceTitle string    `json:"experience_title"`
	UserID          string    `json:"user_id"`
	ArtisanID       string    `json:"artisan_id"`
	BookingDate     string    `json:"booking_date"`
	TotalPrice      float64   `json:"total_price"`
	NumberOfPeople  int       `json:"number_of_people"`
	Status          string    `json:"status"`
	UserName        string    `json:"user_name,omitempty"`
	UserEmail       string    `json:"user_email,omitempty"`
	UserPhone       string    `json:"user_phone,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewBookingResponse maps a domain booking to its response shape.
func NewBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		ExperienceID:    b.ExperienceID,
		ExperienceTitle: b.ExperienceTitle,
		UserID:          b.UserID,
		ArtisanID:       b.ArtisanID,
		BookingDate:     b.BookingDate,
		TotalPrice:      b.TotalPrice,
		NumberOfPeople:  b.NumberOfPeople,
		Status:          string(b.Status),
		UserName:        b.UserName,
		UserEmail:       b.UserEmail,
		UserPhone:       b.UserPhone,
		CreatedAt:       b.CreatedAt,
	}
}
