package domain

import "time"

// BookingStatus enumerates booking lifecycle states.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// BookingView selects which slice of a viewer's bookings to show.
type BookingView string

const (
	BookingViewActive BookingView = "active"
	BookingViewPast   BookingView = "past"
)

// Booking is a reservation of one experience by one requester. Experience
// title, artisan identity and requester contact details are denormalized
// copies taken at creation time.
type Booking struct {
	ID              string
	ExperienceID    string
	ExperienceTitle string
	UserID          string
	ArtisanID       string
	BookingDate     string
	TotalPrice      float64
	NumberOfPeople  int
	Status          BookingStatus
	UserName        string
	UserEmail       string
	UserPhone       string
	CreatedAt       time.Time
}

var allowedTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCancelled},
	BookingStatusCancelled: {},
}

// IsValidTransition reports whether the booking lifecycle permits moving
// from current to next.
func IsValidTransition(current, next BookingStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IsValidStatus reports whether s is one of the known booking states.
func IsValidStatus(s BookingStatus) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}
