package dto

import (
	"time"

	"github.com/herafna/marketplace/internal/domain"
)

// CreateExperienceRequest payload for publishing an experience. Image is an
// optional base64 data URI; it is uploaded to the image host before the
// experience document is written.
type CreateExperienceRequest struct {
	Category       string  `json:"category"`
	Title          string  `json:"title"`
	MaxPersons     int     `json:"max_persons"`
	AllowedGender  string  `json:"allowed_gender"`
	City           string  `json:"city"`
	Description    string  `json:"description"`
	PricePerPerson float64 `json:"price_per_person"`
	DurationHours  float64 `json:"duration_hours"`
	Image          string  `json:"image,omitempty"`
}

// ExperienceResponse is the outward shape of an experience.
type ExperienceResponse struct {
	ID             string    `json:"id"`
	ArtisanUID     string    `json:"artisan_uid"`
	ArtisanName    string    `json:"artisan_name"`
	Category       string    `json:"category"`
	Title          string    `json:"title"`
	MaxPersons     int       `json:"max_persons"`
	AllowedGender  string    `json:"allowed_gender"`
	City           string    `json:"city"`
	Description    string    `json:"description"`
	PricePerPerson float64   `json:"price_per_person"`
	DurationHours  float64   `json:"duration_hours"`
	ImageURL       string    `json:"image_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewExperienceResponse maps a domain experience to its response shape.
func NewExperienceResponse(e *domain.Experience) ExperienceResponse {
	return ExperienceResponse{
		ID:             e.ID,
		ArtisanUID:     e.ArtisanUID,
		ArtisanName:    e.ArtisanName,
		Category:       e.Category,
		Title:          e.Title,
		MaxPersons:     e.MaxPersons,
		AllowedGender:  e.AllowedGender,
		City:           e.City,
		Description:    e.Description,
		PricePerPerson: e.PricePerPerson,
		DurationHours:  e.DurationHours,
		ImageURL:       e.ImageURL,
		CreatedAt:      e.CreatedAt,
	}
}
