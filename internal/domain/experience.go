package domain

import "time"

// Experience is an offerable craft activity owned by one artisan.
type Experience struct {
	ID             string
	ArtisanUID     string
	ArtisanName    string
	Category       string
	Title          string
	MaxPersons     int
	AllowedGender  string
	City           string
	Description    string
	PricePerPerson float64
	DurationHours  float64
	ImageURL       string
	CreatedAt      time.Time
}
