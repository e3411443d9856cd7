package domain

import (
	"strconv"

	"github.com/herafna/marketplace/internal/docstore"
)

// Decoding applies one defaulting policy at the read boundary: missing or
// mistyped fields fall back to zero values, numbers are coerced from any
// numeric or numeric-string representation, and identity fields tolerate
// the historical spelling variants that exist in stored documents.

// DecodeProfile converts a stored user document into a typed profile.
func DecodeProfile(doc docstore.Document) UserProfile {
	f := doc.Fields
	profile := UserProfile{
		UID:         stringField(f, "uid"),
		FullName:    stringField(f, "fullName"),
		Email:       stringField(f, "email"),
		PhoneNumber: stringField(f, "phoneNumber"),
		City:        stringField(f, "city"),
		AccountType: AccountType(stringField(f, "accountType")),
		AvatarURL:   stringField(f, "avatarUrl"),
		Role:        Role(stringField(f, "role")),
		Status:      ProfileStatus(stringField(f, "status")),
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
	if profile.UID == "" {
		profile.UID = doc.ID
	}
	if profile.AccountType == "" {
		profile.AccountType = AccountTypeUser
	}
	if profile.Role == "" {
		profile.Role = DefaultRole(profile.AccountType)
	}
	if profile.Status == "" {
		profile.Status = DefaultStatus(profile.AccountType)
	}
	return profile
}

// EncodeProfile produces the canonical document fields for a profile.
func EncodeProfile(p UserProfile) map[string]any {
	return map[string]any{
		"uid":         p.UID,
		"fullName":    p.FullName,
		"email":       p.Email,
		"phoneNumber": p.PhoneNumber,
		"city":        p.City,
		"accountType": string(p.AccountType),
		"avatarUrl":   p.AvatarURL,
		"role":        string(p.Role),
		"status":      string(p.Status),
	}
}

// DecodeExperience converts a stored experience document.
func DecodeExperience(doc docstore.Document) Experience {
	f := doc.Fields
	return Experience{
		ID:             doc.ID,
		ArtisanUID:     firstStringField(f, "artisanUid", "artisanId", "artisanID"),
		ArtisanName:    stringField(f, "artisanName"),
		Category:       stringField(f, "category"),
		Title:          stringField(f, "title"),
		MaxPersons:     intField(f, "maxPersons", 1),
		AllowedGender:  stringField(f, "allowedGender"),
		City:           stringField(f, "city"),
		Description:    stringField(f, "description"),
		PricePerPerson: numberField(f, "pricePerPerson"),
		DurationHours:  numberField(f, "durationHours"),
		ImageURL:       stringField(f, "image"),
		CreatedAt:      doc.CreatedAt,
	}
}

// EncodeExperience produces the canonical document fields for an experience.
func EncodeExperience(e Experience) map[string]any {
	return map[string]any{
		"artisanUid":     e.ArtisanUID,
		"artisanName":    e.ArtisanName,
		"category":       e.Category,
		"title":          e.Title,
		"maxPersons":     e.MaxPersons,
		"allowedGender":  e.AllowedGender,
		"city":           e.City,
		"description":    e.Description,
		"pricePerPerson": e.PricePerPerson,
		"durationHours":  e.DurationHours,
		"image":          e.ImageURL,
	}
}

// DecodeBooking converts a stored booking document.
func DecodeBooking(doc docstore.Document) Booking {
	f := doc.Fields
	booking := Booking{
		ID:              doc.ID,
		ExperienceID:    stringField(f, "experienceId"),
		ExperienceTitle: stringField(f, "experienceTitle"),
		UserID:          firstStringField(f, "userID", "userId"),
		ArtisanID:       firstStringField(f, "artisanID", "artisanId", "artisanUid"),
		BookingDate:     stringField(f, "bookingDate"),
		TotalPrice:      numberField(f, "totalPrice"),
		NumberOfPeople:  intField(f, "numberOfPeople", 1),
		Status:          BookingStatus(stringField(f, "status")),
		UserName:        stringField(f, "userName"),
		UserEmail:       stringField(f, "userEmail"),
		UserPhone:       stringField(f, "userPhone"),
		CreatedAt:       doc.CreatedAt,
	}
	if booking.Status == "" {
		booking.Status = BookingStatusPending
	}
	return booking
}

// EncodeBooking produces the canonical document fields for a booking.
func EncodeBooking(b Booking) map[string]any {
	return map[string]any{
		"experienceId":    b.ExperienceID,
		"experienceTitle": b.ExperienceTitle,
		"userID":          b.UserID,
		"artisanID":       b.ArtisanID,
		"bookingDate":     b.BookingDate,
		"totalPrice":      b.TotalPrice,
		"numberOfPeople":  b.NumberOfPeople,
		"status":          string(b.Status),
		"userName":        b.UserName,
		"userEmail":       b.UserEmail,
		"userPhone":       b.UserPhone,
	}
}

// SameIdentity compares two identity values after string coercion.
func SameIdentity(a, b string) bool {
	return a != "" && a == b
}

func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func firstStringField(fields map[string]any, keys ...string) string {
	for _, key := range keys {
		if v := stringField(fields, key); v != "" {
			return v
		}
	}
	return ""
}

func numberField(fields map[string]any, key string) float64 {
	switch v := fields[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func intField(fields map[string]any, key string, fallback int) int {
	switch v := fields[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case string:
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fallback
		}
		return parsed
	default:
		return fallback
	}
}
