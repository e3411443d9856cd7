package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herafna/marketplace/internal/docstore"
)

func TestDecodeProfileDefaults(t *testing.T) {
	// a document written before role/status existed: artisan account,
	// neither field present
	doc := docstore.Document{
		ID: "uid-1",
		Fields: map[string]any{
			"fullName":    "Noura",
			"email":       "noura@example.com",
			"accountType": "artisan",
		},
		CreatedAt: time.Now(),
	}

	profile := DecodeProfile(doc)
	assert.Equal(t, "uid-1", profile.UID)
	assert.Equal(t, RoleArtisan, profile.Role)
	assert.Equal(t, ProfileStatusPending, profile.Status)
}

func TestDecodeProfilePlainUserDefaults(t *testing.T) {
	doc := docstore.Document{ID: "uid-2", Fields: map[string]any{}}

	profile := DecodeProfile(doc)
	assert.Equal(t, "uid-2", profile.UID)
	assert.Equal(t, AccountTypeUser, profile.AccountType)
	assert.Equal(t, RoleUser, profile.Role)
	assert.Equal(t, ProfileStatusApproved, profile.Status)
}

func TestDecodeBookingOwnerFieldTolerance(t *testing.T) {
	// the legacy write path used artisanUid / userId spellings
	doc := docstore.Document{
		ID: "b-1",
		Fields: map[string]any{
			"experienceTitle": "Pottery Basics",
			"userId":          "u-9",
			"artisanUid":      "a-3",
			"totalPrice":      float64(200),
			"numberOfPeople":  float64(2),
			"status":          "pending",
		},
	}

	booking := DecodeBooking(doc)
	assert.Equal(t, "u-9", booking.UserID)
	assert.Equal(t, "a-3", booking.ArtisanID)
}

func TestDecodeBookingCanonicalFieldsWin(t *testing.T) {
	doc := docstore.Document{
		ID: "b-2",
		Fields: map[string]any{
			"userID":    "canonical",
			"userId":    "legacy",
			"artisanID": "owner",
		},
	}

	booking := DecodeBooking(doc)
	assert.Equal(t, "canonical", booking.UserID)
	assert.Equal(t, "owner", booking.ArtisanID)
}

func TestDecodeBookingDefaulting(t *testing.T) {
	booking := DecodeBooking(docstore.Document{ID: "b-3", Fields: map[string]any{}})
	assert.Equal(t, BookingStatusPending, booking.Status)
	assert.Equal(t, 1, booking.NumberOfPeople)
	assert.Zero(t, booking.TotalPrice)
}

func TestDecodeExperienceNumericCoercion(t *testing.T) {
	// numbers arrive as json float64, historic documents carried strings
	doc := docstore.Document{
		ID: "e-1",
		Fields: map[string]any{
			"title":          "Weaving",
			"artisanId":      "a-7",
			"maxPersons":     "6",
			"pricePerPerson": "150",
			"durationHours":  float64(2.5),
		},
	}

	exp := DecodeExperience(doc)
	assert.Equal(t, "a-7", exp.ArtisanUID)
	assert.Equal(t, 6, exp.MaxPersons)
	assert.Equal(t, 150.0, exp.PricePerPerson)
	assert.Equal(t, 2.5, exp.DurationHours)
}

func TestEncodeDecodeBooking(t *testing.T) {
	in := Booking{
		ExperienceID:    "e-1",
		ExperienceTitle: "Pottery Basics",
		UserID:          "u-1",
		ArtisanID:       "a-1",
		BookingDate:     "2026-02-01 10:00",
		TotalPrice:      200,
		NumberOfPeople:  2,
		Status:          BookingStatusPending,
		UserName:        "Sara",
		UserEmail:       "sara@example.com",
	}

	out := DecodeBooking(docstore.Document{ID: "b-1", Fields: EncodeBooking(in)})
	require.Equal(t, in.ExperienceTitle, out.ExperienceTitle)
	require.Equal(t, in.UserID, out.UserID)
	require.Equal(t, in.ArtisanID, out.ArtisanID)
	require.Equal(t, in.TotalPrice, out.TotalPrice)
	require.Equal(t, in.NumberOfPeople, out.NumberOfPeople)
	require.Equal(t, in.Status, out.Status)
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("sara@example.com"))
	assert.False(t, ValidEmail("abc"))
	assert.False(t, ValidEmail("a b@example.com"))
	assert.False(t, ValidEmail("sara@example"))
}
