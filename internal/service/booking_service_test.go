package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/herafna/marketplace/internal/docstore"
	"github.com/herafna/marketplace/internal/domain"
	apperrors "github.com/herafna/marketplace/pkg/util"
)

var fakeStoreTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeBookingRepo struct {
	byID    map[string]domain.Booking
	nextID  int
	addErr  error
	added   []domain.Booking
	updated []string
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{byID: map[string]domain.Booking{}}
}

func (f *fakeBookingRepo) Add(_ context.Context, booking domain.Booking) (string, time.Time, error) {
	if f.addErr != nil {
		return "", time.Time{}, f.addErr
	}
	f.nextID++
	id := fmt.Sprintf("b-%d", f.nextID)
	booking.ID = id
	booking.CreatedAt = fakeStoreTime
	f.byID[id] = booking
	f.added = append(f.added, booking)
	return id, fakeStoreTime, nil
}

func (f *fakeBookingRepo) Get(_ context.Context, id string) (*domain.Booking, error) {
	booking, ok := f.byID[id]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return &booking, nil
}

func (f *fakeBookingRepo) SetStatus(_ context.Context, id string, status domain.BookingStatus) error {
	booking, ok := f.byID[id]
	if !ok {
		return docstore.ErrNotFound
	}
	booking.Status = status
	f.byID[id] = booking
	f.updated = append(f.updated, id)
	return nil
}

func (f *fakeBookingRepo) List(_ context.Context) ([]domain.Booking, error) {
	out := make([]domain.Booking, 0, len(f.byID))
	for _, b := range f.byID {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBookingRepo) Watch(func([]domain.Booking)) (*docstore.Subscription, error) {
	return nil, nil
}

func newTestBookingService(repo *fakeBookingRepo) *BookingService {
	return NewBookingService(BookingDependencies{
		BookingRepo: repo,
		Logger:      zap.NewNop(),
	})
}

func testRequester() *domain.UserProfile {
	return &domain.UserProfile{
		UID:      "u-1",
		FullName: "Sara",
		Email:    "sara@example.com",
		Role:     domain.RoleUser,
		Status:   domain.ProfileStatusApproved,
	}
}

func testExperience() *domain.Experience {
	return &domain.Experience{
		ID:             "e-1",
		ArtisanUID:     "a-1",
		ArtisanName:    "Noura",
		Title:          "Pottery Basics",
		PricePerPerson: 100,
		MaxPersons:     8,
	}
}

func validInput() BookingCreateInput {
	return BookingCreateInput{
		NumberOfPeople: 3,
		BookingDate:    "2026-02-01 10:00",
		UserName:       "Sara",
		UserEmail:      "sara@example.com",
		UserPhone:      "0500000000",
	}
}

func TestCreateComputesTotalPrice(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := newTestBookingService(repo)

	booking, err := svc.Create(context.Background(), testRequester(), testExperience(), validInput())
	require.NoError(t, err)

	assert.Equal(t, 300.0, booking.TotalPrice)
	assert.Equal(t, domain.BookingStatusPending, booking.Status)
	assert.Equal(t, "Pottery Basics", booking.ExperienceTitle)
	assert.Equal(t, "u-1", booking.UserID)
	assert.Equal(t, "a-1", booking.ArtisanID)
	assert.Equal(t, fakeStoreTime, booking.CreatedAt, "creation time comes from the store")
	require.Len(t, repo.added, 1)
}

func TestCreateRejectsMalformedEmail(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := newTestBookingService(repo)

	input := validInput()
	input.UserEmail = "abc"
	_, err := svc.Create(context.Background(), testRequester(), testExperience(), input)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Contains(t, domainErr.Details, "userEmail")
	assert.Empty(t, repo.added, "no document write on validation failure")
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BookingCreateInput)
		field  string
	}{
		{"missing name", func(in *BookingCreateInput) { in.UserName = "" }, "userName"},
		{"missing email", func(in *BookingCreateInput) { in.UserEmail = "" }, "userEmail"},
		{"zero people", func(in *BookingCreateInput) { in.NumberOfPeople = 0 }, "numberOfPeople"},
		{"missing date", func(in *BookingCreateInput) { in.BookingDate = "" }, "bookingDate"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeBookingRepo()
			svc := newTestBookingService(repo)

			input := validInput()
			tc.mutate(&input)
			_, err := svc.Create(context.Background(), testRequester(), testExperience(), input)

			var domainErr *apperrors.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Contains(t, domainErr.Details, tc.field)
			assert.Empty(t, repo.added)
		})
	}
}

func TestCreatePersistenceFailure(t *testing.T) {
	repo := newFakeBookingRepo()
	repo.addErr = errors.New("connection reset")
	svc := newTestBookingService(repo)

	_, err := svc.Create(context.Background(), testRequester(), testExperience(), validInput())

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PERSISTENCE_FAILED", domainErr.Code)
}

func TestSetStatusRoundTrip(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := newTestBookingService(repo)

	created, err := svc.Create(context.Background(), testRequester(), testExperience(), validInput())
	require.NoError(t, err)

	artisan := &domain.UserProfile{UID: "a-1", Role: domain.RoleArtisan, Status: domain.ProfileStatusApproved}

	confirmed, err := svc.SetStatus(context.Background(), artisan, created.ID, domain.BookingStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, confirmed.Status)

	stored, err := repo.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, stored.Status)
	assert.Equal(t, created.TotalPrice, stored.TotalPrice, "only status mutates")

	cancelled, err := svc.SetStatus(context.Background(), artisan, created.ID, domain.BookingStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, cancelled.Status)
}

func TestSetStatusRejectsInvalidTransitions(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := newTestBookingService(repo)
	artisan := &domain.UserProfile{UID: "a-1", Role: domain.RoleArtisan, Status: domain.ProfileStatusApproved}

	created, err := svc.Create(context.Background(), testRequester(), testExperience(), validInput())
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), artisan, created.ID, domain.BookingStatusCancelled)
	require.NoError(t, err)

	// cancelled is terminal
	_, err = svc.SetStatus(context.Background(), artisan, created.ID, domain.BookingStatusConfirmed)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)

	_, err = svc.SetStatus(context.Background(), artisan, created.ID, domain.BookingStatusPending)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
}

func TestSetStatusAuthorization(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := newTestBookingService(repo)

	created, err := svc.Create(context.Background(), testRequester(), testExperience(), validInput())
	require.NoError(t, err)

	// requesters cannot confirm, only cancel their own booking
	_, err = svc.SetStatus(context.Background(), testRequester(), created.ID, domain.BookingStatusConfirmed)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)

	_, err = svc.SetStatus(context.Background(), testRequester(), created.ID, domain.BookingStatusCancelled)
	assert.NoError(t, err)

	// strangers touch nothing
	stranger := &domain.UserProfile{UID: "u-99", Role: domain.RoleUser}
	other, err := svc.Create(context.Background(), testRequester(), testExperience(), validInput())
	require.NoError(t, err)
	_, err = svc.SetStatus(context.Background(), stranger, other.ID, domain.BookingStatusCancelled)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}

func TestSetStatusUnknownBooking(t *testing.T) {
	svc := newTestBookingService(newFakeBookingRepo())
	artisan := &domain.UserProfile{UID: "a-1", Role: domain.RoleArtisan}

	_, err := svc.SetStatus(context.Background(), artisan, "missing", domain.BookingStatusConfirmed)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestFilterForViewerPartition(t *testing.T) {
	bookings := []domain.Booking{
		{ID: "1", UserID: "u-1", ArtisanID: "a-1"},
		{ID: "2", UserID: "u-2", ArtisanID: "a-1"},
		{ID: "3", UserID: "u-1", ArtisanID: "a-2"},
	}

	asUser := FilterForViewer(domain.RoleUser, "u-1", bookings)
	require.Len(t, asUser, 2)
	for _, b := range asUser {
		assert.Equal(t, "u-1", b.UserID)
	}

	asArtisan := FilterForViewer(domain.RoleArtisan, "a-1", bookings)
	require.Len(t, asArtisan, 2)
	for _, b := range asArtisan {
		assert.Equal(t, "a-1", b.ArtisanID)
	}

	// every booking is reachable through exactly one requester and one artisan
	seen := map[string]int{}
	for _, uid := range []string{"u-1", "u-2"} {
		for _, b := range FilterForViewer(domain.RoleUser, uid, bookings) {
			seen[b.ID]++
		}
	}
	assert.Equal(t, map[string]int{"1": 1, "2": 1, "3": 1}, seen)
}

func TestFilterByViewPartition(t *testing.T) {
	bookings := []domain.Booking{
		{ID: "1", Status: domain.BookingStatusPending},
		{ID: "2", Status: domain.BookingStatusConfirmed},
		{ID: "3", Status: domain.BookingStatusCancelled},
	}

	active := FilterByView(bookings, domain.BookingViewActive)
	past := FilterByView(bookings, domain.BookingViewPast)

	require.Len(t, active, 2)
	require.Len(t, past, 1)
	assert.Equal(t, "3", past[0].ID)
	assert.Len(t, active, len(bookings)-len(past), "active and past partition the ledger")
}
