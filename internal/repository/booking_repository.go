package repository

import (
	"context"
	"time"

	"github.com/herafna/marketplace/internal/docstore"
	"github.com/herafna/marketplace/internal/domain"
)

// BookingRepository persists booking documents. Bookings are never deleted;
// only the status field mutates after creation.
type BookingRepository interface {
	Add(ctx context.Context, booking domain.Booking) (string, time.Time, error)
	Get(ctx context.Context, id string) (*domain.Booking, error)
	SetStatus(ctx context.Context, id string, status domain.BookingStatus) error
	List(ctx context.Context) ([]domain.Booking, error)
	Watch(fn func([]domain.Booking)) (*docstore.Subscription, error)
}

type bookingRepository struct {
	store *docstore.Client
}

// NewBookingRepository returns a document-store backed implementation.
func NewBookingRepository(store *docstore.Client) BookingRepository {
	return &bookingRepository{store: store}
}

func (r *bookingRepository) Add(ctx context.Context, booking domain.Booking) (string, time.Time, error) {
	return r.store.Add(ctx, docstore.CollectionBookings, domain.EncodeBooking(booking))
}

func (r *bookingRepository) Get(ctx context.Context, id string) (*domain.Booking, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionBookings, id)
	if err != nil {
		return nil, err
	}
	booking := domain.DecodeBooking(*doc)
	return &booking, nil
}

func (r *bookingRepository) SetStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	return r.store.Update(ctx, docstore.CollectionBookings, id, map[string]any{"status": string(status)})
}

func (r *bookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	snap, err := r.store.List(ctx, docstore.CollectionBookings)
	if err != nil {
		return nil, err
	}
	return decodeBookings(snap), nil
}

func (r *bookingRepository) Watch(fn func([]domain.Booking)) (*docstore.Subscription, error) {
	return r.store.Watch(docstore.CollectionBookings, func(snap docstore.Snapshot) {
		fn(decodeBookings(snap))
	})
}

func decodeBookings(snap docstore.Snapshot) []domain.Booking {
	result := make([]domain.Booking, 0, len(snap))
	for _, doc := range snap {
		result = append(result, domain.DecodeBooking(doc))
	}
	return result
}
