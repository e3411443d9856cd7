package repository

import (
	"context"

	"github.com/herafna/marketplace/internal/docstore"
	"github.com/herafna/marketplace/internal/domain"
)

// ProfileRepository reads and writes profile documents keyed by identity.
type ProfileRepository interface {
	Get(ctx context.Context, uid string) (*domain.UserProfile, error)
	Create(ctx context.Context, profile domain.UserProfile) (*domain.UserProfile, error)
	Update(ctx context.Context, uid string, partial map[string]any) error
}

type profileRepository struct {
	store *docstore.Client
}

// NewProfileRepository returns a document-store backed implementation.
func NewProfileRepository(store *docstore.Client) ProfileRepository {
	return &profileRepository{store: store}
}

func (r *profileRepository) Get(ctx context.Context, uid string) (*domain.UserProfile, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionUsers, uid)
	if err != nil {
		return nil, err
	}
	profile := domain.DecodeProfile(*doc)
	return &profile, nil
}

// Create writes a full profile document. Empty role and status are filled
// from the account type before the write.
func (r *profileRepository) Create(ctx context.Context, profile domain.UserProfile) (*domain.UserProfile, error) {
	if profile.Role == "" {
		profile.Role = domain.DefaultRole(profile.AccountType)
	}
	if profile.Status == "" {
		profile.Status = domain.DefaultStatus(profile.AccountType)
	}
	if err := r.store.Set(ctx, docstore.CollectionUsers, profile.UID, domain.EncodeProfile(profile)); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update merges partial fields. The identity key is never updatable.
func (r *profileRepository) Update(ctx context.Context, uid string, partial map[string]any) error {
	delete(partial, "uid")
	return r.store.Update(ctx, docstore.CollectionUsers, uid, partial)
}
