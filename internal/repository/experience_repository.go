package repository

import (
	"context"
	"time"

	"github.com/herafna/marketplace/internal/docstore"
	"github.com/herafna/marketplace/internal/domain"
)

// ExperienceRepository persists experience documents.
type ExperienceRepository interface {
	Add(ctx context.Context, exp domain.Experience) (string, time.Time, error)
	Get(ctx context.Context, id string) (*domain.Experience, error)
	List(ctx context.Context) ([]domain.Experience, error)
	Watch(fn func([]domain.Experience)) (*docstore.Subscription, error)
}

type experienceRepository struct {
	store *docstore.Client
}

// NewExperienceRepository returns a document-store backed implementation.
func NewExperienceRepository(store *docstore.Client) ExperienceRepository {
	return &experienceRepository{store: store}
}

func (r *experienceRepository) Add(ctx context.Context, exp domain.Experience) (string, time.Time, error) {
	return r.store.Add(ctx, docstore.CollectionExperiences, domain.EncodeExperience(exp))
}

func (r *experienceRepository) Get(ctx context.Context, id string) (*domain.Experience, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionExperiences, id)
	if err != nil {
		return nil, err
	}
	exp := domain.DecodeExperience(*doc)
	return &exp, nil
}

func (r *experienceRepository) List(ctx context.Context) ([]domain.Experience, error) {
	snap, err := r.store.List(ctx, docstore.CollectionExperiences)
	if err != nil {
		return nil, err
	}
	return decodeExperiences(snap), nil
}

func (r *experienceRepository) Watch(fn func([]domain.Experience)) (*docstore.Subscription, error) {
	return r.store.Watch(docstore.CollectionExperiences, func(snap docstore.Snapshot) {
		fn(decodeExperiences(snap))
	})
}

func decodeExperiences(snap docstore.Snapshot) []domain.Experience {
	result := make([]domain.Experience, 0, len(snap))
	for _, doc := range snap {
		result = append(result, domain.DecodeExperience(doc))
	}
	return result
}
