package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/herafna/marketplace/internal/docstore"
	"github.com/herafna/marketplace/internal/domain"
	"github.com/herafna/marketplace/internal/events"
	"github.com/herafna/marketplace/internal/media"
	"github.com/herafna/marketplace/internal/repository"
	apperrors "github.com/herafna/marketplace/pkg/util"
)

const catalogCacheKey = "catalog:experiences"
const catalogCacheTTL = 5 * time.Minute

// CatalogCache is the slice of the redis client the catalog snapshot cache
// needs. *redis.Client satisfies it.
type CatalogCache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// CatalogService owns the live experience view and experience creation.
type CatalogService struct {
	experiences repository.ExperienceRepository
	uploader    *media.Uploader
	cache       CatalogCache
	dispatcher  events.Dispatcher
	logger      *zap.Logger

	mu   sync.RWMutex
	view []domain.Experience
	sub  *docstore.Subscription
}

// CatalogDependencies bundles requirements for the catalog service.
type CatalogDependencies struct {
	ExperienceRepo repository.ExperienceRepository
	Uploader       *media.Uploader
	Cache          CatalogCache
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// ExperienceCreateInput describes a new experience submission.
type ExperienceCreateInput struct {
	Category       string
	Title          string
	MaxPersons     int
	AllowedGender  string
	City           string
	Description    string
	PricePerPerson float64
	DurationHours  float64
	ImageDataURI   string
}

// ExperienceFilter is the display filter applied over the live view.
type ExperienceFilter struct {
	Search   string
	Category string
	City     string
	MinPrice float64
	MaxPrice float64
}

// NewCatalogService constructs the service.
func NewCatalogService(deps CatalogDependencies) *CatalogService {
	return &CatalogService{
		experiences: deps.ExperienceRepo,
		uploader:    deps.Uploader,
		cache:       deps.Cache,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
	}
}

// Start subscribes the live view. The subscription callback owns the view
// and replaces it whole on every delivery. The last cached snapshot seeds
// the view so reads before the first delivery are served warm.
func (s *CatalogService) Start() error {
	if cached, ok := s.cachedSnapshot(); ok {
		s.mu.Lock()
		if len(s.view) == 0 {
			s.view = cached
		}
		s.mu.Unlock()
	}

	sub, err := s.experiences.Watch(func(snapshot []domain.Experience) {
		s.mu.Lock()
		s.view = snapshot
		s.mu.Unlock()
		s.cacheSnapshot(snapshot)
	})
	if err != nil {
		return err
	}
	s.sub = sub
	return nil
}

// Stop releases the live view subscription.
func (s *CatalogService) Stop() {
	if s.sub != nil {
		s.sub.Cancel()
	}
}

// Experiences returns the current live view, newest first.
func (s *CatalogService) Experiences() []domain.Experience {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Experience, len(s.view))
	copy(out, s.view)
	return out
}

// ExperiencesForOwner returns the subset of the live view owned by uid.
func (s *CatalogService) ExperiencesForOwner(uid string) []domain.Experience {
	all := s.Experiences()
	owned := make([]domain.Experience, 0, len(all))
	for _, exp := range all {
		if domain.SameIdentity(exp.ArtisanUID, uid) {
			owned = append(owned, exp)
		}
	}
	return owned
}

// FilterExperiences is a pure predicate over a slice of experiences: text
// search against title and artisan name, category and city matching, and
// inclusive price range bounds.
func FilterExperiences(experiences []domain.Experience, filter ExperienceFilter) []domain.Experience {
	result := make([]domain.Experience, 0, len(experiences))
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, exp := range experiences {
		if search != "" &&
			!strings.Contains(strings.ToLower(exp.Title), search) &&
			!strings.Contains(strings.ToLower(exp.ArtisanName), search) {
			continue
		}
		if !matchChoice(filter.Category, exp.Category) {
			continue
		}
		if !matchChoice(filter.City, exp.City) {
			continue
		}
		if exp.PricePerPerson < filter.MinPrice {
			continue
		}
		if filter.MaxPrice > 0 && exp.PricePerPerson > filter.MaxPrice {
			continue
		}
		result = append(result, exp)
	}
	return result
}

// CreateExperience uploads the image, then writes the experience document.
// Upload failure aborts the whole creation; an experience never exists with
// a pending image.
func (s *CatalogService) CreateExperience(ctx context.Context, owner *domain.UserProfile, input ExperienceCreateInput) (*domain.Experience, error) {
	if owner == nil || !owner.IsApprovedArtisan() {
		return nil, apperrors.NewForbidden("approved artisan required")
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Category) == "" || strings.TrimSpace(input.City) == "" {
		return nil, apperrors.NewValidationError("title, category and city required", nil)
	}
	if input.MaxPersons < 1 {
		return nil, apperrors.NewValidationError("max persons must be at least 1", map[string]any{"field": "maxPersons"})
	}
	if input.PricePerPerson < 0 {
		return nil, apperrors.NewValidationError("price per person cannot be negative", map[string]any{"field": "pricePerPerson"})
	}
	if input.DurationHours <= 0 {
		return nil, apperrors.NewValidationError("duration must be positive", map[string]any{"field": "durationHours"})
	}

	imageURL := ""
	if input.ImageDataURI != "" {
		url, err := s.uploader.Upload(ctx, input.ImageDataURI)
		if err != nil {
			return nil, err
		}
		imageURL = url
	}

	exp := domain.Experience{
		ArtisanUID:     owner.UID,
		ArtisanName:    owner.FullName,
		Category:       strings.TrimSpace(input.Category),
		Title:          strings.TrimSpace(input.Title),
		MaxPersons:     input.MaxPersons,
		AllowedGender:  input.AllowedGender,
		City:           strings.TrimSpace(input.City),
		Description:    strings.TrimSpace(input.Description),
		PricePerPerson: input.PricePerPerson,
		DurationHours:  input.DurationHours,
		ImageURL:       imageURL,
	}

	id, createdAt, err := s.experiences.Add(ctx, exp)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	exp.ID = id
	exp.CreatedAt = createdAt

	s.publishEvent(ctx, events.Event{
		Type:      events.EventExperiencePublished,
		SubjectID: id,
		ActorUID:  owner.UID,
		Payload: events.ExperiencePublishedPayload{
			Title:          exp.Title,
			Category:       exp.Category,
			City:           exp.City,
			PricePerPerson: exp.PricePerPerson,
		},
	})
	return &exp, nil
}

// GetExperience fetches one experience document.
func (s *CatalogService) GetExperience(ctx context.Context, id string) (*domain.Experience, error) {
	exp, err := s.experiences.Get(ctx, id)
	if err != nil {
		if err == docstore.ErrNotFound {
			return nil, apperrors.NewNotFound("experience", map[string]any{"id": id})
		}
		return nil, apperrors.NewPersistenceError(err)
	}
	return exp, nil
}

func (s *CatalogService) cachedSnapshot() ([]domain.Experience, bool) {
	if s.cache == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	raw, err := s.cache.Get(ctx, catalogCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var snapshot []domain.Experience
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		s.logger.Debug("catalog cache entry unreadable", zap.Error(err))
		return nil, false
	}
	return snapshot, true
}

func (s *CatalogService) cacheSnapshot(snapshot []domain.Experience) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.cache.Set(ctx, catalogCacheKey, raw, catalogCacheTTL).Err(); err != nil {
		s.logger.Debug("catalog cache write failed", zap.Error(err))
	}
}

func (s *CatalogService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}

func matchChoice(want, have string) bool {
	want = strings.TrimSpace(want)
	if want == "" || strings.EqualFold(want, "all") {
		return true
	}
	return strings.EqualFold(want, have)
}
