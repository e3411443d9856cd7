package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/herafna/marketplace/internal/docstore"
	"github.com/herafna/marketplace/internal/domain"
	apperrors "github.com/herafna/marketplace/pkg/util"
)

type fakeExperienceRepo struct {
	byID    map[string]domain.Experience
	nextID  int
	watchFn func([]domain.Experience)
}

func newFakeExperienceRepo() *fakeExperienceRepo {
	return &fakeExperienceRepo{byID: map[string]domain.Experience{}}
}

func (f *fakeExperienceRepo) Add(_ context.Context, exp domain.Experience) (string, time.Time, error) {
	f.nextID++
	id := fmt.Sprintf("e-%d", f.nextID)
	exp.ID = id
	exp.CreatedAt = fakeStoreTime
	f.byID[id] = exp
	return id, fakeStoreTime, nil
}

func (f *fakeExperienceRepo) Get(_ context.Context, id string) (*domain.Experience, error) {
	exp, ok := f.byID[id]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return &exp, nil
}

func (f *fakeExperienceRepo) List(_ context.Context) ([]domain.Experience, error) {
	out := make([]domain.Experience, 0, len(f.byID))
	for _, e := range f.byID {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeExperienceRepo) Watch(fn func([]domain.Experience)) (*docstore.Subscription, error) {
	f.watchFn = fn
	return nil, nil
}

// fakeCatalogCache is an in-memory stand-in for the redis snapshot cache.
type fakeCatalogCache struct {
	data map[string]string
}

func newFakeCatalogCache() *fakeCatalogCache {
	return &fakeCatalogCache{data: map[string]string{}}
}

func (f *fakeCatalogCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	f.data[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeCatalogCache) Get(_ context.Context, key string) *redis.StringCmd {
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func newTestCatalogService(repo *fakeExperienceRepo) *CatalogService {
	return NewCatalogService(CatalogDependencies{
		ExperienceRepo: repo,
		Logger:         zap.NewNop(),
	})
}

func sampleCatalog() []domain.Experience {
	return []domain.Experience{
		{ID: "1", Title: "Pottery Basics", ArtisanName: "Noura", Category: "pottery", City: "Riyadh", PricePerPerson: 150},
		{ID: "2", Title: "Sadu Weaving", ArtisanName: "Huda", Category: "weaving", City: "Jeddah", PricePerPerson: 250},
		{ID: "3", Title: "Clay Sculpting", ArtisanName: "Noura", Category: "pottery", City: "Riyadh", PricePerPerson: 500},
	}
}

func TestFilterExperiencesPriceBounds(t *testing.T) {
	catalog := sampleCatalog()

	inRange := FilterExperiences(catalog, ExperienceFilter{MinPrice: 0, MaxPrice: 400})
	require.Len(t, inRange, 2)
	assert.Equal(t, "1", inRange[0].ID)
	assert.Equal(t, "2", inRange[1].ID)

	narrower := FilterExperiences(catalog, ExperienceFilter{MinPrice: 200, MaxPrice: 400})
	require.Len(t, narrower, 1)
	assert.Equal(t, "2", narrower[0].ID)

	// bounds are inclusive on both ends
	exact := FilterExperiences(catalog, ExperienceFilter{MinPrice: 150, MaxPrice: 150})
	require.Len(t, exact, 1)
	assert.Equal(t, "1", exact[0].ID)

	// zero max price means unbounded
	all := FilterExperiences(catalog, ExperienceFilter{})
	assert.Len(t, all, 3)
}

func TestFilterExperiencesSearch(t *testing.T) {
	catalog := sampleCatalog()

	byTitle := FilterExperiences(catalog, ExperienceFilter{Search: "pottery"})
	require.Len(t, byTitle, 1)
	assert.Equal(t, "1", byTitle[0].ID)

	byArtisan := FilterExperiences(catalog, ExperienceFilter{Search: "noura"})
	assert.Len(t, byArtisan, 2)

	none := FilterExperiences(catalog, ExperienceFilter{Search: "falconry"})
	assert.Empty(t, none)
}

func TestFilterExperiencesChoices(t *testing.T) {
	catalog := sampleCatalog()

	pottery := FilterExperiences(catalog, ExperienceFilter{Category: "pottery"})
	assert.Len(t, pottery, 2)

	jeddah := FilterExperiences(catalog, ExperienceFilter{City: "jeddah"})
	require.Len(t, jeddah, 1)
	assert.Equal(t, "2", jeddah[0].ID)

	// "all" is the wildcard sentinel
	assert.Len(t, FilterExperiences(catalog, ExperienceFilter{Category: "all", City: "All"}), 3)

	combined := FilterExperiences(catalog, ExperienceFilter{Category: "pottery", City: "Riyadh", MaxPrice: 200})
	require.Len(t, combined, 1)
	assert.Equal(t, "1", combined[0].ID)
}

func approvedArtisan() *domain.UserProfile {
	return &domain.UserProfile{
		UID:      "a-1",
		FullName: "Noura",
		Role:     domain.RoleArtisan,
		Status:   domain.ProfileStatusApproved,
	}
}

func experienceInput() ExperienceCreateInput {
	return ExperienceCreateInput{
		Category:       "pottery",
		Title:          "Pottery Basics",
		MaxPersons:     8,
		AllowedGender:  "any",
		City:           "Riyadh",
		Description:    "Hands-on wheel throwing.",
		PricePerPerson: 150,
		DurationHours:  2,
	}
}

func TestCreateExperience(t *testing.T) {
	repo := newFakeExperienceRepo()
	svc := newTestCatalogService(repo)

	exp, err := svc.CreateExperience(context.Background(), approvedArtisan(), experienceInput())
	require.NoError(t, err)

	assert.NotEmpty(t, exp.ID)
	assert.Equal(t, "a-1", exp.ArtisanUID)
	assert.Equal(t, "Noura", exp.ArtisanName)
	assert.Equal(t, 150.0, exp.PricePerPerson)
	assert.Equal(t, fakeStoreTime, exp.CreatedAt, "creation time comes from the store")

	stored, err := repo.Get(context.Background(), exp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pottery Basics", stored.Title)
}

func TestCreateExperienceRequiresApprovedArtisan(t *testing.T) {
	repo := newFakeExperienceRepo()
	svc := newTestCatalogService(repo)

	pending := approvedArtisan()
	pending.Status = domain.ProfileStatusPending
	_, err := svc.CreateExperience(context.Background(), pending, experienceInput())
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)

	plainUser := &domain.UserProfile{UID: "u-1", Role: domain.RoleUser, Status: domain.ProfileStatusApproved}
	_, err = svc.CreateExperience(context.Background(), plainUser, experienceInput())
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)

	assert.Empty(t, repo.byID)
}

func TestCreateExperienceValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ExperienceCreateInput)
	}{
		{"missing title", func(in *ExperienceCreateInput) { in.Title = "  " }},
		{"missing category", func(in *ExperienceCreateInput) { in.Category = "" }},
		{"missing city", func(in *ExperienceCreateInput) { in.City = "" }},
		{"zero max persons", func(in *ExperienceCreateInput) { in.MaxPersons = 0 }},
		{"negative price", func(in *ExperienceCreateInput) { in.PricePerPerson = -1 }},
		{"zero duration", func(in *ExperienceCreateInput) { in.DurationHours = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeExperienceRepo()
			svc := newTestCatalogService(repo)

			input := experienceInput()
			tc.mutate(&input)
			_, err := svc.CreateExperience(context.Background(), approvedArtisan(), input)

			var domainErr *apperrors.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
			assert.Empty(t, repo.byID)
		})
	}
}

func TestExperiencesForOwner(t *testing.T) {
	svc := newTestCatalogService(newFakeExperienceRepo())
	svc.view = []domain.Experience{
		{ID: "1", ArtisanUID: "a-1"},
		{ID: "2", ArtisanUID: "a-2"},
		{ID: "3", ArtisanUID: "a-1"},
	}

	owned := svc.ExperiencesForOwner("a-1")
	require.Len(t, owned, 2)
	assert.Equal(t, "1", owned[0].ID)
	assert.Equal(t, "3", owned[1].ID)
}

func TestGetExperienceNotFound(t *testing.T) {
	svc := newTestCatalogService(newFakeExperienceRepo())

	_, err := svc.GetExperience(context.Background(), "missing")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestStartSeedsViewFromCache(t *testing.T) {
	cached := []domain.Experience{
		{ID: "1", Title: "Pottery Basics"},
		{ID: "2", Title: "Sadu Weaving"},
	}
	raw, err := json.Marshal(cached)
	require.NoError(t, err)

	cache := newFakeCatalogCache()
	cache.data[catalogCacheKey] = string(raw)

	repo := newFakeExperienceRepo()
	svc := NewCatalogService(CatalogDependencies{
		ExperienceRepo: repo,
		Cache:          cache,
		Logger:         zap.NewNop(),
	})
	require.NoError(t, svc.Start())
	defer svc.Stop()

	// the cached snapshot serves reads before the first watch delivery
	view := svc.Experiences()
	require.Len(t, view, 2)
	assert.Equal(t, "Pottery Basics", view[0].Title)

	// a live delivery replaces the seed and refreshes the cache
	require.NotNil(t, repo.watchFn)
	repo.watchFn([]domain.Experience{{ID: "3", Title: "Clay Sculpting"}})

	view = svc.Experiences()
	require.Len(t, view, 1)
	assert.Equal(t, "Clay Sculpting", view[0].Title)

	var recached []domain.Experience
	require.NoError(t, json.Unmarshal([]byte(cache.data[catalogCacheKey]), &recached))
	require.Len(t, recached, 1)
	assert.Equal(t, "3", recached[0].ID)
}

func TestStartWithEmptyCache(t *testing.T) {
	repo := newFakeExperienceRepo()
	svc := NewCatalogService(CatalogDependencies{
		ExperienceRepo: repo,
		Cache:          newFakeCatalogCache(),
		Logger:         zap.NewNop(),
	})
	require.NoError(t, svc.Start())
	defer svc.Stop()

	assert.Empty(t, svc.Experiences())
}
