package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsukino/aniwatch/internal/domain"
)

// fakeRepo counts calls per operation and can be told to fail
type fakeRepo struct {
	topCalls      int
	seasonalCalls int
	byIDCalls     int
	searchCalls   int
	scheduleCalls int
	err           error
}

func (f *fakeRepo) GetTop(ctx context.Context, limit int) ([]domain.Anime, error) {
	f.topCalls++
	if f.err != nil {
		return nil, f.err
	}
	return []domain.Anime{{ID: "1", Title: "Top"}}, nil
}

func (f *fakeRepo) GetSeasonNow(ctx context.Context, limit int) ([]domain.Anime, error) {
	f.seasonalCalls++
	return []domain.Anime{{ID: "2", Title: "Seasonal"}}, nil
}

func (f *fakeRepo) GetAnimeByID(ctx context.Context, id string) (*domain.Anime, error) {
	f.byIDCalls++
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Anime{ID: id, Title: "Detail"}, nil
}

func (f *fakeRepo) Search(ctx context.Context, query string, limit int) ([]domain.Anime, error) {
	f.searchCalls++
	return []domain.Anime{{ID: "3", Title: query}}, nil
}

func (f *fakeRepo) GetSchedule(ctx context.Context) (map[string][]domain.Anime, error) {
	f.scheduleCalls++
	return map[string][]domain.Anime{"monday": {{ID: "4"}}}, nil
}

func TestCatalogueCacheHit(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewCatalogueService(repo, time.Hour, nil)
	ctx := context.Background()

	first, err := svc.Top(ctx, 25)
	require.NoError(t, err)

	second, err := svc.Top(ctx, 25)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.topCalls, "second identical call must be served from cache")
}

func TestCatalogueCacheKeyIncludesArguments(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewCatalogueService(repo, time.Hour, nil)
	ctx := context.Background()

	_, err := svc.Top(ctx, 10)
	require.NoError(t, err)
	_, err = svc.Top(ctx, 25)
	require.NoError(t, err)

	assert.Equal(t, 2, repo.topCalls, "different limits are different queries")
}

func TestCatalogueStaleResultRefetched(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewCatalogueService(repo, 20*time.Millisecond, nil)
	ctx := context.Background()

	_, err := svc.SeasonNow(ctx, 25)
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)

	_, err = svc.SeasonNow(ctx, 25)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.seasonalCalls)
}

func TestCatalogueErrorsAreNotCached(t *testing.T) {
	repo := &fakeRepo{err: errors.New("boom")}
	svc := NewCatalogueService(repo, time.Hour, nil)
	ctx := context.Background()

	_, err := svc.AnimeByID(ctx, "21")
	require.Error(t, err)

	repo.err = nil
	anime, err := svc.AnimeByID(ctx, "21")
	require.NoError(t, err)
	assert.Equal(t, "21", anime.ID)
	assert.Equal(t, 2, repo.byIDCalls)
}

func TestCatalogueInvalidateAll(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewCatalogueService(repo, time.Hour, nil)
	ctx := context.Background()

	_, err := svc.Schedule(ctx)
	require.NoError(t, err)

	svc.InvalidateAll()

	_, err = svc.Schedule(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.scheduleCalls)
}

func TestCatalogueSearchCachedPerQuery(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewCatalogueService(repo, time.Hour, nil)
	ctx := context.Background()

	_, err := svc.Search(ctx, "naruto", 25)
	require.NoError(t, err)
	_, err = svc.Search(ctx, "naruto", 25)
	require.NoError(t, err)
	_, err = svc.Search(ctx, "bleach", 25)
	require.NoError(t, err)

	assert.Equal(t, 2, repo.searchCalls)
}
