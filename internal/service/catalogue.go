package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tsukino/aniwatch/internal/domain"
)

// DefaultStaleAfter is how long a fetched result stays valid for a query key
const DefaultStaleAfter = 1 * time.Hour

// cachedResult stores cached data with its fetch time
type cachedResult struct {
	items     interface{}
	fetchedAt time.Time
}

// CatalogueService fronts the catalogue repository with a keyed query cache.
// Key = operation + arguments; a result younger than the staleness window is
// served without touching the network, so identical calls are cheap to repeat.
type CatalogueService struct {
	repo       domain.CatalogueRepository
	logger     *slog.Logger
	staleAfter time.Duration

	cacheMu sync.RWMutex
	cache   map[string]cachedResult
}

// NewCatalogueService creates a catalogue service. A non-positive staleAfter
// falls back to the default one-hour window.
func NewCatalogueService(repo domain.CatalogueRepository, staleAfter time.Duration, logger *slog.Logger) *CatalogueService {
	if logger == nil {
		logger = slog.Default()
	}
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &CatalogueService{
		repo:       repo,
		logger:     logger,
		staleAfter: staleAfter,
		cache:      make(map[string]cachedResult),
	}
}

// Top returns the top-ranked titles
func (s *CatalogueService) Top(ctx context.Context, limit int) ([]domain.Anime, error) {
	return cachedFetch(s, ctx, fmt.Sprintf("top:%d", limit), func(ctx context.Context) ([]domain.Anime, error) {
		return s.repo.GetTop(ctx, limit)
	})
}

// SeasonNow returns titles airing in the current season
func (s *CatalogueService) SeasonNow(ctx context.Context, limit int) ([]domain.Anime, error) {
	return cachedFetch(s, ctx, fmt.Sprintf("seasonal:%d", limit), func(ctx context.Context) ([]domain.Anime, error) {
		return s.repo.GetSeasonNow(ctx, limit)
	})
}

// AnimeByID returns a single title
func (s *CatalogueService) AnimeByID(ctx context.Context, id string) (*domain.Anime, error) {
	return cachedFetch(s, ctx, "anime:"+id, func(ctx context.Context) (*domain.Anime, error) {
		return s.repo.GetAnimeByID(ctx, id)
	})
}

// Search performs a server-side title search
func (s *CatalogueService) Search(ctx context.Context, query string, limit int) ([]domain.Anime, error) {
	return cachedFetch(s, ctx, fmt.Sprintf("search:%s:%d", query, limit), func(ctx context.Context) ([]domain.Anime, error) {
		return s.repo.Search(ctx, query, limit)
	})
}

// Schedule returns the weekly airing schedule
func (s *CatalogueService) Schedule(ctx context.Context) (map[string][]domain.Anime, error) {
	return cachedFetch(s, ctx, "schedule", func(ctx context.Context) (map[string][]domain.Anime, error) {
		return s.repo.GetSchedule(ctx)
	})
}

// InvalidateAll drops every cached result
func (s *CatalogueService) InvalidateAll() {
	s.cacheMu.Lock()
	s.cache = make(map[string]cachedResult)
	s.cacheMu.Unlock()
}

// cachedFetch serves key from cache within the staleness window, otherwise
// fetches and stores. Errors are never cached.
func cachedFetch[T any](s *CatalogueService, ctx context.Context, key string, fetch func(context.Context) (T, error)) (T, error) {
	s.cacheMu.RLock()
	entry, ok := s.cache[key]
	s.cacheMu.RUnlock()

	if ok && time.Since(entry.fetchedAt) < s.staleAfter {
		if items, ok := entry.items.(T); ok {
			s.logger.Debug("cache hit", "key", key)
			return items, nil
		}
	}

	items, err := fetch(ctx)
	if err != nil {
		var zero T
		s.logger.Error("catalogue fetch failed", "key", key, "error", err)
		return zero, err
	}

	s.cacheMu.Lock()
	s.cache[key] = cachedResult{items: items, fetchedAt: time.Now()}
	s.cacheMu.Unlock()

	return items, nil
}
