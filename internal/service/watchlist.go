package service

import (
	"log/slog"
	"sort"
	"time"

	"github.com/tsukino/aniwatch/internal/domain"
)

// WatchlistStore is the durable surface the watchlist service writes through
type WatchlistStore interface {
	GetWatchlist() ([]domain.WatchlistEntry, bool)
	SaveWatchlist(entries []domain.WatchlistEntry) error
	GetRatings(animeID string) (map[string]float64, bool)
	SaveRatings(animeID string, ratings map[string]float64) error
}

// WatchlistService maintains the viewer's saved titles and ratings.
// Duplicate inserts and missing entries are expected failure modes and come
// back as sentinel error values, never panics or logs.
type WatchlistService struct {
	store  WatchlistStore
	viewer string // display name used as the rating key
	logger *slog.Logger
	now    func() time.Time
}

// NewWatchlistService creates a watchlist service for the named viewer
func NewWatchlistService(store WatchlistStore, viewer string, logger *slog.Logger) *WatchlistService {
	if logger == nil {
		logger = slog.Default()
	}
	if viewer == "" {
		viewer = "viewer"
	}
	return &WatchlistService{store: store, viewer: viewer, logger: logger, now: time.Now}
}

// Add saves a title with a name/cover snapshot taken now.
// Returns ErrAlreadyInWatchlist on duplicates.
func (s *WatchlistService) Add(anime domain.Anime) error {
	entries, _ := s.store.GetWatchlist()
	for _, e := range entries {
		if e.AnimeID == anime.ID {
			return domain.ErrAlreadyInWatchlist
		}
	}

	entries = append(entries, domain.WatchlistEntry{
		AnimeID:    anime.ID,
		AnimeTitle: anime.Title,
		AnimeCover: anime.CoverImage,
		AddedAt:    s.now().Unix(),
	})
	return s.store.SaveWatchlist(entries)
}

// Remove drops a title from the list. Returns ErrNotInWatchlist if absent.
func (s *WatchlistService) Remove(animeID string) error {
	entries, _ := s.store.GetWatchlist()
	for i, e := range entries {
		if e.AnimeID == animeID {
			entries = append(entries[:i], entries[i+1:]...)
			return s.store.SaveWatchlist(entries)
		}
	}
	return domain.ErrNotInWatchlist
}

// Contains reports whether a title is saved
func (s *WatchlistService) Contains(animeID string) bool {
	entries, _ := s.store.GetWatchlist()
	for _, e := range entries {
		if e.AnimeID == animeID {
			return true
		}
	}
	return false
}

// List returns the saved titles, most recently added first
func (s *WatchlistService) List() []domain.WatchlistEntry {
	entries, _ := s.store.GetWatchlist()
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].AddedAt > entries[j].AddedAt
	})
	return entries
}

// Rate records the viewer's 0-5 star rating for a saved title, updating both
// the watchlist entry and the per-title rating aggregate.
func (s *WatchlistService) Rate(animeID string, rating float64) error {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}

	entries, _ := s.store.GetWatchlist()
	found := false
	for i := range entries {
		if entries[i].AnimeID == animeID {
			entries[i].Rating = rating
			found = true
			break
		}
	}
	if !found {
		return domain.ErrNotInWatchlist
	}
	if err := s.store.SaveWatchlist(entries); err != nil {
		return err
	}

	ratings, ok := s.store.GetRatings(animeID)
	if !ok || ratings == nil {
		ratings = map[string]float64{}
	}
	ratings[s.viewer] = rating
	return s.store.SaveRatings(animeID, ratings)
}

// RatingsFor aggregates all recorded ratings for a title
func (s *WatchlistService) RatingsFor(animeID string) domain.RatingSummary {
	ratings, ok := s.store.GetRatings(animeID)
	if !ok || len(ratings) == 0 {
		return domain.RatingSummary{}
	}
	var sum float64
	for _, r := range ratings {
		sum += r
	}
	return domain.RatingSummary{
		Average: sum / float64(len(ratings)),
		Count:   len(ratings),
	}
}
