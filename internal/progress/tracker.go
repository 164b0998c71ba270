// Package progress persists per-episode playback positions and watched state,
// and resolves the "continue watching" target for a title.
package progress

import (
	"log/slog"
	"math"
	"time"

	"github.com/tsukino/aniwatch/internal/domain"
)

// watchedThreshold is the completion percentage beyond which an episode is
// considered fully watched. Saves above it auto-insert into the watched set.
const watchedThreshold = 90

// Tracker is the local, single-viewer progress store. All operations are
// best-effort: unreadable data degrades to absent, failed writes are logged
// and swallowed. Losing a write must never break playback.
type Tracker struct {
	store  domain.ProgressStore
	logger *slog.Logger
	now    func() time.Time // injectable for tests
}

// NewTracker creates a Tracker backed by the given store
func NewTracker(store domain.ProgressStore, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{store: store, logger: logger, now: time.Now}
}

// WatchedSet returns the full animeID -> watched episode IDs mapping.
// Never fails; missing or corrupt data yields an empty mapping.
func (t *Tracker) WatchedSet() map[string][]string {
	m, ok := t.store.GetWatchedMap()
	if !ok || m == nil {
		return map[string][]string{}
	}
	return m
}

// MarkWatched inserts the pair into the watched set. Idempotent: marking an
// already-watched episode is a no-op and triggers no write.
func (t *Tracker) MarkWatched(animeID, episodeID string) {
	watched := t.WatchedSet()

	for _, id := range watched[animeID] {
		if id == episodeID {
			return
		}
	}
	watched[animeID] = append(watched[animeID], episodeID)

	if err := t.store.SaveWatchedMap(watched); err != nil {
		t.logger.Warn("failed to persist watched set", "error", err, "animeID", animeID, "episodeID", episodeID)
	}
}

// IsWatched reports whether the pair is a member of the watched set
func (t *Tracker) IsWatched(animeID, episodeID string) bool {
	for _, id := range t.WatchedSet()[animeID] {
		if id == episodeID {
			return true
		}
	}
	return false
}

// Progress returns the stored record for the pair, if any
func (t *Tracker) Progress(animeID, episodeID string) (domain.EpisodeProgress, bool) {
	records, ok := t.store.GetProgressMap()
	if !ok {
		return domain.EpisodeProgress{}, false
	}
	rec, ok := records[domain.ProgressKey(animeID, episodeID)]
	return rec, ok
}

// SaveProgress overwrites the record for the pair (last-write-wins).
// A non-positive duration is rejected with ErrInvalidProgress rather than
// persisting a degenerate percentage. Crossing the watched threshold also
// inserts the pair into the watched set, so callers never call MarkWatched
// directly during normal playback.
func (t *Tracker) SaveProgress(animeID, episodeID string, timestamp, duration float64) error {
	if duration <= 0 {
		return domain.ErrInvalidProgress
	}

	pct := int(math.Round(timestamp / duration * 100))
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	records, ok := t.store.GetProgressMap()
	if !ok || records == nil {
		records = map[string]domain.EpisodeProgress{}
	}
	records[domain.ProgressKey(animeID, episodeID)] = domain.EpisodeProgress{
		AnimeID:    animeID,
		EpisodeID:  episodeID,
		Timestamp:  timestamp,
		Duration:   duration,
		Percentage: pct,
		UpdatedAt:  t.now().Unix(),
	}

	if err := t.store.SaveProgressMap(records); err != nil {
		t.logger.Warn("failed to persist progress", "error", err, "animeID", animeID, "episodeID", episodeID)
	}

	if pct > watchedThreshold {
		t.MarkWatched(animeID, episodeID)
	}
	return nil
}

// ClearProgress removes the record for the pair if present. Watched-set
// membership is unaffected.
func (t *Tracker) ClearProgress(animeID, episodeID string) {
	records, ok := t.store.GetProgressMap()
	if !ok {
		return
	}
	key := domain.ProgressKey(animeID, episodeID)
	if _, exists := records[key]; !exists {
		return
	}
	delete(records, key)

	if err := t.store.SaveProgressMap(records); err != nil {
		t.logger.Warn("failed to persist progress", "error", err, "animeID", animeID, "episodeID", episodeID)
	}
}

// AllInProgress returns every stored progress record, unordered
func (t *Tracker) AllInProgress() []domain.EpisodeProgress {
	records, ok := t.store.GetProgressMap()
	if !ok {
		return nil
	}
	all := make([]domain.EpisodeProgress, 0, len(records))
	for _, rec := range records {
		all = append(all, rec)
	}
	return all
}

// Status classifies the pair for indicator rendering
func (t *Tracker) Status(animeID, episodeID string) domain.WatchStatus {
	if t.IsWatched(animeID, episodeID) {
		return domain.WatchStatusWatched
	}
	if rec, ok := t.Progress(animeID, episodeID); ok && rec.Percentage > 0 {
		return domain.WatchStatusInProgress
	}
	return domain.WatchStatusUnwatched
}

// ResolveContinueWatching picks the episode the details view should offer.
//
// An in-progress episode beats advancing past a finished one: the scan first
// looks backwards for the latest episode with progress below the watched
// threshold, then falls forward to the episode after the highest watched one.
// A false return means no recommendation; callers fall back to episode 1.
func (t *Tracker) ResolveContinueWatching(anime domain.Anime) (domain.Episode, bool) {
	episodes := anime.AllEpisodes()
	if len(episodes) == 0 {
		return domain.Episode{}, false
	}

	// Rule 1: last in-progress, not-yet-complete episode is the resume target
	for i := len(episodes) - 1; i >= 0; i-- {
		rec, ok := t.Progress(anime.ID, episodes[i].ID)
		if ok && rec.Percentage < watchedThreshold {
			return episodes[i], true
		}
	}

	// Rule 2: the episode after the highest-index watched one
	lastWatched := -1
	for i, ep := range episodes {
		if t.IsWatched(anime.ID, ep.ID) {
			lastWatched = i
		}
	}
	if lastWatched >= 0 && lastWatched < len(episodes)-1 {
		return episodes[lastWatched+1], true
	}

	return domain.Episode{}, false
}
