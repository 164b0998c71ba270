package domain

import "context"

// CatalogueRepository: network operations against the remote catalogue API.
// Implementations own the retry/backoff lifetime of each call and nothing else.
type CatalogueRepository interface {
	// GetTop returns the top-ranked titles
	GetTop(ctx context.Context, limit int) ([]Anime, error)

	// GetSeasonNow returns titles airing in the current season
	GetSeasonNow(ctx context.Context, limit int) ([]Anime, error)

	// GetAnimeByID returns a single title with its synthesized season structure
	GetAnimeByID(ctx context.Context, id string) (*Anime, error)

	// Search performs a server-side title search
	Search(ctx context.Context, query string, limit int) ([]Anime, error)

	// GetSchedule returns the weekly airing schedule keyed by lowercase
	// weekday name. The seven per-day fetches are sequential; any failure
	// aborts the whole schedule.
	GetSchedule(ctx context.Context) (map[string][]Anime, error)
}

// ProgressStore is the durable key-value surface the progress tracker writes
// through. Write granularity is the entire mapping, so callers read-modify-write
// the full blob. Reads report (value, ok); unreadable data counts as absent.
type ProgressStore interface {
	// WatchedMap: animeID -> ordered list of watched episode IDs
	GetWatchedMap() (map[string][]string, bool)
	SaveWatchedMap(m map[string][]string) error

	// ProgressMap: ProgressKey(animeID, episodeID) -> record
	GetProgressMap() (map[string]EpisodeProgress, bool)
	SaveProgressMap(m map[string]EpisodeProgress) error
}
