package domain

// WatchlistEntry is a saved title with a cover snapshot taken at add time,
// so the list renders without a catalogue round trip.
type WatchlistEntry struct {
	AnimeID    string  `json:"animeId"`
	AnimeTitle string  `json:"animeTitle"`
	AnimeCover string  `json:"animeCover"`
	Rating     float64 `json:"rating"`  // 0 = unrated, else 1-5
	AddedAt    int64   `json:"addedAt"` // Unix timestamp
}

// Comment is a viewer comment on a specific episode
type Comment struct {
	ID        string `json:"id"`
	AnimeID   string `json:"animeId"`
	EpisodeID string `json:"episodeId"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"` // Unix timestamp
	Likes     int    `json:"likes"`
}

// RatingSummary aggregates viewer ratings for one title
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
