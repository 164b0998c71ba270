package domain

// EpisodeProgress is the durable playback-position record for one episode.
// One record exists per (AnimeID, EpisodeID); saves overwrite, never append.
type EpisodeProgress struct {
	AnimeID    string  `json:"animeId"`
	EpisodeID  string  `json:"episodeId"`
	Timestamp  float64 `json:"timestamp"`  // Last known position, seconds
	Duration   float64 `json:"duration"`   // Total length as reported by the player, seconds
	Percentage int     `json:"percentage"` // round(timestamp/duration*100) clamped to [0,100]
	UpdatedAt  int64   `json:"updatedAt"`  // Unix timestamp of the write
}

// ProgressKey builds the storage key for a progress record
func ProgressKey(animeID, episodeID string) string {
	return animeID + "_" + episodeID
}
