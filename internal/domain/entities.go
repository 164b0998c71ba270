package domain

import "fmt"

// Genre is a catalogue genre tag
type Genre struct {
	ID   string `json:"id"`   // Stringified source identifier
	Name string `json:"name"` // Display name
}

// Episode represents a single watchable episode
type Episode struct {
	ID            string `json:"id"`            // Unique within the anime: {sourceID}_ep{n}
	Title         string `json:"title"`         // Display title
	Description   string `json:"description"`   // Episode synopsis
	Thumbnail     string `json:"thumbnail"`     // Thumbnail image URL
	VideoURL      string `json:"videoUrl"`      // Progressive stream URL
	Duration      string `json:"duration"`      // Display string, e.g. "24 min"
	SeasonNumber  int    `json:"seasonNumber"`  // 1-based
	EpisodeNumber int    `json:"episodeNumber"` // 1-based within season
}

// Code returns the formatted episode code (e.g., "S01E05")
func (e Episode) Code() string {
	return fmt.Sprintf("S%02dE%02d", e.SeasonNumber, e.EpisodeNumber)
}

// Season groups an ordered run of episodes
type Season struct {
	ID       string    `json:"id"`    // Stable per anime+season index
	Title    string    `json:"title"` // "Season 1" or custom name
	Episodes []Episode `json:"episodes"`
}

// Anime is the internal catalogue record all external sources normalize into
type Anime struct {
	ID          string   `json:"id"`          // Stringified source identifier
	Title       string   `json:"title"`       // Display title
	Description string   `json:"description"` // Synopsis
	CoverImage  string   `json:"coverImage"`  // Poster URL, may be empty
	BannerImage string   `json:"bannerImage"` // Wide art URL, may be empty
	Genres      []Genre  `json:"genres"`      // Source order preserved
	Seasons     []Season `json:"seasons"`
	ReleaseYear int      `json:"releaseYear"` // Earliest known air year
	Status      string   `json:"status"`      // Free-form, e.g. "Currently Airing"
	Type        string   `json:"type"`        // Free-form, e.g. "TV"
	Rating      float64  `json:"rating"`      // Score as supplied by the source
}

// AllEpisodes flattens seasons into a single season-major, episode-minor list.
// This is the ordering continue-watching resolution operates on.
func (a Anime) AllEpisodes() []Episode {
	var episodes []Episode
	for _, s := range a.Seasons {
		episodes = append(episodes, s.Episodes...)
	}
	return episodes
}

// EpisodeByID returns the episode with the given ID, if present
func (a Anime) EpisodeByID(episodeID string) (Episode, bool) {
	for _, s := range a.Seasons {
		for _, e := range s.Episodes {
			if e.ID == episodeID {
				return e, true
			}
		}
	}
	return Episode{}, false
}

// EpisodeCount returns the total number of episodes across all seasons
func (a Anime) EpisodeCount() int {
	n := 0
	for _, s := range a.Seasons {
		n += len(s.Episodes)
	}
	return n
}

// WatchStatus represents the viewing state of an episode
type WatchStatus int

const (
	WatchStatusUnwatched WatchStatus = iota
	WatchStatusInProgress
	WatchStatusWatched
)

// String returns a human-readable representation of the watch status
func (w WatchStatus) String() string {
	switch w {
	case WatchStatusUnwatched:
		return "Unwatched"
	case WatchStatusInProgress:
		return "In Progress"
	case WatchStatusWatched:
		return "Watched"
	default:
		return "Unknown"
	}
}
