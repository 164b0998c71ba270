package tui

import "github.com/tsukino/aniwatch/internal/domain"

// Async result messages. Every message carries the query key of the request
// that produced it; the model drops results whose key no longer matches the
// active view, so a superseded fetch cannot overwrite newer state.

// animeListMsg delivers a fetched list of titles
type animeListMsg struct {
	key    string
	animes []domain.Anime
}

// animeMsg delivers a single fetched title
type animeMsg struct {
	key   string
	anime *domain.Anime
}

// scheduleMsg delivers the weekly schedule
type scheduleMsg struct {
	key      string
	schedule map[string][]domain.Anime
}

// fetchErrMsg delivers a failed fetch
type fetchErrMsg struct {
	key string
	err error
}

// playbackStartedMsg confirms the external player launched
type playbackStartedMsg struct {
	episodeID string
}

// playbackErrMsg reports a failed player launch
type playbackErrMsg struct {
	err error
}

// tickMsg drives the loading spinner
type tickMsg struct{}
