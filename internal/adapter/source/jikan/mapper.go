package jikan

import (
	"fmt"
	"strconv"
	"time"

	"github.com/tsukino/aniwatch/internal/domain"
)

// Fallbacks used when the source record omits a field
const (
	placeholderTitle    = "Unknown Title"
	placeholderSynopsis = "No description available"
	placeholderStatus   = "Unknown"
	placeholderType     = "TV"
	placeholderDuration = "24 min"

	// The catalogue API carries no per-episode stream URLs; synthesized
	// episodes point at a known sample stream. The UI labels these as
	// preview streams rather than real episode content.
	placeholderStreamURL = "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4"
)

// MapAnime normalizes one external record into the internal model.
// Deterministic given the same record, except for the current-year fallback
// when the air-start date is missing (display-only, never an identity field).
func MapAnime(a AnimeData) domain.Anime {
	id := strconv.Itoa(a.MalID)

	synopsis := a.Synopsis
	if synopsis == "" {
		synopsis = placeholderSynopsis
	}

	// The source reports only an aggregate episode count, so exactly that
	// many placeholder episodes are synthesized into a single season,
	// carrying the anime-level synopsis and image as filler.
	count := a.Episodes
	if count < 1 {
		count = 1
	}
	episodes := make([]domain.Episode, count)
	for i := range episodes {
		n := i + 1
		episodes[i] = domain.Episode{
			ID:            fmt.Sprintf("%s_ep%d", id, n),
			Title:         fmt.Sprintf("Episode %d", n),
			Description:   synopsis,
			Thumbnail:     a.Images.JPG.ImageURL,
			VideoURL:      placeholderStreamURL,
			Duration:      placeholderDuration,
			SeasonNumber:  1,
			EpisodeNumber: n,
		}
	}

	genres := make([]domain.Genre, 0, len(a.Genres))
	for _, g := range a.Genres {
		genres = append(genres, domain.Genre{
			ID:   strconv.Itoa(g.MalID),
			Name: g.Name,
		})
	}

	return domain.Anime{
		ID:          id,
		Title:       orPlaceholder(a.Title, placeholderTitle),
		Description: synopsis,
		CoverImage:  preferredImage(a.Images.JPG),
		BannerImage: preferredImage(a.Images.JPG),
		Genres:      genres,
		Seasons: []domain.Season{{
			ID:       id + "_s1",
			Title:    "Season 1",
			Episodes: episodes,
		}},
		ReleaseYear: releaseYear(a.Aired.From),
		Status:      orPlaceholder(a.Status, placeholderStatus),
		Type:        orPlaceholder(a.Type, placeholderType),
		Rating:      a.Score,
	}
}

// mapAll normalizes a list response
func mapAll(records []AnimeData) []domain.Anime {
	out := make([]domain.Anime, 0, len(records))
	for _, r := range records {
		out = append(out, MapAnime(r))
	}
	return out
}

// preferredImage picks the large variant, falls back to the standard one,
// and yields an empty string when neither is present
func preferredImage(img imageSet) string {
	if img.LargeImageURL != "" {
		return img.LargeImageURL
	}
	return img.ImageURL
}

func orPlaceholder(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// releaseYear extracts the year from the air-start date, defaulting to the
// current year when the source omits it
func releaseYear(from string) int {
	if from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			return t.Year()
		}
	}
	return time.Now().Year()
}
