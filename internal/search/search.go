// Package search ranks already-fetched catalogue lists against a query,
// so browse views can narrow instantly without another API round trip.
package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/tsukino/aniwatch/internal/domain"
)

// Filter returns the titles matching query, best match first.
// An empty query returns the input unchanged.
func Filter(query string, animes []domain.Anime) []domain.Anime {
	query = strings.TrimSpace(query)
	if query == "" {
		return animes
	}

	titles := make([]string, len(animes))
	for i, a := range animes {
		titles[i] = a.Title
	}

	ranks := fuzzy.RankFindNormalizedFold(query, titles)
	sort.Sort(ranks)

	matched := make([]domain.Anime, 0, len(ranks))
	for _, r := range ranks {
		matched = append(matched, animes[r.OriginalIndex])
	}
	return matched
}

// MatchesGenre reports whether the title carries the named genre
func MatchesGenre(anime domain.Anime, genreName string) bool {
	for _, g := range anime.Genres {
		if strings.EqualFold(g.Name, genreName) {
			return true
		}
	}
	return false
}

// FilterByGenre keeps only titles carrying the named genre.
// An empty genre returns the input unchanged.
func FilterByGenre(genreName string, animes []domain.Anime) []domain.Anime {
	if genreName == "" {
		return animes
	}
	out := make([]domain.Anime, 0, len(animes))
	for _, a := range animes {
		if MatchesGenre(a, genreName) {
			out = append(out, a)
		}
	}
	return out
}
