package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoSeasons() Anime {
	return Anime{
		ID: "21",
		Seasons: []Season{
			{ID: "21_s1", Episodes: []Episode{
				{ID: "21_ep1", SeasonNumber: 1, EpisodeNumber: 1},
				{ID: "21_ep2", SeasonNumber: 1, EpisodeNumber: 2},
			}},
			{ID: "21_s2", Episodes: []Episode{
				{ID: "21_ep3", SeasonNumber: 2, EpisodeNumber: 1},
			}},
		},
	}
}

func TestEpisodeCode(t *testing.T) {
	assert.Equal(t, "S01E05", Episode{SeasonNumber: 1, EpisodeNumber: 5}.Code())
	assert.Equal(t, "S12E103", Episode{SeasonNumber: 12, EpisodeNumber: 103}.Code())
}

func TestAllEpisodesSeasonMajorOrder(t *testing.T) {
	episodes := twoSeasons().AllEpisodes()
	require.Len(t, episodes, 3)
	assert.Equal(t, "21_ep1", episodes[0].ID)
	assert.Equal(t, "21_ep2", episodes[1].ID)
	assert.Equal(t, "21_ep3", episodes[2].ID)
}

func TestEpisodeByID(t *testing.T) {
	anime := twoSeasons()

	ep, ok := anime.EpisodeByID("21_ep3")
	require.True(t, ok)
	assert.Equal(t, 2, ep.SeasonNumber)

	_, ok = anime.EpisodeByID("21_ep9")
	assert.False(t, ok)
}

func TestEpisodeCount(t *testing.T) {
	assert.Equal(t, 3, twoSeasons().EpisodeCount())
	assert.Equal(t, 0, Anime{}.EpisodeCount())
}

func TestProgressKey(t *testing.T) {
	assert.Equal(t, "21_21_ep5", ProgressKey("21", "21_ep5"))
}

func TestWatchStatusString(t *testing.T) {
	assert.Equal(t, "Unwatched", WatchStatusUnwatched.String())
	assert.Equal(t, "In Progress", WatchStatusInProgress.String())
	assert.Equal(t, "Watched", WatchStatusWatched.String())
}
