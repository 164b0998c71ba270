package progress

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsukino/aniwatch/internal/domain"
)

// fakeStore is an in-memory ProgressStore that counts writes
type fakeStore struct {
	watched map[string][]string
	records map[string]domain.EpisodeProgress

	watchedSaves  int
	progressSaves int
	failWrites    bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (f *fakeStore) GetWatchedMap() (map[string][]string, bool) {
	if f.watched == nil {
		return nil, false
	}
	return f.watched, true
}

func (f *fakeStore) SaveWatchedMap(m map[string][]string) error {
	f.watchedSaves++
	if f.failWrites {
		return errors.New("disk full")
	}
	f.watched = m
	return nil
}

func (f *fakeStore) GetProgressMap() (map[string]domain.EpisodeProgress, bool) {
	if f.records == nil {
		return nil, false
	}
	return f.records, true
}

func (f *fakeStore) SaveProgressMap(m map[string]domain.EpisodeProgress) error {
	f.progressSaves++
	if f.failWrites {
		return errors.New("disk full")
	}
	f.records = m
	return nil
}

func newTestTracker(t *testing.T) (*Tracker, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	return NewTracker(store, nil), store
}

// singleSeason builds a one-season title with n sequential episodes
func singleSeason(animeID string, n int) domain.Anime {
	episodes := make([]domain.Episode, n)
	for i := range episodes {
		episodes[i] = domain.Episode{
			ID:            fmt.Sprintf("%s_ep%d", animeID, i+1),
			Title:         fmt.Sprintf("Episode %d", i+1),
			SeasonNumber:  1,
			EpisodeNumber: i + 1,
		}
	}
	return domain.Anime{
		ID:      animeID,
		Title:   "Test Anime",
		Seasons: []domain.Season{{ID: animeID + "_s1", Title: "Season 1", Episodes: episodes}},
	}
}

func TestSaveProgressPercentage(t *testing.T) {
	tests := []struct {
		name      string
		timestamp float64
		duration  float64
		wantPct   int
	}{
		{"partway through", 300, 1440, 21},
		{"exactly half", 720, 1440, 50},
		{"rounds to nearest", 100, 1440, 7},
		{"clamps above 100", 2000, 1440, 100},
		{"clamps below 0", -5, 1440, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker, _ := newTestTracker(t)

			err := tracker.SaveProgress("1", "1_ep1", tt.timestamp, tt.duration)
			require.NoError(t, err)

			rec, ok := tracker.Progress("1", "1_ep1")
			require.True(t, ok)
			assert.Equal(t, tt.wantPct, rec.Percentage)
			assert.Equal(t, tt.timestamp, rec.Timestamp)
			assert.Equal(t, tt.duration, rec.Duration)
		})
	}
}

func TestSaveProgressRejectsInvalidDuration(t *testing.T) {
	tracker, store := newTestTracker(t)

	assert.ErrorIs(t, tracker.SaveProgress("1", "1_ep1", 10, 0), domain.ErrInvalidProgress)
	assert.ErrorIs(t, tracker.SaveProgress("1", "1_ep1", 10, -30), domain.ErrInvalidProgress)

	assert.Zero(t, store.progressSaves, "rejected saves must not touch the store")
	_, ok := tracker.Progress("1", "1_ep1")
	assert.False(t, ok)
}

func TestSaveProgressAutoMarksWatched(t *testing.T) {
	tracker, _ := newTestTracker(t)

	// 91% crosses the threshold
	require.NoError(t, tracker.SaveProgress("1", "1_ep1", 1310.4, 1440))
	assert.True(t, tracker.IsWatched("1", "1_ep1"))

	// exactly 90% does not
	require.NoError(t, tracker.SaveProgress("1", "1_ep2", 1296, 1440))
	assert.False(t, tracker.IsWatched("1", "1_ep2"))
}

func TestMarkWatchedIdempotent(t *testing.T) {
	tracker, store := newTestTracker(t)

	tracker.MarkWatched("1", "1_ep1")
	tracker.MarkWatched("1", "1_ep1")
	tracker.MarkWatched("1", "1_ep1")

	assert.Equal(t, 1, store.watchedSaves, "repeat marks must not rewrite")
	assert.Equal(t, []string{"1_ep1"}, tracker.WatchedSet()["1"])
}

func TestClearProgressKeepsWatchedState(t *testing.T) {
	tracker, _ := newTestTracker(t)

	require.NoError(t, tracker.SaveProgress("1", "1_ep1", 1400, 1440))
	require.True(t, tracker.IsWatched("1", "1_ep1"))

	tracker.ClearProgress("1", "1_ep1")

	_, ok := tracker.Progress("1", "1_ep1")
	assert.False(t, ok, "progress record should be gone")
	assert.True(t, tracker.IsWatched("1", "1_ep1"), "watched membership survives a clear")
}

func TestClearProgressAbsentIsNoop(t *testing.T) {
	tracker, store := newTestTracker(t)

	tracker.ClearProgress("1", "1_ep1")
	assert.Zero(t, store.progressSaves)
}

func TestStoreWriteFailuresAreSwallowed(t *testing.T) {
	tracker, store := newTestTracker(t)
	store.failWrites = true

	assert.NoError(t, tracker.SaveProgress("1", "1_ep1", 300, 1440))
	tracker.MarkWatched("1", "1_ep2")
}

func TestStatus(t *testing.T) {
	tracker, _ := newTestTracker(t)

	assert.Equal(t, domain.WatchStatusUnwatched, tracker.Status("1", "1_ep1"))

	require.NoError(t, tracker.SaveProgress("1", "1_ep1", 300, 1440))
	assert.Equal(t, domain.WatchStatusInProgress, tracker.Status("1", "1_ep1"))

	tracker.MarkWatched("1", "1_ep1")
	assert.Equal(t, domain.WatchStatusWatched, tracker.Status("1", "1_ep1"))
}

func TestResolveContinueWatchingPrefersInProgress(t *testing.T) {
	tracker, _ := newTestTracker(t)
	anime := singleSeason("1", 5)

	// ep5 finished, ep2 halfway: the unfinished episode wins
	require.NoError(t, tracker.SaveProgress("1", "1_ep5", 1440, 1440))
	require.NoError(t, tracker.SaveProgress("1", "1_ep2", 720, 1440))

	ep, ok := tracker.ResolveContinueWatching(anime)
	require.True(t, ok)
	assert.Equal(t, "1_ep2", ep.ID)
}

func TestResolveContinueWatchingAdvancesPastWatched(t *testing.T) {
	tracker, _ := newTestTracker(t)
	anime := singleSeason("1", 5)

	tracker.MarkWatched("1", "1_ep1")
	tracker.MarkWatched("1", "1_ep2")

	ep, ok := tracker.ResolveContinueWatching(anime)
	require.True(t, ok)
	assert.Equal(t, "1_ep3", ep.ID)
}

func TestResolveContinueWatchingNone(t *testing.T) {
	tracker, _ := newTestTracker(t)

	// no history at all
	_, ok := tracker.ResolveContinueWatching(singleSeason("1", 3))
	assert.False(t, ok)

	// everything watched, nothing after
	anime := singleSeason("2", 2)
	tracker.MarkWatched("2", "2_ep1")
	tracker.MarkWatched("2", "2_ep2")
	_, ok = tracker.ResolveContinueWatching(anime)
	assert.False(t, ok)

	// no episodes
	_, ok = tracker.ResolveContinueWatching(domain.Anime{ID: "3"})
	assert.False(t, ok)
}

func TestAllInProgress(t *testing.T) {
	tracker, _ := newTestTracker(t)

	assert.Empty(t, tracker.AllInProgress())

	require.NoError(t, tracker.SaveProgress("1", "1_ep1", 300, 1440))
	require.NoError(t, tracker.SaveProgress("2", "2_ep4", 700, 1440))

	all := tracker.AllInProgress()
	require.Len(t, all, 2)

	seen := map[string]bool{}
	for _, rec := range all {
		seen[rec.EpisodeID] = true
	}
	assert.True(t, seen["1_ep1"])
	assert.True(t, seen["2_ep4"])
}

func TestResolveContinueWatchingSpansSeasons(t *testing.T) {
	tracker, _ := newTestTracker(t)

	anime := domain.Anime{
		ID: "1",
		Seasons: []domain.Season{
			{ID: "1_s1", Episodes: []domain.Episode{{ID: "1_ep1"}, {ID: "1_ep2"}}},
			{ID: "1_s2", Episodes: []domain.Episode{{ID: "1_ep3"}, {ID: "1_ep4"}}},
		},
	}

	// finishing season 1 points at the first episode of season 2
	tracker.MarkWatched("1", "1_ep1")
	tracker.MarkWatched("1", "1_ep2")

	ep, ok := tracker.ResolveContinueWatching(anime)
	require.True(t, ok)
	assert.Equal(t, "1_ep3", ep.ID)
}
