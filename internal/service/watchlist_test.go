package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsukino/aniwatch/internal/domain"
)

// fakeUserStore implements WatchlistStore and CommentsStore in memory
type fakeUserStore struct {
	entries  []domain.WatchlistEntry
	ratings  map[string]map[string]float64
	comments map[string][]domain.Comment
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		ratings:  map[string]map[string]float64{},
		comments: map[string][]domain.Comment{},
	}
}

func (f *fakeUserStore) GetWatchlist() ([]domain.WatchlistEntry, bool) {
	return f.entries, f.entries != nil
}

func (f *fakeUserStore) SaveWatchlist(entries []domain.WatchlistEntry) error {
	f.entries = entries
	return nil
}

func (f *fakeUserStore) GetRatings(animeID string) (map[string]float64, bool) {
	r, ok := f.ratings[animeID]
	return r, ok
}

func (f *fakeUserStore) SaveRatings(animeID string, ratings map[string]float64) error {
	f.ratings[animeID] = ratings
	return nil
}

func (f *fakeUserStore) GetComments(animeID, episodeID string) ([]domain.Comment, bool) {
	c, ok := f.comments[animeID+":"+episodeID]
	return c, ok
}

func (f *fakeUserStore) SaveComments(animeID, episodeID string, comments []domain.Comment) error {
	f.comments[animeID+":"+episodeID] = comments
	return nil
}

func TestWatchlistAddAndContains(t *testing.T) {
	svc := NewWatchlistService(newFakeUserStore(), "alice", nil)

	require.NoError(t, svc.Add(domain.Anime{ID: "21", Title: "One Piece", CoverImage: "cover.jpg"}))
	assert.True(t, svc.Contains("21"))
	assert.False(t, svc.Contains("22"))

	entries := svc.List()
	require.Len(t, entries, 1)
	assert.Equal(t, "One Piece", entries[0].AnimeTitle)
	assert.Equal(t, "cover.jpg", entries[0].AnimeCover)
}

func TestWatchlistAddDuplicate(t *testing.T) {
	svc := NewWatchlistService(newFakeUserStore(), "alice", nil)

	require.NoError(t, svc.Add(domain.Anime{ID: "21", Title: "One Piece"}))
	assert.ErrorIs(t, svc.Add(domain.Anime{ID: "21", Title: "One Piece"}), domain.ErrAlreadyInWatchlist)
	assert.Len(t, svc.List(), 1)
}

func TestWatchlistRemove(t *testing.T) {
	svc := NewWatchlistService(newFakeUserStore(), "alice", nil)

	require.NoError(t, svc.Add(domain.Anime{ID: "21"}))
	require.NoError(t, svc.Remove("21"))
	assert.False(t, svc.Contains("21"))

	assert.ErrorIs(t, svc.Remove("21"), domain.ErrNotInWatchlist)
}

func TestWatchlistListNewestFirst(t *testing.T) {
	svc := NewWatchlistService(newFakeUserStore(), "alice", nil)

	base := time.Now()
	clock := base
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	require.NoError(t, svc.Add(domain.Anime{ID: "1", Title: "First"}))
	require.NoError(t, svc.Add(domain.Anime{ID: "2", Title: "Second"}))

	entries := svc.List()
	require.Len(t, entries, 2)
	assert.Equal(t, "Second", entries[0].AnimeTitle)
}

func TestWatchlistRate(t *testing.T) {
	store := newFakeUserStore()
	svc := NewWatchlistService(store, "alice", nil)

	assert.ErrorIs(t, svc.Rate("21", 4), domain.ErrNotInWatchlist)

	require.NoError(t, svc.Add(domain.Anime{ID: "21"}))
	require.NoError(t, svc.Rate("21", 4))

	entries := svc.List()
	assert.Equal(t, 4.0, entries[0].Rating)

	summary := svc.RatingsFor("21")
	assert.Equal(t, 4.0, summary.Average)
	assert.Equal(t, 1, summary.Count)
}

func TestWatchlistRateClampsRange(t *testing.T) {
	svc := NewWatchlistService(newFakeUserStore(), "alice", nil)
	require.NoError(t, svc.Add(domain.Anime{ID: "21"}))

	require.NoError(t, svc.Rate("21", 9))
	assert.Equal(t, 5.0, svc.List()[0].Rating)

	require.NoError(t, svc.Rate("21", -1))
	assert.Equal(t, 0.0, svc.List()[0].Rating)
}

func TestWatchlistReRateReplacesNotSkews(t *testing.T) {
	store := newFakeUserStore()
	svc := NewWatchlistService(store, "alice", nil)
	require.NoError(t, svc.Add(domain.Anime{ID: "21"}))

	require.NoError(t, svc.Rate("21", 2))
	require.NoError(t, svc.Rate("21", 5))

	summary := svc.RatingsFor("21")
	assert.Equal(t, 1, summary.Count, "same viewer re-rating must not add a second vote")
	assert.Equal(t, 5.0, summary.Average)
}

func TestRatingsAggregateAcrossViewers(t *testing.T) {
	store := newFakeUserStore()

	alice := NewWatchlistService(store, "alice", nil)
	require.NoError(t, alice.Add(domain.Anime{ID: "21"}))
	require.NoError(t, alice.Rate("21", 5))

	bob := NewWatchlistService(store, "bob", nil)
	// bob shares the same store, so the title is already listed
	require.NoError(t, bob.Rate("21", 3))

	summary := alice.RatingsFor("21")
	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, 4.0, summary.Average)
}
