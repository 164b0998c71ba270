package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentsAdd(t *testing.T) {
	svc := NewCommentsService(newFakeUserStore(), nil)

	comment, err := svc.Add("21", "21_ep1", "alice", "  great episode  ")
	require.NoError(t, err)

	assert.NotEmpty(t, comment.ID)
	assert.Equal(t, "great episode", comment.Content, "content is trimmed")
	assert.Equal(t, "alice", comment.Author)

	listed := svc.ListForEpisode("21", "21_ep1")
	require.Len(t, listed, 1)
	assert.Equal(t, comment.ID, listed[0].ID)
}

func TestCommentsRejectEmpty(t *testing.T) {
	svc := NewCommentsService(newFakeUserStore(), nil)

	_, err := svc.Add("21", "21_ep1", "alice", "   ")
	assert.ErrorIs(t, err, ErrEmptyComment)
	assert.Empty(t, svc.ListForEpisode("21", "21_ep1"))
}

func TestCommentsListNewestFirst(t *testing.T) {
	svc := NewCommentsService(newFakeUserStore(), nil)

	clock := time.Now()
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	_, err := svc.Add("21", "21_ep1", "alice", "first")
	require.NoError(t, err)
	_, err = svc.Add("21", "21_ep1", "bob", "second")
	require.NoError(t, err)

	listed := svc.ListForEpisode("21", "21_ep1")
	require.Len(t, listed, 2)
	assert.Equal(t, "second", listed[0].Content)
}

func TestCommentsScopedPerEpisode(t *testing.T) {
	svc := NewCommentsService(newFakeUserStore(), nil)

	_, err := svc.Add("21", "21_ep1", "alice", "on episode one")
	require.NoError(t, err)

	assert.Empty(t, svc.ListForEpisode("21", "21_ep2"))
	assert.Len(t, svc.ListForEpisode("21", "21_ep1"), 1)
}

func TestCommentsLike(t *testing.T) {
	svc := NewCommentsService(newFakeUserStore(), nil)

	comment, err := svc.Add("21", "21_ep1", "alice", "like me")
	require.NoError(t, err)

	require.NoError(t, svc.Like("21", "21_ep1", comment.ID))
	require.NoError(t, svc.Like("21", "21_ep1", comment.ID))

	listed := svc.ListForEpisode("21", "21_ep1")
	assert.Equal(t, 2, listed[0].Likes)

	assert.ErrorIs(t, svc.Like("21", "21_ep1", "missing"), ErrCommentNotFound)
}
