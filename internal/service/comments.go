package service

import (
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tsukino/aniwatch/internal/domain"
)

// ErrEmptyComment rejects whitespace-only comment bodies
var ErrEmptyComment = errors.New("comment content is empty")

// ErrCommentNotFound indicates a like for a comment that no longer exists
var ErrCommentNotFound = errors.New("comment not found")

// CommentsStore is the durable surface the comments service writes through
type CommentsStore interface {
	GetComments(animeID, episodeID string) ([]domain.Comment, bool)
	SaveComments(animeID, episodeID string, comments []domain.Comment) error
}

// CommentsService keeps per-episode viewer comments
type CommentsService struct {
	store  CommentsStore
	logger *slog.Logger
	now    func() time.Time
}

// NewCommentsService creates a comments service
func NewCommentsService(store CommentsStore, logger *slog.Logger) *CommentsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommentsService{store: store, logger: logger, now: time.Now}
}

// Add appends a comment and returns it with its generated ID
func (s *CommentsService) Add(animeID, episodeID, author, content string) (domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Comment{}, ErrEmptyComment
	}

	comment := domain.Comment{
		ID:        uuid.NewString(),
		AnimeID:   animeID,
		EpisodeID: episodeID,
		Author:    author,
		Content:   content,
		CreatedAt: s.now().Unix(),
	}

	comments, _ := s.store.GetComments(animeID, episodeID)
	comments = append(comments, comment)
	if err := s.store.SaveComments(animeID, episodeID, comments); err != nil {
		return domain.Comment{}, err
	}
	return comment, nil
}

// ListForEpisode returns an episode's comments, newest first
func (s *CommentsService) ListForEpisode(animeID, episodeID string) []domain.Comment {
	comments, _ := s.store.GetComments(animeID, episodeID)
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt > comments[j].CreatedAt
	})
	return comments
}

// Like increments a comment's like count
func (s *CommentsService) Like(animeID, episodeID, commentID string) error {
	comments, _ := s.store.GetComments(animeID, episodeID)
	for i := range comments {
		if comments[i].ID == commentID {
			comments[i].Likes++
			return s.store.SaveComments(animeID, episodeID, comments)
		}
	}
	return ErrCommentNotFound
}
