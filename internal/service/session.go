package service

import (
	"log/slog"
	"sync"
	"time"
)

// defaultSaveInterval is how often a live session flushes playback position
const defaultSaveInterval = 5 * time.Second

// progressSaver persists playback position (consumer-defined interface)
type progressSaver interface {
	SaveProgress(animeID, episodeID string, timestamp, duration float64) error
}

// PositionFunc reports the player's current position and total duration in
// seconds. ok is false while the player has not reported a duration yet.
type PositionFunc func() (position, duration float64, ok bool)

// PlaybackSession is the scoped timer around one episode view: it saves
// progress every few seconds while playing and guarantees both timer teardown
// and a final flush on Close, whatever the exit path. At most one timer runs
// per session.
type PlaybackSession struct {
	saver     progressSaver
	animeID   string
	episodeID string
	position  PositionFunc
	interval  time.Duration
	logger    *slog.Logger

	stop      chan struct{}
	done      chan struct{}
	startOnce sync.Once
	closeOnce sync.Once
}

// NewPlaybackSession creates a session for one (anime, episode) pair.
// A non-positive interval falls back to the five-second default.
func NewPlaybackSession(saver progressSaver, animeID, episodeID string, position PositionFunc, interval time.Duration, logger *slog.Logger) *PlaybackSession {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = defaultSaveInterval
	}
	return &PlaybackSession{
		saver:     saver,
		animeID:   animeID,
		episodeID: episodeID,
		position:  position,
		interval:  interval,
		logger:    logger,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the periodic save loop. Calling Start twice is a no-op.
func (s *PlaybackSession) Start() {
	s.startOnce.Do(func() {
		go s.run()
	})
}

func (s *PlaybackSession) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.save()
		case <-s.stop:
			return
		}
	}
}

// save flushes the last known position. Invalid input (no duration yet) is
// skipped silently; progress tracking is advisory.
func (s *PlaybackSession) save() {
	pos, dur, ok := s.position()
	if !ok {
		return
	}
	if err := s.saver.SaveProgress(s.animeID, s.episodeID, pos, dur); err != nil {
		s.logger.Debug("progress save skipped", "error", err, "episodeID", s.episodeID)
	}
}

// Close cancels the timer and attempts one final save with the last known
// position, so ordinary navigation away from the player loses no progress.
// Safe to call more than once.
func (s *PlaybackSession) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
		<-s.done
		s.save()
	})
}
