package components

import (
	"fmt"
	"strings"

	"github.com/tsukino/aniwatch/internal/domain"
	"github.com/tsukino/aniwatch/internal/tui/styles"
)

// StatusFunc classifies an episode for indicator rendering
type StatusFunc func(episodeID string) domain.WatchStatus

// PercentFunc returns the stored completion percentage for an episode,
// or 0 when no progress record exists
type PercentFunc func(episodeID string) int

// EpisodeList is the episode selector shown on the details view
type EpisodeList struct {
	episodes []domain.Episode

	statusFor  StatusFunc
	percentFor PercentFunc

	cursor     int
	offset     int
	maxVisible int

	// continueID marks the resolved continue-watching target, if any
	continueID string
}

// NewEpisodeList creates an episode selector
func NewEpisodeList(statusFor StatusFunc, percentFor PercentFunc) *EpisodeList {
	return &EpisodeList{
		statusFor:  statusFor,
		percentFor: percentFor,
		maxVisible: 12,
	}
}

// SetEpisodes replaces the episode set and moves the cursor onto the
// continue-watching target when one exists
func (l *EpisodeList) SetEpisodes(episodes []domain.Episode, continueID string) {
	l.episodes = episodes
	l.continueID = continueID
	l.cursor = 0
	l.offset = 0

	for i, ep := range episodes {
		if ep.ID == continueID {
			l.cursor = i
			break
		}
	}
	l.scrollToCursor()
}

// SetHeight adjusts how many rows render
func (l *EpisodeList) SetHeight(rows int) {
	if rows < 1 {
		rows = 1
	}
	l.maxVisible = rows
	l.scrollToCursor()
}

// Selected returns the episode under the cursor
func (l *EpisodeList) Selected() (domain.Episode, bool) {
	if l.cursor < 0 || l.cursor >= len(l.episodes) {
		return domain.Episode{}, false
	}
	return l.episodes[l.cursor], true
}

// MoveUp moves the cursor up one row
func (l *EpisodeList) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
	}
	l.scrollToCursor()
}

// MoveDown moves the cursor down one row
func (l *EpisodeList) MoveDown() {
	if l.cursor < len(l.episodes)-1 {
		l.cursor++
	}
	l.scrollToCursor()
}

func (l *EpisodeList) scrollToCursor() {
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.maxVisible {
		l.offset = l.cursor - l.maxVisible + 1
	}
}

// statusIndicator renders the watched/in-progress/unwatched marker
func statusIndicator(status domain.WatchStatus) string {
	switch status {
	case domain.WatchStatusWatched:
		return styles.WatchedStyle.Render(styles.WatchedChar)
	case domain.WatchStatusInProgress:
		return styles.InProgressStyle.Render(styles.InProgressChar)
	default:
		return styles.UnwatchedStyle.Render(styles.UnwatchedChar)
	}
}

// View renders the episode selector
func (l *EpisodeList) View() string {
	if len(l.episodes) == 0 {
		return styles.DimStyle.Render("no episodes")
	}

	var b strings.Builder

	end := l.offset + l.maxVisible
	if end > len(l.episodes) {
		end = len(l.episodes)
	}

	for row := l.offset; row < end; row++ {
		ep := l.episodes[row]

		line := fmt.Sprintf("%s %s  %s", statusIndicator(l.statusFor(ep.ID)), ep.Code(), ep.Title)
		if pct := l.percentFor(ep.ID); pct > 0 {
			line += styles.DimStyle.Render(fmt.Sprintf("  %d%%", pct))
		}
		if ep.ID == l.continueID {
			line += styles.AccentStyle.Render("  ← continue")
		}

		if row == l.cursor {
			b.WriteString(styles.SelectedStyle.Render(line))
		} else {
			b.WriteString(" " + line)
		}
		b.WriteString("\n")
	}

	if end < len(l.episodes) {
		b.WriteString(styles.DimStyle.Render("↓ more"))
	}

	return b.String()
}
