package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tsukino/aniwatch/internal/tui/styles"
)

// view identifies the active screen
type view int

const (
	viewHome view = iota
	viewSeasonal
	viewSchedule
	viewSearch
	viewWatchlist
	viewDetails
)

// tabbedViews is the tab-cycle order; details is reached by selection only
var tabbedViews = []view{viewHome, viewSeasonal, viewSchedule, viewSearch, viewWatchlist}

func (v view) title() string {
	switch v {
	case viewHome:
		return "Top Anime"
	case viewSeasonal:
		return "This Season"
	case viewSchedule:
		return "Schedule"
	case viewSearch:
		return "Search"
	case viewWatchlist:
		return "Watchlist"
	case viewDetails:
		return "Details"
	default:
		return ""
	}
}

// scheduleDays is the render order for the weekly schedule
var scheduleDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

func (m *Model) renderTabs() string {
	var tabs []string
	for _, v := range tabbedViews {
		if v == m.active || (m.active == viewDetails && v == m.cameFrom) {
			tabs = append(tabs, styles.ActiveTabStyle.Render(v.title()))
		} else {
			tabs = append(tabs, styles.TabStyle.Render(v.title()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderStatusBar() string {
	if m.errText != "" {
		return styles.ErrorStyle.Render(m.errText)
	}
	if m.statusText != "" {
		return styles.SuccessStyle.Render(m.statusText)
	}
	if m.active == viewDetails {
		return styles.DimStyle.Render("enter play · c continue · m watched · x clear · w watchlist · a comment · l like · 1-5 rate · esc back")
	}
	return styles.DimStyle.Render("enter open · / filter · g genre · tab views · w watchlist · r refresh · q quit")
}

func (m *Model) renderSchedule() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Weekly Schedule"))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(styles.DimStyle.Render(styles.SpinnerFrames[m.frame] + " loading..."))
		return b.String()
	}
	if m.schedule == nil {
		b.WriteString(styles.DimStyle.Render("no schedule loaded"))
		return b.String()
	}

	for _, day := range scheduleDays {
		b.WriteString(styles.AccentStyle.Render(strings.ToUpper(day[:1]) + day[1:]))
		b.WriteString("\n")
		entries := m.schedule[day]
		if len(entries) == 0 {
			b.WriteString(styles.DimStyle.Render("  —"))
			b.WriteString("\n")
			continue
		}
		max := len(entries)
		if max > 4 {
			max = 4
		}
		for _, a := range entries[:max] {
			b.WriteString("  " + a.Title)
			b.WriteString("\n")
		}
		if len(entries) > max {
			b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  +%d more", len(entries)-max)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) renderDetails() string {
	if m.detail == nil {
		return styles.DimStyle.Render(styles.SpinnerFrames[m.frame] + " loading...")
	}
	a := m.detail

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(a.Title))
	if m.watchlist.Contains(a.ID) {
		b.WriteString(styles.AccentStyle.Render("  [watchlist]"))
	}
	b.WriteString("\n")

	meta := fmt.Sprintf("%s · %s · %d · %d episodes", a.Type, a.Status, a.ReleaseYear, a.EpisodeCount())
	if a.Rating > 0 {
		meta += fmt.Sprintf(" · ★ %.1f", a.Rating)
	}
	if summary := m.watchlist.RatingsFor(a.ID); summary.Count > 0 {
		meta += fmt.Sprintf(" · viewers %.1f (%d)", summary.Average, summary.Count)
	}
	b.WriteString(styles.SubtitleStyle.Render(meta))
	b.WriteString("\n")

	if len(a.Genres) > 0 {
		names := make([]string, len(a.Genres))
		for i, g := range a.Genres {
			names[i] = g.Name
		}
		b.WriteString(styles.DimStyle.Render(strings.Join(names, ", ")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.SubtitleStyle.Render(truncate(a.Description, 400)))
	b.WriteString("\n\n")

	b.WriteString(m.epList.View())

	if ep, ok := m.epList.Selected(); ok {
		if comments := m.comments.ListForEpisode(a.ID, ep.ID); len(comments) > 0 {
			b.WriteString("\n")
			b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("Comments on %s (%d)", ep.Code(), len(comments))))
			b.WriteString("\n")
			max := len(comments)
			if max > 3 {
				max = 3
			}
			for _, c := range comments[:max] {
				line := fmt.Sprintf("%s: %s", c.Author, truncate(c.Content, 60))
				if c.Likes > 0 {
					line += styles.AccentStyle.Render(fmt.Sprintf("  ♥ %d", c.Likes))
				}
				b.WriteString(styles.DimStyle.Render(line))
				b.WriteString("\n")
			}
		}
	}

	if m.commentModal.IsVisible() {
		b.WriteString("\n")
		b.WriteString(m.commentModal.View())
	}
	return b.String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
