package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
	"github.com/tsukino/aniwatch/internal/domain"
	"github.com/tsukino/aniwatch/internal/tui/styles"
)

// AnimeList is a scrollable, filterable list of catalogue titles
type AnimeList struct {
	animes []domain.Anime

	cursor     int
	offset     int
	maxVisible int

	width  int
	height int

	title   string
	loading bool
	frame   int

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filteredIdx  []int // indices into animes; nil when no filter applied
}

// NewAnimeList creates an empty list with the given header title
func NewAnimeList(title string) *AnimeList {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &AnimeList{
		title:       title,
		filterInput: ti,
	}
}

// SetItems replaces the list contents and resets cursor and filter
func (l *AnimeList) SetItems(animes []domain.Anime) {
	l.animes = animes
	l.cursor = 0
	l.offset = 0
	l.loading = false
	l.clearFilter()
}

// SetTitle changes the header title
func (l *AnimeList) SetTitle(title string) {
	l.title = title
}

// SetLoading toggles the loading spinner
func (l *AnimeList) SetLoading(loading bool) {
	l.loading = loading
}

// SetSize updates the rendered dimensions
func (l *AnimeList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.maxVisible = height - 3 // header + filter line + padding
	if l.maxVisible < 1 {
		l.maxVisible = 1
	}
}

// TickSpinner advances the loading animation
func (l *AnimeList) TickSpinner() {
	l.frame = (l.frame + 1) % len(styles.SpinnerFrames)
}

// visible returns the indices currently shown, honoring any active filter
func (l *AnimeList) visible() []int {
	if l.filteredIdx != nil {
		return l.filteredIdx
	}
	idx := make([]int, len(l.animes))
	for i := range l.animes {
		idx[i] = i
	}
	return idx
}

// Selected returns the title under the cursor
func (l *AnimeList) Selected() (domain.Anime, bool) {
	visible := l.visible()
	if l.cursor < 0 || l.cursor >= len(visible) {
		return domain.Anime{}, false
	}
	return l.animes[visible[l.cursor]], true
}

// MoveUp moves the cursor up one row
func (l *AnimeList) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
}

// MoveDown moves the cursor down one row
func (l *AnimeList) MoveDown() {
	if l.cursor < len(l.visible())-1 {
		l.cursor++
	}
	if l.cursor >= l.offset+l.maxVisible {
		l.offset = l.cursor - l.maxVisible + 1
	}
}

// FilterActive reports whether the inline filter input owns key events
func (l *AnimeList) FilterActive() bool {
	return l.filterActive
}

// StartFilter focuses the inline filter input
func (l *AnimeList) StartFilter() tea.Cmd {
	l.filterActive = true
	return l.filterInput.Focus()
}

// StopFilter closes the filter input, keeping the current match set
func (l *AnimeList) StopFilter() {
	l.filterActive = false
	l.filterInput.Blur()
}

// clearFilter resets the filter entirely
func (l *AnimeList) clearFilter() {
	l.filterActive = false
	l.filterInput.SetValue("")
	l.filterInput.Blur()
	l.filteredIdx = nil
}

// UpdateFilter feeds a key event to the filter input and re-runs matching
func (l *AnimeList) UpdateFilter(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.filterInput, cmd = l.filterInput.Update(msg)
	l.applyFilter(l.filterInput.Value())
	return cmd
}

// applyFilter fuzzy-matches the query against titles
func (l *AnimeList) applyFilter(query string) {
	l.cursor = 0
	l.offset = 0

	if strings.TrimSpace(query) == "" {
		l.filteredIdx = nil
		return
	}

	titles := make([]string, len(l.animes))
	for i, a := range l.animes {
		titles[i] = a.Title
	}

	matches := fuzzy.Find(query, titles)
	idx := make([]int, len(matches))
	for i, m := range matches {
		idx[i] = m.Index
	}
	l.filteredIdx = idx
}

// View renders the list
func (l *AnimeList) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(l.title))
	b.WriteString("\n")

	if l.filterActive || l.filterInput.Value() != "" {
		b.WriteString(l.filterInput.View())
		b.WriteString("\n")
	}

	if l.loading {
		b.WriteString(styles.DimStyle.Render(styles.SpinnerFrames[l.frame] + " loading..."))
		return b.String()
	}

	visible := l.visible()
	if len(visible) == 0 {
		b.WriteString(styles.DimStyle.Render("nothing here"))
		return b.String()
	}

	end := l.offset + l.maxVisible
	if end > len(visible) {
		end = len(visible)
	}

	for row := l.offset; row < end; row++ {
		a := l.animes[visible[row]]
		line := fmt.Sprintf("%s (%d)", a.Title, a.ReleaseYear)
		if a.Rating > 0 {
			line += styles.DimStyle.Render(fmt.Sprintf("  ★ %.1f", a.Rating))
		}
		if row == l.cursor {
			b.WriteString(styles.SelectedStyle.Render(line))
		} else {
			b.WriteString(" " + line)
		}
		b.WriteString("\n")
	}

	if end < len(visible) {
		b.WriteString(styles.DimStyle.Render("↓ more"))
	}

	return b.String()
}
