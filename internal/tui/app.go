package tui

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tsukino/aniwatch/internal/adapter"
	"github.com/tsukino/aniwatch/internal/domain"
	"github.com/tsukino/aniwatch/internal/progress"
	"github.com/tsukino/aniwatch/internal/search"
	"github.com/tsukino/aniwatch/internal/service"
	"github.com/tsukino/aniwatch/internal/tui/components"
	"github.com/tsukino/aniwatch/internal/tui/styles"
)

const (
	listFetchLimit = 25
	spinnerRate    = 120 * time.Millisecond
)

// Model is the root bubbletea model
type Model struct {
	catalogue *service.CatalogueService
	tracker   *progress.Tracker
	watchlist *service.WatchlistService
	comments  *service.CommentsService
	launcher  *adapter.Launcher
	viewer    string // local profile name, used as comment/rating author
	logger    *slog.Logger

	active   view
	cameFrom view // tab the details view was opened from

	list         *components.AnimeList
	epList       *components.EpisodeList
	searchInput  textinput.Model
	commentModal components.InputModal

	detail   *domain.Anime
	schedule map[string][]domain.Anime

	// Genre narrowing over the most recent list fetch
	baseAnimes []domain.Anime
	genreIdx   int // index into genreNames(baseAnimes); -1 shows all

	// pendingKey identifies the in-flight request whose result the model is
	// willing to accept; anything else arriving is stale and dropped.
	pendingKey string

	session *service.PlaybackSession

	loading    bool
	frame      int
	errText    string
	statusText string

	width  int
	height int
}

// New builds the root model
func New(catalogue *service.CatalogueService, tracker *progress.Tracker, watchlist *service.WatchlistService, comments *service.CommentsService, launcher *adapter.Launcher, viewer string, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	if viewer == "" {
		viewer = "viewer"
	}

	si := textinput.New()
	si.Placeholder = "search anime..."
	si.Prompt = "❯ "
	si.PromptStyle = styles.FilterPromptStyle
	si.CharLimit = 100

	m := &Model{
		catalogue:    catalogue,
		tracker:      tracker,
		watchlist:    watchlist,
		comments:     comments,
		launcher:     launcher,
		viewer:       viewer,
		logger:       logger,
		active:       viewHome,
		list:         components.NewAnimeList(viewHome.title()),
		searchInput:  si,
		commentModal: components.NewInputModal(),
		genreIdx:     -1,
	}
	m.epList = components.NewEpisodeList(m.episodeStatus, m.episodePercent)
	return m
}

func (m *Model) episodeStatus(episodeID string) domain.WatchStatus {
	if m.detail == nil {
		return domain.WatchStatusUnwatched
	}
	return m.tracker.Status(m.detail.ID, episodeID)
}

func (m *Model) episodePercent(episodeID string) int {
	if m.detail == nil {
		return 0
	}
	p, ok := m.tracker.Progress(m.detail.ID, episodeID)
	if !ok {
		return 0
	}
	return p.Percentage
}

// Init kicks off the first fetch
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadActiveView(), m.tick())
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(spinnerRate, func(time.Time) tea.Msg { return tickMsg{} })
}

// loadActiveView dispatches the fetch for the current tab
func (m *Model) loadActiveView() tea.Cmd {
	m.errText = ""
	m.list.SetTitle(m.active.title())
	switch m.active {
	case viewHome:
		return m.fetchList("top", func(ctx context.Context) ([]domain.Anime, error) {
			return m.catalogue.Top(ctx, listFetchLimit)
		})
	case viewSeasonal:
		return m.fetchList("seasonal", func(ctx context.Context) ([]domain.Anime, error) {
			return m.catalogue.SeasonNow(ctx, listFetchLimit)
		})
	case viewSchedule:
		return m.fetchSchedule()
	case viewWatchlist:
		m.showWatchlist()
		return nil
	case viewSearch:
		// search runs on demand, not on tab entry
		return nil
	}
	return nil
}

// fetchList runs a catalogue fetch off the update loop
func (m *Model) fetchList(key string, fetch func(context.Context) ([]domain.Anime, error)) tea.Cmd {
	m.pendingKey = key
	m.loading = true
	m.list.SetLoading(true)
	return func() tea.Msg {
		animes, err := fetch(context.Background())
		if err != nil {
			return fetchErrMsg{key: key, err: err}
		}
		return animeListMsg{key: key, animes: animes}
	}
}

func (m *Model) fetchAnime(id string) tea.Cmd {
	key := "anime:" + id
	m.pendingKey = key
	m.loading = true
	return func() tea.Msg {
		anime, err := m.catalogue.AnimeByID(context.Background(), id)
		if err != nil {
			return fetchErrMsg{key: key, err: err}
		}
		return animeMsg{key: key, anime: anime}
	}
}

func (m *Model) fetchSchedule() tea.Cmd {
	key := "schedule"
	m.pendingKey = key
	m.loading = true
	return func() tea.Msg {
		schedule, err := m.catalogue.Schedule(context.Background())
		if err != nil {
			return fetchErrMsg{key: key, err: err}
		}
		return scheduleMsg{key: key, schedule: schedule}
	}
}

// showWatchlist populates the list from the local store, newest first
func (m *Model) showWatchlist() {
	entries := m.watchlist.List()
	animes := make([]domain.Anime, len(entries))
	for i, e := range entries {
		animes[i] = domain.Anime{
			ID:         e.AnimeID,
			Title:      e.AnimeTitle,
			CoverImage: e.AnimeCover,
			Rating:     e.Rating,
		}
	}
	m.list.SetItems(animes)
	m.loading = false
}

// play launches the external player for the selected episode, resuming from
// any stored position, and starts a playback session that persists position
// on a timer until the next play or quit.
func (m *Model) play(anime domain.Anime, ep domain.Episode) tea.Cmd {
	var offset time.Duration
	if p, ok := m.tracker.Progress(anime.ID, ep.ID); ok {
		offset = time.Duration(p.Timestamp * float64(time.Second))
	}

	return func() tea.Msg {
		if err := m.launcher.Launch(ep.VideoURL, offset); err != nil {
			return playbackErrMsg{err: err}
		}
		return playbackStartedMsg{episodeID: ep.ID}
	}
}

// startSession begins periodic progress persistence for the episode that just
// launched. Position is estimated from wall clock relative to the resume
// offset; the external player is not queried.
func (m *Model) startSession(anime domain.Anime, ep domain.Episode) {
	m.closeSession()

	base := 0.0
	if p, ok := m.tracker.Progress(anime.ID, ep.ID); ok {
		base = p.Timestamp
	}
	dur := episodeDurationSeconds(ep.Duration)
	start := time.Now()

	position := func() (float64, float64, bool) {
		if dur <= 0 {
			return 0, 0, false
		}
		pos := base + time.Since(start).Seconds()
		if pos > dur {
			pos = dur
		}
		return pos, dur, true
	}

	m.session = service.NewPlaybackSession(m.tracker, anime.ID, ep.ID, position, 0, m.logger)
	m.session.Start()
}

func (m *Model) closeSession() {
	if m.session != nil {
		m.session.Close()
		m.session = nil
	}
}

// episodeDurationSeconds parses display durations like "24 min" or "1 hr"
func episodeDurationSeconds(s string) float64 {
	var n int
	if _, err := fmt.Sscanf(s, "%d min", &n); err == nil {
		return float64(n) * 60
	}
	if _, err := fmt.Sscanf(s, "%d hr", &n); err == nil {
		return float64(n) * 3600
	}
	return 0
}

// Update handles all messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		m.epList.SetHeight(msg.Height - 14)
		return m, nil

	case tickMsg:
		if m.loading {
			m.frame = (m.frame + 1) % len(styles.SpinnerFrames)
			m.list.TickSpinner()
		}
		return m, m.tick()

	case animeListMsg:
		if msg.key != m.pendingKey {
			return m, nil
		}
		m.loading = false
		m.baseAnimes = msg.animes
		m.genreIdx = -1
		m.list.SetItems(msg.animes)
		return m, nil

	case animeMsg:
		if msg.key != m.pendingKey {
			return m, nil
		}
		m.loading = false
		m.detail = msg.anime
		continueID := ""
		if ep, ok := m.tracker.ResolveContinueWatching(*msg.anime); ok {
			continueID = ep.ID
		}
		m.epList.SetEpisodes(msg.anime.AllEpisodes(), continueID)
		return m, nil

	case scheduleMsg:
		if msg.key != m.pendingKey {
			return m, nil
		}
		m.loading = false
		m.schedule = msg.schedule
		return m, nil

	case fetchErrMsg:
		if msg.key != m.pendingKey {
			return m, nil
		}
		m.loading = false
		m.list.SetLoading(false)
		m.errText = msg.err.Error()
		return m, nil

	case playbackStartedMsg:
		m.statusText = "playing " + msg.episodeID
		return m, nil

	case playbackErrMsg:
		m.errText = "player: " + msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text inputs own the keyboard while focused
	if m.commentModal.IsVisible() {
		return m.handleCommentModal(msg)
	}
	if m.active == viewSearch && m.searchInput.Focused() {
		return m.handleSearchInput(msg)
	}
	if m.active != viewDetails && m.list.FilterActive() {
		switch msg.String() {
		case "esc", "enter":
			m.list.StopFilter()
			return m, nil
		default:
			return m, m.list.UpdateFilter(msg)
		}
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.closeSession()
		return m, tea.Quit

	case key.Matches(msg, keys.Tab):
		if m.active == viewDetails {
			return m, nil
		}
		m.switchTab()
		return m, m.loadActiveView()

	case key.Matches(msg, keys.Back):
		if m.active == viewDetails {
			// Leaving the episode view ends the playback session; Close
			// flushes the last position before the ticker is torn down.
			m.closeSession()
			m.active = m.cameFrom
			m.detail = nil
			m.list.SetLoading(false)
			return m, m.loadActiveView()
		}
		return m, nil
	}

	if m.active == viewDetails {
		return m.handleDetailsKey(msg)
	}
	return m.handleListKey(msg)
}

func (m *Model) switchTab() {
	for i, v := range tabbedViews {
		if v == m.active {
			m.active = tabbedViews[(i+1)%len(tabbedViews)]
			break
		}
	}
	m.errText = ""
	m.statusText = ""
	if m.active == viewSearch {
		m.searchInput.Focus()
	} else {
		m.searchInput.Blur()
	}
}

func (m *Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		query := m.searchInput.Value()
		if query == "" {
			return m, nil
		}
		m.searchInput.Blur()
		return m, m.fetchList("search:"+query, func(ctx context.Context) ([]domain.Anime, error) {
			animes, err := m.catalogue.Search(ctx, query, listFetchLimit)
			if err != nil {
				return nil, err
			}
			// Re-rank server results by local fuzzy relevance
			return search.Filter(query, animes), nil
		})
	case "esc":
		m.searchInput.Blur()
		return m, nil
	case "ctrl+c":
		m.closeSession()
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleCommentModal routes keys to the comment entry overlay and posts the
// comment on submit, attributed to the local profile name.
func (m *Model) handleCommentModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	modal, cmd, submitted := m.commentModal.Update(msg)
	m.commentModal = modal
	if !submitted {
		return m, cmd
	}

	content := m.commentModal.Value()
	m.commentModal.Hide()
	ep, ok := m.epList.Selected()
	if !ok || m.detail == nil {
		return m, nil
	}

	if _, err := m.comments.Add(m.detail.ID, ep.ID, m.viewer, content); err != nil {
		m.errText = err.Error()
		return m, nil
	}
	m.statusText = "comment posted on " + ep.Code()
	return m, nil
}

// genreNames collects the distinct genre names present in the list, sorted
func genreNames(animes []domain.Anime) []string {
	seen := map[string]bool{}
	var names []string
	for _, a := range animes {
		for _, g := range a.Genres {
			if !seen[g.Name] {
				seen[g.Name] = true
				names = append(names, g.Name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// cycleGenre narrows the current list to the next genre present in it,
// wrapping back to the unfiltered list after the last one
func (m *Model) cycleGenre() {
	names := genreNames(m.baseAnimes)
	if len(names) == 0 {
		return
	}

	m.genreIdx++
	if m.genreIdx >= len(names) {
		m.genreIdx = -1
		m.list.SetItems(m.baseAnimes)
		m.statusText = ""
		return
	}

	name := names[m.genreIdx]
	m.list.SetItems(search.FilterByGenre(name, m.baseAnimes))
	m.statusText = "genre: " + name
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		m.list.MoveUp()
	case key.Matches(msg, keys.Down):
		m.list.MoveDown()
	case key.Matches(msg, keys.Filter):
		return m, m.list.StartFilter()
	case key.Matches(msg, keys.Search):
		m.active = viewSearch
		m.errText = ""
		return m, m.searchInput.Focus()
	case key.Matches(msg, keys.Genre):
		m.cycleGenre()
	case key.Matches(msg, keys.Refresh):
		m.catalogue.InvalidateAll()
		return m, m.loadActiveView()
	case key.Matches(msg, keys.Watchlist):
		if a, ok := m.list.Selected(); ok {
			m.toggleWatchlist(a)
			if m.active == viewWatchlist {
				m.showWatchlist()
			}
		}
	case key.Matches(msg, keys.Select):
		if a, ok := m.list.Selected(); ok {
			m.cameFrom = m.active
			m.active = viewDetails
			m.detail = nil
			return m, m.fetchAnime(a.ID)
		}
	}
	return m, nil
}

func (m *Model) handleDetailsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.detail == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Up):
		m.epList.MoveUp()
	case key.Matches(msg, keys.Down):
		m.epList.MoveDown()

	case key.Matches(msg, keys.Select):
		if ep, ok := m.epList.Selected(); ok {
			anime := *m.detail
			m.startSession(anime, ep)
			return m, m.play(anime, ep)
		}

	case key.Matches(msg, keys.Continue):
		if ep, ok := m.tracker.ResolveContinueWatching(*m.detail); ok {
			anime := *m.detail
			m.startSession(anime, ep)
			return m, m.play(anime, ep)
		}
		m.statusText = "nothing to continue"

	case key.Matches(msg, keys.MarkWatched):
		if ep, ok := m.epList.Selected(); ok {
			m.tracker.MarkWatched(m.detail.ID, ep.ID)
			m.refreshContinueTarget()
		}

	case key.Matches(msg, keys.ClearProgress):
		if ep, ok := m.epList.Selected(); ok {
			m.tracker.ClearProgress(m.detail.ID, ep.ID)
			m.refreshContinueTarget()
		}

	case key.Matches(msg, keys.Comment):
		if ep, ok := m.epList.Selected(); ok {
			m.commentModal.Show("Comment on " + ep.Code())
		}

	case key.Matches(msg, keys.Like):
		if ep, ok := m.epList.Selected(); ok {
			if listed := m.comments.ListForEpisode(m.detail.ID, ep.ID); len(listed) > 0 {
				if err := m.comments.Like(m.detail.ID, ep.ID, listed[0].ID); err == nil {
					m.statusText = "liked"
				}
			}
		}

	case key.Matches(msg, keys.Watchlist):
		m.toggleWatchlist(*m.detail)

	case msg.String() >= "1" && msg.String() <= "5" && len(msg.String()) == 1:
		rating := float64(msg.String()[0] - '0')
		if err := m.watchlist.Rate(m.detail.ID, rating); err != nil {
			m.errText = "rate: add to watchlist first"
		} else {
			m.statusText = fmt.Sprintf("rated %.0f/5", rating)
		}
	}
	return m, nil
}

// refreshContinueTarget recomputes the continue-watching marker after a
// watched-state change
func (m *Model) refreshContinueTarget() {
	continueID := ""
	if ep, ok := m.tracker.ResolveContinueWatching(*m.detail); ok {
		continueID = ep.ID
	}
	m.epList.SetEpisodes(m.detail.AllEpisodes(), continueID)
}

func (m *Model) toggleWatchlist(anime domain.Anime) {
	if m.watchlist.Contains(anime.ID) {
		if err := m.watchlist.Remove(anime.ID); err == nil {
			m.statusText = "removed from watchlist"
		}
		return
	}
	if err := m.watchlist.Add(anime); err != nil {
		m.errText = err.Error()
		return
	}
	m.statusText = "added to watchlist"
}

// View renders the active screen
func (m *Model) View() string {
	var body string
	switch m.active {
	case viewSchedule:
		body = m.renderSchedule()
	case viewDetails:
		body = m.renderDetails()
	case viewSearch:
		body = styles.TitleStyle.Render("Search") + "\n" + m.searchInput.View() + "\n\n" + m.list.View()
	default:
		body = m.list.View()
	}

	return m.renderTabs() + "\n\n" + body + "\n\n" + m.renderStatusBar()
}
