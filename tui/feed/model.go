package feed

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/hacksnooze/domain"
	"github.com/CrestNiraj12/hacksnooze/tui/common"
)

// Tab selects which of the three story views is shown.
type Tab int

const (
	TabAll Tab = iota
	TabFavorites
	TabMine
	tabCount
)

// String returns the name persisted in the UI state file.
func (t Tab) String() string {
	switch t {
	case TabFavorites:
		return "favorites"
	case TabMine:
		return "mine"
	default:
		return "all"
	}
}

// Label is the tab caption.
func (t Tab) Label() string {
	switch t {
	case TabFavorites:
		return "Favorites"
	case TabMine:
		return "My stories"
	default:
		return "All stories"
	}
}

// ParseTab is the inverse of String. Unknown names select TabAll.
func ParseTab(s string) Tab {
	for t := TabAll; t < tabCount; t++ {
		if t.String() == s {
			return t
		}
	}
	return TabAll
}

// --- Messages ---
// The feed never talks to the session itself; it emits these for the root
// model to act on.

// RefreshMsg asks for the feed to be fetched again.
type RefreshMsg struct{}

// FavoriteMsg asks for a story to be added to the favorites.
type FavoriteMsg struct {
	ID string
}

// UnfavoriteMsg asks for a story to be removed from the favorites.
type UnfavoriteMsg struct {
	ID string
}

// EditStoryMsg is sent when the user wants to edit one of their stories.
type EditStoryMsg struct {
	Story     domain.Story
	UseEditor bool
}

// DeleteStoryMsg is sent once a delete has been confirmed.
type DeleteStoryMsg struct {
	ID string
}

// TabChangedMsg is sent after the selected tab changed.
type TabChangedMsg struct {
	Tab Tab
}

// --- Model ---

// Model holds the state for the story list view.
type Model struct {
	tab        Tab
	cursors    [tabCount]int
	feed       []domain.Story
	feedLoaded bool
	user       *domain.User
	loading    bool
	keys       common.KeyMap
	spinner    spinner.Model
	width      int
	height     int

	confirmDelete bool
	deleteTarget  string
}

// New creates a feed model showing tab once a user is logged in.
func New(tab Tab) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))

	return Model{
		tab:     tab,
		keys:    common.DefaultKeyMap(),
		spinner: s,
		loading: true,
	}
}

// Init starts the loading spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// SetSnapshot replaces the displayed feed and user. feedLoaded is false until
// the first successful fetch.
func (m Model) SetSnapshot(feed domain.StoryList, feedLoaded bool, user *domain.User) Model {
	m.feed = feed.Stories
	m.feedLoaded = feedLoaded
	m.user = user
	if !m.tabAvailable(m.tab) {
		m.tab = TabAll
	}
	if m.confirmDelete && (user == nil || !m.ownsStory(m.deleteTarget)) {
		m.confirmDelete = false
		m.deleteTarget = ""
	}
	m.clampCursor()
	return m
}

// SetLoading toggles the spinner shown while a fetch is in flight.
func (m Model) SetLoading(loading bool) Model {
	m.loading = loading
	return m
}

// Loading reports whether a fetch is in flight.
func (m Model) Loading() bool { return m.loading }

// Tab returns the shown tab.
func (m Model) Tab() Tab { return m.tab }

// IsConfirming reports whether a delete confirmation is pending.
func (m Model) IsConfirming() bool { return m.confirmDelete }

// Selected returns the story under the cursor.
func (m Model) Selected() (domain.Story, bool) {
	stories := m.stories()
	if len(stories) == 0 {
		return domain.Story{}, false
	}
	return stories[m.cursors[m.tab]], true
}

// stories returns the list backing the current tab.
func (m Model) stories() []domain.Story {
	switch {
	case m.tab == TabFavorites && m.user != nil:
		return m.user.Favorites
	case m.tab == TabMine && m.user != nil:
		return m.user.OwnStories
	default:
		return m.feed
	}
}

func (m Model) tabAvailable(t Tab) bool {
	return t == TabAll || m.user != nil
}

func (m Model) isFavorite(id string) bool {
	return m.user != nil && m.user.IsFavorite(id)
}

func (m Model) ownsStory(id string) bool {
	if m.user == nil {
		return false
	}
	_, ok := m.user.OwnStory(id)
	return ok
}

func (m *Model) clampCursor() {
	n := len(m.stories())
	c := &m.cursors[m.tab]
	if *c >= n {
		*c = n - 1
	}
	if *c < 0 {
		*c = 0
	}
}
