package feed

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages for the feed view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.confirmDelete {
		id := m.deleteTarget
		m.confirmDelete = false
		m.deleteTarget = ""
		if key.Matches(msg, m.keys.Confirm) {
			return m, emit(DeleteStoryMsg{ID: id})
		}
		// Anything else cancels.
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursors[m.tab] > 0 {
			m.cursors[m.tab]--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursors[m.tab] < len(m.stories())-1 {
			m.cursors[m.tab]++
		}
		return m, nil

	case key.Matches(msg, m.keys.NextTab):
		return m.switchTab(1)

	case key.Matches(msg, m.keys.PrevTab):
		return m.switchTab(-1)

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, tea.Batch(emit(RefreshMsg{}), m.spinner.Tick)

	case key.Matches(msg, m.keys.Open):
		if s, ok := m.Selected(); ok {
			return m, openURL(s.URL)
		}
	}

	s, ok := m.Selected()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Favorite):
		return m, emit(FavoriteMsg{ID: s.ID})

	case key.Matches(msg, m.keys.Unfavorite):
		return m, emit(UnfavoriteMsg{ID: s.ID})

	case key.Matches(msg, m.keys.EditInline), key.Matches(msg, m.keys.EditEditor):
		if !m.ownsStory(s.ID) {
			return m, nil
		}
		return m, emit(EditStoryMsg{Story: s, UseEditor: key.Matches(msg, m.keys.EditEditor)})

	case key.Matches(msg, m.keys.Delete):
		if !m.ownsStory(s.ID) {
			return m, nil
		}
		m.confirmDelete = true
		m.deleteTarget = s.ID
		return m, nil
	}

	return m, nil
}

func (m Model) switchTab(step int) (Model, tea.Cmd) {
	next := m.tab
	for i := 0; i < int(tabCount); i++ {
		next = Tab((int(next) + step + int(tabCount)) % int(tabCount))
		if m.tabAvailable(next) {
			break
		}
	}
	if next == m.tab {
		return m, nil
	}
	m.tab = next
	m.clampCursor()
	return m, emit(TabChangedMsg{Tab: next})
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
