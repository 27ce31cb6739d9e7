package feed

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/hacksnooze/domain"
	"github.com/CrestNiraj12/hacksnooze/tui/common"
)

const (
	defaultWidth = 80
	rowHeight    = 4 // 2 content lines + 2 border
	reservedRows = 10
)

// View renders the feed as a string.
func (m Model) View() string {
	var b strings.Builder

	title := common.AppTitleStyle.Render("Hack or Snooze")
	tagline := common.TaglineStyle.Render("<news from the terminal>")
	b.WriteString(title + tagline + "\n")
	b.WriteString(m.renderProfile() + "\n")
	b.WriteString(m.renderTabs() + "\n\n")

	stories := m.stories()
	switch {
	case m.loading && !m.feedLoaded:
		b.WriteString(fmt.Sprintf("  %s Loading stories...\n", m.spinner.View()))
	case len(stories) == 0:
		b.WriteString("  " + m.emptyText() + "\n")
	default:
		b.WriteString(m.renderList(stories))
	}

	b.WriteString("\n")
	if m.confirmDelete {
		b.WriteString(common.ConfirmStyle.Render("Delete this story? (y/n)"))
	} else {
		b.WriteString(common.HintStyle.Render(m.hints()))
	}
	return b.String()
}

func (m Model) renderProfile() string {
	if m.user == nil {
		return common.ProfileStyle.Render("Not logged in")
	}
	line := fmt.Sprintf("%s (@%s) · member since %s",
		m.user.Name, m.user.Username, common.FormatDate(m.user.CreatedAt))
	return common.ProfileStyle.Render(line)
}

func (m Model) renderTabs() string {
	var tabs []string
	for t := TabAll; t < tabCount; t++ {
		if !m.tabAvailable(t) {
			continue
		}
		label := t.Label()
		if t == m.tab {
			tabs = append(tabs, common.TabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, common.TabInactiveStyle.Render(label))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if m.loading && m.feedLoaded {
		row += " " + m.spinner.View()
	}
	return row
}

func (m Model) renderList(stories []domain.Story) string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	visible := (m.height - reservedRows) / rowHeight
	if visible < 1 {
		visible = 1
	}
	if m.height <= 0 {
		visible = len(stories)
	}

	cursor := m.cursors[m.tab]
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > len(stories) {
		end = len(stories)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		box := common.UnselectedStyle
		if i == cursor {
			box = common.SelectedStyle
		}
		b.WriteString(box.Width(width-4).Render(m.renderStory(stories[i], width-8)) + "\n")
	}
	if end < len(stories) {
		b.WriteString(common.HintStyle.Render(fmt.Sprintf("  … %d more", len(stories)-end)) + "\n")
	}
	return b.String()
}

func (m Model) renderStory(s domain.Story, width int) string {
	star := "☆"
	if m.isFavorite(s.ID) {
		star = common.FavoriteStyle.Render("★")
	}
	head := star + " " + common.TitleStyle.Render(common.Truncate(s.Title, width-4))
	if host := s.HostName(); host != "" {
		head += " " + common.HostStyle.Render("("+host+")")
	}

	meta := fmt.Sprintf("by %s · posted by %s",
		common.AuthorStyle.Render(s.Author), common.AuthorStyle.Render(s.Username))
	if !s.CreatedAt.IsZero() {
		meta += " · " + common.TimestampStyle.Render(s.CreatedAt.Local().Format("Jan 02 15:04"))
	}
	if m.ownsStory(s.ID) {
		meta += common.OwnBadgeStyle.Render("(yours)")
	}
	return head + "\n" + meta
}

func (m Model) emptyText() string {
	switch {
	case !m.feedLoaded && m.tab == TabAll:
		return "Stories could not be loaded. Press r to retry."
	case m.tab == TabFavorites:
		return "No favorites added!"
	case m.tab == TabMine:
		return "No stories added by user yet!"
	default:
		return "No stories yet. Be the first!"
	}
}

func (m Model) hints() string {
	parts := []string{"j/k move", "o open", "r refresh"}
	if m.user == nil {
		parts = append(parts, "L login/signup")
	} else {
		parts = append(parts, "tab switch", "f/u fav/unfav", "n/N submit", "e/E edit", "d delete", "O logout")
	}
	parts = append(parts, "q quit")
	return "  " + strings.Join(parts, " • ")
}
