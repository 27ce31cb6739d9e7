package common

import "github.com/charmbracelet/lipgloss"

var (
	// AppTitleStyle styles the application title. Rendered at call site with content.
	AppTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6600")).
			Padding(1, 2, 0, 1)

	// TaglineStyle styles the app's tagline.
	TaglineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555")). // Dimmed grey
			Italic(true).
			MarginLeft(1)

	// TabActiveStyle styles the selected tab.
	TabActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6600")).
			Bold(true).
			Underline(true).
			Padding(0, 1)

	// TabInactiveStyle styles the other tabs.
	TabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6E738D")).
				Padding(0, 1)

	// TitleStyle styles the story title.
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CAD3F5")).
			Bold(true)

	// HostStyle styles the host name shown next to a title.
	HostStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6DA95"))

	// AuthorStyle styles the story author and poster.
	AuthorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7DC4E4"))

	// TimestampStyle styles timestamps.
	TimestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D"))

	// FavoriteStyle styles the star of favorited stories.
	FavoriteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EED49F")).
			Bold(true)

	// OwnBadgeStyle highlights stories that belong to the user.
	OwnBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6DA95")).
			Bold(true).
			MarginLeft(1)

	// SelectedStyle highlights the currently selected story.
	SelectedStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF6600")).
			Padding(0, 1)

	// UnselectedStyle gives unselected stories a subtle greyed-out border.
	UnselectedStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1)

	// ProfileStyle styles the logged-in user line.
	ProfileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7DC4E4")).
			MarginLeft(1)

	// StatusBarStyle styles the bottom status bar.
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D")).
			Padding(1, 0, 0, 0)

	// HintStyle styles the key hint line.
	HintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555"))

	// LabelStyle styles form labels.
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D")).
			Width(10)

	// ConfirmStyle styles the delete confirmation prompt.
	ConfirmStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ED8796")).
			Bold(true).
			Padding(0, 1)

	// ErrorStyle styles error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ED8796")).
			Bold(true)

	// SuccessStyle styles success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6DA95")).
			Bold(true)
)
