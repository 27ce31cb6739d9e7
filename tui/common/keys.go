package common

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines shared key bindings across all views.
type KeyMap struct {
	Quit       key.Binding
	Refresh    key.Binding
	NewInline  key.Binding // n: submit via inline form
	NewEditor  key.Binding // N: submit via $EDITOR
	EditInline key.Binding // e: edit own story (inline)
	EditEditor key.Binding // E: edit own story ($EDITOR)
	Delete     key.Binding // d: delete own story
	Favorite   key.Binding // f
	Unfavorite key.Binding // u
	NextTab    key.Binding
	PrevTab    key.Binding
	Up         key.Binding
	Down       key.Binding
	Open       key.Binding // o: open in browser
	Login      key.Binding // L: login / signup form
	Logout     key.Binding // O
	Confirm    key.Binding
	Cancel     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		NewInline: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "submit (inline)"),
		),
		NewEditor: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "submit ($EDITOR)"),
		),
		EditInline: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit (inline)"),
		),
		EditEditor: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "edit ($EDITOR)"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Favorite: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "favorite"),
		),
		Unfavorite: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unfavorite"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev tab"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open"),
		),
		Login: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "login/signup"),
		),
		Logout: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "logout"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
	}
}
