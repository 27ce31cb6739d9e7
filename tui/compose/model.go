package compose

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/hacksnooze/domain"
	"github.com/CrestNiraj12/hacksnooze/infra/editor"
)

// --- Mode ---

type mode int

const (
	editorMode mode = iota
	inlineMode
)

// --- Messages ---

// DoneMsg is sent when composing is complete (success or cancel).
type DoneMsg struct {
	Draft    domain.StoryDraft
	StoryID  string // ID of the story being edited
	IsEdit   bool
	Canceled bool
	Err      error
}

// editorFinishedMsg is sent after the external editor exits.
type editorFinishedMsg struct {
	tmpPath string
	err     error
}

const (
	fieldTitle = iota
	fieldAuthor
	fieldURL
	fieldCount
)

// --- Model ---

// Model holds the state for the story form.
type Model struct {
	mode    mode
	editor  *editor.EnvEditor
	status  string
	inputs  [fieldCount]textinput.Model // Only used in inline mode
	focus   int
	isEdit  bool
	storyID string
	initial domain.StoryDraft
}

// NewEditor creates a compose model that opens $EDITOR for a new story.
func NewEditor(ed *editor.EnvEditor) Model {
	return Model{
		mode:   editorMode,
		editor: ed,
		status: "Opening editor...",
	}
}

// EditWithEditor creates a compose model that opens $EDITOR on an existing story.
func EditWithEditor(ed *editor.EnvEditor, story domain.Story) Model {
	m := NewEditor(ed)
	m.isEdit = true
	m.storyID = story.ID
	m.initial = domain.DraftOf(story)
	return m
}

// NewInline creates a compose model with an inline three-field form.
func NewInline() Model {
	var inputs [fieldCount]textinput.Model
	for i := range inputs {
		ti := textinput.New()
		ti.Width = 60
		ti.CharLimit = 300
		inputs[i] = ti
	}
	inputs[fieldTitle].Placeholder = "title"
	inputs[fieldAuthor].Placeholder = "author"
	inputs[fieldURL].Placeholder = "https://"
	inputs[fieldTitle].Focus()

	return Model{
		mode:   inlineMode,
		inputs: inputs,
	}
}

// EditInline creates an inline form pre-filled with an existing story.
func EditInline(story domain.Story) Model {
	m := NewInline()
	m.isEdit = true
	m.storyID = story.ID
	m.initial = domain.DraftOf(story)
	m.inputs[fieldTitle].SetValue(story.Title)
	m.inputs[fieldAuthor].SetValue(story.Author)
	m.inputs[fieldURL].SetValue(story.URL)
	return m
}

// Init returns the initial command for the active mode.
func (m Model) Init() tea.Cmd {
	switch m.mode {
	case editorMode:
		return m.launchEditor()
	case inlineMode:
		return textinput.Blink
	}
	return nil
}

// launchEditor prepares the editor command and uses tea.Exec to properly
// suspend Bubble Tea's raw terminal mode while the editor runs.
func (m *Model) launchEditor() tea.Cmd {
	cmd, tmpPath, err := m.editor.Cmd(m.initial)
	if err != nil {
		return done(DoneMsg{Err: fmt.Errorf("preparing editor: %w", err), IsEdit: m.isEdit, StoryID: m.storyID})
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{tmpPath: tmpPath, err: err}
	})
}

// Update handles messages for the compose view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {

	// --- Editor mode messages ---

	case editorFinishedMsg:
		if msg.err != nil {
			return m, done(m.result(domain.StoryDraft{}, fmt.Errorf("editor: %w", msg.err)))
		}
		draft, err := m.editor.ReadDraft(msg.tmpPath, m.initial)
		if errors.Is(err, editor.ErrCanceled) {
			return m, done(m.canceled())
		}
		return m, done(m.result(draft, err))

	// --- Inline mode messages ---

	case tea.KeyMsg:
		if m.mode != inlineMode {
			break
		}

		switch msg.String() {
		case "esc":
			return m, done(m.canceled())

		case "tab", "down":
			return m, m.moveFocus(1)

		case "shift+tab", "up":
			return m, m.moveFocus(-1)

		case "enter":
			if m.focus < fieldURL {
				return m, m.moveFocus(1)
			}
			return m.submitInline()

		case "ctrl+s":
			return m.submitInline()
		}

		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}

	// Pass through any remaining messages in inline mode.
	if m.mode == inlineMode {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) submitInline() (Model, tea.Cmd) {
	draft := domain.StoryDraft{
		Title:  m.inputs[fieldTitle].Value(),
		Author: m.inputs[fieldAuthor].Value(),
		URL:    m.inputs[fieldURL].Value(),
	}.Trimmed()

	if err := draft.Validate(); err != nil {
		m.status = "Please fill out all fields."
		return m, nil
	}
	if m.isEdit && draft == m.initial.Trimmed() {
		return m, done(m.canceled())
	}
	return m, done(m.result(draft, nil))
}

func (m Model) result(draft domain.StoryDraft, err error) DoneMsg {
	return DoneMsg{Draft: draft, StoryID: m.storyID, IsEdit: m.isEdit, Err: err}
}

func (m Model) canceled() DoneMsg {
	return DoneMsg{StoryID: m.storyID, IsEdit: m.isEdit, Canceled: true}
}

func (m *Model) moveFocus(step int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + step + fieldCount) % fieldCount
	return m.inputs[m.focus].Focus()
}

// done wraps a DoneMsg into a tea.Cmd for immediate delivery.
func done(msg DoneMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}
