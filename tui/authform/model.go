package authform

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Mode selects between logging in and creating an account.
type Mode int

const (
	LoginMode Mode = iota
	SignupMode
)

// SubmitMsg carries the filled-in form.
type SubmitMsg struct {
	Mode     Mode
	Name     string // Signup only
	Username string
	Password string
}

// CancelMsg is sent when the form is dismissed.
type CancelMsg struct{}

const (
	fieldName = iota
	fieldUsername
	fieldPassword
	fieldCount
)

// Model is the login / signup form.
type Model struct {
	mode    Mode
	inputs  [fieldCount]textinput.Model
	focus   int
	status  string
	pending bool
}

// New creates the form in login mode.
func New() Model {
	var inputs [fieldCount]textinput.Model
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 64
		ti.Width = 40
		inputs[i] = ti
	}
	inputs[fieldName].Placeholder = "Your name"
	inputs[fieldUsername].Placeholder = "username"
	inputs[fieldPassword].Placeholder = "password"
	inputs[fieldPassword].EchoMode = textinput.EchoPassword
	inputs[fieldPassword].EchoCharacter = '•'

	m := Model{mode: LoginMode, inputs: inputs}
	m.focus = m.fields()[0]
	m.inputs[m.focus].Focus()
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Mode returns the current form mode.
func (m Model) Mode() Mode { return m.mode }

// SetPending marks a submission as in flight (or done), blocking resubmits.
func (m Model) SetPending(pending bool, status string) Model {
	m.pending = pending
	m.status = status
	return m
}

// fields lists the inputs shown in the current mode, in tab order.
func (m Model) fields() []int {
	if m.mode == SignupMode {
		return []int{fieldName, fieldUsername, fieldPassword}
	}
	return []int{fieldUsername, fieldPassword}
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "esc":
		return m, func() tea.Msg { return CancelMsg{} }

	case "ctrl+t":
		if m.mode == LoginMode {
			m.mode = SignupMode
		} else {
			m.mode = LoginMode
		}
		m.status = ""
		return m, m.setFocus(m.fields()[0])

	case "tab", "down":
		return m, m.moveFocus(1)

	case "shift+tab", "up":
		return m, m.moveFocus(-1)

	case "enter":
		fields := m.fields()
		if m.focus != fields[len(fields)-1] {
			return m, m.moveFocus(1)
		}
		return m.submit()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	if m.pending {
		return m, nil
	}
	out := SubmitMsg{
		Mode:     m.mode,
		Username: strings.TrimSpace(m.inputs[fieldUsername].Value()),
		Password: m.inputs[fieldPassword].Value(),
	}
	if m.mode == SignupMode {
		out.Name = strings.TrimSpace(m.inputs[fieldName].Value())
	}
	if out.Username == "" || out.Password == "" || (m.mode == SignupMode && out.Name == "") {
		m.status = "Please fill out all fields."
		return m, nil
	}
	m.pending = true
	m.status = ""
	return m, func() tea.Msg { return out }
}

func (m *Model) moveFocus(step int) tea.Cmd {
	fields := m.fields()
	idx := 0
	for i, f := range fields {
		if f == m.focus {
			idx = i
		}
	}
	idx = (idx + step + len(fields)) % len(fields)
	return m.setFocus(fields[idx])
}

func (m *Model) setFocus(field int) tea.Cmd {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focus = field
	return m.inputs[field].Focus()
}
