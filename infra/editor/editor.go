package editor

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/CrestNiraj12/hacksnooze/domain"
)

// ErrCanceled is returned when the user empties the file or saves it unchanged.
var ErrCanceled = errors.New("edit canceled")

// EnvEditor prepares an external editor command using $EDITOR (fallback: "vi").
// It does NOT run the editor itself; callers use tea.Exec with the returned
// *exec.Cmd so Bubble Tea properly suspends raw terminal mode.
type EnvEditor struct{}

// NewEnvEditor creates an EnvEditor.
func NewEnvEditor() *EnvEditor {
	return &EnvEditor{}
}

const instructionComment = `# hacksnooze: fill in the story below.
#
# - SAVE and EXIT to submit (e.g., :wq in vi).
# - Emptying the file or making NO CHANGES will cancel.
# - All three fields are required.

`

// Cmd writes draft as a YAML template to a temp file and returns the editor
// command for it along with the file path.
func (e *EnvEditor) Cmd(draft domain.StoryDraft) (*exec.Cmd, string, error) {
	editorCmd := os.Getenv("EDITOR")
	if editorCmd == "" {
		editorCmd = "vi"
	}

	body, err := encodeDraft(draft)
	if err != nil {
		return nil, "", err
	}

	tmpFile, err := os.CreateTemp("", "hacksnooze-*.yaml")
	if err != nil {
		return nil, "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer tmpFile.Close()

	if _, err := tmpFile.WriteString(instructionComment + body); err != nil {
		os.Remove(tmpPath)
		return nil, "", fmt.Errorf("writing to temp file: %w", err)
	}

	cmd := exec.Command(editorCmd, tmpPath)
	return cmd, tmpPath, nil
}

// ReadDraft parses the edited file and removes it. It returns ErrCanceled
// when the file is empty or the draft equals original.
func (e *EnvEditor) ReadDraft(path string, original domain.StoryDraft) (domain.StoryDraft, error) {
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.StoryDraft{}, fmt.Errorf("reading temp file: %w", err)
	}
	if len(bytes.TrimSpace(stripComments(data))) == 0 {
		return domain.StoryDraft{}, ErrCanceled
	}

	var draft domain.StoryDraft
	if err := yaml.Unmarshal(data, &draft); err != nil {
		return domain.StoryDraft{}, fmt.Errorf("parsing story: %w", err)
	}
	draft = draft.Trimmed()
	if draft == original.Trimmed() {
		return domain.StoryDraft{}, ErrCanceled
	}
	return draft, nil
}

func encodeDraft(d domain.StoryDraft) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return "", fmt.Errorf("encoding story template: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding story template: %w", err)
	}
	return buf.String(), nil
}

func stripComments(data []byte) []byte {
	var out bytes.Buffer
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	return out.Bytes()
}
