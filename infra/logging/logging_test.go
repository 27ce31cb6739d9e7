package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_WritesJSONWithServiceField(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, logrus.InfoLevel)

	log.Debug("hidden")
	log.WithField("story_id", "s1").Info("story submitted")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected only the info line, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("expected JSON line: %v", err)
	}
	if entry["service"] != "hacksnooze" || entry["story_id"] != "s1" || entry["msg"] != "story submitted" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestOpenFile_AppendsAndCloses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	for i := 0; i < 2; i++ {
		log, closeFn, err := OpenFile(path, logrus.InfoLevel)
		if err != nil {
			t.Fatalf("open failed: %v", err)
		}
		log.Info("hello")
		if err := closeFn(); err != nil {
			t.Fatalf("close failed: %v", err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if n := strings.Count(string(data), `"msg":"hello"`); n != 2 {
		t.Fatalf("expected two appended lines, got %d in %q", n, data)
	}
}
