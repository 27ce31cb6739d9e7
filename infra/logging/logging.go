// Package logging builds the process logger. Output goes to a file because
// the terminal is owned by the UI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

const serviceName = "hacksnooze"

// New returns a JSON logger writing to w at the given level, tagged with the
// service name.
func New(w io.Writer, level logrus.Level) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger.WithField("service", serviceName)
}

// OpenFile opens (appending) the log file at path and returns a logger on it
// together with a func that closes the file.
func OpenFile(path string, level logrus.Level) (*logrus.Entry, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return New(f, level), f.Close, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Entry {
	return New(io.Discard, logrus.PanicLevel)
}
