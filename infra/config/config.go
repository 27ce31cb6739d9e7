package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const defaultAPIURL = "https://hack-or-snooze-v3.herokuapp.com"

// Credential store backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds application-level configuration.
type Config struct {
	APIURL             string        // e.g. "https://hack-or-snooze-v3.herokuapp.com"
	StateDir           string        // Directory for credentials, UI state and logs
	CredentialsBackend string        // "file" or "sqlite"
	LogPath            string        // Log file; the terminal belongs to the UI
	LogLevel           logrus.Level  // Minimum level written to LogPath
	Timeout            time.Duration // Per-request timeout, 0 waits forever
}

// CredentialsPath is the JSON credentials file used by the file backend.
func (c Config) CredentialsPath() string { return filepath.Join(c.StateDir, "credentials.json") }

// DatabasePath is the SQLite database used by the sqlite backend.
func (c Config) DatabasePath() string { return filepath.Join(c.StateDir, "state.db") }

// UIStatePath is where the last selected tab is remembered.
func (c Config) UIStatePath() string { return filepath.Join(c.StateDir, "ui_state.json") }

// LoadDotEnvs seeds the environment from .env.local and .env in dir.
// Variables already set win over both files, and .env.local wins over .env.
func LoadDotEnvs(dir string) {
	for _, name := range []string{".env.local", ".env"} {
		// A missing file is the common case.
		_ = godotenv.Load(filepath.Join(dir, name))
	}
}

// Load reads configuration from environment variables.
//
//	HACKSNOOZE_API_URL      API base URL (default: the public API)
//	HACKSNOOZE_STATE_DIR    State directory (default: ~/.config/hacksnooze)
//	HACKSNOOZE_CREDENTIALS  "file" (default) or "sqlite"
//	HACKSNOOZE_LOG          Log file (default: <state dir>/hacksnooze.log)
//	HACKSNOOZE_LOG_LEVEL    logrus level (default: "info")
//	HACKSNOOZE_TIMEOUT      Go duration per request (default: 0, no timeout)
func Load() (Config, error) {
	apiURL, err := parseAPIURL(os.Getenv("HACKSNOOZE_API_URL"))
	if err != nil {
		return Config{}, err
	}

	stateDir := os.Getenv("HACKSNOOZE_STATE_DIR")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("cannot determine home directory: %w", err)
		}
		stateDir = filepath.Join(home, ".config", "hacksnooze")
	}

	backend := strings.ToLower(strings.TrimSpace(os.Getenv("HACKSNOOZE_CREDENTIALS")))
	switch backend {
	case "":
		backend = BackendFile
	case BackendFile, BackendSQLite:
	default:
		return Config{}, fmt.Errorf("invalid HACKSNOOZE_CREDENTIALS %q: want %q or %q", backend, BackendFile, BackendSQLite)
	}

	logPath := os.Getenv("HACKSNOOZE_LOG")
	if logPath == "" {
		logPath = filepath.Join(stateDir, "hacksnooze.log")
	}

	level := logrus.InfoLevel
	if raw := strings.TrimSpace(os.Getenv("HACKSNOOZE_LOG_LEVEL")); raw != "" {
		level, err = logrus.ParseLevel(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid HACKSNOOZE_LOG_LEVEL: %w", err)
		}
	}

	var timeout time.Duration
	if raw := strings.TrimSpace(os.Getenv("HACKSNOOZE_TIMEOUT")); raw != "" {
		timeout, err = time.ParseDuration(raw)
		if err != nil || timeout < 0 {
			return Config{}, fmt.Errorf("invalid HACKSNOOZE_TIMEOUT %q: must be a non-negative duration", raw)
		}
	}

	return Config{
		APIURL:             apiURL,
		StateDir:           stateDir,
		CredentialsBackend: backend,
		LogPath:            logPath,
		LogLevel:           level,
		Timeout:            timeout,
	}, nil
}

// parseAPIURL requires an absolute URL. Plain http is only accepted for
// loopback hosts, so a local API can be used during development.
func parseAPIURL(raw string) (string, error) {
	if raw == "" {
		raw = defaultAPIURL
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid HACKSNOOZE_API_URL: must be an absolute URL")
	}
	switch parsed.Scheme {
	case "https":
	case "http":
		if !isLoopback(parsed.Hostname()) {
			return "", fmt.Errorf("invalid HACKSNOOZE_API_URL: only https is allowed for non-local hosts")
		}
	default:
		return "", fmt.Errorf("invalid HACKSNOOZE_API_URL: unsupported scheme %q", parsed.Scheme)
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}

func isLoopback(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
