package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/CrestNiraj12/hacksnooze/app"
	"github.com/CrestNiraj12/hacksnooze/infra/auth"
	"github.com/CrestNiraj12/hacksnooze/infra/config"
	"github.com/CrestNiraj12/hacksnooze/infra/editor"
	"github.com/CrestNiraj12/hacksnooze/infra/hackapi"
	"github.com/CrestNiraj12/hacksnooze/infra/logging"
	"github.com/CrestNiraj12/hacksnooze/infra/sqlitestore"
	"github.com/CrestNiraj12/hacksnooze/tui"
	"github.com/CrestNiraj12/hacksnooze/tui/feed"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type cliMode int

const (
	cliRun cliMode = iota
	cliVersion
	cliHelp
	cliInvalid
)

func parseCLIArgs(args []string) (cliMode, string) {
	if len(args) == 0 {
		return cliRun, ""
	}

	switch args[0] {
	case "--version", "-version", "-v":
		return cliVersion, ""
	case "--help", "-h", "help":
		return cliHelp, ""
	default:
		return cliInvalid, fmt.Sprintf("unexpected argument: %s", strings.Join(args, " "))
	}
}

func usage() string {
	return `Usage: hacksnooze [--version|-version|-v] [--help|-h]

Environment (also read from .env.local and .env):
  HACKSNOOZE_API_URL      API base URL
  HACKSNOOZE_STATE_DIR    Directory for credentials, UI state and logs
  HACKSNOOZE_CREDENTIALS  Credential store: file (default) or sqlite
  HACKSNOOZE_LOG          Log file
  HACKSNOOZE_LOG_LEVEL    Log level (default: info)
  HACKSNOOZE_TIMEOUT      Per-request timeout, e.g. 10s (default: none)`
}

func resolveVersionInfo(v, c, d, moduleVersion string, settings map[string]string) (string, string, string) {
	if v == "dev" {
		mv := strings.TrimSpace(moduleVersion)
		if mv != "" && mv != "(devel)" {
			v = mv
		}
	}
	if c == "none" {
		rev := strings.TrimSpace(settings["vcs.revision"])
		if rev != "" {
			if len(rev) > 12 {
				rev = rev[:12]
			}
			c = rev
		}
	}
	if d == "unknown" {
		t := strings.TrimSpace(settings["vcs.time"])
		if t != "" {
			d = t
		}
	}
	return v, c, d
}

func buildSettingsMap(in []debug.BuildSetting) map[string]string {
	out := make(map[string]string, len(in))
	for _, s := range in {
		out[s.Key] = s.Value
	}
	return out
}

func resolvedRuntimeVersionInfo(v, c, d string) (string, string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v, c, d
	}
	return resolveVersionInfo(v, c, d, info.Main.Version, buildSettingsMap(info.Settings))
}

// openCredentialStore picks the configured backend. The returned func
// releases it.
func openCredentialStore(cfg config.Config) (app.CredentialStore, func() error, error) {
	switch cfg.CredentialsBackend {
	case config.BackendSQLite:
		if err := os.MkdirAll(cfg.StateDir, 0o700); err != nil {
			return nil, nil, fmt.Errorf("creating state dir: %w", err)
		}
		store, err := sqlitestore.Open(cfg.DatabasePath())
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return auth.NewFileStore(cfg.CredentialsPath()), func() error { return nil }, nil
	}
}

func main() {
	mode, msg := parseCLIArgs(os.Args[1:])
	switch mode {
	case cliVersion:
		v, c, d := resolvedRuntimeVersionInfo(version, commit, date)
		fmt.Printf("Hack or Snooze %s\ncommit: %s\nbuilt: %s\n", v, c, d)
		return
	case cliHelp:
		fmt.Println(usage())
		return
	case cliInvalid:
		fmt.Fprintf(os.Stderr, "%s\n%s\n", msg, usage())
		os.Exit(2)
	}

	// 1. Load config from .env files and the environment.
	config.LoadDotEnvs(".")
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, closeLog, err := logging.OpenFile(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	log.WithFields(logrus.Fields{
		"api_url":     cfg.APIURL,
		"credentials": cfg.CredentialsBackend,
	}).Info("starting")

	// 2. Build infrastructure.
	store, closeStore, err := openCredentialStore(cfg)
	if err != nil {
		log.WithError(err).Error("opening credential store failed")
		fmt.Fprintf(os.Stderr, "credentials: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	stored, err := store.Load()
	if err != nil {
		// Unreadable credentials mean starting logged out, not failing.
		log.WithError(err).Warn("loading stored credentials failed")
	}

	client := hackapi.NewClient(cfg.APIURL, cfg.Timeout, log)

	// 3. Build the session (concrete services satisfy app.* interfaces).
	session := app.NewSession(
		hackapi.NewStoryService(client),
		hackapi.NewUserService(client),
		store,
		log,
	)

	uiState, err := config.LoadUIState(cfg.UIStatePath())
	if err != nil {
		log.WithError(err).Warn("loading ui state failed")
	}

	// 4. Wire root TUI model.
	rootModel := tui.NewApp(tui.Deps{
		Session:     session,
		Stored:      stored,
		Editor:      editor.NewEnvEditor(),
		UIStatePath: cfg.UIStatePath(),
		InitialTab:  feed.ParseTab(uiState.LastTab),
		Log:         log,
	})

	// 5. Run.
	p := tea.NewProgram(rootModel, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.WithError(err).Error("ui exited with error")
		fmt.Fprintf(os.Stderr, "hacksnooze: %v\n", err)
		os.Exit(1)
	}
}
