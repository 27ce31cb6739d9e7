package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/CrestNiraj12/hacksnooze/app"
	"github.com/CrestNiraj12/hacksnooze/domain"
	"github.com/CrestNiraj12/hacksnooze/infra/config"
	"github.com/CrestNiraj12/hacksnooze/infra/editor"
	"github.com/CrestNiraj12/hacksnooze/tui/authform"
	"github.com/CrestNiraj12/hacksnooze/tui/common"
	"github.com/CrestNiraj12/hacksnooze/tui/compose"
	"github.com/CrestNiraj12/hacksnooze/tui/feed"
)

// Alerts shown when an operation fails.
const (
	alertFeed       = "Cannot get stories"
	alertRestore    = "Could not get your information"
	alertSignup     = "Couldn't sign you up"
	alertLogin      = "Couldn't log you in"
	alertSubmit     = "Could not add story"
	alertEdit       = "Could not edit story"
	alertDelete     = "Could not delete story"
	alertFavorite   = "Could not add story to favorites"
	alertUnfavorite = "Could not remove story from favorites"
)

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Session     *app.Session
	Stored      domain.Credentials // Credentials found on disk at startup
	Editor      *editor.EnvEditor
	UIStatePath string
	InitialTab  feed.Tab
	Log         *logrus.Entry
}

type activeView int

const (
	feedView activeView = iota
	composeView
	authView
)

// App is the root Bubble Tea model. It routes between sub-views and is the
// only place session operations are started from.
type App struct {
	deps      Deps
	active    activeView
	feed      feed.Model
	compose   compose.Model
	auth      authform.Model
	keys      common.KeyMap
	status    string // Transient status message (e.g. "Story submitted!")
	statusErr bool
}

// --- Internal messages ---

type bootstrapDoneMsg struct {
	err error
}

type refreshDoneMsg struct {
	err error
}

type authDoneMsg struct {
	mode authform.Mode
	user domain.User
	err  error
}

// opDoneMsg reports a finished story or favorite mutation.
type opDoneMsg struct {
	failure string // Alert shown when err != nil
	success string // Status shown otherwise, may be empty
	refetch bool   // Fetch the feed again afterwards
	err     error
}

// NewApp creates the root model with all dependencies wired.
func NewApp(deps Deps) App {
	return App{
		deps:   deps,
		active: feedView,
		feed:   feed.New(deps.InitialTab),
		auth:   authform.New(),
		keys:   common.DefaultKeyMap(),
	}
}

// Init starts the spinner and restores the session in the background.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.feed.Init(),
		a.bootstrap(),
	)
}

func (a App) bootstrap() tea.Cmd {
	session, stored := a.deps.Session, a.deps.Stored
	return func() tea.Msg {
		return bootstrapDoneMsg{err: session.Bootstrap(context.Background(), stored)}
	}
}

func (a App) refresh() tea.Cmd {
	session := a.deps.Session
	return func() tea.Msg {
		_, err := session.RefreshFeed(context.Background())
		return refreshDoneMsg{err: err}
	}
}

// run wraps a session mutation into a command reporting an opDoneMsg.
func (a App) run(failure, success string, refetch bool, op func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{
			failure: failure,
			success: success,
			refetch: refetch,
			err:     op(context.Background()),
		}
	}
}

// Update handles messages and routes to the active sub-model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.feed, _ = a.feed.Update(msg)
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.active == feedView && !a.feed.IsConfirming() {
			if updated, cmd, handled := a.handleGlobalKey(msg); handled {
				return updated, cmd
			}
		}

	case bootstrapDoneMsg:
		a.sync()
		a.feed = a.feed.SetLoading(false)
		var alerts []string
		if !a.deps.Stored.Empty() && !a.deps.Session.LoggedIn() {
			alerts = append(alerts, alertRestore)
		}
		if _, loaded := a.deps.Session.Feed(); !loaded {
			alerts = append(alerts, alertFeed)
		}
		if msg.err != nil {
			a.deps.Log.WithError(msg.err).Warn("startup incomplete")
		}
		if len(alerts) > 0 {
			a.setError(strings.Join(alerts, " · "))
		}
		return a, nil

	case refreshDoneMsg:
		a.sync()
		a.feed = a.feed.SetLoading(false)
		if msg.err != nil {
			a.deps.Log.WithError(msg.err).Warn("feed refresh failed")
			a.setError(alertFeed)
		}
		return a, nil

	case feed.RefreshMsg:
		a.status = ""
		return a, a.refresh()

	case feed.FavoriteMsg:
		if !a.requireLogin("Log in to favorite stories.") {
			return a, nil
		}
		id := msg.ID
		return a, a.run(alertFavorite, "", false, func(ctx context.Context) error {
			return a.deps.Session.Favorite(ctx, id)
		})

	case feed.UnfavoriteMsg:
		if !a.requireLogin("Log in to manage favorites.") {
			return a, nil
		}
		id := msg.ID
		return a, a.run(alertUnfavorite, "", false, func(ctx context.Context) error {
			return a.deps.Session.Unfavorite(ctx, id)
		})

	case feed.EditStoryMsg:
		story, ok := a.deps.Session.LookupOwnStory(msg.Story.ID)
		if !ok {
			a.setError("You can only edit your own stories.")
			return a, nil
		}
		a.active = composeView
		a.status = ""
		if msg.UseEditor {
			a.compose = compose.EditWithEditor(a.deps.Editor, story)
		} else {
			a.compose = compose.EditInline(story)
		}
		return a, a.compose.Init()

	case feed.DeleteStoryMsg:
		id := msg.ID
		a.setStatus("Deleting...")
		return a, a.run(alertDelete, "Story deleted.", true, func(ctx context.Context) error {
			return a.deps.Session.DeleteStory(ctx, id)
		})

	case feed.TabChangedMsg:
		if a.deps.UIStatePath != "" {
			if err := config.SaveUIState(a.deps.UIStatePath, config.UIState{LastTab: msg.Tab.String()}); err != nil {
				a.deps.Log.WithError(err).Warn("saving ui state failed")
			}
		}
		return a, nil

	case compose.DoneMsg:
		a.active = feedView
		switch {
		case msg.Canceled:
			a.setStatus("Cancelled.")
			return a, nil
		case msg.Err != nil:
			a.deps.Log.WithError(msg.Err).Warn("compose failed")
			a.setError("Error: " + msg.Err.Error())
			return a, nil
		}

		draft := msg.Draft
		if msg.IsEdit {
			id := msg.StoryID
			a.setStatus("Updating...")
			return a, a.run(alertEdit, "Story updated!", true, func(ctx context.Context) error {
				_, err := a.deps.Session.EditStory(ctx, id, draft)
				return err
			})
		}
		a.setStatus("Submitting...")
		return a, a.run(alertSubmit, "Story submitted!", false, func(ctx context.Context) error {
			_, err := a.deps.Session.SubmitStory(ctx, draft)
			return err
		})

	case opDoneMsg:
		a.sync()
		if msg.err != nil {
			a.deps.Log.WithError(msg.err).Warn(msg.failure)
			if errors.Is(msg.err, domain.ErrNotLoggedIn) {
				a.setError(msg.failure + ": you are not logged in")
			} else {
				a.setError(msg.failure)
			}
		} else {
			a.setStatus(msg.success)
		}
		if msg.refetch {
			a.feed = a.feed.SetLoading(true)
			return a, a.refresh()
		}
		return a, nil

	case authform.SubmitMsg:
		a.auth = a.auth.SetPending(true, "Working...")
		session := a.deps.Session
		return a, func() tea.Msg {
			var (
				user domain.User
				err  error
			)
			if msg.Mode == authform.SignupMode {
				user, err = session.SignUp(context.Background(), msg.Username, msg.Password, msg.Name)
			} else {
				user, err = session.LogIn(context.Background(), msg.Username, msg.Password)
			}
			return authDoneMsg{mode: msg.Mode, user: user, err: err}
		}

	case authDoneMsg:
		if msg.err != nil {
			alert := alertLogin
			if msg.mode == authform.SignupMode {
				alert = alertSignup
			}
			a.deps.Log.WithError(msg.err).Warn(alert)
			a.auth = a.auth.SetPending(false, alert)
			return a, nil
		}
		a.active = feedView
		a.auth = authform.New()
		a.sync()
		a.setStatus("Welcome, " + msg.user.Name + "!")
		return a, nil

	case authform.CancelMsg:
		a.active = feedView
		a.auth = authform.New()
		return a, nil
	}

	// Delegate to the active sub-model.
	switch a.active {
	case feedView:
		updated, cmd := a.feed.Update(msg)
		a.feed = updated
		return a, cmd
	case composeView:
		updated, cmd := a.compose.Update(msg)
		a.compose = updated
		return a, cmd
	case authView:
		updated, cmd := a.auth.Update(msg)
		a.auth = updated
		return a, cmd
	}

	return a, nil
}

// handleGlobalKey handles the keys the feed view does not own.
func (a App) handleGlobalKey(msg tea.KeyMsg) (App, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit, true

	case key.Matches(msg, a.keys.NewInline), key.Matches(msg, a.keys.NewEditor):
		if !a.requireLogin("Log in to submit stories.") {
			return a, nil, true
		}
		a.active = composeView
		a.status = ""
		if key.Matches(msg, a.keys.NewEditor) {
			a.compose = compose.NewEditor(a.deps.Editor)
		} else {
			a.compose = compose.NewInline()
		}
		return a, a.compose.Init(), true

	case key.Matches(msg, a.keys.Login):
		if a.deps.Session.LoggedIn() {
			return a, nil, true
		}
		a.active = authView
		a.status = ""
		a.auth = authform.New()
		return a, a.auth.Init(), true

	case key.Matches(msg, a.keys.Logout):
		if !a.deps.Session.LoggedIn() {
			return a, nil, true
		}
		err := a.deps.Session.LogOut()
		a.sync()
		if err != nil {
			a.deps.Log.WithError(err).Warn("logout incomplete")
			a.setError("Logged out, but saved credentials could not be removed")
		} else {
			a.setStatus("Logged out.")
		}
		return a, nil, true
	}
	return a, nil, false
}

// sync pushes the session's current feed and user into the feed view.
func (a *App) sync() {
	list, loaded := a.deps.Session.Feed()
	var user *domain.User
	if u, ok := a.deps.Session.CurrentUser(); ok {
		user = &u
	}
	a.feed = a.feed.SetSnapshot(list, loaded, user)
}

func (a *App) requireLogin(status string) bool {
	if a.deps.Session.LoggedIn() {
		return true
	}
	a.setError(status)
	return false
}

func (a *App) setStatus(s string) {
	a.status = s
	a.statusErr = false
}

func (a *App) setError(s string) {
	a.status = s
	a.statusErr = true
}

// View renders the active sub-model.
func (a App) View() string {
	var s string

	switch a.active {
	case feedView:
		s = a.feed.View()
	case composeView:
		s = a.compose.View()
	case authView:
		s = a.auth.View()
	}

	// Append transient status if present.
	if a.status != "" {
		if a.statusErr {
			s += "\n" + common.ErrorStyle.Render(a.status)
		} else {
			s += "\n" + common.StatusBarStyle.Render(a.status)
		}
	}

	return s
}
