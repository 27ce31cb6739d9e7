package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/CrestNiraj12/hacksnooze/domain"
)

// Session holds the logged-in user and the most recently fetched feed, and
// keeps the user's favorites and own stories in line with the server after
// every mutation.
//
// The mutex only guards the in-memory state. API calls run without it, so
// two overlapping mutations resolve in whatever order their responses arrive
// and the last one to resolve wins.
type Session struct {
	stories StoryService
	users   UserService
	store   CredentialStore
	log     *logrus.Entry

	mu   sync.RWMutex
	user *domain.User
	feed *domain.StoryList
}

// NewSession creates an anonymous session with no feed loaded.
func NewSession(stories StoryService, users UserService, store CredentialStore, log *logrus.Entry) *Session {
	return &Session{
		stories: stories,
		users:   users,
		store:   store,
		log:     log,
	}
}

// Bootstrap restores the user from stored credentials, then fetches the feed.
// The feed is fetched even when no user could be restored; errors from both
// steps are joined.
func (s *Session) Bootstrap(ctx context.Context, stored domain.Credentials) error {
	var errs []error

	user, ok, err := s.users.Restore(ctx, stored)
	switch {
	case err != nil:
		s.log.WithError(err).WithField("username", stored.Username).Warn("session restore failed")
		errs = append(errs, fmt.Errorf("restoring session: %w", err))
	case ok:
		s.mu.Lock()
		s.user = &user
		s.mu.Unlock()
		s.log.WithField("username", user.Username).Info("session restored")
	default:
		s.log.Debug("no stored session")
	}

	if _, err := s.RefreshFeed(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// RefreshFeed fetches the global feed and replaces the cached one. On failure
// the previous feed is kept.
func (s *Session) RefreshFeed(ctx context.Context) (domain.StoryList, error) {
	stories, err := s.stories.FetchFeed(ctx)
	if err != nil {
		return domain.StoryList{}, fmt.Errorf("fetching stories: %w", err)
	}

	list := domain.StoryList{Stories: stories}
	s.mu.Lock()
	s.feed = &list
	s.mu.Unlock()
	return list.Clone(), nil
}

// SignUp creates an account, makes it the current user and persists its
// credentials.
func (s *Session) SignUp(ctx context.Context, username, password, name string) (domain.User, error) {
	user, err := s.users.Signup(ctx, username, password, name)
	if err != nil {
		return domain.User{}, fmt.Errorf("signing up: %w", err)
	}
	s.authenticated(user)
	return user.Clone(), nil
}

// LogIn authenticates, makes the user current and persists its credentials.
func (s *Session) LogIn(ctx context.Context, username, password string) (domain.User, error) {
	user, err := s.users.Login(ctx, username, password)
	if err != nil {
		return domain.User{}, fmt.Errorf("logging in: %w", err)
	}
	s.authenticated(user)
	return user.Clone(), nil
}

func (s *Session) authenticated(user domain.User) {
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()

	s.log.WithField("username", user.Username).Info("logged in")
	// A failed save only costs the next run its auto-login.
	if err := s.store.Save(user.Credentials()); err != nil {
		s.log.WithError(err).Warn("saving credentials failed")
	}
}

// LogOut discards the current user and the stored credentials.
func (s *Session) LogOut() error {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	s.log.Info("logged out")
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clearing credentials: %w", err)
	}
	return nil
}

// SubmitStory creates a story, puts it at the head of the feed and appends it
// to the user's own stories.
func (s *Session) SubmitStory(ctx context.Context, draft domain.StoryDraft) (domain.Story, error) {
	creds, err := s.credentials()
	if err != nil {
		return domain.Story{}, err
	}
	if err := draft.Validate(); err != nil {
		return domain.Story{}, err
	}

	story, err := s.stories.Create(ctx, creds, draft.Trimmed())
	if err != nil {
		return domain.Story{}, fmt.Errorf("submitting story: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.feed == nil {
		s.feed = &domain.StoryList{}
	}
	if s.feed.Index(story.ID) == -1 {
		s.feed.Prepend(story)
	}
	if s.ownedBy(creds) {
		s.user.AddOwnStory(story)
	}
	s.log.WithField("story_id", story.ID).Debug("story submitted")
	return story, nil
}

// EditStory patches a story and swaps the server's copy into favorites and
// own stories. The feed keeps its old copy until the next refresh.
func (s *Session) EditStory(ctx context.Context, id string, patch domain.StoryDraft) (domain.Story, error) {
	creds, err := s.credentials()
	if err != nil {
		return domain.Story{}, err
	}
	if err := patch.Validate(); err != nil {
		return domain.Story{}, err
	}

	story, err := s.stories.Update(ctx, creds, id, patch.Trimmed())
	if err != nil {
		return domain.Story{}, fmt.Errorf("editing story: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ownedBy(creds) {
		s.user.ReplaceStory(story)
	}
	s.log.WithField("story_id", story.ID).Debug("story edited")
	return story, nil
}

// DeleteStory deletes a story and drops it from favorites and own stories.
// The local removal happens whether or not the API call succeeded.
func (s *Session) DeleteStory(ctx context.Context, id string) error {
	creds, err := s.credentials()
	if err != nil {
		return err
	}

	apiErr := s.stories.Delete(ctx, creds, id)

	s.mu.Lock()
	if s.ownedBy(creds) {
		s.user.RemoveStory(id)
	}
	s.mu.Unlock()

	if apiErr != nil {
		s.log.WithError(apiErr).WithField("story_id", id).Warn("delete failed, removed locally anyway")
		return fmt.Errorf("deleting story: %w", apiErr)
	}
	s.log.WithField("story_id", id).Debug("story deleted")
	return nil
}

// Favorite adds a story to the user's favorites. Stories that already are
// favorites are left alone without calling the API.
func (s *Session) Favorite(ctx context.Context, id string) error {
	s.mu.RLock()
	if s.user == nil {
		s.mu.RUnlock()
		return domain.ErrNotLoggedIn
	}
	already := s.user.IsFavorite(id)
	creds := s.user.Credentials()
	s.mu.RUnlock()

	if already {
		return nil
	}

	favorites, err := s.users.AddFavorite(ctx, creds, id)
	if err != nil {
		return fmt.Errorf("adding favorite: %w", err)
	}
	s.overwriteFavorites(creds, favorites)
	return nil
}

// Unfavorite removes a story from the user's favorites. The API is called
// even when the story is not a favorite.
func (s *Session) Unfavorite(ctx context.Context, id string) error {
	creds, err := s.credentials()
	if err != nil {
		return err
	}

	favorites, err := s.users.RemoveFavorite(ctx, creds, id)
	if err != nil {
		return fmt.Errorf("removing favorite: %w", err)
	}
	s.overwriteFavorites(creds, favorites)
	return nil
}

func (s *Session) overwriteFavorites(creds domain.Credentials, favorites []domain.Story) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ownedBy(creds) {
		s.user.SetFavorites(favorites)
	}
}

// LookupOwnStory returns one of the current user's own stories by ID.
func (s *Session) LookupOwnStory(id string) (domain.Story, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.Story{}, false
	}
	return s.user.OwnStory(id)
}

// CurrentUser returns a copy of the logged-in user.
func (s *Session) CurrentUser() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return s.user.Clone(), true
}

// LoggedIn reports whether a user is logged in.
func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Feed returns a copy of the last fetched feed.
func (s *Session) Feed() (domain.StoryList, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.feed == nil {
		return domain.StoryList{}, false
	}
	return s.feed.Clone(), true
}

func (s *Session) credentials() (domain.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.Credentials{}, domain.ErrNotLoggedIn
	}
	return s.user.Credentials(), nil
}

// ownedBy reports whether the current user is still the one creds belong to.
// Callers must hold s.mu.
func (s *Session) ownedBy(creds domain.Credentials) bool {
	return s.user != nil && s.user.Username == creds.Username
}
