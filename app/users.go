package app

import (
	"context"

	"github.com/CrestNiraj12/hacksnooze/domain"
)

// UserService manages accounts and favorites on the news API.
type UserService interface {
	// Signup creates an account and returns it with a fresh login token.
	Signup(ctx context.Context, username, password, name string) (domain.User, error)

	// Login authenticates and returns the user with favorites and own stories.
	Login(ctx context.Context, username, password string) (domain.User, error)

	// Restore rehydrates a user from stored credentials. Empty credentials
	// yield ok=false with a nil error.
	Restore(ctx context.Context, creds domain.Credentials) (user domain.User, ok bool, err error)

	// AddFavorite marks a story as favorite and returns the full favorites list.
	AddFavorite(ctx context.Context, creds domain.Credentials, storyID string) ([]domain.Story, error)

	// RemoveFavorite unmarks a story and returns the full favorites list.
	RemoveFavorite(ctx context.Context, creds domain.Credentials, storyID string) ([]domain.Story, error)
}

// CredentialStore persists the login token and username between runs.
// Both values are always written and cleared together.
type CredentialStore interface {
	Load() (domain.Credentials, error)
	Save(creds domain.Credentials) error
	Clear() error
}
