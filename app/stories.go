package app

import (
	"context"

	"github.com/CrestNiraj12/hacksnooze/domain"
)

// StoryService reads and writes stories on the news API.
type StoryService interface {
	// FetchFeed returns the global story feed, newest first.
	FetchFeed(ctx context.Context) ([]domain.Story, error)

	// Create submits a new story on behalf of creds.
	Create(ctx context.Context, creds domain.Credentials, draft domain.StoryDraft) (domain.Story, error)

	// Update patches an existing story and returns the server's copy.
	Update(ctx context.Context, creds domain.Credentials, id string, patch domain.StoryDraft) (domain.Story, error)

	// Delete removes a story by ID.
	Delete(ctx context.Context, creds domain.Credentials, id string) error
}
