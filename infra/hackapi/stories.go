package hackapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/CrestNiraj12/hacksnooze/domain"
)

// storyService implements app.StoryService against the Hack or Snooze API.
type storyService struct {
	client *Client
}

// NewStoryService creates a StoryService backed by the API client.
func NewStoryService(client *Client) *storyService {
	return &storyService{client: client}
}

func (s *storyService) FetchFeed(ctx context.Context) ([]domain.Story, error) {
	var resp storiesResponse
	if err := s.client.do(ctx, "fetching stories", http.MethodGet, "/stories", nil, nil, &resp); err != nil {
		return nil, err
	}
	return mapStories(resp.Stories), nil
}

func (s *storyService) Create(ctx context.Context, creds domain.Credentials, draft domain.StoryDraft) (domain.Story, error) {
	body := storyRequest{Token: creds.Token, Story: draftFields(draft)}
	var resp storyResponse
	if err := s.client.do(ctx, "creating story", http.MethodPost, "/stories", nil, body, &resp); err != nil {
		return domain.Story{}, err
	}
	return resp.Story.toDomain(), nil
}

func (s *storyService) Update(ctx context.Context, creds domain.Credentials, id string, patch domain.StoryDraft) (domain.Story, error) {
	body := storyRequest{Token: creds.Token, Story: draftFields(patch)}
	var resp storyResponse
	if err := s.client.do(ctx, "updating story", http.MethodPatch, storyPath(id), nil, body, &resp); err != nil {
		return domain.Story{}, err
	}
	return resp.Story.toDomain(), nil
}

func (s *storyService) Delete(ctx context.Context, creds domain.Credentials, id string) error {
	return s.client.do(ctx, "deleting story", http.MethodDelete, storyPath(id), nil, tokenRequest{Token: creds.Token}, nil)
}

func storyPath(id string) string {
	return "/stories/" + url.PathEscape(id)
}
