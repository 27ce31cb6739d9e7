package hackapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/CrestNiraj12/hacksnooze/domain"
)

// userService implements app.UserService against the Hack or Snooze API.
type userService struct {
	client *Client
}

// NewUserService creates a UserService backed by the API client.
func NewUserService(client *Client) *userService {
	return &userService{client: client}
}

func (s *userService) Signup(ctx context.Context, username, password, name string) (domain.User, error) {
	body := signupRequest{User: signupFields{Username: username, Password: password, Name: name}}
	var resp authResponse
	if err := s.client.do(ctx, "signing up", http.MethodPost, "/signup", nil, body, &resp); err != nil {
		return domain.User{}, err
	}
	return resp.User.toDomain(resp.Token), nil
}

func (s *userService) Login(ctx context.Context, username, password string) (domain.User, error) {
	body := loginRequest{User: loginFields{Username: username, Password: password}}
	var resp loginResponse
	if err := s.client.do(ctx, "logging in", http.MethodPost, "/login", nil, body, &resp); err != nil {
		return domain.User{}, err
	}
	return resp.User.toDomain(resp.Token), nil
}

// Restore fetches the user named in creds, authorizing with its token.
// Incomplete credentials mean there is no session to restore.
func (s *userService) Restore(ctx context.Context, creds domain.Credentials) (domain.User, bool, error) {
	if creds.Empty() {
		return domain.User{}, false, nil
	}
	query := url.Values{"token": {creds.Token}}
	var resp userResponse
	if err := s.client.do(ctx, "getting user", http.MethodGet, userPath(creds.Username), query, nil, &resp); err != nil {
		return domain.User{}, false, err
	}
	return resp.User.toDomain(creds.Token), true, nil
}

func (s *userService) AddFavorite(ctx context.Context, creds domain.Credentials, storyID string) ([]domain.Story, error) {
	return s.favorite(ctx, "adding favorite", http.MethodPost, creds, storyID)
}

func (s *userService) RemoveFavorite(ctx context.Context, creds domain.Credentials, storyID string) ([]domain.Story, error) {
	return s.favorite(ctx, "removing favorite", http.MethodDelete, creds, storyID)
}

func (s *userService) favorite(ctx context.Context, op, method string, creds domain.Credentials, storyID string) ([]domain.Story, error) {
	path := userPath(creds.Username) + "/favorites/" + url.PathEscape(storyID)
	var resp favoritesResponse
	if err := s.client.do(ctx, op, method, path, nil, tokenRequest{Token: creds.Token}, &resp); err != nil {
		return nil, err
	}
	return mapStories(resp.User.Favorites), nil
}

func userPath(username string) string {
	return "/users/" + url.PathEscape(username)
}
