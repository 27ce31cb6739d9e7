package hackapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/CrestNiraj12/hacksnooze/domain"
)

// Request bodies.

type storyFields struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
}

type storyRequest struct {
	Token string      `json:"token"`
	Story storyFields `json:"story"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type signupFields struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type signupRequest struct {
	User signupFields `json:"user"`
}

type loginFields struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	User loginFields `json:"user"`
}

// Response bodies.

type wireStory struct {
	StoryID   string `json:"storyId"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	URL       string `json:"url"`
	Username  string `json:"username"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Story arrays are pointers so an absent (or null) list can be told apart
// from an empty one.
type wireUser struct {
	Username  string       `json:"username"`
	Name      string       `json:"name"`
	CreatedAt string       `json:"createdAt"`
	UpdatedAt string       `json:"updatedAt"`
	Favorites *[]wireStory `json:"favorites"`
	Stories   *[]wireStory `json:"stories"`
}

type storiesResponse struct {
	Stories *[]wireStory `json:"stories"`
}

type storyResponse struct {
	Story *wireStory `json:"story"`
}

type authResponse struct {
	Token string    `json:"token"`
	User  *wireUser `json:"user"`
}

// loginResponse is an authResponse whose user must carry both story lists.
// Signup answers for a brand-new account and may leave them out.
type loginResponse struct {
	authResponse
}

type userResponse struct {
	User *wireUser `json:"user"`
}

// favoritesResponse is the favorites endpoints' view of the user; only the
// favorites list is read from it.
type favoritesResponse struct {
	User *struct {
		Username  string       `json:"username"`
		Favorites *[]wireStory `json:"favorites"`
	} `json:"user"`
}

type errorResponse struct {
	Error *struct {
		Status  int    `json:"status"`
		Title   string `json:"title"`
		Message string `json:"message"`
	} `json:"error"`
}

func (r storiesResponse) validate() error {
	return validateStories("stories", r.Stories, true)
}

func (r storyResponse) validate() error {
	if r.Story == nil {
		return fmt.Errorf("story: %w", errMissingField)
	}
	return r.Story.validate()
}

func (r authResponse) validate() error {
	if strings.TrimSpace(r.Token) == "" {
		return fmt.Errorf("token: %w", errMissingField)
	}
	if r.User == nil {
		return fmt.Errorf("user: %w", errMissingField)
	}
	return r.User.validate()
}

func (r loginResponse) validate() error {
	if err := r.authResponse.validate(); err != nil {
		return err
	}
	return r.User.requireLists()
}

func (r userResponse) validate() error {
	if r.User == nil {
		return fmt.Errorf("user: %w", errMissingField)
	}
	if err := r.User.validate(); err != nil {
		return err
	}
	return r.User.requireLists()
}

func (r favoritesResponse) validate() error {
	if r.User == nil {
		return fmt.Errorf("user: %w", errMissingField)
	}
	return validateStories("user.favorites", r.User.Favorites, true)
}

func (s wireStory) validate() error {
	if strings.TrimSpace(s.StoryID) == "" {
		return fmt.Errorf("storyId: %w", errMissingField)
	}
	return nil
}

func (u wireUser) validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("user.username: %w", errMissingField)
	}
	if err := validateStories("user.favorites", u.Favorites, false); err != nil {
		return err
	}
	return validateStories("user.stories", u.Stories, false)
}

// requireLists fails when either story list is absent.
func (u wireUser) requireLists() error {
	if u.Favorites == nil {
		return fmt.Errorf("user.favorites: %w", errMissingField)
	}
	if u.Stories == nil {
		return fmt.Errorf("user.stories: %w", errMissingField)
	}
	return nil
}

func validateStories(field string, stories *[]wireStory, required bool) error {
	if stories == nil {
		if required {
			return fmt.Errorf("%s: %w", field, errMissingField)
		}
		return nil
	}
	for i, s := range *stories {
		if err := s.validate(); err != nil {
			return fmt.Errorf("%s[%d]: %w", field, i, err)
		}
	}
	return nil
}

func (s wireStory) toDomain() domain.Story {
	return domain.Story{
		ID:        s.StoryID,
		Title:     s.Title,
		Author:    s.Author,
		URL:       s.URL,
		Username:  s.Username,
		CreatedAt: parseTime(s.CreatedAt),
		UpdatedAt: parseTime(s.UpdatedAt),
	}
}

func (u wireUser) toDomain(token string) domain.User {
	user := domain.User{
		Username:   u.Username,
		Name:       u.Name,
		CreatedAt:  parseTime(u.CreatedAt),
		UpdatedAt:  parseTime(u.UpdatedAt),
		LoginToken: token,
	}
	user.SetFavorites(mapStories(u.Favorites))
	for _, s := range mapStories(u.Stories) {
		user.AddOwnStory(s)
	}
	return user
}

func mapStories(in *[]wireStory) []domain.Story {
	if in == nil {
		return []domain.Story{}
	}
	out := make([]domain.Story, 0, len(*in))
	for _, s := range *in {
		out = append(out, s.toDomain())
	}
	return out
}

func draftFields(d domain.StoryDraft) storyFields {
	return storyFields{Title: d.Title, Author: d.Author, URL: d.URL}
}

// parseTime accepts whatever timestamp layout the server sends; values that
// do not parse become the zero time.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
