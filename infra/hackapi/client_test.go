package hackapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/CrestNiraj12/hacksnooze/domain"
)

type handlerRoundTripper struct {
	h http.Handler
}

func (rt handlerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	rec := newResponseRecorder()
	rt.h.ServeHTTP(rec, req)
	return rec.response(req), nil
}

type responseRecorder struct {
	header http.Header
	body   strings.Builder
	code   int
}

func newResponseRecorder() *responseRecorder {
	return &responseRecorder{header: make(http.Header), code: http.StatusOK}
}

func (r *responseRecorder) Header() http.Header         { return r.header }
func (r *responseRecorder) Write(p []byte) (int, error) { return r.body.Write(p) }
func (r *responseRecorder) WriteHeader(statusCode int)  { r.code = statusCode }

func (r *responseRecorder) response(req *http.Request) *http.Response {
	return &http.Response{
		StatusCode: r.code,
		Header:     r.header.Clone(),
		Body:       io.NopCloser(strings.NewReader(r.body.String())),
		Request:    req,
	}
}

type failingTransport struct{ err error }

func (f failingTransport) RoundTrip(*http.Request) (*http.Response, error) { return nil, f.err }

func newTestClient(h http.Handler) *Client {
	return NewClient("http://example.test/", 0, nil).
		WithHTTPClient(&http.Client{Transport: handlerRoundTripper{h: h}})
}

func readJSON(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Errorf("decode request body: %v", err)
	}
	return body
}

var creds = domain.Credentials{Token: "tok", Username: "ann"}

func TestStoryService_FetchFeed_RequestShapeAndMapping(t *testing.T) {
	client := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/stories" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Fatalf("expected request id header")
		}
		if r.Header.Get("Content-Type") != "" {
			t.Fatalf("GET should not carry a content type")
		}
		_, _ = io.WriteString(w, `{"stories":[
			{"storyId":"1","title":"T","author":"A","url":"https://www.x.io/a","username":"ann",
			 "createdAt":"2020-01-02T03:04:05.000Z","updatedAt":"not a date"}]}`)
	}))

	got, err := NewStoryService(client).FetchFeed(context.Background())
	if err != nil {
		t.Fatalf("FetchFeed: %v", err)
	}
	want := []domain.Story{{
		ID:        "1",
		Title:     "T",
		Author:    "A",
		URL:       "https://www.x.io/a",
		Username:  "ann",
		CreatedAt: time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC),
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("stories mismatch (-want +got):\n%s", diff)
	}
}

func TestStoryService_Create_SendsTokenAndStory(t *testing.T) {
	client := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/stories" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Fatalf("expected JSON content type")
		}
		body := readJSON(t, r)
		want := map[string]any{
			"token": "tok",
			"story": map[string]any{"title": "T", "author": "A", "url": "U"},
		}
		if diff := cmp.Diff(want, body); diff != "" {
			t.Fatalf("body mismatch (-want +got):\n%s", diff)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"story":{"storyId":"new","title":"T","author":"A","url":"U","username":"ann"}}`)
	}))

	got, err := NewStoryService(client).Create(context.Background(), creds, domain.StoryDraft{Title: "T", Author: "A", URL: "U"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.ID != "new" || got.Username != "ann" {
		t.Fatalf("unexpected story: %+v", got)
	}
}

func TestStoryService_UpdateAndDelete_Paths(t *testing.T) {
	var seen []string
	client := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.EscapedPath())
		body := readJSON(t, r)
		if body["token"] != "tok" {
			t.Fatalf("expected token in body, got %v", body)
		}
		_, _ = io.WriteString(w, `{"story":{"storyId":"a b","title":"Y"}}`)
	}))
	svc := NewStoryService(client)

	if _, err := svc.Update(context.Background(), creds, "a b", domain.StoryDraft{Title: "Y", Author: "A", URL: "U"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := svc.Delete(context.Background(), creds, "a b"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	want := []string{"PATCH /stories/a%20b", "DELETE /stories/a%20b"}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestUserService_Restore_SkipsIncompleteCredentials(t *testing.T) {
	client := newTestClient(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("no request expected")
	}))
	svc := NewUserService(client)

	for _, c := range []domain.Credentials{{}, {Token: "tok"}, {Username: "ann"}} {
		_, ok, err := svc.Restore(context.Background(), c)
		if ok || err != nil {
			t.Fatalf("Restore(%+v) = ok %v, err %v", c, ok, err)
		}
	}
}

func TestUserService_Restore_TokenInQuery(t *testing.T) {
	client := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/ann" || r.URL.Query().Get("token") != "tok" {
			t.Fatalf("unexpected request %s", r.URL.String())
		}
		_, _ = io.WriteString(w, `{"user":{"username":"ann","name":"Ann",
			"favorites":[{"storyId":"f"},{"storyId":"f"}],
			"stories":[{"storyId":"s"}]}}`)
	}))

	user, ok, err := NewUserService(client).Restore(context.Background(), creds)
	if err != nil || !ok {
		t.Fatalf("Restore: ok %v err %v", ok, err)
	}
	if user.LoginToken != "tok" || user.Name != "Ann" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if len(user.Favorites) != 1 || len(user.OwnStories) != 1 {
		t.Fatalf("expected duplicate favorites dropped: %+v", user)
	}
}

func TestUserService_Favorites_ReturnServerList(t *testing.T) {
	client := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/ann/favorites/s1" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if readJSON(t, r)["token"] != "tok" {
			t.Fatalf("expected token in body")
		}
		if r.Method == http.MethodPost {
			_, _ = io.WriteString(w, `{"message":"ok","user":{"username":"ann","favorites":[{"storyId":"s0"},{"storyId":"s1"}]}}`)
			return
		}
		_, _ = io.WriteString(w, `{"message":"ok","user":{"username":"ann","favorites":[]}}`)
	}))
	svc := NewUserService(client)

	added, err := svc.AddFavorite(context.Background(), creds, "s1")
	if err != nil || len(added) != 2 {
		t.Fatalf("AddFavorite = %v, %v", added, err)
	}
	removed, err := svc.RemoveFavorite(context.Background(), creds, "s1")
	if err != nil || len(removed) != 0 {
		t.Fatalf("RemoveFavorite = %v, %v", removed, err)
	}
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    error
		message string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"status":401,"title":"Unauthorized","message":"bad token"}}`, domain.ErrUnauthorized, "bad token"},
		{"not found", http.StatusNotFound, `{"error":{"status":404,"title":"Not Found"}}`, domain.ErrNotFound, "Not Found"},
		{"conflict", http.StatusConflict, `{"error":{"status":409,"message":"taken"}}`, domain.ErrInvalidRequest, "taken"},
		{"server", http.StatusBadGateway, `<html>`, domain.ErrUnavailable, "<html>"},
		{"malformed", http.StatusOK, `{"stories":[{"title":"no id"}]}`, domain.ErrMalformedResponse, "storyId"},
		{"not json", http.StatusOK, `nope`, domain.ErrMalformedResponse, "parsing response"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			_, err := NewStoryService(client).FetchFeed(context.Background())
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T", err)
			}
			if !strings.Contains(apiErr.Error(), tc.message) {
				t.Fatalf("expected %q in %q", tc.message, apiErr.Error())
			}
		})
	}
}

func TestClient_TransportFailureIsUnavailable(t *testing.T) {
	cause := errors.New("connection refused")
	client := NewClient("http://example.test", 0, nil).
		WithHTTPClient(&http.Client{Transport: failingTransport{err: cause}})

	err := NewStoryService(client).Delete(context.Background(), creds, "x")
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected transport cause to be preserved, got %v", err)
	}
}

func TestClient_AuthResponseWithoutTokenIsMalformed(t *testing.T) {
	client := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"user":{"username":"ann"}}`)
	}))
	_, err := NewUserService(client).Login(context.Background(), "ann", "pw")
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestClient_MissingStoryListsAreMalformed(t *testing.T) {
	svc := func(body string) (*storyService, *userService) {
		client := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, body)
		}))
		return NewStoryService(client), NewUserService(client)
	}

	tests := []struct {
		name  string
		body  string
		call  func(*storyService, *userService) error
		field string
	}{
		{"feed without stories", `{}`, func(s *storyService, _ *userService) error {
			_, err := s.FetchFeed(context.Background())
			return err
		}, "stories"},
		{"feed with null stories", `{"stories":null}`, func(s *storyService, _ *userService) error {
			_, err := s.FetchFeed(context.Background())
			return err
		}, "stories"},
		{"add favorite without favorites", `{"user":{"username":"ann"}}`, func(_ *storyService, u *userService) error {
			_, err := u.AddFavorite(context.Background(), creds, "s1")
			return err
		}, "user.favorites"},
		{"remove favorite without favorites", `{"user":{"username":"ann"}}`, func(_ *storyService, u *userService) error {
			_, err := u.RemoveFavorite(context.Background(), creds, "s1")
			return err
		}, "user.favorites"},
		{"restore without favorites", `{"user":{"username":"ann","stories":[]}}`, func(_ *storyService, u *userService) error {
			_, _, err := u.Restore(context.Background(), creds)
			return err
		}, "user.favorites"},
		{"restore without stories", `{"user":{"username":"ann","favorites":[]}}`, func(_ *storyService, u *userService) error {
			_, _, err := u.Restore(context.Background(), creds)
			return err
		}, "user.stories"},
		{"login without stories", `{"token":"tok","user":{"username":"ann","favorites":[]}}`, func(_ *storyService, u *userService) error {
			_, err := u.Login(context.Background(), "ann", "pw")
			return err
		}, "user.stories"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call(svc(tc.body))
			if !errors.Is(err, domain.ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Fatalf("expected %q in %q", tc.field, err.Error())
			}
		})
	}
}

func TestUserService_SignupToleratesMissingStoryLists(t *testing.T) {
	client := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"token":"tok","user":{"username":"ann","name":"Ann"}}`)
	}))
	user, err := NewUserService(client).Signup(context.Background(), "ann", "pw", "Ann")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if user.LoginToken != "tok" || len(user.Favorites) != 0 || len(user.OwnStories) != 0 {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestStoryService_FetchFeed_EmptyListIsValid(t *testing.T) {
	client := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"stories":[]}`)
	}))
	stories, err := NewStoryService(client).FetchFeed(context.Background())
	if err != nil || len(stories) != 0 {
		t.Fatalf("FetchFeed = %v, %v", stories, err)
	}
}
