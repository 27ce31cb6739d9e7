package hackapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/CrestNiraj12/hacksnooze/domain"
	"github.com/CrestNiraj12/hacksnooze/infra/hackapi"
	"github.com/CrestNiraj12/hacksnooze/infra/hackapi/hacktest"
)

func startGateway(t *testing.T) (*hacktest.Server, *hackapi.Client) {
	t.Helper()
	fake := hacktest.New()
	ts := httptest.NewServer(fake)
	t.Cleanup(ts.Close)
	return fake, hackapi.NewClient(ts.URL, 0, nil)
}

func TestGateway_SignupLoginRoundTrip(t *testing.T) {
	_, client := startGateway(t)
	users := hackapi.NewUserService(client)
	ctx := context.Background()

	signed, err := users.Signup(ctx, "ann", "pw", "Ann")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if signed.LoginToken == "" {
		t.Fatalf("expected a login token after signup")
	}

	logged, err := users.Login(ctx, "ann", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if logged.Username != signed.Username || logged.Name != signed.Name {
		t.Fatalf("round trip mismatch: signup %+v, login %+v", signed, logged)
	}
	if logged.CreatedAt.IsZero() {
		t.Fatalf("expected createdAt to be parsed")
	}

	_, err = users.Signup(ctx, "ann", "pw", "Ann again")
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected taken username to be a validation failure, got %v", err)
	}
	_, err = users.Login(ctx, "ann", "wrong")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected bad password to be unauthorized, got %v", err)
	}
}

func TestGateway_StoryLifecycle(t *testing.T) {
	fake, client := startGateway(t)
	users := hackapi.NewUserService(client)
	stories := hackapi.NewStoryService(client)
	ctx := context.Background()

	user, err := users.Signup(ctx, "ann", "pw", "Ann")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	creds := user.Credentials()

	created, err := stories.Create(ctx, creds, domain.StoryDraft{Title: "T", Author: "A", URL: "https://x.io"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	updated, err := stories.Update(ctx, creds, created.ID, domain.StoryDraft{Title: "T2", Author: "A", URL: "https://x.io"})
	if err != nil || updated.Title != "T2" || updated.ID != created.ID {
		t.Fatalf("Update = %+v, %v", updated, err)
	}

	favs, err := users.AddFavorite(ctx, creds, created.ID)
	if err != nil || len(favs) != 1 || favs[0].ID != created.ID {
		t.Fatalf("AddFavorite = %+v, %v", favs, err)
	}

	restored, ok, err := users.Restore(ctx, creds)
	if err != nil || !ok {
		t.Fatalf("Restore: ok %v err %v", ok, err)
	}
	if len(restored.OwnStories) != 1 || len(restored.Favorites) != 1 {
		t.Fatalf("expected one own story and one favorite: %+v", restored)
	}

	if err := stories.Delete(ctx, creds, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	feed, err := stories.FetchFeed(ctx)
	if err != nil || len(feed) != 0 {
		t.Fatalf("FetchFeed after delete = %+v, %v", feed, err)
	}
	if got := fake.Calls(hacktest.RouteDeleteStory); got != 1 {
		t.Fatalf("delete calls = %d", got)
	}
}

func TestGateway_RestoreWithStaleTokenFails(t *testing.T) {
	fake, client := startGateway(t)
	users := hackapi.NewUserService(client)

	_, _, err := users.Restore(context.Background(), domain.Credentials{Token: fake.TokenFor("ann"), Username: "ann"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected unknown user to be not found, got %v", err)
	}

	_, _, err = users.Restore(context.Background(), domain.Credentials{Token: "garbage", Username: "ann"})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected bad token to be unauthorized, got %v", err)
	}
}

func TestGateway_InjectedFailureCarriesServerMessage(t *testing.T) {
	fake, client := startGateway(t)
	fake.FailNext(hacktest.RouteListStories, http.StatusInternalServerError, "database on fire")

	_, err := hackapi.NewStoryService(client).FetchFeed(context.Background())
	var apiErr *hackapi.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != "database on fire" || apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}
