package domain

import "errors"

var (
	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates the requested story or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRequest indicates the server rejected the request payload,
	// e.g. a taken username or a malformed story URL.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnavailable indicates the API could not be reached.
	ErrUnavailable = errors.New("api unavailable")

	// ErrMalformedResponse indicates the API answered with an unexpected payload.
	ErrMalformedResponse = errors.New("malformed api response")

	// ErrIncompleteDraft indicates a story draft is missing a title, author or url.
	ErrIncompleteDraft = errors.New("story needs a title, author and url")

	// ErrNotLoggedIn indicates an operation that needs a logged-in user was
	// attempted anonymously.
	ErrNotLoggedIn = errors.New("not logged in")
)
