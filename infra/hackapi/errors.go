package hackapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/CrestNiraj12/hacksnooze/domain"
)

// Kind classifies an API failure.
type Kind int

const (
	KindNetwork Kind = iota
	KindUnauthorized
	KindNotFound
	KindValidation
	KindMalformed
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation"
	case KindMalformed:
		return "malformed"
	case KindServer:
		return "server"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// APIError is the single failure type returned by every gateway call.
// Callers that only need the message can print it; callers that care about
// the cause match it against the domain sentinels with errors.Is.
type APIError struct {
	Op      string
	Kind    Kind
	Status  int
	Message string

	cause error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (%d)", e.Op, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *APIError) Unwrap() error { return e.cause }

// Is maps the error kind onto the domain sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case domain.ErrUnavailable:
		return e.Kind == KindNetwork || e.Kind == KindServer
	case domain.ErrUnauthorized:
		return e.Kind == KindUnauthorized
	case domain.ErrNotFound:
		return e.Kind == KindNotFound
	case domain.ErrInvalidRequest:
		return e.Kind == KindValidation
	case domain.ErrMalformedResponse:
		return e.Kind == KindMalformed
	}
	return false
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindUnauthorized
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindValidation
	default:
		return KindServer
	}
}

// errorFromResponse builds an APIError from a non-2xx response, preferring the
// server's own message when the body carries one.
func errorFromResponse(op string, status int, body []byte) *APIError {
	msg := http.StatusText(status)
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error != nil {
		switch {
		case strings.TrimSpace(er.Error.Message) != "":
			msg = er.Error.Message
		case strings.TrimSpace(er.Error.Title) != "":
			msg = er.Error.Title
		}
	} else if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 {
		msg = text
	}
	return &APIError{Op: op, Kind: kindForStatus(status), Status: status, Message: msg}
}
