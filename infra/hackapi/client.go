package hackapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is the public Hack or Snooze API.
const DefaultBaseURL = "https://hack-or-snooze-v3.herokuapp.com"

// Client is a thin HTTP wrapper for the Hack or Snooze API.
// It handles base URL construction, JSON bodies and error mapping. It holds
// no per-user state: credentials travel with every call.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Entry
}

// NewClient creates an API client. A zero timeout leaves requests unbounded.
func NewClient(baseURL string, timeout time.Duration, log *logrus.Entry) *Client {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log.WithField("component", "hackapi"),
	}
}

// WithHTTPClient swaps the underlying HTTP client. It exists for tests that
// route requests to an in-process handler.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// do sends in as a JSON body (when non-nil) and decodes a 2xx response into
// out (when non-nil). Every failure comes back as an *APIError.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, in, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return &APIError{Op: op, Kind: KindMalformed, Message: fmt.Sprintf("encoding request: %v", err)}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return &APIError{Op: op, Kind: KindNetwork, Message: fmt.Sprintf("creating request: %v", err)}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.log.WithFields(logrus.Fields{
		"op":         op,
		"method":     method,
		"path":       path,
		"request_id": requestID,
	})
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Warn("request failed")
		return &APIError{Op: op, Kind: KindNetwork, Message: fmt.Sprintf("request to %s: %v", path, err), cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.WithError(err).Warn("reading response failed")
		return &APIError{Op: op, Kind: KindNetwork, Status: resp.StatusCode, Message: fmt.Sprintf("reading response: %v", err), cause: err}
	}

	log = log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	})
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := errorFromResponse(op, resp.StatusCode, data)
		log.WithField("message", apiErr.Message).Warn("request rejected")
		return apiErr
	}
	log.Debug("request ok")

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Op: op, Kind: KindMalformed, Status: resp.StatusCode, Message: fmt.Sprintf("parsing response: %v", err), cause: err}
	}
	if v, ok := out.(validator); ok {
		if err := v.validate(); err != nil {
			return &APIError{Op: op, Kind: KindMalformed, Status: resp.StatusCode, Message: err.Error(), cause: err}
		}
	}
	return nil
}

// validator is implemented by response schemas that check required fields.
type validator interface {
	validate() error
}

var errMissingField = errors.New("missing field")
