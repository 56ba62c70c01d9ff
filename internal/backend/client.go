// Package backend is a thin REST client for the hosted backend: its auth API
// and the table API in front of the Postgres database.
package backend

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

	"github.com/dtroode/groupfeed/internal/model"
)

const (
	restPrefix = "/rest/v1/"
	authPrefix = "/auth/v1/"
)

// Client talks to the hosted backend on behalf of a session.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

// NewClient creates a new backend client.
func NewClient(baseURL, anonKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// RequestOptions tune how newRequest builds a request.
type RequestOptions struct {
	// User targets the auth API instead of the table API.
	User  bool
	Query url.Values
	Body  any
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.Status)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Message)
}

// apiError covers the error bodies of both the auth and the table API.
type apiError struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e apiError) text() string {
	for _, s := range []string{e.ErrorDescription, e.Message, e.Msg, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// newRequest builds a request for path, which may carry its own query string.
// A nil session authenticates with the anonymous key.
func (c *Client) newRequest(ctx context.Context, method, path string, session *model.Session, opts RequestOptions) (*http.Request, error) {
	prefix := restPrefix
	if opts.User {
		prefix = authPrefix
	}

	u, err := url.Parse(c.baseURL + prefix + strings.TrimLeft(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse url: %w", err)
	}
	if len(opts.Query) > 0 {
		q := u.Query()
		for k, vs := range opts.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	var body io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	bearer := c.anonKey
	if session != nil && session.AccessToken != "" {
		bearer = session.AccessToken
	}

	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// do sends req and decodes a JSON response body into result when it is not nil.
func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		_ = json.Unmarshal(data, &apiErr)
		return &StatusError{Status: resp.StatusCode, Message: apiErr.text()}
	}

	if result != nil && len(data) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

// mapStatus translates status errors into model sentinels.
func mapStatus(err error) error {
	var se *StatusError
	if !errors.As(err, &se) {
		return err
	}

	switch se.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", model.ErrUnauthorized, err)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", model.ErrNotFound, err)
	default:
		return err
	}
}
