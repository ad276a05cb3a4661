// Package api is the HTTP client for the FaceLogix backend. It carries the
// bearer access token on every authenticated request; a 401 triggers
// exactly one token refresh before the original request is retried once,
// and a second 401 ends the session.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// requestTimeout is the fixed client-side timeout on every backend call.
const requestTimeout = 30 * time.Second

// ErrSessionExpired is returned when the access token could not be
// refreshed. Callers must treat it as "session ended, log in again".
var ErrSessionExpired = errors.New("session expired")

// TokenSource supplies and refreshes the access token. session.Store
// implements it; the client never persists tokens itself.
type TokenSource interface {
	// AccessToken returns the current access token, or "" when logged out.
	AccessToken() string
	// RefreshAccess exchanges the refresh token for a new access token.
	// Returns false when the session could not be refreshed, in which
	// case the implementation has already cleared its state.
	RefreshAccess(ctx context.Context) bool
	// EndSession clears all session state.
	EndSession()
}

// Client is a FaceLogix backend API client.
type Client struct {
	baseURL   string
	parsedURL *url.URL
	http      *http.Client

	tokens TokenSource

	// refreshMu serializes token refresh so concurrent 401s produce a
	// single in-flight refresh call.
	refreshMu sync.Mutex
}

// New creates a client for the backend at rawURL (without the /api/v1
// suffix, which is appended here).
func New(rawURL string) (*Client, error) {
	apiURL := strings.TrimRight(rawURL, "/") + "/api/v1"
	parsed, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	return &Client{
		baseURL:   apiURL,
		parsedURL: parsed,
		http:      &http.Client{Timeout: requestTimeout},
	}, nil
}

// SetTokenSource wires the session store in after construction, breaking
// the client/store construction cycle.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// resolveURL builds a full URL from the base API URL and path segments.
// A query string on the last segment is split off so JoinPath only sees
// path portions.
func (c *Client) resolveURL(pathSegments ...string) string {
	if len(pathSegments) == 0 {
		return c.parsedURL.String()
	}
	last := pathSegments[len(pathSegments)-1]
	if pathPart, query, ok := strings.Cut(last, "?"); ok {
		pathSegments[len(pathSegments)-1] = pathPart
		result := c.parsedURL.JoinPath(pathSegments...)
		result.RawQuery = query
		return result.String()
	}
	return c.parsedURL.JoinPath(pathSegments...).String()
}

// refreshOnce performs a single-flight token refresh.
func (c *Client) refreshOnce(ctx context.Context) bool {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()
	return c.tokens.RefreshAccess(ctx)
}

// readErrorBody reads the response body for error messages. Returns a
// placeholder if reading fails (we're already in an error path).
func readErrorBody(r io.Reader) string {
	body, err := io.ReadAll(r)
	if err != nil {
		return "(could not read error body)"
	}
	return string(body)
}
