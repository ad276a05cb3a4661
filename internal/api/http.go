package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
)

// doGetJSON performs an authenticated GET and unmarshals the JSON
// response. The endpoint is the path after the base API URL
// (e.g., "attendance/logs?page=1").
func doGetJSON[T any](ctx context.Context, c *Client, endpoint string) (*T, error) {
	return doRequestJSON[T](ctx, c, http.MethodGet, endpoint, nil, true, http.StatusOK)
}

// doPostJSON performs an authenticated POST with a JSON body.
func doPostJSON[T any](ctx context.Context, c *Client, endpoint string, requestBody any) (*T, error) {
	return doRequestJSON[T](ctx, c, http.MethodPost, endpoint, requestBody, true, http.StatusOK, http.StatusCreated)
}

// doPostJSONUnauth performs an unauthenticated POST; used by the auth
// endpoints themselves, which must never trigger a refresh loop.
func doPostJSONUnauth[T any](ctx context.Context, c *Client, endpoint string, requestBody any) (*T, error) {
	return doRequestJSON[T](ctx, c, http.MethodPost, endpoint, requestBody, false, http.StatusOK, http.StatusCreated)
}

// doPostNoContent performs an unauthenticated POST expecting no response
// body (e.g., logout).
func doPostNoContent(ctx context.Context, c *Client, endpoint string, requestBody any) error {
	_, err := c.do(ctx, http.MethodPost, endpoint, requestBody, false,
		http.StatusOK, http.StatusNoContent)
	return err
}

// doRequestJSON is the internal helper for JSON request/response pairs.
func doRequestJSON[T any](ctx context.Context, c *Client, method, endpoint string, requestBody any, authenticated bool, expectedStatuses ...int) (*T, error) {
	body, err := c.do(ctx, method, endpoint, requestBody, authenticated, expectedStatuses...)
	if err != nil {
		return nil, err
	}

	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("could not unmarshal response: %w", err)
	}
	return &result, nil
}

// do sends one request, handling the 401 refresh-and-retry-once contract
// for authenticated calls, and returns the raw response body.
func (c *Client) do(ctx context.Context, method, endpoint string, requestBody any, authenticated bool, expectedStatuses ...int) ([]byte, error) {
	var jsonBody []byte
	if requestBody != nil {
		var err error
		jsonBody, err = json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("could not marshal request body: %w", err)
		}
	}

	send := func() (*http.Response, error) {
		var bodyReader io.Reader
		if jsonBody != nil {
			bodyReader = bytes.NewReader(jsonBody)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.resolveURL(endpoint), bodyReader)
		if err != nil {
			return nil, fmt.Errorf("could not create request: %w", err)
		}
		if jsonBody != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if authenticated && c.tokens != nil {
			if tok := c.tokens.AccessToken(); tok != "" {
				req.Header.Set("Authorization", "Bearer "+tok)
			}
		}
		return c.http.Do(req)
	}

	resp, err := send()
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}

	if authenticated && resp.StatusCode == http.StatusUnauthorized && c.tokens != nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if !c.refreshOnce(ctx) {
			return nil, ErrSessionExpired
		}

		resp, err = send()
		if err != nil {
			return nil, fmt.Errorf("could not send request: %w", err)
		}
		if resp.StatusCode == http.StatusUnauthorized {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			c.tokens.EndSession()
			return nil, ErrSessionExpired
		}
	}
	defer resp.Body.Close()

	if !slices.Contains(expectedStatuses, resp.StatusCode) {
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}
	return body, nil
}
