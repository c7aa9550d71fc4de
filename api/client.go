// Package api is the HTTP client adapter for the marketplace REST API.
// Every request carries the session bearer token read from a TokenSource;
// only the auth store writes the token.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// TokenSource returns the current session token, empty when logged out.
type TokenSource func() string

// Error is a non-2xx response decoded from the API's {"error": "..."}
// body.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: request failed with status %d", e.StatusCode)
	}
	return e.Message
}

type Client struct {
	baseURL        string
	publishableKey string
	token          TokenSource
	http           *http.Client
	log            zerolog.Logger
}

func New(baseURL, publishableKey string, token TokenSource, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:        baseURL,
		publishableKey: publishableKey,
		token:          token,
		http:           &http.Client{Timeout: 15 * time.Second},
		log:            logger.With().Str("component", "api").Logger(),
	}
}

// do issues one JSON request. body and out may be nil.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		var errBody struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil {
			apiErr.Message = errBody.Error
		}
		c.log.Warn().Int("status", resp.StatusCode).Str("method", method).Str("path", path).
			Str("error", apiErr.Message).Msg("request rejected")
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
