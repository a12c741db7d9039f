// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"github.com/wanderlight/wanderlight/internal/recommend"
)

// Remote is a fallible catalog source, typically the game's artifact
// service. Lookup returns ErrNotFound for absent items and transport
// errors otherwise.
type Remote interface {
	Lookup(ctx context.Context, itemID string) (recommend.Item, error)
	List(ctx context.Context) ([]recommend.Item, error)
}

// HTTPClient fetches catalog items from the artifact service REST API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a client for the artifact service at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Lookup fetches a single item by ID.
func (c *HTTPClient) Lookup(ctx context.Context, itemID string) (recommend.Item, error) {
	var item recommend.Item
	err := c.getJSON(ctx, "/api/artifacts/"+url.PathEscape(itemID), &item)
	return item, err
}

// List fetches all visible items.
func (c *HTTPClient) List(ctx context.Context) ([]recommend.Item, error) {
	var items []recommend.Item
	if err := c.getJSON(ctx, "/api/artifacts?visible=true", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// getJSON performs a GET request and decodes the JSON body into out.
func (c *HTTPClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // nothing useful to do with a close error

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode catalog response: %w", err)
		}
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("catalog responded %d", resp.StatusCode)
	}
}
