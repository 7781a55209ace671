package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound indicates the catalog has no merchant for the given id or slug.
var ErrNotFound = errors.New("merchant not found")

// Client is a read-only client for the upstream catalog service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a catalog client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Merchant fetches a merchant by id or slug.
func (c *Client) Merchant(ctx context.Context, idOrSlug string) (*Merchant, error) {
	u := fmt.Sprintf("%s/merchants/%s", c.baseURL, url.PathEscape(idOrSlug))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build merchant request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var m Merchant
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode merchant: %w", err)
	}
	return &m, nil
}

// Passthrough proxies a read-only catalog path (e.g. /merchants, /categories)
// with the caller's raw query string and returns the upstream status and body.
func (c *Client) Passthrough(ctx context.Context, path, rawQuery string) (int, []byte, error) {
	u := c.baseURL + path
	if rawQuery != "" {
		u += "?" + rawQuery
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read catalog response: %w", err)
	}
	return resp.StatusCode, body, nil
}
