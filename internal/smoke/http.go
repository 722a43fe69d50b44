package smoke

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// httpClient wraps http.Client with the site's base URL.
type httpClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(cfg Config) *httpClient {
	return &httpClient{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// get performs a GET and fails unless the status is want.
func (c *httpClient) get(ctx context.Context, path string, want int) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.StatusCode != want {
		_ = drain(resp)
		return nil, fmt.Errorf("GET %s: status %d, want %d", path, resp.StatusCode, want)
	}
	return resp, nil
}

// getJSON decodes a 200 JSON response into v.
func (c *httpClient) getJSON(ctx context.Context, path string, v any) error {
	resp, err := c.get(ctx, path, http.StatusOK)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("GET %s: decode: %w", path, err)
	}
	return nil
}

// getPage parses a 200 HTML response.
func (c *httpClient) getPage(ctx context.Context, path string) (*goquery.Document, error) {
	resp, err := c.get(ctx, path, http.StatusOK)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: parse html: %w", path, err)
	}
	return doc, nil
}

// drain reads and closes the response body so the connection is reused.
func drain(resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()
	_, err := io.Copy(io.Discard, resp.Body)
	return err
}
