package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nao1215/llmstxt/internal/model"
	"github.com/nao1215/llmstxt/internal/netclient"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 4 * 1024

// Client talks to the Firecrawl v1 API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient returns a Client for the API at baseURL that authenticates
// with apiKey. Requests use the route and timeout of nc.
func NewClient(baseURL, apiKey string, nc *netclient.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: nc.NewHTTPClient(),
	}
}

// Map asks Firecrawl for up to limit URLs of the site at rootURL.
func (c *Client) Map(ctx context.Context, rootURL string, limit int) ([]string, error) {
	var resp MapResponse
	if err := c.post(ctx, "map", mapRequest{URL: rootURL, Limit: limit}, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, ErrMapUnsuccessful
	}
	return resp.Links, nil
}

// Scrape returns the main content of pageURL as Markdown.
func (c *Client) Scrape(ctx context.Context, pageURL string) (*ScrapeData, error) {
	req := scrapeRequest{
		URL:             pageURL,
		Formats:         []string{"markdown"},
		OnlyMainContent: true,
	}
	var resp ScrapeResponse
	if err := c.post(ctx, "scrape", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success && resp.Data.Markdown == "" {
		return nil, ErrScrapeUnsuccessful
	}
	return &resp.Data, nil
}

// Collect implements pipeline.Collector.
func (c *Client) Collect(ctx context.Context, rootURL string, limit int) ([]string, error) {
	return c.Map(ctx, rootURL, limit)
}

// Fetch implements pipeline.Fetcher.
func (c *Client) Fetch(ctx context.Context, pageURL string) (*model.Page, error) {
	data, err := c.Scrape(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	if data.Markdown == "" {
		return nil, ErrEmptyContent
	}
	return &model.Page{URL: pageURL, Markdown: data.Markdown, Title: data.Title()}, nil
}

func (c *Client) post(ctx context.Context, endpoint string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", endpoint, err)
	}
	// Set on the request so net/http drops it on cross-host redirects.
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("firecrawl %s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck // best effort
		var er errorResponse
		if json.Unmarshal(raw, &er) == nil {
			apiErr.Message = er.Error
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}
