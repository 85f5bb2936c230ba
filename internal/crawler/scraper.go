package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/go-shiori/go-readability"

	"github.com/nao1215/llmstxt/internal/model"
)

// ErrUnsupportedContent is returned for responses that are neither HTML
// nor plain text.
var ErrUnsupportedContent = errors.New("unsupported content type")

// ErrNoContent is returned when a page yields no text.
var ErrNoContent = errors.New("page has no content")

// Scraper fetches single pages and returns their main content as Markdown.
type Scraper struct {
	client      *http.Client
	maxBodySize int64
}

// ScraperOption configures a Scraper.
type ScraperOption func(*Scraper)

// WithScraperMaxBodySize caps how much of each page is read.
func WithScraperMaxBodySize(size int64) ScraperOption {
	return func(s *Scraper) {
		if size > 0 {
			s.maxBodySize = size
		}
	}
}

// NewScraper returns a Scraper that fetches with client.
func NewScraper(client *http.Client, opts ...ScraperOption) *Scraper {
	s := &Scraper{client: client, maxBodySize: 5 * 1024 * 1024}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch downloads pageURL and converts its main content to Markdown.
// Plain-text and Markdown responses are returned as they are.
func (s *Scraper) Fetch(ctx context.Context, pageURL string) (*model.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.5")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		return nil, err
	}

	page := &model.Page{URL: pageURL}
	switch mediaType(resp.Header.Get("Content-Type")) {
	case "text/html", "application/xhtml+xml", "":
		page.Title, page.Markdown, err = htmlToMarkdown(body, resp)
		if err != nil {
			return nil, err
		}
	case "text/plain", "text/markdown", "text/x-markdown":
		page.Markdown = strings.TrimSpace(string(body))
	default:
		return nil, ErrUnsupportedContent
	}

	if page.Markdown == "" {
		return nil, ErrNoContent
	}
	return page, nil
}

// htmlToMarkdown isolates the main article of body and renders it as
// Markdown with links made absolute. If readability finds no article the
// whole document is converted.
func htmlToMarkdown(body []byte, resp *http.Response) (title, markdown string, err error) {
	finalURL := resp.Request.URL

	content := string(body)
	article, rerr := readability.FromReader(bytes.NewReader(body), finalURL)
	if rerr == nil && strings.TrimSpace(article.Content) != "" {
		title = strings.TrimSpace(article.Title)
		content = article.Content
	}

	markdown, err = htmltomarkdown.ConvertString(content,
		converter.WithDomain(finalURL.Scheme+"://"+finalURL.Host))
	if err != nil {
		return "", "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}
	return title, strings.TrimSpace(markdown), nil
}

func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "unknown"
	}
	return mt
}
