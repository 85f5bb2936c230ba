package crawler

import (
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseResult is what the spider needs from one HTML page.
type ParseResult struct {
	// Title is the text of the <title> element.
	Title string

	// Links are the absolute http(s) URLs of every <a href>, without
	// fragments, in document order. Duplicates are removed.
	Links []string
}

// Parser extracts links from HTML, resolving them against the page URL.
type Parser struct {
	baseURL *url.URL
}

// NewParser returns a Parser for a page located at baseURL.
func NewParser(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Parser{baseURL: u}, nil
}

// Parse reads an HTML document from content.
func (p *Parser) Parse(content io.Reader) (*ParseResult, error) {
	doc, err := goquery.NewDocumentFromReader(content)
	if err != nil {
		return nil, err
	}

	base := p.baseURL
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if u, err := p.baseURL.Parse(strings.TrimSpace(href)); err == nil {
			base = u
		}
	}

	result := &ParseResult{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}
	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		link, ok := resolveLink(base, href)
		if !ok {
			return
		}
		if _, dup := seen[link]; dup {
			return
		}
		seen[link] = struct{}{}
		result.Links = append(result.Links, link)
	})
	return result, nil
}

// resolveLink makes href absolute and drops anything that is not a
// crawlable http(s) link.
func resolveLink(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}
	lower := strings.ToLower(href)
	for _, scheme := range []string{"mailto:", "javascript:", "tel:", "data:"} {
		if strings.HasPrefix(lower, scheme) {
			return "", false
		}
	}

	u, err := base.Parse(href)
	if err != nil {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), true
}
