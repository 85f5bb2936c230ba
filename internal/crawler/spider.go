package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	"golang.org/x/time/rate"
)

// defaultIgnorePatterns skip links that never lead to an HTML page.
var defaultIgnorePatterns = []string{
	"*.pdf", "*.zip", "*.gz", "*.tar", "*.png", "*.jpg", "*.jpeg", "*.gif",
	"*.svg", "*.webp", "*.ico", "*.css", "*.js", "*.mp4", "*.mp3", "*.woff", "*.woff2",
}

// Spider discovers the URLs of one site by following same-host links.
type Spider struct {
	client         *http.Client
	maxDepth       int
	maxBodySize    int64
	limiter        *rate.Limiter
	ignorePatterns []string
	logger         *slog.Logger
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxDepth sets how many link hops from the root are followed.
func WithMaxDepth(depth int) SpiderOption {
	return func(s *Spider) {
		s.maxDepth = depth
	}
}

// WithRate limits requests to perSecond. Zero or less disables the limit.
func WithRate(perSecond float64) SpiderOption {
	return func(s *Spider) {
		if perSecond <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithSpiderMaxBodySize caps how much of each page is read.
func WithSpiderMaxBodySize(size int64) SpiderOption {
	return func(s *Spider) {
		if size > 0 {
			s.maxBodySize = size
		}
	}
}

// WithIgnorePatterns adds glob patterns for URL paths that are never
// collected, e.g. "/blog/page/*".
func WithIgnorePatterns(patterns ...string) SpiderOption {
	return func(s *Spider) {
		s.ignorePatterns = append(s.ignorePatterns, patterns...)
	}
}

// WithSpiderLogger sets the logger for per-page failures.
func WithSpiderLogger(l *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = l
	}
}

// NewSpider returns a Spider that fetches with client.
func NewSpider(client *http.Client, opts ...SpiderOption) *Spider {
	s := &Spider{
		client:         client,
		maxDepth:       5,
		maxBodySize:    5 * 1024 * 1024,
		limiter:        rate.NewLimiter(2, 1),
		ignorePatterns: append([]string(nil), defaultIgnorePatterns...),
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type queueItem struct {
	url   string
	depth int
}

// Collect returns up to limit URLs of the site at rootURL, the root
// first, then in breadth-first discovery order. Only links on the root's
// host are followed. Pages that fail to load are skipped.
func (s *Spider) Collect(ctx context.Context, rootURL string, limit int) ([]string, error) {
	start, err := url.Parse(rootURL)
	if err != nil || start.Host == "" {
		return nil, fmt.Errorf("invalid start URL %q", rootURL)
	}
	if limit <= 0 {
		return nil, nil
	}

	startURL := normalizeURL(start.String())
	found := []string{startURL}
	seen := map[string]struct{}{startURL: {}}
	queue := []queueItem{{url: startURL}}
	fetched := 0

	for len(queue) > 0 && len(found) < limit && fetched < limit {
		item := queue[0]
		queue = queue[1:]

		if err := s.limiter.Wait(ctx); err != nil {
			return found, err
		}
		links, err := s.links(ctx, item.url)
		fetched++
		if err != nil {
			if ctx.Err() != nil {
				return found, ctx.Err()
			}
			s.logger.Debug("skipping page", "url", item.url, "error", err)
			continue
		}

		for _, link := range links {
			link = normalizeURL(link)
			if _, ok := seen[link]; ok || !isSameHost(start.Host, link) || !s.shouldCrawl(link) {
				continue
			}
			seen[link] = struct{}{}
			found = append(found, link)
			if len(found) >= limit {
				break
			}
			if item.depth < s.maxDepth {
				queue = append(queue, queueItem{url: link, depth: item.depth + 1})
			}
		}
	}

	return found, nil
}

// links fetches pageURL and returns the links of the HTML document.
func (s *Spider) links(ctx context.Context, pageURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if !isHTML(resp.Header.Get("Content-Type")) {
		return nil, nil
	}

	// Links are resolved against the final URL after redirects.
	parser, err := NewParser(resp.Request.URL.String())
	if err != nil {
		return nil, err
	}
	result, err := parser.Parse(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		return nil, err
	}
	return result.Links, nil
}

// normalizeURL lower-cases scheme and host, drops the fragment and turns
// an empty path into "/".
func normalizeURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

func isSameHost(baseHost, targetURL string) bool {
	u, err := url.Parse(targetURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, baseHost)
}

func (s *Spider) shouldCrawl(targetURL string) bool {
	u, err := url.Parse(targetURL)
	if err != nil {
		return false
	}
	p := u.Path
	if p == "" {
		p = "/"
	}
	for _, pattern := range s.ignorePatterns {
		if matchPattern(pattern, p) {
			return false
		}
	}
	return true
}

// matchPattern reports whether urlPath matches a glob pattern.
//   - "/admin/*" matches "/admin" and everything below it
//   - "*.pdf" matches any path ending in .pdf, case-insensitively
//   - anything else is matched with path.Match
func matchPattern(pattern, urlPath string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		if urlPath == prefix || strings.HasPrefix(urlPath, prefix+"/") {
			return true
		}
	}
	if ext, ok := strings.CutPrefix(pattern, "*."); ok && !strings.Contains(ext, "/") {
		return strings.HasSuffix(strings.ToLower(urlPath), "."+strings.ToLower(ext))
	}
	matched, err := path.Match(pattern, urlPath)
	return err == nil && matched
}

func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "text/html" || mt == "application/xhtml+xml"
}
