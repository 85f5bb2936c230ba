package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is used for XDG directory paths.
	AppName = "llmstxt"

	// DefaultMaxPages is the number of URLs requested from the collector.
	DefaultMaxPages = 20
	// MinMaxPages and MaxMaxPages bound the page limit a user may ask for.
	MinMaxPages = 5
	MaxMaxPages = 50

	// DefaultWorkers is the width of the concurrent fetch pool.
	DefaultWorkers = 4

	// DefaultTimeout bounds each crawl and scrape HTTP request.
	DefaultTimeout = 30 * time.Second

	// DefaultLLMTimeout bounds each chat-completion call.
	DefaultLLMTimeout = 60 * time.Second

	// DefaultModel is the chat model used for summaries.
	DefaultModel = "gpt-4o-mini"

	// BackendFirecrawl collects and scrapes through the Firecrawl API.
	BackendFirecrawl = "firecrawl"
	// BackendNative crawls and extracts content locally.
	BackendNative = "native"

	// DefaultFirecrawlURL is the Firecrawl v1 API base.
	DefaultFirecrawlURL = "https://api.firecrawl.dev/v1"
	// DefaultOpenAIURL is the OpenAI API base.
	DefaultOpenAIURL = "https://api.openai.com/v1"

	// DefaultOutputFile is where llms.txt is written.
	DefaultOutputFile = "llms.txt"

	// DefaultUserAgent is sent by the native crawler.
	DefaultUserAgent = "llmstxt/1.0 (+https://github.com/nao1215/llmstxt)"

	// DefaultCrawlRate is the native crawler's request rate per second
	// against the target site.
	DefaultCrawlRate = 2.0

	// DefaultMaxBodySize caps how much of a page the native fetcher reads.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultMaxDepth is how many link hops the native crawler follows.
	DefaultMaxDepth = 5
)

// Config holds the settings for one run. It is built once by the CLI and
// passed down explicitly.
type Config struct {
	// RootURL is the website to index.
	RootURL string

	// MaxPages is the number of URLs requested from the collector.
	MaxPages int

	// Workers is the number of concurrent page fetches.
	Workers int

	// Timeout applies to each Firecrawl or native HTTP request.
	Timeout time.Duration

	// LLMTimeout applies to each chat-completion call.
	LLMTimeout time.Duration

	// Model is the chat model name.
	Model string

	// Backend selects how URLs are collected and pages fetched.
	Backend string

	FirecrawlURL    string
	FirecrawlAPIKey string
	OpenAIURL       string
	OpenAIAPIKey    string

	// ProxyURL routes all outbound traffic through a proxy when set.
	// socks5://, http:// and https:// are supported.
	ProxyURL string

	// OutputPath is where llms.txt is written. "-" means stdout.
	OutputPath string

	// Full also renders llms-full.txt next to OutputPath.
	Full bool

	// Verbose enables debug logging.
	Verbose bool

	// SaveHistory records the finished run in the history database.
	SaveHistory bool

	// DBDir is the directory holding the history database.
	DBDir string

	// UserAgent, CrawlRate and MaxBodySize tune the native backend.
	UserAgent   string
	CrawlRate   float64
	MaxBodySize int64

	// MaxDepth is how many link hops the native crawler follows from the root.
	MaxDepth int

	// IgnorePatterns are URL path globs the native crawler never collects.
	IgnorePatterns []string

	// ExtraDenylist adds path segments to the built-in denylist.
	ExtraDenylist []string

	// ConfigFilePath is the explicit config file location, if any.
	ConfigFilePath string

	// SiteConfigs holds per-host settings from the config file.
	SiteConfigs *File
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		MaxPages:     DefaultMaxPages,
		Workers:      DefaultWorkers,
		Timeout:      DefaultTimeout,
		LLMTimeout:   DefaultLLMTimeout,
		Model:        DefaultModel,
		Backend:      BackendFirecrawl,
		FirecrawlURL: DefaultFirecrawlURL,
		OpenAIURL:    DefaultOpenAIURL,
		OutputPath:   DefaultOutputFile,
		DBDir:        XDGDataDir(),
		UserAgent:    DefaultUserAgent,
		CrawlRate:    DefaultCrawlRate,
		MaxBodySize:  DefaultMaxBodySize,
		MaxDepth:     DefaultMaxDepth,
	}
}

// XDGDataDir returns the data directory, e.g. ~/.local/share/llmstxt.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the config directory, e.g. ~/.config/llmstxt.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate reports the first problem with c. Missing credentials are
// reported here so that a run fails before any network work starts.
func (c *Config) Validate() error {
	if c.RootURL == "" {
		return ErrNoTarget
	}
	if !isHTTPURL(c.RootURL) {
		return ErrInvalidURL
	}
	if c.MaxPages < MinMaxPages || c.MaxPages > MaxMaxPages {
		return ErrMaxPagesOutOfRange
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.Timeout <= 0 || c.LLMTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Backend != BackendFirecrawl && c.Backend != BackendNative {
		return ErrUnknownBackend
	}
	if c.ProxyURL != "" {
		u, err := url.Parse(c.ProxyURL)
		if err != nil || u.Host == "" {
			return ErrInvalidProxy
		}
		switch u.Scheme {
		case "socks5", "socks5h", "http", "https":
		default:
			return ErrInvalidProxy
		}
	}
	if c.CrawlRate < 0 {
		return ErrInvalidCrawlRate
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}
	if c.OpenAIAPIKey == "" {
		return ErrMissingOpenAIKey
	}
	if c.Backend == BackendFirecrawl && c.FirecrawlAPIKey == "" {
		return ErrMissingFirecrawlKey
	}
	return nil
}

// RootHost returns the host name of RootURL, or "" if it cannot be parsed.
func (c *Config) RootHost() string {
	u, err := url.Parse(c.RootURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// SiteConfig returns the per-host settings for rawURL, or the zero value
// when no config file was loaded.
func (c *Config) SiteConfig(rawURL string) SiteConfig {
	if c.SiteConfigs == nil {
		return SiteConfig{}
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return c.SiteConfigs.Defaults
	}
	return c.SiteConfigs.GetSiteConfig(u.Hostname())
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
