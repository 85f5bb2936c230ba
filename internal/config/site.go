package config

import (
	"maps"
	"time"
)

// SiteConfig holds per-host request settings for the native backend.
type SiteConfig struct {
	// Cookie is sent with every request to the host.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are extra request headers for the host.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// File is the structure of .llmstxt.yaml. Zero values mean "not set" and
// leave the corresponding default untouched.
type File struct {
	Model        string        `yaml:"model,omitempty"`
	Workers      int           `yaml:"workers,omitempty"`
	MaxPages     int           `yaml:"maxPages,omitempty"`
	Timeout      time.Duration `yaml:"timeout,omitempty"`
	LLMTimeout   time.Duration `yaml:"llmTimeout,omitempty"`
	Backend      string        `yaml:"backend,omitempty"`
	FirecrawlURL string        `yaml:"firecrawlURL,omitempty"`
	OpenAIURL    string        `yaml:"openaiURL,omitempty"`
	Proxy        string        `yaml:"proxy,omitempty"`
	History      bool          `yaml:"history,omitempty"`
	UserAgent    string        `yaml:"userAgent,omitempty"`
	CrawlRate    float64       `yaml:"crawlRate,omitempty"`
	MaxDepth     int           `yaml:"maxDepth,omitempty"`

	// Ignore lists URL path globs the native crawler skips, e.g. "/blog/page/*".
	Ignore []string `yaml:"ignore,omitempty"`

	// Denylist adds path segments to the built-in denylist.
	Denylist []string `yaml:"denylist,omitempty"`

	// Sites maps host names (e.g. "docs.example.com") to their settings.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults applies to every host unless overridden in Sites.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the settings for host merged over Defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := SiteConfig{Cookie: cf.Defaults.Cookie}
	if len(cf.Defaults.Headers) > 0 {
		result.Headers = maps.Clone(cf.Defaults.Headers)
	}

	site, ok := cf.Sites[host]
	if !ok {
		return result
	}
	if site.Cookie != "" {
		result.Cookie = site.Cookie
	}
	if len(site.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string, len(site.Headers))
		}
		maps.Copy(result.Headers, site.Headers)
	}
	return result
}

// ApplyFile copies every value set in f onto c and keeps f for per-site
// lookups. Flags are applied afterwards and win over the file.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	c.SiteConfigs = f
	if f.Model != "" {
		c.Model = f.Model
	}
	if f.Workers != 0 {
		c.Workers = f.Workers
	}
	if f.MaxPages != 0 {
		c.MaxPages = f.MaxPages
	}
	if f.Timeout != 0 {
		c.Timeout = f.Timeout
	}
	if f.LLMTimeout != 0 {
		c.LLMTimeout = f.LLMTimeout
	}
	if f.Backend != "" {
		c.Backend = f.Backend
	}
	if f.FirecrawlURL != "" {
		c.FirecrawlURL = f.FirecrawlURL
	}
	if f.OpenAIURL != "" {
		c.OpenAIURL = f.OpenAIURL
	}
	if f.Proxy != "" {
		c.ProxyURL = f.Proxy
	}
	if f.History {
		c.SaveHistory = true
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.CrawlRate != 0 {
		c.CrawlRate = f.CrawlRate
	}
	if f.MaxDepth != 0 {
		c.MaxDepth = f.MaxDepth
	}
	c.IgnorePatterns = append(c.IgnorePatterns, f.Ignore...)
	c.ExtraDenylist = append(c.ExtraDenylist, f.Denylist...)
}
