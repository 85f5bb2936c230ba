package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file name searched for in the current
// and home directories.
const DefaultConfigFile = ".llmstxt.yaml"

// Environment variables read by LoadEnv.
const (
	EnvFirecrawlAPIKey = "FIRECRAWL_API_KEY"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvFirecrawlURL    = "FIRECRAWL_API_URL"
	EnvOpenAIURL       = "OPENAI_BASE_URL"
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile reads and parses a YAML config file.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	if cf.Sites == nil {
		cf.Sites = make(map[string]SiteConfig)
	}
	return &cf, nil
}

// FindConfigFile returns the config file to use, or "" if none exists.
// Search order:
//  1. configPath, when given
//  2. .llmstxt.yaml in the current directory
//  3. config.yaml in the XDG config directory
//  4. .llmstxt.yaml in the home directory
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if fileExists(configPath) {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, c := range candidates {
		if fileExists(c) {
			return c
		}
	}
	return ""
}

// LoadDotEnv loads variables from the given .env files (".env" when none
// are given) into the process environment. Variables already set are not
// overridden and missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if !fileExists(p) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return err
		}
	}
	return nil
}

// LoadEnv fills credentials and API endpoints from the environment.
// Endpoint variables override the current values; empty variables are
// ignored.
func (c *Config) LoadEnv() {
	if v, ok := lookupEnv(EnvFirecrawlAPIKey); ok {
		c.FirecrawlAPIKey = v
	}
	if v, ok := lookupEnv(EnvOpenAIAPIKey); ok {
		c.OpenAIAPIKey = v
	}
	if v, ok := lookupEnv(EnvFirecrawlURL); ok {
		c.FirecrawlURL = v
	}
	if v, ok := lookupEnv(EnvOpenAIURL); ok {
		c.OpenAIURL = v
	}
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
