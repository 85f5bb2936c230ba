package firecrawl

type mapRequest struct {
	URL   string `json:"url"`
	Limit int    `json:"limit"`
}

// MapResponse is the body of a /map response.
type MapResponse struct {
	Success bool     `json:"success"`
	Links   []string `json:"links"`
}

type scrapeRequest struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
}

// ScrapeResponse is the body of a /scrape response.
type ScrapeResponse struct {
	Success bool       `json:"success"`
	Data    ScrapeData `json:"data"`
}

// ScrapeData is the scraped document.
type ScrapeData struct {
	Markdown string `json:"markdown"`

	// Metadata values are mostly strings, but Firecrawl also reports
	// numbers (statusCode) and lists, so they are decoded loosely.
	Metadata map[string]any `json:"metadata"`
}

// Title returns the page title from the metadata, if any.
func (d *ScrapeData) Title() string {
	if v, ok := d.Metadata["title"].(string); ok {
		return v
	}
	return ""
}

type errorResponse struct {
	Error string `json:"error"`
}
