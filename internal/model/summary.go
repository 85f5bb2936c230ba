package model

const (
	// FallbackPageTitle is used when no title could be generated for a page.
	FallbackPageTitle = "Page"
	// FallbackPageDescription is used when no description could be generated.
	FallbackPageDescription = "No description available"
	// FallbackSiteName is used when no site name could be generated.
	FallbackSiteName = "Website"
	// FallbackSiteSummary is used when no site summary could be generated.
	FallbackSiteSummary = "This site contains multiple sections of informative content."
)

// PageSummary is the generated title and description for one page.
type PageSummary struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`

	// Fallback is set when either field holds a placeholder value.
	Fallback bool `json:"fallback,omitempty"`
}

// NewPageSummary builds a PageSummary, substituting placeholders for
// empty fields.
func NewPageSummary(url, title, description string) PageSummary {
	s := PageSummary{URL: url, Title: title, Description: description}
	if s.Title == "" {
		s.Title = FallbackPageTitle
		s.Fallback = true
	}
	if s.Description == "" {
		s.Description = FallbackPageDescription
		s.Fallback = true
	}
	return s
}

// FallbackPageSummary is the summary used when generation failed outright.
func FallbackPageSummary(url string) PageSummary {
	return NewPageSummary(url, "", "")
}

// Entry returns the display tuple for s.
func (s PageSummary) Entry() Entry {
	return Entry{Title: s.Title, Description: s.Description, URL: s.URL}
}

// SiteSummary is the generated name and summary for the whole site.
type SiteSummary struct {
	Name     string `json:"name"`
	Summary  string `json:"summary"`
	Fallback bool   `json:"fallback,omitempty"`
}

// NewSiteSummary builds a SiteSummary, substituting placeholders for
// empty fields.
func NewSiteSummary(name, summary string) SiteSummary {
	s := SiteSummary{Name: name, Summary: summary}
	if s.Name == "" {
		s.Name = FallbackSiteName
		s.Fallback = true
	}
	if s.Summary == "" {
		s.Summary = FallbackSiteSummary
		s.Fallback = true
	}
	return s
}

// FallbackSiteSummaryValue is the site summary used when generation failed.
func FallbackSiteSummaryValue() SiteSummary {
	return NewSiteSummary("", "")
}
