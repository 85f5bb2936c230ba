package model

// Run accumulates the intermediate state of one generation run as it
// moves through the pipeline steps.
type Run struct {
	RootURL string
	Limit   int

	// URLs are the collected URLs, in the order the collector returned them.
	URLs []string
	// Filtered are the URLs that survived the segment filter.
	Filtered []string
	// Pages are the fetched pages with content, in crawl order.
	Pages []*Page
	// Summaries are the page summaries, parallel to Pages.
	Summaries []PageSummary

	Sections Sections
	Site     SiteSummary
	Result   Result
}

// NewRun returns a Run for rootURL bounded to limit URLs.
func NewRun(rootURL string, limit int) *Run {
	return &Run{
		RootURL: rootURL,
		Limit:   limit,
		Result:  Result{RootURL: rootURL},
	}
}

// Contents returns the Markdown of every page, in crawl order.
func (r *Run) Contents() []string {
	out := make([]string, len(r.Pages))
	for i, p := range r.Pages {
		out[i] = p.Markdown
	}
	return out
}
