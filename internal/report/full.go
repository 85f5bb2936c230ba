package report

import (
	"io"

	"github.com/nao1215/llmstxt/internal/model"
	"github.com/nao1215/markdown"
)

// RenderLLMsFullTxt renders llms-full.txt: the llms.txt header followed by
// every page in crawl order as a "## title" heading, a URL line and the
// page's Markdown.
//
// summaries is parallel to pages. A page whose summary fell back to the
// placeholder title uses the title reported by the fetcher when there is one.
func RenderLLMsFullTxt(site model.SiteSummary, pages []*model.Page, summaries []model.PageSummary) string {
	md := markdown.NewMarkdown(io.Discard)
	writeHeader(md, site)

	for i, p := range pages {
		md.H2(pageTitle(p, summaries, i))
		md.PlainText("")
		md.PlainText("URL: " + p.URL)
		md.PlainText("")
		md.PlainText(p.Markdown)
		md.PlainText("")
	}

	return finish(md)
}

func pageTitle(p *model.Page, summaries []model.PageSummary, i int) string {
	if i < len(summaries) {
		s := summaries[i]
		if s.Title != model.FallbackPageTitle || p.Title == "" {
			return s.Title
		}
	}
	if p.Title != "" {
		return p.Title
	}
	return model.FallbackPageTitle
}
