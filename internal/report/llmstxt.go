package report

import (
	"io"
	"strings"

	"github.com/nao1215/llmstxt/internal/model"
	"github.com/nao1215/markdown"
)

// RenderLLMsTxt renders the llms.txt document. Sections appear in
// ascending name order and entries in the order they were added.
// Leading and trailing whitespace is trimmed.
func RenderLLMsTxt(site model.SiteSummary, sections *model.Sections) string {
	md := markdown.NewMarkdown(io.Discard)
	writeHeader(md, site)

	if sections != nil {
		for _, name := range sections.Names() {
			md.H2(name)
			md.PlainText("")
			for _, e := range sections.Entries(name) {
				md.BulletList(entryLine(e))
			}
			md.PlainText("")
		}
	}

	return finish(md)
}

// entryLine formats one bullet body: "[title](url): description".
func entryLine(e model.Entry) string {
	return markdown.Link(e.Title, e.URL) + ": " + e.Description
}

func writeHeader(md *markdown.Markdown, site model.SiteSummary) {
	md.H1(site.Name)
	md.PlainText("")
	md.PlainText(site.Summary)
	md.PlainText("")
}

// finish joins the document with "\n" regardless of platform and trims it.
// The markdown package joins lines with CRLF on Windows.
func finish(md *markdown.Markdown) string {
	s := strings.ReplaceAll(md.String(), "\r\n", "\n")
	return strings.TrimSpace(s)
}
