package model

import "unicode/utf8"

// Page is the content fetched for one URL.
type Page struct {
	// URL is the address the content was fetched from.
	URL string `json:"url"`

	// Index is the position of URL in the collected URL list. Pages are
	// fetched concurrently and sorted back into this order.
	Index int `json:"index"`

	// Markdown is the main content of the page rendered as Markdown.
	Markdown string `json:"markdown"`

	// Title is the document title reported by the fetcher, if any. It is
	// only used by llms-full.txt when the page summary fell back.
	Title string `json:"title,omitempty"`
}

// HasContent reports whether the page carries any non-empty content.
func (p *Page) HasContent() bool {
	return p != nil && p.Markdown != ""
}

// Truncate returns the first n runes of s. Truncation never splits a
// multi-byte character.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
