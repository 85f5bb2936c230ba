package segment

import (
	"net/url"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// MiscSection is the section for URLs whose path has no usable segment.
const MiscSection = "Misc"

// defaultSegments are path segments that mark a page as boilerplate,
// private or otherwise not worth indexing. The empty segment excludes the
// site root and paths with doubled slashes.
var defaultSegments = []string{
	"", "index", "home", "homepage",
	"privacy", "terms", "legal",
	"sitemap", "sitemap.xml", "robots.txt",
	"author", "authors",
	"admin", "login", "user-data", "settings", "internal-docs",
	"pricing", "strategy", "sales-materials", "confidential",
	"beta", "staging", "dev",
	"404", "search", "thank-you", "cart",
	"tag", "category", "archive",
}

// Denylist is an immutable set of path segments. A single Denylist is
// shared by the filter and the classifier so both agree on what counts as
// a meaningful segment.
type Denylist struct {
	set map[string]struct{}
}

// NewDenylist returns the default denylist extended with extra segments.
// Extra segments can only add to the defaults.
func NewDenylist(extra ...string) *Denylist {
	d := &Denylist{set: make(map[string]struct{}, len(defaultSegments)+len(extra))}
	for _, s := range slices.Concat(defaultSegments, extra) {
		d.set[fold(strings.TrimSpace(s))] = struct{}{}
	}
	return d
}

// Contains reports whether seg is denylisted, ignoring case.
func (d *Denylist) Contains(seg string) bool {
	_, ok := d.set[fold(seg)]
	return ok
}

// Excluded reports whether any segment of rawURL's path is denylisted.
// URLs that cannot be parsed are excluded.
func (d *Denylist) Excluded(rawURL string) bool {
	segs, err := PathSegments(rawURL)
	if err != nil {
		return true
	}
	return slices.ContainsFunc(segs, d.Contains)
}

// Filter returns the URLs that are not excluded, preserving their order.
// Duplicates are kept.
func (d *Denylist) Filter(urls []string) []string {
	kept := make([]string, 0, len(urls))
	for _, u := range urls {
		if !d.Excluded(u) {
			kept = append(kept, u)
		}
	}
	return kept
}

// Classify returns the section for rawURL: the first path segment that is
// not denylisted, capitalized. It returns MiscSection when no such
// segment exists or the URL cannot be parsed.
func (d *Denylist) Classify(rawURL string) string {
	segs, err := PathSegments(rawURL)
	if err != nil {
		return MiscSection
	}
	for _, s := range segs {
		if !d.Contains(s) {
			return Capitalize(s)
		}
	}
	return MiscSection
}

// PathSegments splits the path of rawURL after trimming leading and
// trailing slashes and unescapes each segment, so an escaped "%2F" stays
// inside its segment. An empty path yields a single empty segment.
func PathSegments(rawURL string) ([]string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	segs := strings.Split(strings.Trim(u.EscapedPath(), "/"), "/")
	for i, seg := range segs {
		if segs[i], err = url.PathUnescape(seg); err != nil {
			return nil, err
		}
	}
	return segs, nil
}

// fold returns the case-folded form of s. A Caser is not safe for
// concurrent use, so one is built per call.
func fold(s string) string {
	return cases.Fold().String(s)
}
