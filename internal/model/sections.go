package model

import (
	"maps"
	"slices"
)

// Entry is one bullet of an llms.txt section.
type Entry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Sections groups entries by section name. Entries keep the order they
// were added in; names are reported in ascending order.
// The zero value is ready to use.
type Sections struct {
	entries map[string][]Entry
}

// Add appends e to the named section, creating it if needed.
func (s *Sections) Add(name string, e Entry) {
	if s.entries == nil {
		s.entries = make(map[string][]Entry)
	}
	s.entries[name] = append(s.entries[name], e)
}

// Names returns the section names sorted lexicographically.
func (s *Sections) Names() []string {
	return slices.Sorted(maps.Keys(s.entries))
}

// Entries returns the entries of the named section in insertion order.
func (s *Sections) Entries(name string) []Entry {
	return slices.Clone(s.entries[name])
}

// Len returns the total number of entries over all sections.
func (s *Sections) Len() int {
	n := 0
	for _, es := range s.entries {
		n += len(es)
	}
	return n
}
