package segment

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Capitalize upper-cases the first rune of s and lower-cases the rest,
// so "getting-started" becomes "Getting-started" and "API" becomes "Api".
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(cases.Upper(language.Und).String(s[:size]))
	b.WriteString(cases.Lower(language.Und).String(s[size:]))
	return b.String()
}
