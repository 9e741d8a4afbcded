package selectbox

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize prepares a text for accent- and case-insensitive matching: it
// strips combining marks after canonical decomposition, folds the case and
// trims surrounding spaces. "  Panamá " and "PANAMA" normalize to the same
// string.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(strings.TrimSpace(stripped))
}

// FilterOptions returns the options whose text contains filter, compared
// after Normalize. The order of opts is kept. An empty filter matches
// everything.
func FilterOptions(opts []Option, filter string) []Option {
	filter = Normalize(filter)
	if filter == "" {
		return opts
	}
	var matched []Option
	for _, opt := range opts {
		if strings.Contains(Normalize(opt.Text), filter) {
			matched = append(matched, opt)
		}
	}
	return matched
}
