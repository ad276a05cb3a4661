// Package attendance assembles attendance reports fetched from the
// backend into local exports.
package attendance

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// removeDiacritics strips diacritical marks (e.g., "Jiří" -> "Jiri").
func removeDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// NormalizeName normalizes a person name for comparison: lowercase, no
// diacritics, dashes folded to spaces.
func NormalizeName(name string) string {
	name = removeDiacritics(name)
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", " ")
	return strings.TrimSpace(name)
}

// NameMatches reports whether the log's user name matches the filter,
// ignoring case, diacritics, and dash/space differences. An empty filter
// matches everything.
func NameMatches(userName, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(NormalizeName(userName), NormalizeName(filter))
}
