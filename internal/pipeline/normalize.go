package pipeline

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

func stripDiacritics(s string) string {
	t := norm.NFD.String(s)
	out := make([]rune, 0, len(t))
	for _, r := range t {
		if unicode.IsMark(r) {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// NormalizeName folds an artist name for comparison: lowercase, diacritics
// stripped, surrounding space trimmed.
func NormalizeName(s string) string {
	return strings.TrimSpace(stripDiacritics(strings.ToLower(s)))
}

// NamesMatch is the match test used for identity resolution and artist-group
// disambiguation: normalized equality, or either name containing the other.
// Anything fuzzier than this is out of scope.
func NamesMatch(a, b string) bool {
	na, nb := NormalizeName(a), NormalizeName(b)
	if na == "" || nb == "" {
		return false
	}
	return na == nb || strings.Contains(na, nb) || strings.Contains(nb, na)
}
