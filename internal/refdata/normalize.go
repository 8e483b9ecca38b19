package refdata

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9\s]`)
)

// Normalize prepares text for fuzzy matching: NFD decomposition with
// combining marks removed (accent stripping), lowercased, every character
// outside [a-z0-9\s] deleted, whitespace runs collapsed to single spaces.
// Locale-independent by construction.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	stripped, _, err := transform.String(stripMarks, text)
	if err != nil {
		stripped = text
	}
	stripped = strings.ToLower(stripped)
	stripped = nonAlnumRe.ReplaceAllString(stripped, "")
	return strings.Join(strings.Fields(stripped), " ")
}

// Contains reports whether haystack contains needle after both are
// normalized. Empty input on either side never matches.
func Contains(haystack, needle string) bool {
	if haystack == "" || needle == "" {
		return false
	}
	return strings.Contains(Normalize(haystack), Normalize(needle))
}
