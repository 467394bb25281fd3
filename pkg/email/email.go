// Package email converts between person names and the dot-joined mailbox
// names used by generated identities.
package email

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Compose builds "first.last@domain" from a name. Parts are lower-cased,
// diacritics are folded (José -> jose) and anything that is not a letter or
// digit is dropped, so the result always fits a plain ASCII mailbox pattern.
func Compose(first, last, domain string) string {
	return LocalPart(first, last) + "@" + strings.ToLower(domain)
}

// LocalPart returns the "first.last" mailbox name for a person.
func LocalPart(first, last string) string {
	return foldPart(first) + "." + foldPart(last)
}

func foldPart(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MatchesName reports whether address was composed from first and last.
func MatchesName(address, first, last string) bool {
	at := strings.LastIndexByte(address, '@')
	if at <= 0 {
		return false
	}
	return strings.EqualFold(address[:at], LocalPart(first, last))
}
