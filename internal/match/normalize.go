package match

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonUpperAlnum = regexp.MustCompile(`[^A-Z0-9 ]+`)
	nonLowerAlnum = regexp.MustCompile(`[^a-z0-9]+`)

	// Legal-entity markers common in Brazilian company names. Matched as
	// whole words against the normalized form.
	entitySuffixes = regexp.MustCompile(
		`(?i)\b(SA|S\.?A\.?|LTDA|EIRELI|ME|EPP|INDUSTRIA|INDUSTRIAL|COMERCIO|COMERCIAL|EMBALAGENS?)\b`)
)

// Normalize uppercases s, replaces every character outside [A-Z0-9 ] with a
// space, and collapses whitespace runs.
func Normalize(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = nonUpperAlnum.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// Canonical normalizes s and strips legal-entity suffix tokens, producing
// the key used for roster and purchase-history matching. If stripping
// empties the string (the name was nothing but suffixes), the trimmed
// original is returned instead. Idempotent.
func Canonical(s string) string {
	cleaned := entitySuffixes.ReplaceAllString(Normalize(s), " ")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return strings.TrimSpace(s)
	}
	return cleaned
}

// Tokens returns the canonical word tokens of s, dropping single-character
// tokens left over from abbreviations like "S A".
func Tokens(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(Canonical(s)) {
		if len(tok) > 1 {
			set[tok] = struct{}{}
		}
	}
	return set
}

// stripMarks removes combining marks after NFKD decomposition, so "Endereço"
// compares equal to "Endereco".
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeHeader canonicalizes a workbook header cell for lookup:
// lowercase, diacritics stripped, punctuation collapsed to single spaces.
func NormalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	s = nonLowerAlnum.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}
