package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// accentStripper decomposes characters and drops combining marks, so that
// "Ácido Hialurônico" becomes "Acido Hialuronico" before further folding.
var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldAccents returns text lowercased with diacritics removed.
func foldAccents(text string) string {
	stripped, _, err := transform.String(accentStripper, text)
	if err != nil {
		// Transform only fails on malformed UTF-8; fall back to the input.
		stripped = text
	}
	return strings.ToLower(stripped)
}

// Normalize canonicalizes a product name for direct comparison: lowercase,
// diacritics removed, everything except letters and digits dropped.
// Idempotent.
func Normalize(text string) string {
	folded := foldAccents(text)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeWords canonicalizes a product name while preserving word
// boundaries: lowercase, diacritics removed, punctuation replaced by single
// spaces, whitespace collapsed and trimmed. Idempotent.
func NormalizeWords(text string) string {
	folded := foldAccents(text)

	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, " ")
}

// Tokenize splits a name normalized by NormalizeWords into tokens, discarding
// tokens shorter than two characters.
func Tokenize(normalized string) []string {
	fields := strings.Fields(normalized)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
