package extract

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes to NFD, drops the combining marks, and recomposes.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// CanonicalField reduces a CSV header cell to its canonical lookup form:
// BOM stripped, accents removed, lower-cased, everything but letters and
// digits dropped. "Categoría" and " categoria " both canonicalize to
// "categoria", so files survive the usual header drift.
func CanonicalField(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	if out, _, err := transform.String(stripAccents, s); err == nil {
		s = out
	}
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
