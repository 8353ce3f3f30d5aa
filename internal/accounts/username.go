package accounts

import "strings"

// translit maps accented Latin characters to their unaccented ASCII
// equivalents. The table is fixed; input is lowercased before lookup, so
// only lowercase forms appear here.
var translit = map[rune]rune{
	'à': 'a', 'á': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a', 'å': 'a', 'æ': 'a',
	'ç': 'c',
	'è': 'e', 'é': 'e', 'ê': 'e', 'ë': 'e',
	'ì': 'i', 'í': 'i', 'î': 'i', 'ï': 'i',
	'ð': 'd',
	'ñ': 'n',
	'ò': 'o', 'ó': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o', 'ø': 'o',
	'ù': 'u', 'ú': 'u', 'û': 'u', 'ü': 'u',
	'ý': 'y', 'ÿ': 'y', 'þ': 'y',
	'ß': 's',
	'ŕ': 'r',
}

// Normalize canonicalizes a display name into a URL-safe username candidate:
// the input is lowercased, accented characters are transliterated through the
// fixed table, and whitespace is dropped. Any other character outside
// [a-z0-9] passes through unchanged; stripping them is deliberately NOT done
// here, matching the allocation policy this service has always had.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	for _, r := range strings.ToLower(raw) {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			// dropped
		default:
			if mapped, ok := translit[r]; ok {
				r = mapped
			}
			b.WriteRune(r)
		}
	}

	return b.String()
}
