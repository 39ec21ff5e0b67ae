package normalize

import (
	"strconv"
	"strings"
)

// ParseNumber parses numeric text written in a locale where both the dot
// and the comma can serve as either thousands or decimal separator.
//
// Resolution rules:
//   - both separators present: whichever appears rightmost is the decimal
//     separator, every other occurrence of either is a thousands separator
//   - one separator type occurring more than once: thousands
//   - a single occurrence: decimal if followed by exactly one or two
//     trailing digits, thousands otherwise
//
// Currency tokens (₫, đ, "VND") and whitespace are stripped first.
// Unparsable text yields 0 — upstream extraction noise is expected and the
// tolerance comparison absorbs minor damage downstream.
func ParseNumber(s string) float64 {
	v, _ := ParseNumberOK(s)
	return v
}

// ParseNumberOK is ParseNumber with an explicit verdict: ok is false when
// the text holds no parsable number at all. Callers that must keep a
// stated zero distinct from absent or garbled text use this form.
func ParseNumberOK(s string) (float64, bool) {
	cleaned := stripCurrency(s)
	if cleaned == "" {
		return 0, false
	}

	neg := false
	if cleaned[0] == '-' {
		neg = true
		cleaned = cleaned[1:]
	} else if cleaned[0] == '+' {
		cleaned = cleaned[1:]
	}
	if cleaned == "" {
		return 0, false
	}

	resolved := resolveSeparators(cleaned)

	v, err := strconv.ParseFloat(resolved, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

// stripCurrency removes whitespace and Vietnamese currency markers,
// leaving only digits, separators and a leading sign candidate.
func stripCurrency(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == ',' || r == '-' || r == '+':
			b.WriteRune(r)
		case r == '₫' || r == 'đ' || r == 'Đ':
			// currency marker
		case r == 'v' || r == 'V' || r == 'n' || r == 'N' || r == 'd' || r == 'D':
			// letters of "VND" in any case
		case r == ' ' || r == '\t' || r == ' ':
			// whitespace, including non-breaking spaces from OCR
		default:
			// any other character makes the text unparsable as a number
			return ""
		}
	}
	return b.String()
}

// resolveSeparators rewrites s into plain strconv notation: thousands
// separators removed, the decimal separator (if any) as a dot.
func resolveSeparators(s string) string {
	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')

	switch {
	case lastDot >= 0 && lastComma >= 0:
		decimal := byte('.')
		pos := lastDot
		if lastComma > lastDot {
			decimal = ','
			pos = lastComma
		}
		return rewriteDecimal(s, decimal, pos)

	case lastDot >= 0:
		return resolveSingleType(s, '.', lastDot)

	case lastComma >= 0:
		return resolveSingleType(s, ',', lastComma)
	}
	return s
}

// resolveSingleType handles text containing only one separator type.
func resolveSingleType(s string, sep byte, last int) string {
	if strings.Count(s, string(sep)) > 1 {
		// repeated separator: thousands notation
		return strings.ReplaceAll(s, string(sep), "")
	}
	trailing := len(s) - last - 1
	if trailing == 1 || trailing == 2 {
		return rewriteDecimal(s, sep, last)
	}
	// "1.000" style grouping
	return strings.ReplaceAll(s, string(sep), "")
}

// rewriteDecimal strips every separator except the one at pos, which
// becomes the dot.
func rewriteDecimal(s string, decimal byte, pos int) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '.' || c == ',' {
			if i == pos {
				b.WriteByte('.')
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
