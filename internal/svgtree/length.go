package svgtree

import (
	"strconv"
	"strings"
)

// parseLength parses a coordinate/length attribute, resolving a trailing
// "%" against reference (spec.md §4.10, grounded on the reference
// implementation's parse_length).
func parseLength(s string, def, reference float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if strings.HasSuffix(s, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return def
		}
		return pct / 100 * reference
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

func parseFloatAttr(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

func parseFloatList(s string) []float64 {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err == nil {
			out = append(out, v)
		}
	}
	return out
}

// urlID extracts the fragment id from a `url(#id)` reference.
func urlID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "url(#") && strings.HasSuffix(s, ")") {
		return s[5 : len(s)-1], true
	}
	return "", false
}
