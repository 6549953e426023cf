package sanitizer

import (
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reCollapseSpaces  = regexp.MustCompile(`\s+`)
	reKeepLabelChars  = regexp.MustCompile(`[^0-9\p{L} _-]+`)
	reTrimUnderscores = regexp.MustCompile(`_+`)
)

func trimSpace(s string) string {
	return strings.TrimSpace(s)
}

func lower(s string) string {
	return strings.ToLower(s)
}

func collapseSpaces(s string) string {
	return reCollapseSpaces.ReplaceAllString(s, " ")
}

func collapseUnderscores(s string) string {
	s = reTrimUnderscores.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// SanitizeAddress keeps an address human-readable: trimmed, single-spaced,
// stripped of control and symbol noise.
func SanitizeAddress(input string) string {
	p := Pipeline{
		trimSpace,
		func(s string) string { return reKeepLabelChars.ReplaceAllString(s, "") },
		collapseSpaces,
	}
	return p.Apply(input)
}

// SanitizeAmenity normalizes an amenity tag into a lowercase underscore
// label ("Free  WiFi" -> "free_wifi").
func SanitizeAmenity(input string) string {
	p := Pipeline{
		trimSpace,
		lower,
		func(s string) string { return reKeepLabelChars.ReplaceAllString(s, "") },
		collapseSpaces,
		func(s string) string { return strings.ReplaceAll(s, " ", "_") },
		collapseUnderscores,
	}
	return p.Apply(input)
}

// SanitizeSlice applies a strategy to every element, dropping empties and
// duplicates while preserving first-seen order.
func SanitizeSlice(values []string, strategy Strategy) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, v := range values {
		s := strategy(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}
