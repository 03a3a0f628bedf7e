package util

import (
	"regexp"
	"strings"
	"unicode"
)

var reNonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// NormalizeText collapses every whitespace run, NBSP included, to a single
// space and trims both ends.
func NormalizeText(input string) string {
	return strings.Join(strings.FieldsFunc(input, isSpace), " ")
}

func IsBlank(input string) bool {
	return strings.IndexFunc(input, func(r rune) bool { return !isSpace(r) }) < 0
}

// Slugify derives a lowercase hyphenated identifier. Slugify(Slugify(s)) ==
// Slugify(s) for any s.
func Slugify(input string) string {
	s := strings.ToLower(NormalizeText(input))
	s = strings.ReplaceAll(s, "&", "and")
	s = reNonSlug.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func DiceCoefficient(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	pairs := func(s string) []string {
		r := []rune(s)
		if len(r) < 2 {
			return nil
		}
		out := make([]string, 0, len(r)-1)
		for i := 0; i < len(r)-1; i++ {
			out = append(out, string(r[i:i+2]))
		}
		return out
	}

	aPairs := pairs(a)
	bPairs := pairs(b)
	if len(aPairs) == 0 || len(bPairs) == 0 {
		return 0
	}

	bCount := map[string]int{}
	for _, p := range bPairs {
		bCount[p]++
	}
	inter := 0
	for _, p := range aPairs {
		if bCount[p] > 0 {
			inter++
			bCount[p]--
		}
	}

	return float64(2*inter) / float64(len(aPairs)+len(bPairs))
}

func StringPtr(v string) *string { return &v }

func IntPtr(v int) *int { return &v }

// Cell returns row[idx] or "" when the row is too short.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
