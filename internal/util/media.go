package util

import (
	"regexp"
	"strconv"

	"stonecatalog/internal"
)

var rePhotoCount = regexp.MustCompile(`(\d+)\s*/\s*(\d+)`)

// ParsePhotoCount reads a "have/target" pair anywhere in the cell, e.g.
// "3/5" or "3 / 5 done".
func ParsePhotoCount(input string) (internal.PhotoCount, bool) {
	m := rePhotoCount.FindStringSubmatch(input)
	if m == nil {
		return internal.PhotoCount{}, false
	}
	have, err := strconv.Atoi(m[1])
	if err != nil {
		return internal.PhotoCount{}, false
	}
	target, err := strconv.Atoi(m[2])
	if err != nil {
		return internal.PhotoCount{}, false
	}
	return internal.PhotoCount{Have: have, Target: target}, true
}

// MergeProductPhoto folds one product-photo cell into the known status. "Y"
// is sticky; anything other than "Y" or "N" leaves the status unchanged.
func MergeProductPhoto(existing *string, next string) *string {
	switch {
	case next == "":
		return existing
	case next == "Y":
		return StringPtr("Y")
	case existing != nil && *existing == "Y":
		return existing
	case next == "N":
		return StringPtr("N")
	default:
		return existing
	}
}

// MergeApplicationPhoto keeps the most complete observation: larger target
// wins, ties go to the larger have. ok is false when next is not a count.
func MergeApplicationPhoto(existing *internal.PhotoCount, next string) (merged *internal.PhotoCount, ok bool) {
	if next == "" {
		return existing, true
	}
	parsed, ok := ParsePhotoCount(next)
	if !ok {
		return existing, false
	}
	if existing == nil {
		return &parsed, true
	}
	if parsed.Target > existing.Target {
		return &parsed, true
	}
	if parsed.Target == existing.Target && parsed.Have > existing.Have {
		return &parsed, true
	}
	return existing, true
}
