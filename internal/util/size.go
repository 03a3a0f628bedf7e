package util

import (
	"regexp"
	"strconv"
	"strings"

	"stonecatalog/internal"
)

var (
	reMMSuffix = regexp.MustCompile(`(?i)mm$`)
	// Any ASCII letter except the x separator, or a parenthesis.
	reAnnotation = regexp.MustCompile(`[a-wyzA-WYZ()]`)
	reSizeRange  = regexp.MustCompile(`(?i)^(\d+)\s*[x×]\s*(\d+)\s*[x×]\s*(\d+)\s*/\s*(\d+)$`)
	reSizeSimple = regexp.MustCompile(`(?i)^(\d+)\s*[x×]\s*(\d+)\s*[x×]\s*(\d+)(?:\s*[x×]\s*(\d+))?$`)
)

// ParseSize interprets a free-text size cell. It never fails: anything that is
// not a plain LxWxT[xH] or LxWxT/T2 value comes back unparsed with its
// normalized text.
func ParseSize(raw string) internal.Size {
	normalized := NormalizeText(raw)
	stripped := strings.TrimSpace(reMMSuffix.ReplaceAllString(normalized, ""))

	if reAnnotation.MatchString(stripped) || strings.Contains(stripped, "-") {
		return internal.UnparsedSize(normalized)
	}

	if m := reSizeRange.FindStringSubmatch(stripped); m != nil {
		nums, ok := atoiAll(m[1:5])
		if !ok {
			return internal.UnparsedSize(normalized)
		}
		return internal.ParsedSize(normalized, internal.Dimensions{
			LengthMm:  nums[0],
			WidthMm:   nums[1],
			Thickness: internal.RangeThickness(nums[2], nums[3]),
		})
	}

	if m := reSizeSimple.FindStringSubmatch(stripped); m != nil {
		nums, ok := atoiAll(m[1:4])
		if !ok {
			return internal.UnparsedSize(normalized)
		}
		d := internal.Dimensions{
			LengthMm:  nums[0],
			WidthMm:   nums[1],
			Thickness: internal.SingleThickness(nums[2]),
		}
		if m[4] != "" {
			h, err := strconv.Atoi(m[4])
			if err != nil {
				return internal.UnparsedSize(normalized)
			}
			d.HeightMm = IntPtr(h)
		}
		return internal.ParsedSize(normalized, d)
	}

	return internal.UnparsedSize(normalized)
}

func atoiAll(values []string) ([]int, bool) {
	out := make([]int, 0, len(values))
	for _, v := range values {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}
