package pipeline

import (
	"strings"

	"stonecatalog/internal/util"
)

var libraryKeywords = []string{"material", "product", "finish", "slip", "photo"}

// LibrarySheetScore rates how much the top rows of a sheet look like the
// product library header, from 0 to 1.
func LibrarySheetScore(rows [][]string) float64 {
	if len(rows) < MinRows {
		return 0
	}

	limit := HeaderRows + 2
	if limit > len(rows) {
		limit = len(rows)
	}
	var text strings.Builder
	for _, row := range rows[:limit] {
		for _, cell := range row {
			text.WriteString(strings.ToLower(util.NormalizeText(cell)))
			text.WriteByte(' ')
		}
	}
	header := text.String()

	score := 0.0
	for _, kw := range libraryKeywords {
		if strings.Contains(header, kw) {
			score += 0.15
		}
	}

	wide := 0
	for _, row := range rows[HeaderRows:] {
		if len(row) > FirstApplicationCol {
			wide++
		}
	}
	if wide*2 >= len(rows)-HeaderRows {
		score += 0.25
	}

	if score > 1 {
		score = 1
	}
	return score
}
