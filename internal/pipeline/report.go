package pipeline

import (
	"stonecatalog/internal"
	"stonecatalog/internal/logger"
)

// Report counts the tolerated problems of one run. Nothing in it is fatal.
type Report struct {
	RowsRead       int
	RowsSkipped    int
	UnparsedSizes  int
	DuplicateSizes int
	MalformedMedia int
	NearDuplicates int
	UnknownSlugs   int
	Issues         []internal.Issue
}

func (r *Report) add(issue internal.Issue) {
	switch issue.Kind {
	case internal.IssueSkippedRow:
		r.RowsSkipped++
	case internal.IssueUnparsedSize:
		r.UnparsedSizes++
	case internal.IssueDuplicateSize:
		r.DuplicateSizes++
	case internal.IssueMalformedMedia:
		r.MalformedMedia++
	case internal.IssueNearDuplicateProduct:
		r.NearDuplicates++
	case internal.IssueUnknownOverride:
		r.UnknownSlugs++
	}
	r.Issues = append(r.Issues, issue)
}

func (r *Report) Counts() map[string]int {
	counts := map[string]int{
		"rowsRead":       r.RowsRead,
		"rowsSkipped":    r.RowsSkipped,
		"unparsedSizes":  r.UnparsedSizes,
		"duplicateSizes": r.DuplicateSizes,
		"malformedMedia": r.MalformedMedia,
		"nearDuplicates": r.NearDuplicates,
		"unknownSlugs":   r.UnknownSlugs,
		"issues":         len(r.Issues),
	}
	return counts
}

// Log writes one warning per issue and a summary line.
func (r *Report) Log(log *logger.Logger) {
	for _, issue := range r.Issues {
		log.Warn("data quality issue", "kind", issue.Kind, "row", issue.Row, "column", issue.Column, "value", issue.Value)
	}
	log.Info("data quality summary",
		"rowsRead", r.RowsRead,
		"rowsSkipped", r.RowsSkipped,
		"unparsedSizes", r.UnparsedSizes,
		"duplicateSizes", r.DuplicateSizes,
		"malformedMedia", r.MalformedMedia,
		"nearDuplicates", r.NearDuplicates,
		"unknownSlugs", r.UnknownSlugs,
		"issues", len(r.Issues),
	)
}
