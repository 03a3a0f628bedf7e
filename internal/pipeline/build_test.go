package pipeline

import (
	"errors"
	"testing"

	"stonecatalog/internal"
)

const rowWidth = ColApplicationPhoto + 1

func sheetRow(cells map[int]string) []string {
	row := make([]string, rowWidth)
	for i, v := range cells {
		row[i] = v
	}
	return row
}

func libraryHeader() [][]string {
	return [][]string{
		{"Aushen Product Library"},
		sheetRow(map[int]string{0: "Material", 1: "Product", 2: "Finish", 3: "Slip", 4: "Pool Coping", 6: "Paving", 23: "Photo", 24: "Application Photos"}),
		sheetRow(map[int]string{4: "Bullnose", 5: "Square Edge", 6: "Tiles"}),
	}
}

func withRows(rows ...[]string) [][]string {
	return append(libraryHeader(), rows...)
}

func productBySlug(t *testing.T, cat *internal.Catalog, slug string) internal.Product {
	t.Helper()
	for _, p := range cat.Products {
		if p.Slug == slug {
			return p
		}
	}
	t.Fatalf("product %q not found in %d products", slug, len(cat.Products))
	return internal.Product{}
}

func TestBuildTooFewRows(t *testing.T) {
	_, _, err := Build(libraryHeader(), nil)
	if !errors.Is(err, ErrTooFewRows) {
		t.Fatalf("expected ErrTooFewRows, got %v", err)
	}
}

func TestBuildEndToEnd(t *testing.T) {
	rows := withRows(
		sheetRow(map[int]string{0: "Granite", 1: "Alpha", 2: "Polished", 3: "R10", 4: "600 x 400 x 20"}),
		sheetRow(map[int]string{2: "Honed", 3: "P4", 4: "600x400x20/30"}),
	)
	cat, report, err := Build(rows, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(cat.Products) != 1 || len(cat.Materials) != 1 {
		t.Fatalf("products=%d materials=%d", len(cat.Products), len(cat.Materials))
	}
	p := cat.Products[0]
	if p.ID != "alpha" || p.MaterialID != "granite" || p.MaterialName != "Granite" {
		t.Fatalf("unexpected product %+v", p)
	}
	if len(p.Finishes) != 2 {
		t.Fatalf("finishes=%d", len(p.Finishes))
	}
	if p.Finishes[0].ID != "polished-r10" || p.Finishes[1].ID != "honed-p4" {
		t.Fatalf("finish ids %q %q", p.Finishes[0].ID, p.Finishes[1].ID)
	}
	if len(p.ApplicationIndex) != 1 || len(p.ApplicationIndex[0].Finishes) != 2 {
		t.Fatalf("unexpected application index %+v", p.ApplicationIndex)
	}
	entry := p.ApplicationIndex[0]
	if entry.ID != "pool-coping--bullnose" || entry.Label != "Pool Coping / Bullnose" {
		t.Fatalf("unexpected entry %+v", entry)
	}
	d, ok := entry.Finishes[1].Sizes[0].Dimensions()
	if !ok || !d.Thickness.IsRange || d.Thickness.Min != 20 || d.Thickness.Max != 30 {
		t.Fatalf("unexpected range size %+v ok=%v", d, ok)
	}
	if report.RowsRead != 2 || len(report.Issues) != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestBuildForwardFill(t *testing.T) {
	rows := withRows(
		sheetRow(map[int]string{0: "Granite", 1: "Alpha", 2: "Polished", 3: "R10"}),
		sheetRow(map[int]string{1: "Beta", 2: "Honed", 6: "600 x 600 x 20"}),
		sheetRow(map[int]string{6: "400 x 400 x 20"}),
	)
	cat, _, err := Build(rows, nil)
	if err != nil {
		t.Fatal(err)
	}
	beta := productBySlug(t, cat, "beta")
	if beta.MaterialName != "Granite" {
		t.Fatalf("beta material=%q", beta.MaterialName)
	}
	if len(beta.Finishes) != 1 || beta.Finishes[0].Name != "Honed" || beta.Finishes[0].SlipRating != "R10" {
		t.Fatalf("unexpected finishes %+v", beta.Finishes)
	}
	if got := len(beta.Finishes[0].Applications[0].Sizes); got != 2 {
		t.Fatalf("sizes=%d", got)
	}
}

func TestBuildSlugDisambiguation(t *testing.T) {
	rows := withRows(
		sheetRow(map[int]string{0: "Granite", 1: "Classic", 4: "600 x 400 x 20"}),
		sheetRow(map[int]string{0: "Marble", 1: "Classic", 4: "600 x 400 x 20"}),
	)
	cat, _, err := Build(rows, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(cat.Products) != 2 {
		t.Fatalf("products=%d", len(cat.Products))
	}
	if cat.Products[0].Slug != "classic" || cat.Products[0].MaterialID != "granite" {
		t.Fatalf("first=%+v", cat.Products[0])
	}
	if cat.Products[1].Slug != "classic-2" || cat.Products[1].MaterialID != "marble" {
		t.Fatalf("second=%+v", cat.Products[1])
	}
}

func TestBuildSizeDedup(t *testing.T) {
	rows := withRows(
		sheetRow(map[int]string{0: "Granite", 1: "Alpha", 2: "Honed", 4: "Random (Crazy Paving)"}),
		sheetRow(map[int]string{4: "Random  (Crazy Paving)"}),
		sheetRow(map[int]string{4: "600 x 400 x 20mm"}),
		sheetRow(map[int]string{4: "600 x 400 x 20mm"}),
	)
	cat, report, err := Build(rows, nil)
	if err != nil {
		t.Fatal(err)
	}
	sizes := cat.Products[0].Finishes[0].Applications[0].Sizes
	if len(sizes) != 2 {
		t.Fatalf("sizes=%d", len(sizes))
	}
	if _, ok := sizes[0].Dimensions(); ok {
		t.Fatal("crazy paving should stay unparsed")
	}
	if report.DuplicateSizes != 2 || report.UnparsedSizes != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestBuildMediaMerge(t *testing.T) {
	rows := withRows(
		sheetRow(map[int]string{0: "Granite", 1: "Alpha", 23: "N", 24: "2/5"}),
		sheetRow(map[int]string{23: "Y", 24: "4/5"}),
		sheetRow(map[int]string{23: "N", 24: "3/5"}),
		sheetRow(map[int]string{23: "pending", 24: "soon"}),
	)
	cat, report, err := Build(rows, nil)
	if err != nil {
		t.Fatal(err)
	}
	media := cat.Products[0].Media
	if media == nil || media.ProductPhoto == nil || *media.ProductPhoto != "Y" {
		t.Fatalf("product photo %+v", media)
	}
	if media.ApplicationPhoto == nil || *media.ApplicationPhoto != (internal.PhotoCount{Have: 4, Target: 5}) {
		t.Fatalf("application photo %+v", media.ApplicationPhoto)
	}
	if report.MalformedMedia != 2 {
		t.Fatalf("malformed=%d", report.MalformedMedia)
	}
}

func TestBuildSkipsRowsWithoutContext(t *testing.T) {
	rows := withRows(
		sheetRow(map[int]string{2: "Honed", 4: "600 x 400 x 20"}),
		[]string{},
		sheetRow(map[int]string{0: "Granite", 1: "Alpha", 4: "600 x 400 x 20"}),
	)
	cat, report, err := Build(rows, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(cat.Products) != 1 {
		t.Fatalf("products=%d", len(cat.Products))
	}
	if report.RowsRead != 2 || report.RowsSkipped != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.Issues[0].Row != 4 || report.Issues[0].Kind != internal.IssueSkippedRow {
		t.Fatalf("unexpected issue %+v", report.Issues[0])
	}
}

func TestBuildShortRowsAndUnspecifiedFinish(t *testing.T) {
	rows := withRows([]string{"Travertine", "Roman", "", "", "610 x 406 x 30"})
	cat, _, err := Build(rows, nil)
	if err != nil {
		t.Fatal(err)
	}
	f := cat.Products[0].Finishes[0]
	if f.Name != "Unspecified" || f.ID != "unspecified" || f.SlipRating != "" {
		t.Fatalf("unexpected finish %+v", f)
	}
}

func TestBuildSortsByName(t *testing.T) {
	rows := withRows(
		sheetRow(map[int]string{0: "Marble", 1: "Zeta"}),
		sheetRow(map[int]string{0: "bluestone", 1: "alpha"}),
		sheetRow(map[int]string{0: "Granite", 1: "Beta"}),
	)
	cat, _, err := Build(rows, nil)
	if err != nil {
		t.Fatal(err)
	}
	gotMaterials := []string{cat.Materials[0].Name, cat.Materials[1].Name, cat.Materials[2].Name}
	want := []string{"bluestone", "Granite", "Marble"}
	for i := range want {
		if gotMaterials[i] != want[i] {
			t.Fatalf("materials=%v want %v", gotMaterials, want)
		}
	}
	if cat.Products[0].Name != "alpha" || cat.Products[2].Name != "Zeta" {
		t.Fatalf("unexpected product order %s..%s", cat.Products[0].Name, cat.Products[2].Name)
	}
}

func TestBuildNearDuplicateNames(t *testing.T) {
	rows := withRows(
		sheetRow(map[int]string{0: "Granite", 1: "Alpine Grey Flamed"}),
		sheetRow(map[int]string{1: "Alpine Grey Flamed."}),
		sheetRow(map[int]string{0: "Marble", 1: "Alpine Grey Flame"}),
	)
	_, report, err := Build(rows, nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.NearDuplicates != 1 {
		t.Fatalf("nearDuplicates=%d issues=%+v", report.NearDuplicates, report.Issues)
	}
}

func TestBuildSizeDedupByRawText(t *testing.T) {
	rows := withRows(
		sheetRow(map[int]string{0: "Granite", 1: "Alpha", 2: "Honed", 4: "600x400x20"}),
		sheetRow(map[int]string{4: "600 x 400 x 20"}),
	)
	cat, report, err := Build(rows, nil)
	if err != nil {
		t.Fatal(err)
	}
	sizes := cat.Products[0].Finishes[0].Applications[0].Sizes
	if len(sizes) != 2 {
		t.Fatalf("sizes=%d, differently written cells must both be kept", len(sizes))
	}
	if sizes[0].Raw != "600x400x20" || sizes[1].Raw != "600 x 400 x 20" {
		t.Fatalf("unexpected raw values %q %q", sizes[0].Raw, sizes[1].Raw)
	}
	if report.DuplicateSizes != 0 {
		t.Fatalf("duplicateSizes=%d", report.DuplicateSizes)
	}
}

func TestApplicationIndexCopiesSizes(t *testing.T) {
	rows := withRows(
		sheetRow(map[int]string{0: "Granite", 1: "Alpha", 2: "Honed", 4: "600 x 400 x 20"}),
	)
	cat, _, err := Build(rows, nil)
	if err != nil {
		t.Fatal(err)
	}
	p := cat.Products[0]
	p.Finishes[0].Applications[0].Sizes[0] = internal.UnparsedSize("changed")

	indexed := p.ApplicationIndex[0].Finishes[0].Sizes[0]
	if indexed.Raw != "600 x 400 x 20" {
		t.Fatalf("application index shares the finish size list: %q", indexed.Raw)
	}
}
