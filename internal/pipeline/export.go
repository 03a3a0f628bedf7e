package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"stonecatalog/internal"
)

var productSheetHeaders = []string{
	"product_id", "product_name", "material", "finish_id", "finish", "slip_rating",
	"application_id", "application", "size_raw", "length_mm", "width_mm", "thickness_mm", "height_mm",
	"product_photo", "application_photo",
}

var issueSheetHeaders = []string{"row", "column", "kind", "value"}

// ExportCatalogToXLSX writes a review workbook: one row per product, finish,
// application and size on "Products", the data-quality issues on "Issues".
func ExportCatalogToXLSX(cat *internal.Catalog, report *Report, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	const products, issues = "Products", "Issues"
	if err := f.SetSheetName(f.GetSheetName(0), products); err != nil {
		return err
	}
	if _, err := f.NewSheet(issues); err != nil {
		return err
	}

	writeRow(f, products, 1, toAny(productSheetHeaders))
	r := 2
	for _, p := range cat.Products {
		productPhoto, appPhoto := mediaCells(p.Media)
		for _, finish := range p.Finishes {
			for _, app := range finish.Applications {
				for _, size := range app.Sizes {
					length, width, thickness, height := sizeCells(size)
					writeRow(f, products, r, []any{
						p.ID, p.Name, p.MaterialName, finish.ID, finish.Name, finish.SlipRating,
						app.ID, app.Label, size.Raw, length, width, thickness, height,
						productPhoto, appPhoto,
					})
					r++
				}
			}
		}
	}

	writeRow(f, issues, 1, toAny(issueSheetHeaders))
	if report != nil {
		for i, issue := range report.Issues {
			writeRow(f, issues, i+2, []any{issue.Row, issue.Column, string(issue.Kind), issue.Value})
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func sizeCells(size internal.Size) (length, width, thickness, height any) {
	d, ok := size.Dimensions()
	if !ok {
		return "", "", "", ""
	}
	return d.LengthMm, d.WidthMm, d.Thickness.String(), derefInt(d.HeightMm)
}

func mediaCells(m *internal.MediaStatus) (productPhoto, appPhoto string) {
	if m == nil {
		return "", ""
	}
	if m.ProductPhoto != nil {
		productPhoto = *m.ProductPhoto
	}
	if m.ApplicationPhoto != nil {
		appPhoto = fmt.Sprintf("%d/%d", m.ApplicationPhoto.Have, m.ApplicationPhoto.Target)
	}
	return productPhoto, appPhoto
}

func derefInt(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}
