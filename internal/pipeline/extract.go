package pipeline

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"
)

// readXLSXRows returns the cell grid of one worksheet. An empty sheet name
// picks the sheet that looks most like the product library.
func readXLSXRows(content []byte, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrSheetNotFound
	}

	if sheet != "" {
		for _, name := range sheets {
			if strings.EqualFold(name, sheet) {
				return f.GetRows(name)
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}

	var (
		bestRows  [][]string
		bestScore = -1.0
	)
	for _, name := range sheets {
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		if score := LibrarySheetScore(rows); score > bestScore {
			bestRows, bestScore = rows, score
		}
	}
	if bestRows == nil {
		return nil, ErrSheetNotFound
	}
	return bestRows, nil
}

// readHTMLRows reads the first table of a published sheet HTML export.
// Spreadsheet chrome (row numbers, column letters, freeze bars) is dropped and
// colspan cells are padded with blanks so column positions survive.
func readHTMLRows(content []byte) ([][]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: no table in html", ErrSheetNotFound)
	}

	rows := [][]string{}
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.ChildrenFiltered("td,th")
		row := []string{}
		chrome := 0
		cells.Each(func(_ int, cell *goquery.Selection) {
			if isSheetChrome(cell) {
				chrome++
				return
			}
			cell.Find("br").ReplaceWithHtml("\n")
			row = append(row, cell.Text())
			if span, err := strconv.Atoi(cell.AttrOr("colspan", "1")); err == nil {
				for i := 1; i < span; i++ {
					row = append(row, "")
				}
			}
		})
		if len(row) == 0 && chrome > 0 {
			return
		}
		rows = append(rows, row)
	})
	return rows, nil
}

func isSheetChrome(cell *goquery.Selection) bool {
	class := cell.AttrOr("class", "")
	return strings.Contains(class, "headers-background") || strings.Contains(class, "freezebar")
}
