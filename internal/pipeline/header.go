package pipeline

import (
	"stonecatalog/internal"
	"stonecatalog/internal/util"
)

// Fixed column layout of the product library sheet.
const (
	ColMaterial         = 0
	ColProduct          = 1
	ColFinish           = 2
	ColSlipRating       = 3
	FirstApplicationCol = 4
	LastApplicationCol  = 22
	ColProductPhoto     = 23
	ColApplicationPhoto = 24

	ApplicationColumnCount = LastApplicationCol - FirstApplicationCol + 1

	// Banner row plus the two header rows.
	HeaderRows = 3
	MinRows    = HeaderRows + 1
)

// ResolveApplicationColumns rebuilds the merged category/subtype header of the
// application block. header1 carries a category on the first column of its
// span only; blank cells inherit the category to their left within the
// block. When a column has no category at all, its header2 value becomes the
// category.
func ResolveApplicationColumns(header1, header2 []string) []internal.ApplicationColumn {
	columns := make([]internal.ApplicationColumn, 0, ApplicationColumnCount)
	group := ""
	for i := FirstApplicationCol; i <= LastApplicationCol; i++ {
		if v := util.NormalizeText(util.Cell(header1, i)); v != "" {
			group = v
		}
		second := util.NormalizeText(util.Cell(header2, i))

		category, subtype := group, second
		if category == "" {
			category, subtype = second, ""
		}
		columns = append(columns, newApplicationColumn(i, category, subtype))
	}
	return columns
}

func newApplicationColumn(index int, category, subtype string) internal.ApplicationColumn {
	col := internal.ApplicationColumn{
		Index:        index,
		Category:     category,
		CategorySlug: util.Slugify(category),
		Label:        category,
		ID:           util.Slugify(category),
	}
	if subtype != "" {
		col.Subtype = subtype
		col.SubtypeSlug = util.Slugify(subtype)
		col.Label = category + " / " + subtype
		if col.SubtypeSlug != "" {
			col.ID = col.CategorySlug + "--" + col.SubtypeSlug
		}
	}
	return col
}

// buildCategoryRegistry collects every distinct category and its subtypes in
// first-seen order, independent of which products use them.
func buildCategoryRegistry(columns []internal.ApplicationColumn) *categoryRegistry {
	reg := &categoryRegistry{bySlug: map[string]*categoryDraft{}}
	for _, col := range columns {
		if col.Category == "" {
			continue
		}
		cat, ok := reg.bySlug[col.CategorySlug]
		if !ok {
			cat = &categoryDraft{name: col.Category, slug: col.CategorySlug, subtypes: map[string]string{}}
			reg.bySlug[col.CategorySlug] = cat
			reg.order = append(reg.order, col.CategorySlug)
		}
		if col.Subtype != "" && col.SubtypeSlug != "" {
			if _, seen := cat.subtypes[col.SubtypeSlug]; !seen {
				cat.subtypeOrder = append(cat.subtypeOrder, col.SubtypeSlug)
			}
			cat.subtypes[col.SubtypeSlug] = col.Subtype
		}
	}
	return reg
}

type categoryDraft struct {
	name         string
	slug         string
	subtypes     map[string]string
	subtypeOrder []string
}

type categoryRegistry struct {
	bySlug map[string]*categoryDraft
	order  []string
}
