package pipeline

import (
	"strconv"
	"strings"

	"stonecatalog/internal"
	"stonecatalog/internal/util"
)

const unspecifiedFinish = "Unspecified"

// fillState is the forward-fill context: a blank material, product, finish or
// slip cell inherits the last non-blank value seen above it.
type fillState struct {
	material string
	product  string
	finish   string
	slip     string
}

func (s fillState) advance(row []string) fillState {
	if v := util.NormalizeText(util.Cell(row, ColMaterial)); v != "" {
		s.material = v
	}
	if v := util.NormalizeText(util.Cell(row, ColProduct)); v != "" {
		s.product = v
	}
	if v := util.NormalizeText(util.Cell(row, ColFinish)); v != "" {
		s.finish = v
	}
	if v := util.NormalizeText(util.Cell(row, ColSlipRating)); v != "" {
		s.slip = v
	}
	return s
}

func (s fillState) ready() bool {
	return s.material != "" && s.product != ""
}

type applicationDraft struct {
	column internal.ApplicationColumn
	sizes  []internal.Size
	seen   map[string]struct{}
}

type finishDraft struct {
	name         string
	slip         string
	applications map[string]*applicationDraft
	order        []string
}

type productDraft struct {
	slug         string
	name         string
	materialID   string
	materialName string
	finishes     map[string]*finishDraft
	finishOrder  []string
	media        *internal.MediaStatus
}

type aggregator struct {
	columns []internal.ApplicationColumn

	materialSlugs map[string]string
	materialOrder []string

	products     map[string]*productDraft
	productOrder []string
	slugCounts   map[string]int
	slugsTaken   map[string]struct{}

	report *Report
}

func newAggregator(columns []internal.ApplicationColumn, report *Report) *aggregator {
	return &aggregator{
		columns:       columns,
		materialSlugs: map[string]string{},
		products:      map[string]*productDraft{},
		slugCounts:    map[string]int{},
		slugsTaken:    map[string]struct{}{},
		report:        report,
	}
}

// addRow folds one data row into the draft tree. rowNo is the 1-based sheet
// row used for issue reporting.
func (a *aggregator) addRow(rowNo int, row []string, state fillState) {
	materialID := a.material(state.material)
	product := a.product(state, materialID)
	a.mergeMedia(rowNo, product, row)

	finish := product.finish(state.finish, state.slip)
	for _, col := range a.columns {
		cell := util.Cell(row, col.Index)
		if util.IsBlank(cell) || col.Category == "" {
			continue
		}
		app := finish.application(col)
		size := util.ParseSize(cell)
		if _, dup := app.seen[size.Raw]; dup {
			a.report.add(internal.Issue{Row: rowNo, Column: col.Index, Kind: internal.IssueDuplicateSize, Value: size.Raw})
			continue
		}
		if _, ok := size.Dimensions(); !ok {
			a.report.add(internal.Issue{Row: rowNo, Column: col.Index, Kind: internal.IssueUnparsedSize, Value: size.Raw})
		}
		app.seen[size.Raw] = struct{}{}
		app.sizes = append(app.sizes, size)
	}
}

func (a *aggregator) material(name string) string {
	if slug, ok := a.materialSlugs[name]; ok {
		return slug
	}
	slug := util.Slugify(name)
	a.materialSlugs[name] = slug
	a.materialOrder = append(a.materialOrder, name)
	return slug
}

func (a *aggregator) product(state fillState, materialID string) *productDraft {
	key := state.material + "::" + state.product
	if p, ok := a.products[key]; ok {
		return p
	}
	slug := a.uniqueSlug(util.Slugify(state.product))
	p := &productDraft{
		slug:         slug,
		name:         state.product,
		materialID:   materialID,
		materialName: state.material,
		finishes:     map[string]*finishDraft{},
	}
	a.products[key] = p
	a.productOrder = append(a.productOrder, key)
	return p
}

// uniqueSlug hands out base, base-2, base-3, ... in first-seen order, skipping
// any candidate another product already holds.
func (a *aggregator) uniqueSlug(base string) string {
	n := a.slugCounts[base] + 1
	candidate := base
	if n > 1 {
		candidate = base + "-" + strconv.Itoa(n)
	}
	for {
		if _, taken := a.slugsTaken[candidate]; !taken {
			break
		}
		n++
		candidate = base + "-" + strconv.Itoa(n)
	}
	a.slugCounts[base] = n
	a.slugsTaken[candidate] = struct{}{}
	return candidate
}

func (a *aggregator) mergeMedia(rowNo int, p *productDraft, row []string) {
	if photo := strings.TrimSpace(util.Cell(row, ColProductPhoto)); photo != "" {
		if p.media == nil {
			p.media = &internal.MediaStatus{}
		}
		if photo != "Y" && photo != "N" {
			a.report.add(internal.Issue{Row: rowNo, Column: ColProductPhoto, Kind: internal.IssueMalformedMedia, Value: photo})
		}
		p.media.ProductPhoto = util.MergeProductPhoto(p.media.ProductPhoto, photo)
	}
	if count := strings.TrimSpace(util.Cell(row, ColApplicationPhoto)); count != "" {
		if p.media == nil {
			p.media = &internal.MediaStatus{}
		}
		merged, ok := util.MergeApplicationPhoto(p.media.ApplicationPhoto, count)
		if !ok {
			a.report.add(internal.Issue{Row: rowNo, Column: ColApplicationPhoto, Kind: internal.IssueMalformedMedia, Value: count})
		}
		p.media.ApplicationPhoto = merged
	}
}

func (p *productDraft) finish(name, slip string) *finishDraft {
	key := name + "||" + slip
	if f, ok := p.finishes[key]; ok {
		return f
	}
	if name == "" {
		name = unspecifiedFinish
	}
	f := &finishDraft{name: name, slip: slip, applications: map[string]*applicationDraft{}}
	p.finishes[key] = f
	p.finishOrder = append(p.finishOrder, key)
	return f
}

func (f *finishDraft) application(col internal.ApplicationColumn) *applicationDraft {
	if app, ok := f.applications[col.ID]; ok {
		return app
	}
	app := &applicationDraft{column: col, seen: map[string]struct{}{}}
	f.applications[col.ID] = app
	f.order = append(f.order, col.ID)
	return app
}
