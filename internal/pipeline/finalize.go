package pipeline

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"stonecatalog/internal"
	"stonecatalog/internal/util"
)

// finalize flattens the draft tree into the output catalog. Materials,
// products, categories and subtypes are sorted by display name; finishes and
// applications keep first-seen order.
func finalize(agg *aggregator, registry *categoryRegistry) *internal.Catalog {
	byName := newNameOrder()

	materials := make([]internal.Material, 0, len(agg.materialOrder))
	for _, name := range agg.materialOrder {
		slug := agg.materialSlugs[name]
		materials = append(materials, internal.Material{ID: slug, Name: name, Slug: slug})
	}
	sort.SliceStable(materials, func(i, j int) bool { return byName.less(materials[i].Name, materials[j].Name) })

	products := make([]internal.Product, 0, len(agg.productOrder))
	for _, key := range agg.productOrder {
		products = append(products, finalizeProduct(agg.products[key]))
	}
	sort.SliceStable(products, func(i, j int) bool { return byName.less(products[i].Name, products[j].Name) })

	categories := internal.ProductCategories{
		Materials:    make([]internal.NamedSlug, 0, len(materials)),
		Applications: make([]internal.ProductCategory, 0, len(registry.order)),
	}
	for _, m := range materials {
		categories.Materials = append(categories.Materials, internal.NamedSlug{Name: m.Name, Slug: m.Slug})
	}
	for _, slug := range registry.order {
		draft := registry.bySlug[slug]
		cat := internal.ProductCategory{Name: draft.name, Slug: draft.slug}
		for _, subSlug := range draft.subtypeOrder {
			cat.Subtypes = append(cat.Subtypes, internal.NamedSlug{Name: draft.subtypes[subSlug], Slug: subSlug})
		}
		sort.SliceStable(cat.Subtypes, func(i, j int) bool { return byName.less(cat.Subtypes[i].Name, cat.Subtypes[j].Name) })
		categories.Applications = append(categories.Applications, cat)
	}
	sort.SliceStable(categories.Applications, func(i, j int) bool {
		return byName.less(categories.Applications[i].Name, categories.Applications[j].Name)
	})

	return &internal.Catalog{Materials: materials, Products: products, Categories: categories}
}

func finalizeProduct(draft *productDraft) internal.Product {
	finishes := make([]internal.Finish, 0, len(draft.finishOrder))
	for _, key := range draft.finishOrder {
		f := draft.finishes[key]
		finish := internal.Finish{
			ID:           finishID(f.name, f.slip),
			Name:         f.name,
			SlipRating:   f.slip,
			Applications: make([]internal.Application, 0, len(f.order)),
		}
		for _, appID := range f.order {
			app := f.applications[appID]
			finish.Applications = append(finish.Applications, internal.Application{
				ID:           app.column.ID,
				Label:        app.column.Label,
				Category:     app.column.Category,
				CategorySlug: app.column.CategorySlug,
				Subtype:      app.column.Subtype,
				SubtypeSlug:  app.column.SubtypeSlug,
				Sizes:        append([]internal.Size(nil), app.sizes...),
			})
		}
		finishes = append(finishes, finish)
	}

	return internal.Product{
		ID:               draft.slug,
		Name:             draft.name,
		Slug:             draft.slug,
		MaterialID:       draft.materialID,
		MaterialName:     draft.materialName,
		Finishes:         finishes,
		ApplicationIndex: buildApplicationIndex(finishes),
		Media:            draft.media,
	}
}

func finishID(name, slip string) string {
	base := util.Slugify(name)
	if base == "" {
		base = "finish"
	}
	if slipSlug := util.Slugify(slip); slipSlug != "" {
		return base + "-" + slipSlug
	}
	return base
}

// buildApplicationIndex inverts finish -> application into application ->
// finishes, each finish carrying its own copy of the size list.
func buildApplicationIndex(finishes []internal.Finish) []internal.ApplicationIndexEntry {
	entries := map[string]*internal.ApplicationIndexEntry{}
	order := []string{}
	for _, finish := range finishes {
		for _, app := range finish.Applications {
			entry, ok := entries[app.ID]
			if !ok {
				entry = &internal.ApplicationIndexEntry{
					ID:           app.ID,
					Label:        app.Label,
					Category:     app.Category,
					CategorySlug: app.CategorySlug,
					Subtype:      app.Subtype,
					SubtypeSlug:  app.SubtypeSlug,
				}
				entries[app.ID] = entry
				order = append(order, app.ID)
			}
			entry.Finishes = append(entry.Finishes, internal.ApplicationFinish{
				ID:         finish.ID,
				Name:       finish.Name,
				SlipRating: finish.SlipRating,
				Sizes:      append([]internal.Size(nil), app.Sizes...),
			})
		}
	}

	out := make([]internal.ApplicationIndexEntry, 0, len(order))
	for _, id := range order {
		out = append(out, *entries[id])
	}
	return out
}

type nameOrder struct {
	collator *collate.Collator
}

func newNameOrder() nameOrder {
	return nameOrder{collator: collate.New(language.English)}
}

func (o nameOrder) less(a, b string) bool {
	return o.collator.CompareString(a, b) < 0
}
