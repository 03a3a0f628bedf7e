package catalog

import "stonecatalog/internal"

type Index struct {
	Products      []internal.Product
	BySlug        map[string]internal.Product
	ByMaterial    map[string][]internal.Product
	ByApplication map[string][]internal.Product
	ByCategory    map[string][]internal.Product
}

// BuildIndex keys every product by slug, material id, application id and
// category slug. Slices keep catalog order.
func BuildIndex(cat *internal.Catalog) *Index {
	idx := &Index{
		Products:      cat.Products,
		BySlug:        map[string]internal.Product{},
		ByMaterial:    map[string][]internal.Product{},
		ByApplication: map[string][]internal.Product{},
		ByCategory:    map[string][]internal.Product{},
	}

	for _, p := range cat.Products {
		idx.BySlug[p.Slug] = p
		idx.ByMaterial[p.MaterialID] = append(idx.ByMaterial[p.MaterialID], p)

		seenCategory := map[string]struct{}{}
		for _, entry := range p.ApplicationIndex {
			idx.ByApplication[entry.ID] = append(idx.ByApplication[entry.ID], p)
			if _, ok := seenCategory[entry.CategorySlug]; ok {
				continue
			}
			seenCategory[entry.CategorySlug] = struct{}{}
			idx.ByCategory[entry.CategorySlug] = append(idx.ByCategory[entry.CategorySlug], p)
		}
	}

	return idx
}

// Query returns products matching every non-empty filter. application matches
// an application id or, failing that, a category slug.
func (idx *Index) Query(material, application string) []internal.Product {
	candidates := idx.Products
	if material != "" {
		candidates = idx.ByMaterial[material]
	}
	if application == "" {
		return candidates
	}

	matches, ok := idx.ByApplication[application]
	if !ok {
		matches = idx.ByCategory[application]
	}
	allowed := make(map[string]struct{}, len(matches))
	for _, p := range matches {
		allowed[p.Slug] = struct{}{}
	}

	out := make([]internal.Product, 0, len(candidates))
	for _, p := range candidates {
		if _, ok := allowed[p.Slug]; ok {
			out = append(out, p)
		}
	}
	return out
}
