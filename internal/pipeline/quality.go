package pipeline

import (
	"strings"

	"stonecatalog/internal"
	"stonecatalog/internal/util"
)

const nearDuplicateThreshold = 0.9

// checkNearDuplicates flags product names within one material that differ
// only by a typo or stray punctuation, e.g. "Alpine Grey" and "Alpine Gray".
func checkNearDuplicates(cat *internal.Catalog, report *Report) {
	byMaterial := map[string][]internal.Product{}
	order := []string{}
	for _, p := range cat.Products {
		if _, ok := byMaterial[p.MaterialID]; !ok {
			order = append(order, p.MaterialID)
		}
		byMaterial[p.MaterialID] = append(byMaterial[p.MaterialID], p)
	}

	for _, materialID := range order {
		products := byMaterial[materialID]
		for i := 0; i < len(products); i++ {
			a := strings.ToLower(util.NormalizeText(products[i].Name))
			for j := i + 1; j < len(products); j++ {
				b := strings.ToLower(util.NormalizeText(products[j].Name))
				if a == b {
					continue
				}
				if util.DiceCoefficient(a, b) >= nearDuplicateThreshold {
					report.add(internal.Issue{
						Column: ColProduct,
						Kind:   internal.IssueNearDuplicateProduct,
						Value:  products[i].Name + " | " + products[j].Name,
					})
				}
			}
		}
	}
}
