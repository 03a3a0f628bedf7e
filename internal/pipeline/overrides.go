package pipeline

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"stonecatalog/internal"
)

// ProductOverride is hand-maintained storefront copy keyed by product slug.
type ProductOverride struct {
	ToneTags    []string `yaml:"toneTags"`
	Description string   `yaml:"description"`
	ImageURL    string   `yaml:"imageUrl"`
}

func LoadOverrides(path string) (map[string]ProductOverride, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out := map[string]ProductOverride{}
	if err := yaml.Unmarshal(blob, &out); err != nil {
		return nil, fmt.Errorf("parse overrides %s: %w", path, err)
	}
	return out, nil
}

// ValidateOverrides reports override slugs that no generated product carries,
// usually a product that was renamed in the sheet.
func ValidateOverrides(overrides map[string]ProductOverride, cat *internal.Catalog, report *Report) {
	known := make(map[string]struct{}, len(cat.Products))
	for _, p := range cat.Products {
		known[p.Slug] = struct{}{}
	}

	slugs := make([]string, 0, len(overrides))
	for slug := range overrides {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	for _, slug := range slugs {
		if _, ok := known[slug]; !ok {
			report.add(internal.Issue{Kind: internal.IssueUnknownOverride, Value: slug})
		}
	}
}
