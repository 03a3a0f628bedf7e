package catalog

import (
	"testing"

	"stonecatalog/internal"
)

func sampleCatalog() *internal.Catalog {
	coping := internal.ApplicationIndexEntry{ID: "pool-coping--bullnose", CategorySlug: "pool-coping"}
	copingSquare := internal.ApplicationIndexEntry{ID: "pool-coping--square-edge", CategorySlug: "pool-coping"}
	paving := internal.ApplicationIndexEntry{ID: "paving", CategorySlug: "paving"}
	return &internal.Catalog{
		Products: []internal.Product{
			{Slug: "alpha", MaterialID: "granite", ApplicationIndex: []internal.ApplicationIndexEntry{coping, copingSquare}},
			{Slug: "beta", MaterialID: "granite", ApplicationIndex: []internal.ApplicationIndexEntry{paving}},
			{Slug: "harkaway", MaterialID: "bluestone", ApplicationIndex: []internal.ApplicationIndexEntry{coping, paving}},
		},
	}
}

func slugs(products []internal.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Slug)
	}
	return out
}

func TestBuildIndex(t *testing.T) {
	idx := BuildIndex(sampleCatalog())
	if _, ok := idx.BySlug["beta"]; !ok {
		t.Fatal("beta missing")
	}
	if got := len(idx.ByMaterial["granite"]); got != 2 {
		t.Fatalf("granite=%d", got)
	}
	if got := len(idx.ByCategory["pool-coping"]); got != 2 {
		t.Fatalf("pool-coping products=%d, each product should appear once", got)
	}
}

func TestQuery(t *testing.T) {
	idx := BuildIndex(sampleCatalog())
	tests := []struct {
		name        string
		material    string
		application string
		want        []string
	}{
		{"all", "", "", []string{"alpha", "beta", "harkaway"}},
		{"material", "granite", "", []string{"alpha", "beta"}},
		{"application id", "", "pool-coping--bullnose", []string{"alpha", "harkaway"}},
		{"category slug", "granite", "pool-coping", []string{"alpha"}},
		{"both", "bluestone", "paving", []string{"harkaway"}},
		{"unknown", "marble", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slugs(idx.Query(tt.material, tt.application))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v want %v", got, tt.want)
				}
			}
		})
	}
}
