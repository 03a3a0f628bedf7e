package internal

import (
	"encoding/json"
	"fmt"
)

const SizeUnit = "mm"

// Thickness is either a single value or a min/max pair written as "20/30" in
// the sheet.
type Thickness struct {
	Min     int
	Max     int
	IsRange bool
}

func SingleThickness(v int) Thickness { return Thickness{Min: v, Max: v} }

func RangeThickness(min, max int) Thickness {
	return Thickness{Min: min, Max: max, IsRange: true}
}

func (t Thickness) MarshalJSON() ([]byte, error) {
	if t.IsRange {
		return json.Marshal([2]int{t.Min, t.Max})
	}
	return json.Marshal(t.Min)
}

func (t *Thickness) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err == nil {
		*t = RangeThickness(pair[0], pair[1])
		return nil
	}
	var single int
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("thickness: %w", err)
	}
	*t = SingleThickness(single)
	return nil
}

func (t Thickness) String() string {
	if t.IsRange {
		return fmt.Sprintf("%d/%d", t.Min, t.Max)
	}
	return fmt.Sprintf("%d", t.Min)
}

type Dimensions struct {
	LengthMm  int
	WidthMm   int
	Thickness Thickness
	HeightMm  *int
}

// Size is a parsed or unparsed size cell. Raw is always the normalized cell
// text; dimensions are only present when the cell matched a known pattern.
type Size struct {
	Raw  string
	dims *Dimensions
}

func ParsedSize(raw string, d Dimensions) Size {
	return Size{Raw: raw, dims: &d}
}

func UnparsedSize(raw string) Size {
	return Size{Raw: raw}
}

func (s Size) Dimensions() (Dimensions, bool) {
	if s.dims == nil {
		return Dimensions{}, false
	}
	return *s.dims, true
}

func (s Size) Unit() string { return SizeUnit }

type sizeJSON struct {
	Raw         string     `json:"raw"`
	Unit        string     `json:"unit"`
	LengthMm    *int       `json:"lengthMm,omitempty"`
	WidthMm     *int       `json:"widthMm,omitempty"`
	ThicknessMm *Thickness `json:"thicknessMm,omitempty"`
	HeightMm    *int       `json:"heightMm,omitempty"`
}

func (s Size) MarshalJSON() ([]byte, error) {
	out := sizeJSON{Raw: s.Raw, Unit: SizeUnit}
	if d, ok := s.Dimensions(); ok {
		out.LengthMm = &d.LengthMm
		out.WidthMm = &d.WidthMm
		out.ThicknessMm = &d.Thickness
		out.HeightMm = d.HeightMm
	}
	return json.Marshal(out)
}

func (s *Size) UnmarshalJSON(data []byte) error {
	var in sizeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.LengthMm == nil || in.WidthMm == nil || in.ThicknessMm == nil {
		*s = UnparsedSize(in.Raw)
		return nil
	}
	*s = ParsedSize(in.Raw, Dimensions{
		LengthMm:  *in.LengthMm,
		WidthMm:   *in.WidthMm,
		Thickness: *in.ThicknessMm,
		HeightMm:  in.HeightMm,
	})
	return nil
}

type Material struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ApplicationColumn describes one of the fixed application columns of the
// library sheet after header reconstruction.
type ApplicationColumn struct {
	Index        int
	Category     string
	CategorySlug string
	Subtype      string
	SubtypeSlug  string
	Label        string
	ID           string
}

type Application struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	Category     string `json:"category"`
	CategorySlug string `json:"categorySlug"`
	Subtype      string `json:"subtype,omitempty"`
	SubtypeSlug  string `json:"subtypeSlug,omitempty"`
	Sizes        []Size `json:"sizes"`
}

type Finish struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	SlipRating   string        `json:"slipRating,omitempty"`
	Applications []Application `json:"applications"`
}

type ApplicationFinish struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SlipRating string `json:"slipRating,omitempty"`
	Sizes      []Size `json:"sizes"`
}

type ApplicationIndexEntry struct {
	ID           string              `json:"id"`
	Label        string              `json:"label"`
	Category     string              `json:"category"`
	CategorySlug string              `json:"categorySlug"`
	Subtype      string              `json:"subtype,omitempty"`
	SubtypeSlug  string              `json:"subtypeSlug,omitempty"`
	Finishes     []ApplicationFinish `json:"finishes"`
}

type PhotoCount struct {
	Have   int `json:"have"`
	Target int `json:"target"`
}

type MediaStatus struct {
	ProductPhoto     *string     `json:"productPhoto,omitempty"`
	ApplicationPhoto *PhotoCount `json:"applicationPhoto,omitempty"`
}

type Product struct {
	ID               string                  `json:"id"`
	Name             string                  `json:"name"`
	Slug             string                  `json:"slug"`
	MaterialID       string                  `json:"materialId"`
	MaterialName     string                  `json:"materialName"`
	Finishes         []Finish                `json:"finishes"`
	ApplicationIndex []ApplicationIndexEntry `json:"applicationIndex"`
	Media            *MediaStatus            `json:"media,omitempty"`
}

type NamedSlug struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ProductCategory struct {
	Name     string      `json:"name"`
	Slug     string      `json:"slug"`
	Subtypes []NamedSlug `json:"subtypes,omitempty"`
}

type ProductCategories struct {
	Materials    []NamedSlug       `json:"materials"`
	Applications []ProductCategory `json:"applications"`
}

// Catalog is the finalized output of one pipeline run.
type Catalog struct {
	Materials  []Material
	Products   []Product
	Categories ProductCategories
}

type IssueKind string

const (
	IssueSkippedRow           IssueKind = "skipped_row"
	IssueUnparsedSize         IssueKind = "unparsed_size"
	IssueDuplicateSize        IssueKind = "duplicate_size"
	IssueMalformedMedia       IssueKind = "malformed_media"
	IssueNearDuplicateProduct IssueKind = "near_duplicate_product"
	IssueUnknownOverride      IssueKind = "unknown_override"
)

// Issue is one tolerated data-quality problem found in the source sheet. Row
// is the 1-based sheet row, 0 when the issue is not tied to a row.
type Issue struct {
	Row    int       `json:"row"`
	Column int       `json:"column"`
	Kind   IssueKind `json:"kind"`
	Value  string    `json:"value"`
}

type RunRecord struct {
	ID             int
	TraceID        string
	Source         string
	InputHash      string
	ProductsCount  int
	MaterialsCount int
	Counts         map[string]int
	Timings        map[string]float64
	CreatedAt      string
}

type SnapshotRecord struct {
	Hash      string
	Source    string
	Path      string
	Rows      int
	CreatedAt string
}
