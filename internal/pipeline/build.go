package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"stonecatalog/internal"
	"stonecatalog/internal/config"
	"stonecatalog/internal/connectors"
	"stonecatalog/internal/logger"
	"stonecatalog/internal/storage"
)

// Build turns the raw sheet grid into the catalog. Row 0 is the banner, rows
// 1 and 2 the application header, data starts at row 3.
func Build(rows [][]string, log *logger.Logger) (*internal.Catalog, *Report, error) {
	if len(rows) < MinRows {
		return nil, nil, ErrTooFewRows
	}
	if log == nil {
		log = logger.Nop()
	}

	columns := ResolveApplicationColumns(rows[1], rows[2])
	report := &Report{}
	agg := newAggregator(columns, report)

	var state fillState
	for i, row := range rows[HeaderRows:] {
		if len(row) == 0 {
			continue
		}
		rowNo := HeaderRows + i + 1
		report.RowsRead++

		state = state.advance(row)
		if !state.ready() {
			report.add(internal.Issue{Row: rowNo, Column: ColMaterial, Kind: internal.IssueSkippedRow, Value: firstCells(row)})
			continue
		}
		agg.addRow(rowNo, row, state)
	}

	cat := finalize(agg, buildCategoryRegistry(columns))
	checkNearDuplicates(cat, report)
	report.Log(log)
	return cat, report, nil
}

func firstCells(row []string) string {
	n := ColSlipRating + 1
	if n > len(row) {
		n = len(row)
	}
	out := ""
	for i, cell := range row[:n] {
		if i > 0 {
			out += ","
		}
		out += cell
	}
	return out
}

// BuildService runs one batch: fetch, build, write, record.
type BuildService struct {
	cfg    config.Config
	db     *storage.DB
	source connectors.RowSource
	log    *logger.Logger
}

type BuildResult struct {
	TraceID   string
	RunID     int64
	Products  int
	Materials int
	InputHash string
	Catalog   *internal.Catalog
	Report    *Report
}

// NewBuildService wires a build. db may be nil when no ledger is configured.
func NewBuildService(cfg config.Config, db *storage.DB, source connectors.RowSource, log *logger.Logger) *BuildService {
	if log == nil {
		log = logger.Nop()
	}
	return &BuildService{cfg: cfg, db: db, source: source, log: log}
}

type loaded struct {
	catalog   *internal.Catalog
	report    *Report
	inputHash string
	timings   map[string]float64
}

// Load fetches and builds the catalog without writing anything.
func (s *BuildService) Load(ctx context.Context) (*internal.Catalog, *Report, error) {
	l, err := s.load(ctx, s.log)
	if err != nil {
		return nil, nil, err
	}
	return l.catalog, l.report, nil
}

func (s *BuildService) load(ctx context.Context, log *logger.Logger) (loaded, error) {
	timings := map[string]float64{}

	start := time.Now()
	rows, err := s.source.FetchRows(ctx)
	if err != nil {
		return loaded{}, fmt.Errorf("read %s: %w", s.source.Name(), err)
	}
	timings["fetchMs"] = msSince(start)

	blob, err := connectors.EncodeCSV(rows)
	if err != nil {
		return loaded{}, err
	}
	sum := sha256.Sum256(blob)

	start = time.Now()
	cat, report, err := Build(rows, log)
	if err != nil {
		return loaded{}, err
	}
	timings["buildMs"] = msSince(start)

	if s.cfg.OverridesPath != "" {
		overrides, err := LoadOverrides(s.cfg.OverridesPath)
		if err != nil {
			return loaded{}, err
		}
		before := len(report.Issues)
		ValidateOverrides(overrides, cat, report)
		for _, issue := range report.Issues[before:] {
			log.Warn("override for unknown product", "slug", issue.Value)
		}
	}

	return loaded{catalog: cat, report: report, inputHash: hex.EncodeToString(sum[:]), timings: timings}, nil
}

func (s *BuildService) Run(ctx context.Context) (BuildResult, error) {
	start := time.Now()
	traceID := ulid.Make().String()
	log := s.log.With("traceId", traceID, "source", s.source.Name())

	l, err := s.load(ctx, log)
	if err != nil {
		return BuildResult{}, err
	}

	writeStart := time.Now()
	rendered, err := Render(l.catalog)
	if err != nil {
		return BuildResult{}, err
	}
	// Review workbook before the generated modules: a failed export must not
	// leave them replaced.
	if s.cfg.ReviewXLSXPath != "" {
		if err := ExportCatalogToXLSX(l.catalog, l.report, s.cfg.ReviewXLSXPath); err != nil {
			return BuildResult{}, fmt.Errorf("write review workbook: %w", err)
		}
	}
	if err := rendered.WriteFiles(s.cfg.ProductsOut, s.cfg.CategoriesOut); err != nil {
		return BuildResult{}, fmt.Errorf("write generated files: %w", err)
	}
	l.timings["writeMs"] = msSince(writeStart)
	l.timings["totalMs"] = msSince(start)

	res := BuildResult{
		TraceID:   traceID,
		Products:  len(l.catalog.Products),
		Materials: len(l.catalog.Materials),
		InputHash: l.inputHash,
		Catalog:   l.catalog,
		Report:    l.report,
	}

	if s.db != nil {
		runID, err := s.db.InsertRun(internal.RunRecord{
			TraceID:        traceID,
			Source:         s.source.Name(),
			InputHash:      l.inputHash,
			ProductsCount:  res.Products,
			MaterialsCount: res.Materials,
			Counts:         l.report.Counts(),
			Timings:        l.timings,
		}, l.report.Issues)
		if err != nil {
			return BuildResult{}, fmt.Errorf("record run: %w", err)
		}
		res.RunID = runID
	}

	log.Info("catalog built", "products", res.Products, "materials", res.Materials, "totalMs", l.timings["totalMs"])
	return res, nil
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
