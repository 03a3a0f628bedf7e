package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stonecatalog/internal/config"
	"stonecatalog/internal/connectors"
	"stonecatalog/internal/connectors/gsheets"
	"stonecatalog/internal/connectors/httpcsv"
	"stonecatalog/internal/util"
)

const (
	KindCSV  = "csv"
	KindXLSX = "xlsx"
	KindHTML = "html"
)

// FileSource reads the library from a local export.
type FileSource struct {
	Kind  string
	Path  string
	Sheet string
}

func (s FileSource) Name() string { return s.Kind + ":" + s.Path }

func (s FileSource) FetchRows(_ context.Context) ([][]string, error) {
	blob, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	switch s.Kind {
	case KindCSV:
		text := strings.TrimPrefix(string(blob), "\ufeff")
		return util.ParseCSV(text), nil
	case KindXLSX:
		return readXLSXRows(blob, s.Sheet)
	case KindHTML:
		return readHTMLRows(blob)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, s.Kind)
	}
}

// ResolveKind maps "auto" to a file kind by extension.
func ResolveKind(source, path string) string {
	if source != "" && source != "auto" {
		return source
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return KindXLSX
	case ".html", ".htm":
		return KindHTML
	default:
		return KindCSV
	}
}

// OpenSource builds the row source selected by CATALOG_SOURCE.
func OpenSource(ctx context.Context, cfg config.Config) (connectors.RowSource, error) {
	switch cfg.Source {
	case "url":
		return httpcsv.NewConnector(cfg)
	case "sheets":
		return gsheets.NewConnector(ctx, cfg)
	case "", "auto", KindCSV, KindXLSX, KindHTML:
		return FileSource{Kind: ResolveKind(cfg.Source, cfg.InputPath), Path: cfg.InputPath, Sheet: cfg.XLSXSheet}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, cfg.Source)
	}
}

// OpenRemoteSource builds the source used by sheet:pull. A local source
// configuration falls back to the URL connector when a URL is set.
func OpenRemoteSource(ctx context.Context, cfg config.Config) (connectors.RowSource, error) {
	switch {
	case cfg.Source == "sheets":
		return gsheets.NewConnector(ctx, cfg)
	case cfg.Source == "url" || strings.TrimSpace(cfg.SourceURL) != "":
		return httpcsv.NewConnector(cfg)
	case strings.TrimSpace(cfg.SheetsID) != "":
		return gsheets.NewConnector(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: sheet:pull needs CATALOG_SOURCE_URL or GOOGLE_SHEETS_ID", ErrUnsupportedSource)
	}
}
