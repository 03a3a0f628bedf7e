package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"stonecatalog/internal/catalog"
	"stonecatalog/internal/config"
	"stonecatalog/internal/connectors"
	"stonecatalog/internal/logger"
	"stonecatalog/internal/pipeline"
	"stonecatalog/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	log, err := logger.New(cfg.LogMode, cfg.LogLevel)
	must(err)
	defer log.Sync()

	cmd := "build"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	var db *storage.DB
	if cfg.LedgerEnabled() {
		db, err = storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()
	}

	ctx := context.Background()
	switch cmd {
	case "build":
		source, err := pipeline.OpenSource(ctx, cfg)
		must(err)
		res, err := pipeline.NewBuildService(cfg, db, source, log).Run(ctx)
		must(err)
		fmt.Printf("Generated %d products, %d materials.\n", res.Products, res.Materials)
	case "sheet:pull":
		source, err := pipeline.OpenRemoteSource(ctx, cfg)
		must(err)
		res, err := connectors.NewPullService(db, cfg.RawDir, cfg.InputPath, source).Pull(ctx)
		must(err)
		fmt.Printf("pulled %d rows hash=%s new=%v into %s\n", res.Rows, res.Hash[:12], res.Created, res.Path)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}
		source, err := pipeline.OpenSource(ctx, cfg)
		must(err)
		cat, report, err := pipeline.NewBuildService(cfg, db, source, log).Load(ctx)
		must(err)
		must(pipeline.ExportCatalogToXLSX(cat, report, *out))
		fmt.Printf("exported %d products, %d issues to %s\n", len(cat.Products), len(report.Issues), *out)
	case "catalog:query":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		material := fs.String("material", "", "material id")
		application := fs.String("application", "", "application id or category slug")
		_ = fs.Parse(os.Args[2:])
		source, err := pipeline.OpenSource(ctx, cfg)
		must(err)
		cat, _, err := pipeline.NewBuildService(cfg, db, source, logger.Nop()).Load(ctx)
		must(err)
		matches := catalog.BuildIndex(cat).Query(*material, *application)
		for _, p := range matches {
			fmt.Printf("%s\t%s\t%s\t%d finishes\n", p.Slug, p.Name, p.MaterialName, len(p.Finishes))
		}
		fmt.Printf("%d products\n", len(matches))
	case "runs:list":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "max runs")
		_ = fs.Parse(os.Args[2:])
		if db == nil {
			must(fmt.Errorf("runs:list needs CATALOG_DB_PATH"))
		}
		runs, err := db.ListRuns(*limit)
		must(err)
		for _, run := range runs {
			fmt.Printf("%d\t%s\t%s\t%s\tproducts=%d materials=%d issues=%d\n",
				run.ID, run.CreatedAt, run.TraceID, run.Source, run.ProductsCount, run.MaterialsCount, run.Counts["issues"])
		}
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage: catalog-build [command]")
	fmt.Println("commands:")
	fmt.Println("  build (default)")
	fmt.Println("  sheet:pull")
	fmt.Println("  export:xlsx --out=./out/review.xlsx")
	fmt.Println("  catalog:query [--material=granite] [--application=pool-coping]")
	fmt.Println("  runs:list [--limit=20]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
