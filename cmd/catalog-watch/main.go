package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stonecatalog/internal/config"
	"stonecatalog/internal/logger"
	"stonecatalog/internal/pipeline"
	"stonecatalog/internal/storage"
	"stonecatalog/internal/watcher"
)

func main() {
	cfg, err := config.Load()
	must(err)

	log, err := logger.New(cfg.LogMode, cfg.LogLevel)
	must(err)
	defer log.Sync()

	source, err := pipeline.OpenSource(context.Background(), cfg)
	must(err)
	if _, ok := source.(pipeline.FileSource); !ok {
		must(fmt.Errorf("watch mode needs a local source, got %s", source.Name()))
	}

	var db *storage.DB
	if cfg.LedgerEnabled() {
		db, err = storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()
	}

	build := pipeline.NewBuildService(cfg, db, source, log)
	svc := watcher.NewService(cfg.InputPath, time.Duration(cfg.WatchIntervalSec)*time.Second, func(ctx context.Context) error {
		res, err := build.Run(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Generated %d products, %d materials.\n", res.Products, res.Materials)
		return nil
	}, log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	must(svc.Run(ctx))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
