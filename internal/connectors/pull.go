package connectors

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"stonecatalog/internal/storage"
)

const lastPullKey = "catalog.last_pull"

// PullService copies a remote sheet into the local input path the build
// reads from.
type PullService struct {
	db        *storage.DB
	source    RowSource
	store     *SnapshotStore
	inputPath string
}

type PullResult struct {
	Rows    int
	Hash    string
	Path    string
	Created bool
}

func NewPullService(db *storage.DB, rawDir, inputPath string, source RowSource) *PullService {
	return &PullService{
		db:        db,
		source:    source,
		store:     NewSnapshotStore(db, rawDir),
		inputPath: inputPath,
	}
}

func (s *PullService) Pull(ctx context.Context) (PullResult, error) {
	rows, err := s.source.FetchRows(ctx)
	if err != nil {
		return PullResult{}, fmt.Errorf("fetch %s: %w", s.source.Name(), err)
	}

	snap, blob, created, err := s.store.Store(s.source.Name(), rows)
	if err != nil {
		return PullResult{}, fmt.Errorf("store snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.inputPath), 0o755); err != nil {
		return PullResult{}, err
	}
	if err := os.WriteFile(s.inputPath, blob, 0o644); err != nil {
		return PullResult{}, err
	}

	if s.db != nil {
		_ = s.db.SetMetadata(lastPullKey, time.Now().UTC().Format(time.RFC3339))
	}
	return PullResult{Rows: snap.Rows, Hash: snap.Hash, Path: s.inputPath, Created: created}, nil
}
