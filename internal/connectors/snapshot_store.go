package connectors

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"os"
	"path/filepath"

	"stonecatalog/internal"
	"stonecatalog/internal/storage"
)

// SnapshotStore keeps pulled sheets as content-addressed CSV files.
type SnapshotStore struct {
	db     *storage.DB
	rawDir string
}

func NewSnapshotStore(db *storage.DB, rawDir string) *SnapshotStore {
	return &SnapshotStore{db: db, rawDir: rawDir}
}

// Store writes rows as <sha256>.csv unless that snapshot already exists.
// created reports whether a new file was written.
func (s *SnapshotStore) Store(source string, rows [][]string) (snap internal.SnapshotRecord, blob []byte, created bool, err error) {
	blob, err = EncodeCSV(rows)
	if err != nil {
		return internal.SnapshotRecord{}, nil, false, err
	}
	hashBytes := sha256.Sum256(blob)
	hash := hex.EncodeToString(hashBytes[:])

	if err := os.MkdirAll(s.rawDir, 0o755); err != nil {
		return internal.SnapshotRecord{}, nil, false, err
	}

	rawPath := filepath.Join(s.rawDir, hash+".csv")
	if _, statErr := os.Stat(rawPath); os.IsNotExist(statErr) {
		if err := os.WriteFile(rawPath, blob, 0o644); err != nil {
			return internal.SnapshotRecord{}, nil, false, err
		}
		created = true
	}

	snap = internal.SnapshotRecord{Hash: hash, Source: source, Path: rawPath, Rows: len(rows)}
	if s.db != nil {
		if err := s.db.UpsertSnapshot(snap); err != nil {
			return internal.SnapshotRecord{}, nil, false, err
		}
	}
	return snap, blob, created, nil
}

func EncodeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
