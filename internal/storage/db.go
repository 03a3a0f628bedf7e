package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"stonecatalog/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL UNIQUE,
  source TEXT NOT NULL,
  inputHash TEXT NOT NULL,
  productsCount INTEGER NOT NULL,
  materialsCount INTEGER NOT NULL,
  countsJson TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS issues (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId INTEGER NOT NULL,
  rowNo INTEGER NOT NULL,
  colNo INTEGER NOT NULL,
  kind TEXT NOT NULL,
  value TEXT NOT NULL,
  FOREIGN KEY(runId) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_issues_run ON issues(runId);

CREATE TABLE IF NOT EXISTS snapshots (
  hash TEXT PRIMARY KEY,
  source TEXT NOT NULL,
  path TEXT NOT NULL,
  rowCount INTEGER NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// InsertRun stores one build run together with its data-quality issues.
func (d *DB) InsertRun(run internal.RunRecord, issues []internal.Issue) (int64, error) {
	tx, err := d.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	countsJSON, _ := json.Marshal(run.Counts)
	timingsJSON, _ := json.Marshal(run.Timings)
	res, err := tx.Exec(`
INSERT INTO runs (traceId, source, inputHash, productsCount, materialsCount, countsJson, timingsJson)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, run.TraceID, run.Source, run.InputHash, run.ProductsCount, run.MaterialsCount, string(countsJSON), string(timingsJSON))
	if err != nil {
		return 0, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(issues) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO issues (runId, rowNo, colNo, kind, value) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer stmt.Close()
		for _, issue := range issues {
			if _, err := stmt.Exec(runID, issue.Row, issue.Column, string(issue.Kind), issue.Value); err != nil {
				return 0, err
			}
		}
	}

	return runID, tx.Commit()
}

func (d *DB) ListRuns(limit int) ([]internal.RunRecord, error) {
	rows, err := d.conn.Query(`
SELECT id, traceId, source, inputHash, productsCount, materialsCount, countsJson, timingsJson, createdAt
FROM runs ORDER BY id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RunRecord
	for rows.Next() {
		var run internal.RunRecord
		var countsJSON, timingsJSON string
		if err := rows.Scan(&run.ID, &run.TraceID, &run.Source, &run.InputHash, &run.ProductsCount, &run.MaterialsCount, &countsJSON, &timingsJSON, &run.CreatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(countsJSON), &run.Counts)
		_ = json.Unmarshal([]byte(timingsJSON), &run.Timings)
		out = append(out, run)
	}
	return out, rows.Err()
}

func (d *DB) ListIssues(runID int64) ([]internal.Issue, error) {
	rows, err := d.conn.Query(`SELECT rowNo, colNo, kind, value FROM issues WHERE runId = ? ORDER BY id ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Issue
	for rows.Next() {
		var issue internal.Issue
		var kind string
		if err := rows.Scan(&issue.Row, &issue.Column, &kind, &issue.Value); err != nil {
			return nil, err
		}
		issue.Kind = internal.IssueKind(kind)
		out = append(out, issue)
	}
	return out, rows.Err()
}

func (d *DB) UpsertSnapshot(snap internal.SnapshotRecord) error {
	_, err := d.conn.Exec(`
INSERT INTO snapshots (hash, source, path, rowCount) VALUES (?, ?, ?, ?)
ON CONFLICT(hash) DO UPDATE SET source = excluded.source, path = excluded.path, rowCount = excluded.rowCount
`, snap.Hash, snap.Source, snap.Path, snap.Rows)
	return err
}

func (d *DB) GetSnapshot(hash string) (*internal.SnapshotRecord, error) {
	var snap internal.SnapshotRecord
	err := d.conn.QueryRow(`SELECT hash, source, path, rowCount, createdAt FROM snapshots WHERE hash = ?`, hash).
		Scan(&snap.Hash, &snap.Source, &snap.Path, &snap.Rows, &snap.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
