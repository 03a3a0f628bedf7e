package storage

import (
	"path/filepath"
	"testing"

	"stonecatalog/internal"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "ledger", "catalog.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestInsertAndListRuns(t *testing.T) {
	db := openTestDB(t)

	issues := []internal.Issue{
		{Row: 7, Column: 5, Kind: internal.IssueUnparsedSize, Value: "Random (Crazy)"},
		{Row: 9, Column: 24, Kind: internal.IssueMalformedMedia, Value: "pending"},
	}
	runID, err := db.InsertRun(internal.RunRecord{
		TraceID:        "01TEST",
		Source:         "csv:/tmp/lib.csv",
		InputHash:      "abc",
		ProductsCount:  3,
		MaterialsCount: 2,
		Counts:         map[string]int{"rowsRead": 10},
		Timings:        map[string]float64{"totalMs": 4},
	}, issues)
	if err != nil {
		t.Fatal(err)
	}

	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("len=%d", len(runs))
	}
	if runs[0].TraceID != "01TEST" || runs[0].ProductsCount != 3 || runs[0].Counts["rowsRead"] != 10 {
		t.Fatalf("unexpected run: %+v", runs[0])
	}

	got, err := db.ListIssues(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Kind != internal.IssueUnparsedSize || got[1].Column != 24 {
		t.Fatalf("unexpected issues: %+v", got)
	}
}

func TestSnapshotsAndMetadata(t *testing.T) {
	db := openTestDB(t)

	missing, err := db.GetSnapshot("nope")
	if err != nil || missing != nil {
		t.Fatalf("expected nil snapshot, got %+v err=%v", missing, err)
	}
	if err := db.UpsertSnapshot(internal.SnapshotRecord{Hash: "h1", Source: "url", Path: "/raw/h1.csv", Rows: 12}); err != nil {
		t.Fatal(err)
	}
	snap, err := db.GetSnapshot("h1")
	if err != nil || snap == nil || snap.Rows != 12 {
		t.Fatalf("unexpected snapshot %+v err=%v", snap, err)
	}

	if err := db.SetMetadata("catalog.last_pull", "2026-01-01T00:00:00Z"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetMetadata("catalog.last_pull", "2026-02-01T00:00:00Z"); err != nil {
		t.Fatal(err)
	}
	v, err := db.GetMetadata("catalog.last_pull")
	if err != nil || v == nil || *v != "2026-02-01T00:00:00Z" {
		t.Fatalf("unexpected metadata %v err=%v", v, err)
	}
}
