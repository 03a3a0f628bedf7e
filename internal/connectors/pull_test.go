package connectors

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"stonecatalog/internal/storage"
	"stonecatalog/internal/util"
)

type staticSource struct {
	rows [][]string
	err  error
}

func (s staticSource) Name() string { return "static" }

func (s staticSource) FetchRows(context.Context) ([][]string, error) { return s.rows, s.err }

func TestPullWritesSnapshotAndInput(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "catalog.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	rows := [][]string{
		{"Aushen Library"},
		{"Material", "Product", "Finish", "Slip", "Pool Coping"},
		{"", "", "", "", "Bullnose"},
		{"Granite", "Alpha, Grey", "Honed", "P4", "600 x 400 x 20"},
	}
	input := filepath.Join(tmp, "docs", "library.csv")
	svc := NewPullService(db, filepath.Join(tmp, "raw"), input, staticSource{rows: rows})

	res, err := svc.Pull(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Created || res.Rows != 4 {
		t.Fatalf("unexpected result %+v", res)
	}

	blob, err := os.ReadFile(input)
	if err != nil {
		t.Fatal(err)
	}
	if got := util.ParseCSV(string(blob)); !reflect.DeepEqual(got, rows) {
		t.Fatalf("input round trip mismatch: %q", got)
	}
	if _, err := os.Stat(filepath.Join(tmp, "raw", res.Hash+".csv")); err != nil {
		t.Fatal(err)
	}
	snap, err := db.GetSnapshot(res.Hash)
	if err != nil || snap == nil {
		t.Fatalf("snapshot not recorded: %v", err)
	}
	if v, _ := db.GetMetadata(lastPullKey); v == nil {
		t.Fatal("last pull not recorded")
	}

	again, err := svc.Pull(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if again.Created || again.Hash != res.Hash {
		t.Fatalf("second pull should reuse the snapshot: %+v", again)
	}
}

func TestPullWithoutLedger(t *testing.T) {
	tmp := t.TempDir()
	svc := NewPullService(nil, filepath.Join(tmp, "raw"), filepath.Join(tmp, "in.csv"), staticSource{rows: [][]string{{"a"}}})
	if _, err := svc.Pull(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestPullFetchError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewPullService(nil, t.TempDir(), filepath.Join(t.TempDir(), "in.csv"), staticSource{err: boom})
	if _, err := svc.Pull(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
}
