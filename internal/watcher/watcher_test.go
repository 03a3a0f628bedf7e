package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"stonecatalog/internal/logger"
)

func TestRunCycleRebuildsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.csv")
	if err := os.WriteFile(path, []byte("a,b\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	builds := 0
	svc := NewService(path, time.Second, func(context.Context) error {
		builds++
		return nil
	}, logger.Nop())

	ctx := context.Background()
	for i, want := range []bool{true, false} {
		built, err := svc.runCycle(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if built != want {
			t.Fatalf("cycle %d built=%v want %v", i, built, want)
		}
	}

	if err := os.WriteFile(path, []byte("a,b\nc,d\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if built, err := svc.runCycle(ctx); err != nil || !built {
		t.Fatalf("expected rebuild after change, built=%v err=%v", built, err)
	}
	if builds != 2 {
		t.Fatalf("builds=%d", builds)
	}
}

func TestRunCycleFailedBuildWaitsForChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.csv")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	svc := NewService(path, time.Second, func(context.Context) error { return boom }, nil)

	if _, err := svc.runCycle(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if built, err := svc.runCycle(context.Background()); built || err != nil {
		t.Fatalf("unchanged file should not rebuild, built=%v err=%v", built, err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")
	svc := NewService(path, time.Hour, func(context.Context) error { return nil }, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
