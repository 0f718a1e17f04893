package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/louisbranch/avflight/internal/reserving/generator"
	"github.com/louisbranch/avflight/internal/reserving/payload"
)

func TestSaveAndLoadDataset(t *testing.T) {
	store := openTempStore(t)
	want := generatedPayload(t, 42)

	run := Run{ID: "run-1", Seed: 42, CreatedAt: time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)}
	if err := store.SaveDataset(context.Background(), run, want); err != nil {
		t.Fatalf("save dataset: %v", err)
	}

	got, err := store.LoadPayload(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("load payload: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadedPayloadEncodesIdentically(t *testing.T) {
	store := openTempStore(t)
	want := generatedPayload(t, 7)
	if err := store.SaveDataset(context.Background(), Run{ID: "run-7", Seed: 7}, want); err != nil {
		t.Fatalf("save dataset: %v", err)
	}
	got, err := store.LoadPayload(context.Background(), "run-7")
	if err != nil {
		t.Fatalf("load payload: %v", err)
	}

	wantJSON, err := payload.Marshal(want)
	if err != nil {
		t.Fatalf("marshal want: %v", err)
	}
	gotJSON, err := payload.Marshal(got)
	if err != nil {
		t.Fatalf("marshal got: %v", err)
	}
	if string(wantJSON) != string(gotJSON) {
		t.Fatal("expected reloaded payload to encode identically")
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	store := openTempStore(t)
	p := generatedPayload(t, 1)
	older := Run{ID: "older", Seed: 1, CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := Run{ID: "newer", Seed: 2, CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}
	for _, run := range []Run{older, newer} {
		if err := store.SaveDataset(context.Background(), run, p); err != nil {
			t.Fatalf("save %s: %v", run.ID, err)
		}
	}

	runs, err := store.ListRuns(context.Background())
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs len = %d, want 2", len(runs))
	}
	if runs[0].ID != "newer" || runs[1].ID != "older" {
		t.Fatalf("expected newest first, got %q then %q", runs[0].ID, runs[1].ID)
	}
	if runs[0].Seed != 2 {
		t.Fatalf("expected seed 2, got %d", runs[0].Seed)
	}
	if runs[0].LastUpdated != p.LastUpdated {
		t.Fatalf("expected last updated %q, got %q", p.LastUpdated, runs[0].LastUpdated)
	}
	if !runs[1].CreatedAt.Equal(older.CreatedAt) {
		t.Fatalf("expected created at %v, got %v", older.CreatedAt, runs[1].CreatedAt)
	}
}

func TestSaveDatasetRejectsDuplicateRun(t *testing.T) {
	store := openTempStore(t)
	p := generatedPayload(t, 3)
	if err := store.SaveDataset(context.Background(), Run{ID: "dup"}, p); err != nil {
		t.Fatalf("save dataset: %v", err)
	}
	if err := store.SaveDataset(context.Background(), Run{ID: "dup"}, p); err == nil {
		t.Fatal("expected duplicate run id to fail")
	}

	runs, err := store.ListRuns(context.Background())
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected failed save to roll back, got %d runs", len(runs))
	}
}

func TestSaveDatasetValidation(t *testing.T) {
	store := openTempStore(t)
	if err := store.SaveDataset(context.Background(), Run{ID: "  "}, payload.Payload{}); err == nil {
		t.Fatal("expected validation error for empty run id")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.SaveDataset(ctx, Run{ID: "x"}, payload.Payload{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

func TestLoadPayloadUnknownRun(t *testing.T) {
	store := openTempStore(t)
	if _, err := store.LoadPayload(context.Background(), "missing"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpenTwiceKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.db")
	store, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.SaveDataset(context.Background(), Run{ID: "kept"}, generatedPayload(t, 5)); err != nil {
		t.Fatalf("save dataset: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	reopened, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()
	runs, err := reopened.ListRuns(context.Background())
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "kept" {
		t.Fatalf("expected kept run after reopen, got %+v", runs)
	}
}

func generatedPayload(t *testing.T, seed int64) payload.Payload {
	t.Helper()
	cfg := generator.DefaultConfig()
	cfg.Seed = seed
	cfg.Now = func() time.Time { return time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC) }
	gen, err := generator.New(cfg)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	res, err := gen.Run(context.Background())
	if err != nil {
		t.Fatalf("run generator: %v", err)
	}
	return res.Payload()
}

func openTempStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.db")
	store, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}
