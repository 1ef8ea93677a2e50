package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"desire-paths/internal/sims/park"
	"desire-paths/internal/sweep"
)

func TestNewStoreMemory(t *testing.T) {
	store, err := NewStore("memory", "")
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	if store == nil {
		t.Fatal("expected non-nil store")
	}
}

func TestNewStoreUnsupported(t *testing.T) {
	_, err := NewStore("unknown", "")
	if err == nil {
		t.Fatal("expected unsupported store error")
	}
}

func TestNewStorePostgresNeedsDSN(t *testing.T) {
	store, err := NewStore("postgres", "")
	if err != nil {
		t.Fatalf("new postgres store: %v", err)
	}
	if err := store.Init(context.Background()); err == nil {
		t.Fatal("expected missing connection string error")
	}
	if _, err := store.ListRuns(context.Background(), ""); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected not initialized, got %v", err)
	}
}

func TestNewRunRecord(t *testing.T) {
	cfg := park.DefaultConfig()
	cfg.Park = "plaza"
	res := sweep.Result{
		RunID:   "abc",
		Config:  cfg,
		Steps:   50,
		Scored:  true,
		Elapsed: 1500 * time.Millisecond,
		Snapshot: park.Snapshot{
			Width:  2,
			Height: 1,
			Wear:   []int{3, 0},
		},
	}
	res.Accuracy.Score = 0.4

	rec := NewRunRecord("sweep-1", res)
	if rec.ID != "abc" || rec.SweepID != "sweep-1" || rec.Park != "plaza" || rec.Accuracy != 0.4 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.ElapsedMS != 1500 || rec.Width != 2 || rec.Wear[0] != 3 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.SchemaVersion != CurrentSchemaVersion || rec.CodecVersion != CurrentCodecVersion {
		t.Fatalf("record not versioned: %+v", rec)
	}
}
