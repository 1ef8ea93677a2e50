package storage

import (
	"context"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatal(err)
	}
	run := sampleRun("r1", "s1", 0.5)
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatal(err)
	}
	run.Wear[0] = 99

	got, _, _ := store.GetRun(ctx, "r1")
	if got.Wear[0] != 0 {
		t.Fatalf("store shares caller slice: %v", got.Wear)
	}
	got.Heatmap[0] = 77
	again, _, _ := store.GetRun(ctx, "r1")
	if again.Heatmap[0] != 1 {
		t.Fatalf("store leaks internal slice: %v", again.Heatmap)
	}
}
