package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"desire-paths/internal/core"
	"desire-paths/internal/sims/park"
)

func sampleRun(id, sweepID string, accuracy float64) RunRecord {
	return RunRecord{
		SchemaVersion: CurrentSchemaVersion,
		CodecVersion:  CurrentCodecVersion,
		ID:            id,
		SweepID:       sweepID,
		Park:          "plaza",
		Metric:        "affordance",
		Seed:          42,
		Steps:         100,
		Params:        park.DefaultConfig().Params,
		Scored:        true,
		Accuracy:      accuracy,
		Width:         2,
		Height:        2,
		Wear:          []int{0, 12, 40, 0},
		Heatmap:       []int{1, 3, 5, 0},
		Agents:        []core.Point{{X: 1, Y: 0}},
		ElapsedMS:     7,
		CreatedAt:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if _, _, err := store.GetRun(ctx, "missing"); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected not initialized error, got %v", err)
	}
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	runs := []RunRecord{
		sampleRun("r1", "s1", 0.25),
		sampleRun("r2", "s1", 0.75),
		sampleRun("r3", "s2", 0.5),
	}
	for _, r := range runs {
		if err := store.SaveRun(ctx, r); err != nil {
			t.Fatalf("save %s: %v", r.ID, err)
		}
	}

	got, ok, err := store.GetRun(ctx, "r2")
	if err != nil || !ok {
		t.Fatalf("get r2: ok=%v err=%v", ok, err)
	}
	if got.Accuracy != 0.75 || got.Park != "plaza" || len(got.Wear) != 4 || got.Wear[2] != 40 {
		t.Fatalf("unexpected run loaded: %+v", got)
	}
	if got.Params != runs[1].Params {
		t.Fatalf("params not preserved: %+v", got.Params)
	}
	if len(got.Agents) != 1 || got.Agents[0] != core.Pt(1, 0) {
		t.Fatalf("agents not preserved: %+v", got.Agents)
	}

	if _, ok, err := store.GetRun(ctx, "missing"); err != nil || ok {
		t.Fatalf("missing run: ok=%v err=%v", ok, err)
	}

	list, err := store.ListRuns(ctx, "s1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "r2" || list[1].ID != "r1" {
		t.Fatalf("unexpected sweep listing: %+v", ids(list))
	}

	updated := sampleRun("r1", "s1", 0.9)
	if err := store.SaveRun(ctx, updated); err != nil {
		t.Fatalf("update: %v", err)
	}
	all, err := store.ListRuns(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if want := []string{"r1", "r2", "r3"}; !equalStrings(ids(all), want) {
		t.Fatalf("listing = %v, want %v", ids(all), want)
	}
}

func ids(runs []RunRecord) []string {
	out := make([]string, len(runs))
	for i, r := range runs {
		out[i] = r.ID
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
