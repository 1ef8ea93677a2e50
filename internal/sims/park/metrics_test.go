package park

import (
	"errors"
	"math"
	"testing"

	"desire-paths/internal/core"
)

func cells(ranked []Candidate) []core.Point {
	out := make([]core.Point, len(ranked))
	for i, c := range ranked {
		out[i] = c.Cell
	}
	return out
}

func TestMetricByName(t *testing.T) {
	for _, name := range MetricNames() {
		m, err := MetricByName(name)
		if err != nil {
			t.Fatalf("MetricByName(%q): %v", name, err)
		}
		if m.Name() != name {
			t.Fatalf("metric %q reports name %q", name, m.Name())
		}
	}
	if m, err := MetricByName("normal"); err != nil || m.Name() != "closest" {
		t.Fatalf("normal alias = %v, %v", m, err)
	}
	if _, err := MetricByName("astar"); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("unknown metric err = %v", err)
	}
}

func TestClosestRanksAscending(t *testing.T) {
	terrain := newTestTerrain(t,
		".....",
		"..#..",
		".....",
		".....",
	)
	a := newTestPedestrian(t, core.Pt(2, 2), core.Pt(4, 0), ClosestMetric{})
	ranked := ClosestMetric{}.Rank(a, terrain, a.Target())
	if len(ranked) != 7 {
		t.Fatalf("expected 7 walkable neighbours, got %d", len(ranked))
	}
	if ranked[0].Cell != core.Pt(3, 1) {
		t.Fatalf("best step = %v, want (3,1)", ranked[0].Cell)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score < ranked[i-1].Score {
			t.Fatalf("ranking not ascending at %d: %v", i, ranked)
		}
	}
	for _, c := range ranked {
		if c.Cell == core.Pt(2, 1) {
			t.Fatal("obstacle ranked as a step")
		}
	}
}

func TestClosestGivesUpWhenBoxedIn(t *testing.T) {
	terrain := newTestTerrain(t,
		"#m#",
		"#.#",
		"###",
	)
	a := newTestPedestrian(t, core.Pt(1, 1), core.Pt(0, 0), ClosestMetric{})
	if ranked := (ClosestMetric{}).Rank(a, terrain, a.Target()); !IsGiveUp(ranked) {
		t.Fatalf("expected give-up, got %v", ranked)
	}
}

func TestAffordanceNeverRegresses(t *testing.T) {
	terrain := newTestTerrain(t,
		".....",
		"=....",
		".....",
		"....=",
		".....",
	)
	a := newTestPedestrian(t, core.Pt(2, 2), core.Pt(4, 2), AffordanceMetric{})
	ranked := AffordanceMetric{}.Rank(a, terrain, core.Pt(4, 4))
	current := distance(core.Pt(4, 4), a.Cell())
	for _, c := range ranked {
		if distance(core.Pt(4, 4), c.Cell) > current {
			t.Fatalf("candidate %v moves away from destination", c.Cell)
		}
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Fatalf("ranking not descending: %v", ranked)
		}
	}
}

func TestAffordanceFallsBackToClosest(t *testing.T) {
	terrain := newTestTerrain(t,
		".#...",
		".#...",
		".#...",
	)
	a := newTestPedestrian(t, core.Pt(0, 1), core.Pt(2, 1), AffordanceMetric{})
	ranked := AffordanceMetric{}.Rank(a, terrain, a.Target())
	want := []core.Point{core.Pt(0, 0), core.Pt(0, 2)}
	got := cells(ranked)
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("fallback ranking = %v, want %v", got, want)
	}
	if math.Abs(ranked[0].Score-math.Sqrt(5)) > 1e-9 {
		t.Fatalf("fallback should score by distance, got %v", ranked[0].Score)
	}
}

func TestAffordanceStepsOntoAdjacentDestination(t *testing.T) {
	terrain := newTestTerrain(t,
		"=====",
		".....",
		".....",
	)
	a := newTestPedestrian(t, core.Pt(1, 1), core.Pt(2, 2), AffordanceMetric{})
	ranked := AffordanceMetric{}.Rank(a, terrain, a.Target())
	if len(ranked) != 1 || ranked[0].Cell != core.Pt(2, 2) {
		t.Fatalf("expected single step onto destination, got %v", ranked)
	}
}

func TestBalancedRankSum(t *testing.T) {
	terrain := newTestTerrain(t,
		".....",
		".=...",
		".....",
	)
	if err := terrain.SetWear(core.Pt(3, 1), 50); err != nil {
		t.Fatal(err)
	}
	a := newTestPedestrian(t, core.Pt(2, 2), core.Pt(2, 0), BalancedMetric{})
	ranked := BalancedMetric{}.Rank(a, terrain, a.Target())
	want := []core.Point{core.Pt(1, 1), core.Pt(2, 1), core.Pt(3, 1)}
	got := cells(ranked)
	if len(got) != len(want) {
		t.Fatalf("balanced ranking = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("balanced ranking = %v, want %v", got, want)
		}
	}
	if ranked[0].Score != 1 || ranked[1].Score != 2 || ranked[2].Score != 3 {
		t.Fatalf("rank sums = %v", ranked)
	}
}

func TestBalancedGivesUpWithoutProgress(t *testing.T) {
	terrain := newTestTerrain(t,
		".#.",
		".#.",
	)
	a := newTestPedestrian(t, core.Pt(0, 0), core.Pt(2, 0), BalancedMetric{})
	if ranked := (BalancedMetric{}).Rank(a, terrain, a.Target()); !IsGiveUp(ranked) {
		t.Fatalf("expected give-up, got %v", ranked)
	}
}

func TestMixedExcludesMarginsObstaclesAndVisited(t *testing.T) {
	terrain := newTestTerrain(t,
		"m.#",
		"...",
		"...",
	)
	a := newTestPedestrian(t, core.Pt(1, 0), core.Pt(1, 2), MixedMetric{})
	a.moveTo(core.Pt(1, 1))

	ranked := MixedMetric{}.Rank(a, terrain, a.Target())
	if len(ranked) != 5 {
		t.Fatalf("expected 5 candidates, got %v", ranked)
	}
	for _, c := range ranked {
		switch c.Cell {
		case core.Pt(0, 0), core.Pt(1, 0), core.Pt(2, 0):
			t.Fatalf("excluded cell %v ranked", c.Cell)
		}
	}
	if ranked[0].Cell != core.Pt(1, 2) {
		t.Fatalf("best step = %v, want destination", ranked[0].Cell)
	}
}

func TestMixedPrefersAffordance(t *testing.T) {
	terrain := newTestTerrain(t,
		"...",
		"...",
		"=..",
		"...",
		"...",
	)
	a := newTestPedestrian(t, core.Pt(1, 1), core.Pt(1, 4), MixedMetric{})
	ranked := MixedMetric{}.Rank(a, terrain, a.Target())
	if ranked[0].Cell != core.Pt(0, 2) {
		t.Fatalf("best step = %v, want sidewalk (0,2)", ranked[0].Cell)
	}
	for _, c := range ranked[1:] {
		if !math.IsInf(c.Score, 1) {
			t.Fatalf("zero-affordance cell %v scored %v", c.Cell, c.Score)
		}
	}
}

func TestMixedGivesUpWhenEverythingVisited(t *testing.T) {
	terrain := newTestTerrain(t, "...")
	a := newTestPedestrian(t, core.Pt(0, 0), core.Pt(2, 0), MixedMetric{})
	a.moveTo(core.Pt(1, 0))
	a.moveTo(core.Pt(0, 0))
	a.moveTo(core.Pt(1, 0))
	// (0,0) visited, (2,0) unvisited.
	if ranked := (MixedMetric{}).Rank(a, terrain, a.Target()); IsGiveUp(ranked) {
		t.Fatal("unvisited target should remain a candidate")
	}
	a.moveTo(core.Pt(2, 0))
	a.moveTo(core.Pt(1, 0))
	if ranked := (MixedMetric{}).Rank(a, terrain, a.Target()); !IsGiveUp(ranked) {
		t.Fatalf("expected give-up, got %v", ranked)
	}
}
