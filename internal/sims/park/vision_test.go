package park

import (
	"math"
	"testing"

	"desire-paths/internal/core"
)

func TestVisionPicksSidewalkAhead(t *testing.T) {
	terrain := newTestTerrain(t,
		"...........",
		"...........",
		"...........",
		"...........",
		"...........",
		"...........",
		"...........",
		"...........",
		".....=.....",
		"...........",
		"...........",
	)
	a := newTestPedestrian(t, core.Pt(5, 10), core.Pt(5, 0), AffordanceMetric{})
	sub, ok := a.visionSearch(terrain, nil)
	if !ok {
		t.Fatal("expected a subtarget")
	}
	if sub != core.Pt(5, 8) {
		t.Fatalf("subtarget = %v, want (5,8)", sub)
	}
}

func TestVisionStaysInsideCone(t *testing.T) {
	terrain := newTestTerrain(t,
		"...............",
		"...............",
		"...............",
		"...............",
		"...............",
		"...............",
		"...............",
		"...............",
		"...............",
		"...............",
		"...............",
		"...............",
		"...............",
		"...............",
		"...............",
	)
	cfg := DefaultConfig().Params.AgentParams()
	cfg.VisionAngle = 45
	cfg.VisionRadius = 5
	origin := core.Pt(7, 7)
	a, err := NewPedestrian(0, origin, core.Pt(14, 7), cfg, ClosestMetric{})
	if err != nil {
		t.Fatal(err)
	}
	hits := core.NewGrid[int](15, 15)
	if _, ok := a.visionSearch(terrain, hits); !ok {
		t.Fatal("expected a subtarget in open grass")
	}

	seen := 0
	limit := math.Cos(45 * math.Pi / 180)
	for i, v := range hits.Cells() {
		if v == 0 {
			continue
		}
		seen++
		p := hits.PointAt(i)
		dx, dy := float64(p.X-origin.X), float64(p.Y-origin.Y)
		mag := math.Hypot(dx, dy)
		if mag == 0 || mag > cfg.VisionRadius {
			t.Fatalf("hit %v at distance %v outside radius", p, mag)
		}
		if dx/mag < limit-1e-12 {
			t.Fatalf("hit %v outside the %v degree cone", p, cfg.VisionAngle)
		}
		if v != 1 {
			t.Fatalf("cell %v counted %d times in one search", p, v)
		}
	}
	if seen == 0 {
		t.Fatal("vision admitted no cells")
	}
	if hits.At(core.Pt(12, 7)) != 1 {
		t.Fatal("cell straight ahead at the radius should be seen")
	}
}

func TestVisionDoesNotSeeThroughWalls(t *testing.T) {
	terrain := newTestTerrain(t,
		".......",
		"..===..",
		".......",
		"#######",
		".......",
		".......",
	)
	a := newTestPedestrian(t, core.Pt(3, 5), core.Pt(3, 0), AffordanceMetric{})
	hits := core.NewGrid[int](7, 6)
	sub, ok := a.visionSearch(terrain, hits)
	if ok && sub.Y < 4 {
		t.Fatalf("subtarget %v lies behind the wall", sub)
	}
	for i, v := range hits.Cells() {
		if v > 0 && hits.PointAt(i).Y <= 3 {
			t.Fatalf("vision reached %v through the wall", hits.PointAt(i))
		}
	}
}

func TestVisionSeesThroughMarginsWithoutStoppingOnThem(t *testing.T) {
	terrain := newTestTerrain(t,
		".....",
		"..=..",
		"mmmmm",
		".....",
	)
	a := newTestPedestrian(t, core.Pt(2, 3), core.Pt(2, 0), AffordanceMetric{})
	hits := core.NewGrid[int](5, 4)
	sub, ok := a.visionSearch(terrain, hits)
	if !ok || sub != core.Pt(2, 1) {
		t.Fatalf("subtarget = %v, %v, want sidewalk (2,1) beyond the margin", sub, ok)
	}
	if hits.At(core.Pt(2, 2)) == 0 {
		t.Fatal("margin cell should be counted as seen")
	}
}

func TestVisionFallbackStepsTowardTarget(t *testing.T) {
	cfg := quietConfig("closest")
	cfg.Params.VisionAngle = 45
	w := newTestWorld(t, cfg,
		"e...e",
		"#####",
		".....",
	)
	a, err := w.AddAgent(core.Pt(2, 2), core.Pt(2, 0))
	if err != nil {
		t.Fatal(err)
	}
	w.Step()
	if _, ok := a.Subtarget(); ok {
		t.Fatal("no cell in the cone is admissible, expected no subtarget")
	}
	if a.Cell() != core.Pt(1, 2) {
		t.Fatalf("agent moved to %v, want (1,2)", a.Cell())
	}
}

func TestSubtargetLayerTracksHolders(t *testing.T) {
	w := newTestWorld(t, quietConfig("affordance"),
		"e.........",
		"..........",
		"......=...",
		"..........",
		".........e",
	)
	a, err := w.AddAgent(core.Pt(9, 4), core.Pt(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	w.Step()
	sub, ok := a.Subtarget()
	if !ok {
		t.Fatal("expected a subtarget")
	}
	if got := w.SubtargetLayer().At(sub); got != 1 {
		t.Fatalf("subtarget layer at %v = %d, want 1", sub, got)
	}
	for i := 0; i < 40 && len(w.Agents()) > 0; i++ {
		w.Step()
	}
	if len(w.Agents()) != 0 {
		t.Fatalf("agent never arrived, at %v", a.Cell())
	}
	for i, v := range w.SubtargetLayer().Cells() {
		if v != 0 {
			t.Fatalf("subtarget layer not released at %v: %d", w.SubtargetLayer().PointAt(i), v)
		}
	}
}
