package emergency

import (
	"testing"

	"stadium/api/model"
)

func corridorAt(id string, x, y float64, level int) model.Node {
	return model.Node{ID: id, X: x, Y: y, Level: level, Type: model.NodeTypeCorridor}
}

func TestRankRoutesByStartNotExit(t *testing.T) {
	// Route A starts right next to the caller but exits far away; route B is
	// the mirror image. The evacuee walks from the start, so A must win.
	routes := []model.EmergencyRoute{
		{ID: "A", ExitID: "exit-far", NodeIDs: []string{"start-near", "exit-far"}},
		{ID: "B", ExitID: "exit-near", NodeIDs: []string{"start-far", "exit-near"}},
	}
	nodes := map[string]model.Node{
		"start-near": corridorAt("start-near", 5, 0, 0),
		"exit-far":   corridorAt("exit-far", 200, 0, 0),
		"start-far":  corridorAt("start-far", 200, 0, 0),
		"exit-near":  corridorAt("exit-near", 5, 0, 0),
	}

	ranked := rankRoutes(routes, nodes, 0, 0, 0)
	if len(ranked) != 2 {
		t.Fatalf("ranked %d routes, want 2", len(ranked))
	}
	if ranked[0].Route.ID != "A" {
		t.Errorf("nearest route = %s, want A (scored by start node)", ranked[0].Route.ID)
	}
	if ranked[0].Start.ID != "start-near" {
		t.Errorf("nearest start = %s, want start-near", ranked[0].Start.ID)
	}
	if got := ranked[0].Distance.String(); got != "5" {
		t.Errorf("nearest distance = %s, want 5", got)
	}
}

func TestRankRoutesOffLevelPenalty(t *testing.T) {
	// The upper-level route starts closer as the crow flies, but the penalty
	// must push it behind the same-level one.
	routes := []model.EmergencyRoute{
		{ID: "same-level", NodeIDs: []string{"s0"}},
		{ID: "upper-level", NodeIDs: []string{"s1"}},
	}
	nodes := map[string]model.Node{
		"s0": corridorAt("s0", 50, 0, 0),
		"s1": corridorAt("s1", 10, 0, 1),
	}

	ranked := rankRoutes(routes, nodes, 0, 0, 0)
	if len(ranked) != 2 {
		t.Fatalf("ranked %d routes, want 2", len(ranked))
	}
	if ranked[0].Route.ID != "same-level" {
		t.Errorf("nearest route = %s, want same-level", ranked[0].Route.ID)
	}
	if got := ranked[1].Distance.String(); got != "110" {
		t.Errorf("penalized distance = %s, want 110", got)
	}
}

func TestRankRoutesSkipsUnusable(t *testing.T) {
	routes := []model.EmergencyRoute{
		{ID: "empty", NodeIDs: []string{}},
		{ID: "dangling", NodeIDs: []string{"missing"}},
		{ID: "good", NodeIDs: []string{"s0"}},
	}
	nodes := map[string]model.Node{
		"s0": corridorAt("s0", 3, 4, 0),
	}

	ranked := rankRoutes(routes, nodes, 0, 0, 0)
	if len(ranked) != 1 || ranked[0].Route.ID != "good" {
		t.Fatalf("ranked = %+v, want only the resolvable route", ranked)
	}
	if got := ranked[0].Distance.String(); got != "5" {
		t.Errorf("distance = %s, want 5", got)
	}
}
