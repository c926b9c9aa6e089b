package grid

import (
	"context"
	"math"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"stadium/api/model"
)

// memTiles is an in-memory TileStore. Replace counts calls so tests can
// assert the atomic-swap discipline.
type memTiles struct {
	tiles    map[string]*model.Tile
	replaces int
}

func newMemTiles() *memTiles {
	return &memTiles{tiles: map[string]*model.Tile{}}
}

func (m *memTiles) Get(id string) (*model.Tile, error) {
	t, found := m.tiles[id]
	if !found {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *memTiles) Put(tile *model.Tile) error {
	cp := *tile
	m.tiles[tile.ID] = &cp
	return nil
}

func (m *memTiles) Replace(tiles []*model.Tile) error {
	m.replaces++
	m.tiles = map[string]*model.Tile{}
	for _, t := range tiles {
		cp := *t
		m.tiles[t.ID] = &cp
	}
	return nil
}

func (m *memTiles) All(level *int) ([]model.Tile, error) {
	var out []model.Tile
	for _, t := range m.tiles {
		if level == nil || t.Level == *level {
			out = append(out, *t)
		}
	}
	return out, nil
}

type memNodes struct {
	nodes []model.Node
}

func (m *memNodes) GetByIDs(ids []string) ([]model.Node, error) {
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []model.Node
	for _, n := range m.nodes {
		if want[n.ID] {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memNodes) All() ([]model.Node, error) {
	return m.nodes, nil
}

func testIndex(t *testing.T) (*Index, *memTiles) {
	t.Helper()
	g, err := NewGrid(5.0, 0, 0)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	tiles := newMemTiles()
	return NewIndex(g, tiles), tiles
}

func TestGetOrCreateTileBounds(t *testing.T) {
	ix, _ := testIndex(t)

	tile, err := ix.GetOrCreateTile(12.0, 7.0, 0)
	if err != nil {
		t.Fatalf("GetOrCreateTile: %v", err)
	}
	if tile.ID != "tile_2_1_0" {
		t.Errorf("tile id = %q, want tile_2_1_0", tile.ID)
	}
	if tile.MinX != 10 || tile.MaxX != 15 || tile.MinY != 5 || tile.MaxY != 10 {
		t.Errorf("tile bounds = [%v,%v]x[%v,%v], want [10,15]x[5,10]",
			tile.MinX, tile.MaxX, tile.MinY, tile.MaxY)
	}
	if !tile.Walkable {
		t.Error("new tile should be walkable")
	}
	if len(tile.NodeIDs)+len(tile.PoiIDs)+len(tile.SeatIDs)+len(tile.GateIDs) != 0 {
		t.Errorf("new tile should have empty membership: %s", spew.Sdump(tile))
	}
}

func TestGetOrCreateTileRejectsNonFinite(t *testing.T) {
	ix, _ := testIndex(t)
	nan := 0.0
	nan = nan / nan
	if _, err := ix.GetOrCreateTile(nan, 0, 0); err == nil {
		t.Error("NaN x should be rejected")
	}
}

func TestAssignEntityFilesGateInBothLists(t *testing.T) {
	ix, _ := testIndex(t)

	tile, err := ix.AssignEntity(12.0, 7.0, 0, CategoryGate, "GATE-1")
	if err != nil {
		t.Fatalf("AssignEntity: %v", err)
	}
	if len(tile.NodeIDs) != 1 || tile.NodeIDs[0] != "GATE-1" {
		t.Errorf("NodeIDs = %v, want [GATE-1]", tile.NodeIDs)
	}
	if len(tile.GateIDs) != 1 || tile.GateIDs[0] != "GATE-1" {
		t.Errorf("GateIDs = %v, want [GATE-1]", tile.GateIDs)
	}
	if len(tile.PoiIDs) != 0 || len(tile.SeatIDs) != 0 {
		t.Errorf("gate leaked into other lists: %s", spew.Sdump(tile))
	}
}

func TestAssignEntityIdempotent(t *testing.T) {
	ix, _ := testIndex(t)

	ix.AssignEntity(1, 1, 0, CategorySeat, "s1")
	ix.AssignEntity(2, 2, 0, CategorySeat, "s2")
	tile, err := ix.AssignEntity(1, 1, 0, CategorySeat, "s1")
	if err != nil {
		t.Fatalf("AssignEntity: %v", err)
	}

	if got := tile.SeatIDs; len(got) != 2 || got[0] != "s1" || got[1] != "s2" {
		t.Errorf("SeatIDs = %v, want [s1 s2] with original order", got)
	}
	if got := tile.NodeIDs; len(got) != 2 || got[0] != "s1" || got[1] != "s2" {
		t.Errorf("NodeIDs = %v, want [s1 s2]", got)
	}
}

func TestEntitiesInCellPartitions(t *testing.T) {
	ix, _ := testIndex(t)
	nodes := &memNodes{nodes: []model.Node{
		{ID: "c1", X: 1, Y: 1, Type: model.NodeTypeCorridor},
		{ID: "c2", X: 2, Y: 2, Type: model.NodeTypeCorridor},
		{ID: "s1", X: 3, Y: 3, Type: model.NodeTypeSeat},
		{ID: "s2", X: 3, Y: 4, Type: model.NodeTypeSeat},
		{ID: "s3", X: 4, Y: 4, Type: model.NodeTypeSeat},
	}}
	for _, n := range nodes.nodes {
		if _, err := ix.AssignEntity(n.X, n.Y, 0, CategoryForType(n.Type), n.ID); err != nil {
			t.Fatalf("AssignEntity(%s): %v", n.ID, err)
		}
	}

	contents, err := ix.EntitiesInCell(nodes, 0, 0, 0)
	if err != nil {
		t.Fatalf("EntitiesInCell: %v", err)
	}
	if len(contents.Nodes) != 5 {
		t.Errorf("complete list has %d entries, want 5: %s", len(contents.Nodes), spew.Sdump(contents))
	}
	if len(contents.Seats) != 3 {
		t.Errorf("seats = %d, want 3", len(contents.Seats))
	}
	if len(contents.Pois) != 0 || len(contents.Gates) != 0 {
		t.Error("unexpected pois or gates in cell")
	}
}

func TestEntitiesInCellEmpty(t *testing.T) {
	ix, _ := testIndex(t)
	contents, err := ix.EntitiesInCell(&memNodes{}, 9, 9, 0)
	if err != nil {
		t.Fatalf("EntitiesInCell: %v", err)
	}
	if contents.Tile != nil {
		t.Error("unpopulated cell should have nil tile")
	}
	if contents.Nodes == nil || len(contents.Nodes) != 0 {
		t.Errorf("unpopulated cell should have empty non-nil lists, got %v", contents.Nodes)
	}
}

func TestEntitiesInCellDropsStaleIDs(t *testing.T) {
	ix, _ := testIndex(t)
	ix.AssignEntity(1, 1, 0, CategoryNode, "ghost")
	ix.AssignEntity(1, 2, 0, CategoryNode, "real")

	nodes := &memNodes{nodes: []model.Node{{ID: "real", X: 1, Y: 2, Type: model.NodeTypeCorridor}}}
	contents, err := ix.EntitiesInCell(nodes, 0, 0, 0)
	if err != nil {
		t.Fatalf("EntitiesInCell: %v", err)
	}
	if len(contents.Nodes) != 1 || contents.Nodes[0].ID != "real" {
		t.Errorf("stale id not dropped: %v", contents.Nodes)
	}
	// The tile itself still carries the stale id until a rebuild.
	if len(contents.Tile.NodeIDs) != 2 {
		t.Errorf("tile membership = %v, want both ids", contents.Tile.NodeIDs)
	}
}

func TestLevelsDoNotShareTiles(t *testing.T) {
	ix, _ := testIndex(t)
	ix.AssignEntity(1, 1, 0, CategoryNode, "ground")
	ix.AssignEntity(1, 1, 1, CategoryNode, "upper")

	nodes := &memNodes{nodes: []model.Node{
		{ID: "ground", X: 1, Y: 1, Level: 0, Type: model.NodeTypeCorridor},
		{ID: "upper", X: 1, Y: 1, Level: 1, Type: model.NodeTypeCorridor},
	}}

	c0, _ := ix.EntitiesInCell(nodes, 0, 0, 0)
	c1, _ := ix.EntitiesInCell(nodes, 0, 0, 1)
	if len(c0.Nodes) != 1 || c0.Nodes[0].ID != "ground" {
		t.Errorf("level 0 cell = %v", c0.Nodes)
	}
	if len(c1.Nodes) != 1 || c1.Nodes[0].ID != "upper" {
		t.Errorf("level 1 cell = %v", c1.Nodes)
	}
}

func TestRebuildMatchesIncrementalShape(t *testing.T) {
	ix, tiles := testIndex(t)
	nodes := &memNodes{nodes: []model.Node{
		{ID: "GATE-1", X: 12, Y: 7, Level: 0, Type: model.NodeTypeGate},
		{ID: "wc1", X: 13, Y: 8, Level: 0, Type: model.NodeTypeRestroom},
		{ID: "s1", X: 14, Y: 9, Level: 0, Type: model.NodeTypeSeat},
		{ID: "c1", X: 11, Y: 6, Level: 0, Type: model.NodeTypeCorridor},
	}}

	count, err := ix.Rebuild(context.Background(), nodes)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if count != 1 {
		t.Fatalf("rebuild created %d tiles, want 1", count)
	}

	tile, _ := tiles.Get("tile_2_1_0")
	if tile == nil {
		t.Fatal("tile_2_1_0 missing after rebuild")
	}
	if len(tile.NodeIDs) != 4 {
		t.Errorf("complete list = %v, want all four ids", tile.NodeIDs)
	}
	if len(tile.GateIDs) != 1 || len(tile.PoiIDs) != 1 || len(tile.SeatIDs) != 1 {
		t.Errorf("category lists wrong: %s", spew.Sdump(tile))
	}

	// Category lists must be subsets of the complete list.
	inNodes := map[string]bool{}
	for _, id := range tile.NodeIDs {
		inNodes[id] = true
	}
	for _, list := range [][]string{tile.GateIDs, tile.PoiIDs, tile.SeatIDs} {
		for _, id := range list {
			if !inNodes[id] {
				t.Errorf("id %s in category list but not in complete list", id)
			}
		}
	}
}

func TestRebuildIdempotent(t *testing.T) {
	ix, tiles := testIndex(t)
	nodes := &memNodes{nodes: []model.Node{
		{ID: "a", X: 1, Y: 1, Type: model.NodeTypeCorridor},
		{ID: "b", X: 100, Y: 100, Type: model.NodeTypeCorridor},
	}}

	c1, err := ix.Rebuild(context.Background(), nodes)
	if err != nil {
		t.Fatalf("first rebuild: %v", err)
	}
	c2, err := ix.Rebuild(context.Background(), nodes)
	if err != nil {
		t.Fatalf("second rebuild: %v", err)
	}
	if c1 != c2 || c1 != 2 {
		t.Errorf("rebuild counts %d and %d, want 2 and 2", c1, c2)
	}
	if tiles.replaces != 2 {
		t.Errorf("Replace called %d times, want once per rebuild", tiles.replaces)
	}
}

func TestRebuildDropsStaleAndSkipsNonFinite(t *testing.T) {
	ix, tiles := testIndex(t)
	ix.AssignEntity(1, 1, 0, CategoryNode, "ghost")

	inf := math.Inf(1)
	nodes := &memNodes{nodes: []model.Node{
		{ID: "real", X: 1, Y: 1, Type: model.NodeTypeCorridor},
		{ID: "broken", X: inf, Y: 1, Type: model.NodeTypeCorridor},
	}}
	if _, err := ix.Rebuild(context.Background(), nodes); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	tile, _ := tiles.Get("tile_0_0_0")
	if tile == nil {
		t.Fatal("tile missing after rebuild")
	}
	if len(tile.NodeIDs) != 1 || tile.NodeIDs[0] != "real" {
		t.Errorf("NodeIDs = %v, want only the real node", tile.NodeIDs)
	}
}

func TestRebuildCancellationLeavesStoreUntouched(t *testing.T) {
	ix, tiles := testIndex(t)
	ix.AssignEntity(1, 1, 0, CategoryNode, "before")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	nodes := &memNodes{nodes: []model.Node{{ID: "after", X: 2, Y: 2, Type: model.NodeTypeCorridor}}}
	if _, err := ix.Rebuild(ctx, nodes); err == nil {
		t.Fatal("rebuild with cancelled context should fail")
	}
	if tiles.replaces != 0 {
		t.Error("cancelled rebuild must not touch the tile store")
	}
	tile, _ := tiles.Get("tile_0_0_0")
	if tile == nil || len(tile.NodeIDs) != 1 || tile.NodeIDs[0] != "before" {
		t.Errorf("previous tiles modified by cancelled rebuild: %v", tile)
	}
}

func TestStats(t *testing.T) {
	ix, _ := testIndex(t)
	ix.AssignEntity(1, 1, 0, CategoryGate, "g1")
	ix.AssignEntity(1, 1, 0, CategorySeat, "s1")
	ix.AssignEntity(100, 100, 1, CategoryPoi, "p1")

	st, err := ix.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := Stats{TotalTiles: 2, Nodes: 3, Pois: 1, Seats: 1, Gates: 1}
	if st != want {
		t.Errorf("Stats = %+v, want %+v", st, want)
	}
}

func TestCategoryForType(t *testing.T) {
	tests := []struct {
		nodeType string
		want     Category
	}{
		{model.NodeTypeGate, CategoryGate},
		{model.NodeTypeSeat, CategorySeat},
		{model.NodeTypeRestroom, CategoryPoi},
		{model.NodeTypeVipBox, CategoryPoi},
		{model.NodeTypeEmergencyExit, CategoryPoi},
		{model.NodeTypeCorridor, CategoryNode},
		{model.NodeTypeStairs, CategoryNode},
		{"unknown", CategoryNode},
	}
	for _, tt := range tests {
		if got := CategoryForType(tt.nodeType); got != tt.want {
			t.Errorf("CategoryForType(%q) = %v, want %v", tt.nodeType, got, tt.want)
		}
	}
}
