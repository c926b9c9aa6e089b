package search

import (
	"testing"

	"stadium/api/model"
)

func name(s string) *string { return &s }

func testNodes() []model.Node {
	return []model.Node{
		{ID: "GATE-21", Type: model.NodeTypeGate, Level: 0, Name: name("Porta 21")},
		{ID: "GATE-22", Type: model.NodeTypeGate, Level: 0, Name: name("Porta 22")},
		{ID: "wc1", Type: model.NodeTypeRestroom, Level: 1, Name: name("Casa de banho norte")},
		{ID: "food1", Type: model.NodeTypeFood, Level: 0, Name: name("Quiosque francesinha")},
		{ID: "seat1", Type: model.NodeTypeSeat, Level: 0, Name: name("Porta falsa")},
		{ID: "c1", Type: model.NodeTypeCorridor, Level: 0, Name: name("outer L0 P0")},
	}
}

func TestSearchFindsGateByName(t *testing.T) {
	idx, err := NewIndex()
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	if err := idx.Rebuild(testNodes()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	hits, err := idx.Search("Porta 21", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) == 0 {
		t.Fatal("no hits for gate name")
	}
	if hits[0].ID != "GATE-21" {
		t.Errorf("top hit = %s, want GATE-21", hits[0].ID)
	}
}

func TestSearchSkipsSeatsAndCorridors(t *testing.T) {
	idx, err := NewIndex()
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	if err := idx.Rebuild(testNodes()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	hits, err := idx.Search("Porta", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, h := range hits {
		if h.ID == "seat1" || h.ID == "c1" {
			t.Errorf("unindexable node %s returned by search", h.ID)
		}
	}
}

func TestUpsertMakesNewNodeSearchable(t *testing.T) {
	idx, err := NewIndex()
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	if err := idx.Rebuild(testNodes()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	if err := idx.Upsert(model.Node{
		ID: "GATE-99", Type: model.NodeTypeGate, Level: 0, Name: name("Porta 99"),
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	hits, err := idx.Search("Porta 99", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) == 0 || hits[0].ID != "GATE-99" {
		t.Errorf("freshly upserted gate not found, hits = %v", hits)
	}
}

func TestUpsertUnindexableTypeRemoves(t *testing.T) {
	idx, err := NewIndex()
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	if err := idx.Rebuild(testNodes()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	// The node keeps its id but is retyped into something search ignores.
	if err := idx.Upsert(model.Node{
		ID: "GATE-21", Type: model.NodeTypeSeat, Level: 0, Name: name("Porta 21"),
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	hits, err := idx.Search("Porta 21", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, h := range hits {
		if h.ID == "GATE-21" {
			t.Error("retyped node still searchable")
		}
	}
}

func TestDeleteRemovesNode(t *testing.T) {
	idx, err := NewIndex()
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	if err := idx.Rebuild(testNodes()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	if err := idx.Delete("GATE-21"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := idx.Delete("never-existed"); err != nil {
		t.Errorf("deleting an unknown id should be a no-op, got %v", err)
	}

	hits, err := idx.Search("Porta 21", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, h := range hits {
		if h.ID == "GATE-21" {
			t.Error("deleted node still searchable")
		}
	}
}

func TestRebuildReplacesContents(t *testing.T) {
	idx, err := NewIndex()
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	if err := idx.Rebuild(testNodes()); err != nil {
		t.Fatalf("first rebuild: %v", err)
	}
	if err := idx.Rebuild([]model.Node{
		{ID: "only", Type: model.NodeTypeGate, Name: name("Porta nova")},
	}); err != nil {
		t.Fatalf("second rebuild: %v", err)
	}

	hits, err := idx.Search("Porta 21", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, h := range hits {
		if h.ID == "GATE-21" {
			t.Error("old contents survived rebuild")
		}
	}
}
