// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"encoding/json"
	"testing"
)

func buildSampleGraph() *Graph {
	g := New()

	a := NewNode("pkg.Animal", "Animal", "class")
	a.Attributes["file_path"] = "zoo.py"
	a.Attributes["line_number"] = 3
	g.AddNode(a)
	g.AddNode(NewNode("pkg.Dog", "Dog", "class"))

	e := NewEdge("pkg.Dog", "pkg.Animal", "inherits")
	e.Attributes["file_path"] = "zoo.py"
	g.AddEdge(e)

	return g
}

func TestSnapshotFlattensAttributes(t *testing.T) {
	s := buildSampleGraph().ToSnapshot()

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var raw struct {
		Nodes []map[string]any `json:"nodes"`
		Edges []map[string]any `json:"edges"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if len(raw.Nodes) != 2 || len(raw.Edges) != 1 {
		t.Fatalf("expected 2 nodes and 1 edge, got %d/%d", len(raw.Nodes), len(raw.Edges))
	}

	first := raw.Nodes[0]
	if first["id"] != "pkg.Animal" {
		t.Errorf("expected first node pkg.Animal, got %v", first["id"])
	}
	// Attributes sit next to the fixed fields, not nested.
	if first["file_path"] != "zoo.py" {
		t.Errorf("expected flattened file_path, got %v", first["file_path"])
	}
	if _, nested := first["attributes"]; nested {
		t.Error("attributes must be flattened, not nested")
	}
	if raw.Edges[0]["file_path"] != "zoo.py" {
		t.Errorf("expected flattened edge attribute, got %v", raw.Edges[0]["file_path"])
	}
}

func TestSnapshotReservedKeysWin(t *testing.T) {
	g := New()
	n := NewNode("a", "A", "class")
	n.Attributes["label"] = "smuggled"
	g.AddNode(n)

	data, err := json.Marshal(g.ToSnapshot())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var raw struct {
		Nodes []map[string]any `json:"nodes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if raw.Nodes[0]["label"] != "A" {
		t.Errorf("fixed field must shadow attribute, got %v", raw.Nodes[0]["label"])
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	original := buildSampleGraph().ToSnapshot()

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded Snapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	g, err := FromSnapshot(&decoded)
	if err != nil {
		t.Fatalf("FromSnapshot failed: %v", err)
	}

	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Fatalf("expected 2 nodes and 1 edge, got %d/%d", g.NodeCount(), g.EdgeCount())
	}

	animal, ok := g.GetNode("pkg.Animal")
	if !ok {
		t.Fatal("expected pkg.Animal after round trip")
	}
	if animal.Attributes["file_path"] != "zoo.py" {
		t.Errorf("expected attribute preserved, got %v", animal.Attributes["file_path"])
	}
	// JSON numbers decode as float64; the value survives, the Go type
	// does not.
	if animal.Attributes["line_number"] != float64(3) {
		t.Errorf("expected line_number 3, got %v", animal.Attributes["line_number"])
	}

	nodes := g.Nodes()
	if nodes[0].ID != "pkg.Animal" || nodes[1].ID != "pkg.Dog" {
		t.Errorf("expected insertion order preserved, got [%s %s]", nodes[0].ID, nodes[1].ID)
	}
}

func TestFromSnapshotValidation(t *testing.T) {
	if _, err := FromSnapshot(nil); err == nil {
		t.Error("expected error for nil snapshot")
	}

	s := &Snapshot{Nodes: []SnapshotNode{{ID: ""}}}
	if _, err := FromSnapshot(s); err == nil {
		t.Error("expected error for node with empty id")
	}
}

func TestFromSnapshotCreatesEdgeEndpoints(t *testing.T) {
	s := &Snapshot{
		Edges: []SnapshotEdge{{Source: "x", Target: "y", Label: "calls", Weight: 1}},
	}

	g, err := FromSnapshot(s)
	if err != nil {
		t.Fatalf("FromSnapshot failed: %v", err)
	}
	if g.NodeCount() != 2 {
		t.Errorf("expected placeholder endpoints, got %d nodes", g.NodeCount())
	}
}
