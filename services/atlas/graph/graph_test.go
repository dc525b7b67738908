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

import "testing"

func TestNewNodeDefaults(t *testing.T) {
	n := NewNode("a", "A", "class")

	if n.Size != DefaultNodeSize {
		t.Errorf("expected size %v, got %v", DefaultNodeSize, n.Size)
	}
	if n.Color != NodeColor("class") {
		t.Errorf("expected class color, got %q", n.Color)
	}
	if n.Attributes == nil {
		t.Error("expected non-nil attributes map")
	}
}

func TestNodeColorFallback(t *testing.T) {
	if NodeColor("class") == NodeColor("default") {
		t.Error("class must have its own color")
	}
	if NodeColor("never-seen-kind") != NodeColor("default") {
		t.Error("unknown node type must fall back to default color")
	}
	if EdgeColor("never-seen-label") != EdgeColor("default") {
		t.Error("unknown edge label must fall back to default color")
	}
}

func TestAddNodeUpsertKeepsPosition(t *testing.T) {
	g := New()
	g.AddNode(NewNode("a", "A", "class"))
	g.AddNode(NewNode("b", "B", "function"))

	// Re-adding "a" replaces the record but keeps its slot.
	replacement := NewNode("a", "A2", "method")
	g.AddNode(replacement)

	nodes := g.Nodes()
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	if nodes[0].ID != "a" || nodes[1].ID != "b" {
		t.Errorf("expected order [a b], got [%s %s]", nodes[0].ID, nodes[1].ID)
	}
	if nodes[0].Label != "A2" || nodes[0].Type != "method" {
		t.Errorf("expected replaced node, got label=%q type=%q", nodes[0].Label, nodes[0].Type)
	}
}

func TestAddNodeReplacementDiscardsAttributes(t *testing.T) {
	g := New()
	first := NewNode("a", "A", "class")
	first.Attributes["docstring"] = "original"
	g.AddNode(first)

	g.AddNode(NewNode("a", "A", "class"))

	n, _ := g.GetNode("a")
	if _, ok := n.Attributes["docstring"]; ok {
		t.Error("replacement must discard earlier attributes")
	}
}

func TestAddNodeIgnoresInvalid(t *testing.T) {
	g := New()
	g.AddNode(nil)
	g.AddNode(&Node{ID: ""})

	if g.NodeCount() != 0 {
		t.Errorf("expected 0 nodes, got %d", g.NodeCount())
	}
}

func TestAddEdgeCreatesMissingEndpoints(t *testing.T) {
	g := New()
	g.AddEdge(NewEdge("x", "y", "calls"))

	x, ok := g.GetNode("x")
	if !ok {
		t.Fatal("expected placeholder node x")
	}
	if x.Type != "default" || x.Label != "x" {
		t.Errorf("expected default placeholder, got type=%q label=%q", x.Type, x.Label)
	}
	if _, ok := g.GetNode("y"); !ok {
		t.Error("expected placeholder node y")
	}
	if g.EdgeCount() != 1 {
		t.Errorf("expected 1 edge, got %d", g.EdgeCount())
	}
}

func TestAddEdgeNeverDeduplicates(t *testing.T) {
	g := New()
	g.AddEdge(NewEdge("x", "y", "calls"))
	g.AddEdge(NewEdge("x", "y", "calls"))

	if g.EdgeCount() != 2 {
		t.Errorf("expected duplicate edges kept, got %d", g.EdgeCount())
	}
	if g.NodeCount() != 2 {
		t.Errorf("expected endpoints created once, got %d nodes", g.NodeCount())
	}
}

func TestNodesInsertionOrder(t *testing.T) {
	g := New()
	for _, id := range []string{"c", "a", "b"} {
		g.AddNode(NewNode(id, id, "class"))
	}

	nodes := g.Nodes()
	want := []string{"c", "a", "b"}
	for i, id := range want {
		if nodes[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, nodes[i].ID)
		}
	}
}
