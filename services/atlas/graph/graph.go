// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package graph holds the in-memory knowledge graph: insertion-ordered
// nodes keyed by ID, an append-only edge list, and the serializable
// snapshot projection consumed by renderers.
package graph

// Node is a single vertex in the knowledge graph.
type Node struct {
	// ID uniquely identifies the node within one graph.
	ID string

	// Label is the display name (usually the bare entity name).
	Label string

	// Type is the entity type the node came from (class, NOUN, ...).
	Type string

	// Size is the display size.
	Size float64

	// Color is the display color, resolved from Type unless overridden.
	Color string

	// Attributes carries provenance and extras (file_path, line_number,
	// docstring, ...). Values must be JSON-serializable.
	Attributes map[string]any
}

// NewNode creates a node with the default size and the type-derived color.
func NewNode(id, label, nodeType string) *Node {
	return &Node{
		ID:         id,
		Label:      label,
		Type:       nodeType,
		Size:       DefaultNodeSize,
		Color:      NodeColor(nodeType),
		Attributes: map[string]any{},
	}
}

// Edge is a directed, labeled connection between two nodes.
// Edges carry no identity: adding the same connection twice keeps
// both copies.
type Edge struct {
	// Source is the ID of the node the edge starts at.
	Source string

	// Target is the ID of the node the edge points to.
	Target string

	// Label names the relationship (inherits, calls, is_a, ...).
	Label string

	// Weight is the edge strength.
	Weight float64

	// Color is the display color, resolved from Label unless overridden.
	Color string

	// Attributes carries provenance extras (file_path, line_number).
	Attributes map[string]any
}

// NewEdge creates an edge with weight 1 and the label-derived color.
func NewEdge(source, target, label string) *Edge {
	return &Edge{
		Source:     source,
		Target:     target,
		Label:      label,
		Weight:     1.0,
		Color:      EdgeColor(label),
		Attributes: map[string]any{},
	}
}

// Graph is the mutable knowledge graph under construction.
//
// Description:
//
//	Nodes are keyed by ID and keep insertion order; re-adding an ID
//	replaces the stored node in place (last write wins, original
//	position kept). Edges are an append-only list and are never
//	deduplicated. Adding an edge whose endpoints are unknown creates
//	default placeholder nodes for them.
//
// Thread Safety:
//
//	Graph is not synchronized. Build a graph from one goroutine, or
//	guard it externally.
type Graph struct {
	nodes map[string]*Node
	order []string
	edges []*Edge
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		order: make([]string, 0),
		edges: make([]*Edge, 0),
	}
}

// AddNode inserts or replaces a node.
//
// Replacement is whole-record: a later node with the same ID discards
// the earlier node's attributes entirely. Callers that want merged
// attributes must merge before calling. The node keeps its original
// position in iteration order.
func (g *Graph) AddNode(n *Node) {
	if n == nil || n.ID == "" {
		return
	}
	if _, exists := g.nodes[n.ID]; !exists {
		g.order = append(g.order, n.ID)
	}
	g.nodes[n.ID] = n
}

// AddEdge appends an edge, creating default nodes for any endpoint
// that does not exist yet.
func (g *Graph) AddEdge(e *Edge) {
	if e == nil {
		return
	}
	if _, ok := g.nodes[e.Source]; !ok {
		g.AddNode(NewNode(e.Source, e.Source, "default"))
	}
	if _, ok := g.nodes[e.Target]; !ok {
		g.AddNode(NewNode(e.Target, e.Target, "default"))
	}
	g.edges = append(g.edges, e)
}

// GetNode returns the node with the given ID.
func (g *Graph) GetNode(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// Edges returns the edge list in insertion order.
func (g *Graph) Edges() []*Edge {
	return g.edges
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }
