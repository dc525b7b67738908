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
	"fmt"
)

// Snapshot is the JSON-serializable projection of a Graph.
//
// Description:
//
//	Nodes appear in graph insertion order and edges in append order,
//	so snapshots taken from the same input sequence are identical.
//	Node and edge attributes are flattened into the enclosing JSON
//	object; the fixed keys (id, label, type, size, color for nodes;
//	source, target, label, weight, color for edges) always win over
//	an attribute of the same name.
type Snapshot struct {
	Nodes []SnapshotNode `json:"nodes"`
	Edges []SnapshotEdge `json:"edges"`
}

// SnapshotNode is one node in the snapshot contract.
type SnapshotNode struct {
	ID         string
	Label      string
	Type       string
	Size       float64
	Color      string
	Attributes map[string]any
}

// SnapshotEdge is one edge in the snapshot contract.
type SnapshotEdge struct {
	Source     string
	Target     string
	Label      string
	Weight     float64
	Color      string
	Attributes map[string]any
}

// nodeReservedKeys are the fixed snapshot node fields; attributes
// with these names are shadowed on output and reclaimed on input.
var nodeReservedKeys = map[string]struct{}{
	"id": {}, "label": {}, "type": {}, "size": {}, "color": {},
}

var edgeReservedKeys = map[string]struct{}{
	"source": {}, "target": {}, "label": {}, "weight": {}, "color": {},
}

// MarshalJSON flattens Attributes into the node object.
func (n SnapshotNode) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(n.Attributes)+5)
	for k, v := range n.Attributes {
		if _, reserved := nodeReservedKeys[k]; reserved {
			continue
		}
		obj[k] = v
	}
	obj["id"] = n.ID
	obj["label"] = n.Label
	obj["type"] = n.Type
	obj["size"] = n.Size
	obj["color"] = n.Color
	return json.Marshal(obj)
}

// UnmarshalJSON splits the fixed fields from flattened attributes.
func (n *SnapshotNode) UnmarshalJSON(data []byte) error {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	n.ID, _ = obj["id"].(string)
	n.Label, _ = obj["label"].(string)
	n.Type, _ = obj["type"].(string)
	if size, ok := obj["size"].(float64); ok {
		n.Size = size
	}
	n.Color, _ = obj["color"].(string)

	n.Attributes = make(map[string]any)
	for k, v := range obj {
		if _, reserved := nodeReservedKeys[k]; reserved {
			continue
		}
		n.Attributes[k] = v
	}
	return nil
}

// MarshalJSON flattens Attributes into the edge object.
func (e SnapshotEdge) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(e.Attributes)+5)
	for k, v := range e.Attributes {
		if _, reserved := edgeReservedKeys[k]; reserved {
			continue
		}
		obj[k] = v
	}
	obj["source"] = e.Source
	obj["target"] = e.Target
	obj["label"] = e.Label
	obj["weight"] = e.Weight
	obj["color"] = e.Color
	return json.Marshal(obj)
}

// UnmarshalJSON splits the fixed fields from flattened attributes.
func (e *SnapshotEdge) UnmarshalJSON(data []byte) error {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	e.Source, _ = obj["source"].(string)
	e.Target, _ = obj["target"].(string)
	e.Label, _ = obj["label"].(string)
	if weight, ok := obj["weight"].(float64); ok {
		e.Weight = weight
	}
	e.Color, _ = obj["color"].(string)

	e.Attributes = make(map[string]any)
	for k, v := range obj {
		if _, reserved := edgeReservedKeys[k]; reserved {
			continue
		}
		e.Attributes[k] = v
	}
	return nil
}

// ToSnapshot projects the graph into its serializable form.
//
// Outputs:
//
//	*Snapshot - Nodes in insertion order, edges in append order.
//	Never nil.
func (g *Graph) ToSnapshot() *Snapshot {
	s := &Snapshot{
		Nodes: make([]SnapshotNode, 0, len(g.order)),
		Edges: make([]SnapshotEdge, 0, len(g.edges)),
	}

	for _, id := range g.order {
		n := g.nodes[id]
		s.Nodes = append(s.Nodes, SnapshotNode{
			ID:         n.ID,
			Label:      n.Label,
			Type:       n.Type,
			Size:       n.Size,
			Color:      n.Color,
			Attributes: n.Attributes,
		})
	}

	for _, e := range g.edges {
		s.Edges = append(s.Edges, SnapshotEdge{
			Source:     e.Source,
			Target:     e.Target,
			Label:      e.Label,
			Weight:     e.Weight,
			Color:      e.Color,
			Attributes: e.Attributes,
		})
	}

	return s
}

// FromSnapshot reconstructs a Graph from a snapshot.
//
// Description:
//
//	Rebuilds through AddNode and AddEdge so the usual construction
//	invariants hold: edges referencing nodes absent from the snapshot
//	get default placeholder endpoints. A round trip through
//	ToSnapshot preserves order and content.
//
// Outputs:
//
//	*Graph - The reconstructed graph.
//	error - Non-nil if s is nil or a node is missing its ID.
func FromSnapshot(s *Snapshot) (*Graph, error) {
	if s == nil {
		return nil, fmt.Errorf("snapshot must not be nil")
	}

	g := New()

	for i, sn := range s.Nodes {
		if sn.ID == "" {
			return nil, fmt.Errorf("node at index %d has empty id", i)
		}
		attrs := sn.Attributes
		if attrs == nil {
			attrs = map[string]any{}
		}
		g.AddNode(&Node{
			ID:         sn.ID,
			Label:      sn.Label,
			Type:       sn.Type,
			Size:       sn.Size,
			Color:      sn.Color,
			Attributes: attrs,
		})
	}

	for _, se := range s.Edges {
		attrs := se.Attributes
		if attrs == nil {
			attrs = map[string]any{}
		}
		g.AddEdge(&Edge{
			Source:     se.Source,
			Target:     se.Target,
			Label:      se.Label,
			Weight:     se.Weight,
			Color:      se.Color,
			Attributes: attrs,
		})
	}

	return g, nil
}
