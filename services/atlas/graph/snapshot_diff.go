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
	"fmt"
	"sort"
)

// SnapshotDiff contains the differences between two graph snapshots.
type SnapshotDiff struct {
	// BaseLabel identifies the base snapshot (typically a file path).
	BaseLabel string `json:"base_label"`

	// TargetLabel identifies the target snapshot.
	TargetLabel string `json:"target_label"`

	// NodesAdded are node IDs present in target but not in base.
	NodesAdded []string `json:"nodes_added"`

	// NodesRemoved are node IDs present in base but not in target.
	NodesRemoved []string `json:"nodes_removed"`

	// NodesModified are nodes that changed between snapshots.
	NodesModified []NodeDiff `json:"nodes_modified"`

	// EdgesAdded is the count of edges in target but not in base.
	// Duplicate edges are compared as multisets.
	EdgesAdded int `json:"edges_added"`

	// EdgesRemoved is the count of edges in base but not in target.
	EdgesRemoved int `json:"edges_removed"`

	// Summary contains aggregate statistics about the diff.
	Summary DiffSummary `json:"summary"`
}

// NodeDiff describes how a single node changed between snapshots.
type NodeDiff struct {
	// NodeID is the unique node identifier.
	NodeID string `json:"node_id"`

	// ChangeType describes what changed: "retyped", "relabeled",
	// "restyled", or "attributes_changed".
	ChangeType string `json:"change_type"`
}

// DiffSummary contains aggregate statistics about a diff.
type DiffSummary struct {
	// TotalChanges is added + removed + modified nodes + edge changes.
	TotalChanges int `json:"total_changes"`

	// ChangeRatio is the fraction of nodes that changed (0.0 to 1.0).
	ChangeRatio float64 `json:"change_ratio"`
}

// DiffSnapshots computes the differences between two snapshots.
//
// Description:
//
//	Nodes are compared by ID; a node present in both snapshots is
//	modified when its label, type, color, size, or attributes differ.
//	Edges carry no identity, so they are compared as multisets keyed
//	by (source, target, label) and reported as counts.
//
// Inputs:
//
//	base - The base snapshot. Must not be nil.
//	target - The target snapshot. Must not be nil.
//	baseLabel, targetLabel - Labels for the report.
//
// Outputs:
//
//	*SnapshotDiff - The computed differences.
//	error - Non-nil if either snapshot is nil.
func DiffSnapshots(base, target *Snapshot, baseLabel, targetLabel string) (*SnapshotDiff, error) {
	if base == nil {
		return nil, fmt.Errorf("base snapshot must not be nil")
	}
	if target == nil {
		return nil, fmt.Errorf("target snapshot must not be nil")
	}

	diff := &SnapshotDiff{
		BaseLabel:     baseLabel,
		TargetLabel:   targetLabel,
		NodesAdded:    []string{},
		NodesRemoved:  []string{},
		NodesModified: []NodeDiff{},
	}

	baseNodes := make(map[string]SnapshotNode, len(base.Nodes))
	for _, n := range base.Nodes {
		baseNodes[n.ID] = n
	}
	targetNodes := make(map[string]SnapshotNode, len(target.Nodes))
	for _, n := range target.Nodes {
		targetNodes[n.ID] = n
	}

	for id, tNode := range targetNodes {
		bNode, exists := baseNodes[id]
		if !exists {
			diff.NodesAdded = append(diff.NodesAdded, id)
			continue
		}
		if nodeChanged(bNode, tNode) {
			diff.NodesModified = append(diff.NodesModified, NodeDiff{
				NodeID:     id,
				ChangeType: classifyNodeChange(bNode, tNode),
			})
		}
	}

	for id := range baseNodes {
		if _, exists := targetNodes[id]; !exists {
			diff.NodesRemoved = append(diff.NodesRemoved, id)
		}
	}

	// Sort for deterministic output
	sort.Strings(diff.NodesAdded)
	sort.Strings(diff.NodesRemoved)
	sort.Slice(diff.NodesModified, func(i, j int) bool {
		return diff.NodesModified[i].NodeID < diff.NodesModified[j].NodeID
	})

	baseEdges := buildEdgeCounts(base.Edges)
	targetEdges := buildEdgeCounts(target.Edges)

	for key, tCount := range targetEdges {
		if bCount := baseEdges[key]; tCount > bCount {
			diff.EdgesAdded += tCount - bCount
		}
	}
	for key, bCount := range baseEdges {
		if tCount := targetEdges[key]; bCount > tCount {
			diff.EdgesRemoved += bCount - tCount
		}
	}

	totalNodes := len(baseNodes)
	if len(targetNodes) > totalNodes {
		totalNodes = len(targetNodes)
	}
	changeRatio := 0.0
	if totalNodes > 0 {
		changedNodes := len(diff.NodesAdded) + len(diff.NodesRemoved) + len(diff.NodesModified)
		changeRatio = float64(changedNodes) / float64(totalNodes)
	}

	diff.Summary = DiffSummary{
		TotalChanges: len(diff.NodesAdded) + len(diff.NodesRemoved) + len(diff.NodesModified) +
			diff.EdgesAdded + diff.EdgesRemoved,
		ChangeRatio: changeRatio,
	}

	return diff, nil
}

// nodeChanged returns true if two nodes with the same ID differ.
func nodeChanged(base, target SnapshotNode) bool {
	if base.Label != target.Label || base.Type != target.Type {
		return true
	}
	if base.Color != target.Color || base.Size != target.Size {
		return true
	}
	return !attributesEqual(base.Attributes, target.Attributes)
}

// classifyNodeChange determines the type of change between two nodes.
func classifyNodeChange(base, target SnapshotNode) string {
	if base.Type != target.Type {
		return "retyped"
	}
	if base.Label != target.Label {
		return "relabeled"
	}
	if base.Color != target.Color || base.Size != target.Size {
		return "restyled"
	}
	return "attributes_changed"
}

func attributesEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || fmt.Sprint(av) != fmt.Sprint(bv) {
			return false
		}
	}
	return true
}

// buildEdgeCounts builds a multiset of edge keys for comparison.
// Key format: "source|target|label".
func buildEdgeCounts(edges []SnapshotEdge) map[string]int {
	counts := make(map[string]int, len(edges))
	for _, e := range edges {
		counts[e.Source+"|"+e.Target+"|"+e.Label]++
	}
	return counts
}
