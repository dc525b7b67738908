// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AleutianAI/Atlas/services/atlas/graph"
)

// renderSummary emits a human-readable overview: totals plus node and
// relationship type histograms, most frequent first (ties broken by
// name so output is deterministic).
func renderSummary(s *graph.Snapshot) string {
	nodeTypes := make(map[string]int)
	for _, n := range s.Nodes {
		nodeTypes[n.Type]++
	}
	edgeTypes := make(map[string]int)
	for _, e := range s.Edges {
		edgeTypes[e.Label]++
	}

	var b strings.Builder
	banner := strings.Repeat("=", 50)

	b.WriteString(banner + "\n")
	b.WriteString("KNOWLEDGE GRAPH SUMMARY\n")
	b.WriteString(banner + "\n")
	fmt.Fprintf(&b, "Total Nodes: %d\n", len(s.Nodes))
	fmt.Fprintf(&b, "Total Edges: %d\n", len(s.Edges))

	b.WriteString("\nNode Types:\n")
	for _, tc := range sortedCounts(nodeTypes) {
		fmt.Fprintf(&b, "  - %s: %d\n", tc.name, tc.count)
	}

	b.WriteString("\nRelationship Types:\n")
	for _, tc := range sortedCounts(edgeTypes) {
		fmt.Fprintf(&b, "  - %s: %d\n", tc.name, tc.count)
	}

	b.WriteString(banner + "\n")
	return b.String()
}

type typeCount struct {
	name  string
	count int
}

func sortedCounts(m map[string]int) []typeCount {
	out := make([]typeCount, 0, len(m))
	for name, count := range m {
		out = append(out, typeCount{name, count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].name < out[j].name
	})
	return out
}
