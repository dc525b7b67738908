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
	"strings"

	"github.com/AleutianAI/Atlas/services/atlas/graph"
)

// renderDOT emits the snapshot as a Graphviz digraph, left-to-right,
// boxed filled nodes. Node IDs are sanitized for DOT; labels are kept
// verbatim apart from quote escaping.
func renderDOT(s *graph.Snapshot) string {
	var b strings.Builder

	b.WriteString("digraph KnowledgeGraph {\n")
	b.WriteString("    rankdir=LR;\n")
	b.WriteString("    node [shape=box, style=filled, fontname=\"Arial\"];\n")
	b.WriteString("    edge [fontname=\"Arial\", fontsize=10];\n")
	b.WriteString("\n")

	for _, n := range s.Nodes {
		fmt.Fprintf(&b, "    \"%s\" [label=\"%s\", fillcolor=\"%s\"];\n",
			dotID(n.ID), dotEscape(n.Label), n.Color)
	}
	b.WriteString("\n")

	for _, e := range s.Edges {
		fmt.Fprintf(&b, "    \"%s\" -> \"%s\" [label=\"%s\", color=\"%s\"];\n",
			dotID(e.Source), dotID(e.Target), dotEscape(e.Label), e.Color)
	}

	b.WriteString("}\n")
	return b.String()
}

// dotID sanitizes a node ID for use inside a quoted DOT identifier.
func dotID(id string) string {
	id = strings.ReplaceAll(id, `"`, `\"`)
	return strings.ReplaceAll(id, ".", "_")
}

func dotEscape(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
