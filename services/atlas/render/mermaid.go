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

// mermaidIDReplacer maps characters Mermaid cannot carry in a node ID.
var mermaidIDReplacer = strings.NewReplacer(
	" ", "_",
	".", "_",
	"-", "_",
)

// renderMermaid emits the snapshot as a fenced Mermaid graph block,
// left-to-right orientation, matching the IDs of renderDOT where the
// same characters are sanitized.
func renderMermaid(s *graph.Snapshot) string {
	var b strings.Builder

	b.WriteString("```mermaid\n")
	b.WriteString("graph LR\n")

	for _, n := range s.Nodes {
		fmt.Fprintf(&b, "    %s[\"%s\"]\n", mermaidID(n.ID), mermaidLabel(n.Label))
	}
	b.WriteString("\n")

	for _, e := range s.Edges {
		fmt.Fprintf(&b, "    %s -->|%s| %s\n",
			mermaidID(e.Source), e.Label, mermaidID(e.Target))
	}

	b.WriteString("```\n")
	return b.String()
}

func mermaidID(id string) string {
	return mermaidIDReplacer.Replace(id)
}

// mermaidLabel swaps double quotes for single so labels cannot break
// out of the bracket syntax.
func mermaidLabel(label string) string {
	return strings.ReplaceAll(label, `"`, `'`)
}
