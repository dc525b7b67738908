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
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/AleutianAI/Atlas/services/atlas/graph"
)

func sampleSnapshot() *graph.Snapshot {
	g := graph.New()
	g.AddNode(graph.NewNode("pkg.Animal", "Animal", "class"))
	g.AddNode(graph.NewNode("pkg.Dog", "Dog", "class"))
	g.AddEdge(graph.NewEdge("pkg.Dog", "pkg.Animal", "inherits"))
	return g.ToSnapshot()
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := Render(sampleSnapshot(), "html")
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestRenderNilSnapshot(t *testing.T) {
	if _, err := Render(nil, FormatJSON); err == nil {
		t.Error("expected error for nil snapshot")
	}
}

func TestRenderJSON(t *testing.T) {
	out, err := Render(sampleSnapshot(), FormatJSON)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	var decoded graph.Snapshot
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid snapshot JSON: %v", err)
	}
	if len(decoded.Nodes) != 2 || len(decoded.Edges) != 1 {
		t.Errorf("expected 2 nodes and 1 edge, got %d/%d", len(decoded.Nodes), len(decoded.Edges))
	}
}

func TestRenderDOT(t *testing.T) {
	out, err := Render(sampleSnapshot(), FormatDOT)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for _, want := range []string{
		"digraph KnowledgeGraph {",
		"rankdir=LR;",
		`node [shape=box, style=filled, fontname="Arial"];`,
		// Dots in IDs are sanitized, labels stay verbatim.
		`"pkg_Animal" [label="Animal", fillcolor="` + graph.NodeColor("class") + `"];`,
		`"pkg_Dog" -> "pkg_Animal" [label="inherits", color="` + graph.EdgeColor("inherits") + `"];`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output missing %q:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "}") {
		t.Error("DOT output must close the digraph")
	}
}

func TestRenderDOTEscapesQuotes(t *testing.T) {
	g := graph.New()
	n := graph.NewNode("a", `say "hi"`, "class")
	g.AddNode(n)

	out, err := Render(g.ToSnapshot(), FormatDOT)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, `label="say \"hi\""`) {
		t.Errorf("expected escaped quotes in label:\n%s", out)
	}
}

func TestRenderMermaid(t *testing.T) {
	out, err := Render(sampleSnapshot(), FormatMermaid)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for _, want := range []string{
		"```mermaid",
		"graph LR",
		`pkg_Animal["Animal"]`,
		"pkg_Dog -->|inherits| pkg_Animal",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Mermaid output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSummary(t *testing.T) {
	out, err := Render(sampleSnapshot(), FormatSummary)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for _, want := range []string{
		"KNOWLEDGE GRAPH SUMMARY",
		"Total Nodes: 2",
		"Total Edges: 1",
		"  - class: 2",
		"  - inherits: 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSummaryOrdering(t *testing.T) {
	g := graph.New()
	g.AddNode(graph.NewNode("a", "a", "function"))
	g.AddNode(graph.NewNode("b", "b", "function"))
	g.AddNode(graph.NewNode("c", "c", "class"))

	out, err := Render(g.ToSnapshot(), FormatSummary)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// Most frequent type first.
	fnIdx := strings.Index(out, "- function: 2")
	clsIdx := strings.Index(out, "- class: 1")
	if fnIdx == -1 || clsIdx == -1 || fnIdx > clsIdx {
		t.Errorf("expected function before class in summary:\n%s", out)
	}
}

func TestFormats(t *testing.T) {
	formats := Formats()
	if len(formats) != 4 {
		t.Fatalf("expected 4 formats, got %d", len(formats))
	}
	for _, f := range formats {
		if _, err := Render(sampleSnapshot(), f); err != nil {
			t.Errorf("advertised format %q failed to render: %v", f, err)
		}
	}
}
