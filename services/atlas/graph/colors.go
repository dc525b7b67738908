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

// DefaultNodeSize is the size assigned to nodes that do not set one.
const DefaultNodeSize = 25.0

// nodeColors maps node types to their display color. The tables are
// fixed for the process; callers override per node when they need to.
var nodeColors = map[string]string{
	// Code entities
	"class":    "#e74c3c",
	"function": "#3498db",
	"method":   "#9b59b6",
	"variable": "#2ecc71",
	"import":   "#f39c12",
	"module":   "#1abc9c",
	// Text entities
	"PERSON":    "#e74c3c",
	"ORG":       "#3498db",
	"GPE":       "#2ecc71",
	"CONCEPT":   "#9b59b6",
	"NOUN":      "#f39c12",
	"TECHNICAL": "#1abc9c",
	"STRING":    "#95a5a6",
	// Default
	"default": "#34495e",
}

var edgeColors = map[string]string{
	"inherits":   "#e74c3c",
	"extends":    "#e74c3c",
	"implements": "#c0392b",
	"imports":    "#f39c12",
	"calls":      "#3498db",
	"uses":       "#2ecc71",
	"contains":   "#9b59b6",
	"is_a":       "#1abc9c",
	"has":        "#27ae60",
	"depends_on": "#e67e22",
	"exports":    "#16a085",
	"default":    "#7f8c8d",
}

// NodeColor returns the display color for a node type, falling back
// to the default color for unknown types.
func NodeColor(nodeType string) string {
	if c, ok := nodeColors[nodeType]; ok {
		return c
	}
	return nodeColors["default"]
}

// EdgeColor returns the display color for an edge label, falling back
// to the default color for unknown labels.
func EdgeColor(label string) string {
	if c, ok := edgeColors[label]; ok {
		return c
	}
	return edgeColors["default"]
}
