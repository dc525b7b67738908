// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package render serializes graph snapshots into output formats:
// pretty-printed JSON, Graphviz DOT, Mermaid, and a plain-text summary.
package render

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AleutianAI/Atlas/services/atlas/graph"
)

// ErrUnknownFormat indicates the requested output format is not supported.
var ErrUnknownFormat = errors.New("unknown output format")

// Supported output formats.
const (
	FormatJSON    = "json"
	FormatDOT     = "dot"
	FormatMermaid = "mermaid"
	FormatSummary = "summary"
)

// Formats returns the supported format names in presentation order.
func Formats() []string {
	return []string{FormatJSON, FormatDOT, FormatMermaid, FormatSummary}
}

// Render serializes a snapshot into the named format.
//
// Inputs:
//
//	s - The snapshot to render. Must not be nil.
//	format - One of "json", "dot", "mermaid", "summary".
//
// Outputs:
//
//	string - The rendered output.
//	error - ErrUnknownFormat for unrecognized formats, or a
//	serialization error.
func Render(s *graph.Snapshot, format string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("snapshot must not be nil")
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal snapshot: %w", err)
		}
		return string(data), nil
	case FormatDOT:
		return renderDOT(s), nil
	case FormatMermaid:
		return renderMermaid(s), nil
	case FormatSummary:
		return renderSummary(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
