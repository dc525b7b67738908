// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command atlas generates knowledge graphs from text and source code.
//
// Usage:
//
//	go run ./cmd/atlas generate --input mycode.py --format dot
//	go run ./cmd/atlas generate --input "Python is a language." --type text
//	go run ./cmd/atlas generate --input ./src --format json --output graph.json
//	go run ./cmd/atlas diff old.json new.json
//	go run ./cmd/atlas serve --port 8080
//
// Example requests against the server:
//
//	# Health check
//	curl http://localhost:8080/v1/atlas/health
//
//	# Generate a graph from text
//	curl -X POST http://localhost:8080/v1/atlas/generate \
//	  -H "Content-Type: application/json" \
//	  -d '{"input": "Django uses Python.", "input_type": "text", "format": "summary"}'
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "atlas",
	Short: "Atlas - knowledge graph generation from text and code",
	Long: `Atlas builds knowledge graphs from natural language text and
source code, and renders them as JSON, Graphviz DOT, Mermaid, or a
plain-text summary.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
