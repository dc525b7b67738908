// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/Atlas/services/atlas/graph"
)

var diffCmd = &cobra.Command{
	Use:   "diff <base.json> <target.json>",
	Short: "Compare two graph snapshot files",
	Long: `Compare two knowledge graph snapshots previously produced with
--format json and print the differences as JSON.`,
	Args: cobra.ExactArgs(2),
	RunE: runDiffCommand,
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

func runDiffCommand(_ *cobra.Command, args []string) error {
	base, err := loadSnapshot(args[0])
	if err != nil {
		return err
	}
	target, err := loadSnapshot(args[1])
	if err != nil {
		return err
	}

	diff, err := graph.DiffSnapshots(base, target, args[0], args[1])
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(diff, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal diff: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func loadSnapshot(path string) (*graph.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	var s graph.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	return &s, nil
}
