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
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/Atlas/services/atlas"
	"github.com/AleutianAI/Atlas/services/atlas/config"
)

var (
	generateInput      string
	generateType       string
	generateOutput     string
	generateFormat     string
	generateExtensions []string
	generateSummary    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a knowledge graph from a file, directory, or text",
	Long: `Generate a knowledge graph from the given input.

The input is a file path, a directory path, or a raw text string.
Files and directories are read from disk; anything else is treated as
raw input of the given --type.`,
	RunE: runGenerateCommand,
}

func init() {
	generateCmd.Flags().StringVarP(&generateInput, "input", "i", "", "Input file, directory, or text string (required)")
	generateCmd.Flags().StringVarP(&generateType, "type", "t", "auto", "Type of input: text, code, or auto")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output file path (default: stdout)")
	generateCmd.Flags().StringVarP(&generateFormat, "format", "f", "json", "Output format: json, dot, mermaid, or summary")
	generateCmd.Flags().StringSliceVarP(&generateExtensions, "extensions", "e", nil, "File extensions to process (for directories)")
	generateCmd.Flags().BoolVar(&generateSummary, "summary", false, "Print a graph summary to stderr")
	_ = generateCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(generateCmd)
}

func runGenerateCommand(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch generateType {
	case "text", "code", "auto":
	default:
		return fmt.Errorf("invalid --type %q: must be text, code, or auto", generateType)
	}

	info, statErr := os.Stat(generateInput)

	var genOpts []atlas.GeneratorOption
	if statErr == nil && info.IsDir() {
		cfg, err := config.Load(generateInput)
		if err != nil {
			return err
		}
		genOpts = append(genOpts, atlas.WithScanConfig(cfg))
	}
	gen := atlas.NewGenerator(genOpts...)

	switch {
	case statErr == nil && info.IsDir():
		slog.Info("processing directory", slog.String("path", generateInput))
		if err := gen.ProcessDirectory(ctx, generateInput, generateExtensions); err != nil {
			return err
		}
	case statErr == nil:
		slog.Info("processing file", slog.String("path", generateInput))
		if err := gen.ProcessFile(ctx, generateInput, generateType); err != nil {
			return err
		}
	default:
		// Not a path on disk: treat the input as raw text or code.
		if generateType == "code" {
			if err := gen.ProcessCode(ctx, []byte(generateInput), ""); err != nil {
				return err
			}
		} else {
			if err := gen.ProcessText(ctx, generateInput, ""); err != nil {
				return err
			}
		}
	}

	snapshot := gen.Snapshot()
	if len(snapshot.Nodes) == 0 {
		fmt.Fprintln(os.Stderr, "No entities found in the input.")
		return nil
	}

	if generateSummary {
		fmt.Fprint(os.Stderr, gen.Summary())
	}

	output, err := gen.Render(generateFormat)
	if err != nil {
		return err
	}

	if generateOutput == "" {
		fmt.Println(output)
		return nil
	}
	if err := os.WriteFile(generateOutput, []byte(output), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", generateOutput, err)
	}
	fmt.Fprintf(os.Stderr, "Output saved to: %s\n", generateOutput)
	return nil
}
