// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package atlas builds knowledge graphs from text and source code.
// The Generator drives the extraction strategies, accumulates results
// into a single graph, and hands snapshots to the render package.
package atlas

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/Atlas/services/atlas/config"
	"github.com/AleutianAI/Atlas/services/atlas/extract"
	"github.com/AleutianAI/Atlas/services/atlas/graph"
	"github.com/AleutianAI/Atlas/services/atlas/render"
)

// Sentinel errors returned by file and directory processing.
var (
	// ErrFileNotFound indicates the input path does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrNotADirectory indicates the path given to ProcessDirectory
	// is not a directory.
	ErrNotADirectory = errors.New("not a directory")
)

// codeExtensions are the extensions treated as source code when the
// input type is auto-detected.
var codeExtensions = map[string]struct{}{
	".py": {}, ".js": {}, ".ts": {}, ".jsx": {}, ".tsx": {},
	".java": {}, ".cpp": {}, ".c": {}, ".h": {}, ".go": {}, ".rs": {},
}

// defaultScanExtensions are the extensions processed by a directory
// scan when neither the caller nor the config file narrows the set.
var defaultScanExtensions = []string{
	".py", ".js", ".ts", ".jsx", ".tsx", ".java", ".go",
}

// defaultExcludedDirs are directory names always skipped during scans.
var defaultExcludedDirs = map[string]struct{}{
	".git": {}, "node_modules": {}, "__pycache__": {}, "vendor": {},
}

// GeneratorOption configures a Generator instance.
type GeneratorOption func(*Generator)

// WithNLPBackend attaches an NLP backend to the text strategy.
func WithNLPBackend(backend extract.NLPBackend) GeneratorOption {
	return func(g *Generator) {
		g.nlpBackend = backend
	}
}

// WithMaxFileSize caps the size of a single parsed input.
func WithMaxFileSize(bytes int64) GeneratorOption {
	return func(g *Generator) {
		if bytes > 0 {
			g.maxFileSize = bytes
		}
	}
}

// WithScanConfig applies settings loaded from atlas.config.yaml.
// Zero-valued fields leave the built-in defaults in place.
func WithScanConfig(cfg config.Config) GeneratorOption {
	return func(g *Generator) {
		if len(cfg.Extensions) > 0 {
			g.scanExtensions = cfg.Extensions
		}
		for _, name := range cfg.Exclude {
			g.excludedDirs[name] = struct{}{}
		}
		if cfg.MaxFileSizeBytes > 0 {
			g.maxFileSize = cfg.MaxFileSizeBytes
		}
	}
}

// Generator accumulates extraction results into one knowledge graph.
//
// Description:
//
//	Process* methods can be called repeatedly; every call adds to the
//	same graph. Text entities become nodes sized by mention count,
//	code entities become nodes identified by "parent.name", and
//	relationships become edges carrying provenance attributes.
//
// Thread Safety:
//
//	Generator is not synchronized. Drive one Generator from one
//	goroutine; ProcessDirectory parallelizes parsing internally but
//	merges into the graph sequentially.
type Generator struct {
	graph          *graph.Graph
	text           *extract.TextExtractor
	code           *extract.GenericExtractor
	nlpBackend     extract.NLPBackend
	maxFileSize    int64
	scanExtensions []string
	excludedDirs   map[string]struct{}
}

// NewGenerator creates a Generator with an empty graph.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		graph:          graph.New(),
		maxFileSize:    extract.DefaultMaxFileSize,
		scanExtensions: defaultScanExtensions,
		excludedDirs:   make(map[string]struct{}, len(defaultExcludedDirs)),
	}
	for name := range defaultExcludedDirs {
		g.excludedDirs[name] = struct{}{}
	}
	for _, opt := range opts {
		opt(g)
	}

	textOpts := []extract.TextExtractorOption{
		extract.WithTextMaxInputSize(g.maxFileSize),
	}
	if g.nlpBackend != nil {
		textOpts = append(textOpts, extract.WithNLPBackend(g.nlpBackend))
	}
	g.text = extract.NewTextExtractor(textOpts...)
	g.code = extract.NewGenericExtractor(extract.WithGenericMaxFileSize(g.maxFileSize))

	return g
}

// Graph returns the graph under construction.
func (g *Generator) Graph() *graph.Graph { return g.graph }

// Snapshot returns the serializable projection of the current graph.
func (g *Generator) Snapshot() *graph.Snapshot { return g.graph.ToSnapshot() }

// ProcessText extracts entities and relationships from natural
// language text and merges them into the graph.
//
// Inputs:
//
//	ctx - Context for cancellation.
//	text - The text to analyze.
//	origin - Label for provenance (file path or "").
func (g *Generator) ProcessText(ctx context.Context, text, origin string) error {
	result, err := g.text.Parse(ctx, []byte(text), origin)
	if err != nil {
		return fmt.Errorf("text extraction failed: %w", err)
	}
	g.mergeTextResult(result)
	return nil
}

// ProcessCode extracts entities and relationships from source code
// and merges them into the graph. The language is detected from the
// origin extension, then from the content.
func (g *Generator) ProcessCode(ctx context.Context, code []byte, origin string) error {
	result, err := g.code.Parse(ctx, code, origin)
	if err != nil {
		return fmt.Errorf("code extraction failed: %w", err)
	}
	g.mergeCodeResult(result)
	return nil
}

// ProcessFile reads one file and processes it as text or code.
//
// Inputs:
//
//	path - Path to the file.
//	inputType - "text", "code", or "auto". Auto treats recognized
//	source extensions as code and everything else as text.
//
// Outputs:
//
//	error - ErrFileNotFound if the path does not exist, or a
//	processing error.
func (g *Generator) ProcessFile(ctx context.Context, path, inputType string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if inputType == "" || inputType == "auto" {
		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := codeExtensions[ext]; ok {
			inputType = "code"
		} else {
			inputType = "text"
		}
	}

	if inputType == "code" {
		return g.ProcessCode(ctx, content, path)
	}
	return g.ProcessText(ctx, string(content), path)
}

// ProcessDirectory walks a directory tree and processes every file
// matching the extension filter as code.
//
// Description:
//
//	Files are parsed concurrently (bounded by GOMAXPROCS) but merged
//	into the graph in walk order, so the resulting graph is the same
//	as a sequential scan. A file that fails to parse is logged and
//	skipped; it does not abort the scan.
//
// Inputs:
//
//	dir - Root directory to scan.
//	extensions - Extension filter (with leading dots). Nil or empty
//	uses the configured default set.
//
// Outputs:
//
//	error - ErrNotADirectory if dir is not a directory, a walk
//	error, or context cancellation.
func (g *Generator) ProcessDirectory(ctx context.Context, dir string, extensions []string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, dir)
		}
		return fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotADirectory, dir)
	}

	if len(extensions) == 0 {
		extensions = g.scanExtensions
	}
	wanted := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		wanted[strings.ToLower(ext)] = struct{}{}
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if _, excluded := g.excludedDirs[d.Name()]; excluded && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := wanted[strings.ToLower(filepath.Ext(path))]; ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	sort.Strings(files)

	// Parse in parallel, merge in walk order for determinism.
	results := make([]*extract.Result, len(files))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range files {
		i, path := i, path
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(path)
			if err != nil {
				slog.Warn("skipping unreadable file",
					slog.String("file", path),
					slog.String("error", err.Error()))
				return nil
			}
			result, err := g.code.Parse(egCtx, content, path)
			if err != nil {
				slog.Warn("skipping file that failed to parse",
					slog.String("file", path),
					slog.String("error", err.Error()))
				return nil
			}
			results[i] = result
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("directory scan canceled: %w", err)
	}

	for _, result := range results {
		if result == nil {
			continue
		}
		slog.Info("processed file",
			slog.String("file", result.Origin),
			slog.Int("entities", len(result.Entities)),
			slog.Int("relationships", len(result.Relationships)))
		g.mergeCodeResult(result)
	}

	return nil
}

// Render serializes the current graph into the named format.
func (g *Generator) Render(format string) (string, error) {
	return render.Render(g.Snapshot(), format)
}

// Summary returns the plain-text overview of the current graph.
func (g *Generator) Summary() string {
	out, _ := render.Render(g.Snapshot(), render.FormatSummary)
	return out
}

// mergeTextResult adds text entities and relationships to the graph.
// Node size grows with mention count so frequently referenced
// entities render larger.
func (g *Generator) mergeTextResult(result *extract.Result) {
	for _, e := range result.Entities {
		n := graph.NewNode(e.Name, e.Name, string(e.Kind))
		n.Size = 20 + float64(e.Mentions)*5
		g.graph.AddNode(n)
	}
	for _, r := range result.Relationships {
		edge := graph.NewEdge(r.Source, r.Target, string(r.Kind))
		if r.Weight > 0 {
			edge.Weight = r.Weight
		}
		g.graph.AddEdge(edge)
	}
}

// mergeCodeResult adds code entities and relationships to the graph.
// Scoped entities get "parent.name" IDs; nodes and edges carry
// file path and line number provenance.
func (g *Generator) mergeCodeResult(result *extract.Result) {
	for _, e := range result.Entities {
		id := e.Name
		if e.Parent != "" {
			id = e.Parent + "." + e.Name
		}
		n := graph.NewNode(id, e.Name, string(e.Kind))
		n.Attributes = map[string]any{
			"file_path":   e.FilePath,
			"line_number": e.Line,
			"docstring":   e.Docstring,
		}
		g.graph.AddNode(n)
	}
	for _, r := range result.Relationships {
		edge := graph.NewEdge(r.Source, r.Target, string(r.Kind))
		edge.Attributes = map[string]any{
			"file_path":   r.FilePath,
			"line_number": r.Line,
		}
		g.graph.AddEdge(edge)
	}
}
