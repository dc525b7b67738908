// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package extract

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// languagePattern pairs an entity kind with the regex that finds it.
// The first non-empty capture group is the entity name.
type languagePattern struct {
	kind EntityKind
	re   *regexp.Regexp
}

// languagePatterns are the per-language pattern tables for the
// generic strategy. Order matters: entities are emitted table-entry
// by table-entry, matches in source order within each entry.
var languagePatterns = map[string][]languagePattern{
	"python": {
		{EntityClass, regexp.MustCompile(`class\s+(\w+)`)},
		{EntityFunction, regexp.MustCompile(`def\s+(\w+)`)},
		{EntityImport, regexp.MustCompile(`import\s+(\w+)|from\s+(\w+)\s+import`)},
	},
	"javascript": {
		{EntityClass, regexp.MustCompile(`class\s+(\w+)`)},
		{EntityFunction, regexp.MustCompile(`function\s+(\w+)|(\w+)\s*=\s*(?:async\s+)?\([^)]*\)\s*=>`)},
		{EntityImport, regexp.MustCompile(`import\s+.*from\s+['"]([^'"]+)['"]|require\(['"]([^'"]+)['"]\)`)},
	},
	"java": {
		{EntityClass, regexp.MustCompile(`(?:public|private|protected)?\s*class\s+(\w+)`)},
		{EntityFunction, regexp.MustCompile(`(?:public|private|protected)?\s*(?:static\s+)?\w+\s+(\w+)\s*\(`)},
		{EntityImport, regexp.MustCompile(`import\s+([\w.]+)`)},
	},
	"cpp": {
		{EntityClass, regexp.MustCompile(`class\s+(\w+)`)},
		{EntityFunction, regexp.MustCompile(`(?:\w+\s+)+(\w+)\s*\([^)]*\)\s*\{`)},
		{EntityImport, regexp.MustCompile(`#include\s*[<"]([^>"]+)[>"]`)},
	},
	"go": {
		{"struct", regexp.MustCompile(`type\s+(\w+)\s+struct`)},
		{EntityFunction, regexp.MustCompile(`func\s+(?:\([^)]+\)\s+)?(\w+)\s*\(`)},
		{EntityImport, regexp.MustCompile(`import\s+["']([^"']+)["']`)},
	},
}

// extensionLanguages maps file extensions to the language key used
// for pattern table and specialized extractor selection.
var extensionLanguages = map[string]string{
	".py":   "python",
	".js":   "javascript",
	".ts":   "javascript",
	".jsx":  "javascript",
	".tsx":  "javascript",
	".java": "java",
	".cpp":  "cpp",
	".cc":   "cpp",
	".c":    "cpp",
	".h":    "cpp",
	".go":   "go",
}

// DetectLanguage determines the language of a piece of source code.
//
// Description:
//
//	The file extension wins when it is recognized. Otherwise cheap
//	content heuristics are tried in a fixed order, and "generic" is
//	returned when nothing matches.
func DetectLanguage(content []byte, origin string) string {
	if origin != "" {
		ext := strings.ToLower(filepath.Ext(origin))
		if lang, ok := extensionLanguages[ext]; ok {
			return lang
		}
	}

	code := string(content)
	switch {
	case strings.Contains(code, "def ") && strings.Contains(code, ":"):
		return "python"
	case strings.Contains(code, "function ") || strings.Contains(code, "=>"):
		return "javascript"
	case strings.Contains(code, "public class") || strings.Contains(code, "private class"):
		return "java"
	case strings.Contains(code, "#include"):
		return "cpp"
	case strings.Contains(code, "func ") && strings.Contains(code, "package "):
		return "go"
	}

	return "generic"
}

// GenericExtractorOption configures a GenericExtractor instance.
type GenericExtractorOption func(*GenericExtractor)

// WithLanguage pins the extractor to one language instead of
// detecting per input.
func WithLanguage(language string) GenericExtractorOption {
	return func(g *GenericExtractor) {
		if language != "" {
			g.language = language
		}
	}
}

// WithGenericMaxFileSize sets the maximum file size the extractor accepts.
func WithGenericMaxFileSize(bytes int64) GenericExtractorOption {
	return func(g *GenericExtractor) {
		if bytes > 0 {
			g.maxFileSize = bytes
		}
	}
}

// GenericExtractor is the umbrella code strategy.
//
// Description:
//
//	Python routes to the tree-sitter walk and JavaScript to the regex
//	strategy; every other recognized language runs its pattern table,
//	producing entities only (the tables carry no relationship
//	knowledge). Unrecognized input yields an empty result rather than
//	an error.
//
// Thread Safety:
//
//	GenericExtractor instances are safe for concurrent use.
type GenericExtractor struct {
	language    string
	maxFileSize int64
	python      *PythonExtractor
	javascript  *JavaScriptExtractor
}

// NewGenericExtractor creates a GenericExtractor. Without WithLanguage
// the language is detected per input.
func NewGenericExtractor(opts ...GenericExtractorOption) *GenericExtractor {
	g := &GenericExtractor{
		language:    "auto",
		maxFileSize: DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.python = NewPythonExtractor(WithPythonMaxFileSize(g.maxFileSize))
	g.javascript = NewJavaScriptExtractor(WithJavaScriptMaxFileSize(g.maxFileSize))
	return g
}

// Language returns the pinned language, or "auto".
func (g *GenericExtractor) Language() string { return g.language }

// Extensions returns every extension the generic strategy recognizes.
func (g *GenericExtractor) Extensions() []string {
	exts := make([]string, 0, len(extensionLanguages))
	for ext := range extensionLanguages {
		exts = append(exts, ext)
	}
	return exts
}

// Parse extracts entities (and, for Python and JavaScript,
// relationships) from source code in any recognized language.
//
// Thread Safety: This method is safe for concurrent use.
func (g *GenericExtractor) Parse(ctx context.Context, content []byte, origin string) (*Result, error) {
	language := g.language
	if language == "auto" {
		language = DetectLanguage(content, origin)
	}

	switch language {
	case "python":
		return g.python.Parse(ctx, content, origin)
	case "javascript":
		return g.javascript.Parse(ctx, content, origin)
	}

	return g.parseGeneric(ctx, content, origin, language)
}

func (g *GenericExtractor) parseGeneric(ctx context.Context, content []byte, origin, language string) (*Result, error) {
	ctx, span := startParseSpan(ctx, language, origin, len(content))
	defer span.End()

	start := time.Now()

	if err := ctx.Err(); err != nil {
		recordParseMetrics(ctx, language, time.Since(start), 0, false)
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}
	if int64(len(content)) > g.maxFileSize {
		recordParseMetrics(ctx, language, time.Since(start), 0, false)
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(content), g.maxFileSize)
	}
	if len(content) > WarnFileSize {
		slog.Warn("parsing large file",
			slog.String("file", origin),
			slog.Int("size_bytes", len(content)))
	}
	if !utf8.Valid(content) {
		recordParseMetrics(ctx, language, time.Since(start), 0, false)
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrInvalidContent)
	}

	result := &Result{
		Origin:        origin,
		Language:      language,
		Entities:      make([]Entity, 0),
		Relationships: make([]Relationship, 0),
		Errors:        make([]string, 0),
	}

	for _, p := range languagePatterns[language] {
		for _, m := range p.re.FindAllSubmatchIndex(content, -1) {
			name := firstGroup(content, m)
			if name == "" {
				continue
			}
			result.Entities = append(result.Entities, Entity{
				Name:     name,
				Kind:     p.kind,
				FilePath: origin,
				Line:     lineAt(content, m[0]),
			})
		}
	}

	setParseSpanResult(span, len(result.Entities), 0)
	recordParseMetrics(ctx, language, time.Since(start), len(result.Entities), true)

	return result, nil
}

// firstGroup returns the first non-empty capture group of a
// FindAllSubmatchIndex match.
func firstGroup(content []byte, m []int) string {
	for i := 2; i+1 < len(m); i += 2 {
		if m[i] >= 0 && m[i+1] > m[i] {
			return string(content[m[i]:m[i+1]])
		}
	}
	return ""
}
