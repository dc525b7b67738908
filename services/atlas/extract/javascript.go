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
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	jsClassRe         = regexp.MustCompile(`class\s+(\w+)(?:\s+extends\s+(\w+))?\s*\{`)
	jsFunctionRe      = regexp.MustCompile(`(?:async\s+)?function\s+(\w+)\s*\(`)
	jsArrowRe         = regexp.MustCompile(`(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s+)?\([^)]*\)\s*=>`)
	jsImportRe        = regexp.MustCompile(`import\s+(?:\{([^}]+)\}|(\w+))\s+from\s+['"]([^'"]+)['"]`)
	jsRequireRe       = regexp.MustCompile(`(?:const|let|var)\s+(\w+)\s*=\s*require\(['"]([^'"]+)['"]\)`)
	jsExportRe        = regexp.MustCompile(`export\s+(?:const|let|var|function|class)\s+(\w+)`)
	jsExportDefaultRe = regexp.MustCompile(`export\s+default\s+(\w+)`)
	jsVariableRe      = regexp.MustCompile(`(?:const|let|var)\s+(\w+)\s*=`)
)

// JavaScriptExtractorOption configures a JavaScriptExtractor instance.
type JavaScriptExtractorOption func(*JavaScriptExtractor)

// WithJavaScriptMaxFileSize sets the maximum file size the extractor accepts.
func WithJavaScriptMaxFileSize(bytes int64) JavaScriptExtractorOption {
	return func(j *JavaScriptExtractor) {
		if bytes > 0 {
			j.maxFileSize = bytes
		}
	}
}

// JavaScriptExtractor extracts entities and relationships from
// JavaScript source using regular expression passes.
//
// Description:
//
//	Five independent passes run over the raw source: classes (with
//	extends), function declarations plus arrow assignments, ES6
//	imports plus CommonJS requires, exports, and variable
//	declarations. There is no scope tracking; every entity is
//	module-level. ES6 imports with multiple named bindings emit one
//	import edge per binding to the same module path.
//
// Thread Safety:
//
//	JavaScriptExtractor instances are safe for concurrent use.
type JavaScriptExtractor struct {
	maxFileSize int64
}

// NewJavaScriptExtractor creates a JavaScriptExtractor with the given options.
func NewJavaScriptExtractor(opts ...JavaScriptExtractorOption) *JavaScriptExtractor {
	j := &JavaScriptExtractor{maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Language returns "javascript".
func (j *JavaScriptExtractor) Language() string { return "javascript" }

// Extensions returns the file extensions this extractor claims.
// TypeScript and JSX files share the regex strategy.
func (j *JavaScriptExtractor) Extensions() []string {
	return []string{".js", ".ts", ".jsx", ".tsx"}
}

// Parse extracts entities and relationships from JavaScript source.
//
// Thread Safety: This method is safe for concurrent use.
func (j *JavaScriptExtractor) Parse(ctx context.Context, content []byte, origin string) (*Result, error) {
	ctx, span := startParseSpan(ctx, "javascript", origin, len(content))
	defer span.End()

	start := time.Now()

	if err := ctx.Err(); err != nil {
		recordParseMetrics(ctx, "javascript", time.Since(start), 0, false)
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}
	if int64(len(content)) > j.maxFileSize {
		recordParseMetrics(ctx, "javascript", time.Since(start), 0, false)
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(content), j.maxFileSize)
	}
	if len(content) > WarnFileSize {
		slog.Warn("parsing large file",
			slog.String("file", origin),
			slog.Int("size_bytes", len(content)))
	}
	if !utf8.Valid(content) {
		recordParseMetrics(ctx, "javascript", time.Since(start), 0, false)
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrInvalidContent)
	}

	result := &Result{
		Origin:        origin,
		Language:      "javascript",
		Entities:      make([]Entity, 0),
		Relationships: make([]Relationship, 0),
		Errors:        make([]string, 0),
	}

	j.extractClasses(content, origin, result)
	j.extractFunctions(content, origin, result)
	j.extractImports(content, origin, result)
	j.extractExports(content, origin, result)
	j.extractVariables(content, origin, result)

	setParseSpanResult(span, len(result.Entities), len(result.Relationships))
	recordParseMetrics(ctx, "javascript", time.Since(start), len(result.Entities), true)

	return result, nil
}

// lineAt returns the 1-based line number of a byte offset.
func lineAt(content []byte, offset int) int {
	return bytes.Count(content[:offset], []byte("\n")) + 1
}

func (j *JavaScriptExtractor) extractClasses(content []byte, origin string, result *Result) {
	for _, m := range jsClassRe.FindAllSubmatchIndex(content, -1) {
		name := string(content[m[2]:m[3]])
		line := lineAt(content, m[0])

		result.Entities = append(result.Entities, Entity{
			Name:     name,
			Kind:     EntityClass,
			FilePath: origin,
			Line:     line,
		})

		if m[4] >= 0 {
			result.Relationships = append(result.Relationships, Relationship{
				Source:   name,
				Target:   string(content[m[4]:m[5]]),
				Kind:     RelationExtends,
				FilePath: origin,
				Line:     line,
				Weight:   1.0,
			})
		}
	}
}

func (j *JavaScriptExtractor) extractFunctions(content []byte, origin string, result *Result) {
	for _, m := range jsFunctionRe.FindAllSubmatchIndex(content, -1) {
		result.Entities = append(result.Entities, Entity{
			Name:     string(content[m[2]:m[3]]),
			Kind:     EntityFunction,
			FilePath: origin,
			Line:     lineAt(content, m[0]),
		})
	}
	for _, m := range jsArrowRe.FindAllSubmatchIndex(content, -1) {
		result.Entities = append(result.Entities, Entity{
			Name:     string(content[m[2]:m[3]]),
			Kind:     EntityFunction,
			FilePath: origin,
			Line:     lineAt(content, m[0]),
		})
	}
}

func (j *JavaScriptExtractor) extractImports(content []byte, origin string, result *Result) {
	for _, m := range jsImportRe.FindAllSubmatchIndex(content, -1) {
		modulePath := string(content[m[6]:m[7]])
		line := lineAt(content, m[0])

		if m[2] >= 0 {
			// Named imports: one entity and one edge per binding.
			for _, raw := range strings.Split(string(content[m[2]:m[3]]), ",") {
				name := strings.TrimSpace(strings.SplitN(strings.TrimSpace(raw), " as ", 2)[0])
				if name == "" {
					continue
				}
				result.Entities = append(result.Entities, Entity{
					Name:       name,
					Kind:       EntityImport,
					FilePath:   origin,
					Line:       line,
					Attributes: map[string]string{"module": modulePath},
				})
				result.Relationships = append(result.Relationships, Relationship{
					Source:   "module",
					Target:   modulePath,
					Kind:     RelationImports,
					FilePath: origin,
					Line:     line,
					Weight:   1.0,
				})
			}
		}

		if m[4] >= 0 {
			result.Entities = append(result.Entities, Entity{
				Name:       string(content[m[4]:m[5]]),
				Kind:       EntityImport,
				FilePath:   origin,
				Line:       line,
				Attributes: map[string]string{"module": modulePath, "default": "true"},
			})
			result.Relationships = append(result.Relationships, Relationship{
				Source:   "module",
				Target:   modulePath,
				Kind:     RelationImports,
				FilePath: origin,
				Line:     line,
				Weight:   1.0,
			})
		}
	}

	for _, m := range jsRequireRe.FindAllSubmatchIndex(content, -1) {
		modulePath := string(content[m[4]:m[5]])
		line := lineAt(content, m[0])

		result.Entities = append(result.Entities, Entity{
			Name:       string(content[m[2]:m[3]]),
			Kind:       EntityImport,
			FilePath:   origin,
			Line:       line,
			Attributes: map[string]string{"module": modulePath},
		})
		result.Relationships = append(result.Relationships, Relationship{
			Source:   "module",
			Target:   modulePath,
			Kind:     RelationImports,
			FilePath: origin,
			Line:     line,
			Weight:   1.0,
		})
	}
}

// extractExports emits relationships only; the exported entity is
// already captured by the class, function, or variable pass.
func (j *JavaScriptExtractor) extractExports(content []byte, origin string, result *Result) {
	for _, m := range jsExportRe.FindAllSubmatchIndex(content, -1) {
		result.Relationships = append(result.Relationships, Relationship{
			Source:   "module",
			Target:   string(content[m[2]:m[3]]),
			Kind:     RelationExports,
			FilePath: origin,
			Line:     lineAt(content, m[0]),
			Weight:   1.0,
		})
	}
	for _, m := range jsExportDefaultRe.FindAllSubmatchIndex(content, -1) {
		result.Relationships = append(result.Relationships, Relationship{
			Source:   "module",
			Target:   string(content[m[2]:m[3]]),
			Kind:     RelationExportsDefault,
			FilePath: origin,
			Line:     lineAt(content, m[0]),
			Weight:   1.0,
		})
	}
}

func (j *JavaScriptExtractor) extractVariables(content []byte, origin string, result *Result) {
	for _, m := range jsVariableRe.FindAllSubmatchIndex(content, -1) {
		name := string(content[m[2]:m[3]])
		if strings.HasPrefix(name, "_") {
			continue
		}
		result.Entities = append(result.Entities, Entity{
			Name:     name,
			Kind:     EntityVariable,
			FilePath: origin,
			Line:     lineAt(content, m[0]),
		})
	}
}
