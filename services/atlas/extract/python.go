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
	"strings"
	"time"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// PythonExtractorOption configures a PythonExtractor instance.
type PythonExtractorOption func(*PythonExtractor)

// WithPythonMaxFileSize sets the maximum file size the extractor accepts.
func WithPythonMaxFileSize(bytes int64) PythonExtractorOption {
	return func(p *PythonExtractor) {
		if bytes > 0 {
			p.maxFileSize = bytes
		}
	}
}

// PythonExtractor extracts entities and relationships from Python
// source via a tree-sitter AST walk.
//
// Description:
//
//	The walk threads class and function scope: functions inside a
//	class become methods, nested definitions record their enclosing
//	scope as parent, and calls are attributed to the scope they occur
//	in. Dotted expressions (attribute access, subscripts) flatten to
//	dotted names. Syntactically broken source yields partial results
//	with a note in Result.Errors.
//
// Thread Safety:
//
//	PythonExtractor instances are safe for concurrent use. Each Parse
//	call creates its own tree-sitter parser and walker state.
type PythonExtractor struct {
	maxFileSize int64
}

// NewPythonExtractor creates a PythonExtractor with the given options.
func NewPythonExtractor(opts ...PythonExtractorOption) *PythonExtractor {
	p := &PythonExtractor{maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Language returns "python".
func (p *PythonExtractor) Language() string { return "python" }

// Extensions returns the file extensions this extractor claims.
func (p *PythonExtractor) Extensions() []string { return []string{".py"} }

// Parse extracts entities and relationships from Python source code.
//
// Outputs:
//   - *Result: Classes (with inherits edges per base), functions and
//     methods (with contains edges from their parent scope), imports,
//     module-level and scoped variables, and call relationships.
//     Partial on syntax errors, never nil on success.
//   - error: ErrFileTooLarge, ErrInvalidContent, a context error, or a
//     tree-sitter failure.
//
// Thread Safety: This method is safe for concurrent use.
func (p *PythonExtractor) Parse(ctx context.Context, content []byte, origin string) (*Result, error) {
	ctx, span := startParseSpan(ctx, "python", origin, len(content))
	defer span.End()

	start := time.Now()

	if err := ctx.Err(); err != nil {
		recordParseMetrics(ctx, "python", time.Since(start), 0, false)
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}
	if int64(len(content)) > p.maxFileSize {
		recordParseMetrics(ctx, "python", time.Since(start), 0, false)
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(content), p.maxFileSize)
	}
	if len(content) > WarnFileSize {
		slog.Warn("parsing large file",
			slog.String("file", origin),
			slog.Int("size_bytes", len(content)))
	}
	if !utf8.Valid(content) {
		recordParseMetrics(ctx, "python", time.Since(start), 0, false)
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrInvalidContent)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		recordParseMetrics(ctx, "python", time.Since(start), 0, false)
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	if err := ctx.Err(); err != nil {
		recordParseMetrics(ctx, "python", time.Since(start), 0, false)
		return nil, fmt.Errorf("parse canceled after tree-sitter: %w", err)
	}

	result := &Result{
		Origin:        origin,
		Language:      "python",
		Entities:      make([]Entity, 0),
		Relationships: make([]Relationship, 0),
		Errors:        make([]string, 0),
	}

	root := tree.RootNode()
	if root == nil {
		result.Errors = append(result.Errors, "tree-sitter returned nil root node")
		return result, nil
	}
	if root.HasError() {
		result.Errors = append(result.Errors, "source contains syntax errors")
	}

	w := &pythonWalker{content: content, origin: origin, result: result}
	for i := 0; i < int(root.ChildCount()); i++ {
		w.walk(root.Child(i), "", 0)
	}

	setParseSpanResult(span, len(result.Entities), len(result.Relationships))
	recordParseMetrics(ctx, "python", time.Since(start), len(result.Entities), true)

	return result, nil
}

// pythonWalker carries the scope state for one Parse call.
type pythonWalker struct {
	content         []byte
	origin          string
	result          *Result
	currentClass    string
	currentFunction string
}

// walk dispatches on node type, recursing with the same parent scope
// for node types it does not handle directly.
func (w *pythonWalker) walk(node *sitter.Node, parent string, depth int) {
	if node == nil || depth > maxWalkDepth {
		return
	}

	switch node.Type() {
	case "class_definition":
		w.handleClass(node, parent, depth)
	case "function_definition":
		w.handleFunction(node, parent, depth)
	case "import_statement":
		w.handleImport(node)
	case "import_from_statement":
		w.handleImportFrom(node)
	case "assignment":
		// Only the targets are recorded; the assigned value is not
		// visited, so calls on the right-hand side emit nothing.
		w.handleAssignment(node, parent)
	case "call":
		w.handleCall(node, parent, depth)
	default:
		for i := 0; i < int(node.ChildCount()); i++ {
			w.walk(node.Child(i), parent, depth+1)
		}
	}
}

func (w *pythonWalker) text(node *sitter.Node) string {
	return string(w.content[node.StartByte():node.EndByte()])
}

func (w *pythonWalker) line(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}

func (w *pythonWalker) handleClass(node *sitter.Node, parent string, depth int) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := w.text(nameNode)
	body := node.ChildByFieldName("body")

	w.result.Entities = append(w.result.Entities, Entity{
		Name:      name,
		Kind:      EntityClass,
		Parent:    parent,
		FilePath:  w.origin,
		Line:      w.line(node),
		Docstring: w.docstring(body),
	})

	if supers := node.ChildByFieldName("superclasses"); supers != nil {
		for i := 0; i < int(supers.NamedChildCount()); i++ {
			base := w.nodeName(supers.NamedChild(i))
			if base == "" {
				continue
			}
			w.result.Relationships = append(w.result.Relationships, Relationship{
				Source:   name,
				Target:   base,
				Kind:     RelationInherits,
				FilePath: w.origin,
				Line:     w.line(node),
				Weight:   1.0,
			})
		}
	}

	if body != nil {
		oldClass := w.currentClass
		w.currentClass = name
		for i := 0; i < int(body.ChildCount()); i++ {
			w.walk(body.Child(i), name, depth+1)
		}
		w.currentClass = oldClass
	}
}

func (w *pythonWalker) handleFunction(node *sitter.Node, parent string, depth int) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := w.text(nameNode)
	body := node.ChildByFieldName("body")

	kind := EntityFunction
	if w.currentClass != "" {
		kind = EntityMethod
	}
	entityParent := parent
	if entityParent == "" {
		entityParent = w.currentClass
	}

	w.result.Entities = append(w.result.Entities, Entity{
		Name:      name,
		Kind:      kind,
		Parent:    entityParent,
		FilePath:  w.origin,
		Line:      w.line(node),
		Docstring: w.docstring(body),
	})

	if parent != "" {
		w.result.Relationships = append(w.result.Relationships, Relationship{
			Source:   parent,
			Target:   name,
			Kind:     RelationContains,
			FilePath: w.origin,
			Line:     w.line(node),
			Weight:   1.0,
		})
	}

	if body != nil {
		oldFunction := w.currentFunction
		w.currentFunction = name
		for i := 0; i < int(body.ChildCount()); i++ {
			w.walk(body.Child(i), name, depth+1)
		}
		w.currentFunction = oldFunction
	}
}

// handleImport processes 'import foo' and 'import foo as bar'.
func (w *pythonWalker) handleImport(node *sitter.Node) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "dotted_name":
			path := w.text(child)
			w.addImport(node, path, path, map[string]string{"module": path})
		case "aliased_import":
			var path, alias string
			for j := 0; j < int(child.ChildCount()); j++ {
				grandchild := child.Child(j)
				switch grandchild.Type() {
				case "dotted_name":
					if path == "" {
						path = w.text(grandchild)
					}
				case "identifier":
					alias = w.text(grandchild)
				}
			}
			if path == "" {
				continue
			}
			name := path
			if alias != "" {
				name = alias
			}
			w.addImport(node, path, name, map[string]string{"module": path})
		}
	}
}

// handleImportFrom processes 'from x import y' and 'from x import y as z'.
func (w *pythonWalker) handleImportFrom(node *sitter.Node) {
	module := ""
	if moduleNode := node.ChildByFieldName("module_name"); moduleNode != nil {
		module = w.text(moduleNode)
	}

	sawImport := false
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "import":
			sawImport = true
		case "dotted_name", "identifier":
			if !sawImport {
				continue
			}
			original := w.text(child)
			w.addFromImport(node, module, original, original)
		case "aliased_import":
			var original, alias string
			for j := 0; j < int(child.ChildCount()); j++ {
				grandchild := child.Child(j)
				switch grandchild.Type() {
				case "dotted_name":
					if original == "" {
						original = w.text(grandchild)
					}
				case "identifier":
					alias = w.text(grandchild)
				}
			}
			if original == "" {
				continue
			}
			name := original
			if alias != "" {
				name = alias
			}
			w.addFromImport(node, module, original, name)
		}
	}
}

func (w *pythonWalker) addImport(node *sitter.Node, target, name string, attrs map[string]string) {
	w.result.Entities = append(w.result.Entities, Entity{
		Name:       name,
		Kind:       EntityImport,
		FilePath:   w.origin,
		Line:       w.line(node),
		Attributes: attrs,
	})
	w.result.Relationships = append(w.result.Relationships, Relationship{
		Source:   "module",
		Target:   target,
		Kind:     RelationImports,
		FilePath: w.origin,
		Line:     w.line(node),
		Weight:   1.0,
	})
}

func (w *pythonWalker) addFromImport(node *sitter.Node, module, original, name string) {
	target := original
	if module != "" {
		target = module + "." + original
	}
	w.addImport(node, target, name, map[string]string{
		"module":        module,
		"original_name": original,
	})
}

// handleAssignment records variable entities for assignment targets.
// Underscore-prefixed names are treated as private and skipped.
func (w *pythonWalker) handleAssignment(node *sitter.Node, parent string) {
	left := node.ChildByFieldName("left")
	if left == nil {
		return
	}

	var targets []string
	switch left.Type() {
	case "pattern_list", "tuple_pattern":
		for i := 0; i < int(left.NamedChildCount()); i++ {
			if name := w.nodeName(left.NamedChild(i)); name != "" {
				targets = append(targets, name)
			}
		}
	default:
		if name := w.nodeName(left); name != "" {
			targets = append(targets, name)
		}
	}

	for _, name := range targets {
		if strings.HasPrefix(name, "_") {
			continue
		}
		w.result.Entities = append(w.result.Entities, Entity{
			Name:     name,
			Kind:     EntityVariable,
			Parent:   parent,
			FilePath: w.origin,
			Line:     w.line(node),
		})
	}
}

// handleCall records a calls relationship from the enclosing scope,
// then recurses into the arguments for nested calls.
func (w *pythonWalker) handleCall(node *sitter.Node, parent string, depth int) {
	if fn := node.ChildByFieldName("function"); fn != nil {
		if name := w.nodeName(fn); name != "" && parent != "" {
			w.result.Relationships = append(w.result.Relationships, Relationship{
				Source:   parent,
				Target:   name,
				Kind:     RelationCalls,
				FilePath: w.origin,
				Line:     w.line(node),
				Weight:   1.0,
			})
		}
	}
	if args := node.ChildByFieldName("arguments"); args != nil {
		for i := 0; i < int(args.ChildCount()); i++ {
			w.walk(args.Child(i), parent, depth+1)
		}
	}
}

// nodeName flattens an expression node to a dotted name.
// Identifiers return themselves, attribute access flattens to
// "object.attr", subscripts flatten to their value expression.
// Anything else returns "".
func (w *pythonWalker) nodeName(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	switch node.Type() {
	case "identifier", "dotted_name":
		return w.text(node)
	case "attribute":
		attr := node.ChildByFieldName("attribute")
		if attr == nil {
			return ""
		}
		if object := w.nodeName(node.ChildByFieldName("object")); object != "" {
			return object + "." + w.text(attr)
		}
		return w.text(attr)
	case "subscript":
		return w.nodeName(node.ChildByFieldName("value"))
	}
	return ""
}

// docstring returns the documentation string of a class or function
// body: the leading expression statement when it is a bare string.
func (w *pythonWalker) docstring(body *sitter.Node) string {
	if body == nil || body.ChildCount() == 0 {
		return ""
	}
	first := body.Child(0)
	if first == nil || first.Type() != "expression_statement" || first.ChildCount() == 0 {
		return ""
	}
	str := first.Child(0)
	if str == nil || str.Type() != "string" {
		return ""
	}
	return stripStringQuotes(w.text(str))
}

// stripStringQuotes removes Python string prefixes and quote
// delimiters from a string literal's source text.
func stripStringQuotes(s string) string {
	s = strings.TrimLeft(s, "rRbBuUfF")
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			return strings.TrimSpace(s[len(q) : len(s)-len(q)])
		}
	}
	return strings.TrimSpace(s)
}
