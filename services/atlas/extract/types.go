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

import "strings"

// EntityKind classifies an extracted entity.
//
// Code extractors emit the lowercase kinds (class, function, method,
// variable, import). Text extractors emit the uppercase kinds
// (NOUN, TECHNICAL, STRING, CONCEPT) plus whatever labels an NLP
// backend produces (PERSON, ORG, GPE, ...). The set is open: renderers
// fall back to a default color for kinds they do not know.
type EntityKind string

const (
	EntityClass    EntityKind = "class"
	EntityFunction EntityKind = "function"
	EntityMethod   EntityKind = "method"
	EntityVariable EntityKind = "variable"
	EntityImport   EntityKind = "import"

	EntityNoun      EntityKind = "NOUN"
	EntityTechnical EntityKind = "TECHNICAL"
	EntityString    EntityKind = "STRING"
	EntityConcept   EntityKind = "CONCEPT"
)

// RelationKind names the relationship between two entities.
// Text extraction additionally produces the template kinds (is_a, has,
// part_of, ...) and, with an NLP backend, arbitrary verb lemmas.
type RelationKind string

const (
	RelationInherits       RelationKind = "inherits"
	RelationExtends        RelationKind = "extends"
	RelationImplements     RelationKind = "implements"
	RelationImports        RelationKind = "imports"
	RelationExports        RelationKind = "exports"
	RelationExportsDefault RelationKind = "exports_default"
	RelationContains       RelationKind = "contains"
	RelationCalls          RelationKind = "calls"
)

// Entity is a single named thing pulled out of text or source code.
//
// Description:
//
//	Entities are value records: extraction produces them, the generator
//	maps them to graph nodes, and nothing mutates them afterwards. Code
//	entities carry provenance (FilePath, Line) and an optional parent
//	scope; text entities carry a mention count instead.
type Entity struct {
	// Name is the entity name as it appeared in the input.
	Name string `json:"name"`

	// Kind classifies the entity (class, function, NOUN, ...).
	Kind EntityKind `json:"kind"`

	// Parent is the enclosing scope for code entities ("" at module level).
	Parent string `json:"parent,omitempty"`

	// FilePath is the origin file, when extraction came from a file.
	FilePath string `json:"file_path,omitempty"`

	// Line is the 1-based line of the defining occurrence (0 if unknown).
	Line int `json:"line,omitempty"`

	// Docstring is the documentation string for classes and functions.
	Docstring string `json:"docstring,omitempty"`

	// Mentions counts occurrences for text entities (0 for code entities).
	Mentions int `json:"mentions,omitempty"`

	// Attributes carries extractor-specific extras, e.g. the source
	// module of an import.
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Key returns the identity key for code entities.
// Two code entities are the same when name, kind, and parent all match.
func (e Entity) Key() string {
	return e.Name + "\x00" + string(e.Kind) + "\x00" + e.Parent
}

// TextKey returns the identity key used for text entity deduplication.
// Text identity is case-insensitive on the name.
func (e Entity) TextKey() string {
	return strings.ToLower(e.Name) + "\x00" + string(e.Kind)
}

// Relationship is a directed, typed link between two entity names.
type Relationship struct {
	// Source is the name of the entity the relationship starts at.
	Source string `json:"source"`

	// Target is the name of the entity the relationship points to.
	Target string `json:"target"`

	// Kind names the relationship (inherits, calls, is_a, ...).
	Kind RelationKind `json:"kind"`

	// FilePath is the origin file, when extraction came from a file.
	FilePath string `json:"file_path,omitempty"`

	// Line is the 1-based line where the relationship is expressed.
	Line int `json:"line,omitempty"`

	// Weight is the relationship strength (1.0 unless an extractor says otherwise).
	Weight float64 `json:"weight,omitempty"`
}

// TextKey returns the identity key used for text relationship
// deduplication: case-insensitive on both endpoints.
func (r Relationship) TextKey() string {
	return strings.ToLower(r.Source) + "\x00" + strings.ToLower(r.Target) + "\x00" + string(r.Kind)
}

// Result holds everything one extractor produced for one input.
//
// Description:
//
//	Extraction is error-tolerant: syntactically broken input yields a
//	partial Result with a note in Errors rather than a failed call.
//	Hard failures (oversized input, invalid UTF-8, canceled context)
//	are returned as errors by Parse instead.
type Result struct {
	// Origin is the file path or synthetic label the input came from.
	Origin string `json:"origin"`

	// Language is the canonical language name ("python", "text", ...).
	Language string `json:"language"`

	// Entities in extraction order.
	Entities []Entity `json:"entities"`

	// Relationships in extraction order.
	Relationships []Relationship `json:"relationships"`

	// Errors lists non-fatal problems hit during extraction.
	Errors []string `json:"errors,omitempty"`
}
