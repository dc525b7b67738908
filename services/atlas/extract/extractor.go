// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package extract turns raw text and source code into flat lists of
// entities and relationships. Each input class has its own strategy:
// a heuristic pattern matcher for prose, a tree-sitter walk for
// Python, a regex pass for JavaScript, and per-language pattern
// tables for everything else.
package extract

import (
	"context"
	"errors"
)

// Sentinel errors returned by Parse implementations.
var (
	// ErrFileTooLarge indicates the input exceeds the extractor's size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrInvalidContent indicates the input is not valid UTF-8.
	ErrInvalidContent = errors.New("invalid content")
)

const (
	// DefaultMaxFileSize is the default input size limit (10 MB).
	DefaultMaxFileSize = int64(10 * 1024 * 1024)

	// WarnFileSize is the threshold above which a warning is logged (1 MB).
	WarnFileSize = 1024 * 1024

	// maxWalkDepth bounds recursive AST walks against pathological nesting.
	maxWalkDepth = 512
)

// Extractor is the capability every extraction strategy implements.
//
// Description:
//
//	Parse consumes one input and returns the entities and relationships
//	found in it. Implementations are error-tolerant: malformed input
//	produces a partial Result with Result.Errors populated. A non-nil
//	error is reserved for hard failures (ErrFileTooLarge,
//	ErrInvalidContent, context cancellation).
//
// Thread Safety:
//
//	Implementations are safe for concurrent use; each Parse call keeps
//	its own state.
type Extractor interface {
	// Parse extracts entities and relationships from content.
	// origin is the file path or a synthetic label for provenance.
	Parse(ctx context.Context, content []byte, origin string) (*Result, error)

	// Language returns the canonical language name this extractor handles.
	Language() string

	// Extensions returns the file extensions this extractor claims,
	// each with a leading dot. Empty for extractors selected explicitly.
	Extensions() []string
}
