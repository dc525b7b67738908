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
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// relationshipPatterns are the ordered templates matched per sentence.
// Both capture groups must be single words and survive the stop word
// filter for a relationship to be emitted.
var relationshipPatterns = []struct {
	re   *regexp.Regexp
	kind RelationKind
}{
	{regexp.MustCompile(`(?i)(\w+)\s+is\s+a\s+(\w+)`), "is_a"},
	{regexp.MustCompile(`(?i)(\w+)\s+are\s+(\w+)`), "is_a"},
	{regexp.MustCompile(`(?i)(\w+)\s+has\s+(?:a\s+)?(\w+)`), "has"},
	{regexp.MustCompile(`(?i)(\w+)\s+have\s+(?:a\s+)?(\w+)`), "has"},
	{regexp.MustCompile(`(?i)(\w+)\s+contains?\s+(\w+)`), RelationContains},
	{regexp.MustCompile(`(?i)(\w+)\s+includes?\s+(\w+)`), "includes"},
	{regexp.MustCompile(`(?i)(\w+)\s+uses?\s+(\w+)`), "uses"},
	{regexp.MustCompile(`(?i)(\w+)\s+depends?\s+on\s+(\w+)`), "depends_on"},
	{regexp.MustCompile(`(?i)(\w+)\s+creates?\s+(\w+)`), "creates"},
	{regexp.MustCompile(`(?i)(\w+)\s+inherits?\s+(?:from\s+)?(\w+)`), RelationInherits},
	{regexp.MustCompile(`(?i)(\w+)\s+extends?\s+(\w+)`), RelationExtends},
	{regexp.MustCompile(`(?i)(\w+)\s+implements?\s+(\w+)`), RelationImplements},
	{regexp.MustCompile(`(?i)(\w+)\s+connects?\s+(?:to\s+)?(\w+)`), "connects_to"},
	{regexp.MustCompile(`(?i)(\w+)\s+relates?\s+(?:to\s+)?(\w+)`), "relates_to"},
	{regexp.MustCompile(`(?i)(\w+)\s+belongs?\s+(?:to\s+)?(\w+)`), "belongs_to"},
	{regexp.MustCompile(`(?i)(\w+)\s+(?:is\s+)?part\s+of\s+(\w+)`), "part_of"},
	{regexp.MustCompile(`(?i)(\w+)\s+(?:is\s+)?composed\s+of\s+(\w+)`), "composed_of"},
	{regexp.MustCompile(`(?i)(\w+)\s+interacts?\s+with\s+(\w+)`), "interacts_with"},
	{regexp.MustCompile(`(?i)(\w+)\s+calls?\s+(\w+)`), RelationCalls},
	{regexp.MustCompile(`(?i)(\w+)\s+invokes?\s+(\w+)`), "invokes"},
}

// stopWords are filtered from entity and relationship candidates.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"from": {}, "as": {}, "is": {}, "was": {}, "are": {}, "were": {},
	"been": {}, "be": {}, "have": {}, "has": {}, "had": {}, "do": {},
	"does": {}, "did": {}, "will": {}, "would": {}, "could": {},
	"should": {}, "may": {}, "might": {}, "must": {}, "shall": {},
	"can": {}, "need": {}, "this": {}, "that": {}, "these": {},
	"those": {}, "i": {}, "you": {}, "he": {}, "she": {}, "it": {},
	"we": {}, "they": {}, "what": {}, "which": {}, "who": {}, "when": {},
	"where": {}, "why": {}, "how": {}, "all": {}, "each": {}, "every": {},
	"both": {}, "few": {}, "more": {}, "most": {}, "other": {},
	"some": {}, "such": {}, "no": {}, "nor": {}, "not": {}, "only": {},
	"own": {}, "same": {}, "so": {}, "than": {}, "too": {}, "very": {},
	"just": {}, "also": {}, "now": {}, "here": {}, "there": {},
}

// isStopWord reports whether w is filtered from extraction output.
func isStopWord(w string) bool {
	_, ok := stopWords[strings.ToLower(w)]
	return ok
}

var (
	capitalizedRe = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\b`)
	camelCaseRe   = regexp.MustCompile(`\b([A-Z][a-z]+(?:[A-Z][a-z]+)+)\b`)
	snakeCaseRe   = regexp.MustCompile(`\b([a-z]+(?:_[a-z]+)+)\b`)
	quotedRe      = regexp.MustCompile(`["']([^"']+)["']`)
	theNounRe     = regexp.MustCompile(`(?i)\bthe\s+(\w+)`)
	sentenceRe    = regexp.MustCompile(`[.!?]`)
)

// TextExtractorOption configures a TextExtractor instance.
type TextExtractorOption func(*TextExtractor)

// WithTextMaxInputSize sets the maximum input size the extractor accepts.
func WithTextMaxInputSize(bytes int64) TextExtractorOption {
	return func(t *TextExtractor) {
		if bytes > 0 {
			t.maxInputSize = bytes
		}
	}
}

// WithNLPBackend attaches an NLP backend. When set, entity extraction
// uses named entities and noun chunks from the backend, and
// relationship extraction unions dependency triples with the pattern
// templates.
func WithNLPBackend(b NLPBackend) TextExtractorOption {
	return func(t *TextExtractor) {
		t.backend = b
	}
}

// TextExtractor extracts entities and relationships from prose.
//
// Description:
//
//	The heuristic path runs five entity rules (capitalized sequences,
//	CamelCase, snake_case, quoted strings, "the X") with stop word
//	filtering and per-entity mention counting, then matches the
//	relationship templates sentence by sentence. With an NLP backend
//	attached, named entities and noun-chunk roots replace the entity
//	rules and dependency triples are unioned with the templates.
//
// Thread Safety:
//
//	TextExtractor instances are safe for concurrent use.
type TextExtractor struct {
	maxInputSize int64
	backend      NLPBackend
}

// NewTextExtractor creates a TextExtractor with the given options.
func NewTextExtractor(opts ...TextExtractorOption) *TextExtractor {
	t := &TextExtractor{maxInputSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(t)
	}
	if t.backend == nil {
		slog.Debug("no nlp backend configured, using pattern-based extraction")
	}
	return t
}

// Language returns "text".
func (t *TextExtractor) Language() string { return "text" }

// Extensions returns nil; the text strategy is the fallback for
// anything that is not a recognized code extension.
func (t *TextExtractor) Extensions() []string { return nil }

// Parse extracts entities and relationships from natural language text.
//
// Outputs:
//   - *Result: Extracted entities (with mention counts) and deduplicated
//     relationships, in first-seen order. Never nil on success.
//   - error: ErrFileTooLarge, ErrInvalidContent, or a context error.
//
// Thread Safety: This method is safe for concurrent use.
func (t *TextExtractor) Parse(ctx context.Context, content []byte, origin string) (*Result, error) {
	ctx, span := startParseSpan(ctx, "text", origin, len(content))
	defer span.End()

	start := time.Now()

	if err := ctx.Err(); err != nil {
		recordParseMetrics(ctx, "text", time.Since(start), 0, false)
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}
	if int64(len(content)) > t.maxInputSize {
		recordParseMetrics(ctx, "text", time.Since(start), 0, false)
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(content), t.maxInputSize)
	}
	if len(content) > WarnFileSize {
		slog.Warn("extracting from large text input",
			slog.String("origin", origin),
			slog.Int("size_bytes", len(content)))
	}
	if !utf8.Valid(content) {
		recordParseMetrics(ctx, "text", time.Since(start), 0, false)
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrInvalidContent)
	}

	text := string(content)
	result := &Result{
		Origin:        origin,
		Language:      "text",
		Entities:      make([]Entity, 0),
		Relationships: make([]Relationship, 0),
		Errors:        make([]string, 0),
	}

	if t.backend != nil {
		t.extractWithBackend(ctx, text, result)
	} else {
		result.Entities = extractPatternEntities(text)
		result.Relationships = extractPatternRelationships(text)
	}

	setParseSpanResult(span, len(result.Entities), len(result.Relationships))
	recordParseMetrics(ctx, "text", time.Since(start), len(result.Entities), true)

	return result, nil
}

// entityAccumulator collects text entities with case-insensitive
// deduplication and mention counting, preserving first-seen order and
// first-seen casing.
type entityAccumulator struct {
	index map[string]int
	list  []Entity
}

func newEntityAccumulator() *entityAccumulator {
	return &entityAccumulator{index: make(map[string]int)}
}

func (a *entityAccumulator) add(name string, kind EntityKind) {
	e := Entity{Name: name, Kind: kind, Mentions: 1}
	if i, ok := a.index[e.TextKey()]; ok {
		a.list[i].Mentions++
		return
	}
	a.index[e.TextKey()] = len(a.list)
	a.list = append(a.list, e)
}

// extractPatternEntities runs the five heuristic entity rules.
func extractPatternEntities(text string) []Entity {
	acc := newEntityAccumulator()

	for _, m := range capitalizedRe.FindAllStringSubmatch(text, -1) {
		if !isStopWord(m[1]) {
			acc.add(m[1], EntityNoun)
		}
	}
	for _, m := range camelCaseRe.FindAllStringSubmatch(text, -1) {
		acc.add(m[1], EntityTechnical)
	}
	for _, m := range snakeCaseRe.FindAllStringSubmatch(text, -1) {
		acc.add(m[1], EntityTechnical)
	}
	for _, m := range quotedRe.FindAllStringSubmatch(text, -1) {
		if len(m[1]) > 2 && !isStopWord(m[1]) {
			acc.add(m[1], EntityString)
		}
	}
	for _, m := range theNounRe.FindAllStringSubmatch(text, -1) {
		if len(m[1]) > 2 && !isStopWord(m[1]) {
			acc.add(m[1], EntityNoun)
		}
	}

	return acc.list
}

// extractPatternRelationships matches the relationship templates
// sentence by sentence, deduplicating case-insensitively on
// (source, target, kind) while keeping first-seen order and casing.
func extractPatternRelationships(text string) []Relationship {
	seen := make(map[string]struct{})
	rels := make([]Relationship, 0)

	for _, sentence := range sentenceRe.Split(text, -1) {
		for _, p := range relationshipPatterns {
			for _, m := range p.re.FindAllStringSubmatch(sentence, -1) {
				source, target := m[1], m[2]
				if isStopWord(source) || isStopWord(target) {
					continue
				}
				rel := Relationship{Source: source, Target: target, Kind: p.kind, Weight: 1.0}
				if _, dup := seen[rel.TextKey()]; dup {
					continue
				}
				seen[rel.TextKey()] = struct{}{}
				rels = append(rels, rel)
			}
		}
	}

	return rels
}
