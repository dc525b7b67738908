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
	"log/slog"
)

// NamedEntity is a labeled span reported by an NLP backend.
type NamedEntity struct {
	// Text is the entity surface form.
	Text string

	// Label is the backend's entity label (PERSON, ORG, GPE, ...).
	Label string
}

// Token is one analyzed token from an NLP backend's dependency parse.
type Token struct {
	// Text is the token surface form.
	Text string

	// Lemma is the token's dictionary form.
	Lemma string

	// POS is the coarse part-of-speech tag (VERB, NOUN, ...).
	POS string

	// Dep is the dependency relation to the head (nsubj, dobj, ...).
	Dep string

	// Head is the index of this token's syntactic head in the token
	// slice. A root token points at itself.
	Head int
}

// Analysis is the full output of one NLP backend call.
type Analysis struct {
	// Entities are the named entities found in the input.
	Entities []NamedEntity

	// NounChunkRoots are the root words of noun chunks.
	NounChunkRoots []string

	// Tokens is the dependency-parsed token stream.
	Tokens []Token
}

// NLPBackend is the boundary to an external NLP pipeline.
//
// Description:
//
//	The extractor does not bundle or reimplement a language model; it
//	consumes whatever named-entity and dependency analysis a backend
//	provides. Backends typically wrap an out-of-process service.
//
// Thread Safety: Implementations must be safe for concurrent use.
type NLPBackend interface {
	Analyze(ctx context.Context, text string) (*Analysis, error)
}

// extractWithBackend runs the NLP-augmented extraction path.
//
// Entities come from the backend's named entities plus noun-chunk
// roots (tagged CONCEPT, stop words filtered). Relationships are
// subject-verb-object triples from the dependency parse, unioned with
// the pattern template matches. A backend failure degrades to the
// pure pattern path.
func (t *TextExtractor) extractWithBackend(ctx context.Context, text string, result *Result) {
	analysis, err := t.backend.Analyze(ctx, text)
	if err != nil {
		slog.Warn("nlp backend failed, falling back to pattern extraction",
			slog.String("origin", result.Origin),
			slog.String("error", err.Error()))
		result.Errors = append(result.Errors, "nlp backend failed: "+err.Error())
		result.Entities = extractPatternEntities(text)
		result.Relationships = extractPatternRelationships(text)
		return
	}

	acc := newEntityAccumulator()
	for _, ent := range analysis.Entities {
		acc.add(ent.Text, EntityKind(ent.Label))
	}
	for _, root := range analysis.NounChunkRoots {
		if !isStopWord(root) {
			acc.add(root, EntityConcept)
		}
	}
	result.Entities = acc.list

	seen := make(map[string]struct{})
	rels := make([]Relationship, 0)
	add := func(rel Relationship) {
		if _, dup := seen[rel.TextKey()]; dup {
			return
		}
		seen[rel.TextKey()] = struct{}{}
		rels = append(rels, rel)
	}

	// Subject-verb-object triples: an nsubj token whose head is a verb
	// pairs with that verb's dobj/pobj/attr children. The verb lemma
	// becomes the relationship kind.
	tokens := analysis.Tokens
	for i, tok := range tokens {
		if tok.Dep != "nsubj" || tok.Head < 0 || tok.Head >= len(tokens) {
			continue
		}
		verb := tokens[tok.Head]
		if verb.POS != "VERB" {
			continue
		}
		for j, child := range tokens {
			if child.Head != tok.Head || j == tok.Head || j == i {
				continue
			}
			switch child.Dep {
			case "dobj", "pobj", "attr":
				add(Relationship{
					Source: tok.Text,
					Target: child.Text,
					Kind:   RelationKind(verb.Lemma),
					Weight: 1.0,
				})
			}
		}
	}

	for _, rel := range extractPatternRelationships(text) {
		add(rel)
	}

	result.Relationships = rels
}
