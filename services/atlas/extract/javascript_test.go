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
	"testing"
)

const javascriptSample = `import { render, hydrate } from 'react-dom';
import React from 'react';
const api = require('./api');

class Button extends Component {
}

export const theme = 'dark';
export default Button;

function handleClick() {}
const onHover = async (e) => {};
const _private = 1;
`

func parseJavaScript(t *testing.T, source string) *Result {
	t.Helper()
	result, err := NewJavaScriptExtractor().Parse(context.Background(), []byte(source), "app.js")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return result
}

func TestJavaScriptExtractorClasses(t *testing.T) {
	result := parseJavaScript(t, javascriptSample)

	button := findEntity(result.Entities, "Button", EntityClass)
	if button == nil {
		t.Fatal("expected Button class entity")
	}
	if button.Line != 5 {
		t.Errorf("expected Button on line 5, got %d", button.Line)
	}
	if !hasRelationship(result.Relationships, "Button", "Component", RelationExtends) {
		t.Error("expected Button extends Component")
	}
}

func TestJavaScriptExtractorFunctions(t *testing.T) {
	result := parseJavaScript(t, javascriptSample)

	if findEntity(result.Entities, "handleClick", EntityFunction) == nil {
		t.Error("expected handleClick function entity")
	}
	if findEntity(result.Entities, "onHover", EntityFunction) == nil {
		t.Error("expected onHover arrow function entity")
	}
}

func TestJavaScriptExtractorImports(t *testing.T) {
	result := parseJavaScript(t, javascriptSample)

	if findEntity(result.Entities, "render", EntityImport) == nil {
		t.Error("expected render named import entity")
	}
	if findEntity(result.Entities, "hydrate", EntityImport) == nil {
		t.Error("expected hydrate named import entity")
	}

	react := findEntity(result.Entities, "React", EntityImport)
	if react == nil {
		t.Fatal("expected React default import entity")
	}
	if react.Attributes["default"] != "true" {
		t.Error("expected React import marked as default")
	}

	api := findEntity(result.Entities, "api", EntityImport)
	if api == nil {
		t.Fatal("expected api require entity")
	}
	if api.Attributes["module"] != "./api" {
		t.Errorf("expected api module ./api, got %q", api.Attributes["module"])
	}

	// Named bindings from one statement each emit their own edge to
	// the same module path.
	count := 0
	for _, r := range result.Relationships {
		if r.Source == "module" && r.Target == "react-dom" && r.Kind == RelationImports {
			count++
		}
	}
	if count != 2 {
		t.Errorf("expected 2 import edges to react-dom, got %d", count)
	}
}

func TestJavaScriptExtractorExports(t *testing.T) {
	result := parseJavaScript(t, javascriptSample)

	if !hasRelationship(result.Relationships, "module", "theme", RelationExports) {
		t.Error("expected module exports theme")
	}
	if !hasRelationship(result.Relationships, "module", "Button", RelationExportsDefault) {
		t.Error("expected module exports_default Button")
	}
}

func TestJavaScriptExtractorVariables(t *testing.T) {
	result := parseJavaScript(t, javascriptSample)

	if findEntity(result.Entities, "theme", EntityVariable) == nil {
		t.Error("expected theme variable entity")
	}
	if findEntity(result.Entities, "_private", EntityVariable) != nil {
		t.Error("underscore-prefixed variable must be skipped")
	}
}

func TestLineAt(t *testing.T) {
	content := []byte("a\nb\nc")
	tests := []struct {
		offset, want int
	}{
		{0, 1},
		{2, 2},
		{4, 3},
	}
	for _, tt := range tests {
		if got := lineAt(content, tt.offset); got != tt.want {
			t.Errorf("lineAt(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}
