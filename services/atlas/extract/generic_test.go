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

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name    string
		content string
		origin  string
		want    string
	}{
		{"python extension", "", "main.py", "python"},
		{"typescript extension", "", "app.ts", "javascript"},
		{"java extension", "", "Main.java", "java"},
		{"header extension", "", "util.h", "cpp"},
		{"go extension", "", "main.go", "go"},
		{"python content", "def main():\n    pass\n", "", "python"},
		{"javascript content", "const f = () => 1;\n", "", "javascript"},
		{"java content", "public class Main {}\n", "", "java"},
		{"cpp content", "#include <stdio.h>\n", "", "cpp"},
		{"go content", "package main\n\nfunc main() {}\n", "", "go"},
		{"unknown", "hello there", "", "generic"},
		{"extension wins over content", "def x():\n    pass\n", "main.go", "go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectLanguage([]byte(tt.content), tt.origin); got != tt.want {
				t.Errorf("DetectLanguage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenericExtractorGo(t *testing.T) {
	source := `package server

import "fmt"

type Handler struct {
	name string
}

func Serve(h *Handler) error {
	return nil
}
`
	result, err := NewGenericExtractor().Parse(context.Background(), []byte(source), "server.go")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if result.Language != "go" {
		t.Errorf("expected language go, got %q", result.Language)
	}

	if findEntity(result.Entities, "Handler", "struct") == nil {
		t.Error("expected Handler struct entity")
	}
	if findEntity(result.Entities, "Serve", EntityFunction) == nil {
		t.Error("expected Serve function entity")
	}
	if findEntity(result.Entities, "fmt", EntityImport) == nil {
		t.Error("expected fmt import entity")
	}
}

func TestGenericExtractorJava(t *testing.T) {
	source := `import java.util.List;

public class Account {
}
`
	result, err := NewGenericExtractor().Parse(context.Background(), []byte(source), "Account.java")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if findEntity(result.Entities, "Account", EntityClass) == nil {
		t.Error("expected Account class entity")
	}
	if findEntity(result.Entities, "java.util.List", EntityImport) == nil {
		t.Error("expected java.util.List import entity")
	}
}

func TestGenericExtractorDelegatesToPython(t *testing.T) {
	source := `class Animal:
    def speak(self):
        pass
`
	result, err := NewGenericExtractor().Parse(context.Background(), []byte(source), "animal.py")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if result.Language != "python" {
		t.Errorf("expected language python, got %q", result.Language)
	}

	// The tree-sitter walk sees methods; the pattern table would not.
	if findEntity(result.Entities, "speak", EntityMethod) == nil {
		t.Error("expected speak method entity from the Python strategy")
	}
}

func TestGenericExtractorUnknownLanguage(t *testing.T) {
	result, err := NewGenericExtractor().Parse(context.Background(), []byte("plain prose, nothing else"), "notes.xyz")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if result.Language != "generic" {
		t.Errorf("expected language generic, got %q", result.Language)
	}
	if len(result.Entities) != 0 {
		t.Errorf("expected no entities, got %d", len(result.Entities))
	}
}

func TestGenericExtractorPinnedLanguage(t *testing.T) {
	ext := NewGenericExtractor(WithLanguage("python"))
	if ext.Language() != "python" {
		t.Errorf("expected pinned language python, got %q", ext.Language())
	}

	// No .py extension, but the pinned language routes to the Python
	// strategy anyway.
	result, err := ext.Parse(context.Background(), []byte("class A:\n    pass\n"), "snippet.txt")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if findEntity(result.Entities, "A", EntityClass) == nil {
		t.Error("expected class entity via pinned language")
	}
}
