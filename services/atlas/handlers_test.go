// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package atlas

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, err := NewService(DefaultServiceConfig())
	require.NoError(t, err)

	router := gin.New()
	v1 := router.Group("/v1")
	RegisterRoutes(v1, NewHandlers(svc))
	return router
}

func postGenerate(t *testing.T, router *gin.Engine, body GenerateRequest) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/atlas/generate", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleGenerateText(t *testing.T) {
	router := setupTestRouter(t)

	w := postGenerate(t, router, GenerateRequest{
		Input:     "Python is a language. Django uses Python.",
		InputType: "text",
		Format:    "summary",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.GraphID)
	assert.Equal(t, "summary", resp.Format)
	assert.Contains(t, resp.Output, "KNOWLEDGE GRAPH SUMMARY")
	assert.Greater(t, resp.Nodes, 0)
	assert.Greater(t, resp.Edges, 0)
}

func TestHandleGenerateCodeByOrigin(t *testing.T) {
	router := setupTestRouter(t)

	w := postGenerate(t, router, GenerateRequest{
		Input:  "class Animal:\n    pass\n",
		Origin: "zoo.py",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "json", resp.Format)
	assert.Contains(t, resp.Output, `"Animal"`)
}

func TestHandleGenerateMissingInput(t *testing.T) {
	router := setupTestRouter(t)

	w := postGenerate(t, router, GenerateRequest{InputType: "text"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "MISSING_PARAMETER", resp.Code)
}

func TestHandleGenerateUnknownFormat(t *testing.T) {
	router := setupTestRouter(t)

	w := postGenerate(t, router, GenerateRequest{
		Input:     "Django uses Python.",
		InputType: "text",
		Format:    "html",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "UNKNOWN_FORMAT", resp.Code)
}

func TestHandleGenerateInvalidInputType(t *testing.T) {
	router := setupTestRouter(t)

	w := postGenerate(t, router, GenerateRequest{
		Input:     "whatever",
		InputType: "binary",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_PARAMETER", resp.Code)
}

func TestHandleGenerateInvalidBody(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/atlas/generate", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleFormats(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/atlas/formats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp FormatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"json", "dot", "mermaid", "summary"}, resp.Formats)
}

func TestHealthEndpoints(t *testing.T) {
	router := setupTestRouter(t)

	for _, path := range []string{"/v1/atlas/health", "/v1/atlas/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
