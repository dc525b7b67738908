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
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/Atlas/services/atlas/render"
)

// Handlers holds the HTTP handlers for the Atlas service.
type Handlers struct {
	service *Service
}

// NewHandlers creates the handler set for a service instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// GenerateRequest is the body of POST /v1/atlas/generate.
type GenerateRequest struct {
	// Input is the raw text or source code to analyze.
	Input string `json:"input"`

	// InputType is "text", "code", or "auto" (default).
	InputType string `json:"input_type"`

	// Origin labels the input for provenance and language detection
	// (typically the original file name). Optional.
	Origin string `json:"origin"`

	// Format selects the output serialization. Defaults to "json".
	Format string `json:"format"`
}

// GenerateResponse is the body of a successful generate call.
type GenerateResponse struct {
	GraphID string `json:"graph_id"`
	Format  string `json:"format"`
	Output  string `json:"output"`
	Nodes   int    `json:"nodes"`
	Edges   int    `json:"edges"`
}

// FormatsResponse lists the supported output formats.
type FormatsResponse struct {
	Formats []string `json:"formats"`
}

// getOrCreateRequestID returns the X-Request-ID header, minting a new
// UUID when the caller did not send one.
func getOrCreateRequestID(c *gin.Context) string {
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	return uuid.New().String()
}

// HandleGenerate handles POST /v1/atlas/generate.
//
// Description:
//
//	Builds a knowledge graph from the submitted input and returns it
//	rendered in the requested format. Each request gets its own
//	graph.
//
// Response:
//
//	200 OK: GenerateResponse
//	400 Bad Request: Missing input, unknown format, or oversized /
//	invalid content
//
// Thread Safety: This method is safe for concurrent use.
func (h *Handlers) HandleGenerate(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleGenerate")

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body: " + err.Error(),
			Code:  "INVALID_BODY",
		})
		return
	}

	if req.Input == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "input is required",
			Code:  "MISSING_PARAMETER",
		})
		return
	}

	format := req.Format
	if format == "" {
		format = render.FormatJSON
	}

	inputType := req.InputType
	switch inputType {
	case "", "auto":
		inputType = "auto"
	case "text", "code":
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "input_type must be one of: text, code, auto",
			Code:  "INVALID_PARAMETER",
		})
		return
	}

	gen := h.service.newGenerator()

	var err error
	switch {
	case inputType == "text":
		err = gen.ProcessText(c.Request.Context(), req.Input, req.Origin)
	case inputType == "code":
		err = gen.ProcessCode(c.Request.Context(), []byte(req.Input), req.Origin)
	default:
		// Auto: origin extension decides, raw text without a
		// recognized extension is treated as text.
		if isCodeOrigin(req.Origin) {
			err = gen.ProcessCode(c.Request.Context(), []byte(req.Input), req.Origin)
		} else {
			err = gen.ProcessText(c.Request.Context(), req.Input, req.Origin)
		}
	}
	if err != nil {
		logger.Warn("extraction failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "EXTRACTION_FAILED",
		})
		return
	}

	output, err := gen.Render(format)
	if err != nil {
		if errors.Is(err, render.ErrUnknownFormat) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: err.Error(),
				Code:  "UNKNOWN_FORMAT",
			})
			return
		}
		logger.Error("render failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to render graph",
			Code:  "RENDER_FAILED",
		})
		return
	}

	snapshot := gen.Snapshot()
	logger.Info("graph generated",
		slog.String("format", format),
		slog.Int("nodes", len(snapshot.Nodes)),
		slog.Int("edges", len(snapshot.Edges)))

	c.JSON(http.StatusOK, GenerateResponse{
		GraphID: uuid.New().String(),
		Format:  format,
		Output:  output,
		Nodes:   len(snapshot.Nodes),
		Edges:   len(snapshot.Edges),
	})
}

// HandleFormats handles GET /v1/atlas/formats.
func (h *Handlers) HandleFormats(c *gin.Context) {
	c.JSON(http.StatusOK, FormatsResponse{Formats: render.Formats()})
}

// HandleHealth handles GET /v1/atlas/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// HandleReady handles GET /v1/atlas/ready.
func (h *Handlers) HandleReady(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// isCodeOrigin reports whether the origin carries a recognized source
// code extension.
func isCodeOrigin(origin string) bool {
	if origin == "" {
		return false
	}
	ext := strings.ToLower(filepath.Ext(origin))
	_, ok := codeExtensions[ext]
	return ok
}
