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
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all Atlas routes with the router.
//
// Description:
//
//	Registers all /v1/atlas/* endpoints with the given Gin router
//	group. The router group should already have any required
//	middleware applied.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//
// Endpoints:
//
//	POST /v1/atlas/generate - Generate a knowledge graph from input
//	GET  /v1/atlas/formats - List supported output formats
//	GET  /v1/atlas/health - Liveness check
//	GET  /v1/atlas/ready - Readiness check
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	atlas := rg.Group("/atlas")
	{
		atlas.POST("/generate", handlers.HandleGenerate)
		atlas.GET("/formats", handlers.HandleFormats)
		atlas.GET("/health", handlers.HandleHealth)
		atlas.GET("/ready", handlers.HandleReady)
	}
}
