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
	"fmt"

	"github.com/AleutianAI/Atlas/services/atlas/extract"
)

// ServiceConfig holds the tunables for the Atlas HTTP service.
type ServiceConfig struct {
	// MaxInputBytes caps the size of one submitted input.
	MaxInputBytes int64

	// NLPBackend, when set, augments text extraction on every request.
	NLPBackend extract.NLPBackend
}

// DefaultServiceConfig returns the configuration used when callers
// pass the zero value.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxInputBytes: extract.DefaultMaxFileSize,
	}
}

// Service is the Atlas knowledge graph generation service.
//
// Description:
//
//	The service is stateless: every generate request builds its own
//	Generator, so concurrent requests never share a graph.
//
// Thread Safety:
//
//	Service is safe for concurrent use.
type Service struct {
	config ServiceConfig
}

// NewService creates an Atlas service.
//
// Inputs:
//
//	cfg - Service configuration. Zero fields take defaults.
//
// Outputs:
//
//	*Service - The service instance.
//	error - Non-nil on invalid configuration.
func NewService(cfg ServiceConfig) (*Service, error) {
	defaults := DefaultServiceConfig()
	if cfg.MaxInputBytes == 0 {
		cfg.MaxInputBytes = defaults.MaxInputBytes
	}
	if cfg.MaxInputBytes < 0 {
		return nil, fmt.Errorf("max input bytes must be positive, got %d", cfg.MaxInputBytes)
	}
	return &Service{config: cfg}, nil
}

// newGenerator builds a per-request Generator from the service config.
func (s *Service) newGenerator() *Generator {
	opts := []GeneratorOption{WithMaxFileSize(s.config.MaxInputBytes)}
	if s.config.NLPBackend != nil {
		opts = append(opts, WithNLPBackend(s.config.NLPBackend))
	}
	return NewGenerator(opts...)
}
