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
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const instrumentationName = "atlas.extract"

var (
	parseDuration metric.Float64Histogram
	parseEntities metric.Int64Counter
	parseTotal    metric.Int64Counter
)

func init() {
	meter := otel.Meter(instrumentationName)

	// Instrument creation only fails on invalid names; the noop
	// fallbacks returned alongside the error are still usable.
	parseDuration, _ = meter.Float64Histogram(
		"atlas.extract.parse.duration",
		metric.WithDescription("Extraction duration in seconds"),
		metric.WithUnit("s"),
	)
	parseEntities, _ = meter.Int64Counter(
		"atlas.extract.parse.entities",
		metric.WithDescription("Entities produced by extraction"),
	)
	parseTotal, _ = meter.Int64Counter(
		"atlas.extract.parse.total",
		metric.WithDescription("Extraction calls by language and outcome"),
	)
}

// startParseSpan opens a tracing span for one extraction call.
func startParseSpan(ctx context.Context, language, origin string, sizeBytes int) (context.Context, oteltrace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, "extract.Parse",
		oteltrace.WithAttributes(
			attribute.String("language", language),
			attribute.String("origin", origin),
			attribute.Int("size_bytes", sizeBytes),
		),
	)
}

// setParseSpanResult records the extraction outcome on the span.
func setParseSpanResult(span oteltrace.Span, entities, relationships int) {
	span.SetAttributes(
		attribute.Int("entities", entities),
		attribute.Int("relationships", relationships),
	)
}

// recordParseMetrics records duration and output counters for one
// extraction call.
func recordParseMetrics(ctx context.Context, language string, d time.Duration, entities int, success bool) {
	attrs := metric.WithAttributes(
		attribute.String("language", language),
		attribute.Bool("success", success),
	)
	parseDuration.Record(ctx, d.Seconds(), attrs)
	parseTotal.Add(ctx, 1, attrs)
	if entities > 0 {
		parseEntities.Add(ctx, int64(entities), metric.WithAttributes(attribute.String("language", language)))
	}
}
