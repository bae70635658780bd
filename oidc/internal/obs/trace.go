// Copyright 2026 The OpenTrusty Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package obs

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// instrumentationName identifies this library's spans/meters to whatever
// provider the host process has configured.
const instrumentationName = "github.com/opentrusty/oidcrp"

// Tracer is the tracer a caller may inject via WithTracer; when nil, the
// global tracer is used instead.
type Tracer = trace.Tracer

// TracerOrDefault returns t if non-nil, otherwise the global tracer for
// this module.
func TracerOrDefault(t Tracer) Tracer {
	if t != nil {
		return t
	}
	return otel.Tracer(instrumentationName)
}

// StartSpan starts a span named name under tracer (or the global tracer,
// if tracer is nil).
func StartSpan(ctx context.Context, tracer Tracer, name string) (context.Context, trace.Span) {
	return TracerOrDefault(tracer).Start(ctx, name)
}

// EndSpan records err on span (if non-nil) and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}
