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
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	verifierResultOnce    sync.Once
	verifierResultCounter metric.Int64Counter
)

// RecordVerifierResult increments oidc.verifier.result once per
// verification call, attributed by outcome ("success"/"failure") and, on
// failure, the failure kind. The counter is created lazily against the
// global MeterProvider on first use, since a library must not assume a
// provider is configured at package init time.
func RecordVerifierResult(ctx context.Context, outcome, failureKind string) {
	verifierResultOnce.Do(func() {
		c, err := otel.Meter(instrumentationName).Int64Counter(
			"oidc.verifier.result",
			metric.WithDescription("count of ID token / UserInfo verification attempts by outcome"),
		)
		if err != nil {
			// otel.Meter never fails to hand back a usable (possibly
			// noop) instrument in practice; guard anyway so a broken
			// MeterProvider can never panic a verification call.
			return
		}
		verifierResultCounter = c
	})
	if verifierResultCounter == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String("outcome", outcome)}
	if failureKind != "" {
		attrs = append(attrs, attribute.String("failure_kind", failureKind))
	}
	verifierResultCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
}
