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

// Package obs holds the ambient logging/tracing/metrics helpers shared by
// oidc/discovery and oidc/verifier. It never owns a TracerProvider or
// MeterProvider lifecycle — that belongs to the importing application —
// it only calls otel.Tracer/otel.Meter against whatever global provider
// is already configured.
package obs

import "log/slog"

// Common attribute keys, one small function per field, matching the
// teacher's logger/attrs.go convention.

func Issuer(v string) slog.Attr { return slog.String("issuer", v) }

func ClientID(v string) slog.Attr { return slog.String("client_id", v) }

func Alg(v string) slog.Attr { return slog.String("alg", v) }

func Kid(v string) slog.Attr { return slog.String("kid", v) }

func FailureKind(v string) slog.Attr { return slog.String("failure_kind", v) }

func Outcome(v string) slog.Attr { return slog.String("outcome", v) }

func Endpoint(v string) slog.Attr { return slog.String("endpoint", v) }

func StatusCode(code int) slog.Attr { return slog.Int("status_code", code) }

func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
