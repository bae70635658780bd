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

// Package transport provides an optional, ready-made http.RoundTripper
// for discovery and JWKS fetches. It is never required: every call in
// this module accepts a plain *http.Client. Use it when a caller wants
// request tracing and protection against hammering an OP's discovery/JWKS
// endpoint in a hot loop, without wiring otelhttp and x/time/rate
// themselves.
package transport

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// Option configures New.
type Option func(*config)

type config struct {
	base       http.RoundTripper
	rps        rate.Limit
	burst      int
	spanPrefix string
}

// WithBaseTransport sets the underlying transport New wraps. Defaults to
// http.DefaultTransport.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(c *config) { c.base = rt }
}

// WithRateLimit bounds outbound requests to rps requests per second with
// the given burst. Defaults to unlimited (rps <= 0 disables limiting).
func WithRateLimit(rps float64, burst int) Option {
	return func(c *config) { c.rps = rate.Limit(rps); c.burst = burst }
}

// WithSpanNamePrefix sets the otelhttp span name prefix. Defaults to
// "oidc".
func WithSpanNamePrefix(prefix string) Option {
	return func(c *config) { c.spanPrefix = prefix }
}

// New returns an http.RoundTripper composing otelhttp request tracing
// with an optional token-bucket rate limiter.
func New(opts ...Option) http.RoundTripper {
	cfg := config{base: http.DefaultTransport, spanPrefix: "oidc"}
	for _, opt := range opts {
		opt(&cfg)
	}

	traced := otelhttp.NewTransport(cfg.base, otelhttp.WithSpanNameFormatter(
		func(operation string, r *http.Request) string {
			return cfg.spanPrefix + "." + r.Method
		},
	))

	if cfg.rps <= 0 {
		return traced
	}
	return &rateLimitedTransport{
		next:    traced,
		limiter: rate.NewLimiter(cfg.rps, cfg.burst),
	}
}

type rateLimitedTransport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.next.RoundTrip(req)
}
