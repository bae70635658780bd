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

package discovery

import (
	"context"
	"net/http"

	"github.com/opentrusty/oidcrp/oidc/internal/obs"
)

// Option configures Discover and JWKSURL.Fetch.
type Option func(*options)

type options struct {
	client *http.Client
	tracer obs.Tracer
}

// WithHTTPClient overrides the default (http.DefaultClient) for this
// call, mirroring the functional-option idiom this codebase's other OIDC
// client code uses for the same purpose.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

// WithTracer wraps the fetch in a span from tracer instead of the global
// tracer.
func WithTracer(t obs.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

type contextClientKey struct{}

// WithContextClient returns a context carrying client, for callers who
// prefer threading the HTTP client through context.Context across a call
// chain instead of passing WithHTTPClient at every call site.
func WithContextClient(ctx context.Context, client *http.Client) context.Context {
	return context.WithValue(ctx, contextClientKey{}, client)
}

// ClientFromContext returns the client installed by WithContextClient, if
// any.
func ClientFromContext(ctx context.Context) (*http.Client, bool) {
	c, ok := ctx.Value(contextClientKey{}).(*http.Client)
	return c, ok
}

func resolveOptions(ctx context.Context, opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.client == nil {
		if c, ok := ClientFromContext(ctx); ok {
			o.client = c
		}
	}
	if o.client == nil {
		o.client = http.DefaultClient
	}
	return o
}
