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
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/opentrusty/oidcrp/oidc"
	"github.com/opentrusty/oidcrp/oidc/internal/obs"
	"github.com/opentrusty/oidcrp/oidc/jwks"
)

// maxBodyBytes bounds how much of a discovery/JWKS response this package
// reads, so a misbehaving OP cannot exhaust memory; the transport remains
// responsible for connection-level limits and timeouts.
const maxBodyBytes = 1 << 20

// Discover fetches and parses the provider metadata document at
// issuer's well-known discovery URL, then validates that the document's
// own `issuer` matches issuer byte-exactly (OIDC Discovery 1.0 §4.3).
func Discover(ctx context.Context, issuer oidc.IssuerURL, opts ...Option) (*ProviderMetadata, error) {
	o := resolveOptions(ctx, opts)
	ctx, span := obs.StartSpan(ctx, o.tracer, "oidc.discovery.fetch")
	defer func() { obs.EndSpan(span, nil) }()

	url := issuer.DiscoveryURL()
	body, err := getJSON(ctx, o.client, url)
	if err != nil {
		slog.WarnContext(ctx, "discovery fetch failed", obs.Issuer(issuer.String()), obs.Endpoint(url), obs.Err(err))
		return nil, err
	}

	var metadata ProviderMetadata
	if err := json.Unmarshal(body, &metadata); err != nil {
		e := newError(ErrParse, "invalid provider metadata json", err)
		slog.WarnContext(ctx, "discovery parse failed", obs.Issuer(issuer.String()), obs.Err(e))
		return nil, e
	}

	if !metadata.Issuer.Equal(issuer) {
		e := newError(ErrValidation, "metadata issuer does not match requested issuer", nil)
		slog.WarnContext(ctx, "discovery issuer mismatch", obs.Issuer(issuer.String()), obs.Err(e))
		return nil, e
	}

	slog.DebugContext(ctx, "discovery fetch succeeded", obs.Issuer(issuer.String()))
	return &metadata, nil
}

// JWKSURL is an OP-advertised JWKS document URL.
type JWKSURL string

// Fetch GETs and parses the JWKS document at u.
func (u JWKSURL) Fetch(ctx context.Context, opts ...Option) (*jwks.JWKS, error) {
	o := resolveOptions(ctx, opts)
	ctx, span := obs.StartSpan(ctx, o.tracer, "oidc.jwks.fetch")
	defer func() { obs.EndSpan(span, nil) }()

	body, err := getJSON(ctx, o.client, string(u))
	if err != nil {
		slog.WarnContext(ctx, "jwks fetch failed", obs.Endpoint(string(u)), obs.Err(err))
		return nil, err
	}

	ks, err := jwks.ParseJWKS(body)
	if err != nil {
		e := newError(ErrParse, "invalid jwks json", err)
		slog.WarnContext(ctx, "jwks parse failed", obs.Endpoint(string(u)), obs.Err(e))
		return nil, e
	}
	slog.DebugContext(ctx, "jwks fetch succeeded", obs.Endpoint(string(u)), slog.Int("keys", len(ks.Keys)))
	return ks, nil
}

func getJSON(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, newError(ErrRequest, "couldn't build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, newError(ErrRequest, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, newError(ErrRequest, "couldn't read response body", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, newResponseError(resp.StatusCode, body)
	}
	return body, nil
}
