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

package authorize

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/opentrusty/oidcrp/oidc"
)

// param is one caller-supplied extra query parameter, preserved in
// insertion order.
type param struct {
	key   string
	value string
}

// Request builds an authorization-endpoint URL. Construct with New, add
// options, then call URL.
type Request struct {
	authEndpoint string
	clientID     oidc.ClientID
	flow         AuthenticationFlow
	nonce        oidc.Nonce
	csrfToken    oidc.CsrfToken

	redirectURI         string
	scopes              []string
	display             string
	idTokenHint         string
	loginHint           string
	maxAge              *time.Duration
	prompts             []string
	acrValues           []string
	claimsLocales       []string
	uiLocales           []string
	codeChallenge       string
	codeChallengeMethod string
	extras              []param
}

// managedParams is every query key the builder itself controls; an extra
// parameter added by the caller must not collide with one of these
// (spec's "authorization extras conflict" note — undefined behavior if it
// does, so New rejects it up front instead of silently overwriting).
var managedParams = map[string]bool{
	"response_type": true, "client_id": true, "state": true,
	"redirect_uri": true, "scope": true, "nonce": true,
	"acr_values": true, "claims_locales": true, "display": true,
	"id_token_hint": true, "login_hint": true, "max_age": true,
	"prompt": true, "ui_locales": true, "code_challenge": true,
	"code_challenge_method": true,
}

// Option configures a Request built by New.
type Option func(*Request)

// WithRedirectURI sets redirect_uri.
func WithRedirectURI(uri string) Option { return func(r *Request) { r.redirectURI = uri } }

// WithScopes appends scopes after the always-present "openid".
func WithScopes(scopes ...string) Option {
	return func(r *Request) { r.scopes = append(r.scopes, scopes...) }
}

// WithDisplay sets the display hint.
func WithDisplay(display string) Option { return func(r *Request) { r.display = display } }

// WithIDTokenHint sets id_token_hint.
func WithIDTokenHint(hint string) Option { return func(r *Request) { r.idTokenHint = hint } }

// WithLoginHint sets login_hint.
func WithLoginHint(hint string) Option { return func(r *Request) { r.loginHint = hint } }

// WithMaxAge sets max_age, serialized as decimal seconds.
func WithMaxAge(d time.Duration) Option { return func(r *Request) { r.maxAge = &d } }

// WithPrompts sets the prompt values, joined by a single space.
func WithPrompts(prompts ...string) Option {
	return func(r *Request) { r.prompts = append(r.prompts, prompts...) }
}

// WithACRValues sets acr_values, joined by a single space.
func WithACRValues(values ...string) Option {
	return func(r *Request) { r.acrValues = append(r.acrValues, values...) }
}

// WithClaimsLocales sets claims_locales, joined by a single space.
func WithClaimsLocales(locales ...string) Option {
	return func(r *Request) { r.claimsLocales = append(r.claimsLocales, locales...) }
}

// WithUILocales sets ui_locales, joined by a single space.
func WithUILocales(locales ...string) Option {
	return func(r *Request) { r.uiLocales = append(r.uiLocales, locales...) }
}

// WithPKCE sets code_challenge and code_challenge_method.
func WithPKCE(challenge, method string) Option {
	return func(r *Request) { r.codeChallenge = challenge; r.codeChallengeMethod = method }
}

// WithNonce overrides the default randomly generated nonce, e.g. for
// deterministic tests.
func WithNonce(n oidc.Nonce) Option { return func(r *Request) { r.nonce = n } }

// WithCsrfToken overrides the default randomly generated `state` value,
// e.g. for deterministic tests.
func WithCsrfToken(t oidc.CsrfToken) Option { return func(r *Request) { r.csrfToken = t } }

// WithExtraParam appends a caller-defined query parameter, in insertion
// order after every managed parameter. Panics if key collides with a
// parameter the builder manages — see managedParams.
func WithExtraParam(key, value string) Option {
	return func(r *Request) {
		if managedParams[key] {
			panic(fmt.Sprintf("authorize: extra param %q collides with a managed parameter", key))
		}
		r.extras = append(r.extras, param{key: key, value: value})
	}
}

// New builds a Request for authEndpoint, clientID, and flow. Unless
// overridden with WithNonce/WithCsrfToken, a random nonce and CSRF state
// are generated.
func New(authEndpoint string, clientID oidc.ClientID, flow AuthenticationFlow, opts ...Option) *Request {
	r := &Request{
		authEndpoint: authEndpoint,
		clientID:     clientID,
		flow:         flow,
		nonce:        oidc.NewNonce(uuid.NewString()),
		csrfToken:    oidc.NewCsrfToken(uuid.NewString()),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// URL assembles the authorization-endpoint URL and returns it alongside
// the CSRF state and nonce the caller must retain to validate the
// response. Parameter order is part of the contract (spec.md §6) and is
// assembled manually rather than through url.Values, which would
// alphabetize keys.
func (r *Request) URL() (string, oidc.CsrfToken, oidc.Nonce, error) {
	var b strings.Builder
	b.WriteString(r.authEndpoint)
	b.WriteByte('?')

	first := true
	add := func(key, value string) {
		if !first {
			b.WriteByte('&')
		}
		first = false
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}

	add("response_type", r.flow.responseType())
	add("client_id", r.clientID.String())
	add("state", r.csrfToken.Secret())
	if r.redirectURI != "" {
		add("redirect_uri", r.redirectURI)
	}
	scopes := append([]string{"openid"}, r.scopes...)
	add("scope", strings.Join(scopes, " "))
	add("nonce", r.nonce.Secret())
	if len(r.acrValues) > 0 {
		add("acr_values", strings.Join(r.acrValues, " "))
	}
	if len(r.claimsLocales) > 0 {
		add("claims_locales", strings.Join(r.claimsLocales, " "))
	}
	if r.display != "" {
		add("display", r.display)
	}
	if r.idTokenHint != "" {
		add("id_token_hint", r.idTokenHint)
	}
	if r.loginHint != "" {
		add("login_hint", r.loginHint)
	}
	if r.maxAge != nil {
		add("max_age", strconv.FormatInt(int64(r.maxAge.Seconds()), 10))
	}
	if len(r.prompts) > 0 {
		add("prompt", strings.Join(r.prompts, " "))
	}
	if len(r.uiLocales) > 0 {
		add("ui_locales", strings.Join(r.uiLocales, " "))
	}
	if r.codeChallenge != "" {
		add("code_challenge", r.codeChallenge)
	}
	if r.codeChallengeMethod != "" {
		add("code_challenge_method", r.codeChallengeMethod)
	}
	for _, e := range r.extras {
		add(e.key, e.value)
	}

	return b.String(), r.csrfToken, r.nonce, nil
}
