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

// Package oidc provides the typed primitives shared across the relying
// party core: validated wrapper types around issuer URLs, client
// identity, nonces, and audiences that prevent accidental cross-field
// assignment (an IssuerURL can never be passed where a ClientID is
// expected, even though both are strings underneath).
package oidc

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// IssuerURL is an absolute URL with no query or fragment component,
// asserted by an OpenID Provider as its issuer identifier. The scheme is
// not checked: an http issuer is accepted as well as an https one. Two
// issuers compare by exact byte equality; case and trailing slash
// differences are significant.
type IssuerURL struct{ v string }

// NewIssuerURL validates and wraps an issuer string.
func NewIssuerURL(s string) (IssuerURL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return IssuerURL{}, fmt.Errorf("oidc: invalid issuer url %q: %w", s, err)
	}
	if !u.IsAbs() {
		return IssuerURL{}, fmt.Errorf("oidc: issuer url %q is not absolute", s)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return IssuerURL{}, fmt.Errorf("oidc: issuer url %q must not have a query or fragment", s)
	}
	return IssuerURL{v: s}, nil
}

// String returns the underlying issuer string.
func (i IssuerURL) String() string { return i.v }

// Equal reports byte-exact equality, per OIDC Core's issuer comparison rule.
func (i IssuerURL) Equal(other IssuerURL) bool { return i.v == other.v }

// DiscoveryURL returns the well-known discovery document URL for this
// issuer: exactly one "/" separates the issuer from the suffix, and any
// path already present on the issuer is preserved.
func (i IssuerURL) DiscoveryURL() string {
	base := strings.TrimSuffix(i.v, "/")
	return base + "/.well-known/openid-configuration"
}

// MarshalJSON implements json.Marshaler.
func (i IssuerURL) MarshalJSON() ([]byte, error) { return json.Marshal(i.v) }

// UnmarshalJSON implements json.Unmarshaler.
func (i *IssuerURL) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := NewIssuerURL(s)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// ClientID identifies an OAuth2/OIDC client registered with the OP.
type ClientID struct{ v string }

// NewClientID wraps a non-empty client identifier.
func NewClientID(s string) (ClientID, error) {
	if s == "" {
		return ClientID{}, fmt.Errorf("oidc: client id must not be empty")
	}
	return ClientID{v: s}, nil
}

func (c ClientID) String() string             { return c.v }
func (c ClientID) Equal(other ClientID) bool   { return c.v == other.v }
func (c ClientID) MarshalJSON() ([]byte, error) { return json.Marshal(c.v) }

func (c *ClientID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	id, err := NewClientID(s)
	if err != nil {
		return err
	}
	*c = id
	return nil
}

// ClientSecret is a confidential client credential. It is never exposed
// through String()/formatting — only through Secret() — so that it never
// leaks into logs by accident, matching the redaction convention the
// teacher applies to everything audit-adjacent.
type ClientSecret struct{ v string }

// NewClientSecret wraps a client secret.
func NewClientSecret(s string) ClientSecret { return ClientSecret{v: s} }

// Secret returns the raw secret value. Named distinctly from String to
// make accidental logging of a secret grep-able and code-review visible.
func (c ClientSecret) Secret() string { return c.v }

// String never returns the secret value.
func (c ClientSecret) String() string { return "REDACTED" }

// GoString never returns the secret value (used by %#v and debuggers).
func (c ClientSecret) GoString() string { return "oidc.ClientSecret(REDACTED)" }

// Nonce is a caller-generated value bound into an ID token to mitigate
// replay attacks. Like ClientSecret, it redacts on String() because a
// leaked nonce can be replayed.
type Nonce struct{ v string }

// NewNonce wraps a nonce value as received from or sent to the OP.
func NewNonce(s string) Nonce { return Nonce{v: s} }

func (n Nonce) Secret() string          { return n.v }
func (n Nonce) String() string          { return "REDACTED" }
func (n Nonce) Equal(other Nonce) bool  { return n.v == other.v }
func (n Nonce) IsZero() bool            { return n.v == "" }

// CsrfToken is the opaque `state` parameter value used to protect the
// authorization redirect against cross-site request forgery.
type CsrfToken struct{ v string }

// NewCsrfToken wraps a CSRF state value.
func NewCsrfToken(s string) CsrfToken { return CsrfToken{v: s} }

func (c CsrfToken) Secret() string         { return c.v }
func (c CsrfToken) String() string         { return "REDACTED" }
func (c CsrfToken) Equal(other CsrfToken) bool { return c.v == other.v }

// PKCECodeVerifier is the RFC 7636 PKCE code verifier a client retains
// across the authorization redirect to exchange for a code_challenge.
type PKCECodeVerifier struct{ v string }

// NewPKCECodeVerifier wraps a PKCE code verifier.
func NewPKCECodeVerifier(s string) PKCECodeVerifier { return PKCECodeVerifier{v: s} }

func (p PKCECodeVerifier) Secret() string { return p.v }
func (p PKCECodeVerifier) String() string { return "REDACTED" }

// SubjectIdentifier identifies the end user (the `sub` claim), locally
// unique and never reassigned within the issuer.
type SubjectIdentifier struct{ v string }

// NewSubjectIdentifier wraps a subject identifier.
func NewSubjectIdentifier(s string) (SubjectIdentifier, error) {
	if s == "" {
		return SubjectIdentifier{}, fmt.Errorf("oidc: subject identifier must not be empty")
	}
	return SubjectIdentifier{v: s}, nil
}

func (s SubjectIdentifier) String() string                   { return s.v }
func (s SubjectIdentifier) Equal(other SubjectIdentifier) bool { return s.v == other.v }

// Audience is the set of intended recipients of a token (the `aud`
// claim). It unmarshals from either a JSON string or a JSON array of
// strings, and always marshals back out as an array.
type Audience []string

// MarshalJSON always emits an array, per spec.md §6.
func (a Audience) MarshalJSON() ([]byte, error) { return json.Marshal([]string(a)) }

// UnmarshalJSON accepts a bare string or an array of strings.
func (a *Audience) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*a = Audience{single}
		return nil
	}
	var multi []string
	if err := json.Unmarshal(data, &multi); err != nil {
		return fmt.Errorf("oidc: aud must be a string or array of strings: %w", err)
	}
	*a = Audience(multi)
	return nil
}

// Contains reports whether the audience contains the given client ID.
// Membership is an unordered-set check, per the Open Question in
// spec.md §9: this spec does not treat audience array order as
// meaningful.
func (a Audience) Contains(id ClientID) bool {
	for _, v := range a {
		if v == id.String() {
			return true
		}
	}
	return false
}
