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

package verifier

import "github.com/opentrusty/oidcrp/oidc"

// VerifyOption configures a single IDTokenVerifier.Verify or
// UserInfoVerifier.Verify call — the parts that vary per login attempt
// (nonce, the access token / code the ID token accompanied, the expected
// UserInfo subject) rather than per verifier (issuer, JWKS, policy).
type VerifyOption func(*verifyConfig)

type verifyConfig struct {
	nonce          *oidc.Nonce
	nonceValidator func(claim string) error
	accessToken    string
	authCode       string
	expectedSub    *string // UserInfoVerifier substitution defense
}

// WithExpectedNonce requires the ID token's nonce claim to byte-equal n.
func WithExpectedNonce(n oidc.Nonce) VerifyOption {
	return func(c *verifyConfig) { c.nonce = &n }
}

// WithNonceValidator runs validator against the raw nonce claim (or ""
// if absent) instead of the default byte-equality check.
func WithNonceValidator(validator func(claim string) error) VerifyOption {
	return func(c *verifyConfig) { c.nonceValidator = validator }
}

// WithAccessTokenHash checks the ID token's at_hash claim (when present)
// against accessToken.
func WithAccessTokenHash(accessToken string) VerifyOption {
	return func(c *verifyConfig) { c.accessToken = accessToken }
}

// WithAuthorizationCodeHash checks the ID token's c_hash claim (when
// present) against code.
func WithAuthorizationCodeHash(code string) VerifyOption {
	return func(c *verifyConfig) { c.authCode = code }
}

// WithExpectedSubject requires a UserInfo response's sub claim to equal
// sub (substitution defense, spec.md §4.7).
func WithExpectedSubject(sub string) VerifyOption {
	return func(c *verifyConfig) { c.expectedSub = &sub }
}
