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

package authorize_test

import (
	"testing"
	"time"

	"github.com/opentrusty/oidcrp/oidc"
	"github.com/opentrusty/oidcrp/oidc/authorize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPurpose: Verifies the minimal authorization URL scenario produces the literal expected query string.
// Scope: Unit Test
// Expected: byte-exact match against the documented minimal example.
func TestAuthorize_URL_MinimalScenario(t *testing.T) {
	clientID, err := oidc.NewClientID("aaa")
	require.NoError(t, err)

	req := authorize.New("https://example/authorize", clientID, authorize.AuthorizationCodeFlow(),
		authorize.WithCsrfToken(oidc.NewCsrfToken("CSRF123")),
		authorize.WithNonce(oidc.NewNonce("NONCE456")),
	)

	got, csrf, nonce, err := req.URL()
	require.NoError(t, err)
	assert.Equal(t, "https://example/authorize?response_type=code&client_id=aaa&state=CSRF123&scope=openid&nonce=NONCE456", got)
	assert.Equal(t, "CSRF123", csrf.Secret())
	assert.Equal(t, "NONCE456", nonce.Secret())
}

// TestPurpose: Verifies the full authorization URL scenario, with every optional parameter set, produces the literal expected query string in the documented order.
// Scope: Unit Test
// Expected: byte-exact match, including percent-encoding of the redirect URI and space-joining of multi-valued parameters.
func TestAuthorize_URL_FullScenario(t *testing.T) {
	clientID, err := oidc.NewClientID("aaa")
	require.NoError(t, err)

	req := authorize.New("https://example/authorize", clientID, authorize.AuthorizationCodeFlow(),
		authorize.WithCsrfToken(oidc.NewCsrfToken("CSRF123")),
		authorize.WithNonce(oidc.NewNonce("NONCE456")),
		authorize.WithRedirectURI("http://localhost:8888/"),
		authorize.WithScopes("email"),
		authorize.WithDisplay("touch"),
		authorize.WithPrompts("login", "consent"),
		authorize.WithMaxAge(1800*time.Second),
		authorize.WithUILocales("fr-CA", "fr", "en"),
		authorize.WithACRValues("urn:mace:incommon:iap:silver"),
	)

	got, _, _, err := req.URL()
	require.NoError(t, err)
	want := "https://example/authorize?response_type=code&client_id=aaa&state=CSRF123" +
		"&redirect_uri=http%3A%2F%2Flocalhost%3A8888%2F&scope=openid+email&nonce=NONCE456" +
		"&acr_values=urn%3Amace%3Aincommon%3Aiap%3Asilver&display=touch&max_age=1800" +
		"&prompt=login+consent&ui_locales=fr-CA+fr+en"
	assert.Equal(t, want, got)
}

// TestPurpose: Verifies New generates a random nonce and CSRF state when none is supplied, and that two calls never collide.
// Scope: Unit Test
// Security: Predictable nonce/state values would weaken CSRF and replay protections.
// Expected: two Requests built without WithNonce/WithCsrfToken produce distinct values.
func TestAuthorize_URL_GeneratesRandomNonceAndState(t *testing.T) {
	clientID, err := oidc.NewClientID("aaa")
	require.NoError(t, err)

	req1 := authorize.New("https://example/authorize", clientID, authorize.AuthorizationCodeFlow())
	req2 := authorize.New("https://example/authorize", clientID, authorize.AuthorizationCodeFlow())

	_, csrf1, nonce1, err := req1.URL()
	require.NoError(t, err)
	_, csrf2, nonce2, err := req2.URL()
	require.NoError(t, err)

	assert.NotEqual(t, csrf1.Secret(), csrf2.Secret())
	assert.NotEqual(t, nonce1.Secret(), nonce2.Secret())
}

// TestPurpose: Verifies WithExtraParam panics when the caller supplies a key the builder already manages.
// Scope: Unit Test
// Expected: WithExtraParam("scope", ...) panics rather than silently overwriting the managed scope parameter.
func TestAuthorize_WithExtraParam_PanicsOnManagedKeyCollision(t *testing.T) {
	clientID, err := oidc.NewClientID("aaa")
	require.NoError(t, err)

	assert.Panics(t, func() {
		authorize.New("https://example/authorize", clientID, authorize.AuthorizationCodeFlow(),
			authorize.WithExtraParam("scope", "override"),
		)
	})
}

// TestPurpose: Verifies the implicit and hybrid flows compute the right space-joined response_type value.
// Scope: Unit Test
// Expected: implicit(true) -> "id_token token"; hybrid(code, id_token) -> "code id_token".
func TestAuthorize_URL_FlowResponseTypes(t *testing.T) {
	clientID, err := oidc.NewClientID("aaa")
	require.NoError(t, err)

	implicit := authorize.New("https://example/authorize", clientID, authorize.ImplicitFlow(true),
		authorize.WithCsrfToken(oidc.NewCsrfToken("s")), authorize.WithNonce(oidc.NewNonce("n")))
	got, _, _, err := implicit.URL()
	require.NoError(t, err)
	assert.Contains(t, got, "response_type=id_token+token")

	hybrid := authorize.New("https://example/authorize", clientID, authorize.HybridFlow(authorize.ResponseTypeCode, authorize.ResponseTypeIDToken),
		authorize.WithCsrfToken(oidc.NewCsrfToken("s")), authorize.WithNonce(oidc.NewNonce("n")))
	got, _, _, err = hybrid.URL()
	require.NoError(t, err)
	assert.Contains(t, got, "response_type=code+id_token")
}
