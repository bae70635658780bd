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

package token_test

import (
	"testing"

	"golang.org/x/oauth2"

	"github.com/opentrusty/oidcrp/oidc/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeCompactJWT = "eyJhbGciOiJub25lIn0.eyJzdWIiOiJ1c2VyLTEifQ."

// TestPurpose: Verifies Response.IDToken parses the id_token extra field without verifying it.
// Scope: Unit Test
// Expected: IDToken returns a parsed container whose header alg is readable even though nothing was verified.
func TestToken_Response_IDToken_ParsesExtraField(t *testing.T) {
	base := &oauth2.Token{AccessToken: "at-1"}
	withExtra := base.WithExtra(map[string]interface{}{"id_token": fakeCompactJWT})
	resp := token.NewResponse(withExtra)

	idToken, err := resp.IDToken()
	require.NoError(t, err)
	assert.Equal(t, "none", idToken.Header().Alg)
}

// TestPurpose: Verifies Response.IDToken fails when the authorization-code exchange response carries no id_token.
// Scope: Unit Test
// Expected: IDToken returns an error, since the initial exchange is required to carry one.
func TestToken_Response_IDToken_ErrorsWhenAbsent(t *testing.T) {
	resp := token.NewResponse(&oauth2.Token{AccessToken: "at-1"})
	_, err := resp.IDToken()
	require.Error(t, err)
}

// TestPurpose: Verifies RefreshResponse.IDToken tolerates an absent id_token, since it is optional on refresh.
// Scope: Unit Test
// Expected: IDToken returns (nil, nil) when the refresh response carries no id_token.
func TestToken_RefreshResponse_IDToken_OptionalWhenAbsent(t *testing.T) {
	resp := token.NewRefreshResponse(&oauth2.Token{AccessToken: "at-1"})
	idToken, err := resp.IDToken()
	require.NoError(t, err)
	assert.Nil(t, idToken)
}

// TestPurpose: Verifies RefreshResponse.IDToken still parses an id_token when the OP chooses to include one.
// Scope: Unit Test
// Expected: IDToken returns a parsed container when id_token is present on a refresh response.
func TestToken_RefreshResponse_IDToken_ParsesWhenPresent(t *testing.T) {
	base := &oauth2.Token{AccessToken: "at-1"}
	withExtra := base.WithExtra(map[string]interface{}{"id_token": fakeCompactJWT})
	resp := token.NewRefreshResponse(withExtra)

	idToken, err := resp.IDToken()
	require.NoError(t, err)
	require.NotNil(t, idToken)
	assert.Equal(t, "none", idToken.Header().Alg)
}
