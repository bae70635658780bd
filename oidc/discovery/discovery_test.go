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

package discovery_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/opentrusty/oidcrp/oidc"
	"github.com/opentrusty/oidcrp/oidc/discovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metadataJSON(issuer string) string {
	return fmt.Sprintf(`{
		"issuer": %q,
		"authorization_endpoint": %q,
		"token_endpoint": %q,
		"jwks_uri": %q,
		"response_types_supported": ["code"],
		"subject_types_supported": ["public"],
		"id_token_signing_alg_values_supported": ["RS256"]
	}`, issuer, issuer+"/authorize", issuer+"/token", issuer+"/jwks.json")
}

// TestPurpose: Verifies Discover fetches the well-known document and parses it into ProviderMetadata.
// Scope: Unit Test
// Expected: the returned metadata's endpoints match the served document.
func TestDiscovery_Discover_Success(t *testing.T) {
	var requestedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, metadataJSON("http://"+r.Host))
	}))
	defer srv.Close()

	issuer, err := oidc.NewIssuerURL(srv.URL)
	require.NoError(t, err)

	metadata, err := discovery.Discover(context.Background(), issuer)
	require.NoError(t, err)
	assert.Equal(t, "/.well-known/openid-configuration", requestedPath)
	assert.Equal(t, srv.URL+"/authorize", metadata.AuthorizationEndpoint)
	assert.Equal(t, srv.URL+"/jwks.json", metadata.JWKSURI)
}

// TestPurpose: Verifies Discover rejects a document whose issuer claim doesn't match the URL it was fetched from.
// Scope: Unit Test
// Security: Prevents an OP from asserting an issuer identity other than the one the RP configured.
// Expected: Discover returns an ErrValidation discovery.Error.
func TestDiscovery_Discover_RejectsIssuerMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, metadataJSON("https://not-the-same-issuer.example.com"))
	}))
	defer srv.Close()

	issuer, err := oidc.NewIssuerURL(srv.URL)
	require.NoError(t, err)

	_, err = discovery.Discover(context.Background(), issuer)
	require.Error(t, err)
	var derr *discovery.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, discovery.ErrValidation, derr.Kind)
}

// TestPurpose: Verifies Discover surfaces a non-200 response as an ErrResponse carrying the status and body.
// Scope: Unit Test
// Expected: a 500 response yields an ErrResponse discovery.Error with Status 500.
func TestDiscovery_Discover_SurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "boom")
	}))
	defer srv.Close()

	issuer, err := oidc.NewIssuerURL(srv.URL)
	require.NoError(t, err)

	_, err = discovery.Discover(context.Background(), issuer)
	require.Error(t, err)
	var derr *discovery.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, discovery.ErrResponse, derr.Kind)
	assert.Equal(t, http.StatusInternalServerError, derr.Status)
}

// TestPurpose: Verifies JWKSURL.Fetch retrieves and parses a JWKS document.
// Scope: Unit Test
// Expected: Fetch returns a jwks.JWKS with the number of keys the server served.
func TestDiscovery_JWKSURL_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"keys":[]}`)
	}))
	defer srv.Close()

	ks, err := discovery.JWKSURL(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ks.Keys)
}
