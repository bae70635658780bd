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

package claims_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/opentrusty/oidcrp/oidc"
	"github.com/opentrusty/oidcrp/oidc/claims"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPurpose: Verifies a minimal ID token payload with only the required claims unmarshals cleanly.
// Scope: Unit Test
// Expected: iss/sub/aud/exp/iat populate their typed fields; everything else is zero.
func TestClaims_IDToken_UnmarshalMinimal(t *testing.T) {
	raw := []byte(`{
		"iss": "https://issuer.example.com",
		"sub": "user-1",
		"aud": "client-1",
		"exp": 1999999999,
		"iat": 1999999000
	}`)

	var c claims.IDTokenClaims
	require.NoError(t, json.Unmarshal(raw, &c))
	assert.Equal(t, "https://issuer.example.com", c.Issuer.String())
	assert.Equal(t, "user-1", c.Subject.String())
	assert.True(t, c.Audience.Contains(mustClientID(t, "client-1")))
	assert.Equal(t, int64(1999999999), c.Expiry.Time().Unix())
	assert.Nil(t, c.Nonce)
	assert.Nil(t, c.Extra)
}

// TestPurpose: Verifies UnmarshalJSON rejects an ID token payload missing any of the five required claims.
// Scope: Unit Test
// Expected: missing sub yields an error.
func TestClaims_IDToken_UnmarshalRejectsMissingRequiredClaim(t *testing.T) {
	raw := []byte(`{"iss":"https://issuer.example.com","aud":"client-1","exp":1999999999,"iat":1999999000}`)
	var c claims.IDTokenClaims
	err := json.Unmarshal(raw, &c)
	require.Error(t, err)
}

// TestPurpose: Verifies an unrecognized top-level claim is preserved in Extra rather than silently dropped.
// Scope: Unit Test
// Expected: Extra["custom_claim"] round-trips the original JSON value.
func TestClaims_IDToken_UnknownClaimGoesToExtra(t *testing.T) {
	raw := []byte(`{
		"iss": "https://issuer.example.com",
		"sub": "user-1",
		"aud": ["client-1"],
		"exp": 1999999999,
		"iat": 1999999000,
		"custom_claim": "custom-value"
	}`)
	var c claims.IDTokenClaims
	require.NoError(t, json.Unmarshal(raw, &c))
	require.Contains(t, c.Extra, "custom_claim")
	var v string
	require.NoError(t, json.Unmarshal(c.Extra["custom_claim"], &v))
	assert.Equal(t, "custom-value", v)
}

// TestPurpose: Verifies MarshalJSON/UnmarshalJSON round-trip a fully populated ID token, including a language-tagged name.
// Scope: Unit Test
// Expected: the "name" and "name#de" keys both survive the round trip.
func TestClaims_IDToken_MarshalRoundTrip_LocalizedName(t *testing.T) {
	azp := "client-1"
	c := claims.IDTokenClaims{
		Issuer:   mustIssuer(t, "https://issuer.example.com"),
		Subject:  mustSubject(t, "user-1"),
		Audience: []string{"client-1"},
		Expiry:   claims.NewUnixTime(time.Unix(1999999999, 0)),
		IssuedAt: claims.NewUnixTime(time.Unix(1999999000, 0)),
		AuthorizedParty: &azp,
		StandardClaims: claims.StandardClaims{
			Name: claims.LocalizedClaim{"": "Jane Doe", "de": "Johanna Doe"},
		},
	}

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "Jane Doe", m["name"])
	assert.Equal(t, "Johanna Doe", m["name#de"])

	var back claims.IDTokenClaims
	require.NoError(t, json.Unmarshal(data, &back))
	def, ok := back.Name.Default()
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", def)
	assert.Equal(t, "Johanna Doe", back.Name["de"])
}

// TestPurpose: Verifies UserInfoClaims requires only sub and tolerates everything else absent.
// Scope: Unit Test
// Expected: unmarshal of {"sub":"user-1"} succeeds with an empty StandardClaims.
func TestClaims_UserInfo_RequiresOnlySub(t *testing.T) {
	var c claims.UserInfoClaims
	require.NoError(t, json.Unmarshal([]byte(`{"sub":"user-1"}`), &c))
	assert.Equal(t, "user-1", c.Subject.String())

	var missing claims.UserInfoClaims
	err := json.Unmarshal([]byte(`{"name":"Jane"}`), &missing)
	require.Error(t, err)
}

// TestPurpose: Verifies the address claim's formatted/street_address fields support language tags while the rest stay plain strings.
// Scope: Unit Test
// Expected: locality/region round-trip as plain strings; formatted's untagged entry survives as its Default().
func TestClaims_AddressClaim_RoundTrip(t *testing.T) {
	addr := claims.AddressClaim{
		Formatted: claims.LocalizedClaim{"": "123 Main St"},
		Locality:  "Springfield",
		Region:    "IL",
	}
	data, err := json.Marshal(addr)
	require.NoError(t, err)

	var back claims.AddressClaim
	require.NoError(t, json.Unmarshal(data, &back))
	def, _ := back.Formatted.Default()
	assert.Equal(t, "123 Main St", def)
	assert.Equal(t, "Springfield", back.Locality)
	assert.Equal(t, "IL", back.Region)
}

// TestPurpose: Verifies UnixTime.IsZero distinguishes an explicitly-set claim from one that was never unmarshaled.
// Scope: Unit Test
// Expected: a freshly zero-valued UnixTime reports IsZero() true; one populated via UnmarshalJSON reports false.
func TestClaims_UnixTime_IsZero(t *testing.T) {
	var u claims.UnixTime
	assert.True(t, u.IsZero())

	require.NoError(t, u.UnmarshalJSON([]byte("1999999999")))
	assert.False(t, u.IsZero())
}

func mustIssuer(t *testing.T, s string) oidc.IssuerURL {
	t.Helper()
	i, err := oidc.NewIssuerURL(s)
	require.NoError(t, err)
	return i
}

func mustSubject(t *testing.T, s string) oidc.SubjectIdentifier {
	t.Helper()
	sub, err := oidc.NewSubjectIdentifier(s)
	require.NoError(t, err)
	return sub
}

func mustClientID(t *testing.T, s string) oidc.ClientID {
	t.Helper()
	c, err := oidc.NewClientID(s)
	require.NoError(t, err)
	return c
}
