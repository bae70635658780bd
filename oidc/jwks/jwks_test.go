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

package jwks_test

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"testing"

	"github.com/opentrusty/oidcrp/oidc/jwks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPurpose: Verifies an RSA JWK round-trips through MarshalJSON/UnmarshalJSON.
// Scope: Unit Test
// Expected: The unmarshaled key parses without error and keeps its RSA key type and kid.
func TestJWKS_Key_RSA_RoundTrip(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	key := jwks.NewRSAKey("kid-1", "sig", "RS256", &priv.PublicKey)
	data, err := json.Marshal(key)
	require.NoError(t, err)

	var parsed jwks.Key
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, jwks.KeyTypeRSA, parsed.Type())
	assert.Equal(t, "kid-1", parsed.Kid)
}

// TestPurpose: Verifies ParseJWKS rejects a document containing an unknown kty by default.
// Scope: Unit Test
// Expected: ParseJWKS returns an error; ParseJWKSLenient instead skips the bad key.
func TestJWKS_ParseJWKS_UnknownKeyType(t *testing.T) {
	doc := []byte(`{"keys":[{"kty":"EC","kid":"ec-1"}]}`)

	_, err := jwks.ParseJWKS(doc)
	require.Error(t, err)

	lenient, err := jwks.ParseJWKSLenient(doc)
	require.NoError(t, err)
	assert.Empty(t, lenient.Keys)
}

// TestPurpose: Verifies Select returns NoMatchingKey when no key matches alg/kid and AmbiguousKey when more than one does.
// Scope: Unit Test
// Security: Key-selection ambiguity must never silently pick a key (spec.md §4.6 step 2).
// Expected: zero matches -> ErrNoMatchingKey; two matches with no kid supplied -> ErrAmbiguousKey.
func TestJWKS_Select_AmbiguityRules(t *testing.T) {
	priv1, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	priv2, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	empty := &jwks.JWKS{}
	_, err = empty.Select(jwks.RS256, "")
	require.Error(t, err)
	var selErr *jwks.SelectError
	require.ErrorAs(t, err, &selErr)
	assert.Equal(t, jwks.ErrNoMatchingKey, selErr.Kind)

	set := &jwks.JWKS{Keys: []jwks.Key{
		jwks.NewRSAKey("a", "sig", "RS256", &priv1.PublicKey),
		jwks.NewRSAKey("b", "sig", "RS256", &priv2.PublicKey),
	}}
	_, err = set.Select(jwks.RS256, "")
	require.ErrorAs(t, err, &selErr)
	assert.Equal(t, jwks.ErrAmbiguousKey, selErr.Kind)

	only, err := set.Select(jwks.RS256, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", only.Kid)
}

// TestPurpose: Verifies Select excludes keys whose use is "enc".
// Scope: Unit Test
// Expected: Of an "enc" RSA key and a "sig" RSA key, only the "sig" key is returned.
func TestJWKS_Select_FiltersUseAndKeyType(t *testing.T) {
	sigKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	encKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	set := &jwks.JWKS{Keys: []jwks.Key{
		jwks.NewRSAKey("enc-1", "enc", "RS256", &encKey.PublicKey),
		jwks.NewRSAKey("sig-1", "sig", "RS256", &sigKey.PublicKey),
	}}
	got, err := set.Select(jwks.RS256, "")
	require.NoError(t, err)
	assert.Equal(t, "sig-1", got.Kid)
}

// TestPurpose: Verifies VerifySignature never accepts alg "none", regardless of what key is supplied.
// Scope: Unit Test
// Security: "none" is structurally excluded from VerifySignature, independent of any verifier option.
// Expected: VerifySignature returns a DisallowedAlg SignatureError.
func TestJWKS_VerifySignature_RejectsNone(t *testing.T) {
	set := &jwks.JWKS{}
	err := set.VerifySignature(jwks.None, jwks.Key{}, []byte("x"), []byte("y"))
	require.Error(t, err)
	var sigErr *jwks.SignatureError
	require.ErrorAs(t, err, &sigErr)
	assert.Equal(t, jwks.ErrDisallowedAlg, sigErr.Kind)
}

// TestPurpose: Verifies VerifySignature rejects a symmetric alg used against an asymmetric key, and vice versa.
// Scope: Unit Test
// Security: Algorithm/key-type confusion must fail closed (classic JWT "alg confusion" defense).
// Expected: InvalidKey SignatureError in both directions.
func TestJWKS_VerifySignature_RejectsKeyAlgMismatch(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	set := &jwks.JWKS{}

	rsaKey := jwks.NewRSAKey("k", "sig", "RS256", &priv.PublicKey)
	err = set.VerifySignature(jwks.HS256, rsaKey, []byte("x"), []byte("y"))
	require.Error(t, err)
	var sigErr *jwks.SignatureError
	require.ErrorAs(t, err, &sigErr)
	assert.Equal(t, jwks.ErrInvalidKey, sigErr.Kind)

	symKey := jwks.NewSymmetricKey("k", []byte("secret"))
	err = set.VerifySignature(jwks.RS256, symKey, []byte("x"), []byte("y"))
	require.ErrorAs(t, err, &sigErr)
	assert.Equal(t, jwks.ErrInvalidKey, sigErr.Kind)
}

// TestPurpose: Verifies SupportedAlgorithms never includes "none".
// Scope: Unit Test
// Expected: "none" is absent from the returned slice.
func TestJWKS_SupportedAlgorithms_ExcludesNone(t *testing.T) {
	for _, a := range jwks.SupportedAlgorithms() {
		assert.NotEqual(t, jwks.None, a)
	}
}
