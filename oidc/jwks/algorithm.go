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

// Package jwks models a JSON Web Key Set (RFC 7517) and the signature
// verification operation a relying party runs against it. Key material
// construction mirrors the teacher's own JWK encode/decode
// (internal/oidc/service.go's GetJWKS/bigIntToBytes), generalized from a
// signing-only, RSA-only shape to a verify-capable RSA+HMAC one.
package jwks

import "github.com/golang-jwt/jwt/v5"

// KeyType is the `kty` discriminant of a JSON Web Key.
type KeyType string

const (
	KeyTypeRSA       KeyType = "RSA"
	KeyTypeSymmetric KeyType = "oct"
)

// Algorithm is a JWS `alg` header value. The zero value and the literal
// "none" are never a member of any supported set: none is rejected
// unconditionally by the verifier unless explicitly configured otherwise.
type Algorithm string

const (
	RS256 Algorithm = "RS256"
	RS384 Algorithm = "RS384"
	RS512 Algorithm = "RS512"
	PS256 Algorithm = "PS256"
	PS384 Algorithm = "PS384"
	PS512 Algorithm = "PS512"
	HS256 Algorithm = "HS256"
	HS384 Algorithm = "HS384"
	HS512 Algorithm = "HS512"
	None  Algorithm = "none"
)

// SupportedAlgorithms lists every alg this package can verify signatures
// for. "none" is deliberately excluded; it is never a member of any
// allowed-algorithm set.
func SupportedAlgorithms() []Algorithm {
	return []Algorithm{RS256, RS384, RS512, PS256, PS384, PS512, HS256, HS384, HS512}
}

// IsSymmetric reports whether alg uses the client secret (HMAC) rather
// than a key drawn from a JWKS.
func (a Algorithm) IsSymmetric() bool {
	switch a {
	case HS256, HS384, HS512:
		return true
	default:
		return false
	}
}

// KeyType returns the JWK key type an asymmetric algorithm requires.
// Symmetric algorithms have no associated KeyType (they use the client
// secret directly); calling KeyType on one returns "".
func (a Algorithm) KeyType() KeyType {
	switch a {
	case RS256, RS384, RS512, PS256, PS384, PS512:
		return KeyTypeRSA
	default:
		return ""
	}
}

// signingMethod resolves the golang-jwt SigningMethod that performs the
// actual cryptographic verification for alg. Supported at a minimum:
// RS256/384/512, PS256/384/512, HS256/384/512 (spec.md §4.3); "none" is
// deliberately absent from this table and resolves to nil, though
// VerifySignature rejects "none" with ErrDisallowedAlg before consulting
// it.
func (a Algorithm) signingMethod() jwt.SigningMethod {
	switch a {
	case RS256:
		return jwt.SigningMethodRS256
	case RS384:
		return jwt.SigningMethodRS384
	case RS512:
		return jwt.SigningMethodRS512
	case PS256:
		return jwt.SigningMethodPS256
	case PS384:
		return jwt.SigningMethodPS384
	case PS512:
		return jwt.SigningMethodPS512
	case HS256:
		return jwt.SigningMethodHS256
	case HS384:
		return jwt.SigningMethodHS384
	case HS512:
		return jwt.SigningMethodHS512
	default:
		return nil
	}
}
