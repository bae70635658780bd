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

// Package jwt provides a generic compact-JWS container: parse a signed
// token and keep its header, raw signing-input bytes, and signature
// available, but never unmarshal the payload into application claims
// until a caller proves the signature with a selected key. There is
// deliberately no accessor that returns claims from a token that has
// not gone through Verify.
package jwt

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/opentrusty/oidcrp/oidc/jwks"
)

// JSONWebToken is a parsed compact JWS carrying claims of type Claims.
// Claims is the one generic parameter this module keeps (Design Note
// §9): it lets the ID token and UserInfo verifiers share this single
// container type instead of one bespoke type per claims shape.
type JSONWebToken[Claims any] struct {
	header       Header
	signingInput []byte // b64url(header) + "." + b64url(payload), exactly as received
	payload      []byte // decoded but not yet unmarshaled payload JSON
	signature    []byte
	compact      string
}

// Parse splits a compact JWS into its three segments. It fails with
// ErrMalformed if there are not exactly three dot-separated segments, any
// segment fails base64url decoding, or the header is not valid JSON. The
// signing input is recorded from the untouched original segments, not a
// re-encoding, so that Verify never second-guesses a byte the OP signed.
func Parse[Claims any](compact string) (*JSONWebToken[Claims], error) {
	parts := strings.Split(compact, ".")
	if len(parts) != 3 {
		return nil, newError(ErrMalformed, "compact JWS must have exactly 3 segments", nil)
	}

	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, newError(ErrMalformed, "invalid base64url header", err)
	}
	payloadJSON, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, newError(ErrMalformed, "invalid base64url payload", err)
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, newError(ErrMalformed, "invalid base64url signature", err)
	}

	var h Header
	if err := json.Unmarshal(headerJSON, &h); err != nil {
		return nil, newError(ErrMalformed, "invalid header json", err)
	}
	if h.Alg == "" {
		return nil, newError(ErrMissingAlg, "header is missing alg", nil)
	}

	return &JSONWebToken[Claims]{
		header:       h,
		signingInput: []byte(parts[0] + "." + parts[1]),
		payload:      payloadJSON,
		signature:    sig,
		compact:      compact,
	}, nil
}

// Header returns a copy of the parsed JWS header.
func (t *JSONWebToken[Claims]) Header() Header { return t.header }

// Serialize returns the original compact form, unchanged.
func (t *JSONWebToken[Claims]) Serialize() string { return t.compact }

// VerifyUnsigned unmarshals the payload without any signature check. It
// only succeeds when the header alg is literally "none"; callers reach
// this exclusively through a verifier explicitly configured to accept
// unsigned tokens (the default always rejects alg "none" before this is
// ever called). This keeps the "claims only through verification" rule
// intact: there is still no path from raw bytes to claims other than a
// Verify-family method, it is just that this one's policy is "accept no
// signature at all", decided by the caller, not by this container.
func (t *JSONWebToken[Claims]) VerifyUnsigned() (Claims, error) {
	var zero Claims
	if t.header.Alg != "none" {
		return zero, newError(ErrUnsupportedAlg, "VerifyUnsigned requires alg \"none\"", nil)
	}
	if err := json.Unmarshal(t.payload, &zero); err != nil {
		return zero, newError(ErrMalformed, "invalid claims json", err)
	}
	return zero, nil
}

// Verify checks the token's signature under alg using key's material,
// then — only on success — unmarshals the payload into Claims and
// returns it. Apart from VerifyUnsigned, which accepts only alg "none",
// this is the only way to obtain claims from a JSONWebToken.
func (t *JSONWebToken[Claims]) Verify(set *jwks.JWKS, alg jwks.Algorithm, key jwks.Key) (Claims, error) {
	var zero Claims
	if string(alg) != t.header.Alg {
		return zero, newError(ErrUnsupportedAlg, "alg does not match the token's header", nil)
	}
	if err := set.VerifySignature(alg, key, t.signingInput, t.signature); err != nil {
		return zero, err
	}
	if err := json.Unmarshal(t.payload, &zero); err != nil {
		return zero, newError(ErrMalformed, "invalid claims json", err)
	}
	return zero, nil
}
