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

package jwks

import (
	"encoding/json"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// JWKS is an ordered JSON Web Key Set (RFC 7517). Duplicate kid values
// are permitted but make key selection ambiguous; Select reports that
// ambiguity as ErrAmbiguousKey rather than picking one of the keys.
type JWKS struct {
	Keys []Key `json:"keys"`
}

// ParseJWKS parses the RFC 7517 wire form. Unknown key types surface as
// an error, per spec.md §6's default.
func ParseJWKS(data []byte) (*JWKS, error) {
	var ks JWKS
	if err := json.Unmarshal(data, &ks); err != nil {
		return nil, fmt.Errorf("jwks: %w", err)
	}
	return &ks, nil
}

// ParseJWKSLenient parses the RFC 7517 wire form, silently skipping any
// key that fails to parse (an unrecognized type or malformed key
// material) instead of failing the whole document — the configurable
// alternative spec.md §6 allows.
func ParseJWKSLenient(data []byte) (*JWKS, error) {
	var raw struct {
		Keys []json.RawMessage `json:"keys"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("jwks: %w", err)
	}
	ks := &JWKS{}
	for _, r := range raw.Keys {
		var k Key
		if err := json.Unmarshal(r, &k); err != nil {
			continue
		}
		ks.Keys = append(ks.Keys, k)
	}
	return ks, nil
}

// SignatureError is returned by VerifySignature.
type SignatureError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

// ErrorKind discriminates signature verification failures (spec.md §7,
// "Signature" kinds).
type ErrorKind string

const (
	ErrInvalidKey     ErrorKind = "invalid_key"
	ErrNoMatchingKey  ErrorKind = "no_matching_key"
	ErrAmbiguousKey   ErrorKind = "ambiguous_key"
	ErrUnsupportedAlg ErrorKind = "unsupported_alg"
	ErrDisallowedAlg  ErrorKind = "disallowed_alg"
	ErrCryptoError    ErrorKind = "crypto_error"
)

func (e *SignatureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("jwks: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("jwks: %s: %s", e.Kind, e.Msg)
}

func (e *SignatureError) Unwrap() error { return e.Err }

func newSignatureError(kind ErrorKind, msg string, err error) *SignatureError {
	return &SignatureError{Kind: kind, Msg: msg, Err: err}
}

// VerifySignature checks signature over signingInput under alg using
// key's material. "none" is never accepted here; callers must reject it
// before ever reaching key selection.
func (ks *JWKS) VerifySignature(alg Algorithm, key Key, signingInput, signature []byte) error {
	if alg == None {
		return newSignatureError(ErrDisallowedAlg, "alg \"none\" is never accepted", nil)
	}
	method := alg.signingMethod()
	if method == nil {
		return newSignatureError(ErrUnsupportedAlg, fmt.Sprintf("alg %q is not implemented", alg), nil)
	}

	var verifyKey interface{}
	if alg.IsSymmetric() {
		if key.Type() != KeyTypeSymmetric {
			return newSignatureError(ErrInvalidKey, "symmetric alg requires a symmetric key", nil)
		}
		verifyKey = key.secret
	} else {
		if key.Type() != alg.KeyType() {
			return newSignatureError(ErrInvalidKey, fmt.Sprintf("alg %q requires key type %q", alg, alg.KeyType()), nil)
		}
		if key.publicKey == nil {
			return newSignatureError(ErrInvalidKey, "key has no public key material", nil)
		}
		verifyKey = key.publicKey
	}

	if err := method.Verify(string(signingInput), signature, verifyKey); err != nil {
		if jwtErrIsMalformedKey(err) {
			return newSignatureError(ErrInvalidKey, "key material rejected by signing method", err)
		}
		return newSignatureError(ErrCryptoError, "signature verification failed", err)
	}
	return nil
}

func jwtErrIsMalformedKey(err error) bool {
	return err == jwt.ErrInvalidKeyType || err == jwt.ErrInvalidKey
}

// SelectError is returned by Select when JWKS key lookup cannot yield an
// unambiguous key (spec.md §4.6 step 2).
type SelectError struct {
	Kind ErrorKind
	Msg  string
}

func (e *SelectError) Error() string { return fmt.Sprintf("jwks: %s: %s", e.Kind, e.Msg) }

// Select filters Keys by the rules spec.md §4.6 step 2 mandates for
// asymmetric algorithms: key type must match alg, use must be "sig" or
// absent, and if kid is non-empty the key's Kid must match it.
//
//   - zero matches                       -> ErrNoMatchingKey
//   - multiple matches, no kid supplied   -> ErrAmbiguousKey
//   - multiple matches, all sharing kid   -> ErrAmbiguousKey (spec-illegal JWKS)
//   - exactly one match                  -> that key, nil
func (ks *JWKS) Select(alg Algorithm, kid string) (Key, error) {
	wantType := alg.KeyType()
	var matches []Key
	for _, k := range ks.Keys {
		if k.Type() != wantType {
			continue
		}
		if k.Use != "" && k.Use != "sig" {
			continue
		}
		if kid != "" && k.Kid != kid {
			continue
		}
		matches = append(matches, k)
	}
	switch len(matches) {
	case 0:
		return Key{}, &SelectError{Kind: ErrNoMatchingKey, Msg: fmt.Sprintf("no key matches alg %q kid %q", alg, kid)}
	case 1:
		return matches[0], nil
	default:
		return Key{}, &SelectError{Kind: ErrAmbiguousKey, Msg: fmt.Sprintf("%d keys match alg %q kid %q", len(matches), alg, kid)}
	}
}
