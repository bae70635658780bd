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
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
)

// Key is a single JSON Web Key, polymorphic over KeyType. It carries the
// RFC 7517 metadata every variant shares (kid, use) plus the
// type-specific public/secret material, populated only through the
// NewXKey constructors or ParseJWKS so that an invalid key can never be
// half-built.
type Key struct {
	Kid string
	Use string // "sig", "enc", or "" (absent)
	Alg string // advertised alg, if any; "" when absent

	kty       KeyType
	publicKey *rsa.PublicKey
	secret    []byte
}

// Type returns the key's `kty` discriminant.
func (k Key) Type() KeyType { return k.kty }

// NewRSAKey builds an RSA verification key.
func NewRSAKey(kid, use, alg string, pub *rsa.PublicKey) Key {
	return Key{Kid: kid, Use: use, Alg: alg, kty: KeyTypeRSA, publicKey: pub}
}

// NewSymmetricKey builds an HMAC verification key from raw secret bytes,
// e.g. a client secret's UTF-8 encoding for HS256/384/512.
func NewSymmetricKey(kid string, secret []byte) Key {
	return Key{Kid: kid, kty: KeyTypeSymmetric, secret: append([]byte(nil), secret...)}
}

// rawJWK is the RFC 7517 wire representation.
type rawJWK struct {
	Kty string `json:"kty"`
	Use string `json:"use,omitempty"`
	Alg string `json:"alg,omitempty"`
	Kid string `json:"kid,omitempty"`
	N   string `json:"n,omitempty"`
	E   string `json:"e,omitempty"`
	K   string `json:"k,omitempty"`
}

// MarshalJSON emits the RFC 7517 wire form.
func (k Key) MarshalJSON() ([]byte, error) {
	raw := rawJWK{Kty: string(k.kty), Use: k.Use, Alg: k.Alg, Kid: k.Kid}
	switch k.kty {
	case KeyTypeRSA:
		if k.publicKey == nil {
			return nil, fmt.Errorf("jwks: RSA key %q has no public key material", k.Kid)
		}
		raw.N = base64.RawURLEncoding.EncodeToString(k.publicKey.N.Bytes())
		raw.E = base64.RawURLEncoding.EncodeToString(bigEndianBytes(k.publicKey.E))
	case KeyTypeSymmetric:
		raw.K = base64.RawURLEncoding.EncodeToString(k.secret)
	}
	return json.Marshal(raw)
}

// UnmarshalJSON parses the RFC 7517 wire form. Unknown key types
// surface as an error by default (spec.md §6: "unknown key types may
// either be ignored or surfaced as an error (configurable; default:
// surface)"); see ParseJWKSLenient for the configurable skip path.
func (k *Key) UnmarshalJSON(data []byte) error {
	var raw rawJWK
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("jwks: invalid key json: %w", err)
	}
	k.Kid = raw.Kid
	k.Use = raw.Use
	k.Alg = raw.Alg
	switch KeyType(raw.Kty) {
	case KeyTypeRSA:
		if raw.N == "" || raw.E == "" {
			return fmt.Errorf("jwks: RSA key %q missing n or e", raw.Kid)
		}
		nBytes, err := base64.RawURLEncoding.DecodeString(raw.N)
		if err != nil {
			return fmt.Errorf("jwks: RSA key %q has invalid n: %w", raw.Kid, err)
		}
		eBytes, err := base64.RawURLEncoding.DecodeString(raw.E)
		if err != nil {
			return fmt.Errorf("jwks: RSA key %q has invalid e: %w", raw.Kid, err)
		}
		k.kty = KeyTypeRSA
		k.publicKey = &rsa.PublicKey{
			N: new(big.Int).SetBytes(nBytes),
			E: int(new(big.Int).SetBytes(eBytes).Int64()),
		}
	case KeyTypeSymmetric:
		secret, err := base64.RawURLEncoding.DecodeString(raw.K)
		if err != nil {
			return fmt.Errorf("jwks: symmetric key %q has invalid k: %w", raw.Kid, err)
		}
		k.kty = KeyTypeSymmetric
		k.secret = secret
	default:
		return fmt.Errorf("jwks: unsupported key type %q", raw.Kty)
	}
	return nil
}

func bigEndianBytes(n int) []byte {
	if n == 0 {
		return []byte{0}
	}
	var res []byte
	for n > 0 {
		res = append([]byte{byte(n & 0xff)}, res...)
		n >>= 8
	}
	return res
}
