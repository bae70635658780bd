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

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/opentrusty/oidcrp/oidc/jwks"
)

// leftHalfHash computes at_hash/c_hash: hash value's ASCII bytes with the
// digest algorithm matching alg's bit size, keep the left half of the
// digest, and base64url-encode it without padding.
func leftHalfHash(alg jwks.Algorithm, value string) (string, error) {
	var digest []byte
	switch {
	case strings.HasSuffix(string(alg), "256"):
		sum := sha256.Sum256([]byte(value))
		digest = sum[:]
	case strings.HasSuffix(string(alg), "384"):
		sum := sha512.Sum384([]byte(value))
		digest = sum[:]
	case strings.HasSuffix(string(alg), "512"):
		sum := sha512.Sum512([]byte(value))
		digest = sum[:]
	default:
		return "", fmt.Errorf("verifier: alg %q has no defined hash size", alg)
	}
	half := digest[:len(digest)/2]
	return base64.RawURLEncoding.EncodeToString(half), nil
}
