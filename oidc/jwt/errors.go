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

package jwt

import "fmt"

// ErrorKind discriminates the ways a compact JWS can fail to parse or
// verify before claims validation ever runs (spec.md §7, "Jwt" kinds).
type ErrorKind string

const (
	ErrMalformed      ErrorKind = "malformed"
	ErrMissingAlg     ErrorKind = "missing_alg"
	ErrUnsupportedAlg ErrorKind = "unsupported_alg"
)

// Error is a parse/verify-time failure of the JWT container itself, as
// opposed to a claims-level failure (see oidc/verifier.ClaimsError).
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("jwt: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("jwt: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}
