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

// Package verifier runs the OIDC Core verification algorithm against an
// ID token or a UserInfo response: issuer, audience, azp, signature
// algorithm, key selection, nonce, expiration, auth_time, acr, and
// at_hash/c_hash, in the order OIDC Core mandates.
package verifier

import "fmt"

// ClaimsErrorKind discriminates claims verification failures (spec.md
// §7, "Claims" kinds).
type ClaimsErrorKind string

const (
	ErrMissingClaim     ClaimsErrorKind = "missing_claim"
	ErrInvalidIssuer    ClaimsErrorKind = "invalid_issuer"
	ErrInvalidAudience  ClaimsErrorKind = "invalid_audience"
	ErrMissingAzp       ClaimsErrorKind = "missing_azp"
	ErrInvalidAzp       ClaimsErrorKind = "invalid_azp"
	ErrExpired          ClaimsErrorKind = "expired"
	ErrNoSignature      ClaimsErrorKind = "no_signature"
	ErrInvalidAtHash    ClaimsErrorKind = "invalid_at_hash"
	ErrInvalidCHash     ClaimsErrorKind = "invalid_c_hash"
	ErrInvalidNonce     ClaimsErrorKind = "invalid_nonce"
	ErrAuthTimeExceeded ClaimsErrorKind = "auth_time_exceeded"
	ErrAcrMismatch      ClaimsErrorKind = "acr_mismatch"
	ErrOther            ClaimsErrorKind = "other"
)

// ClaimsError is returned by IDTokenVerifier.Verify and UserInfoVerifier
// claim validation when the cryptographic signature checked out but a
// claim failed a policy check.
type ClaimsError struct {
	Kind  ClaimsErrorKind
	Claim string // set for ErrMissingClaim
	Msg   string
	Err   error
}

func (e *ClaimsError) Error() string {
	if e.Claim != "" {
		return fmt.Sprintf("verifier: %s: %s: %s", e.Kind, e.Claim, e.Msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("verifier: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("verifier: %s: %s", e.Kind, e.Msg)
}

func (e *ClaimsError) Unwrap() error { return e.Err }

func newClaimsError(kind ClaimsErrorKind, msg string) *ClaimsError {
	return &ClaimsError{Kind: kind, Msg: msg}
}

func missingClaimError(claim string) *ClaimsError {
	return &ClaimsError{Kind: ErrMissingClaim, Claim: claim, Msg: "required claim is missing"}
}

// UserInfoErrorKind discriminates UserInfo verification failures
// (spec.md §7, "UserInfo" kinds).
type UserInfoErrorKind string

const (
	ErrUserInfoRequest            UserInfoErrorKind = "request"
	ErrUserInfoResponse           UserInfoErrorKind = "response"
	ErrUserInfoContentType        UserInfoErrorKind = "content_type"
	ErrUserInfoClaimsVerification UserInfoErrorKind = "claims_verification"
	ErrUserInfoParse              UserInfoErrorKind = "parse"
)

// UserInfoError is returned by UserInfoVerifier.Verify.
type UserInfoError struct {
	Kind     UserInfoErrorKind
	Msg      string
	Status   int    // set for ErrUserInfoResponse
	Actual   string // set for ErrUserInfoContentType
	ClaimErr *ClaimsError // set for ErrUserInfoClaimsVerification
	Err      error
}

func (e *UserInfoError) Error() string {
	switch e.Kind {
	case ErrUserInfoClaimsVerification:
		return fmt.Sprintf("verifier: userinfo: %s: %v", e.Kind, e.ClaimErr)
	case ErrUserInfoContentType:
		return fmt.Sprintf("verifier: userinfo: %s: got %q", e.Kind, e.Actual)
	default:
		if e.Err != nil {
			return fmt.Sprintf("verifier: userinfo: %s: %s: %v", e.Kind, e.Msg, e.Err)
		}
		return fmt.Sprintf("verifier: userinfo: %s: %s", e.Kind, e.Msg)
	}
}

func (e *UserInfoError) Unwrap() error {
	if e.ClaimErr != nil {
		return e.ClaimErr
	}
	return e.Err
}
