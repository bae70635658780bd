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
	"context"
	"encoding/json"
	"log/slog"
	"mime"

	"github.com/opentrusty/oidcrp/oidc"
	"github.com/opentrusty/oidcrp/oidc/claims"
	"github.com/opentrusty/oidcrp/oidc/internal/obs"
	"github.com/opentrusty/oidcrp/oidc/jwks"
	"github.com/opentrusty/oidcrp/oidc/jwt"
)

// UserInfoVerifier verifies a UserInfo endpoint response (spec.md §4.7).
// A response may be a bare JSON object (unsigned) or a signed JWT,
// selected by Content-Type.
type UserInfoVerifier struct {
	issuer   oidc.IssuerURL
	clientID oidc.ClientID
	keySet   *jwks.JWKS
	cfg      *config
}

// NewUserInfoVerifier builds a verifier for UserInfo responses from
// issuer, checked against keySet when the response arrives signed. Pass
// WithRequireSignedResponse to reject an unsigned (application/json)
// response outright.
func NewUserInfoVerifier(issuer oidc.IssuerURL, clientID oidc.ClientID, keySet *jwks.JWKS, opts ...Option) *UserInfoVerifier {
	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.allowedAlgs == nil {
		cfg.allowedAlgs = defaultAllowedAlgs(nil)
	}
	return &UserInfoVerifier{issuer: issuer, clientID: clientID, keySet: keySet, cfg: cfg}
}

// Verify parses and validates a UserInfo response body given its
// Content-Type header value.
func (v *UserInfoVerifier) Verify(ctx context.Context, contentType string, body []byte, opts ...VerifyOption) (claims.UserInfoClaims, error) {
	var vc verifyConfig
	for _, opt := range opts {
		opt(&vc)
	}

	ctx, span := obs.StartSpan(ctx, v.cfg.tracer, "oidc.verifier.verify_userinfo")
	result, err := v.verify(ctx, contentType, body, &vc)
	obs.EndSpan(span, err)
	if err != nil {
		obs.RecordVerifierResult(ctx, "failure", failureKindOf(err))
		slog.WarnContext(ctx, "userinfo verification failed", obs.Issuer(v.issuer.String()), obs.Err(err))
	} else {
		obs.RecordVerifierResult(ctx, "success", "")
		slog.DebugContext(ctx, "userinfo verified", obs.Issuer(v.issuer.String()))
	}
	return result, err
}

func (v *UserInfoVerifier) verify(ctx context.Context, contentType string, body []byte, vc *verifyConfig) (claims.UserInfoClaims, error) {
	var zero claims.UserInfoClaims

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}

	var c claims.UserInfoClaims
	var signed bool
	switch mediaType {
	case "application/json":
		if v.cfg.requireSignedUserInfo {
			return zero, &UserInfoError{Kind: ErrUserInfoContentType, Actual: mediaType, Msg: "verifier requires a signed response"}
		}
		if err := json.Unmarshal(body, &c); err != nil {
			return zero, &UserInfoError{Kind: ErrUserInfoParse, Msg: "invalid userinfo json", Err: err}
		}
	case "application/jwt":
		signed = true
		token, err := jwt.Parse[claims.UserInfoClaims](string(body))
		if err != nil {
			return zero, &UserInfoError{Kind: ErrUserInfoParse, Msg: "invalid userinfo jwt", Err: err}
		}
		alg := jwks.Algorithm(token.Header().Alg)
		if alg == jwks.None || !v.cfg.allowedAlgs[alg] {
			return zero, &UserInfoError{Kind: ErrUserInfoParse, Msg: "alg is not allowed for signed userinfo responses"}
		}
		idv := &IDTokenVerifier{issuer: v.issuer, clientID: v.clientID, keySet: v.keySet, cfg: v.cfg}
		key, err := idv.selectKey(alg, token.Header().Kid)
		if err != nil {
			return zero, &UserInfoError{Kind: ErrUserInfoParse, Msg: "could not select a verification key", Err: err}
		}
		c, err = token.Verify(v.keySet, alg, key)
		if err != nil {
			return zero, &UserInfoError{Kind: ErrUserInfoParse, Msg: "signature verification failed", Err: err}
		}
	default:
		return zero, &UserInfoError{Kind: ErrUserInfoContentType, Actual: mediaType, Msg: "unsupported content type"}
	}

	if err := v.validateClaims(c, signed, vc); err != nil {
		return zero, &UserInfoError{Kind: ErrUserInfoClaimsVerification, Msg: "claims failed validation", ClaimErr: err}
	}
	return c, nil
}

// validateClaims implements spec.md §4.7's claims validation: sub is
// always required and checked for substitution; iss/aud are checked only
// when present, and their absence is tolerated only in an unsigned
// response.
func (v *UserInfoVerifier) validateClaims(c claims.UserInfoClaims, signed bool, vc *verifyConfig) *ClaimsError {
	if vc.expectedSub != nil && c.Subject.String() != *vc.expectedSub {
		return newClaimsError(ErrOther, "sub does not match the expected subject (substitution defense)")
	}

	if iss, ok := c.Extra["iss"]; ok {
		var issStr string
		if err := json.Unmarshal(iss, &issStr); err == nil && issStr != v.issuer.String() {
			return newClaimsError(ErrInvalidIssuer, "iss does not match the verifier's configured issuer")
		}
	} else if signed {
		return missingClaimError("iss")
	}

	if aud, ok := c.Extra["aud"]; ok {
		var a oidc.Audience
		if err := a.UnmarshalJSON(aud); err == nil && !a.Contains(v.clientID) {
			return newClaimsError(ErrInvalidAudience, "aud does not contain the client id")
		}
	} else if signed {
		return missingClaimError("aud")
	}

	return nil
}
