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
	"log/slog"

	"github.com/opentrusty/oidcrp/oidc"
	"github.com/opentrusty/oidcrp/oidc/claims"
	"github.com/opentrusty/oidcrp/oidc/discovery"
	"github.com/opentrusty/oidcrp/oidc/internal/obs"
	"github.com/opentrusty/oidcrp/oidc/jwks"
	"github.com/opentrusty/oidcrp/oidc/jwt"
)

// IDTokenVerifier runs the OIDC Core ID token verification algorithm
// (spec.md §4.6). It is built from client identity, issuer, and a JWKS
// snapshot, and is safe for concurrent Verify calls: every field is set
// once in NewIDTokenVerifier and never mutated afterward.
type IDTokenVerifier struct {
	issuer   oidc.IssuerURL
	clientID oidc.ClientID
	keySet   *jwks.JWKS
	cfg      *config
}

// NewIDTokenVerifier builds a verifier for ID tokens issued by issuer to
// clientID, checked against keySet. When metadata is non-nil and no
// WithAllowedAlgorithms option is given, the allowed algorithm set
// defaults to the intersection of metadata's
// id_token_signing_alg_values_supported and the algorithms this library
// implements (spec.md §4.6 step 1); pass metadata as nil to allow every
// algorithm the library supports. A WithAllowedAlgorithms set is
// intersected with that same default, so it can only narrow it.
func NewIDTokenVerifier(issuer oidc.IssuerURL, clientID oidc.ClientID, keySet *jwks.JWKS, metadata *discovery.ProviderMetadata, opts ...Option) *IDTokenVerifier {
	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	defaults := defaultAllowedAlgs(metadata)
	if cfg.allowedAlgs == nil {
		cfg.allowedAlgs = defaults
	} else {
		for a := range cfg.allowedAlgs {
			if !defaults[a] {
				delete(cfg.allowedAlgs, a)
			}
		}
	}
	return &IDTokenVerifier{issuer: issuer, clientID: clientID, keySet: keySet, cfg: cfg}
}

func defaultAllowedAlgs(metadata *discovery.ProviderMetadata) map[jwks.Algorithm]bool {
	supported := map[jwks.Algorithm]bool{}
	for _, a := range jwks.SupportedAlgorithms() {
		supported[a] = true
	}
	if metadata == nil {
		return supported
	}
	allowed := map[jwks.Algorithm]bool{}
	for _, advertised := range metadata.IDTokenSigningAlgValuesSupported {
		a := jwks.Algorithm(advertised)
		if supported[a] {
			allowed[a] = true
		}
	}
	return allowed
}

// Verify runs the full ID token verification pipeline against the
// compact JWS rawIDToken and returns its verified claims.
func (v *IDTokenVerifier) Verify(ctx context.Context, rawIDToken string, opts ...VerifyOption) (claims.IDTokenClaims, error) {
	var vc verifyConfig
	for _, opt := range opts {
		opt(&vc)
	}

	ctx, span := obs.StartSpan(ctx, v.cfg.tracer, "oidc.verifier.verify_id_token")
	var zero claims.IDTokenClaims

	result, err := v.verify(ctx, rawIDToken, &vc)
	obs.EndSpan(span, err)
	v.recordResult(ctx, err)
	if err != nil {
		return zero, err
	}
	return result, nil
}

func (v *IDTokenVerifier) recordResult(ctx context.Context, err error) {
	if err == nil {
		obs.RecordVerifierResult(ctx, "success", "")
		slog.DebugContext(ctx, "id token verified", obs.Issuer(v.issuer.String()), obs.ClientID(v.clientID.String()))
		return
	}
	kind := failureKindOf(err)
	obs.RecordVerifierResult(ctx, "failure", kind)
	slog.WarnContext(ctx, "id token verification failed", obs.Issuer(v.issuer.String()), obs.ClientID(v.clientID.String()), obs.FailureKind(kind), obs.Err(err))
}

func failureKindOf(err error) string {
	switch e := err.(type) {
	case *jwks.SignatureError:
		return string(e.Kind)
	case *ClaimsError:
		return string(e.Kind)
	case *jwt.Error:
		return string(e.Kind)
	default:
		return "other"
	}
}

func (v *IDTokenVerifier) verify(ctx context.Context, rawIDToken string, vc *verifyConfig) (claims.IDTokenClaims, error) {
	var zero claims.IDTokenClaims

	token, err := jwt.Parse[claims.IDTokenClaims](rawIDToken)
	if err != nil {
		return zero, err
	}

	// Step 1: header inspection.
	alg := jwks.Algorithm(token.Header().Alg)
	if alg == jwks.None {
		if !v.cfg.insecureAllowNone {
			return zero, &jwks.SignatureError{Kind: jwks.ErrDisallowedAlg, Msg: `alg "none" is never accepted`}
		}
	} else if !v.cfg.allowedAlgs[alg] {
		return zero, &jwks.SignatureError{Kind: jwks.ErrDisallowedAlg, Msg: "alg is not in the verifier's allowed set"}
	}

	var parsed claims.IDTokenClaims
	if alg == jwks.None {
		// insecureAllowNone was already checked above; steps 2-3 (key
		// selection, signature) have nothing to do for an unsigned token.
		parsed, err = token.VerifyUnsigned()
		if err != nil {
			return zero, err
		}
	} else {
		// Step 2: key selection.
		key, err := v.selectKey(alg, token.Header().Kid)
		if err != nil {
			return zero, err
		}
		// Steps 3-4: signature check + payload parse.
		parsed, err = token.Verify(v.keySet, alg, key)
		if err != nil {
			return zero, err
		}
	}

	if err := v.validateClaims(alg, parsed, vc); err != nil {
		return zero, err
	}
	return parsed, nil
}

func (v *IDTokenVerifier) selectKey(alg jwks.Algorithm, kid string) (jwks.Key, error) {
	if alg.IsSymmetric() {
		if v.cfg.clientSecret == nil {
			return jwks.Key{}, &jwks.SignatureError{Kind: jwks.ErrInvalidKey, Msg: "symmetric alg requires a client secret (public clients must reject HS*)"}
		}
		return jwks.NewSymmetricKey(kid, []byte(v.cfg.clientSecret.Secret())), nil
	}
	key, err := v.keySet.Select(alg, kid)
	if err != nil {
		if se, ok := err.(*jwks.SelectError); ok {
			return jwks.Key{}, &jwks.SignatureError{Kind: se.Kind, Msg: se.Msg}
		}
		return jwks.Key{}, err
	}
	return key, nil
}

func (v *IDTokenVerifier) validateClaims(alg jwks.Algorithm, c claims.IDTokenClaims, vc *verifyConfig) error {
	now := v.cfg.clock()

	// Step 5: iss.
	if !c.Issuer.Equal(v.issuer) {
		return newClaimsError(ErrInvalidIssuer, "iss does not match the verifier's configured issuer")
	}

	// Step 6: aud / azp.
	if !c.Audience.Contains(v.clientID) {
		return newClaimsError(ErrInvalidAudience, "aud does not contain the client id")
	}
	if len(c.Audience) > 1 {
		if c.AuthorizedParty == nil {
			return newClaimsError(ErrMissingAzp, "azp is required when aud has more than one entry")
		}
		if *c.AuthorizedParty != v.clientID.String() {
			return newClaimsError(ErrInvalidAzp, "azp does not match the client id")
		}
	} else if c.AuthorizedParty != nil && *c.AuthorizedParty != v.clientID.String() {
		return newClaimsError(ErrInvalidAzp, "azp does not match the client id")
	}

	// Step 7: exp.
	if !c.Expiry.Time().After(now.Add(-v.cfg.clockSkew)) {
		return newClaimsError(ErrExpired, "exp is not after now minus clock skew")
	}

	// Step 8: iat.
	if c.IssuedAt.Time().After(now.Add(v.cfg.clockSkew)) {
		return newClaimsError(ErrOther, "iat is in the future")
	}
	if v.cfg.maxTokenAge != nil && now.Sub(c.IssuedAt.Time()) > *v.cfg.maxTokenAge {
		return newClaimsError(ErrOther, "token exceeds the configured maximum age")
	}

	// Step 9: nonce.
	if err := v.checkNonce(c, vc); err != nil {
		return err
	}

	// Step 10: auth_time.
	if v.cfg.maxAuthAge != nil {
		if c.AuthTime == nil {
			return missingClaimError("auth_time")
		}
		if now.Sub(c.AuthTime.Time()) > *v.cfg.maxAuthAge {
			return newClaimsError(ErrAuthTimeExceeded, "auth_time exceeds the configured maximum auth age")
		}
	}

	// Step 11: acr.
	if len(v.cfg.requiredACR) > 0 {
		if c.ACR == nil || !contains(v.cfg.requiredACR, *c.ACR) {
			return newClaimsError(ErrAcrMismatch, "acr does not match any required value")
		}
	}

	// Step 12: hash claims.
	return v.checkHashes(alg, c, vc)
}

func (v *IDTokenVerifier) checkNonce(c claims.IDTokenClaims, vc *verifyConfig) error {
	var raw string
	if c.Nonce != nil {
		raw = *c.Nonce
	}
	if vc.nonceValidator != nil {
		if err := vc.nonceValidator(raw); err != nil {
			return &ClaimsError{Kind: ErrInvalidNonce, Msg: "nonce validator rejected the claim", Err: err}
		}
		return nil
	}
	if vc.nonce == nil {
		return nil
	}
	if c.Nonce == nil || *c.Nonce != vc.nonce.Secret() {
		return newClaimsError(ErrInvalidNonce, "nonce claim does not match the expected nonce")
	}
	return nil
}

func (v *IDTokenVerifier) checkHashes(alg jwks.Algorithm, c claims.IDTokenClaims, vc *verifyConfig) error {
	if vc.accessToken != "" && c.AccessTokenHash != nil {
		want, err := leftHalfHash(alg, vc.accessToken)
		if err != nil {
			return &ClaimsError{Kind: ErrOther, Msg: "could not compute at_hash", Err: err}
		}
		if want != *c.AccessTokenHash {
			return newClaimsError(ErrInvalidAtHash, "at_hash does not match the supplied access token")
		}
	}
	if vc.authCode != "" && c.CodeHash != nil {
		want, err := leftHalfHash(alg, vc.authCode)
		if err != nil {
			return &ClaimsError{Kind: ErrOther, Msg: "could not compute c_hash", Err: err}
		}
		if want != *c.CodeHash {
			return newClaimsError(ErrInvalidCHash, "c_hash does not match the supplied authorization code")
		}
	}
	return nil
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
