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

package claims

import (
	"encoding/json"
	"fmt"

	"github.com/opentrusty/oidcrp/oidc"
)

// IDTokenClaims is the decoded payload of an OIDC ID Token (Core §2).
// The required claims (iss, sub, aud, exp, iat) are typed fields; the
// rest of OIDC Core §5.1's standard claims are flattened in via the
// embedded StandardClaims, and anything the verifier doesn't recognize
// lands in Extra rather than being silently dropped.
type IDTokenClaims struct {
	Issuer   oidc.IssuerURL
	Subject  oidc.SubjectIdentifier
	Audience oidc.Audience
	Expiry   UnixTime
	IssuedAt UnixTime

	AuthTime        *UnixTime
	Nonce           *string
	ACR             *string
	AMR             []string
	AuthorizedParty *string
	AccessTokenHash *string
	CodeHash        *string

	StandardClaims

	// Extra carries any claim this type does not model explicitly,
	// keyed by its JSON name.
	Extra map[string]json.RawMessage
}

func (c IDTokenClaims) MarshalJSON() ([]byte, error) {
	out := map[string]json.RawMessage{}
	out["iss"] = mustMarshal(c.Issuer.String())
	out["sub"] = mustMarshal(c.Subject.String())
	audJSON, err := c.Audience.MarshalJSON()
	if err != nil {
		return nil, err
	}
	out["aud"] = audJSON
	expJSON, err := c.Expiry.MarshalJSON()
	if err != nil {
		return nil, err
	}
	out["exp"] = expJSON
	iatJSON, err := c.IssuedAt.MarshalJSON()
	if err != nil {
		return nil, err
	}
	out["iat"] = iatJSON

	if c.AuthTime != nil {
		authTimeJSON, err := c.AuthTime.MarshalJSON()
		if err != nil {
			return nil, err
		}
		out["auth_time"] = authTimeJSON
	}
	if c.Nonce != nil {
		out["nonce"] = mustMarshal(*c.Nonce)
	}
	if c.ACR != nil {
		out["acr"] = mustMarshal(*c.ACR)
	}
	if len(c.AMR) > 0 {
		out["amr"] = mustMarshal(c.AMR)
	}
	if c.AuthorizedParty != nil {
		out["azp"] = mustMarshal(*c.AuthorizedParty)
	}
	if c.AccessTokenHash != nil {
		out["at_hash"] = mustMarshal(*c.AccessTokenHash)
	}
	if c.CodeHash != nil {
		out["c_hash"] = mustMarshal(*c.CodeHash)
	}

	if err := encodeStandardClaims(out, c.StandardClaims); err != nil {
		return nil, err
	}
	for k, v := range c.Extra {
		out[k] = v
	}
	return json.Marshal(out)
}

func (c *IDTokenClaims) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("claims: invalid id token payload: %w", err)
	}

	issRaw, ok := raw["iss"]
	if !ok {
		return fmt.Errorf("claims: id token missing iss")
	}
	var issStr string
	if err := json.Unmarshal(issRaw, &issStr); err != nil {
		return fmt.Errorf("claims: id token iss is not a string: %w", err)
	}
	iss, err := oidc.NewIssuerURL(issStr)
	if err != nil {
		return fmt.Errorf("claims: id token iss: %w", err)
	}
	c.Issuer = iss
	delete(raw, "iss")

	subRaw, ok := raw["sub"]
	if !ok {
		return fmt.Errorf("claims: id token missing sub")
	}
	var subStr string
	if err := json.Unmarshal(subRaw, &subStr); err != nil {
		return fmt.Errorf("claims: id token sub is not a string: %w", err)
	}
	sub, err := oidc.NewSubjectIdentifier(subStr)
	if err != nil {
		return fmt.Errorf("claims: id token sub: %w", err)
	}
	c.Subject = sub
	delete(raw, "sub")

	audRaw, ok := raw["aud"]
	if !ok {
		return fmt.Errorf("claims: id token missing aud")
	}
	var aud oidc.Audience
	if err := aud.UnmarshalJSON(audRaw); err != nil {
		return fmt.Errorf("claims: id token aud: %w", err)
	}
	c.Audience = aud
	delete(raw, "aud")

	expRaw, ok := raw["exp"]
	if !ok {
		return fmt.Errorf("claims: id token missing exp")
	}
	if err := c.Expiry.UnmarshalJSON(expRaw); err != nil {
		return fmt.Errorf("claims: id token exp: %w", err)
	}
	delete(raw, "exp")

	iatRaw, ok := raw["iat"]
	if !ok {
		return fmt.Errorf("claims: id token missing iat")
	}
	if err := c.IssuedAt.UnmarshalJSON(iatRaw); err != nil {
		return fmt.Errorf("claims: id token iat: %w", err)
	}
	delete(raw, "iat")

	if r, ok := raw["auth_time"]; ok {
		var t UnixTime
		if err := t.UnmarshalJSON(r); err != nil {
			return fmt.Errorf("claims: id token auth_time: %w", err)
		}
		c.AuthTime = &t
		delete(raw, "auth_time")
	}
	decodeStringPtr(raw, "nonce", &c.Nonce)
	decodeStringPtr(raw, "acr", &c.ACR)
	if r, ok := raw["amr"]; ok {
		if err := json.Unmarshal(r, &c.AMR); err != nil {
			return fmt.Errorf("claims: id token amr: %w", err)
		}
		delete(raw, "amr")
	}
	decodeStringPtr(raw, "azp", &c.AuthorizedParty)
	decodeStringPtr(raw, "at_hash", &c.AccessTokenHash)
	decodeStringPtr(raw, "c_hash", &c.CodeHash)

	std, err := decodeStandardClaims(raw)
	if err != nil {
		return err
	}
	c.StandardClaims = std

	if len(raw) > 0 {
		c.Extra = raw
	}
	return nil
}

func decodeStringPtr(raw map[string]json.RawMessage, key string, dst **string) {
	r, ok := raw[key]
	if !ok {
		return
	}
	var v string
	if err := json.Unmarshal(r, &v); err == nil {
		*dst = &v
		delete(raw, key)
	}
}
