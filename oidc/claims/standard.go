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
)

// AddressClaim is the OIDC Core §5.1.1 "address" claim. Formatted and
// StreetAddress accept language-tagged variants; the rest do not.
type AddressClaim struct {
	Formatted     LocalizedClaim
	StreetAddress LocalizedClaim
	Locality      string `json:"locality,omitempty"`
	Region        string `json:"region,omitempty"`
	PostalCode    string `json:"postal_code,omitempty"`
	Country       string `json:"country,omitempty"`
}

func (a AddressClaim) MarshalJSON() ([]byte, error) {
	out := map[string]json.RawMessage{}
	if err := encodeLocalized(out, "formatted", a.Formatted); err != nil {
		return nil, err
	}
	if err := encodeLocalized(out, "street_address", a.StreetAddress); err != nil {
		return nil, err
	}
	if a.Locality != "" {
		out["locality"] = mustMarshal(a.Locality)
	}
	if a.Region != "" {
		out["region"] = mustMarshal(a.Region)
	}
	if a.PostalCode != "" {
		out["postal_code"] = mustMarshal(a.PostalCode)
	}
	if a.Country != "" {
		out["country"] = mustMarshal(a.Country)
	}
	return json.Marshal(out)
}

func (a *AddressClaim) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("claims: invalid address claim: %w", err)
	}
	a.Formatted = decodeLocalized(raw, "formatted")
	a.StreetAddress = decodeLocalized(raw, "street_address")
	decodeString(raw, "locality", &a.Locality)
	decodeString(raw, "region", &a.Region)
	decodeString(raw, "postal_code", &a.PostalCode)
	decodeString(raw, "country", &a.Country)
	return nil
}

// StandardClaims holds the OIDC Core §5.1 profile/email/phone/address
// claims. It is embedded in both IDTokenClaims and UserInfoClaims, which
// each flatten it into their own top-level JSON object rather than
// nesting it under a "standard_claims" key — mirroring how these claims
// actually appear on the wire.
type StandardClaims struct {
	Name       LocalizedClaim
	GivenName  LocalizedClaim
	FamilyName LocalizedClaim
	MiddleName LocalizedClaim
	Nickname   LocalizedClaim
	Profile    LocalizedClaim
	Picture    LocalizedClaim
	Website    LocalizedClaim

	PreferredUsername  string `json:"preferred_username,omitempty"`
	Email               string `json:"email,omitempty"`
	EmailVerified       *bool  `json:"email_verified,omitempty"`
	Gender              string `json:"gender,omitempty"`
	Birthdate           string `json:"birthdate,omitempty"`
	Zoneinfo            string `json:"zoneinfo,omitempty"`
	Locale              string `json:"locale,omitempty"`
	PhoneNumber         string `json:"phone_number,omitempty"`
	PhoneNumberVerified *bool  `json:"phone_number_verified,omitempty"`
	UpdatedAt           *int64 `json:"updated_at,omitempty"`

	Address *AddressClaim `json:"address,omitempty"`
}

// decodeStandardClaims reads StandardClaims fields out of raw, deleting
// every key it consumes (including language-tagged variants) so the
// caller can determine what remains for an Extra bag.
func decodeStandardClaims(raw map[string]json.RawMessage) (StandardClaims, error) {
	var s StandardClaims
	s.Name = decodeLocalized(raw, "name")
	s.GivenName = decodeLocalized(raw, "given_name")
	s.FamilyName = decodeLocalized(raw, "family_name")
	s.MiddleName = decodeLocalized(raw, "middle_name")
	s.Nickname = decodeLocalized(raw, "nickname")
	s.Profile = decodeLocalized(raw, "profile")
	s.Picture = decodeLocalized(raw, "picture")
	s.Website = decodeLocalized(raw, "website")

	decodeString(raw, "preferred_username", &s.PreferredUsername)
	decodeString(raw, "email", &s.Email)
	decodeBoolPtr(raw, "email_verified", &s.EmailVerified)
	decodeString(raw, "gender", &s.Gender)
	decodeString(raw, "birthdate", &s.Birthdate)
	decodeString(raw, "zoneinfo", &s.Zoneinfo)
	decodeString(raw, "locale", &s.Locale)
	decodeString(raw, "phone_number", &s.PhoneNumber)
	decodeBoolPtr(raw, "phone_number_verified", &s.PhoneNumberVerified)
	decodeInt64Ptr(raw, "updated_at", &s.UpdatedAt)

	if addrRaw, ok := raw["address"]; ok {
		var addr AddressClaim
		if err := json.Unmarshal(addrRaw, &addr); err != nil {
			return s, fmt.Errorf("claims: invalid address claim: %w", err)
		}
		s.Address = &addr
		delete(raw, "address")
	}
	return s, nil
}

// encodeStandardClaims writes StandardClaims' fields into out, the flat
// map that will become the enclosing IDTokenClaims/UserInfoClaims JSON
// object.
func encodeStandardClaims(out map[string]json.RawMessage, s StandardClaims) error {
	if err := encodeLocalized(out, "name", s.Name); err != nil {
		return err
	}
	if err := encodeLocalized(out, "given_name", s.GivenName); err != nil {
		return err
	}
	if err := encodeLocalized(out, "family_name", s.FamilyName); err != nil {
		return err
	}
	if err := encodeLocalized(out, "middle_name", s.MiddleName); err != nil {
		return err
	}
	if err := encodeLocalized(out, "nickname", s.Nickname); err != nil {
		return err
	}
	if err := encodeLocalized(out, "profile", s.Profile); err != nil {
		return err
	}
	if err := encodeLocalized(out, "picture", s.Picture); err != nil {
		return err
	}
	if err := encodeLocalized(out, "website", s.Website); err != nil {
		return err
	}
	if s.PreferredUsername != "" {
		out["preferred_username"] = mustMarshal(s.PreferredUsername)
	}
	if s.Email != "" {
		out["email"] = mustMarshal(s.Email)
	}
	if s.EmailVerified != nil {
		out["email_verified"] = mustMarshal(*s.EmailVerified)
	}
	if s.Gender != "" {
		out["gender"] = mustMarshal(s.Gender)
	}
	if s.Birthdate != "" {
		out["birthdate"] = mustMarshal(s.Birthdate)
	}
	if s.Zoneinfo != "" {
		out["zoneinfo"] = mustMarshal(s.Zoneinfo)
	}
	if s.Locale != "" {
		out["locale"] = mustMarshal(s.Locale)
	}
	if s.PhoneNumber != "" {
		out["phone_number"] = mustMarshal(s.PhoneNumber)
	}
	if s.PhoneNumberVerified != nil {
		out["phone_number_verified"] = mustMarshal(*s.PhoneNumberVerified)
	}
	if s.UpdatedAt != nil {
		out["updated_at"] = mustMarshal(*s.UpdatedAt)
	}
	if s.Address != nil {
		addrJSON, err := s.Address.MarshalJSON()
		if err != nil {
			return err
		}
		out["address"] = addrJSON
	}
	return nil
}

// decodeLocalized collects base and every "base#tag" key from raw into a
// LocalizedClaim, deleting the keys it consumes. Returns nil if no such
// key is present.
func decodeLocalized(raw map[string]json.RawMessage, base string) LocalizedClaim {
	var out LocalizedClaim
	for key := range raw {
		k, tag := splitLangKey(key)
		if k != base {
			continue
		}
		var v string
		if err := json.Unmarshal(raw[key], &v); err != nil {
			continue
		}
		if out == nil {
			out = LocalizedClaim{}
		}
		out[tag] = v
		delete(raw, key)
	}
	return out
}

func encodeLocalized(out map[string]json.RawMessage, base string, l LocalizedClaim) error {
	for tag, v := range l {
		key := base
		if tag != "" {
			key = base + "#" + tag
		}
		out[key] = mustMarshal(v)
	}
	return nil
}

func decodeString(raw map[string]json.RawMessage, key string, dst *string) {
	r, ok := raw[key]
	if !ok {
		return
	}
	if err := json.Unmarshal(r, dst); err == nil {
		delete(raw, key)
	}
}

func decodeBoolPtr(raw map[string]json.RawMessage, key string, dst **bool) {
	r, ok := raw[key]
	if !ok {
		return
	}
	var v bool
	if err := json.Unmarshal(r, &v); err == nil {
		*dst = &v
		delete(raw, key)
	}
}

func decodeInt64Ptr(raw map[string]json.RawMessage, key string, dst **int64) {
	r, ok := raw[key]
	if !ok {
		return
	}
	var v int64
	if err := json.Unmarshal(r, &v); err == nil {
		*dst = &v
		delete(raw, key)
	}
}

func mustMarshal(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		// v is always a string, *bool, *int64 or similar trivially
		// marshalable value here; a failure means a caller broke that
		// invariant.
		panic(fmt.Sprintf("claims: unmarshalable value %v: %v", v, err))
	}
	return b
}
