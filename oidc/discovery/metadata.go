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

// Package discovery fetches and represents the OIDC provider metadata
// document and resolves the JWKS URL it advertises.
package discovery

import (
	"encoding/json"
	"fmt"

	"github.com/opentrusty/oidcrp/oidc"
)

// ProviderMetadata is the OIDC Discovery 1.0 §3 provider configuration
// document. It is read-mostly and immutable once parsed; callers are
// free to re-fetch to refresh it.
type ProviderMetadata struct {
	Issuer                           oidc.IssuerURL
	AuthorizationEndpoint            string
	TokenEndpoint                    string
	UserInfoEndpoint                 string
	JWKSURI                          string
	RegistrationEndpoint             string
	ScopesSupported                  []string
	ResponseTypesSupported           []string
	ResponseModesSupported           []string
	GrantTypesSupported              []string
	ACRValuesSupported               []string
	SubjectTypesSupported            []string
	IDTokenSigningAlgValuesSupported []string
	ClaimsSupported                  []string

	// AdditionalMetadata preserves every member this type does not model
	// explicitly, per the "unknown members preserved" wire-form
	// requirement.
	AdditionalMetadata map[string]json.RawMessage
}

// known lists the JSON keys ProviderMetadata consumes explicitly, so its
// UnmarshalJSON knows which keys to keep in AdditionalMetadata.
var known = map[string]bool{
	"issuer": true, "authorization_endpoint": true, "token_endpoint": true,
	"userinfo_endpoint": true, "jwks_uri": true, "registration_endpoint": true,
	"scopes_supported": true, "response_types_supported": true,
	"response_modes_supported": true, "grant_types_supported": true,
	"acr_values_supported": true, "subject_types_supported": true,
	"id_token_signing_alg_values_supported": true, "claims_supported": true,
}

// JWKSURL returns the advertised JWKS URL, ready for Fetch.
func (m ProviderMetadata) JWKSURL() JWKSURL { return JWKSURL(m.JWKSURI) }

func (m ProviderMetadata) MarshalJSON() ([]byte, error) {
	out := map[string]json.RawMessage{}
	for k, v := range m.AdditionalMetadata {
		out[k] = v
	}
	set := func(key string, v interface{}) error {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		out[key] = b
		return nil
	}
	if err := set("issuer", m.Issuer.String()); err != nil {
		return nil, err
	}
	if err := set("authorization_endpoint", m.AuthorizationEndpoint); err != nil {
		return nil, err
	}
	if m.TokenEndpoint != "" {
		if err := set("token_endpoint", m.TokenEndpoint); err != nil {
			return nil, err
		}
	}
	if m.UserInfoEndpoint != "" {
		if err := set("userinfo_endpoint", m.UserInfoEndpoint); err != nil {
			return nil, err
		}
	}
	if err := set("jwks_uri", m.JWKSURI); err != nil {
		return nil, err
	}
	if m.RegistrationEndpoint != "" {
		if err := set("registration_endpoint", m.RegistrationEndpoint); err != nil {
			return nil, err
		}
	}
	if m.ScopesSupported != nil {
		if err := set("scopes_supported", m.ScopesSupported); err != nil {
			return nil, err
		}
	}
	if err := set("response_types_supported", m.ResponseTypesSupported); err != nil {
		return nil, err
	}
	if m.ResponseModesSupported != nil {
		if err := set("response_modes_supported", m.ResponseModesSupported); err != nil {
			return nil, err
		}
	}
	if m.GrantTypesSupported != nil {
		if err := set("grant_types_supported", m.GrantTypesSupported); err != nil {
			return nil, err
		}
	}
	if m.ACRValuesSupported != nil {
		if err := set("acr_values_supported", m.ACRValuesSupported); err != nil {
			return nil, err
		}
	}
	if err := set("subject_types_supported", m.SubjectTypesSupported); err != nil {
		return nil, err
	}
	if err := set("id_token_signing_alg_values_supported", m.IDTokenSigningAlgValuesSupported); err != nil {
		return nil, err
	}
	if m.ClaimsSupported != nil {
		if err := set("claims_supported", m.ClaimsSupported); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

func (m *ProviderMetadata) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("discovery: invalid provider metadata json: %w", err)
	}

	issRaw, ok := raw["issuer"]
	if !ok {
		return fmt.Errorf("discovery: provider metadata missing issuer")
	}
	var issStr string
	if err := json.Unmarshal(issRaw, &issStr); err != nil {
		return fmt.Errorf("discovery: provider metadata issuer: %w", err)
	}
	iss, err := oidc.NewIssuerURL(issStr)
	if err != nil {
		return fmt.Errorf("discovery: provider metadata issuer: %w", err)
	}
	m.Issuer = iss

	if err := unmarshalRequiredString(raw, "authorization_endpoint", &m.AuthorizationEndpoint); err != nil {
		return err
	}
	if err := unmarshalRequiredString(raw, "jwks_uri", &m.JWKSURI); err != nil {
		return err
	}
	unmarshalString(raw, "token_endpoint", &m.TokenEndpoint)
	unmarshalString(raw, "userinfo_endpoint", &m.UserInfoEndpoint)
	unmarshalString(raw, "registration_endpoint", &m.RegistrationEndpoint)
	unmarshalStrings(raw, "scopes_supported", &m.ScopesSupported)
	if err := unmarshalRequiredStrings(raw, "response_types_supported", &m.ResponseTypesSupported); err != nil {
		return err
	}
	unmarshalStrings(raw, "response_modes_supported", &m.ResponseModesSupported)
	unmarshalStrings(raw, "grant_types_supported", &m.GrantTypesSupported)
	unmarshalStrings(raw, "acr_values_supported", &m.ACRValuesSupported)
	if err := unmarshalRequiredStrings(raw, "subject_types_supported", &m.SubjectTypesSupported); err != nil {
		return err
	}
	if err := unmarshalRequiredStrings(raw, "id_token_signing_alg_values_supported", &m.IDTokenSigningAlgValuesSupported); err != nil {
		return err
	}
	unmarshalStrings(raw, "claims_supported", &m.ClaimsSupported)

	additional := map[string]json.RawMessage{}
	for k, v := range raw {
		if known[k] {
			continue
		}
		additional[k] = v
	}
	if len(additional) > 0 {
		m.AdditionalMetadata = additional
	}
	return nil
}

func unmarshalRequiredString(raw map[string]json.RawMessage, key string, dst *string) error {
	r, ok := raw[key]
	if !ok {
		return fmt.Errorf("discovery: provider metadata missing %s", key)
	}
	if err := json.Unmarshal(r, dst); err != nil {
		return fmt.Errorf("discovery: provider metadata %s: %w", key, err)
	}
	return nil
}

func unmarshalString(raw map[string]json.RawMessage, key string, dst *string) {
	if r, ok := raw[key]; ok {
		_ = json.Unmarshal(r, dst)
	}
}

func unmarshalRequiredStrings(raw map[string]json.RawMessage, key string, dst *[]string) error {
	r, ok := raw[key]
	if !ok {
		return fmt.Errorf("discovery: provider metadata missing %s", key)
	}
	if err := json.Unmarshal(r, dst); err != nil {
		return fmt.Errorf("discovery: provider metadata %s: %w", key, err)
	}
	return nil
}

func unmarshalStrings(raw map[string]json.RawMessage, key string, dst *[]string) {
	if r, ok := raw[key]; ok {
		_ = json.Unmarshal(r, dst)
	}
}
