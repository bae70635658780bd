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

// Package authorize builds the OAuth2/OIDC authorization-endpoint URL:
// deterministic parameter assembly from a typed flow selector plus
// optional OIDC parameters.
package authorize

import "strings"

// ResponseType is one OAuth2/OIDC `response_type` value.
type ResponseType string

const (
	ResponseTypeCode    ResponseType = "code"
	ResponseTypeIDToken ResponseType = "id_token"
	ResponseTypeToken   ResponseType = "token"
)

func (r ResponseType) String() string { return string(r) }

type flowKind int

const (
	flowAuthorizationCode flowKind = iota
	flowImplicit
	flowHybrid
)

// AuthenticationFlow selects the OIDC authentication flow, which in turn
// determines the `response_type` value.
type AuthenticationFlow struct {
	kind          flowKind
	includeToken  bool
	hybridTypes   []ResponseType
}

// AuthorizationCodeFlow selects the authorization code flow:
// response_type=code.
func AuthorizationCodeFlow() AuthenticationFlow {
	return AuthenticationFlow{kind: flowAuthorizationCode}
}

// ImplicitFlow selects the implicit flow: response_type=id_token, or
// response_type="id_token token" when includeToken is true.
func ImplicitFlow(includeToken bool) AuthenticationFlow {
	return AuthenticationFlow{kind: flowImplicit, includeToken: includeToken}
}

// HybridFlow selects the hybrid flow: response_type is each of types
// joined by a single space, in the given order.
func HybridFlow(types ...ResponseType) AuthenticationFlow {
	return AuthenticationFlow{kind: flowHybrid, hybridTypes: append([]ResponseType(nil), types...)}
}

// responseType computes the `response_type` query value for the flow.
func (f AuthenticationFlow) responseType() string {
	switch f.kind {
	case flowAuthorizationCode:
		return ResponseTypeCode.String()
	case flowImplicit:
		if f.includeToken {
			return ResponseTypeIDToken.String() + " " + ResponseTypeToken.String()
		}
		return ResponseTypeIDToken.String()
	case flowHybrid:
		parts := make([]string, len(f.hybridTypes))
		for i, t := range f.hybridTypes {
			parts[i] = t.String()
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}
