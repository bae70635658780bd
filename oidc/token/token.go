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

// Package token extends the OAuth2 token response with the ID token the
// authorization-code and implicit exchanges carry, and the separate
// refresh-response variant where it is optional.
package token

import (
	"fmt"

	"golang.org/x/oauth2"

	"github.com/opentrusty/oidcrp/oidc/claims"
	"github.com/opentrusty/oidcrp/oidc/jwt"
)

// Response is the token response from an authorization-code or implicit
// exchange. It embeds oauth2.Token for everything an OAuth2 token
// response exposes (access_token, token_type, expiry, refresh_token) and
// adds the ID token the exchange is required to carry.
type Response struct {
	*oauth2.Token
}

// NewResponse wraps an *oauth2.Token as a Response.
func NewResponse(t *oauth2.Token) Response { return Response{Token: t} }

// IDToken parses the embedded token's "id_token" extra field into an
// unverified JWT container. It does not verify the signature or claims —
// that is a separate, explicit step through a verifier.IDTokenVerifier;
// there is no path from a Response to claims that skips it.
func (r Response) IDToken() (*jwt.JSONWebToken[claims.IDTokenClaims], error) {
	raw, _ := r.Extra("id_token").(string)
	if raw == "" {
		return nil, fmt.Errorf("token: response has no id_token")
	}
	return jwt.Parse[claims.IDTokenClaims](raw)
}

// RefreshResponse is the token response from a refresh-token exchange,
// where the ID token is optional (OIDC Core requires it only on the
// initial exchange).
type RefreshResponse struct {
	*oauth2.Token
}

// NewRefreshResponse wraps an *oauth2.Token as a RefreshResponse.
func NewRefreshResponse(t *oauth2.Token) RefreshResponse { return RefreshResponse{Token: t} }

// IDToken parses the embedded token's "id_token" extra field, if present.
// It returns (nil, nil) when the refresh response omitted it.
func (r RefreshResponse) IDToken() (*jwt.JSONWebToken[claims.IDTokenClaims], error) {
	raw, ok := r.Extra("id_token").(string)
	if !ok || raw == "" {
		return nil, nil
	}
	return jwt.Parse[claims.IDTokenClaims](raw)
}
