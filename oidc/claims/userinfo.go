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

// UserInfoClaims is the decoded response of the UserInfo endpoint (OIDC
// Core §5.3.2). Only sub is required; everything else is the same
// StandardClaims set an ID token carries, plus an Extra bag for claims
// this type doesn't model.
type UserInfoClaims struct {
	Subject oidc.SubjectIdentifier

	StandardClaims

	Extra map[string]json.RawMessage
}

func (c UserInfoClaims) MarshalJSON() ([]byte, error) {
	out := map[string]json.RawMessage{"sub": mustMarshal(c.Subject.String())}
	if err := encodeStandardClaims(out, c.StandardClaims); err != nil {
		return nil, err
	}
	for k, v := range c.Extra {
		out[k] = v
	}
	return json.Marshal(out)
}

func (c *UserInfoClaims) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("claims: invalid userinfo payload: %w", err)
	}

	subRaw, ok := raw["sub"]
	if !ok {
		return fmt.Errorf("claims: userinfo response missing sub")
	}
	var subStr string
	if err := json.Unmarshal(subRaw, &subStr); err != nil {
		return fmt.Errorf("claims: userinfo sub is not a string: %w", err)
	}
	sub, err := oidc.NewSubjectIdentifier(subStr)
	if err != nil {
		return fmt.Errorf("claims: userinfo sub: %w", err)
	}
	c.Subject = sub
	delete(raw, "sub")

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
