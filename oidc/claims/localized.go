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

// Package claims models the ID Token, UserInfo, standard profile, and
// address claim shapes, including the language-tag-suffixed fields OIDC
// Core §5.2 defines (`name`, `name#de`, ...). Grounded on the original
// openidconnect-rs crate's StandardClaims/AddressClaimFields, since no Go
// example in the corpus needs i18n profile claims.
package claims

import (
	"encoding/json"
	"strings"
	"time"
)

// LocalizedClaim maps an optional BCP47 language tag to a claim value.
// The empty string key holds the untagged (default) entry: a JSON key
// "name" contributes to LocalizedClaim[""], while "name#de" contributes
// to LocalizedClaim["de"].
type LocalizedClaim map[string]string

// Default returns the untagged entry, if present.
func (l LocalizedClaim) Default() (string, bool) {
	v, ok := l[""]
	return v, ok
}

// splitLangKey splits a JSON object key at the first '#', returning the
// base claim name and the language tag ("" if there was no '#').
func splitLangKey(key string) (base, tag string) {
	if i := strings.IndexByte(key, '#'); i >= 0 {
		return key[:i], key[i+1:]
	}
	return key, ""
}

// UnixTime is a JSON number of seconds since the epoch, as used by the
// exp/iat/auth_time claims.
type UnixTime struct {
	t    time.Time
	set  bool
}

// NewUnixTime wraps a concrete time.
func NewUnixTime(t time.Time) UnixTime { return UnixTime{t: t, set: true} }

// Time returns the wrapped time.
func (u UnixTime) Time() time.Time { return u.t }

// IsZero reports whether the time was never set, either by NewUnixTime or
// by UnmarshalJSON (for a claim, whether it was absent from the payload).
func (u UnixTime) IsZero() bool { return !u.set }

func (u UnixTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.t.Unix())
}

func (u *UnixTime) UnmarshalJSON(data []byte) error {
	var secs float64
	if err := json.Unmarshal(data, &secs); err != nil {
		return err
	}
	u.t = time.Unix(int64(secs), 0).UTC()
	u.set = true
	return nil
}
