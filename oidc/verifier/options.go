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
	"time"

	"github.com/opentrusty/oidcrp/oidc"
	"github.com/opentrusty/oidcrp/oidc/internal/obs"
	"github.com/opentrusty/oidcrp/oidc/jwks"
)

// Clock returns the current time. Every exp/iat/auth_time check goes
// through the injected clock (spec.md §9, "Clock source"), so tests can
// pin time instead of racing the wall clock.
type Clock func() time.Time

// Option configures an IDTokenVerifier or UserInfoVerifier.
type Option func(*config)

type config struct {
	allowedAlgs       map[jwks.Algorithm]bool
	clockSkew         time.Duration
	maxTokenAge       *time.Duration
	maxAuthAge        *time.Duration
	requiredACR       []string
	insecureAllowNone bool
	clientSecret      *oidc.ClientSecret
	clock             Clock
	tracer            obs.Tracer

	requireSignedUserInfo bool
}

// WithRequireSignedResponse rejects an unsigned (application/json)
// UserInfo response outright. Has no effect on an IDTokenVerifier.
func WithRequireSignedResponse() Option {
	return func(c *config) { c.requireSignedUserInfo = true }
}

func newConfig() *config {
	return &config{clock: time.Now}
}

// WithAllowedAlgorithms restricts the algorithms Verify accepts, further
// than the default intersection of OP-advertised and library-supported
// algorithms.
func WithAllowedAlgorithms(algs ...jwks.Algorithm) Option {
	return func(c *config) {
		c.allowedAlgs = make(map[jwks.Algorithm]bool, len(algs))
		for _, a := range algs {
			c.allowedAlgs[a] = true
		}
	}
}

// WithClockSkew tolerates up to skew of clock drift against exp and in
// the iat-in-the-future check.
func WithClockSkew(skew time.Duration) Option {
	return func(c *config) { c.clockSkew = skew }
}

// WithMaxTokenAge rejects tokens whose iat is more than max in the past.
func WithMaxTokenAge(max time.Duration) Option {
	return func(c *config) { c.maxTokenAge = &max }
}

// WithMaxAuthAge requires auth_time to be present and within max of now.
func WithMaxAuthAge(max time.Duration) Option {
	return func(c *config) { c.maxAuthAge = &max }
}

// WithRequiredACR requires the acr claim to equal one of values.
func WithRequiredACR(values ...string) Option {
	return func(c *config) { c.requiredACR = append(c.requiredACR, values...) }
}

// WithInsecureAllowNone permits alg="none" tokens. Never enable this
// outside tests or an explicitly unsigned-response flow.
func WithInsecureAllowNone() Option {
	return func(c *config) { c.insecureAllowNone = true }
}

// WithClientSecret enables HS256/384/512 verification, deriving the HMAC
// key from the secret's UTF-8 bytes. Omit for public clients, which must
// reject symmetric algorithms outright.
func WithClientSecret(secret oidc.ClientSecret) Option {
	return func(c *config) { c.clientSecret = &secret }
}

// WithClock overrides time.Now, e.g. to pin verification tests to a
// fixed instant.
func WithClock(clock Clock) Option {
	return func(c *config) { c.clock = clock }
}

// WithTracer wraps verification in a span from tracer instead of the
// global tracer.
func WithTracer(t obs.Tracer) Option {
	return func(c *config) { c.tracer = t }
}
