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

package obs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/opentrusty/oidcrp/oidc/internal/obs"
	"github.com/stretchr/testify/assert"
)

// TestPurpose: Verifies the small attribute builders key their value under the expected slog key.
// Scope: Unit Test
// Expected: each builder returns an slog.Attr whose Key is the expected snake_case key for its field.
func TestObs_Attrs_KeyNames(t *testing.T) {
	assert.Equal(t, "issuer", obs.Issuer("https://example.com").Key)
	assert.Equal(t, "client_id", obs.ClientID("client-1").Key)
	assert.Equal(t, "alg", obs.Alg("RS256").Key)
	assert.Equal(t, "kid", obs.Kid("key1").Key)
	assert.Equal(t, "failure_kind", obs.FailureKind("invalid_issuer").Key)
	assert.Equal(t, "status_code", obs.StatusCode(404).Key)
}

// TestPurpose: Verifies Err renders a nil error as an empty string instead of panicking or printing "<nil>".
// Scope: Unit Test
// Expected: Err(nil).Value.String() == "".
func TestObs_Err_HandlesNil(t *testing.T) {
	assert.Equal(t, "", obs.Err(nil).Value.String())
	assert.Equal(t, "boom", obs.Err(errors.New("boom")).Value.String())
}

// TestPurpose: Verifies StartSpan/EndSpan work against the default global tracer without a configured provider.
// Scope: Unit Test
// Expected: StartSpan returns a non-nil span and EndSpan does not panic, with or without an error.
func TestObs_StartSpan_EndSpan_NoProviderConfigured(t *testing.T) {
	_, span := obs.StartSpan(context.Background(), nil, "test.span")
	assert.NotPanics(t, func() { obs.EndSpan(span, nil) })

	_, span2 := obs.StartSpan(context.Background(), nil, "test.span.err")
	assert.NotPanics(t, func() { obs.EndSpan(span2, errors.New("boom")) })
}

// TestPurpose: Verifies RecordVerifierResult never panics even without a configured MeterProvider.
// Scope: Unit Test
// Expected: repeated calls with and without a failure kind complete without error.
func TestObs_RecordVerifierResult_NoProviderConfigured(t *testing.T) {
	assert.NotPanics(t, func() {
		obs.RecordVerifierResult(context.Background(), "success", "")
		obs.RecordVerifierResult(context.Background(), "failure", "invalid_issuer")
	})
}
