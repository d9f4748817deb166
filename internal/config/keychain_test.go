// Copyright 2025 Tom Barlow
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

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestTokenRoundTrip(t *testing.T) {
	keyring.MockInit()

	require.NoError(t, SaveToken("http://127.0.0.1:8500/", "secret-token"))

	token, err := LoadToken("HTTP://127.0.0.1:8500")
	require.NoError(t, err)
	assert.Equal(t, "secret-token", token)

	require.NoError(t, DeleteToken("http://127.0.0.1:8500"))

	_, err = LoadToken("http://127.0.0.1:8500")
	assert.ErrorIs(t, err, ErrTokenNotFound)
	assert.ErrorIs(t, DeleteToken("http://127.0.0.1:8500"), ErrTokenNotFound)
}

func TestTokensAreScopedByAddress(t *testing.T) {
	keyring.MockInit()

	require.NoError(t, SaveToken("dc1.example.com:8500", "one"))
	require.NoError(t, SaveToken("dc2.example.com:8500", "two"))

	one, err := LoadToken("dc1.example.com:8500")
	require.NoError(t, err)
	two, err := LoadToken("dc2.example.com:8500")
	require.NoError(t, err)

	assert.Equal(t, "one", one)
	assert.Equal(t, "two", two)
}
