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
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// keychainService is the service name used for keychain entries.
const keychainService = "consul-operator"

// ErrTokenNotFound is returned when no token is stored for an address.
var ErrTokenNotFound = errors.New("no stored token")

// SaveToken stores token in the OS keychain under the agent address.
func SaveToken(address, token string) error {
	if err := keyring.Set(keychainService, tokenKey(address), token); err != nil {
		return fmt.Errorf("keychain error: %w", err)
	}
	return nil
}

// LoadToken returns the token stored for address.
func LoadToken(address string) (string, error) {
	token, err := keyring.Get(keychainService, tokenKey(address))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("%w for %s", ErrTokenNotFound, address)
		}
		return "", fmt.Errorf("keychain error: %w", err)
	}
	return token, nil
}

// DeleteToken removes the token stored for address.
func DeleteToken(address string) error {
	if err := keyring.Delete(keychainService, tokenKey(address)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("%w for %s", ErrTokenNotFound, address)
		}
		return fmt.Errorf("keychain error: %w", err)
	}
	return nil
}

// tokenKey normalizes address so "HTTP://Host:8500/" and "http://host:8500"
// share an entry.
func tokenKey(address string) string {
	return "token/" + strings.TrimRight(strings.ToLower(strings.TrimSpace(address)), "/")
}
