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

// Package integration holds helpers for tests that run against a real
// Consul agent. Such tests carry the "integration" build tag and skip
// themselves unless CONSUL_OPERATOR_INTEGRATION is set, for example:
//
//	consul agent -dev &
//	CONSUL_OPERATOR_INTEGRATION=1 go test -tags integration ./pkg/operator/
package integration
