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

// Package clitest runs commands end to end against a fake Consul agent.
package clitest

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"

	"github.com/tombee/consul-operator/internal/cli"
	"github.com/tombee/consul-operator/internal/commands/shared"
)

// Request is what the agent saw on the wire.
type Request struct {
	Method string
	Path   string
	Query  string
	Token  string
	Body   string
}

type response struct {
	status int
	body   string
}

// Agent is a fake Consul HTTP API. Unrouted requests get 404.
type Agent struct {
	URL string

	mu       sync.Mutex
	routes   map[string]response
	requests []Request
}

// NewAgent starts a fake agent that is shut down with the test.
func NewAgent(t *testing.T) *Agent {
	t.Helper()

	a := &Agent{routes: make(map[string]response)}
	srv := httptest.NewServer(a)
	t.Cleanup(srv.Close)
	a.URL = srv.URL
	return a
}

// Handle answers method+path with status and body. path excludes the query.
func (a *Agent) Handle(method, path string, status int, body string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.routes[method+" "+path] = response{status: status, body: body}
}

func (a *Agent) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	a.mu.Lock()
	a.requests = append(a.requests, Request{
		Method: r.Method,
		Path:   r.URL.EscapedPath(),
		Query:  r.URL.RawQuery,
		Token:  r.Header.Get("X-Consul-Token"),
		Body:   string(body),
	})
	resp, ok := a.routes[r.Method+" "+r.URL.EscapedPath()]
	a.mu.Unlock()

	if !ok {
		http.Error(w, "no route", http.StatusNotFound)
		return
	}
	w.Header().Set("X-Consul-Knownleader", "true")
	w.WriteHeader(resp.status)
	io.WriteString(w, resp.body)
}

// Requests returns a copy of every request received so far.
func (a *Agent) Requests() []Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Request(nil), a.requests...)
}

// Isolate clears every source of configuration outside the test's control:
// CONSUL_* variables, the config directory, the keychain, and prompts.
func Isolate(t *testing.T) {
	t.Helper()

	for _, kv := range []string{
		"CONSUL_HTTP_ADDR", "CONSUL_HTTP_TOKEN", "CONSUL_HTTP_TOKEN_FILE",
		"CONSUL_HTTP_SSL", "CONSUL_HTTP_SSL_VERIFY", "CONSUL_CACERT", "CONSUL_CAPATH",
		"CONSUL_CLIENT_CERT", "CONSUL_CLIENT_KEY", "CONSUL_TLS_SERVER_NAME",
		"CONSUL_NAMESPACE", "CONSUL_PARTITION",
		"CONSUL_OPERATOR_DEBUG", "CONSUL_OPERATOR_LOG_LEVEL", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(kv, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("CONSUL_OPERATOR_NON_INTERACTIVE", "true")
	keyring.MockInit()
}

// Result is the outcome of one command run.
type Result struct {
	Stdout string
	Stderr string
	Err    error
}

// ExitCode is the code the process would have exited with.
func (r Result) ExitCode() int {
	return shared.ExitCode(r.Err)
}

// Run executes args against a fresh root command with cmd attached.
func Run(t *testing.T, agent *Agent, cmd *cobra.Command, args ...string) Result {
	t.Helper()
	return RunWithInput(t, agent, cmd, "", args...)
}

// RunWithInput is Run with stdin set to input.
func RunWithInput(t *testing.T, agent *Agent, cmd *cobra.Command, input string, args ...string) Result {
	t.Helper()

	root := cli.NewRootCommand()
	root.AddCommand(cmd)

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(input))

	full := append([]string{}, args...)
	if agent != nil {
		full = append(full, "--http-addr", agent.URL, "--config", writeConfig(t))
	}
	root.SetArgs(full)

	err := root.Execute()
	return Result{Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
}

// configFile disables retries so failures are immediate.
const configFile = "http:\n  retry_attempts: 0\n  timeout: 5s\nlog:\n  level: error\n"

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := writeFile(path, configFile); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0600)
}

// Complete runs cobra's hidden completion command for args. The agent is
// reached through the environment and the default config file, since every
// trailing argument is part of the line being completed.
func Complete(t *testing.T, agent *Agent, cmd *cobra.Command, args ...string) Result {
	t.Helper()

	t.Setenv("CONSUL_HTTP_ADDR", agent.URL)
	dir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "consul-operator")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatalf("create config dir: %v", err)
	}
	if err := writeFile(filepath.Join(dir, "config.yaml"), configFile); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return RunWithInput(t, nil, cmd, "", append([]string{cobra.ShellCompRequestCmd}, args...)...)
}
