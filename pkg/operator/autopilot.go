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

package operator

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/tombee/consul-operator/pkg/consul"
	"github.com/tombee/consul-operator/pkg/httpclient"
)

// AutopilotConfiguration controls Autopilot's server management.
type AutopilotConfiguration struct {
	// CleanupDeadServers removes failed servers once a replacement joins.
	CleanupDeadServers bool

	// LastContactThreshold is how long a server may go without leader
	// contact before it is considered unhealthy.
	LastContactThreshold *Duration

	// MaxTrailingLogs is how far a server may lag the leader's log before
	// it is considered unhealthy.
	MaxTrailingLogs uint64

	// MinQuorum is the minimum number of servers before dead servers are
	// cleaned up.
	MinQuorum uint

	// ServerStabilizationTime is how long a new server must be healthy
	// before it is promoted to voter.
	ServerStabilizationTime *Duration

	// RedundancyZoneTag, DisableUpgradeMigration and UpgradeVersionTag are
	// Enterprise settings.
	RedundancyZoneTag       string
	DisableUpgradeMigration bool
	UpgradeVersionTag       string

	// CreateIndex and ModifyIndex are the Raft indexes of the stored
	// configuration. ModifyIndex drives check-and-set updates.
	CreateIndex uint64
	ModifyIndex uint64
}

// ServerHealth is Autopilot's view of one server.
type ServerHealth struct {
	ID          string
	Name        string
	Address     string
	SerfStatus  string
	Version     string
	Leader      bool
	LastContact *Duration
	LastTerm    uint64
	LastIndex   uint64
	Healthy     bool
	Voter       bool
	StableSince time.Time
}

// OperatorHealthReply is the cluster health summary.
type OperatorHealthReply struct {
	// Healthy is true if all servers are healthy.
	Healthy bool

	// FailureTolerance is how many servers can fail without losing quorum.
	FailureTolerance int

	Servers []ServerHealth
}

const autopilotConfigPath = "/v1/operator/autopilot/configuration"

// AutopilotGetConfiguration returns the current Autopilot configuration.
func (op *Operator) AutopilotGetConfiguration(ctx context.Context, q *consul.QueryOptions) (*AutopilotConfiguration, error) {
	r := op.c.NewRequest(http.MethodGet, autopilotConfigPath)

	var out AutopilotConfiguration
	if _, err := op.query(ctx, r, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AutopilotSetConfiguration replaces the Autopilot configuration.
func (op *Operator) AutopilotSetConfiguration(ctx context.Context, conf *AutopilotConfiguration, w *consul.WriteOptions) (*consul.WriteMeta, error) {
	r := op.c.NewRequest(http.MethodPut, autopilotConfigPath)
	r.Obj = conf
	return op.write(ctx, r, w, nil)
}

// AutopilotCASConfiguration replaces the configuration only if its
// ModifyIndex still matches conf.ModifyIndex. It reports whether the
// update was applied.
func (op *Operator) AutopilotCASConfiguration(ctx context.Context, conf *AutopilotConfiguration, w *consul.WriteOptions) (bool, error) {
	r := op.c.NewRequest(http.MethodPut, autopilotConfigPath)
	r.Params.Set("cas", strconv.FormatUint(conf.ModifyIndex, 10))
	r.Obj = conf

	var applied bool
	if _, err := op.write(ctx, r, w, &applied); err != nil {
		return false, err
	}
	return applied, nil
}

// AutopilotServerHealth returns the health of every server. Consul answers
// 429 with a full body when the cluster is unhealthy; that reply is
// returned without error and Healthy is false.
func (op *Operator) AutopilotServerHealth(ctx context.Context, q *consul.QueryOptions) (*OperatorHealthReply, error) {
	r := op.c.NewRequest(http.MethodGet, "/v1/operator/autopilot/health")
	r.SetQueryOptions(q)

	// 429 is an answer here, not back-pressure.
	resp, _, err := op.c.Do(httpclient.WithoutRetry(ctx), r)
	if err != nil {
		return nil, err
	}
	defer consul.CloseResponseBody(resp)

	if err := consul.RequireHTTPCodes(resp, http.StatusOK, http.StatusTooManyRequests); err != nil {
		return nil, err
	}

	var out OperatorHealthReply
	if err := consul.DecodeBody(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
