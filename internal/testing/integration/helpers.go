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

package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/tombee/consul-operator/pkg/consul"
	"github.com/tombee/consul-operator/pkg/errors"
	"github.com/tombee/consul-operator/pkg/operator"
)

// NewOperator connects to the agent described by cfg with retries off, so
// tests see every failure directly.
func NewOperator(cfg *TestConfig) (*operator.Operator, error) {
	ccfg := consul.DefaultConfig()
	ccfg.Address = cfg.Address
	ccfg.Token = cfg.Token
	ccfg.HTTP.RetryAttempts = 0

	client, err := consul.NewClient(ccfg)
	if err != nil {
		return nil, err
	}
	return operator.New(client), nil
}

// WaitForLeader polls the Raft configuration until a leader is reported.
// A freshly started dev agent answers 500 "No cluster leader" for a moment.
func WaitForLeader(ctx context.Context, op *operator.Operator, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	b := backoff.WithContext(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(100*time.Millisecond),
		backoff.WithMaxInterval(time.Second),
		backoff.WithMaxElapsedTime(0),
	), ctx)

	return backoff.Retry(func() error {
		conf, _, err := op.RaftGetConfiguration(ctx, nil)
		if err != nil {
			if IsTransientError(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		for _, srv := range conf.Servers {
			if srv.Leader {
				return nil
			}
		}
		return fmt.Errorf("no leader among %d servers", len(conf.Servers))
	}, b)
}

// IsTransientError reports whether err is worth retrying while the agent
// starts: 5xx and 429 responses, and connection failures.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	if code := errors.StatusCode(err); code != 0 {
		return errors.IsRetryable(err)
	}
	// Connection refused and friends.
	return true
}
