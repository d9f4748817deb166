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
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{`"200ms"`, 200 * time.Millisecond, false},
		{`"1m30s"`, 90 * time.Second, false},
		{`"0s"`, 0, false},
		{`5000000`, 5 * time.Millisecond, false},
		{`"soon"`, 0, true},
		{`1.5`, 0, true},
		{`true`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration())
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		D  Duration
		P  *Duration
		NP *Duration
	}{D: Duration(10 * time.Second), P: NewDuration(250 * time.Millisecond)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"D":"10s","P":"250ms","NP":null}`, string(data))
}

func TestDuration_NilReceiver(t *testing.T) {
	var d *Duration
	assert.Equal(t, time.Duration(0), d.Duration())
	assert.Equal(t, "1.5s", Duration(1500*time.Millisecond).String())
}
