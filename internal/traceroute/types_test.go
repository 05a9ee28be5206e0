// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/ipv4"
	"gopkg.in/yaml.v3"
)

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    *Options
		wantErr bool
	}{
		{name: "full range", opts: &Options{TTLStart: 1, TTLMax: 255}},
		{name: "single ttl", opts: &Options{TTLStart: 7, TTLMax: 7}},
		{name: "start below one", opts: &Options{TTLStart: 0, TTLMax: 30}, wantErr: true},
		{name: "max above 255", opts: &Options{TTLStart: 1, TTLMax: 300}, wantErr: true},
		{name: "start after max", opts: &Options{TTLStart: 31, TTLMax: 30}, wantErr: true},
		{name: "nil", opts: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRange)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOptions_hopTimeout(t *testing.T) {
	assert.Equal(t, DefaultHopTimeout, (&Options{}).hopTimeout())
	assert.Equal(t, 250*time.Millisecond, (&Options{HopTimeout: 250 * time.Millisecond}).hopTimeout())
}

func TestHop_String(t *testing.T) {
	tests := []struct {
		name string
		hop  Hop
		want string
	}{
		{
			name: "timed out",
			hop:  timedOutHop(4),
			want: "4    *",
		},
		{
			name: "router",
			hop:  Hop{Number: 1, Address: "10.0.0.1", Host: "10.0.0.1", RTTMs: 3, ICMPType: ipv4.ICMPTypeTimeExceeded},
			want: "1    10.0.0.1         3ms",
		},
		{
			name: "destination",
			hop:  Hop{Number: 12, Address: "192.0.2.10", Host: "192.0.2.10", RTTMs: 20, ICMPType: ipv4.ICMPTypeEchoReply},
			want: "12   192.0.2.10       20ms  (reached)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.hop.String())
		})
	}
}

func TestHop_Marshal(t *testing.T) {
	hop := Hop{Number: 2, Address: "10.0.0.2", Host: "10.0.0.2", RTTMs: 5, ICMPType: ipv4.ICMPTypeTimeExceeded, ChecksumOK: true}

	b, err := json.Marshal(hop)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"hop": 2,
		"address": "10.0.0.2",
		"host": "10.0.0.2",
		"rttMs": 5,
		"timedOut": false,
		"checksumOk": true,
		"type": "time exceeded"
	}`, string(b))

	b, err = json.Marshal(timedOutHop(3))
	require.NoError(t, err)
	assert.JSONEq(t, `{"hop":3,"address":"*","host":"?","rttMs":-1,"timedOut":true,"checksumOk":false}`, string(b))

	b, err = yaml.Marshal(hop)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(b, &decoded))
	assert.Equal(t, map[string]any{
		"hop":        2,
		"address":    "10.0.0.2",
		"host":       "10.0.0.2",
		"rttMs":      5,
		"timedOut":   false,
		"checksumOk": true,
		"type":       "time exceeded",
	}, decoded)
}

func TestRoute(t *testing.T) {
	route := newRoute("example.test", "192.0.2.10", 3)
	assert.False(t, route.Reached())

	route.append(Hop{Number: 1, Address: "10.0.0.1", Host: "10.0.0.1", ICMPType: ipv4.ICMPTypeTimeExceeded})
	assert.False(t, route.Reached())

	route.append(Hop{Number: 2, Address: "192.0.2.10", Host: "192.0.2.10", ICMPType: ipv4.ICMPTypeEchoReply})
	assert.True(t, route.Reached())
	assert.Equal(t, 2, route.Len())

	route.Release()
	assert.Equal(t, 0, route.Len())
	assert.Empty(t, route.Hops())
	assert.False(t, route.Reached())

	var nilRoute *Route
	assert.Equal(t, 0, nilRoute.Len())
	assert.NotPanics(t, nilRoute.Release)
}
