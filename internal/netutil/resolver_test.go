// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		host       string
		ips        []net.IP
		lookupErr  error
		want       netip.Addr
		wantErr    bool
		wantReason string
		wantLookup bool
	}{
		{
			name:       "first candidate is kept",
			host:       "example.com",
			ips:        []net.IP{net.IPv4(93, 184, 216, 34), net.IPv4(93, 184, 216, 35)},
			want:       netip.MustParseAddr("93.184.216.34"),
			wantLookup: true,
		},
		{
			name:       "ipv6 candidates are skipped",
			host:       "dual.example.com",
			ips:        []net.IP{net.ParseIP("2001:db8::1"), net.IPv4(192, 0, 2, 7)},
			want:       netip.MustParseAddr("192.0.2.7"),
			wantLookup: true,
		},
		{
			name:       "no candidates",
			host:       "empty.example.com",
			ips:        []net.IP{},
			wantErr:    true,
			wantReason: "no IPv4 address found",
			wantLookup: true,
		},
		{
			name:       "resolver failure carries the platform reason",
			host:       "nope.invalid",
			lookupErr:  &net.DNSError{Err: "no such host", Name: "nope.invalid", IsNotFound: true},
			wantErr:    true,
			wantReason: "no such host",
			wantLookup: true,
		},
		{
			name:       "generic resolver failure",
			host:       "broken.example.com",
			lookupErr:  errors.New("resolver exploded"),
			wantErr:    true,
			wantReason: "resolver exploded",
			wantLookup: true,
		},
		{
			name:       "empty host is rejected without lookup",
			host:       "",
			wantErr:    true,
			wantReason: "empty host",
		},
		{
			name:       "overlong host is rejected without lookup",
			host:       strings.Repeat("a", 254),
			wantErr:    true,
			wantReason: "name exceeds 253 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &ResolverMock{
				LookupIPFunc: func(_ context.Context, network, host string) ([]net.IP, error) {
					assert.Equal(t, "ip4", network)
					assert.Equal(t, tt.host, host)
					return tt.ips, tt.lookupErr
				},
			}

			got, err := Resolve(t.Context(), r, tt.host)
			assert.Equal(t, tt.wantLookup, len(r.LookupIPCalls()) == 1)
			if tt.wantErr {
				var dnsErr *DNSError
				require.ErrorAs(t, err, &dnsErr)
				assert.Equal(t, tt.host, dnsErr.Host)
				assert.Equal(t, tt.wantReason, dnsErr.Reason)
				if tt.lookupErr != nil {
					assert.ErrorIs(t, err, tt.lookupErr)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.IP)
			assert.Equal(t, tt.host, got.Host)
		})
	}
}

func TestResolve_retriesTemporaryFailures(t *testing.T) {
	calls := 0
	r := &ResolverMock{
		LookupIPFunc: func(_ context.Context, _, host string) ([]net.IP, error) {
			calls++
			if calls == 1 {
				return nil, &net.DNSError{Err: "i/o timeout", Name: host, IsTimeout: true}
			}
			return []net.IP{net.IPv4(192, 0, 2, 1)}, nil
		},
	}

	addr, err := Resolve(t.Context(), r, "flaky.example.com")
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.1", addr.String())
	assert.Len(t, r.LookupIPCalls(), 2)
}

func TestResolve_givesUpOnPersistentTimeouts(t *testing.T) {
	timeout := &net.DNSError{Err: "i/o timeout", Name: "down.example.com", IsTimeout: true}
	r := &ResolverMock{
		LookupIPFunc: func(context.Context, string, string) ([]net.IP, error) {
			return nil, timeout
		},
	}

	_, err := Resolve(t.Context(), r, "down.example.com")
	var dnsErr *DNSError
	require.ErrorAs(t, err, &dnsErr)
	assert.Equal(t, "i/o timeout", dnsErr.Reason)
	assert.Len(t, r.LookupIPCalls(), lookupRetry.Count+1)
}

func TestResolve_literal(t *testing.T) {
	addr, err := Resolve(t.Context(), NewResolver(), "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", addr.String())
}

func TestAddress(t *testing.T) {
	addr := Address{Host: "localhost", IP: netip.MustParseAddr("10.1.2.3")}

	assert.Equal(t, "10.1.2.3:8080", addr.TCPAddr(8080).String())
	assert.Equal(t, "10.1.2.3:443", addr.JoinPort(443))
	assert.True(t, addr.IPAddr().IP.Equal(net.IPv4(10, 1, 2, 3)))
	assert.Equal(t, "10.1.2.3", addr.String())
}
