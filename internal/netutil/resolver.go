// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"strconv"
	"time"

	"github.com/telekom/wirefish/internal/helper"
	"github.com/telekom/wirefish/internal/logger"
)

// maxHostLength is the longest name a DNS query can carry.
const maxHostLength = 253

// lookupRetry retries lookups that failed for a temporary reason, like a timed out query.
var lookupRetry = helper.RetryConfig{
	Count:     2,
	Delay:     100 * time.Millisecond,
	Retryable: isTemporary,
}

// Resolver looks up the IP addresses of a host.
// [net.Resolver] satisfies this interface.
//
//go:generate go tool moq -out resolver_moq.go . Resolver
type Resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
}

// NewResolver returns the system resolver.
func NewResolver() Resolver {
	return net.DefaultResolver
}

// Address is the resolved IPv4 address of a probe target.
// It is created once per run and shared read-only by every probe of that run.
type Address struct {
	// Host is the name or literal the address was resolved from.
	Host string
	// IP is the first IPv4 address returned for Host.
	IP netip.Addr
}

// TCPAddr returns the address with the given port attached.
func (a Address) TCPAddr(port int) *net.TCPAddr {
	return net.TCPAddrFromAddrPort(netip.AddrPortFrom(a.IP, uint16(port))) // #nosec G115 // ports are validated by the callers
}

// IPAddr returns the address as a [net.IPAddr] suitable for raw sockets.
func (a Address) IPAddr() *net.IPAddr {
	return &net.IPAddr{IP: a.IP.AsSlice()}
}

func (a Address) String() string {
	return a.IP.String()
}

// JoinPort formats the address with a port, e.g. "10.0.0.1:80".
func (a Address) JoinPort(port int) string {
	return net.JoinHostPort(a.IP.String(), strconv.Itoa(port))
}

// Resolve turns a hostname or a literal IPv4 address into an [Address].
// Only IPv4 candidates are considered and the first one returned by the
// resolver is kept; later candidates are discarded.
// It fails with a [*DNSError] when the lookup fails or yields no usable address.
func Resolve(ctx context.Context, r Resolver, host string) (Address, error) {
	log := logger.FromContext(ctx).With("host", host)

	if host == "" {
		return Address{}, &DNSError{Host: host, Reason: "empty host"}
	}
	if len(host) > maxHostLength {
		return Address{}, &DNSError{Host: host, Reason: "name exceeds 253 characters"}
	}

	var ips []net.IP
	err := helper.Retry(func(ctx context.Context) (err error) {
		ips, err = r.LookupIP(ctx, "ip4", host)
		return err
	}, lookupRetry)(ctx)
	if err != nil {
		log.DebugContext(ctx, "Failed to resolve host", "error", err)
		return Address{}, &DNSError{Host: host, Reason: dnsReason(err), Err: err}
	}

	for _, ip := range ips {
		addr, ok := netip.AddrFromSlice(ip)
		if !ok {
			continue
		}
		addr = addr.Unmap()
		if !addr.Is4() {
			continue
		}
		log.DebugContext(ctx, "Resolved host", "ip", addr, "candidates", len(ips))
		return Address{Host: host, IP: addr}, nil
	}

	return Address{}, &DNSError{Host: host, Reason: "no IPv4 address found"}
}

// isTemporary reports whether a lookup error may go away when asked again.
func isTemporary(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr) && (dnsErr.IsTemporary || dnsErr.IsTimeout)
}

// dnsReason extracts the platform's explanation from a lookup error.
func dnsReason(err error) string {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.Err != "" {
		return dnsErr.Err
	}
	return err.Error()
}
