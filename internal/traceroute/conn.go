// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"net"
	"net/netip"
	"time"

	"github.com/telekom/wirefish/internal/netutil"
)

var _ packetConn = (*netutil.ICMPConn)(nil)

// packetConn is the raw ICMP socket a trace sends its probes over.
//
//go:generate go tool moq -out packetconn_moq.go . packetConn
type packetConn interface {
	// SetTTL sets the TTL of the following writes.
	SetTTL(ttl int) error
	// WriteTo sends an ICMP message to dst.
	WriteTo(b []byte, dst *net.IPAddr) (int, error)
	// ReadFrom reads the next IP datagram, waiting until the deadline at most.
	ReadFrom(deadline time.Time, buf []byte) (int, netip.Addr, error)
	Close() error
}

// listenICMP opens the raw socket of a trace.
func listenICMP() (packetConn, error) {
	conn, err := netutil.ListenICMP()
	if err != nil {
		return nil, err
	}
	return conn, nil
}
