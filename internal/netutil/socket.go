// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

const (
	// MinTTL is the smallest valid IP Time-To-Live.
	MinTTL = 1
	// MaxTTL is the largest value the 8 bit IP Time-To-Live field can hold.
	MaxTTL = 255
)

// ConnectTCP opens a TCP connection to addr, bounded by timeout.
//
// The socket is non-blocking and the runtime waits for it to become writable
// before reading the pending socket error, so the outcome is one of:
//   - a connected [net.Conn] the caller must close
//   - [ErrRefused] when the peer actively rejected the handshake
//   - [ErrFiltered] when the timeout elapsed without any answer
//   - a [*SystemError] for every other failure
//
// Cancelling ctx does not abort an attempt that is already in flight;
// the attempt always runs until it completes or the timeout elapses.
func ConnectTCP(ctx context.Context, addr *net.TCPAddr, timeout time.Duration) (net.Conn, error) {
	if timeout <= 0 {
		return nil, &SystemError{Op: "connect", Err: fmt.Errorf("invalid timeout %s", timeout)}
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(context.WithoutCancel(ctx), "tcp4", addr.String())
	if err == nil {
		return conn, nil
	}

	var netErr net.Error
	switch {
	case errors.Is(err, unix.ECONNREFUSED):
		return nil, fmt.Errorf("connect %s: %w", addr, ErrRefused)
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return nil, fmt.Errorf("connect %s: %w", addr, ErrFiltered)
	default:
		return nil, &SystemError{Op: "connect", Err: err}
	}
}

// SetTTL sets the outgoing IP Time-To-Live on the socket behind conn.
func SetTTL(conn syscall.Conn, ttl int) error {
	if ttl < MinTTL || ttl > MaxTTL {
		return &SystemError{Op: "setsockopt IP_TTL", Err: fmt.Errorf("ttl %d out of range [%d,%d]", ttl, MinTTL, MaxTTL)}
	}

	rc, err := conn.SyscallConn()
	if err != nil {
		return &SystemError{Op: "setsockopt IP_TTL", Err: err}
	}

	var opErr error
	if err := rc.Control(func(fd uintptr) {
		opErr = unix.SetsockoptInt(int(fd), unix.IPPROTO_IP, unix.IP_TTL, ttl)
	}); err != nil {
		return &SystemError{Op: "setsockopt IP_TTL", Err: err}
	}
	if opErr != nil {
		return &SystemError{Op: "setsockopt IP_TTL", Err: opErr}
	}
	return nil
}

// ICMPConn is a raw IPv4 ICMP socket.
// Reads return the complete IP datagram including its header.
type ICMPConn struct {
	conn    *net.IPConn
	rawConn syscall.RawConn
}

// ListenICMP opens a raw ICMP socket.
// It returns an error wrapping [ErrPermissionDenied] when the process lacks
// the privilege to open raw sockets and a [*SystemError] for any other failure.
func ListenICMP() (*ICMPConn, error) {
	pc, err := net.ListenPacket("ip4:icmp", "0.0.0.0")
	if err != nil {
		if IsPermissionError(err) {
			return nil, fmt.Errorf("%w: %w", ErrPermissionDenied, err)
		}
		return nil, &SystemError{Op: "socket", Err: err}
	}

	conn, ok := pc.(*net.IPConn)
	if !ok {
		_ = pc.Close()
		return nil, &SystemError{Op: "socket", Err: fmt.Errorf("unexpected connection type %T", pc)}
	}

	rc, err := conn.SyscallConn()
	if err != nil {
		_ = conn.Close()
		return nil, &SystemError{Op: "socket", Err: err}
	}

	return &ICMPConn{conn: conn, rawConn: rc}, nil
}

// SetTTL sets the Time-To-Live used for all following writes.
func (c *ICMPConn) SetTTL(ttl int) error {
	return SetTTL(c.conn, ttl)
}

// WriteTo sends an ICMP message to dst. The kernel prepends the IP header.
func (c *ICMPConn) WriteTo(b []byte, dst *net.IPAddr) (int, error) {
	n, err := c.conn.WriteTo(b, dst)
	if err != nil {
		return n, &SystemError{Op: "sendto", Err: err}
	}
	return n, nil
}

// ReadFrom waits until a datagram arrives or the deadline passes.
// It returns the number of bytes of the IP datagram written to buf and the sender.
// When the deadline passes first, the error is [context.DeadlineExceeded].
func (c *ICMPConn) ReadFrom(deadline time.Time, buf []byte) (int, netip.Addr, error) {
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return 0, netip.Addr{}, &SystemError{Op: "set read deadline", Err: err}
	}

	var (
		n     int
		from  unix.Sockaddr
		opErr error
	)
	err := c.rawConn.Read(func(fd uintptr) bool {
		n, from, opErr = unix.Recvfrom(int(fd), buf, 0)
		// Returning false parks the goroutine until the socket is readable again.
		return !errors.Is(opErr, unix.EAGAIN) && !errors.Is(opErr, unix.EWOULDBLOCK)
	})
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return 0, netip.Addr{}, context.DeadlineExceeded
		}
		return 0, netip.Addr{}, &SystemError{Op: "recvfrom", Err: err}
	}
	if opErr != nil {
		return 0, netip.Addr{}, &SystemError{Op: "recvfrom", Err: opErr}
	}

	var src netip.Addr
	if sa, ok := from.(*unix.SockaddrInet4); ok {
		src = netip.AddrFrom4(sa.Addr)
	}
	return n, src, nil
}

// Close closes the socket.
func (c *ICMPConn) Close() error {
	return c.conn.Close()
}
