// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package test holds helpers shared by the tests of all packages.
package test

import (
	"net"
	"testing"
)

// MarkAsLong marks the test as long running.
// It is skipped when the tests run with -short.
func MarkAsLong(t testing.TB) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping long running test in short mode")
	}
}

// ListenLoopback opens a TCP listener on a free loopback port that accepts
// and immediately closes every connection. The listener is closed when the test ends.
func ListenLoopback(t testing.TB) *net.TCPAddr {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen on loopback: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			c, aErr := ln.Accept()
			if aErr != nil {
				return
			}
			_ = c.Close()
		}
	}()

	addr, ok := ln.Addr().(*net.TCPAddr)
	if !ok {
		t.Fatalf("Unexpected listener address type %T", ln.Addr())
	}
	return addr
}

// ClosedLoopbackPort returns a loopback port nothing listens on.
func ClosedLoopbackPort(t testing.TB) int {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen on loopback: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	if err = ln.Close(); err != nil {
		t.Fatalf("Failed to close loopback listener: %v", err)
	}
	return port
}
