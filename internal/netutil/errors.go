// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

var (
	// ErrRefused is returned when the remote host actively rejected a TCP connection.
	ErrRefused = errors.New("connection refused")
	// ErrFiltered is returned when a TCP connection attempt got no answer within its timeout.
	// This is ambiguous: the probe may have been dropped by a firewall or the host may be down.
	ErrFiltered = errors.New("no response within timeout")
	// ErrPermissionDenied is returned when the operating system refused to create a raw socket.
	// This typically occurs when the process is neither root nor has the CAP_NET_RAW capability.
	ErrPermissionDenied = errors.New("raw socket requires elevated privileges (root or CAP_NET_RAW)")
)

// DNSError is returned when a host could not be resolved to a usable IPv4 address.
type DNSError struct {
	// Host is the name that was looked up.
	Host string
	// Reason is the resolver's textual explanation.
	Reason string
	// Err is the underlying resolver error, if any.
	Err error
}

func (e *DNSError) Error() string {
	return fmt.Sprintf("dns resolution failed for %q: %s", e.Host, e.Reason)
}

func (e *DNSError) Unwrap() error {
	return e.Err
}

// SystemError is returned for any socket level failure that is
// neither a refusal, a timeout nor a permission problem.
type SystemError struct {
	// Op is the failed operation, e.g. "connect" or "sendto".
	Op  string
	Err error
}

func (e *SystemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SystemError) Unwrap() error {
	return e.Err
}

// IsPermissionError reports whether err is an "operation not permitted"
// or "permission denied" signal from the operating system.
func IsPermissionError(err error) bool {
	return errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, unix.EPERM) ||
		errors.Is(err, unix.EACCES)
}
