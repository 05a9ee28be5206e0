// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import "errors"

var (
	// ErrInvalidTarget is returned when the target is missing or too long
	ErrInvalidTarget = errors.New("invalid target")
	// ErrInvalidMode is returned when the configuration is used for an unknown operation
	ErrInvalidMode = errors.New("invalid mode")
	// ErrInvalidTimeout is returned when a timeout is negative
	ErrInvalidTimeout = errors.New("invalid timeout")
	// ErrInvalidListenAddress is returned when the monitor listen address is not host:port
	ErrInvalidListenAddress = errors.New("invalid listen address")
	// ErrInvalidRangeSyntax is returned when a range is not written as from-to
	ErrInvalidRangeSyntax = errors.New("invalid range syntax")
)
