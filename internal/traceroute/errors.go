// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"errors"
	"os"
)

// ErrInvalidRange is returned when the TTL bounds are malformed.
var ErrInvalidRange = errors.New("invalid TTL range")

// isTimeout checks if the error means that the
// wait for an answer ran out of time.
func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, os.ErrDeadlineExceeded)
}
