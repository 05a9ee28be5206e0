// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRange parses an inclusive range written as "from-to".
// A single number is a range of one. Bounds are not checked here,
// that is up to the options the range ends up in.
func ParseRange(s string) (from, to int, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, fmt.Errorf("%w: empty range", ErrInvalidRangeSyntax)
	}

	lo, hi, found := strings.Cut(s, "-")
	from, err = strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: start is not a number", ErrInvalidRangeSyntax, s)
	}
	if !found {
		return from, from, nil
	}

	to, err = strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: end is not a number", ErrInvalidRangeSyntax, s)
	}
	return from, to, nil
}
