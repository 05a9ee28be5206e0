// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Format is the encoding of a report.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Formats lists all supported formats.
var Formats = []Format{FormatTable, FormatCSV, FormatJSON, FormatYAML}

// ErrInvalidFormat is returned for unsupported report formats.
var ErrInvalidFormat = errors.New("invalid output format")

func (f Format) String() string {
	return string(f)
}

// Validate checks that the format is supported. The empty format means table.
func (f Format) Validate() error {
	if f == "" || slices.Contains(Formats, f) {
		return nil
	}
	names := make([]string, len(Formats))
	for i, v := range Formats {
		names[i] = string(v)
	}
	return fmt.Errorf("%w: %q, must be one of %s", ErrInvalidFormat, string(f), strings.Join(names, ", "))
}

func (f Format) orDefault() Format {
	if f == "" {
		return FormatTable
	}
	return f
}
