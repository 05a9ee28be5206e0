// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// State is the classification of a scanned port.
type State int

// Port states.
const (
	// StateClosed means the host actively refused the connection.
	StateClosed State = iota
	// StateOpen means the TCP handshake completed.
	StateOpen
	// StateFiltered means no definitive answer arrived within the timeout.
	StateFiltered
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateFiltered:
		return "filtered"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by its name.
func (s State) MarshalText() ([]byte, error) {
	if s < StateClosed || s > StateFiltered {
		return nil, fmt.Errorf("invalid port state %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "closed":
		*s = StateClosed
	case "open":
		*s = StateOpen
	case "filtered":
		*s = StateFiltered
	default:
		return fmt.Errorf("invalid port state %q", string(b))
	}
	return nil
}

// LatencyUnmeasured is the latency recorded for probes without a definitive answer.
const LatencyUnmeasured = -1

// Result is the outcome of probing a single port.
type Result struct {
	// Port is the probed TCP port.
	Port int `json:"port" yaml:"port"`
	// State is the classification of the port.
	State State `json:"state" yaml:"state"`
	// LatencyMs is the connect latency in milliseconds,
	// or [LatencyUnmeasured] if the port is filtered.
	LatencyMs int `json:"latencyMs" yaml:"latencyMs"`
}

// Table holds the results of a scan in ascending port order.
// It is append-only while the scan runs and owned by the caller afterwards.
type Table struct {
	// Target is the host the scan was started for.
	Target string `json:"target" yaml:"target"`
	// Address is the IPv4 address the target resolved to.
	Address string `json:"address" yaml:"address"`
	rows    []Result
}

func newTable(target, address string, size int) *Table {
	return &Table{Target: target, Address: address, rows: make([]Result, 0, size)}
}

// NewTable returns a table holding the given results, which must be in ascending port order.
func NewTable(target, address string, rows ...Result) *Table {
	t := newTable(target, address, len(rows))
	t.rows = append(t.rows, rows...)
	return t
}

func (t *Table) append(r Result) {
	t.rows = append(t.rows, r)
}

// Rows returns the results in ascending port order.
// The returned slice must not be modified.
func (t *Table) Rows() []Result {
	if t == nil {
		return nil
	}
	return t.rows
}

// Len returns the number of results.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Release drops the backing storage of the table.
// It must be called once the consumer has finished reading the results.
func (t *Table) Release() {
	if t == nil {
		return
	}
	t.rows = nil
}

// Counts returns the number of results per state.
func (t *Table) Counts() map[State]int {
	counts := map[State]int{StateOpen: 0, StateClosed: 0, StateFiltered: 0}
	for _, r := range t.Rows() {
		counts[r.State]++
	}
	return counts
}

const (
	// MinPort is the lowest scannable TCP port.
	MinPort = 1
	// MaxPort is the highest TCP port.
	MaxPort = 65535
	// DefaultTimeout is the default connect timeout per port.
	DefaultTimeout = 100 * time.Millisecond
)

// ErrInvalidRange is returned when the port bounds are malformed.
var ErrInvalidRange = errors.New("invalid port range")

// Options configures a scan.
type Options struct {
	// PortFrom is the first port to scan.
	PortFrom int `json:"from" yaml:"from" mapstructure:"from"`
	// PortTo is the last port to scan, inclusive.
	PortTo int `json:"to" yaml:"to" mapstructure:"to"`
	// Timeout bounds each connect attempt.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// Validate checks that 1 <= PortFrom <= PortTo <= 65535.
func (o *Options) Validate() error {
	if o == nil {
		return fmt.Errorf("%w: no port range given", ErrInvalidRange)
	}
	if o.PortFrom < MinPort || o.PortTo > MaxPort || o.PortFrom > o.PortTo {
		return fmt.Errorf("%w: [%d,%d] must satisfy %d <= from <= to <= %d", ErrInvalidRange, o.PortFrom, o.PortTo, MinPort, MaxPort)
	}
	return nil
}

// count returns the number of ports in the range.
func (o *Options) count() int {
	return o.PortTo - o.PortFrom + 1
}

func (o *Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}
