// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/telekom/wirefish/internal/netutil"
	"golang.org/x/net/ipv4"
)

const (
	// NoAddress is the address recorded for a hop that did not answer.
	NoAddress = "*"
	// NoHost is the host label recorded for a hop that did not answer.
	NoHost = "?"
	// RTTUnmeasured is the round trip time recorded for a hop that did not answer.
	RTTUnmeasured = -1

	// DefaultHopTimeout is the time to wait for the answer of a single hop.
	DefaultHopTimeout = time.Second
)

// Options contains the configuration for a traceroute.
type Options struct {
	// TTLStart is the TTL of the first probe.
	TTLStart int `json:"start" yaml:"start" mapstructure:"start"`
	// TTLMax is the TTL of the last probe, inclusive.
	TTLMax int `json:"max" yaml:"max" mapstructure:"max"`
	// HopTimeout is the time to wait for the answer of each hop.
	HopTimeout time.Duration `json:"hopTimeout" yaml:"hopTimeout" mapstructure:"hopTimeout"`
}

// Validate checks that 1 <= TTLStart <= TTLMax <= 255.
func (o *Options) Validate() error {
	if o == nil {
		return fmt.Errorf("%w: no TTL range given", ErrInvalidRange)
	}
	if o.TTLStart < netutil.MinTTL || o.TTLMax > netutil.MaxTTL || o.TTLStart > o.TTLMax {
		return fmt.Errorf("%w: [%d,%d] must satisfy %d <= start <= max <= %d",
			ErrInvalidRange, o.TTLStart, o.TTLMax, netutil.MinTTL, netutil.MaxTTL)
	}
	return nil
}

func (o *Options) hopTimeout() time.Duration {
	if o.HopTimeout <= 0 {
		return DefaultHopTimeout
	}
	return o.HopTimeout
}

func (o *Options) count() int {
	return o.TTLMax - o.TTLStart + 1
}

// Hop is the outcome of the probe sent with a single TTL.
type Hop struct {
	// Number is the TTL the probe was sent with.
	Number int `json:"hop" yaml:"hop"`
	// Address is the sender of the answer, or [NoAddress].
	Address string `json:"address" yaml:"address"`
	// Host labels the sender. It equals Address since no reverse lookup is done,
	// or [NoHost] if the hop timed out.
	Host string `json:"host" yaml:"host"`
	// RTTMs is the round trip time in milliseconds, or [RTTUnmeasured].
	RTTMs int `json:"rttMs" yaml:"rttMs"`
	// TimedOut is set when no answer arrived in time.
	TimedOut bool `json:"timedOut" yaml:"timedOut"`
	// ICMPType is the type of the answer. Unset for timed out hops.
	ICMPType ipv4.ICMPType `json:"-" yaml:"-"`
	// ChecksumOK reports whether the checksum of the answer was valid.
	ChecksumOK bool `json:"checksumOk" yaml:"checksumOk"`
}

func timedOutHop(ttl int) Hop {
	return Hop{
		Number:   ttl,
		Address:  NoAddress,
		Host:     NoHost,
		RTTMs:    RTTUnmeasured,
		TimedOut: true,
	}
}

// Reached reports whether the hop is the destination answering our echo.
func (h Hop) Reached() bool {
	return !h.TimedOut && h.ICMPType == ipv4.ICMPTypeEchoReply
}

// TypeName returns the name of the answer's ICMP type,
// or an empty string if the hop timed out.
func (h Hop) TypeName() string {
	if h.TimedOut {
		return ""
	}
	return h.ICMPType.String()
}

type hopDoc struct {
	Type  string `json:"type,omitempty" yaml:"type,omitempty"`
	alias `yaml:",inline"`
}

type alias Hop

func (h Hop) MarshalJSON() ([]byte, error) {
	return json.Marshal(&hopDoc{Type: h.TypeName(), alias: alias(h)})
}

// MarshalYAML adds the name of the ICMP type to the encoded hop.
func (h Hop) MarshalYAML() (any, error) {
	return &hopDoc{Type: h.TypeName(), alias: alias(h)}, nil
}

func (h Hop) String() string {
	if h.TimedOut {
		return fmt.Sprintf("%-3d  %s", h.Number, NoAddress)
	}
	reached := ""
	if h.Reached() {
		reached = "  (reached)"
	}
	return fmt.Sprintf("%-3d  %-15s  %dms%s", h.Number, h.Address, h.RTTMs, reached)
}

// Route is the ordered sequence of hops of one traceroute.
// It is append-only while the trace runs and owned by the caller afterwards.
type Route struct {
	// Target is the host the trace was started for.
	Target string `json:"target" yaml:"target"`
	// Address is the IPv4 address the target resolved to.
	Address string `json:"address" yaml:"address"`
	hops    []Hop
}

func newRoute(target, address string, size int) *Route {
	return &Route{Target: target, Address: address, hops: make([]Hop, 0, size)}
}

// NewRoute returns a route holding the given hops.
func NewRoute(target, address string, hops ...Hop) *Route {
	r := newRoute(target, address, len(hops))
	r.hops = append(r.hops, hops...)
	return r
}

func (r *Route) append(h Hop) {
	r.hops = append(r.hops, h)
}

// Hops returns the hops in ascending TTL order.
// The returned slice must not be modified.
func (r *Route) Hops() []Hop {
	if r == nil {
		return nil
	}
	return r.hops
}

// Len returns the number of hops.
func (r *Route) Len() int {
	if r == nil {
		return 0
	}
	return len(r.hops)
}

// Reached reports whether the last hop is the destination.
func (r *Route) Reached() bool {
	if r.Len() == 0 {
		return false
	}
	return r.hops[len(r.hops)-1].Reached()
}

// Release drops the backing storage of the route.
// It must be called once the consumer has finished reading the hops.
func (r *Route) Release() {
	if r == nil {
		return
	}
	r.hops = nil
}
