// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package monitor

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultInterval is the default time between two samples.
	DefaultInterval = 100 * time.Millisecond
	// windowSize is the number of rates the rolling averages are computed over.
	windowSize = 10
	// loopback is the name of the loopback device, which is never picked automatically.
	loopback = "lo"
)

var (
	// ErrInvalidOptions is returned when the interval or duration is negative.
	ErrInvalidOptions = errors.New("invalid monitor options")
	// ErrNoInterface is returned when no interface was given and none could be picked.
	ErrNoInterface = errors.New("no non-loopback network interface found")
	// ErrUnknownInterface is returned when the given interface does not exist.
	ErrUnknownInterface = errors.New("unknown network interface")
)

// Options configures a monitor run.
type Options struct {
	// Iface is the interface to watch. The first non-loopback interface is used if empty.
	Iface string `json:"iface" yaml:"iface" mapstructure:"iface"`
	// Interval is the time between two samples.
	Interval time.Duration `json:"interval" yaml:"interval" mapstructure:"interval"`
	// Duration limits the run. The run lasts until its context is done if zero.
	Duration time.Duration `json:"duration" yaml:"duration" mapstructure:"duration"`
	// OnSample is called with every recorded sample.
	OnSample func(Sample) `json:"-" yaml:"-" mapstructure:"-"`
}

// Validate checks the interval and duration.
func (o *Options) Validate() error {
	if o == nil {
		return fmt.Errorf("%w: no options given", ErrInvalidOptions)
	}
	var errs []error
	if o.Interval < 0 {
		errs = append(errs, fmt.Errorf("%w: interval %s must not be negative", ErrInvalidOptions, o.Interval))
	}
	if o.Duration < 0 {
		errs = append(errs, fmt.Errorf("%w: duration %s must not be negative", ErrInvalidOptions, o.Duration))
	}
	return errors.Join(errs...)
}

func (o *Options) interval() time.Duration {
	if o.Interval == 0 {
		return DefaultInterval
	}
	return o.Interval
}

// Sample holds the counters and rates of one interface at one point in time.
type Sample struct {
	// Time is when the counters were read.
	Time time.Time `json:"time" yaml:"time"`
	// Iface is the name of the interface.
	Iface string `json:"iface" yaml:"iface"`
	// RxBytes is the total number of received bytes.
	RxBytes uint64 `json:"rxBytes" yaml:"rxBytes"`
	// TxBytes is the total number of transmitted bytes.
	TxBytes uint64 `json:"txBytes" yaml:"txBytes"`
	// RxRateBps is the receive rate since the previous sample in bits per second.
	RxRateBps float64 `json:"rxRateBps" yaml:"rxRateBps"`
	// TxRateBps is the transmit rate since the previous sample in bits per second.
	TxRateBps float64 `json:"txRateBps" yaml:"txRateBps"`
	// RxAvgBps is the average receive rate over the last samples.
	RxAvgBps float64 `json:"rxAvgBps" yaml:"rxAvgBps"`
	// TxAvgBps is the average transmit rate over the last samples.
	TxAvgBps float64 `json:"txAvgBps" yaml:"txAvgBps"`
}

// Series is the sequence of samples of one monitor run in chronological order.
// It is append-only while the run lasts and owned by the caller afterwards.
type Series struct {
	// Iface is the name of the watched interface.
	Iface   string `json:"iface" yaml:"iface"`
	samples []Sample
}

// NewSeries returns a series of the given samples.
func NewSeries(iface string, samples ...Sample) *Series {
	return &Series{Iface: iface, samples: append([]Sample{}, samples...)}
}

func (s *Series) append(sample Sample) {
	s.samples = append(s.samples, sample)
}

// Samples returns the samples in chronological order.
// The returned slice must not be modified.
func (s *Series) Samples() []Sample {
	if s == nil {
		return nil
	}
	return s.samples
}

// Len returns the number of samples.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.samples)
}

// Release drops the backing storage of the series.
func (s *Series) Release() {
	if s == nil {
		return
	}
	s.samples = nil
}
