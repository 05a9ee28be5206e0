// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package monitor samples the byte counters of a network interface
// and turns them into receive and transmit bit rates.
package monitor

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/procfs"
	"github.com/telekom/wirefish/internal/helper"
	"github.com/telekom/wirefish/internal/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// counterSource reads the byte counters of all network devices.
//
//go:generate go tool moq -out source_moq.go . counterSource
type counterSource interface {
	NetDev() (procfs.NetDev, error)
}

// Monitor watches the traffic of a network interface.
type Monitor struct {
	source  counterSource
	metrics metrics
}

// New creates a monitor reading /proc/net/dev.
func New() (*Monitor, error) {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return nil, fmt.Errorf("failed to open procfs: %w", err)
	}
	return &Monitor{source: fs, metrics: newMetrics()}, nil
}

// Run samples the interface every interval until ctx is done or the
// duration has passed and returns the recorded samples.
//
// The interface must exist when the run starts. A failed read later on skips
// that sample. Cancelling ctx is the regular way to end an unbounded run, so
// it does not count as an error.
func (m *Monitor) Run(ctx context.Context, opts *Options) (*Series, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	tracer := trace.SpanFromContext(ctx).TracerProvider().Tracer("monitor.Monitor")
	ctx, span := tracer.Start(ctx, "Run", trace.WithAttributes(
		attribute.Stringer("monitor.interval", opts.interval()),
		attribute.Stringer("monitor.duration", opts.Duration),
	))
	defer span.End()

	iface := opts.Iface
	if iface == "" {
		picked, err := m.defaultInterface()
		if err != nil {
			return nil, helper.WrapError(ctx, err, "failed to pick a network interface")
		}
		iface = picked
	}
	span.SetAttributes(attribute.String("monitor.iface", iface))
	log := logger.FromContext(ctx).With("iface", iface)

	prev, err := m.read(iface)
	if err != nil {
		return nil, helper.WrapError(ctx, err, "failed to read counters of %s", iface)
	}
	prevTime := time.Now()

	var deadline <-chan time.Time
	if opts.Duration > 0 {
		timer := time.NewTimer(opts.Duration)
		defer timer.Stop()
		deadline = timer.C
	}
	ticker := time.NewTicker(opts.interval())
	defer ticker.Stop()

	rxWindow, txWindow := newRing(windowSize), newRing(windowSize)
	series := &Series{Iface: iface}
	log.DebugContext(ctx, "Starting interface monitor", "interval", opts.interval(), "duration", opts.Duration)

	for {
		select {
		case <-ctx.Done():
			log.InfoContext(ctx, "Interface monitor stopped", "samples", series.Len())
			return series, nil
		case <-deadline:
			log.InfoContext(ctx, "Interface monitor finished", "samples", series.Len())
			return series, nil
		case now := <-ticker.C:
			curr, err := m.read(iface)
			if err != nil {
				log.WarnContext(ctx, "Skipping sample", "error", err)
				m.metrics.failures.WithLabelValues(iface).Inc()
				continue
			}
			elapsed := now.Sub(prevTime)
			if elapsed <= 0 {
				continue
			}

			rx, tx := rate(prev.RxBytes, curr.RxBytes, elapsed), rate(prev.TxBytes, curr.TxBytes, elapsed)
			rxWindow.push(rx)
			txWindow.push(tx)
			sample := Sample{
				Time:      now,
				Iface:     iface,
				RxBytes:   curr.RxBytes,
				TxBytes:   curr.TxBytes,
				RxRateBps: rx,
				TxRateBps: tx,
				RxAvgBps:  rxWindow.average(),
				TxAvgBps:  txWindow.average(),
			}
			series.append(sample)
			m.metrics.observe(sample)
			if opts.OnSample != nil {
				opts.OnSample(sample)
			}
			log.DebugContext(ctx, "Sampled interface", "rxBps", rx, "txBps", tx)

			prev, prevTime = curr, now
		}
	}
}

// read returns the counters of the interface.
func (m *Monitor) read(iface string) (procfs.NetDevLine, error) {
	devs, err := m.source.NetDev()
	if err != nil {
		return procfs.NetDevLine{}, err
	}
	line, ok := devs[iface]
	if !ok {
		return procfs.NetDevLine{}, fmt.Errorf("%w: %q", ErrUnknownInterface, iface)
	}
	return line, nil
}

// defaultInterface returns the first non-loopback interface in name order.
func (m *Monitor) defaultInterface() (string, error) {
	devs, err := m.source.NetDev()
	if err != nil {
		return "", err
	}
	names := make([]string, 0, len(devs))
	for name := range devs {
		if name != loopback {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "", ErrNoInterface
	}
	slices.Sort(names)
	return names[0], nil
}

// rate returns the bit rate between two counter readings.
// A counter that went backwards was reset or wrapped and yields 0.
func rate(prev, curr uint64, elapsed time.Duration) float64 {
	if curr < prev || elapsed <= 0 {
		return 0
	}
	return float64(curr-prev) * 8 / elapsed.Seconds()
}

// GetMetricCollectors returns the prometheus collectors of the monitor
func (m *Monitor) GetMetricCollectors() []prometheus.Collector {
	return m.metrics.GetCollectors()
}
