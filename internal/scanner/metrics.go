// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics defines the metric collectors of the port scanner
type metrics struct {
	ports   *prometheus.GaugeVec
	latency *prometheus.HistogramVec
	probes  *prometheus.CounterVec
}

// newMetrics initializes metric collectors of the port scanner
func newMetrics() metrics {
	return metrics{
		ports: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wirefish_scan_ports",
				Help: "Number of ports per state found by the last scan of the target.",
			},
			[]string{"target", "state"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wirefish_scan_connect_latency_seconds",
				Help:    "Histogram of TCP connect latencies of answered probes in seconds.",
				Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"target", "state"},
		),
		probes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wirefish_scan_probes_total",
				Help: "Total number of TCP connect probes sent to the target.",
			},
			[]string{"target"},
		),
	}
}

// GetCollectors returns all metric collectors
func (m *metrics) GetCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ports,
		m.latency,
		m.probes,
	}
}

// observe records a single probe result
func (m *metrics) observe(target string, r Result) {
	m.probes.WithLabelValues(target).Inc()
	if r.LatencyMs != LatencyUnmeasured {
		m.latency.WithLabelValues(target, r.State.String()).Observe(float64(r.LatencyMs) / 1000)
	}
}

// Set sets the per state gauges of one finished scan
func (m *metrics) Set(t *Table) {
	for state, n := range t.Counts() {
		m.ports.WithLabelValues(t.Target, state.String()).Set(float64(n))
	}
}
