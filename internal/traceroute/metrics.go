// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics defines the metric collectors of the traceroute
type metrics struct {
	hops     *prometheus.GaugeVec
	reached  *prometheus.GaugeVec
	rtt      *prometheus.HistogramVec
	timeouts *prometheus.CounterVec
}

// newMetrics initializes metric collectors of the traceroute
func newMetrics() metrics {
	return metrics{
		hops: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wirefish_trace_hops",
				Help: "Number of hops recorded by the last traceroute to the target.",
			},
			[]string{"target"},
		),
		reached: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wirefish_trace_reached",
				Help: "Whether the last traceroute reached the target (1) or not (0).",
			},
			[]string{"target"},
		),
		rtt: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wirefish_trace_hop_rtt_seconds",
				Help:    "Histogram of round trip times of answered hops in seconds.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"target"},
		),
		timeouts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wirefish_trace_hop_timeouts_total",
				Help: "Total number of hops that did not answer in time.",
			},
			[]string{"target"},
		),
	}
}

// GetCollectors returns all metric collectors
func (m *metrics) GetCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.hops,
		m.reached,
		m.rtt,
		m.timeouts,
	}
}

// observe records a single hop
func (m *metrics) observe(target string, h Hop) {
	if h.TimedOut {
		m.timeouts.WithLabelValues(target).Inc()
		return
	}
	m.rtt.WithLabelValues(target).Observe(float64(h.RTTMs) / 1000)
}

// Set sets the gauges of one finished traceroute
func (m *metrics) Set(r *Route) {
	m.hops.WithLabelValues(r.Target).Set(float64(r.Len()))
	reached := 0.0
	if r.Reached() {
		reached = 1
	}
	m.reached.WithLabelValues(r.Target).Set(reached)
}
