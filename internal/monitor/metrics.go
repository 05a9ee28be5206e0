// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics defines the metric collectors of the interface monitor
type metrics struct {
	rate     *prometheus.GaugeVec
	average  *prometheus.GaugeVec
	samples  *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// newMetrics initializes metric collectors of the interface monitor
func newMetrics() metrics {
	return metrics{
		rate: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wirefish_iface_rate_bits_per_second",
				Help: "Bit rate of the interface since the previous sample.",
			},
			[]string{"iface", "direction"},
		),
		average: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wirefish_iface_average_rate_bits_per_second",
				Help: "Rolling average bit rate of the interface over the last samples.",
			},
			[]string{"iface", "direction"},
		),
		samples: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wirefish_iface_samples_total",
				Help: "Total number of recorded interface samples.",
			},
			[]string{"iface"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wirefish_iface_read_failures_total",
				Help: "Total number of skipped samples because the counters could not be read.",
			},
			[]string{"iface"},
		),
	}
}

// GetCollectors returns all metric collectors
func (m *metrics) GetCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.rate,
		m.average,
		m.samples,
		m.failures,
	}
}

// observe records a single sample
func (m *metrics) observe(s Sample) {
	m.rate.WithLabelValues(s.Iface, "rx").Set(s.RxRateBps)
	m.rate.WithLabelValues(s.Iface, "tx").Set(s.TxRateBps)
	m.average.WithLabelValues(s.Iface, "rx").Set(s.RxAvgBps)
	m.average.WithLabelValues(s.Iface, "tx").Set(s.TxAvgBps)
	m.samples.WithLabelValues(s.Iface).Inc()
}
