// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	buildInfoMetricName = "wirefish_build_info"
	buildInfoHelp       = "Version and mode of the wirefish run. Emitted once per run."
)

// RegisterBuildInfo registers the wirefish_build_info info-style metric on the given registry.
// It sets the gauge to 1 with labels version and mode.
func RegisterBuildInfo(registry *prometheus.Registry, version, mode string) error {
	info := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: buildInfoMetricName,
			Help: buildInfoHelp,
		},
		[]string{"version", "mode"},
	)
	info.WithLabelValues(version, mode).Set(1)
	return registry.Register(info)
}
