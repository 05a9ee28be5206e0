// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"time"

	"github.com/telekom/wirefish/internal/monitor"
	"github.com/telekom/wirefish/internal/scanner"
	"github.com/telekom/wirefish/internal/traceroute"
	"github.com/telekom/wirefish/pkg/report"
	"github.com/telekom/wirefish/pkg/telemetry"
)

// Mode is the operation a configuration is used for.
type Mode string

const (
	ModeScan    Mode = "scan"
	ModeTrace   Mode = "trace"
	ModeMonitor Mode = "monitor"
)

type Config struct {
	// Mode is the operation to run. It is set by the command, not read from the file.
	Mode Mode `yaml:"-" mapstructure:"-"`
	// Target is the host to scan or trace
	Target string `yaml:"target" mapstructure:"target"`
	// Ports is the range of TCP ports to scan
	Ports PortRange `yaml:"ports" mapstructure:"ports"`
	// TTL is the range of TTL values to trace
	TTL TTLRange `yaml:"ttl" mapstructure:"ttl"`
	// Timeout bounds each TCP connect attempt
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// HopTimeout bounds the wait for the answer of each hop
	HopTimeout time.Duration `yaml:"hopTimeout" mapstructure:"hopTimeout"`
	// Monitor is the configuration of the interface monitor
	Monitor MonitorConfig `yaml:"monitor" mapstructure:"monitor"`
	// Output is the configuration of the report
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	// Telemetry is the configuration for the telemetry
	Telemetry telemetry.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// PortRange is an inclusive range of TCP ports
type PortRange struct {
	From int `yaml:"from" mapstructure:"from"`
	To   int `yaml:"to" mapstructure:"to"`
}

// TTLRange is an inclusive range of TTL values
type TTLRange struct {
	Start int `yaml:"start" mapstructure:"start"`
	Max   int `yaml:"max" mapstructure:"max"`
}

// MonitorConfig is the configuration of the interface monitor
type MonitorConfig struct {
	// Iface is the interface to watch, the first non-loopback one if empty
	Iface string `yaml:"iface" mapstructure:"iface"`
	// Interval is the time between two samples
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
	// Duration limits the run, zero means until interrupted
	Duration time.Duration `yaml:"duration" mapstructure:"duration"`
	// Listen is the address to serve metrics and samples on while monitoring
	Listen string `yaml:"listen" mapstructure:"listen"`
}

// OutputConfig is the configuration of the report
type OutputConfig struct {
	// Format is the report format
	Format report.Format `yaml:"format" mapstructure:"format"`
	// File is the path the report is written to, stdout if empty
	File string `yaml:"file" mapstructure:"file"`
}

// ScanOptions returns the options of the port scanner
func (c *Config) ScanOptions() *scanner.Options {
	return &scanner.Options{
		PortFrom: c.Ports.From,
		PortTo:   c.Ports.To,
		Timeout:  c.Timeout,
	}
}

// TraceOptions returns the options of the traceroute
func (c *Config) TraceOptions() *traceroute.Options {
	return &traceroute.Options{
		TTLStart:   c.TTL.Start,
		TTLMax:     c.TTL.Max,
		HopTimeout: c.HopTimeout,
	}
}

// MonitorOptions returns the options of the interface monitor
func (c *Config) MonitorOptions() *monitor.Options {
	return &monitor.Options{
		Iface:    c.Monitor.Iface,
		Interval: c.Monitor.Interval,
		Duration: c.Monitor.Duration,
	}
}

// HasTelemetry returns true if the config has telemetry enabled
func (c *Config) HasTelemetry() bool {
	return c.Telemetry.Enabled
}

// HasAPI returns true if the monitor should serve its samples
func (c *Config) HasAPI() bool {
	return c.Mode == ModeMonitor && c.Monitor.Listen != ""
}
