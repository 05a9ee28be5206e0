// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package report renders the results of scans, traces and monitor runs
// as aligned tables, CSV, JSON or YAML.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/telekom/wirefish/internal/monitor"
	"github.com/telekom/wirefish/internal/scanner"
	"github.com/telekom/wirefish/internal/traceroute"
	"gopkg.in/yaml.v3"
)

// document is a report in both tabular and structured form.
type document struct {
	header []string
	rows   [][]string
	// value is encoded for the JSON and YAML formats.
	value any
}

// ScanReport is the structured form of a scan.
type ScanReport struct {
	Target   string           `json:"target" yaml:"target"`
	Address  string           `json:"address" yaml:"address"`
	Open     int              `json:"open" yaml:"open"`
	Closed   int              `json:"closed" yaml:"closed"`
	Filtered int              `json:"filtered" yaml:"filtered"`
	Ports    []scanner.Result `json:"ports" yaml:"ports"`
}

// TraceReport is the structured form of a traceroute.
type TraceReport struct {
	Target  string           `json:"target" yaml:"target"`
	Address string           `json:"address" yaml:"address"`
	Reached bool             `json:"reached" yaml:"reached"`
	Hops    []traceroute.Hop `json:"hops" yaml:"hops"`
}

// MonitorReport is the structured form of a monitor run.
type MonitorReport struct {
	Iface   string           `json:"iface" yaml:"iface"`
	Samples []monitor.Sample `json:"samples" yaml:"samples"`
}

// NewScanReport converts a scan table into its structured form.
func NewScanReport(t *scanner.Table) ScanReport {
	counts := t.Counts()
	return ScanReport{
		Target:   t.Target,
		Address:  t.Address,
		Open:     counts[scanner.StateOpen],
		Closed:   counts[scanner.StateClosed],
		Filtered: counts[scanner.StateFiltered],
		Ports:    append([]scanner.Result{}, t.Rows()...),
	}
}

// NewTraceReport converts a route into its structured form.
func NewTraceReport(r *traceroute.Route) TraceReport {
	return TraceReport{
		Target:  r.Target,
		Address: r.Address,
		Reached: r.Reached(),
		Hops:    append([]traceroute.Hop{}, r.Hops()...),
	}
}

// NewMonitorReport converts a series into its structured form.
func NewMonitorReport(s *monitor.Series) MonitorReport {
	return MonitorReport{
		Iface:   s.Iface,
		Samples: append([]monitor.Sample{}, s.Samples()...),
	}
}

// Scan writes the scan table to w.
func Scan(w io.Writer, f Format, t *scanner.Table) error {
	d := document{
		header: []string{"PORT", "STATE", "LATENCY_MS"},
		value:  NewScanReport(t),
	}
	for _, r := range t.Rows() {
		d.rows = append(d.rows, []string{
			strconv.Itoa(r.Port),
			r.State.String(),
			strconv.Itoa(r.LatencyMs),
		})
	}
	return render(w, f, d)
}

// Trace writes the route to w.
func Trace(w io.Writer, f Format, r *traceroute.Route) error {
	d := document{
		header: []string{"HOP", "ADDRESS", "HOST", "RTT_MS", "TYPE", "TIMEOUT"},
		value:  NewTraceReport(r),
	}
	for _, h := range r.Hops() {
		d.rows = append(d.rows, []string{
			strconv.Itoa(h.Number),
			h.Address,
			h.Host,
			strconv.Itoa(h.RTTMs),
			hopType(h),
			strconv.FormatBool(h.TimedOut),
		})
	}
	return render(w, f, d)
}

// hopType names the ICMP type that answered the hop, "*" for timed out hops
func hopType(h traceroute.Hop) string {
	if name := h.TypeName(); name != "" {
		return name
	}
	return "*"
}

// Monitor writes the samples of the series to w.
func Monitor(w io.Writer, f Format, s *monitor.Series) error {
	d := document{
		header: []string{"TIME", "IFACE", "RX_BPS", "TX_BPS", "RX_AVG_BPS", "TX_AVG_BPS"},
		value:  NewMonitorReport(s),
	}
	for _, smp := range s.Samples() {
		d.rows = append(d.rows, []string{
			smp.Time.Format(time.RFC3339Nano),
			smp.Iface,
			formatRate(smp.RxRateBps),
			formatRate(smp.TxRateBps),
			formatRate(smp.RxAvgBps),
			formatRate(smp.TxAvgBps),
		})
	}
	return render(w, f, d)
}

func formatRate(bps float64) string {
	return strconv.FormatFloat(bps, 'f', 2, 64)
}

func render(w io.Writer, f Format, d document) error {
	switch f.orDefault() {
	case FormatTable:
		return writeTable(w, d)
	case FormatCSV:
		return writeCSV(w, d)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d.value); err != nil {
			return fmt.Errorf("failed to encode json report: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d.value); err != nil {
			return fmt.Errorf("failed to encode yaml report: %w", err)
		}
		return enc.Close()
	default:
		return f.Validate()
	}
}

func writeTable(w io.Writer, d document) error {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, strings.Join(d.header, "\t")); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	for _, row := range d.rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return fmt.Errorf("failed to write table: %w", err)
		}
	}
	return tw.Flush()
}

func writeCSV(w io.Writer, d document) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.header); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	if err := cw.WriteAll(d.rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
