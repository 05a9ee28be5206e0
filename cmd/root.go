// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/telekom/wirefish/internal/monitor"
	"github.com/telekom/wirefish/internal/netutil"
	"github.com/telekom/wirefish/internal/scanner"
	"github.com/telekom/wirefish/internal/traceroute"
)

const permissionHint = "hint: run with sudo or grant CAP_NET_RAW (sudo setcap cap_net_raw+ep $(command -v wirefish))"

// monitorRunner is the part of the interface monitor the monitor command uses
type monitorRunner interface {
	Run(ctx context.Context, opts *monitor.Options) (*monitor.Series, error)
}

// engines creates the probing engines of the commands
type engines struct {
	scanner func() scanner.Client
	tracer  func() traceroute.Client
	monitor func() (monitorRunner, error)
}

func defaultEngines() engines {
	return engines{
		scanner: func() scanner.Client { return scanner.NewClient() },
		tracer:  func() traceroute.Client { return traceroute.NewClient() },
		monitor: func() (monitorRunner, error) {
			m, err := monitor.New()
			if err != nil {
				return nil, err
			}
			return m, nil
		},
	}
}

// NewCmdRoot creates a new root command
func NewCmdRoot(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wirefish",
		Short: "wirefish, the network reconnaissance tool",
		Long: "wirefish scans TCP ports, traces routes with ICMP echo requests and watches the traffic of network interfaces.\n" +
			"Reports are written as aligned table, CSV, JSON or YAML.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP(flagConfig, "c", "", "config file (default is $HOME/.wirefish.yaml)")
	rootCmd.PersistentFlags().StringP(flagFormat, "f", "table", "report format, one of table, csv, json, yaml")
	rootCmd.PersistentFlags().Bool(flagJSON, false, "shorthand for --format json")
	rootCmd.PersistentFlags().Bool(flagCSV, false, "shorthand for --format csv")
	rootCmd.PersistentFlags().StringP(flagOutput, "o", "", "file the report is written to (default is stdout)")
	rootCmd.PersistentFlags().String(flagMetricsFile, "", "file the prometheus metrics are written to after the run")
	rootCmd.MarkFlagsMutuallyExclusive(flagJSON, flagCSV)

	return rootCmd
}

// Execute adds all child commands to the root command
// and executes the cmd tree
func Execute(version string) {
	cmd := BuildCmd(version)

	if err := cmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// BuildCmd returns the root command with all subcommands
func BuildCmd(version string) *cobra.Command {
	return buildCmd(version, defaultEngines())
}

func buildCmd(version string, e engines) *cobra.Command {
	cmd := NewCmdRoot(version)
	cmd.AddCommand(
		NewCmdScan(version, e.scanner),
		NewCmdTrace(version, e.tracer),
		NewCmdMonitor(version, e.monitor),
	)
	return cmd
}

// printError writes the one line diagnostic of a failed run
func printError(w io.Writer, err error) {
	_, _ = fmt.Fprintln(w, "Error:", err)
	if errors.Is(err, netutil.ErrPermissionDenied) {
		_, _ = fmt.Fprintln(w, permissionHint)
	}
}
