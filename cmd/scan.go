// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/telekom/wirefish/internal/scanner"
	"github.com/telekom/wirefish/pkg/config"
	"github.com/telekom/wirefish/pkg/report"
)

// NewCmdScan creates the scan command
func NewCmdScan(version string, newClient func() scanner.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [target]",
		Short: "Scan the TCP ports of a host",
		Long: "Scan probes every port of the range with a full TCP connect, one port at a time,\n" +
			"and reports each port as open, closed or filtered.",
		Example: "  wirefish scan example.com --ports 1-1024 --timeout 200ms",
		Args:    cobra.MaximumNArgs(1),
		RunE:    runScan(version, newClient),
	}

	cmd.Flags().String(flagPorts, "1-1024", "inclusive port range to scan, as from-to")
	cmd.Flags().Duration(flagTimeout, scanner.DefaultTimeout, "connect timeout per port")

	return cmd
}

func runScan(version string, newClient func() scanner.Client) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		ctx, s, err := newSession(cmd, version, config.ModeScan, args)
		if err != nil {
			return err
		}
		defer func() { err = s.close(ctx, err) }()

		client := newClient()
		if err = s.register(client); err != nil {
			return err
		}

		table, err := client.Scan(ctx, s.cfg.Target, s.cfg.ScanOptions())
		if table == nil {
			return err
		}
		defer table.Release()

		if wErr := s.write(func(w io.Writer, f report.Format) error {
			return report.Scan(w, f, table)
		}); wErr != nil {
			return wErr
		}
		return err
	}
}
