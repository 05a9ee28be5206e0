// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/telekom/wirefish/internal/traceroute"
	"github.com/telekom/wirefish/pkg/config"
	"github.com/telekom/wirefish/pkg/report"
)

// NewCmdTrace creates the trace command
func NewCmdTrace(version string, newClient func() traceroute.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace [target]",
		Short: "Trace the route to a host with ICMP echo requests",
		Long: "Trace sends one ICMP echo request per TTL over a raw socket and reports the router\n" +
			"that answered each hop. It needs root or the CAP_NET_RAW capability.",
		Example: "  sudo wirefish trace example.com --ttl 1-30 --hop-timeout 1s",
		Args:    cobra.MaximumNArgs(1),
		RunE:    runTrace(version, newClient),
	}

	cmd.Flags().String(flagTTL, "1-30", "inclusive TTL range to trace, as start-max")
	cmd.Flags().Duration(flagHopTimeout, traceroute.DefaultHopTimeout, "time to wait for the answer of each hop")

	return cmd
}

func runTrace(version string, newClient func() traceroute.Client) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		ctx, s, err := newSession(cmd, version, config.ModeTrace, args)
		if err != nil {
			return err
		}
		defer func() { err = s.close(ctx, err) }()

		client := newClient()
		if err = s.register(client); err != nil {
			return err
		}

		route, err := client.Run(ctx, s.cfg.Target, s.cfg.TraceOptions())
		if route == nil {
			return err
		}
		defer route.Release()

		if wErr := s.write(func(w io.Writer, f report.Format) error {
			return report.Trace(w, f, route)
		}); wErr != nil {
			return wErr
		}
		return err
	}
}
