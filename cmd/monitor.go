// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"
	"github.com/telekom/wirefish/internal/logger"
	"github.com/telekom/wirefish/internal/monitor"
	"github.com/telekom/wirefish/pkg/api"
	"github.com/telekom/wirefish/pkg/config"
	"github.com/telekom/wirefish/pkg/report"
	"golang.org/x/sync/errgroup"
)

// NewCmdMonitor creates the monitor command
func NewCmdMonitor(version string, newMonitor func() (monitorRunner, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Watch the traffic rates of a network interface",
		Long: "Monitor samples the byte counters of an interface and reports the receive and transmit\n" +
			"rates, plus their average over the last ten samples. It runs until interrupted or\n" +
			"until the duration is over. With --listen the samples and metrics are served over HTTP.",
		Example: "  wirefish monitor --iface eth0 --interval 1s --duration 1m --listen :9100",
		Args:    cobra.NoArgs,
		RunE:    runMonitor(version, newMonitor),
	}

	cmd.Flags().String(flagIface, "", "interface to watch (default is the first non-loopback interface)")
	cmd.Flags().Duration(flagInterval, monitor.DefaultInterval, "time between two samples")
	cmd.Flags().Duration(flagDuration, 0, "how long to watch, 0 watches until interrupted")
	cmd.Flags().String(flagListen, "", "address to serve the samples and metrics on, as host:port")

	return cmd
}

func runMonitor(version string, newMonitor func() (monitorRunner, error)) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		ctx, s, err := newSession(cmd, version, config.ModeMonitor, args)
		if err != nil {
			return err
		}
		defer func() { err = s.close(ctx, err) }()

		m, err := newMonitor()
		if err != nil {
			return err
		}
		if err = s.register(m); err != nil {
			return err
		}

		opts := s.cfg.MonitorOptions()
		var server api.API
		if s.cfg.HasAPI() {
			store := api.NewSampleStore(api.DefaultSampleLimit)
			opts.OnSample = store.Add
			routes, rErr := api.MonitorRoutes(s.telemetry.GetRegistry(), store, version)
			if rErr != nil {
				return rErr
			}
			server = api.New(api.Config{ListeningAddress: s.cfg.Monitor.Listen})
			server.RegisterRoutes(ctx, routes...)
		}

		series, err := watch(ctx, m, opts, server)
		if series == nil {
			return err
		}
		defer series.Release()

		if wErr := s.write(func(w io.Writer, f report.Format) error {
			return report.Monitor(w, f, series)
		}); wErr != nil {
			return wErr
		}
		return err
	}
}

// watch runs the monitor and, if given, serves the api until the monitor stops.
// A failing server stops the monitor.
func watch(ctx context.Context, m monitorRunner, opts *monitor.Options, server api.API) (*monitor.Series, error) {
	if server == nil {
		return m.Run(ctx, opts)
	}

	g, gCtx := errgroup.WithContext(ctx)
	apiCtx, stopAPI := context.WithCancel(gCtx)
	defer stopAPI()

	g.Go(func() error {
		if err := server.Run(apiCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	var series *monitor.Series
	g.Go(func() error {
		defer stopAPI()
		var err error
		series, err = m.Run(gCtx, opts)
		return err
	})

	err := g.Wait()
	if err != nil {
		logger.FromContext(ctx).ErrorContext(ctx, "Monitor stopped", "error", err)
	}
	return series, err
}
