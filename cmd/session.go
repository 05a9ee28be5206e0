// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/telekom/wirefish/internal/logger"
	"github.com/telekom/wirefish/pkg/config"
	"github.com/telekom/wirefish/pkg/report"
	"github.com/telekom/wirefish/pkg/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// session holds what a command needs while it runs
type session struct {
	cfg       *config.Config
	telemetry telemetry.Provider
	stdout    io.Writer
	span      trace.Span
	stop      context.CancelFunc
}

// newSession loads and validates the configuration and sets up logging, telemetry and signal handling.
// The returned context is cancelled on SIGINT or SIGTERM.
func newSession(cmd *cobra.Command, version string, mode config.Mode, args []string) (context.Context, *session, error) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	ctx = logger.IntoContext(ctx, logger.FromContext(ctx))
	log := logger.FromContext(ctx)

	cfg, err := loadConfig(cmd, mode, args)
	if err != nil {
		stop()
		return nil, nil, err
	}
	if err = cfg.Validate(ctx); err != nil {
		stop()
		return nil, nil, err
	}

	tel := telemetry.New(cfg.Telemetry, version)
	if cfg.HasTelemetry() {
		if err = tel.InitTracing(ctx); err != nil {
			stop()
			return nil, nil, err
		}
	}
	if err = telemetry.RegisterBuildInfo(tel.GetRegistry(), version, string(mode)); err != nil {
		stop()
		return nil, nil, err
	}

	ctx, span := otel.GetTracerProvider().Tracer("wirefish.cmd").Start(ctx, string(mode),
		trace.WithAttributes(attribute.String("target", cfg.Target)),
	)
	log.DebugContext(ctx, "Starting run", "mode", mode, "target", cfg.Target)

	return ctx, &session{
		cfg:       cfg,
		telemetry: tel,
		stdout:    cmd.OutOrStdout(),
		span:      span,
		stop:      stop,
	}, nil
}

// register adds the metrics of an engine to the registry if it exposes any
func (s *session) register(engine any) error {
	if c, ok := engine.(telemetry.Collector); ok {
		return s.telemetry.Register(c)
	}
	return nil
}

// write renders the report to the configured output
func (s *session) write(render func(w io.Writer, f report.Format) error) error {
	return report.WriteTo(s.cfg.Output.File, s.stdout, func(w io.Writer) error {
		return render(w, s.cfg.Output.Format)
	})
}

// close ends the run span, writes the metrics file and shuts down the tracing.
// runErr is the outcome of the run and is returned joined with any close failure.
func (s *session) close(ctx context.Context, runErr error) error {
	defer s.stop()
	if runErr != nil {
		s.span.RecordError(runErr)
		s.span.SetStatus(codes.Error, runErr.Error())
	}
	s.span.End()

	ctx = context.WithoutCancel(ctx)
	return errors.Join(runErr, s.telemetry.WriteMetrics(ctx), s.telemetry.Shutdown(ctx))
}
