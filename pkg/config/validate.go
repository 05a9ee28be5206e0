// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/telekom/wirefish/internal/logger"
)

// maxTargetLength is the maximum length of a DNS name
const maxTargetLength = 253

// Validate validates the configuration for its mode
func (c *Config) Validate(ctx context.Context) (err error) {
	log := logger.FromContext(ctx)

	switch c.Mode {
	case ModeScan:
		err = errors.Join(err, c.validateTarget(ctx))
		if vErr := c.ScanOptions().Validate(); vErr != nil {
			log.ErrorContext(ctx, "The port range is invalid", "from", c.Ports.From, "to", c.Ports.To)
			err = errors.Join(err, vErr)
		}
		if c.Timeout < 0 {
			log.ErrorContext(ctx, "The connect timeout should be equal or above 0", "timeout", c.Timeout)
			err = errors.Join(err, fmt.Errorf("%w: connect timeout %s", ErrInvalidTimeout, c.Timeout))
		}
	case ModeTrace:
		err = errors.Join(err, c.validateTarget(ctx))
		if vErr := c.TraceOptions().Validate(); vErr != nil {
			log.ErrorContext(ctx, "The TTL range is invalid", "start", c.TTL.Start, "max", c.TTL.Max)
			err = errors.Join(err, vErr)
		}
		if c.HopTimeout < 0 {
			log.ErrorContext(ctx, "The hop timeout should be equal or above 0", "hopTimeout", c.HopTimeout)
			err = errors.Join(err, fmt.Errorf("%w: hop timeout %s", ErrInvalidTimeout, c.HopTimeout))
		}
	case ModeMonitor:
		if vErr := c.MonitorOptions().Validate(); vErr != nil {
			log.ErrorContext(ctx, "The monitor configuration is invalid", "error", vErr)
			err = errors.Join(err, vErr)
		}
		if c.Monitor.Listen != "" {
			if _, _, sErr := net.SplitHostPort(c.Monitor.Listen); sErr != nil {
				log.ErrorContext(ctx, "The listen address must be host:port", "listen", c.Monitor.Listen)
				err = errors.Join(err, fmt.Errorf("%w: %w", ErrInvalidListenAddress, sErr))
			}
		}
	default:
		log.ErrorContext(ctx, "Unknown mode", "mode", c.Mode)
		err = errors.Join(err, fmt.Errorf("%w: %q", ErrInvalidMode, c.Mode))
	}

	if vErr := c.Output.Format.Validate(); vErr != nil {
		log.ErrorContext(ctx, "The output format is invalid", "format", c.Output.Format)
		err = errors.Join(err, vErr)
	}

	if c.HasTelemetry() {
		if vErr := c.Telemetry.Validate(ctx); vErr != nil {
			log.ErrorContext(ctx, "The telemetry configuration is invalid")
			err = errors.Join(err, vErr)
		}
	}

	if err != nil {
		return fmt.Errorf("validation of configuration failed: %w", err)
	}
	return nil
}

func (c *Config) validateTarget(ctx context.Context) error {
	log := logger.FromContext(ctx)
	if c.Target == "" {
		log.ErrorContext(ctx, "A target is required")
		return fmt.Errorf("%w: target must not be empty", ErrInvalidTarget)
	}
	if len(c.Target) > maxTargetLength {
		log.ErrorContext(ctx, "The target is too long", "length", len(c.Target))
		return fmt.Errorf("%w: target exceeds %d characters", ErrInvalidTarget, maxTargetLength)
	}
	return nil
}
