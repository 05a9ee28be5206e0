// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package scanner classifies TCP ports of a single host as open, closed or filtered.
//
// Ports are probed strictly one after another in ascending order with a TCP
// connect bounded by a timeout, so a scan never takes longer than
// portCount × timeout plus the initial name resolution.
package scanner

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/telekom/wirefish/internal/helper"
	"github.com/telekom/wirefish/internal/logger"
	"github.com/telekom/wirefish/internal/netutil"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var _ Client = (*TCPClient)(nil)

// Client is able to scan the TCP ports of a target.
//
//go:generate go tool moq -out client_moq.go . Client
type Client interface {
	// Scan probes every port of the range and returns one result per port.
	// The returned table is owned by the caller, who must release it after use.
	Scan(ctx context.Context, target string, opts *Options) (*Table, error)
}

// TCPClient scans ports with full TCP connects.
type TCPClient struct {
	resolver netutil.Resolver
	connect  func(ctx context.Context, addr *net.TCPAddr, timeout time.Duration) (net.Conn, error)
	metrics  metrics
}

// NewClient creates a new TCP port scanner using the system resolver.
func NewClient() *TCPClient {
	return &TCPClient{
		resolver: netutil.NewResolver(),
		connect:  netutil.ConnectTCP,
		metrics:  newMetrics(),
	}
}

// Scan resolves the target once and probes each port of the range in ascending order.
//
// An invalid range fails with [ErrInvalidRange] before anything touches the network
// and a failed resolution fails with a [*netutil.DNSError]. Failures of single probes
// never abort the scan; they are recorded as filtered ports.
// When ctx is cancelled between two probes, the ports scanned so far are returned
// together with the context's error.
func (c *TCPClient) Scan(ctx context.Context, target string, opts *Options) (*Table, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	tracer := trace.SpanFromContext(ctx).TracerProvider().Tracer("scanner.TCPClient")
	ctx, span := tracer.Start(ctx, "Scan", trace.WithAttributes(
		attribute.String("scanner.target", target),
		attribute.Int("scanner.ports.from", opts.PortFrom),
		attribute.Int("scanner.ports.to", opts.PortTo),
		attribute.Stringer("scanner.timeout", opts.timeout()),
	))
	defer span.End()
	log := logger.FromContext(ctx).With("target", target)

	addr, err := netutil.Resolve(ctx, c.resolver, target)
	if err != nil {
		return nil, helper.WrapError(ctx, err, "failed to resolve target %s", target)
	}
	span.SetAttributes(attribute.Stringer("scanner.address", addr))
	log.DebugContext(ctx, "Starting TCP scan", "address", addr, "from", opts.PortFrom, "to", opts.PortTo)

	table := newTable(target, addr.String(), opts.count())
	for port := opts.PortFrom; port <= opts.PortTo; port++ {
		if err := ctx.Err(); err != nil {
			log.WarnContext(ctx, "Scan interrupted", "scanned", table.Len(), "error", err)
			c.metrics.Set(table)
			return table, err
		}

		res := c.probe(ctx, addr, port, opts.timeout())
		table.append(res)
		c.metrics.observe(target, res)
		span.AddEvent("port probed", trace.WithAttributes(
			attribute.Int("scanner.port", res.Port),
			attribute.Stringer("scanner.state", res.State),
			attribute.Int("scanner.latency_ms", res.LatencyMs),
		))
	}

	c.metrics.Set(table)
	counts := table.Counts()
	log.InfoContext(ctx, "TCP scan finished",
		"ports", table.Len(),
		"open", counts[StateOpen],
		"closed", counts[StateClosed],
		"filtered", counts[StateFiltered],
	)
	return table, nil
}

// probe runs a single connect attempt and classifies its outcome.
// Open and closed ports carry the measured latency, filtered ones [LatencyUnmeasured].
func (c *TCPClient) probe(ctx context.Context, addr netutil.Address, port int, timeout time.Duration) Result {
	log := logger.FromContext(ctx).With("port", port)

	start := time.Now()
	conn, err := c.connect(ctx, addr.TCPAddr(port), timeout)
	elapsed := int(time.Since(start).Milliseconds())

	switch {
	case err == nil:
		if cErr := conn.Close(); cErr != nil {
			log.DebugContext(ctx, "Failed to close probe connection", "error", cErr)
		}
		log.DebugContext(ctx, "Port open", "latencyMs", elapsed)
		return Result{Port: port, State: StateOpen, LatencyMs: elapsed}
	case errors.Is(err, netutil.ErrRefused):
		log.DebugContext(ctx, "Port closed", "latencyMs", elapsed)
		return Result{Port: port, State: StateClosed, LatencyMs: elapsed}
	case errors.Is(err, netutil.ErrFiltered):
		log.DebugContext(ctx, "Port filtered, connect timed out")
		return Result{Port: port, State: StateFiltered, LatencyMs: LatencyUnmeasured}
	default:
		log.DebugContext(ctx, "Port filtered, connect failed", "error", err)
		return Result{Port: port, State: StateFiltered, LatencyMs: LatencyUnmeasured}
	}
}

// GetMetricCollectors returns the prometheus collectors of the scanner
func (c *TCPClient) GetMetricCollectors() []prometheus.Collector {
	return c.metrics.GetCollectors()
}
