// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/telekom/wirefish/internal/helper"
	"github.com/telekom/wirefish/internal/icmpmsg"
	"github.com/telekom/wirefish/internal/logger"
	"github.com/telekom/wirefish/internal/netutil"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// mtuSize is the size of the receive buffer for ICMP datagrams.
const mtuSize = 1500

var _ Client = (*ICMPClient)(nil)

// Client is able to run a traceroute to a target.
//
//go:generate go tool moq -out client_moq.go . Client
type Client interface {
	// Run executes the traceroute to the target with the specified options.
	// The returned route is owned by the caller, who must release it after use.
	Run(ctx context.Context, target string, opts *Options) (*Route, error)
}

// ICMPClient traces routes with ICMP Echo Requests over a raw socket.
type ICMPClient struct {
	resolver netutil.Resolver
	listen   func() (packetConn, error)
	// id is the identifier of all echo requests sent by the client.
	id      uint16
	metrics metrics
}

// NewClient creates a new traceroute client using the system resolver.
func NewClient() *ICMPClient {
	return &ICMPClient{
		resolver: netutil.NewResolver(),
		listen:   listenICMP,
		id:       echoID(),
		metrics:  newMetrics(),
	}
}

// Run resolves the target once and probes every TTL of the range in ascending
// order until the target answers with an Echo Reply or the range is exhausted.
//
// An invalid range, a failed resolution or a failure to open the raw socket
// fail the whole run before any probe is sent. A failure to send a probe is
// fatal as well, while a hop that does not answer in time is recorded as
// timed out. When ctx is cancelled between two hops, the hops probed so far
// are returned together with the context's error.
func (c *ICMPClient) Run(ctx context.Context, target string, opts *Options) (*Route, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	tracer := trace.SpanFromContext(ctx).TracerProvider().Tracer("traceroute.ICMPClient")
	ctx, span := tracer.Start(ctx, "Run", trace.WithAttributes(
		attribute.String("traceroute.target", target),
		attribute.Int("traceroute.ttl.start", opts.TTLStart),
		attribute.Int("traceroute.ttl.max", opts.TTLMax),
		attribute.Stringer("traceroute.hop_timeout", opts.hopTimeout()),
	))
	defer span.End()
	log := logger.FromContext(ctx).With("target", target)

	addr, err := netutil.Resolve(ctx, c.resolver, target)
	if err != nil {
		return nil, helper.WrapError(ctx, err, "failed to resolve target %s", target)
	}
	span.SetAttributes(attribute.Stringer("traceroute.address", addr))

	conn, err := c.listen()
	if err != nil {
		return nil, helper.WrapError(ctx, err, "failed to open ICMP socket")
	}
	defer func() {
		if cErr := conn.Close(); cErr != nil {
			log.DebugContext(ctx, "Failed to close ICMP socket", "error", cErr)
		}
	}()

	log.DebugContext(ctx, "Starting ICMP trace", "address", addr, "start", opts.TTLStart, "max", opts.TTLMax)
	route := newRoute(target, addr.String(), opts.count())
	buf := make([]byte, mtuSize)
	for ttl := opts.TTLStart; ttl <= opts.TTLMax; ttl++ {
		if err := ctx.Err(); err != nil {
			log.WarnContext(ctx, "Trace interrupted", "hops", route.Len(), "error", err)
			c.metrics.Set(route)
			return route, err
		}

		hop, err := c.probe(ctx, conn, addr, ttl, opts.hopTimeout(), buf)
		if err != nil {
			return nil, err
		}
		route.append(hop)
		c.metrics.observe(target, hop)

		if hop.Reached() {
			log.DebugContext(ctx, "Target reached", "ttl", ttl)
			break
		}
	}

	c.metrics.Set(route)
	logHops(ctx, route.Hops())
	log.InfoContext(ctx, "ICMP trace finished", "hops", route.Len(), "reached", route.Reached())
	return route, nil
}

// probe sends the echo request for one TTL and waits for its answer until the timeout.
// Only failures to configure the socket or to send the request are returned as errors.
func (c *ICMPClient) probe(ctx context.Context, conn packetConn, addr netutil.Address, ttl int, timeout time.Duration, buf []byte) (Hop, error) {
	span := trace.SpanFromContext(ctx)
	log := logger.FromContext(ctx).With("ttl", ttl)

	if err := conn.SetTTL(ttl); err != nil {
		return Hop{}, helper.WrapError(ctx, err, "failed to set TTL %d", ttl)
	}

	seq := uint16(ttl) // #nosec G115 // ttl is validated to [1,255]
	req := icmpmsg.BuildEchoRequest(c.id, seq, nil)

	start := time.Now()
	if _, err := conn.WriteTo(req, addr.IPAddr()); err != nil {
		return Hop{}, helper.WrapError(ctx, err, "failed to send echo request with TTL %d", ttl)
	}
	deadline := start.Add(timeout)

	for {
		n, src, err := conn.ReadFrom(deadline, buf)
		if err != nil {
			// A failed read must not abort the run, the hop is just unanswered.
			if !isTimeout(err) {
				log.WarnContext(ctx, "Failed to read ICMP datagram", "error", err)
			}
			hop := timedOutHop(ttl)
			log.DebugContext(ctx, "No answer within timeout", "timeout", timeout)
			span.AddEvent("hop timed out", trace.WithAttributes(
				attribute.Int("traceroute.hop", ttl),
				attribute.Stringer("traceroute.hop.timeout", timeout),
			))
			return hop, nil
		}

		rep, ok := matchReply(buf[:n], c.id, seq)
		if !ok {
			log.DebugContext(ctx, "Ignoring unrelated ICMP datagram", "from", src)
			continue
		}

		hop := Hop{
			Number:     ttl,
			Address:    src.String(),
			Host:       src.String(),
			RTTMs:      int(time.Since(start).Milliseconds()),
			ICMPType:   rep.typ,
			ChecksumOK: rep.checksumOK,
		}
		if !hop.ChecksumOK {
			log.DebugContext(ctx, "Answer has an invalid checksum", "from", src)
		}
		log.DebugContext(ctx, "Received answer", "from", src, "type", rep.typ, "rttMs", hop.RTTMs)
		span.AddEvent("hop answered", trace.WithAttributes(
			attribute.Int("traceroute.hop", ttl),
			attribute.Stringer("traceroute.hop.address", src),
			attribute.Stringer("traceroute.hop.type", rep.typ),
			attribute.Int("traceroute.hop.rtt_ms", hop.RTTMs),
			attribute.Bool("traceroute.target.reached", hop.Reached()),
		))
		return hop, nil
	}
}

// GetMetricCollectors returns the prometheus collectors of the traceroute
func (c *ICMPClient) GetMetricCollectors() []prometheus.Collector {
	return c.metrics.GetCollectors()
}
