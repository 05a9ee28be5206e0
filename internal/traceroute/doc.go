// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package traceroute discovers the path to a host with ICMP Echo Requests
// sent with an increasing IP Time-To-Live.
//
// It exposes a [Client] for running a traceroute against a single target with
// configurable [Options]. A run resolves the target once, opens one raw ICMP
// socket and then, for every TTL in the range, sends one Echo Request whose
// sequence number is the TTL and waits a bounded time for the answer. Routers
// answer with Time Exceeded, the target with an Echo Reply, which ends the run.
//
// Hops are probed strictly one after another, so the resulting [Route] is
// always in ascending TTL order. A hop that does not answer in time is
// recorded as timed out and the run continues with the next TTL.
//
// Opening the raw socket requires root or the CAP_NET_RAW capability.
//
// Typical usage:
//
//	client := traceroute.NewClient()
//	route, err := client.Run(ctx, "example.com", &traceroute.Options{TTLStart: 1, TTLMax: 30})
//	defer route.Release()
package traceroute
