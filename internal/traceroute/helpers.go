// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"os"

	"github.com/telekom/wirefish/internal/icmpmsg"
	"github.com/telekom/wirefish/internal/logger"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

// echoID returns the identifier used for all echo requests of this process.
func echoID() uint16 {
	return uint16(os.Getpid() & 0xffff) // #nosec G115 // masked to 16 bits
}

// reply is an answer to one of our probes.
type reply struct {
	typ        ipv4.ICMPType
	checksumOK bool
}

// matchReply checks whether the IPv4 datagram answers the echo request
// with the given identifier and sequence number.
//
// An Echo Reply must carry the identifier and sequence itself, while
// Time Exceeded and Destination Unreachable messages must quote our
// request. Everything else, including our own request looped back by
// the kernel, does not match.
func matchReply(datagram []byte, id, seq uint16) (reply, bool) {
	msg, err := icmpmsg.Message(datagram)
	if err != nil {
		return reply{}, false
	}
	typ := ipv4.ICMPType(msg[0])

	switch typ {
	case ipv4.ICMPTypeEchoReply:
		echo, err := icmpmsg.ParseEcho(msg)
		if err != nil || echo.ID != id || echo.Seq != seq {
			return reply{}, false
		}
	case ipv4.ICMPTypeTimeExceeded, ipv4.ICMPTypeDestinationUnreachable:
		if !quotesEcho(msg, id, seq) {
			return reply{}, false
		}
	default:
		return reply{}, false
	}

	return reply{typ: typ, checksumOK: icmpmsg.VerifyChecksum(msg)}, true
}

// quotesEcho checks whether an ICMP error message quotes
// the echo request with the given identifier and sequence number.
func quotesEcho(msg []byte, id, seq uint16) bool {
	parsed, err := icmp.ParseMessage(ipv4.ICMPTypeEcho.Protocol(), msg)
	if err != nil {
		return false
	}

	var quoted []byte
	switch body := parsed.Body.(type) {
	case *icmp.TimeExceeded:
		quoted = body.Data
	case *icmp.DstUnreach:
		quoted = body.Data
	default:
		return false
	}

	inner, err := icmpmsg.Message(quoted)
	if err != nil {
		return false
	}
	echo, err := icmpmsg.ParseEcho(inner)
	if err != nil {
		return false
	}
	return echo.Type == ipv4.ICMPTypeEcho && echo.ID == id && echo.Seq == seq
}

// logHops logs the hops in a structured format.
func logHops(ctx context.Context, hops []Hop) {
	log := logger.FromContext(ctx)
	for _, hop := range hops {
		log.DebugContext(ctx, hop.String())
	}
}
