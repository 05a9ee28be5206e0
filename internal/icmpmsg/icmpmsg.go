// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package icmpmsg builds ICMP Echo Requests and inspects received IPv4 ICMP datagrams.
//
// The checksum is the RFC 1071 Internet checksum and is computed by hand so the
// exact wire bytes are under our control: routers and hosts validate it and
// silently drop probes that carry a wrong one.
package icmpmsg

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/net/ipv4"
)

// HeaderLen is the length of an ICMP Echo header.
const HeaderLen = 8

// Byte offsets inside the ICMP Echo header.
const (
	offType     = 0
	offCode     = 1
	offChecksum = 2
	offID       = 4
	offSeq      = 6
)

const (
	// ipHeaderLengthMask extracts the header length from the first byte of an IPv4 header.
	ipHeaderLengthMask = 0x0F
	// wordSize converts the IPv4 header length from 32 bit words to bytes.
	wordSize = 4
)

// ErrTruncated is returned when a datagram is too short to contain the headers it claims to.
var ErrTruncated = errors.New("truncated datagram")

// BuildEchoRequest returns an ICMP Echo Request with the given identifier,
// sequence number and payload. The checksum covers header and payload.
func BuildEchoRequest(id, seq uint16, payload []byte) []byte {
	b := make([]byte, HeaderLen+len(payload))
	b[offType] = byte(ipv4.ICMPTypeEcho)
	b[offCode] = 0
	// The checksum field must be zero while the checksum is computed.
	binary.BigEndian.PutUint16(b[offChecksum:], 0)
	binary.BigEndian.PutUint16(b[offID:], id)
	binary.BigEndian.PutUint16(b[offSeq:], seq)
	copy(b[HeaderLen:], payload)

	binary.BigEndian.PutUint16(b[offChecksum:], Checksum(b))
	return b
}

// Checksum computes the RFC 1071 one's complement checksum of b.
// An odd trailing byte is padded with a zero byte.
func Checksum(b []byte) uint16 {
	var sum uint32
	for i := 0; i+1 < len(b); i += 2 {
		sum += uint32(b[i])<<8 | uint32(b[i+1])
	}
	if len(b)%2 == 1 {
		sum += uint32(b[len(b)-1]) << 8
	}
	for sum>>16 != 0 {
		sum = sum&0xffff + sum>>16
	}
	return ^uint16(sum) // #nosec G115 // folded into 16 bits above
}

// VerifyChecksum reports whether the ICMP message msg carries a valid checksum.
// Summing a message together with its own checksum yields zero.
func VerifyChecksum(msg []byte) bool {
	return len(msg) >= HeaderLen && Checksum(msg) == 0
}

// Message locates the ICMP message inside an IPv4 datagram by
// reading the header length field of the IP header.
func Message(datagram []byte) ([]byte, error) {
	if len(datagram) < ipv4.HeaderLen {
		return nil, fmt.Errorf("%w: %d bytes is shorter than an IPv4 header", ErrTruncated, len(datagram))
	}

	hlen := int(datagram[0]&ipHeaderLengthMask) * wordSize
	if hlen < ipv4.HeaderLen {
		return nil, fmt.Errorf("%w: IPv4 header length %d is below the minimum", ErrTruncated, hlen)
	}
	if len(datagram) < hlen+HeaderLen {
		return nil, fmt.Errorf("%w: %d bytes cannot hold a %d byte IP header and an ICMP header", ErrTruncated, len(datagram), hlen)
	}
	return datagram[hlen:], nil
}

// ParseResponseType returns the ICMP type of an IPv4 datagram.
// The received checksum is not validated; use [VerifyChecksum] for that.
func ParseResponseType(datagram []byte) (ipv4.ICMPType, error) {
	msg, err := Message(datagram)
	if err != nil {
		return 0, err
	}
	return ipv4.ICMPType(msg[offType]), nil
}

// Echo holds the identifying fields of an ICMP Echo header.
type Echo struct {
	Type ipv4.ICMPType
	ID   uint16
	Seq  uint16
}

// ParseEcho reads the type, identifier and sequence number of an ICMP message.
// It only makes sense for Echo Request and Echo Reply messages.
func ParseEcho(msg []byte) (Echo, error) {
	if len(msg) < HeaderLen {
		return Echo{}, fmt.Errorf("%w: %d bytes is shorter than an ICMP echo header", ErrTruncated, len(msg))
	}
	return Echo{
		Type: ipv4.ICMPType(msg[offType]),
		ID:   binary.BigEndian.Uint16(msg[offID:]),
		Seq:  binary.BigEndian.Uint16(msg[offSeq:]),
	}, nil
}
