// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package icmpmsg

import (
	"encoding/binary"
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

func TestChecksum(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want uint16
	}{
		{
			// Worked example from RFC 1071 section 3.
			name: "rfc 1071 example",
			in:   []byte{0x00, 0x01, 0xf2, 0x03, 0xf4, 0xf5, 0xf6, 0xf7},
			want: 0x220d,
		},
		{
			name: "odd length is zero padded",
			in:   []byte{0x01},
			want: 0xfeff,
		},
		{
			name: "carry is folded repeatedly",
			in:   []byte{0xff, 0xff, 0xff, 0xff, 0x00, 0x01},
			want: 0xfffe,
		},
		{
			name: "empty input",
			in:   nil,
			want: 0xffff,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Checksum(tt.in), "Checksum(% x)", tt.in)
		})
	}
}

func TestBuildEchoRequest(t *testing.T) {
	tests := []struct {
		name    string
		id      uint16
		seq     uint16
		payload []byte
	}{
		{name: "empty payload", id: 0x1234, seq: 1},
		{name: "even payload", id: 0xbeef, seq: 17, payload: []byte("wirefish probe!!")},
		{name: "odd payload", id: 0x0001, seq: 255, payload: []byte("odd")},
		{name: "max values", id: 0xffff, seq: 0xffff, payload: make([]byte, 56)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildEchoRequest(tt.id, tt.seq, tt.payload)
			require.Len(t, got, HeaderLen+len(tt.payload))

			// x/net/icmp must produce the exact same bytes on the wire.
			want, err := (&icmp.Message{
				Type: ipv4.ICMPTypeEcho,
				Code: 0,
				Body: &icmp.Echo{ID: int(tt.id), Seq: int(tt.seq), Data: tt.payload},
			}).Marshal(nil)
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("BuildEchoRequest() mismatch (-want +got):\n%s", diff)
			}

			// gopacket decodes it independently.
			var layer layers.ICMPv4
			require.NoError(t, layer.DecodeFromBytes(got, gopacket.NilDecodeFeedback))
			assert.Equal(t, layers.CreateICMPv4TypeCode(layers.ICMPv4TypeEchoRequest, 0), layer.TypeCode)
			assert.Equal(t, uint8(0), layer.TypeCode.Code())
			assert.Equal(t, tt.id, layer.Id)
			assert.Equal(t, tt.seq, layer.Seq)
			assert.Equal(t, binary.BigEndian.Uint16(got[offChecksum:]), layer.Checksum)

			assert.True(t, VerifyChecksum(got))
		})
	}
}

func TestBuildEchoRequest_checksumIsReproducible(t *testing.T) {
	msg := BuildEchoRequest(0x4242, 9, []byte{0xde, 0xad, 0xbe, 0xef, 0x01})
	embedded := binary.BigEndian.Uint16(msg[offChecksum:])

	zeroed := append([]byte(nil), msg...)
	binary.BigEndian.PutUint16(zeroed[offChecksum:], 0)
	assert.Equal(t, embedded, Checksum(zeroed))
}

func TestBuildEchoRequest_bitFlipChangesChecksum(t *testing.T) {
	msg := BuildEchoRequest(0x0a0b, 3, []byte("payload"))
	zeroed := append([]byte(nil), msg...)
	binary.BigEndian.PutUint16(zeroed[offChecksum:], 0)
	original := Checksum(zeroed)

	for i := range zeroed {
		if i == offChecksum || i == offChecksum+1 {
			continue
		}
		for bit := 0; bit < 8; bit++ {
			flipped := append([]byte(nil), zeroed...)
			flipped[i] ^= 1 << bit
			assert.NotEqual(t, original, Checksum(flipped), "flipping bit %d of byte %d went unnoticed", bit, i)
		}
	}

	corrupted := append([]byte(nil), msg...)
	corrupted[len(corrupted)-1] ^= 0x80
	assert.False(t, VerifyChecksum(corrupted))
}

// datagram serializes an IPv4 header followed by the given ICMP message.
func datagram(t *testing.T, typ layers.ICMPv4TypeCode, id, seq uint16, payload []byte) []byte {
	t.Helper()
	buf := gopacket.NewSerializeBuffer()
	err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true},
		&layers.IPv4{
			Version:  4,
			TTL:      64,
			Protocol: layers.IPProtocolICMPv4,
			SrcIP:    net.IPv4(192, 0, 2, 1),
			DstIP:    net.IPv4(192, 0, 2, 2),
		},
		&layers.ICMPv4{TypeCode: typ, Id: id, Seq: seq},
		gopacket.Payload(payload),
	)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseResponseType(t *testing.T) {
	withOptions := func() []byte {
		// IHL of 6 words: a 24 byte header with one NOP option word.
		b := make([]byte, 24+HeaderLen)
		b[0] = 0x46
		copy(b[20:24], []byte{0x01, 0x01, 0x01, 0x00})
		b[24] = byte(ipv4.ICMPTypeDestinationUnreachable)
		return b
	}

	tests := []struct {
		name    string
		in      []byte
		want    ipv4.ICMPType
		wantErr error
	}{
		{
			name: "echo reply",
			in:   datagram(t, layers.CreateICMPv4TypeCode(layers.ICMPv4TypeEchoReply, 0), 1, 1, nil),
			want: ipv4.ICMPTypeEchoReply,
		},
		{
			name: "time exceeded",
			in:   datagram(t, layers.CreateICMPv4TypeCode(layers.ICMPv4TypeTimeExceeded, 0), 0, 0, make([]byte, 28)),
			want: ipv4.ICMPTypeTimeExceeded,
		},
		{
			name: "header length field is honoured",
			in:   withOptions(),
			want: ipv4.ICMPTypeDestinationUnreachable,
		},
		{
			name:    "shorter than an ip header",
			in:      make([]byte, 19),
			wantErr: ErrTruncated,
		},
		{
			name:    "ip header without icmp header",
			in:      datagram(t, layers.CreateICMPv4TypeCode(layers.ICMPv4TypeEchoReply, 0), 1, 1, nil)[:ipv4.HeaderLen+4],
			wantErr: ErrTruncated,
		},
		{
			name:    "bogus header length",
			in:      append([]byte{0x42}, make([]byte, 30)...),
			wantErr: ErrTruncated,
		},
		{
			name:    "nil",
			in:      nil,
			wantErr: ErrTruncated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResponseType(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEcho(t *testing.T) {
	reply := datagram(t, layers.CreateICMPv4TypeCode(layers.ICMPv4TypeEchoReply, 0), 0x77aa, 12, []byte("pong"))
	msg, err := Message(reply)
	require.NoError(t, err)

	got, err := ParseEcho(msg)
	require.NoError(t, err)
	assert.Equal(t, Echo{Type: ipv4.ICMPTypeEchoReply, ID: 0x77aa, Seq: 12}, got)
	assert.True(t, VerifyChecksum(msg), "gopacket computed checksum must validate")

	_, err = ParseEcho(msg[:HeaderLen-1])
	assert.ErrorIs(t, err, ErrTruncated)
}
