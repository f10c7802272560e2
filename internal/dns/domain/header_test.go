package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeader_FlagsRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		hdr   Header
		flags uint16
	}{
		{
			name:  "plain query with RD",
			hdr:   Header{ID: 1, RecursionDesired: true},
			flags: 0x0100,
		},
		{
			name:  "authoritative response",
			hdr:   Header{ID: 2, Response: true, Authoritative: true},
			flags: 0x8400,
		},
		{
			name:  "recursive response",
			hdr:   Header{ID: 3, Response: true, RecursionDesired: true, RecursionAvailable: true},
			flags: 0x8180,
		},
		{
			name:  "notify opcode with rcode",
			hdr:   Header{ID: 4, Opcode: OpcodeNotify, RCode: RCodeNXDomain},
			flags: 0x2003,
		},
		{
			name:  "all bits",
			hdr:   Header{Response: true, Opcode: 15, Authoritative: true, Truncated: true, RecursionDesired: true, RecursionAvailable: true, Z: 7, RCode: 15},
			flags: 0xFFFF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.flags, tt.hdr.Flags())
			assert.Equal(t, tt.hdr, NewHeader(tt.hdr.ID, tt.flags))
		})
	}
}

func TestOpcode_IsSupported(t *testing.T) {
	for o := Opcode(0); o < 16; o++ {
		want := o == 0 || o == 1 || o == 2 || o == 4 || o == 5
		assert.Equal(t, want, o.IsSupported(), "opcode %d", o)
	}
	assert.Equal(t, "QUERY", OpcodeQuery.String())
	assert.Equal(t, "UNKNOWN(3)", Opcode(3).String())
}
