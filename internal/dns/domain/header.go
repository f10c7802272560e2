package domain

// HeaderSize is the fixed size of a DNS header in bytes.
const HeaderSize = 12

// Flag bits of the second header word (RFC 1035 Section 4.1.1).
const (
	flagQR     uint16 = 1 << 15
	flagAA     uint16 = 1 << 10
	flagTC     uint16 = 1 << 9
	flagRD     uint16 = 1 << 8
	flagRA     uint16 = 1 << 7
	opcodeMask uint16 = 0x7800
	zMask      uint16 = 0x0070
	rcodeMask  uint16 = 0x000F
)

// Header is the decoded DNS message header. Section counts are not stored:
// they are always derived from the sections of the owning Message.
type Header struct {
	ID                 uint16
	Response           bool
	Opcode             Opcode
	Authoritative      bool
	Truncated          bool
	RecursionDesired   bool
	RecursionAvailable bool
	Z                  uint8 // 3 reserved bits, carried verbatim
	RCode              RCode
}

// Flags packs the header bits into the 16-bit wire representation.
func (h Header) Flags() uint16 {
	var f uint16
	if h.Response {
		f |= flagQR
	}
	f |= uint16(h.Opcode&0x0F) << 11
	if h.Authoritative {
		f |= flagAA
	}
	if h.Truncated {
		f |= flagTC
	}
	if h.RecursionDesired {
		f |= flagRD
	}
	if h.RecursionAvailable {
		f |= flagRA
	}
	f |= uint16(h.Z&0x07) << 4
	f |= uint16(h.RCode) & rcodeMask
	return f
}

// NewHeader unpacks an ID and a 16-bit flags word.
func NewHeader(id, flags uint16) Header {
	return Header{
		ID:                 id,
		Response:           flags&flagQR != 0,
		Opcode:             Opcode((flags & opcodeMask) >> 11),
		Authoritative:      flags&flagAA != 0,
		Truncated:          flags&flagTC != 0,
		RecursionDesired:   flags&flagRD != 0,
		RecursionAvailable: flags&flagRA != 0,
		Z:                  uint8((flags & zMask) >> 4),
		RCode:              RCode(flags & rcodeMask),
	}
}
