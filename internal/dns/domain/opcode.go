package domain

import "fmt"

// Opcode is the 4-bit header field describing the kind of DNS operation.
type Opcode uint8

const (
	OpcodeQuery  Opcode = 0 // standard query
	OpcodeIQuery Opcode = 1 // inverse query (obsolete)
	OpcodeStatus Opcode = 2 // server status request
	OpcodeNotify Opcode = 4 // zone change notification
	OpcodeUpdate Opcode = 5 // dynamic update
)

// IsSupported reports whether the opcode is one the codec accepts.
// Opcode 3 and 6-15 are unassigned and make a message malformed.
func (o Opcode) IsSupported() bool {
	switch o {
	case OpcodeQuery, OpcodeIQuery, OpcodeStatus, OpcodeNotify, OpcodeUpdate:
		return true
	default:
		return false
	}
}

func (o Opcode) String() string {
	switch o {
	case OpcodeQuery:
		return "QUERY"
	case OpcodeIQuery:
		return "IQUERY"
	case OpcodeStatus:
		return "STATUS"
	case OpcodeNotify:
		return "NOTIFY"
	case OpcodeUpdate:
		return "UPDATE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", o)
	}
}
