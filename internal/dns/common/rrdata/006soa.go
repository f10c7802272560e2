package rrdata

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/haukened/rr-decoy/internal/dns/domain"
)

// SOA marks the start of a zone of authority.
type SOA struct {
	MName   domain.Name
	RName   domain.Name
	Serial  uint32
	Refresh uint32
	Retry   uint32
	Expire  uint32
	Minimum uint32
}

func (SOA) Type() domain.RRType { return domain.RRTypeSOA }

func (s SOA) AppendWire(b []byte) []byte {
	b = AppendName(b, s.MName)
	b = AppendName(b, s.RName)
	for _, v := range [5]uint32{s.Serial, s.Refresh, s.Retry, s.Expire, s.Minimum} {
		b = binary.BigEndian.AppendUint32(b, v)
	}
	return b
}

func (s SOA) String() string {
	return fmt.Sprintf("%s %s %d %d %d %d %d", s.MName, s.RName, s.Serial, s.Refresh, s.Retry, s.Expire, s.Minimum)
}

// parseSOA parses "mname rname serial refresh retry expire minimum".
func parseSOA(data string) (SOA, error) {
	parts := strings.Fields(data)
	if len(parts) != 7 {
		return SOA{}, fmt.Errorf("invalid SOA record format (expected 7 fields): %s", data)
	}

	// mname is the primary name server for the zone
	mname, err := domain.NewName(parts[0])
	if err != nil {
		return SOA{}, fmt.Errorf("invalid SOA mname: %v", err)
	}

	// rname is the mailbox of the zone administrator, first '.' standing for '@'
	rname, err := domain.NewName(parts[1])
	if err != nil {
		return SOA{}, fmt.Errorf("invalid SOA rname: %v", err)
	}

	var u32 [5]uint32
	for i := 0; i < 5; i++ {
		val, err := strconv.ParseUint(parts[i+2], 10, 32)
		if err != nil {
			return SOA{}, fmt.Errorf("invalid SOA field %d: %v", i+2, err)
		}
		u32[i] = uint32(val)
	}

	return SOA{
		MName:   mname,
		RName:   rname,
		Serial:  u32[0],
		Refresh: u32[1],
		Retry:   u32[2],
		Expire:  u32[3],
		Minimum: u32[4],
	}, nil
}

func decodeSOA(msg []byte, off, end int) (SOA, error) {
	window := msg[:end]
	mname, next, err := ReadName(window, off)
	if err != nil {
		return SOA{}, fmt.Errorf("invalid SOA mname: %w", err)
	}
	rname, next, err := ReadName(window, next)
	if err != nil {
		return SOA{}, fmt.Errorf("invalid SOA rname: %w", err)
	}
	if end-next != 20 {
		return SOA{}, fmt.Errorf("%w: SOA record needs 20 integer bytes, has %d", domain.ErrMalformedMessage, end-next)
	}

	var u32 [5]uint32
	for i := 0; i < 5; i++ {
		u32[i] = binary.BigEndian.Uint32(msg[next+i*4 : next+(i+1)*4])
	}

	return SOA{
		MName:   mname,
		RName:   rname,
		Serial:  u32[0],
		Refresh: u32[1],
		Retry:   u32[2],
		Expire:  u32[3],
		Minimum: u32[4],
	}, nil
}
