package rrdata

import (
	"fmt"
	"net/netip"

	"github.com/haukened/rr-decoy/internal/dns/domain"
)

// AAAA is an IPv6 host address.
type AAAA struct {
	IP [16]byte
}

func (AAAA) Type() domain.RRType { return domain.RRTypeAAAA }

func (a AAAA) AppendWire(b []byte) []byte { return append(b, a.IP[:]...) }

func (a AAAA) String() string { return netip.AddrFrom16(a.IP).String() }

// parseAAAA parses an AAAA record string such as "2001:db8::ff00:42:8329".
func parseAAAA(data string) (AAAA, error) {
	ip, err := netip.ParseAddr(data)
	if err != nil || !ip.Is6() || ip.Is4In6() {
		return AAAA{}, fmt.Errorf("invalid AAAA record IP: %s", data)
	}
	return AAAA{IP: ip.As16()}, nil
}

func decodeAAAA(b []byte) (AAAA, error) {
	if len(b) != 16 {
		return AAAA{}, fmt.Errorf("%w: invalid AAAA data length: %d", domain.ErrMalformedMessage, len(b))
	}
	var a AAAA
	copy(a.IP[:], b)
	return a, nil
}
