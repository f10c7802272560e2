package rrdata

import (
	"fmt"
	"net/netip"

	"github.com/haukened/rr-decoy/internal/dns/domain"
)

// A is an IPv4 host address.
type A struct {
	IP [4]byte
}

func (A) Type() domain.RRType { return domain.RRTypeA }

func (a A) AppendWire(b []byte) []byte { return append(b, a.IP[:]...) }

func (a A) String() string { return netip.AddrFrom4(a.IP).String() }

// parseA parses an A record string such as "192.168.0.1".
func parseA(data string) (A, error) {
	ip, err := netip.ParseAddr(data)
	if err != nil || !ip.Is4() {
		return A{}, fmt.Errorf("invalid A record IP: %s", data)
	}
	return A{IP: ip.As4()}, nil
}

func decodeA(b []byte) (A, error) {
	if len(b) != 4 {
		return A{}, fmt.Errorf("%w: invalid A data length: %d", domain.ErrMalformedMessage, len(b))
	}
	var a A
	copy(a.IP[:], b)
	return a, nil
}
