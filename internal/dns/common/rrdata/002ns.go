package rrdata

import "github.com/haukened/rr-decoy/internal/dns/domain"

// NS names an authoritative name server.
type NS struct {
	Host domain.Name
}

func (NS) Type() domain.RRType { return domain.RRTypeNS }

func (n NS) AppendWire(b []byte) []byte { return AppendName(b, n.Host) }

func (n NS) String() string { return n.Host.String() }
