package rrdata

import "github.com/haukened/rr-decoy/internal/dns/domain"

// PTR points at another name, usually for reverse lookups.
type PTR struct {
	Target domain.Name
}

func (PTR) Type() domain.RRType { return domain.RRTypePTR }

func (p PTR) AppendWire(b []byte) []byte { return AppendName(b, p.Target) }

func (p PTR) String() string { return p.Target.String() }
