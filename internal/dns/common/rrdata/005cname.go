package rrdata

import "github.com/haukened/rr-decoy/internal/dns/domain"

// CNAME is the canonical name for an alias.
type CNAME struct {
	Target domain.Name
}

func (CNAME) Type() domain.RRType { return domain.RRTypeCNAME }

func (c CNAME) AppendWire(b []byte) []byte { return AppendName(b, c.Target) }

func (c CNAME) String() string { return c.Target.String() }
