package rrdata

import (
	"encoding/hex"
	"fmt"

	"github.com/haukened/rr-decoy/internal/dns/domain"
)

// Opaque carries RDATA of a type this package does not interpret.
type Opaque struct {
	Code domain.RRType
	Raw  []byte
}

func (o Opaque) Type() domain.RRType { return o.Code }

func (o Opaque) AppendWire(b []byte) []byte { return append(b, o.Raw...) }

// String uses the RFC 3597 generic form.
func (o Opaque) String() string {
	return fmt.Sprintf(`\# %d %s`, len(o.Raw), hex.EncodeToString(o.Raw))
}
