package domain

import "strings"

// RRClass is the class of a question or record. Queries to the decoy almost
// always carry IN; the class is echoed back on every answer regardless.
type RRClass uint16

const (
	RRClassIN   RRClass = 1   // Internet
	RRClassCS   RRClass = 2   // CSNET, obsolete
	RRClassCH   RRClass = 3   // Chaos
	RRClassHS   RRClass = 4   // Hesiod
	RRClassNONE RRClass = 254 // RFC 2136 prerequisite class
	RRClassANY  RRClass = 255 // query only
)

var rrClassNames = map[RRClass]string{
	RRClassIN:   "IN",
	RRClassCS:   "CS",
	RRClassCH:   "CH",
	RRClassHS:   "HS",
	RRClassNONE: "NONE",
	RRClassANY:  "ANY",
}

var rrClassByName = func() map[string]RRClass {
	m := make(map[string]RRClass, len(rrClassNames))
	for c, s := range rrClassNames {
		m[s] = c
	}
	return m
}()

// IsKnown reports whether the class has a mnemonic.
func (c RRClass) IsKnown() bool {
	_, ok := rrClassNames[c]
	return ok
}

// String returns the class mnemonic, or "UNKNOWN".
func (c RRClass) String() string {
	if s, ok := rrClassNames[c]; ok {
		return s
	}
	return "UNKNOWN"
}

// ParseRRClass maps a mnemonic, in any case, to its class. Unknown input yields 0.
func ParseRRClass(s string) RRClass {
	return rrClassByName[strings.ToUpper(s)]
}
