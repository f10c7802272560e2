package responder

import (
	"fmt"

	"github.com/haukened/rr-decoy/internal/dns/common/rrdata"
	"github.com/haukened/rr-decoy/internal/dns/domain"
)

// AnswerTTL is the ttl carried by every synthetic answer record.
const AnswerTTL uint32 = 60

// defaultPresentation is the canned answer for each supported query type,
// written in zone-file presentation form.
var defaultPresentation = map[domain.RRType]string{
	domain.RRTypeA:     "127.0.0.1",
	domain.RRTypeAAAA:  "::1",
	domain.RRTypeTXT:   "dummy response",
	domain.RRTypeMX:    "10 mail.example.com",
	domain.RRTypeCNAME: "cname.example.com",
	domain.RRTypeNS:    "ns.example.com",
	domain.RRTypeSOA:   "ns.example.com hostmaster.example.com 12345 3600 600 86400 3600",
	domain.RRTypePTR:   "ptr.example.com",
}

// AnswerTable maps a query type to its canned payload. It is never mutated
// after construction and may be shared by any number of goroutines.
type AnswerTable struct {
	entries map[domain.RRType]domain.RData
}

// NewAnswerTable parses the presentation-form payloads into RData values.
func NewAnswerTable(presentation map[domain.RRType]string) (*AnswerTable, error) {
	entries := make(map[domain.RRType]domain.RData, len(presentation))
	for t, text := range presentation {
		rd, err := rrdata.Parse(t, text)
		if err != nil {
			return nil, fmt.Errorf("canned %s answer %q: %w", t, text, err)
		}
		entries[t] = rd
	}
	return &AnswerTable{entries: entries}, nil
}

// DefaultAnswers returns the built-in answer table. The entries are static,
// so a parse failure is a programming error.
func DefaultAnswers() *AnswerTable {
	t, err := NewAnswerTable(defaultPresentation)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the payload for t. ok is false when no canned answer exists.
func (a *AnswerTable) Lookup(t domain.RRType) (rd domain.RData, ok bool) {
	rd, ok = a.entries[t]
	return rd, ok
}

// Len reports the number of supported query types.
func (a *AnswerTable) Len() int {
	return len(a.entries)
}
