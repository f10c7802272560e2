package rrdata

import (
	"fmt"

	"github.com/haukened/rr-decoy/internal/dns/domain"
)

// Parse builds the RData variant for rrType from its presentation text.
func Parse(rrType domain.RRType, data string) (domain.RData, error) {
	switch rrType {
	case domain.RRTypeA: // 1
		return parseA(data)
	case domain.RRTypeNS: // 2
		host, err := domain.NewName(data)
		if err != nil {
			return nil, fmt.Errorf("invalid NS host: %w", err)
		}
		return NS{Host: host}, nil
	case domain.RRTypeCNAME: // 5
		target, err := domain.NewName(data)
		if err != nil {
			return nil, fmt.Errorf("invalid CNAME target: %w", err)
		}
		return CNAME{Target: target}, nil
	case domain.RRTypeSOA: // 6
		return parseSOA(data)
	case domain.RRTypePTR: // 12
		target, err := domain.NewName(data)
		if err != nil {
			return nil, fmt.Errorf("invalid PTR target: %w", err)
		}
		return PTR{Target: target}, nil
	case domain.RRTypeMX: // 15
		return parseMX(data)
	case domain.RRTypeTXT: // 16
		return parseTXT(data)
	case domain.RRTypeAAAA: // 28
		return parseAAAA(data)
	default:
		return nil, fmt.Errorf("%s record parsing not implemented", rrType)
	}
}
