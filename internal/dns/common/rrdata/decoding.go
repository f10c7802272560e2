package rrdata

import (
	"fmt"

	"github.com/haukened/rr-decoy/internal/dns/domain"
)

// Decode decodes the RDATA of a record of rrType occupying msg[off:off+length].
// The whole message is passed so that compressed names inside RDATA resolve.
// Types without a dedicated variant are returned as Opaque.
func Decode(rrType domain.RRType, msg []byte, off, length int) (domain.RData, error) {
	end := off + length
	if off < 0 || length < 0 || end > len(msg) {
		return nil, fmt.Errorf("%w: rdata out of bounds", domain.ErrMalformedMessage)
	}
	rdata := msg[off:end]

	switch rrType {
	case domain.RRTypeA: // 1
		return decodeA(rdata)
	case domain.RRTypeNS: // 2
		host, err := readNameRData(msg, off, end)
		if err != nil {
			return nil, err
		}
		return NS{Host: host}, nil
	case domain.RRTypeCNAME: // 5
		target, err := readNameRData(msg, off, end)
		if err != nil {
			return nil, err
		}
		return CNAME{Target: target}, nil
	case domain.RRTypeSOA: // 6
		return decodeSOA(msg, off, end)
	case domain.RRTypePTR: // 12
		target, err := readNameRData(msg, off, end)
		if err != nil {
			return nil, err
		}
		return PTR{Target: target}, nil
	case domain.RRTypeMX: // 15
		return decodeMX(msg, off, end)
	case domain.RRTypeTXT: // 16
		return decodeTXT(rdata)
	case domain.RRTypeAAAA: // 28
		return decodeAAAA(rdata)
	default:
		raw := make([]byte, length)
		copy(raw, rdata)
		return Opaque{Code: rrType, Raw: raw}, nil
	}
}
