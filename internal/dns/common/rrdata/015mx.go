package rrdata

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/haukened/rr-decoy/internal/dns/domain"
)

// MX is a mail exchange with its preference.
type MX struct {
	Preference uint16
	Exchange   domain.Name
}

func (MX) Type() domain.RRType { return domain.RRTypeMX }

func (m MX) AppendWire(b []byte) []byte {
	b = binary.BigEndian.AppendUint16(b, m.Preference)
	return AppendName(b, m.Exchange)
}

func (m MX) String() string { return fmt.Sprintf("%d %s", m.Preference, m.Exchange) }

// parseMX parses an MX record string such as "10 mail.example.com".
func parseMX(data string) (MX, error) {
	parts := strings.Fields(data)
	if len(parts) != 2 {
		return MX{}, fmt.Errorf("invalid MX record format (expected: preference domain): %s", data)
	}
	// pref is a uint16 representing the preference of the mail server
	pref, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil {
		return MX{}, fmt.Errorf("invalid MX preference: %s", parts[0])
	}
	exchange, err := domain.NewName(parts[1])
	if err != nil {
		return MX{}, fmt.Errorf("invalid MX exchange domain: %s", parts[1])
	}
	return MX{Preference: uint16(pref), Exchange: exchange}, nil
}

func decodeMX(msg []byte, off, end int) (MX, error) {
	if end-off < 3 {
		return MX{}, fmt.Errorf("%w: invalid MX data length", domain.ErrMalformedMessage)
	}
	pref := binary.BigEndian.Uint16(msg[off : off+2])
	exchange, err := readNameRData(msg, off+2, end)
	if err != nil {
		return MX{}, fmt.Errorf("invalid MX exchange domain: %w", err)
	}
	return MX{Preference: pref, Exchange: exchange}, nil
}
