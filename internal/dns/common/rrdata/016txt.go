package rrdata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/haukened/rr-decoy/internal/dns/domain"
)

// maxCharacterString is the longest <character-string> (RFC 1035 section 3.3).
const maxCharacterString = 255

// TXT holds one or more text strings.
type TXT struct {
	Strings []string
}

func (TXT) Type() domain.RRType { return domain.RRTypeTXT }

// AppendWire writes each string as one or more length-prefixed character strings.
// Strings longer than 255 bytes are split; an empty TXT encodes one empty string.
func (t TXT) AppendWire(b []byte) []byte {
	if len(t.Strings) == 0 {
		return append(b, 0)
	}
	for _, s := range t.Strings {
		for {
			chunk := s
			if len(chunk) > maxCharacterString {
				chunk = s[:maxCharacterString]
			}
			b = append(b, byte(len(chunk)))
			b = append(b, chunk...)
			s = s[len(chunk):]
			if s == "" {
				break
			}
		}
	}
	return b
}

func (t TXT) String() string {
	quoted := make([]string, len(t.Strings))
	for i, s := range t.Strings {
		quoted[i] = strconv.Quote(s)
	}
	return strings.Join(quoted, " ")
}

// parseTXT parses a TXT record string. Multiple strings are separated by semicolons
// (see RFC 1035 section 3.3.14).
func parseTXT(data string) (TXT, error) {
	var segments []string
	for _, segment := range strings.Split(data, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		if len(segment) > maxCharacterString {
			return TXT{}, fmt.Errorf("TXT segment too long: %d bytes", len(segment))
		}
		segments = append(segments, segment)
	}
	if len(segments) == 0 {
		return TXT{}, fmt.Errorf("TXT record must contain at least one segment")
	}
	return TXT{Strings: segments}, nil
}

func decodeTXT(b []byte) (TXT, error) {
	if len(b) == 0 {
		return TXT{}, fmt.Errorf("%w: empty TXT data", domain.ErrMalformedMessage)
	}
	var segments []string
	for i := 0; i < len(b); {
		l := int(b[i])
		i++
		if i+l > len(b) {
			return TXT{}, fmt.Errorf("%w: TXT segment length out of bounds", domain.ErrMalformedMessage)
		}
		segments = append(segments, string(b[i:i+l]))
		i += l
	}
	return TXT{Strings: segments}, nil
}
