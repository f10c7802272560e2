package rrdata

import (
	"encoding/binary"
	"fmt"

	"github.com/haukened/rr-decoy/internal/dns/domain"
)

// AppendName appends the uncompressed wire encoding of name to b:
// length-prefixed labels terminated by a zero-length label.
func AppendName(b []byte, name domain.Name) []byte {
	for _, label := range name.Labels() {
		b = append(b, byte(len(label)))
		b = append(b, label...)
	}
	return append(b, 0) // null terminator
}

// ReadName decodes a domain name starting at off and returns it together with
// the offset of the first byte after the name. Compression pointers are
// followed only when they point strictly backwards. Every label length is
// checked against the buffer and the accumulated length against MaxNameLength,
// which also bounds any pointer cycle that passes through a label.
func ReadName(msg []byte, off int) (domain.Name, int, error) {
	var labels []string
	next := -1
	wireLen := 1
	for {
		if off >= len(msg) {
			return domain.Name{}, 0, fmt.Errorf("%w: domain name has no terminating label", domain.ErrMalformedMessage)
		}
		length := int(msg[off])
		switch length & 0xC0 {
		case 0x00:
			off++
			if length == 0 {
				if next < 0 {
					next = off
				}
				name, err := domain.NameFromLabels(labels)
				if err != nil {
					return domain.Name{}, 0, fmt.Errorf("%w: %v", domain.ErrMalformedMessage, err)
				}
				return name, next, nil
			}
			if off+length > len(msg) {
				return domain.Name{}, 0, fmt.Errorf("%w: label length out of bounds", domain.ErrMalformedMessage)
			}
			wireLen += length + 1
			if wireLen > domain.MaxNameLength {
				return domain.Name{}, 0, fmt.Errorf("%w: domain name exceeds %d bytes", domain.ErrMalformedMessage, domain.MaxNameLength)
			}
			labels = append(labels, string(msg[off:off+length]))
			off += length
		case 0xC0:
			if off+1 >= len(msg) {
				return domain.Name{}, 0, fmt.Errorf("%w: compression pointer out of bounds", domain.ErrMalformedMessage)
			}
			ptr := int(binary.BigEndian.Uint16(msg[off:off+2]) & 0x3FFF)
			if ptr >= off {
				return domain.Name{}, 0, fmt.Errorf("%w: forward compression pointer", domain.ErrMalformedMessage)
			}
			if next < 0 {
				next = off + 2
			}
			off = ptr
		default:
			return domain.Name{}, 0, fmt.Errorf("%w: reserved label type 0x%02x", domain.ErrMalformedMessage, length&0xC0)
		}
	}
}

// readNameRData decodes an RDATA consisting of exactly one domain name.
func readNameRData(msg []byte, off, end int) (domain.Name, error) {
	name, next, err := ReadName(msg[:end], off)
	if err != nil {
		return domain.Name{}, err
	}
	if next != end {
		return domain.Name{}, fmt.Errorf("%w: %d trailing bytes after name", domain.ErrMalformedMessage, end-next)
	}
	return name, nil
}
