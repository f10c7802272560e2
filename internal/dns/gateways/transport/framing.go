package transport

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/haukened/rr-decoy/internal/dns/domain"
)

// MaxTCPMessageSize is the largest message a 2-byte length prefix can describe.
const MaxTCPMessageSize = 0xFFFF

// ReadPrefixed reads one length-prefixed DNS message from r. It returns io.EOF
// when r ends cleanly before a new prefix, io.ErrUnexpectedEOF when it ends
// inside a message, and a domain.ErrMalformedMessage for a zero length.
func ReadPrefixed(r io.Reader) ([]byte, error) {
	var prefix [2]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint16(prefix[:])
	if n == 0 {
		return nil, fmt.Errorf("%w: zero length prefix", domain.ErrMalformedMessage)
	}
	msg := make([]byte, n)
	if _, err := io.ReadFull(r, msg); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return msg, nil
}

// WritePrefixed writes msg preceded by its 2-byte big-endian length in a single Write.
func WritePrefixed(w io.Writer, msg []byte) error {
	if len(msg) > MaxTCPMessageSize {
		return fmt.Errorf("%w: message of %d bytes too large for TCP framing", domain.ErrTransport, len(msg))
	}
	buf := make([]byte, 2+len(msg))
	binary.BigEndian.PutUint16(buf, uint16(len(msg)))
	copy(buf[2:], msg)
	_, err := w.Write(buf)
	return err
}
