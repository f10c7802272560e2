// Package wire provides encoding and decoding of DNS messages.
// It handles the DNS wire format as specified in RFC 1035.
package wire

import "github.com/haukened/rr-decoy/internal/dns/domain"

// DNSCodec converts between raw DNS messages and domain.Message values.
// Implementations carry no mutable state and are safe for concurrent use.
type DNSCodec interface {
	// Server Functions
	// These methods decode inbound queries and encode the synthetic replies.
	DecodeQuery(data []byte) (domain.Message, error)
	EncodeResponse(resp domain.Message) []byte

	// Client Functions
	// These methods are used by the probe to talk to a running responder.
	EncodeQuery(query domain.Message) []byte
	DecodeResponse(data []byte) (domain.Message, error)
}
