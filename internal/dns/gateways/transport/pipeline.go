package transport

import (
	"fmt"

	"github.com/haukened/rr-decoy/internal/dns/domain"
	"github.com/haukened/rr-decoy/internal/dns/gateways/wire"
	"github.com/haukened/rr-decoy/internal/dns/services/responder"
)

// exchange runs decode -> respond -> encode for one inbound message. Both
// transports call it identically; only framing differs between them.
//
// A nil reply with a nil error means there is nothing to answer (no questions).
// A decode failure wraps domain.ErrMalformedMessage and must not be answered.
func exchange(codec wire.DNSCodec, handler responder.DNSResponder, data []byte, peer domain.Peer, maxSize int) ([]byte, domain.Message, error) {
	query, err := codec.DecodeQuery(data)
	if err != nil {
		return nil, domain.Message{}, err
	}
	if len(query.Questions) == 0 {
		return nil, query, nil
	}

	reply := codec.EncodeResponse(handler.BuildResponse(query, peer))
	if len(reply) > maxSize {
		return nil, query, fmt.Errorf("%w: response of %d bytes exceeds %d", domain.ErrTransport, len(reply), maxSize)
	}
	return reply, query, nil
}
