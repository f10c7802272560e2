package transport

import (
	"fmt"
	"slices"

	"github.com/haukened/rr-decoy/internal/dns/common/log"
	"github.com/haukened/rr-decoy/internal/dns/gateways/wire"
)

// NewTransport builds an unstarted transport of the given type bound to addr.
func NewTransport(transportType TransportType, addr string, codec wire.DNSCodec, logger log.Logger, opts Options) (ServerTransport, error) {
	if !IsTransportSupported(transportType) {
		return nil, fmt.Errorf("unsupported transport type: %s", transportType)
	}
	if transportType == TransportTCP {
		return NewTCPTransport(addr, codec, logger, opts.TCPIdleTimeout), nil
	}
	return NewUDPTransport(addr, codec, logger), nil
}

// GetSupportedTransports lists the transports a listener pair is made of, UDP first.
func GetSupportedTransports() []TransportType {
	return []TransportType{TransportUDP, TransportTCP}
}

func IsTransportSupported(transportType TransportType) bool {
	return slices.Contains(GetSupportedTransports(), transportType)
}

// NewListenerPair returns one transport per supported type, all on addr and
// sharing the stateless codec.
func NewListenerPair(addr string, codec wire.DNSCodec, logger log.Logger, opts Options) []ServerTransport {
	pair := make([]ServerTransport, 0, len(GetSupportedTransports()))
	for _, tt := range GetSupportedTransports() {
		tr, err := NewTransport(tt, addr, codec, logger, opts)
		if err != nil {
			continue
		}
		pair = append(pair, tr)
	}
	return pair
}
