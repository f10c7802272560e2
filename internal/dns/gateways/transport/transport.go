// Package transport provides the network listeners of the decoy. Each listener
// converts between bytes and domain messages through the shared pipeline, so
// the responder only ever sees domain types.
package transport

import (
	"context"
	"net"
	"net/netip"
	"time"

	"github.com/haukened/rr-decoy/internal/dns/domain"
	"github.com/haukened/rr-decoy/internal/dns/services/responder"
)

// ServerTransport defines the interface for DNS server transport implementations.
type ServerTransport interface {
	// Start binds (unless a socket was handed over) and begins serving in the background.
	// Cancelling ctx has the same effect as Stop.
	Start(ctx context.Context, handler responder.DNSResponder) error

	// Stop closes the socket, lets in-flight requests finish and releases resources.
	Stop() error

	// Address returns the network address the transport is bound to.
	Address() string
}

// TransportType represents the different types of DNS transport protocols supported.
type TransportType = domain.Transport

const (
	// TransportUDP represents standard DNS over UDP (RFC 1035)
	TransportUDP = domain.TransportUDP

	// TransportTCP represents DNS over TCP with 2-byte length framing (RFC 1035 Section 4.2.2)
	TransportTCP = domain.TransportTCP
)

// Options tunes transport behaviour.
type Options struct {
	// TCPIdleTimeout closes a TCP connection that sends nothing for this long. Zero disables it.
	TCPIdleTimeout time.Duration
}

// bindNetwork narrows the network to the family of the host in addr, so that
// 0.0.0.0 binds IPv4 only instead of the dual-stack wildcard. Hostnames and
// unparsable addresses keep the generic network.
func bindNetwork(transportType TransportType, addr string) string {
	network := string(transportType)
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return network
	}
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return network
	}
	if ip.Unmap().Is4() {
		return network + "4"
	}
	return network + "6"
}
