package domain

import (
	"net"
	"time"
)

// Transport names the network protocol a query arrived on.
type Transport string

const (
	TransportUDP Transport = "udp"
	TransportTCP Transport = "tcp"
)

// Peer identifies the origin of a query.
type Peer struct {
	Addr      net.Addr
	Transport Transport
}

// String returns the peer address, or "unknown" if none is set.
func (p Peer) String() string {
	if p.Addr == nil {
		return "unknown"
	}
	return p.Addr.String()
}

// IP returns the host part of the peer address without the port.
func (p Peer) IP() string {
	switch a := p.Addr.(type) {
	case *net.UDPAddr:
		return a.IP.String()
	case *net.TCPAddr:
		return a.IP.String()
	case nil:
		return "unknown"
	default:
		host, _, err := net.SplitHostPort(a.String())
		if err != nil {
			return a.String()
		}
		return host
	}
}

// Sighting summarises how often a client address has been seen.
type Sighting struct {
	FirstSeen time.Time
	Queries   uint64
}
