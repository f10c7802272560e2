package responder

import "github.com/haukened/rr-decoy/internal/dns/domain"

// DNSResponder turns a decoded query into the response message to send back.
// The transport handles all network protocol details - the responder only sees domain objects.
type DNSResponder interface {
	BuildResponse(query domain.Message, peer domain.Peer) domain.Message
}

// ProberTracker records how often a source address has queried the decoy.
// Implementations must be safe for concurrent use.
type ProberTracker interface {
	Observe(ip string) domain.Sighting
}
