package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/haukened/rr-decoy/internal/dns/common/log"
	"github.com/haukened/rr-decoy/internal/dns/domain"
	"github.com/haukened/rr-decoy/internal/dns/gateways/wire"
	"github.com/haukened/rr-decoy/internal/dns/services/responder"
)

const (
	// maxUDPPacketSize is the largest datagram read from the socket.
	maxUDPPacketSize = 65535
	// maxUDPResponseSize is the largest UDP payload IPv4 can carry.
	maxUDPResponseSize = 65507
)

// UDPTransport implements ServerTransport for standard DNS over UDP (RFC 1035).
// Every datagram is handled in its own goroutine.
type UDPTransport struct {
	addr   string
	conn   net.PacketConn
	codec  wire.DNSCodec
	logger log.Logger

	// Synchronization for graceful shutdown
	mu       sync.RWMutex
	running  bool
	stopping bool
	stopCh   chan struct{}
	stopped  chan struct{}
	wg       sync.WaitGroup
}

// NewUDPTransport creates a new UDP transport that binds addr on Start.
func NewUDPTransport(addr string, codec wire.DNSCodec, logger log.Logger) *UDPTransport {
	return &UDPTransport{
		addr:    addr,
		codec:   codec,
		logger:  logger,
		stopCh:  make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// NewUDPTransportFromConn wraps an already bound packet connection, such as
// one passed in by systemd socket activation.
func NewUDPTransportFromConn(conn net.PacketConn, codec wire.DNSCodec, logger log.Logger) *UDPTransport {
	t := NewUDPTransport(conn.LocalAddr().String(), codec, logger)
	t.conn = conn
	return t
}

// Start begins listening for UDP DNS queries on the configured address.
func (t *UDPTransport) Start(ctx context.Context, handler responder.DNSResponder) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("UDP transport already running")
	}
	if t.stopping {
		return fmt.Errorf("UDP transport already stopped")
	}

	if t.conn == nil {
		conn, err := net.ListenPacket(bindNetwork(TransportUDP, t.addr), t.addr)
		if err != nil {
			return fmt.Errorf("%w: failed to bind UDP socket on %s: %v", domain.ErrTransport, t.addr, err)
		}
		t.conn = conn
	}
	t.running = true

	t.logger.Info(map[string]any{
		"transport": "udp",
		"address":   t.conn.LocalAddr().String(),
	}, "DNS transport started")

	t.wg.Add(1)
	go t.listenLoop(handler)
	go t.watchContext(ctx)

	return nil
}

// watchContext stops the transport when ctx is cancelled.
func (t *UDPTransport) watchContext(ctx context.Context) {
	select {
	case <-ctx.Done():
		t.logger.Debug(nil, "UDP transport stopping due to context cancellation")
		_ = t.Stop()
	case <-t.stopCh:
	}
}

// Stop gracefully shuts down the UDP transport. The read loop is interrupted,
// in-flight packets are allowed to send their reply, then the socket closes.
func (t *UDPTransport) Stop() error {
	t.mu.Lock()
	if !t.running {
		stopping := t.stopping
		t.mu.Unlock()
		if stopping {
			// another caller is already shutting down; wait for it
			<-t.stopped
		}
		return nil
	}
	t.running = false
	t.stopping = true
	close(t.stopCh)
	conn := t.conn
	t.mu.Unlock()

	// Unblock ReadFrom without closing the socket yet.
	_ = conn.SetReadDeadline(time.Now())
	t.wg.Wait()

	closeErr := conn.Close()
	if closeErr != nil {
		t.logger.Warn(map[string]any{
			"error": closeErr.Error(),
		}, "Error closing UDP connection")
	}

	t.logger.Info(map[string]any{
		"transport": "udp",
		"address":   t.addr,
	}, "DNS transport stopped")
	close(t.stopped)

	return closeErr
}

// Address returns the network address the transport is bound to.
func (t *UDPTransport) Address() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.conn != nil {
		return t.conn.LocalAddr().String()
	}
	return t.addr
}

func (t *UDPTransport) isStopping() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.stopping
}

// listenLoop continuously reads datagrams and dispatches each one.
func (t *UDPTransport) listenLoop(handler responder.DNSResponder) {
	defer t.wg.Done()
	buffer := make([]byte, maxUDPPacketSize)

	for {
		n, clientAddr, err := t.conn.ReadFrom(buffer)
		if err != nil {
			if t.isStopping() || errors.Is(err, net.ErrClosed) {
				return // Normal shutdown
			}
			t.logger.Warn(map[string]any{
				"error": err.Error(),
			}, "Failed to read UDP packet")
			continue
		}

		packet := make([]byte, n)
		copy(packet, buffer[:n])
		t.wg.Add(1)
		go t.handlePacket(packet, clientAddr, handler)
	}
}

// handlePacket processes a single UDP DNS packet. Malformed packets are dropped silently.
func (t *UDPTransport) handlePacket(data []byte, clientAddr net.Addr, handler responder.DNSResponder) {
	defer t.wg.Done()

	t.logger.Debug(map[string]any{
		"client": clientAddr.String(),
		"size":   len(data),
		"raw":    fmt.Sprintf("%x", data),
	}, "Received raw DNS query data")

	peer := domain.Peer{Addr: clientAddr, Transport: domain.TransportUDP}
	reply, query, err := exchange(t.codec, handler, data, peer, maxUDPResponseSize)
	if err != nil {
		t.logger.Warn(map[string]any{
			"client": clientAddr.String(),
			"error":  err.Error(),
			"size":   len(data),
		}, "Dropping DNS packet")
		return
	}
	if reply == nil {
		t.logger.Debug(map[string]any{
			"client":   clientAddr.String(),
			"query_id": query.Header.ID,
		}, "DNS message without questions, not replying")
		return
	}

	if _, err := t.conn.WriteTo(reply, clientAddr); err != nil {
		t.logger.Error(map[string]any{
			"client":   clientAddr.String(),
			"query_id": query.Header.ID,
			"error":    err.Error(),
		}, "Failed to send DNS response")
		return
	}

	t.logger.Debug(map[string]any{
		"client":   clientAddr.String(),
		"query_id": query.Header.ID,
		"size":     len(reply),
	}, "Sent DNS response")
}

var _ ServerTransport = (*UDPTransport)(nil)
