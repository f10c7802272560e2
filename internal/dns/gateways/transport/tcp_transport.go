package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/haukened/rr-decoy/internal/dns/common/log"
	"github.com/haukened/rr-decoy/internal/dns/domain"
	"github.com/haukened/rr-decoy/internal/dns/gateways/wire"
	"github.com/haukened/rr-decoy/internal/dns/services/responder"
)

// TCPTransport implements ServerTransport for DNS over TCP. Each accepted
// connection gets its own goroutine which serves length-prefixed messages
// until the peer closes, sends something malformed or goes idle.
type TCPTransport struct {
	addr        string
	listener    net.Listener
	codec       wire.DNSCodec
	logger      log.Logger
	idleTimeout time.Duration

	mu       sync.Mutex
	running  bool
	stopping bool
	conns    map[net.Conn]struct{}
	stopCh   chan struct{}
	stopped  chan struct{}
	wg       sync.WaitGroup
}

// NewTCPTransport creates a TCP transport that binds addr on Start.
// idleTimeout of zero keeps idle connections open forever.
func NewTCPTransport(addr string, codec wire.DNSCodec, logger log.Logger, idleTimeout time.Duration) *TCPTransport {
	return &TCPTransport{
		addr:        addr,
		codec:       codec,
		logger:      logger,
		idleTimeout: idleTimeout,
		conns:       make(map[net.Conn]struct{}),
		stopCh:      make(chan struct{}),
		stopped:     make(chan struct{}),
	}
}

// NewTCPTransportFromListener wraps an existing listener, such as one passed
// in by systemd socket activation.
func NewTCPTransportFromListener(ln net.Listener, codec wire.DNSCodec, logger log.Logger, idleTimeout time.Duration) *TCPTransport {
	t := NewTCPTransport(ln.Addr().String(), codec, logger, idleTimeout)
	t.listener = ln
	return t
}

// Start begins accepting TCP connections on the configured address.
func (t *TCPTransport) Start(ctx context.Context, handler responder.DNSResponder) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("TCP transport already running")
	}
	if t.stopping {
		return fmt.Errorf("TCP transport already stopped")
	}

	if t.listener == nil {
		ln, err := net.Listen(bindNetwork(TransportTCP, t.addr), t.addr)
		if err != nil {
			return fmt.Errorf("%w: failed to bind TCP socket on %s: %v", domain.ErrTransport, t.addr, err)
		}
		t.listener = ln
	}
	t.running = true

	t.logger.Info(map[string]any{
		"transport":    "tcp",
		"address":      t.listener.Addr().String(),
		"idle_timeout": t.idleTimeout.String(),
	}, "DNS transport started")

	t.wg.Add(1)
	go t.acceptLoop(handler)
	go t.watchContext(ctx)

	return nil
}

func (t *TCPTransport) watchContext(ctx context.Context) {
	select {
	case <-ctx.Done():
		t.logger.Debug(nil, "TCP transport stopping due to context cancellation")
		_ = t.Stop()
	case <-t.stopCh:
	}
}

// Stop closes the listener, interrupts idle reads on open connections and
// waits for requests being answered to finish.
func (t *TCPTransport) Stop() error {
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

	closeErr := t.listener.Close()
	for c := range t.conns {
		_ = c.SetReadDeadline(time.Now())
	}
	t.mu.Unlock()

	t.wg.Wait()

	if closeErr != nil {
		t.logger.Warn(map[string]any{
			"error": closeErr.Error(),
		}, "Error closing TCP listener")
	}
	t.logger.Info(map[string]any{
		"transport": "tcp",
		"address":   t.addr,
	}, "DNS transport stopped")
	close(t.stopped)

	return closeErr
}

// Address returns the network address the transport is bound to.
func (t *TCPTransport) Address() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.listener != nil {
		return t.listener.Addr().String()
	}
	return t.addr
}

// track registers c, or reports false when the transport is shutting down.
func (t *TCPTransport) track(c net.Conn) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopping {
		return false
	}
	t.conns[c] = struct{}{}
	t.wg.Add(1)
	return true
}

// armDeadline applies the idle timeout before the next read. It reports false
// once Stop has begun, so a finished exchange does not extend the connection.
func (t *TCPTransport) armDeadline(c net.Conn) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopping {
		return false
	}
	if t.idleTimeout > 0 {
		_ = c.SetReadDeadline(time.Now().Add(t.idleTimeout))
	}
	return true
}

func (t *TCPTransport) untrack(c net.Conn) {
	t.mu.Lock()
	delete(t.conns, c)
	t.mu.Unlock()
}

func (t *TCPTransport) acceptLoop(handler responder.DNSResponder) {
	defer t.wg.Done()

	for {
		conn, err := t.listener.Accept()
		if err != nil {
			t.mu.Lock()
			stopping := t.stopping
			t.mu.Unlock()
			if stopping || errors.Is(err, net.ErrClosed) {
				return
			}
			t.logger.Warn(map[string]any{
				"error": err.Error(),
			}, "Failed to accept TCP connection")
			// avoid spinning on persistent errors such as EMFILE
			time.Sleep(10 * time.Millisecond)
			continue
		}

		if !t.track(conn) {
			_ = conn.Close()
			return
		}
		go t.serveConn(conn, handler)
	}
}

// serveConn answers length-prefixed queries on conn until it is closed.
func (t *TCPTransport) serveConn(conn net.Conn, handler responder.DNSResponder) {
	defer t.wg.Done()
	defer t.untrack(conn)
	defer conn.Close()

	client := conn.RemoteAddr().String()
	peer := domain.Peer{Addr: conn.RemoteAddr(), Transport: domain.TransportTCP}

	t.logger.Debug(map[string]any{"client": client}, "Accepted TCP connection")

	for {
		if !t.armDeadline(conn) {
			return
		}

		data, err := ReadPrefixed(conn)
		if err != nil {
			fields := map[string]any{"client": client, "error": err.Error()}
			switch {
			case errors.Is(err, io.EOF):
				t.logger.Debug(map[string]any{"client": client}, "TCP connection closed by peer")
			case errors.Is(err, domain.ErrMalformedMessage):
				t.logger.Warn(fields, "Malformed TCP length prefix, closing connection")
			case isTimeout(err):
				t.logger.Debug(fields, "TCP connection idle or shutting down, closing")
			default:
				t.logger.Warn(fields, "Failed to read TCP message")
			}
			return
		}

		reply, query, err := exchange(t.codec, handler, data, peer, MaxTCPMessageSize)
		if err != nil {
			t.logger.Warn(map[string]any{
				"client": client,
				"error":  err.Error(),
				"size":   len(data),
			}, "Dropping DNS message, closing connection")
			return
		}
		if reply == nil {
			continue
		}

		if err := WritePrefixed(conn, reply); err != nil {
			t.logger.Error(map[string]any{
				"client":   client,
				"query_id": query.Header.ID,
				"error":    err.Error(),
			}, "Failed to send DNS response")
			return
		}

		t.logger.Debug(map[string]any{
			"client":   client,
			"query_id": query.Header.ID,
			"size":     len(reply),
		}, "Sent DNS response")
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

var _ ServerTransport = (*TCPTransport)(nil)
