package transport

import (
	"context"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/haukened/rr-decoy/internal/dns/common/log"
	"github.com/haukened/rr-decoy/internal/dns/domain"
	"github.com/haukened/rr-decoy/internal/dns/gateways/wire"
	"github.com/haukened/rr-decoy/internal/dns/services/responder"
)

// MockDNSResponder implements responder.DNSResponder for testing
type MockDNSResponder struct {
	mock.Mock
}

func (m *MockDNSResponder) BuildResponse(query domain.Message, peer domain.Peer) domain.Message {
	args := m.Called(query, peer)
	return args.Get(0).(domain.Message)
}

// MockLogger implements log.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Info(fields map[string]any, msg string)  { m.Called(fields, msg) }
func (m *MockLogger) Error(fields map[string]any, msg string) { m.Called(fields, msg) }
func (m *MockLogger) Debug(fields map[string]any, msg string) { m.Called(fields, msg) }
func (m *MockLogger) Warn(fields map[string]any, msg string)  { m.Called(fields, msg) }
func (m *MockLogger) Panic(fields map[string]any, msg string) { m.Called(fields, msg) }
func (m *MockLogger) Fatal(fields map[string]any, msg string) { m.Called(fields, msg) }

func newTestCodec() wire.DNSCodec {
	return wire.NewCodec(log.NewNoopLogger())
}

func newTestResponder() *responder.Responder {
	return responder.New(responder.Options{Authoritative: true})
}

// packQuery builds a single-question query with miekg/dns.
func packQuery(t *testing.T, id uint16, name string, qtype uint16) []byte {
	t.Helper()
	m := new(dns.Msg)
	m.SetQuestion(name, qtype)
	m.Id = id
	b, err := m.Pack()
	require.NoError(t, err)
	return b
}

func startUDP(t *testing.T, handler responder.DNSResponder) *UDPTransport {
	t.Helper()
	tr := NewUDPTransport("127.0.0.1:0", newTestCodec(), log.NewNoopLogger())
	require.NoError(t, tr.Start(context.Background(), handler))
	t.Cleanup(func() { _ = tr.Stop() })
	return tr
}

func startTCP(t *testing.T, handler responder.DNSResponder) *TCPTransport {
	t.Helper()
	tr := NewTCPTransport("127.0.0.1:0", newTestCodec(), log.NewNoopLogger(), 0)
	require.NoError(t, tr.Start(context.Background(), handler))
	t.Cleanup(func() { _ = tr.Stop() })
	return tr
}
