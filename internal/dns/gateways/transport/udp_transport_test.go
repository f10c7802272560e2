package transport

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/haukened/rr-decoy/internal/dns/common/log"
	"github.com/haukened/rr-decoy/internal/dns/domain"
)

func udpExchange(t *testing.T, addr string, payload []byte) ([]byte, error) {
	t.Helper()
	return udpExchangeTimeout(t, addr, payload, 2*time.Second)
}

func udpExchangeTimeout(t *testing.T, addr string, payload []byte, timeout time.Duration) ([]byte, error) {
	t.Helper()
	conn, err := net.Dial("udp", addr)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write(payload)
	require.NoError(t, err)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(timeout)))
	buf := make([]byte, 65535)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

func TestNewUDPTransport(t *testing.T) {
	tr := NewUDPTransport("127.0.0.1:5353", newTestCodec(), log.NewNoopLogger())
	assert.Equal(t, "127.0.0.1:5353", tr.Address())
	assert.False(t, tr.running)
	assert.NoError(t, tr.Stop(), "stopping an unstarted transport is a no-op")
}

func TestUDPTransport_StartStop(t *testing.T) {
	logger := &MockLogger{}
	logger.On("Info", mock.Anything, "DNS transport started").Once()
	logger.On("Info", mock.Anything, "DNS transport stopped").Once()
	logger.On("Debug", mock.Anything, mock.Anything).Maybe()

	tr := NewUDPTransport("127.0.0.1:0", newTestCodec(), logger)
	require.NoError(t, tr.Start(context.Background(), newTestResponder()))
	assert.NotEqual(t, "127.0.0.1:0", tr.Address(), "address must report the bound port")

	err := tr.Start(context.Background(), newTestResponder())
	assert.ErrorContains(t, err, "already running")

	require.NoError(t, tr.Stop())
	assert.NoError(t, tr.Stop())
	assert.ErrorContains(t, tr.Start(context.Background(), newTestResponder()), "already stopped")
	logger.AssertExpectations(t)
}

func TestUDPTransport_BindFailure(t *testing.T) {
	occupied, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer occupied.Close()

	tr := NewUDPTransport(occupied.LocalAddr().String(), newTestCodec(), log.NewNoopLogger())
	err = tr.Start(context.Background(), newTestResponder())
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestUDPTransport_ExampleQuery(t *testing.T) {
	tr := startUDP(t, newTestResponder())

	reply, err := udpExchange(t, tr.Address(), packQuery(t, 0x1234, "example.com.", dns.TypeA))
	require.NoError(t, err)

	var m dns.Msg
	require.NoError(t, m.Unpack(reply))
	assert.Equal(t, uint16(0x1234), m.Id)
	assert.True(t, m.Response)
	assert.True(t, m.Authoritative)
	require.Len(t, m.Question, 1)
	assert.Equal(t, "example.com.", m.Question[0].Name)
	require.Len(t, m.Answer, 1)
	a := m.Answer[0].(*dns.A)
	assert.Equal(t, "127.0.0.1", a.A.String())
	assert.Equal(t, uint32(60), a.Hdr.Ttl)
}

func TestUDPTransport_MalformedIsDropped(t *testing.T) {
	handler := &MockDNSResponder{}
	tr := startUDP(t, handler)

	valid := packQuery(t, 7, "example.com.", dns.TypeA)
	for _, payload := range [][]byte{valid[:5], valid[:len(valid)-1], {0xff}} {
		_, err := udpExchangeTimeout(t, tr.Address(), payload, 300*time.Millisecond)
		require.Error(t, err)
		var ne net.Error
		require.ErrorAs(t, err, &ne)
		assert.True(t, ne.Timeout(), "no reply expected for malformed input")
	}
	handler.AssertNotCalled(t, "BuildResponse", mock.Anything, mock.Anything)
}

func TestUDPTransport_KeepsServingAfterGarbage(t *testing.T) {
	tr := startUDP(t, newTestResponder())

	conn, err := net.Dial("udp", tr.Address())
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write([]byte{0x01, 0x02, 0x03})
	require.NoError(t, err)

	reply, err := udpExchange(t, tr.Address(), packQuery(t, 99, "still.alive.", dns.TypeAAAA))
	require.NoError(t, err)
	var m dns.Msg
	require.NoError(t, m.Unpack(reply))
	assert.Equal(t, uint16(99), m.Id)
	require.Len(t, m.Answer, 1)
	assert.Equal(t, "::1", m.Answer[0].(*dns.AAAA).AAAA.String())
}

func TestUDPTransport_ConcurrentRequests(t *testing.T) {
	tr := startUDP(t, newTestResponder())

	const n = 32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id uint16) {
			defer wg.Done()
			client := &dns.Client{Net: "udp", Timeout: 2 * time.Second}
			m := new(dns.Msg)
			m.SetQuestion("concurrent.example.", dns.TypeTXT)
			m.Id = id
			resp, _, err := client.Exchange(m, tr.Address())
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, id, resp.Id)
			if assert.Len(t, resp.Answer, 1) {
				assert.Equal(t, []string{"dummy response"}, resp.Answer[0].(*dns.TXT).Txt)
			}
		}(uint16(1000 + i))
	}
	wg.Wait()
}

func TestUDPTransport_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tr := NewUDPTransport("127.0.0.1:0", newTestCodec(), log.NewNoopLogger())
	require.NoError(t, tr.Start(ctx, newTestResponder()))
	addr := tr.Address()

	cancel()

	// the port is released once the transport has shut down
	assert.Eventually(t, func() bool {
		pc, err := net.ListenPacket("udp", addr)
		if err != nil {
			return false
		}
		pc.Close()
		return true
	}, 2*time.Second, 20*time.Millisecond)
}

func TestUDPTransport_FromConn(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	tr := NewUDPTransportFromConn(pc, newTestCodec(), log.NewNoopLogger())
	assert.Equal(t, pc.LocalAddr().String(), tr.Address())
	require.NoError(t, tr.Start(context.Background(), newTestResponder()))
	defer tr.Stop()

	reply, err := udpExchange(t, tr.Address(), packQuery(t, 5, "activated.example.", dns.TypeNS))
	require.NoError(t, err)
	var m dns.Msg
	require.NoError(t, m.Unpack(reply))
	require.Len(t, m.Answer, 1)
	assert.Equal(t, "ns.example.com.", m.Answer[0].(*dns.NS).Ns)
}

func TestUDPTransport_InterfaceCompliance(t *testing.T) {
	var _ ServerTransport = NewUDPTransport("127.0.0.1:0", newTestCodec(), log.NewNoopLogger())
}
